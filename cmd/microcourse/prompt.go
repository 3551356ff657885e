package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// confirm asks a yes/no question and reads the answer from reader.
// Anything other than y or yes, including end of input, is a no.
func confirm(reader *bufio.Reader, w io.Writer, question string) (bool, error) {
	if _, err := color.New(color.Bold).Fprintf(w, "%s [y/N]: ", question); err != nil {
		return false, fmt.Errorf("write prompt: %w", err)
	}
	answer, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
