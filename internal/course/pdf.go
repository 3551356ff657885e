package course

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/mandolyte/mdtopdf"
)

// Markdown renders the course as one section per day.
func (c Course) Markdown() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", c.Name)
	if c.Category != "" || c.Language != "" {
		fmt.Fprintf(&sb, "*%s*\n\n", strings.Trim(c.Category+" / "+c.Language, " /"))
	}
	for _, day := range c.Days {
		if day.Title != "" {
			fmt.Fprintf(&sb, "## Day %d: %s\n\n", day.Number, day.Title)
		} else {
			fmt.Fprintf(&sb, "## Day %d\n\n", day.Number)
		}
		sb.WriteString(strings.TrimSpace(day.Content))
		sb.WriteString("\n\n")
		if day.MediaLink != "" {
			fmt.Fprintf(&sb, "Media: %s\n\n", day.MediaLink)
		}
	}
	return sb.String()
}

var unsafeFileChars = regexp.MustCompile(`[^a-z0-9]+`)

// FileName returns a file system safe base name for the course.
func (c Course) FileName() string {
	name := strings.Trim(unsafeFileChars.ReplaceAllString(strings.ToLower(c.Name), "-"), "-")
	if name == "" {
		name = "course"
	}
	return fmt.Sprintf("%d-%s", c.ID, name)
}

// ExportPDF writes the course day sheets as markdown and PDF into dir and returns the PDF path.
func ExportPDF(c Course, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("os.MkdirAll(%s) > %w", dir, err)
	}

	content := []byte(c.Markdown())
	base := filepath.Join(dir, c.FileName())
	if err := os.WriteFile(base+".md", content, 0o644); err != nil {
		return "", fmt.Errorf("os.WriteFile(%s.md) > %w", base, err)
	}

	pdfPath := base + ".pdf"
	renderer := mdtopdf.NewPdfRenderer("P", "A4", pdfPath, "", nil, mdtopdf.LIGHT)
	if err := renderer.Process(content); err != nil {
		return "", fmt.Errorf("renderer.Process() > %w", err)
	}

	absPath, err := filepath.Abs(pdfPath)
	if err != nil {
		return pdfPath, nil
	}
	return absPath, nil
}
