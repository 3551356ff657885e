package learner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/at-ishikawa/microcourse/internal/sheet"
)

// ErrPhoneColumnNotFound is returned when no column could be mapped to the phone field.
var ErrPhoneColumnNotFound = errors.New("no phone column found; pass an explicit column mapping")

// ImportResult tracks counts for each import outcome.
type ImportResult struct {
	Created int
	Skipped int
	Invalid int
	// Problems lists one line per skipped or invalid row.
	Problems []RowProblem
}

// RowProblem describes why a spreadsheet row was not imported. Row is 1-based and counts the header.
type RowProblem struct {
	Row    int
	Reason string
}

// ImportOptions controls import behavior.
type ImportOptions struct {
	DryRun bool
	// Columns overrides the guessed header for a field.
	Columns   map[Field]string
	CreatedBy *int64
}

// Importer reads learner spreadsheets and writes new learners to the repository.
type Importer struct {
	repo               Repository
	defaultCountryCode string
	writer             io.Writer
}

// NewImporter creates a new Importer.
func NewImporter(repo Repository, defaultCountryCode string, writer io.Writer) *Importer {
	return &Importer{
		repo:               repo,
		defaultCountryCode: defaultCountryCode,
		writer:             writer,
	}
}

// ImportFile reads an .xlsx or .csv file and imports its rows.
func (imp *Importer) ImportFile(ctx context.Context, path string, opts ImportOptions) (*ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("os.Open(%s) > %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	rows, err := sheet.Read(f, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	return imp.Import(ctx, rows, opts)
}

// Import creates a learner for each data row. The first row is the header.
// Rows whose phone already exists, in the repository or earlier in the file, are skipped.
func (imp *Importer) Import(ctx context.Context, rows [][]string, opts ImportOptions) (*ImportResult, error) {
	result := &ImportResult{}
	if len(rows) == 0 {
		return result, nil
	}

	mapping, missing := ResolveMapping(rows[0], opts.Columns)
	if len(missing) > 0 {
		return nil, fmt.Errorf("columns not found in header: %s", strings.Join(missing, ", "))
	}
	if _, ok := mapping[FieldPhone]; !ok {
		return nil, ErrPhoneColumnNotFound
	}
	for _, field := range Fields {
		if column, ok := mapping[field]; ok {
			_, _ = fmt.Fprintf(imp.writer, "  %-5s <- %q\n", field, rows[0][column])
		}
	}

	existing, err := imp.repo.FindAll(ctx, Filter{})
	if err != nil {
		return nil, fmt.Errorf("load existing learners: %w", err)
	}
	seen := make(map[string]bool, len(existing))
	for _, l := range existing {
		seen[l.Phone] = true
	}

	var learners []*Learner
	for i, row := range rows[1:] {
		rowNumber := i + 2
		if isBlankRow(row) {
			continue
		}
		l, reason := imp.parseRow(row, mapping)
		if reason != "" {
			result.Invalid++
			result.Problems = append(result.Problems, RowProblem{Row: rowNumber, Reason: reason})
			_, _ = fmt.Fprintf(imp.writer, "  [INVALID] row %d: %s\n", rowNumber, reason)
			continue
		}
		if seen[l.Phone] {
			result.Skipped++
			result.Problems = append(result.Problems, RowProblem{Row: rowNumber, Reason: "duplicate phone " + l.Phone})
			_, _ = fmt.Fprintf(imp.writer, "  [SKIP] row %d: %s already exists\n", rowNumber, l.Phone)
			continue
		}
		seen[l.Phone] = true
		l.CreatedBy = opts.CreatedBy
		learners = append(learners, l)
		result.Created++
		_, _ = fmt.Fprintf(imp.writer, "  [NEW]  %s (%s)\n", l.Name, l.Phone)
	}

	if !opts.DryRun && len(learners) > 0 {
		if err := imp.repo.BatchCreate(ctx, learners); err != nil {
			return nil, fmt.Errorf("batch create learners: %w", err)
		}
	}
	return result, nil
}

func (imp *Importer) parseRow(row []string, mapping ColumnMapping) (*Learner, string) {
	cell := func(field Field) string {
		column, ok := mapping[field]
		if !ok || column >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[column])
	}

	rawPhone := cell(FieldPhone)
	if rawPhone == "" {
		return nil, "phone is empty"
	}
	phone, err := NormalizePhone(rawPhone, imp.defaultCountryCode)
	if err != nil {
		return nil, err.Error()
	}

	var email string
	if raw := cell(FieldEmail); raw != "" {
		email, err = NormalizeEmail(raw)
		if err != nil {
			return nil, fmt.Sprintf("invalid email %q", raw)
		}
	}

	name := cell(FieldName)
	if name == "" {
		name = phone
	}
	return &Learner{
		Name:   name,
		Email:  email,
		Phone:  phone,
		Status: StatusActive,
	}, ""
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
