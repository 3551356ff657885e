package course

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Definition is a course as authored in a YAML file.
type Definition struct {
	RequestID  string          `yaml:"request_id,omitempty"`
	Name       string          `yaml:"name"`
	Category   string          `yaml:"category,omitempty"`
	Language   string          `yaml:"language,omitempty"`
	Status     Status          `yaml:"status,omitempty"`
	Visibility Visibility      `yaml:"visibility,omitempty"`
	Days       []DefinitionDay `yaml:"days"`
}

type DefinitionDay struct {
	Day       int    `yaml:"day,omitempty"`
	Title     string `yaml:"title"`
	Content   string `yaml:"content"`
	MediaLink string `yaml:"media_link,omitempty"`
}

// Validate fills defaults and checks required fields.
func (d *Definition) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if len(d.Days) == 0 {
		return fmt.Errorf("%s: at least one day is required", d.Name)
	}
	if d.Status == "" {
		d.Status = StatusDraft
	}
	if !d.Status.Valid() {
		return fmt.Errorf("%s: %q: %w", d.Name, d.Status, ErrInvalidStatus)
	}
	if d.Visibility == "" {
		d.Visibility = VisibilityPrivate
	}
	if !d.Visibility.Valid() {
		return fmt.Errorf("%s: unknown visibility %q", d.Name, d.Visibility)
	}
	seen := make(map[int]bool, len(d.Days))
	for i := range d.Days {
		if d.Days[i].Day == 0 {
			d.Days[i].Day = i + 1
		}
		if seen[d.Days[i].Day] {
			return fmt.Errorf("%s: day %d is defined twice", d.Name, d.Days[i].Day)
		}
		seen[d.Days[i].Day] = true
	}
	return nil
}

// Rows converts the definition into stored rows.
func (d Definition) Rows(createdBy *int64) []*Row {
	rows := make([]*Row, 0, len(d.Days))
	for _, day := range d.Days {
		rows = append(rows, &Row{
			RequestID:  d.RequestID,
			CourseName: d.Name,
			Category:   d.Category,
			Language:   d.Language,
			Status:     d.Status,
			Visibility: d.Visibility,
			Day:        day.Day,
			Title:      day.Title,
			Content:    day.Content,
			MediaLink:  day.MediaLink,
			CreatedBy:  createdBy,
		})
	}
	return rows
}

// LoadDefinitions reads every .yml and .yaml file under dir. Each file holds one course.
func LoadDefinitions(dir string) ([]Definition, error) {
	var definitions []Definition
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		ext := filepath.Ext(path)
		if ext != ".yml" && ext != ".yaml" {
			return nil
		}

		def, err := readDefinitionFile(path)
		if err != nil {
			return err
		}
		definitions = append(definitions, def)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk course definitions directory %s: %w", dir, err)
	}

	sort.Slice(definitions, func(i, j int) bool {
		return definitions[i].Name < definitions[j].Name
	})
	return definitions, nil
}

func readDefinitionFile(path string) (Definition, error) {
	f, err := os.Open(path)
	if err != nil {
		return Definition{}, fmt.Errorf("os.Open(%s) > %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	var def Definition
	if err := yaml.NewDecoder(f).Decode(&def); err != nil {
		return Definition{}, fmt.Errorf("yaml.Decode(%s) > %w", path, err)
	}
	if err := def.Validate(); err != nil {
		return Definition{}, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

// ImportResult tracks counts for each import outcome.
type ImportResult struct {
	CoursesNew     int
	CoursesSkipped int
	DaysNew        int
}

// ImportDefinitions stores courses that do not exist yet. A course exists when its
// request id, or its name for courses without a request id, is already stored.
func (c *Catalog) ImportDefinitions(ctx context.Context, defs []Definition, createdBy *int64, dryRun bool, w io.Writer) (*ImportResult, error) {
	existing, err := c.repo.FindRows(ctx, Filter{})
	if err != nil {
		return nil, fmt.Errorf("load existing courses: %w", err)
	}
	known := make(map[string]bool)
	for _, r := range existing {
		known[r.groupKey()] = true
	}

	result := &ImportResult{}
	var rows []*Row
	for _, def := range defs {
		if err := def.Validate(); err != nil {
			return nil, err
		}
		newRows := def.Rows(createdBy)
		key := newRows[0].groupKey()
		if known[key] {
			result.CoursesSkipped++
			_, _ = fmt.Fprintf(w, "  [SKIP] %s\n", def.Name)
			continue
		}
		known[key] = true
		rows = append(rows, newRows...)
		result.CoursesNew++
		result.DaysNew += len(newRows)
		_, _ = fmt.Fprintf(w, "  [NEW]  %s (%d days)\n", def.Name, len(newRows))
	}

	if !dryRun && len(rows) > 0 {
		if err := c.repo.BatchCreate(ctx, rows); err != nil {
			return nil, fmt.Errorf("batch create courses: %w", err)
		}
	}
	return result, nil
}
