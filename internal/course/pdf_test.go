package course

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCourse_Markdown(t *testing.T) {
	c := Course{
		ID:       11,
		Name:     "Savings Basics",
		Category: "finance",
		Days: []Day{
			{Number: 1, Title: "Why save", Content: "Put a little aside.\n"},
			{Number: 2, Content: "Track spending.", MediaLink: "https://example.com/v.mp4"},
		},
	}

	assert.Equal(t, "# Savings Basics\n\n"+
		"*finance*\n\n"+
		"## Day 1: Why save\n\n"+
		"Put a little aside.\n\n"+
		"## Day 2\n\n"+
		"Track spending.\n\n"+
		"Media: https://example.com/v.mp4\n\n", c.Markdown())
}

func TestCourse_FileName(t *testing.T) {
	assert.Equal(t, "11-savings-basics-101", Course{ID: 11, Name: "Savings Basics: 101!"}.FileName())
	assert.Equal(t, "4-course", Course{ID: 4, Name: "???"}.FileName())
}

func TestExportPDF(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "outputs")
	c := Course{ID: 11, Name: "Savings", Days: []Day{{Number: 1, Title: "Start", Content: "Hello"}}}

	path, err := ExportPDF(c, dir)
	require.NoError(t, err)
	assert.Equal(t, "11-savings.pdf", filepath.Base(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
	_, err = os.Stat(filepath.Join(dir, "11-savings.md"))
	assert.NoError(t, err)
}
