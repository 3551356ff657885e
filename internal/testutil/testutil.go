// Package testutil provides shared test helpers for mocked databases, config files and course fixtures.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// NewMockDB returns a sqlx handle backed by sqlmock. The handle is closed when the test ends.
func NewMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return sqlx.NewDb(db, "mysql"), mock
}

// SetupTestConfig creates a minimal config file and the course directories it points at.
// Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string) string {
	t.Helper()

	dirs := []string{"courses", "outputs"}
	for _, d := range dirs {
		require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, d), 0755))
	}

	configContent := fmt.Sprintf(`database:
  host: localhost
  database: microcourse_test
  username: tester
auth:
  session_secret: test-secret
learners:
  default_country_code: "+91"
courses:
  definitions_directory: %s
  export_directory: %s
`,
		filepath.Join(tmpDir, "courses"),
		filepath.Join(tmpDir, "outputs"),
	)

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}

// CourseDay is a day entry of a course definition fixture.
type CourseDay struct {
	Title   string `yaml:"title"`
	Content string `yaml:"content"`
}

// CourseDefinitionOption configures optional fields of a course definition fixture.
type CourseDefinitionOption func(map[string]any)

// WithRequestID sets the request id of the course definition fixture.
func WithRequestID(id string) CourseDefinitionOption {
	return func(def map[string]any) {
		def["request_id"] = id
	}
}

// WithStatus sets the status of the course definition fixture.
func WithStatus(status string) CourseDefinitionOption {
	return func(def map[string]any) {
		def["status"] = status
	}
}

// WriteCourseDefinition writes a course definition YAML file named after fileName into dir.
// By default the course is active and public.
func WriteCourseDefinition(t *testing.T, dir, fileName, name string, days []CourseDay, opts ...CourseDefinitionOption) string {
	t.Helper()

	def := map[string]any{
		"name":       name,
		"status":     "active",
		"visibility": "public",
		"days":       days,
	}
	for _, opt := range opts {
		opt(def)
	}

	content, err := yaml.Marshal(def)
	require.NoError(t, err)
	path := filepath.Join(dir, fileName)
	require.NoError(t, os.WriteFile(path, content, 0644))
	return path
}
