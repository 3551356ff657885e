package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/microcourse/internal/testutil"
)

func TestLoadConfig(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := testutil.SetupTestConfig(t, tmpDir)

	tests := []struct {
		name       string
		configFile string
		env        string
	}{
		{name: "flag", configFile: cfgPath},
		{name: "environment fallback", env: cfgPath},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := configFile
			t.Cleanup(func() { configFile = original })
			configFile = tt.configFile
			t.Setenv(configEnv, tt.env)

			cfg, err := loadConfig()
			require.NoError(t, err)
			assert.Equal(t, "microcourse_test", cfg.Database.Database)
			assert.Equal(t, "+91", cfg.Learners.DefaultCountryCode)
			assert.Equal(t, filepath.Join(tmpDir, "courses"), cfg.Courses.DefinitionsDirectory)
		})
	}
}
