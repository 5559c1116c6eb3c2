package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultDriver, cfg.Database.Driver)
	assert.Equal(t, DefaultDSN, cfg.Database.DSN)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.Equal(t, "streak", cfg.Drill.PromotionPolicy)
	assert.Equal(t, 50, cfg.Drill.CandidateWindow)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Empty(t, cfg.Speech.Command)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	path := filepath.Join(dir, "vocabdrill.yaml")
	content := `
database:
  dsn: /tmp/drill.db
drill:
  promotion_policy: flat
  candidate_window: 10
log:
  format: json
speech:
  command: say
  args: ["-v", "Samantha"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Setenv("VOCABDRILL_LOG_LEVEL", "debug")
	t.Setenv("VOCABDRILL_DRILL_CANDIDATE_WINDOW", "20")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/drill.db", cfg.Database.DSN)
	assert.Equal(t, "flat", cfg.Drill.PromotionPolicy)
	assert.Equal(t, 20, cfg.Drill.CandidateWindow, "environment overrides the file")
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "say", cfg.Speech.Command)
	assert.Equal(t, []string{"-v", "Samantha"}, cfg.Speech.Args)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("VOCABDRILL_DATABASE_DRIVER=postgres\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("VOCABDRILL_DATABASE_DRIVER") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Database.Driver)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		env  string
		val  string
	}{
		{"unknown driver", "VOCABDRILL_DATABASE_DRIVER", "mysql"},
		{"unknown policy", "VOCABDRILL_DRILL_PROMOTION_POLICY", "sm2"},
		{"window below one", "VOCABDRILL_DRILL_CANDIDATE_WINDOW", "0"},
		{"unknown log format", "VOCABDRILL_LOG_FORMAT", "xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdir(t, t.TempDir())
			t.Setenv(tt.env, tt.val)

			_, err := Load("")
			require.Error(t, err)
			assert.Contains(t, err.Error(), "validation failed")
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	chdir(t, t.TempDir())
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
