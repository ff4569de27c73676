package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "sqlmodel", cfg.Target)
	assert.Equal(t, "postgres", cfg.Dialect)
	assert.Equal(t, HighlightAuto, cfg.Highlight)
	assert.Empty(t, cfg.Output)
	assert.False(t, cfg.ExplicitTableNames)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dmddl.yaml")
	data := `target: drizzle
output: models.ts
highlight: Never
explicit_table_names: true
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "drizzle", cfg.Target)
	assert.Equal(t, "models.ts", cfg.Output)
	assert.Equal(t, HighlightNever, cfg.Highlight)
	assert.True(t, cfg.ExplicitTableNames)
	assert.Equal(t, "postgres", cfg.Dialect)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorContains(t, err, "read config")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("target: [unclosed"), 0o644))
	_, err = Load(bad)
	assert.ErrorContains(t, err, "parse config")

	mode := filepath.Join(dir, "mode.yaml")
	require.NoError(t, os.WriteFile(mode, []byte("highlight: sometimes\n"), 0o644))
	_, err = Load(mode)
	assert.ErrorContains(t, err, "invalid highlight mode")
}

func TestApplyEnv(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.ApplyEnv(envMap(map[string]string{
		"DMDDL_TARGET":               "ddl",
		"DMDDL_STYLE":                "",
		"DMDDL_VERBOSE":              "true",
		"DMDDL_EXPLICIT_TABLE_NAMES": "1",
	}))
	require.NoError(t, err)
	assert.Equal(t, "ddl", cfg.Target)
	assert.Equal(t, "monokai", cfg.Style)
	assert.True(t, cfg.Verbose)
	assert.True(t, cfg.ExplicitTableNames)

	err = cfg.ApplyEnv(envMap(map[string]string{"DMDDL_VERBOSE": "loud"}))
	assert.ErrorContains(t, err, "DMDDL_VERBOSE")
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("DMDDL_TEST_ONLY_OUTPUT=from-dotenv\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("DMDDL_TEST_ONLY_OUTPUT") })

	LoadEnv(path, filepath.Join(t.TempDir(), "missing.env"))
	assert.Equal(t, "from-dotenv", os.Getenv("DMDDL_TEST_ONLY_OUTPUT"))
}
