package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Default("/src")
	assert.True(t, cfg.EvalRewrite())
	assert.True(t, cfg.CacheEnabled())
	assert.True(t, cfg.Matches("app/models/user.rb"))
	assert.False(t, cfg.Matches("README.md"))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
[instrument]
include = ["lib/**/*.rb", "app/**/*.rb"]
exclude = ["**/vendor/**"]
eval_rewrite = false
ignore = ["@cache"]

[cache]
enabled = false
dir = "tmp/cache"

[run]
jobs = 4
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.Root)
	assert.False(t, cfg.EvalRewrite())
	assert.False(t, cfg.CacheEnabled())
	assert.Equal(t, "tmp/cache", cfg.Cache.Dir)
	assert.Equal(t, 4, cfg.Run.Jobs)
	assert.Equal(t, []string{"@cache"}, cfg.Instrument.Ignore)

	assert.True(t, cfg.Matches("lib/a/b.rb"))
	assert.True(t, cfg.Matches(filepath.Join(dir, "app", "x.rb")))
	assert.False(t, cfg.Matches("lib/vendor/gem.rb"))
	assert.False(t, cfg.Matches("spec/x_spec.rb"))
	assert.False(t, cfg.Matches(filepath.Join(filepath.Dir(dir), "elsewhere.rb")))
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "[instrument]\ninclud = [\"*.rb\"]\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "instrument.includ")
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"glob":   "[instrument]\ninclude = [\"[\"]\n",
		"ignore": "[instrument]\nignore = [\"name\"]\n",
		"jobs":   "[run]\njobs = -1\n",
		"empty":  "[instrument]\ninclude = []\n",
		"syntax": "[instrument\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, t.TempDir(), content))
			assert.Error(t, err)
		})
	}
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	path, err := Find(nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, FileName), path)

	cfg, err := Discover(nested)
	require.NoError(t, err)
	assert.Equal(t, root, cfg.Root)
}

func TestDiscoverWithoutConfig(t *testing.T) {
	dir := t.TempDir()
	_, err := Find(dir)
	if err == nil {
		t.Skip("a strictivars.toml exists above the temp directory")
	}
	require.ErrorIs(t, err, ErrNoConfig)

	cfg, err := Discover(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.Root)
	assert.Empty(t, cfg.Path)
}
