package driver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"strictivars/internal/cache"
	"strictivars/internal/config"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestCollect(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "lib", "a.rb"), "@a\n")
	writeFile(t, filepath.Join(root, "lib", "b.rb"), "@b\n")
	writeFile(t, filepath.Join(root, "lib", "notes.txt"), "")
	writeFile(t, filepath.Join(root, "vendor", "c.rb"), "@c\n")
	writeFile(t, filepath.Join(root, ".git", "d.rb"), "@d\n")

	cfg := config.Default(root)
	cfg.Instrument.Exclude = []string{"vendor/**"}

	files, err := Collect([]string{root, filepath.Join(root, "vendor", "c.rb")}, cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "lib", "a.rb"),
		filepath.Join(root, "lib", "b.rb"),
		filepath.Join(root, "vendor", "c.rb"),
	}, files)
}

func TestCollectMissingPath(t *testing.T) {
	_, err := Collect([]string{filepath.Join(t.TempDir(), "nope")}, nil)
	assert.Error(t, err)
}

func TestRunKeepsInputOrder(t *testing.T) {
	root := t.TempDir()
	var files []string
	for _, name := range []string{"z.rb", "a.rb", "m.rb"} {
		path := filepath.Join(root, name)
		writeFile(t, path, "def "+name[:1]+"\n  @"+name[:1]+"\nend\n")
		files = append(files, path)
	}
	files = append(files, filepath.Join(root, "missing.rb"))

	results, err := Run(context.Background(), files, Options{Jobs: 2})
	require.NoError(t, err)
	require.Len(t, results, 4)
	for i, r := range results[:3] {
		assert.Equal(t, files[i], r.Path)
		require.NoError(t, r.Err)
		assert.Equal(t, 1, r.Guards)
		assert.True(t, r.Changed())
	}
	assert.Error(t, results[3].Err)
	assert.False(t, results[3].Changed())
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	path := filepath.Join(t.TempDir(), "a.rb")
	writeFile(t, path, "@a\n")

	_, err := Run(ctx, []string{path}, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestInstrumentUsesCache(t *testing.T) {
	c, err := cache.Open(t.TempDir())
	require.NoError(t, err)
	opts := Options{Cache: c, Engine: "test"}

	first := Instrument("a.rb", "@a\neval(s)\n", opts)
	require.NoError(t, first.Err)
	assert.False(t, first.CacheHit)
	assert.Equal(t, 1, first.Guards)
	assert.Equal(t, 1, first.Evals)
	require.NotEmpty(t, first.Diagnostics)

	second := Instrument("a.rb", "@a\neval(s)\n", opts)
	assert.True(t, second.CacheHit)
	assert.Equal(t, first.Output, second.Output)
	assert.Equal(t, first.Diagnostics, second.Diagnostics)

	other := Instrument("a.rb", "@a\neval(s)\n", Options{Cache: c, Engine: "other"})
	assert.False(t, other.CacheHit)
}

func TestInstrumentOptionsFromConfig(t *testing.T) {
	cfg := config.Default(t.TempDir())
	off := false
	cfg.Instrument.EvalRewrite = &off
	cfg.Instrument.Ignore = []string{"@a"}

	result := Instrument("x.rb", "@a\n@b\neval(s)\n", Options{Config: cfg})
	require.NoError(t, result.Err)
	assert.Equal(t, 1, result.Guards)
	assert.Equal(t, 0, result.Evals)
	assert.Contains(t, result.Output, "eval(s)\n")
}
