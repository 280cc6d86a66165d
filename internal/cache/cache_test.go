package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"strictivars/internal/ast"
	diag "strictivars/internal/errors"
)

func TestPutGet(t *testing.T) {
	c, err := Open(t.TempDir())
	require.NoError(t, err)

	key := KeyFor("test", "a.rb", "@a\n", "[]")
	_, ok, err := c.Get(key)
	require.NoError(t, err)
	assert.False(t, ok)

	d := diag.New(diag.Warning, diag.WarningUnassignedField, "never assigned", ast.Position{Line: 1, Column: 1}).
		WithSuggestion("did you mean '@b'?").
		Build()
	require.NoError(t, c.Put(key, &Entry{Path: "a.rb", Output: "guarded", Guards: 1, Diagnostics: []diag.Diagnostic{d}}))

	entry, ok, err := c.Get(key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "guarded", entry.Output)
	assert.Equal(t, 1, entry.Guards)
	assert.Equal(t, SchemaVersion, entry.Schema)
	assert.Equal(t, []diag.Diagnostic{d}, entry.Diagnostics)
}

func TestKeyDependsOnEveryInput(t *testing.T) {
	base := KeyFor("e", "p", "s", "o")
	assert.Equal(t, base, KeyFor("e", "p", "s", "o"))
	assert.NotEqual(t, base, KeyFor("e2", "p", "s", "o"))
	assert.NotEqual(t, base, KeyFor("e", "p2", "s", "o"))
	assert.NotEqual(t, base, KeyFor("e", "p", "s2", "o"))
	assert.NotEqual(t, base, KeyFor("e", "p", "s", "o2"))
	// Length prefixes keep field boundaries apart.
	assert.NotEqual(t, KeyFor("e", "ab", "c", ""), KeyFor("e", "a", "bc", ""))
}

func TestSchemaMismatch(t *testing.T) {
	c, err := Open(t.TempDir())
	require.NoError(t, err)
	key := KeyFor("e", "p", "s", "o")

	data, err := msgpack.Marshal(&Entry{Schema: SchemaVersion + 1})
	require.NoError(t, err)
	p := c.pathFor(key)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, data, 0o644))

	_, ok, err := c.Get(key)
	assert.False(t, ok)
	require.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestNilCache(t *testing.T) {
	var c *Cache
	_, ok, err := c.Get(Key{})
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, c.Put(Key{}, &Entry{}))
	assert.NoError(t, c.Clear())
}

func TestClear(t *testing.T) {
	c, err := Open(t.TempDir())
	require.NoError(t, err)
	key := KeyFor("e", "p", "s", "o")
	require.NoError(t, c.Put(key, &Entry{Output: "x"}))
	require.NoError(t, c.Clear())

	_, ok, err := c.Get(key)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDefaultDirUsesXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	dir, err := DefaultDir()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/xdg/strictivars", dir)
}
