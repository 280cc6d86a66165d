package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--color", "off", "--no-cache"}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

// project lays out a config and source files below a temporary directory.
func project(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	files["strictivars.toml"] = "[instrument]\ninclude = [\"**/*.rb\"]\n"
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func TestInstrumentMirrorsTree(t *testing.T) {
	root := project(t, map[string]string{
		"lib/a.rb":     "def a = @a\n",
		"lib/sub/b.rb": "def b = @b\n",
	})
	out := filepath.Join(root, "out")

	_, err := execute(t, "--config", filepath.Join(root, "strictivars.toml"),
		"instrument", filepath.Join(root, "lib"), "--out", out)
	require.NoError(t, err)

	a, err := os.ReadFile(filepath.Join(out, "lib", "a.rb"))
	require.NoError(t, err)
	assert.Contains(t, string(a), "defined?(@a)")
	b, err := os.ReadFile(filepath.Join(out, "lib", "sub", "b.rb"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "defined?(@b)")
}

func TestInstrumentSingleFileToStdout(t *testing.T) {
	root := project(t, map[string]string{"a.rb": "@x = 1\n@x\n"})

	output, err := execute(t, "--config", filepath.Join(root, "strictivars.toml"),
		"instrument", filepath.Join(root, "a.rb"), "--out", "")
	require.NoError(t, err)
	assert.Equal(t, "@x = 1\n(defined?(@x) ? @x : (::Kernel.raise(::StrictIvars::NameError.new(self, :@x))))\n", output)
}

func TestInstrumentManyFilesNeedsOut(t *testing.T) {
	root := project(t, map[string]string{"a.rb": "@a\n", "b.rb": "@b\n"})

	_, err := execute(t, "--config", filepath.Join(root, "strictivars.toml"),
		"instrument", root, "--out", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "use --out")
}

func TestCheck(t *testing.T) {
	root := project(t, map[string]string{
		"ok.rb": "def initialize\n  @name = 1\nend\n\ndef name = @nmae\n",
	})
	output, err := execute(t, "--config", filepath.Join(root, "strictivars.toml"), "check", root)
	require.NoError(t, err)
	assert.Contains(t, output, "W0800")
	assert.Contains(t, output, "did you mean '@name'?")
	assert.Contains(t, output, "checked 1 files")

	root = project(t, map[string]string{"bad.rb": "def foo(\n"})
	output, err = execute(t, "--config", filepath.Join(root, "strictivars.toml"), "check", root)
	require.Error(t, err)
	assert.Contains(t, output, "E0101")
}

func TestVersionJSON(t *testing.T) {
	output, err := execute(t, "version", "--format", "json")
	require.NoError(t, err)

	var payload versionPayload
	require.NoError(t, json.Unmarshal([]byte(output), &payload))
	assert.Equal(t, "strictivars", payload.Tool)
	assert.Equal(t, version, payload.Version)

	_, err = execute(t, "version", "--format", "yaml")
	assert.Error(t, err)
	versionFormat = "pretty"
}

func TestBadColorMode(t *testing.T) {
	rootCmd.SetArgs([]string{"--color", "sometimes", "version"})
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	assert.Error(t, rootCmd.Execute())
	require.NoError(t, rootCmd.PersistentFlags().Set("color", "off"))
}

func TestOutputPath(t *testing.T) {
	root := t.TempDir()
	assert.Equal(t, filepath.Join("out", "lib", "a.rb"), outputPath(root, "out", filepath.Join(root, "lib", "a.rb")))
	assert.Equal(t, filepath.Join("out", "x.rb"), outputPath(filepath.Join(root, "sub"), "out", filepath.Join(root, "x.rb")))
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{500 * time.Nanosecond, "500ns"},
		{1500 * time.Nanosecond, "1.5μs"},
		{2500 * time.Microsecond, "2.5ms"},
		{1500 * time.Millisecond, "1.50s"},
		{90 * time.Second, "1.50min"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatDuration(tt.d))
	}
}
