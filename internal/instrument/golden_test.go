package instrument

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"
)

var update = flag.Bool("update", false, "rewrite the output.rb section of golden files")

func TestGolden(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "*.txtar"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, file := range files {
		t.Run(filepath.Base(file), func(t *testing.T) {
			archive, err := txtar.ParseFile(file)
			require.NoError(t, err)

			input, want := section(archive, "input.rb"), section(archive, "output.rb")
			require.NotNil(t, input, "missing input.rb")

			result, err := Process(file, string(input.Data))
			require.NoError(t, err)
			require.False(t, result.HasErrors(), "parse errors: %v %v", result.ParseErrors, result.ScanErrors)

			if *update {
				if want == nil {
					archive.Files = append(archive.Files, txtar.File{Name: "output.rb"})
					want = &archive.Files[len(archive.Files)-1]
				}
				want.Data = []byte(result.Output)
				require.NoError(t, os.WriteFile(file, txtar.Format(archive), 0o644))
				return
			}

			require.NotNil(t, want, "missing output.rb")
			if diff := cmp.Diff(string(want.Data), result.Output); diff != "" {
				t.Errorf("output mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func section(archive *txtar.Archive, name string) *txtar.File {
	for i := range archive.Files {
		if archive.Files[i].Name == name {
			return &archive.Files[i]
		}
	}
	return nil
}
