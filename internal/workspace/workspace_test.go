package workspace

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertNoTempFiles(t *testing.T, dir string) {
	t.Helper()
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		require.NoError(t, err)
		assert.False(t, strings.HasPrefix(d.Name(), ".blockcraft-tmp-"), "temp file left behind: %s", path)
		return nil
	})
	require.NoError(t, err)
}

func TestWriteFileAtomic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "package.json")
	fsys := NewRealFS()

	require.NoError(t, WriteFileAtomic(fsys, path, []byte("{}\n"), 0o644))
	require.NoError(t, WriteFileAtomic(fsys, path, []byte("{\"a\": 1}\n"), 0o600))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\"a\": 1}\n", string(got))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	assertNoTempFiles(t, dir)
}

// failingFS fails renames so the temp file cleanup path runs.
type failingFS struct {
	*RealFS
}

func (failingFS) Rename(string, string) error { return errors.New("rename failed") }

func TestWriteFileAtomic_CleansUpOnFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "keep.txt")
	require.NoError(t, os.WriteFile(path, []byte("original"), 0o644))

	err := WriteFileAtomic(failingFS{NewRealFS()}, path, []byte("new"), 0o644)
	require.Error(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "original", string(got))
	assertNoTempFiles(t, dir)
}

type shortWriter struct{}

func (shortWriter) Write([]byte) (int, error) { return 0, io.ErrShortWrite }
func (shortWriter) Close() error              { return nil }

type shortWriteFS struct {
	*RealFS
	removed []string
}

func (s *shortWriteFS) CreateTemp(dir, pattern string) (string, io.WriteCloser, error) {
	return filepath.Join(dir, "tmp"), shortWriter{}, nil
}

func (s *shortWriteFS) Remove(path string) error {
	s.removed = append(s.removed, path)
	return nil
}

func TestWriteFileAtomic_WriteError(t *testing.T) {
	t.Parallel()

	fsys := &shortWriteFS{RealFS: NewRealFS()}
	err := WriteFileAtomic(fsys, "/project/a.txt", []byte("x"), 0o644)
	require.ErrorIs(t, err, io.ErrShortWrite)
	assert.Equal(t, []string{filepath.Join("/project", "tmp")}, fsys.removed)
}

func TestApply(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "same.txt"), []byte("same"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "old.txt"), []byte("old"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".eslintrc.json"), []byte("{}"), 0o644))

	plan := Plan{
		Files: map[string]string{
			"same.txt":                   "same",
			"old.txt":                    "new",
			".github/workflows/lint.yml": "name: Lint\n",
			"src/index.ts":               "export {};\n",
		},
		Removals: []string{".eslintrc.json", ".eslintrc.js", "old.txt"},
	}

	dry, err := Apply(NewRealFS(), root, plan, Options{DryRun: true})
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(root, "src", "index.ts"))
	assert.True(t, os.IsNotExist(err), "dry run must not write")
	_, err = os.Stat(filepath.Join(root, ".eslintrc.json"))
	assert.NoError(t, err, "dry run must not remove")

	changes, err := Apply(NewRealFS(), root, plan, Options{})
	require.NoError(t, err)
	assert.Equal(t, dry, changes)

	assert.Equal(t, []Change{
		{Path: ".eslintrc.json", Action: ActionRemoved},
		{Path: ".github/workflows/lint.yml", Action: ActionCreated},
		{Path: "old.txt", Action: ActionUpdated},
		{Path: "same.txt", Action: ActionUnchanged},
		{Path: "src/index.ts", Action: ActionCreated},
	}, changes)

	got, err := os.ReadFile(filepath.Join(root, ".github", "workflows", "lint.yml"))
	require.NoError(t, err)
	assert.Equal(t, "name: Lint\n", string(got))
	_, err = os.Stat(filepath.Join(root, ".eslintrc.json"))
	assert.True(t, os.IsNotExist(err))

	again, err := Apply(NewRealFS(), root, plan, Options{})
	require.NoError(t, err)
	assert.Equal(t, map[Action]int{ActionUnchanged: 4}, Summary(again))
	assertNoTempFiles(t, root)
}

func TestApply_RejectsUnsafePaths(t *testing.T) {
	t.Parallel()

	tests := map[string]Plan{
		"parent":        {Files: map[string]string{"../escape.txt": "x"}},
		"absolute":      {Files: map[string]string{"/etc/passwd": "x"}},
		"nested parent": {Files: map[string]string{"a/../../b": "x"}},
		"dot":           {Removals: []string{"."}},
	}

	for name, plan := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := Apply(NewRealFS(), t.TempDir(), plan, Options{})
			var unsafe *UnsafePathError
			require.ErrorAs(t, err, &unsafe)
		})
	}
}
