package workspace

import (
	"os"
	"path/filepath"
)

// TempPrefix starts the name of every temp file WriteFileAtomic creates.
const TempPrefix = ".blockcraft-tmp-"

// WriteFileAtomic writes data to path through a temp file in the same
// directory followed by a rename. On failure the original file is left
// unchanged. The parent directory must exist.
func WriteFileAtomic(fs FS, path string, data []byte, perm os.FileMode) error {
	tmpPath, w, err := fs.CreateTemp(filepath.Dir(path), TempPrefix+"*")
	if err != nil {
		return err
	}

	success := false
	defer func() {
		if !success {
			_ = fs.Remove(tmpPath)
		}
	}()

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	if err := fs.Chmod(tmpPath, perm); err != nil {
		return err
	}
	if err := fs.Rename(tmpPath, path); err != nil {
		return err
	}

	success = true
	return nil
}
