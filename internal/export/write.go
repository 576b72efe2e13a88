package export

import (
	"os"
	"path/filepath"
)

// WriteFile replaces path with content via a temporary file in the same
// directory. On any error path is left untouched and the temporary file is
// removed, so a failed write never leaves a partial document.
func WriteFile(path, content string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".msve-edl-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
