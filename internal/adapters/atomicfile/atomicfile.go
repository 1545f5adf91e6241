// Package atomicfile replaces files through a temp file rename so readers
// never observe a partial write.
package atomicfile

import (
	"os"
	"path/filepath"

	"go.trai.ch/quarry/internal/core/domain"
)

// Write stores data at path with permission perm, creating parent
// directories. The temp file lives next to path so the rename stays on one
// filesystem. A zero perm means domain.FilePerm.
func Write(path string, data []byte, perm os.FileMode) error {
	if perm == 0 {
		perm = domain.FilePerm
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	renamed := false
	defer func() {
		if !renamed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	renamed = true
	return nil
}
