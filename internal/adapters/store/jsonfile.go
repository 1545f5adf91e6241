// Package store persists the session and instance metadata as JSON files
// under the game directory.
package store

import (
	"encoding/json"
	"errors"
	"os"

	"go.trai.ch/quarry/internal/adapters/atomicfile"
	"go.trai.ch/quarry/internal/core/domain"
	"go.trai.ch/zerr"
)

// readJSON decodes path into v. It reports false when the file does not exist.
func readJSON(path string, v any) (bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "path", path)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "path", path)
	}
	return true, nil
}

// writeJSON encodes v to path through a temp file rename.
func writeJSON(path string, v any, perm os.FileMode) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "path", path)
	}

	if err := atomicfile.Write(path, data, perm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "path", path)
	}
	return nil
}
