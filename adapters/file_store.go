package adapters

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// FileStore persists the snapshot as a JSON array in a single file. Every
// mutation rewrites the whole file through a temp-file-and-rename cycle, so a
// crash mid-write leaves the previous snapshot intact.
//
// The on-disk form is a bare ordered array of encoded record blobs with no
// version envelope; files written by older revisions load unchanged.
type FileStore struct {
	path string
}

// Ensure FileStore implements Store interface
var _ Store = (*FileStore)(nil)

// NewFileStore creates a new FileStore instance.
//
// Parameters:
//   - path: Path to the file where the snapshot will be stored
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Save atomically rewrites the snapshot file.
func (f *FileStore) Save(items [][]byte) error {
	data, err := json.Marshal(items)
	if err != nil {
		return errors.Wrap(err, "encoding snapshot")
	}

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".tmp-*")
	if err != nil {
		return errors.Wrap(err, "creating temp snapshot")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrap(err, "writing temp snapshot")
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrap(err, "syncing temp snapshot")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, "closing temp snapshot")
	}

	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, "replacing snapshot")
	}
	return nil
}

// Load reads the snapshot file. A missing file is an empty snapshot.
func (f *FileStore) Load() ([][]byte, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return [][]byte{}, nil
		}
		return nil, errors.Wrap(err, "reading snapshot")
	}
	var items [][]byte
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, errors.Wrap(err, "decoding snapshot")
	}
	return items, nil
}

// Clear removes the snapshot file.
func (f *FileStore) Clear() error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "removing snapshot")
	}
	return nil
}
