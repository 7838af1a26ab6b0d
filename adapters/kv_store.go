package adapters

import (
	"encoding/json"

	"github.com/cockroachdb/pebble"
	"github.com/pkg/errors"
)

// KVStore persists the snapshot under a single key in an embedded Pebble
// database, the preference-store style backend: several queues can share one
// database directory, distinguished by their key. Writes are committed with a
// WAL sync so a committed snapshot survives process death.
type KVStore struct {
	db  *pebble.DB
	key []byte
}

// Ensure KVStore implements Store interface
var _ Store = (*KVStore)(nil)

// OpenKVStore creates or opens the Pebble database at dir and returns a store
// bound to key.
func OpenKVStore(dir, key string) (*KVStore, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, errors.Wrap(err, "opening kv store")
	}
	return &KVStore{db: db, key: []byte(key)}, nil
}

// NewKVStore binds a store to key on an already-open Pebble database. The
// caller keeps ownership of db.
func NewKVStore(db *pebble.DB, key string) *KVStore {
	return &KVStore{db: db, key: []byte(key)}
}

// Save replaces the snapshot stored under the key.
func (k *KVStore) Save(items [][]byte) error {
	data, err := json.Marshal(items)
	if err != nil {
		return errors.Wrap(err, "encoding snapshot")
	}
	if err := k.db.Set(k.key, data, pebble.Sync); err != nil {
		return errors.Wrap(err, "writing snapshot")
	}
	return nil
}

// Load reads the snapshot stored under the key. A missing key is an empty
// snapshot.
func (k *KVStore) Load() ([][]byte, error) {
	data, closer, err := k.db.Get(k.key)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return [][]byte{}, nil
		}
		return nil, errors.Wrap(err, "reading snapshot")
	}
	defer closer.Close()

	var items [][]byte
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, errors.Wrap(err, "decoding snapshot")
	}
	return items, nil
}

// Clear deletes the key.
func (k *KVStore) Clear() error {
	if err := k.db.Delete(k.key, pebble.Sync); err != nil {
		return errors.Wrap(err, "clearing snapshot")
	}
	return nil
}

// Close closes the underlying database. Only stores created with OpenKVStore
// should be closed; NewKVStore stores share a caller-owned database.
func (k *KVStore) Close() error {
	return k.db.Close()
}
