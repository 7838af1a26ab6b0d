package adapters

// Store is an interface for durable queue snapshots. Items are opaque encoded
// record blobs; the store preserves their order but never inspects them.
// Implement this interface to use custom storage backends.
type Store interface {
	// Save atomically replaces the stored snapshot with items.
	Save(items [][]byte) error

	// Load returns the stored snapshot in its original order. A store that
	// has never been written returns an empty slice, not an error.
	Load() ([][]byte, error)

	// Clear removes the stored snapshot.
	Clear() error
}
