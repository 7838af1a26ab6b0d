package courier

import (
	"sync"

	"github.com/courierhq/courier-go/adapters"
)

// EventQueue is a FIFO of EventRecords layered on a durable Store. Every
// mutation persists the resulting snapshot before returning, so callers may
// assume durability on return, to the extent the backend offers any.
//
// Store failures never propagate: a failed load starts the queue empty, a
// failed write keeps serving the in-memory state. Both are logged.
type EventQueue struct {
	mu     sync.Mutex
	store  adapters.Store
	recs   []EventRecord
	logger adapters.Logger
}

// NewEventQueue opens a queue over store, loading whatever snapshot it holds.
// Entries that no longer decode are logged and skipped.
func NewEventQueue(store adapters.Store, logger adapters.Logger) *EventQueue {
	q := &EventQueue{store: store, logger: logger}

	blobs, err := store.Load()
	if err != nil {
		logger.Error("loading queue snapshot: %v", err)
		return q
	}
	for _, blob := range blobs {
		rec, err := decodeRecord(blob)
		if err != nil {
			q.logger.Error("skipping undecodable record: %v", err)
			continue
		}
		q.recs = append(q.recs, rec)
	}
	return q
}

// Save appends a record to the tail and persists.
func (q *EventQueue) Save(rec EventRecord) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.recs = append(q.recs, rec)
	q.persist()
}

// GetFirst returns the head record without removing it.
// It returns false if the queue is empty.
func (q *EventQueue) GetFirst() (EventRecord, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.recs) == 0 {
		return EventRecord{}, false
	}
	return q.recs[0], true
}

// GetLast returns the tail record without removing it.
// It returns false if the queue is empty.
func (q *EventQueue) GetLast() (EventRecord, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.recs) == 0 {
		return EventRecord{}, false
	}
	return q.recs[len(q.recs)-1], true
}

// FirstN returns up to n head records in order without removing them.
func (q *EventQueue) FirstN(n int) []EventRecord {
	q.mu.Lock()
	defer q.mu.Unlock()
	if n > len(q.recs) {
		n = len(q.recs)
	}
	head := make([]EventRecord, n)
	copy(head, q.recs[:n])
	return head
}

// RemoveFirst removes and returns the head record.
// It returns false if the queue is empty.
func (q *EventQueue) RemoveFirst() (EventRecord, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.recs) == 0 {
		return EventRecord{}, false
	}
	rec := q.recs[0]
	q.recs = q.recs[1:]
	q.persist()
	return rec, true
}

// RemoveLast removes and returns the tail record.
// It returns false if the queue is empty.
func (q *EventQueue) RemoveLast() (EventRecord, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.recs) == 0 {
		return EventRecord{}, false
	}
	rec := q.recs[len(q.recs)-1]
	q.recs = q.recs[:len(q.recs)-1]
	q.persist()
	return rec, true
}

// RemoveFirstN removes up to n head records with a single persist. The flush
// loop uses this after the Sender confirms a batch.
func (q *EventQueue) RemoveFirstN(n int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if n > len(q.recs) {
		n = len(q.recs)
	}
	q.recs = q.recs[n:]
	q.persist()
}

// Count returns the number of queued records.
func (q *EventQueue) Count() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.recs)
}

// Clear removes all records and persists the empty state.
func (q *EventQueue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.recs = nil
	if err := q.store.Clear(); err != nil {
		q.logger.Error("clearing queue snapshot: %v", err)
	}
}

// persist writes the current state through the store. Callers hold q.mu.
func (q *EventQueue) persist() {
	blobs := make([][]byte, 0, len(q.recs))
	for _, rec := range q.recs {
		blob, err := encodeRecord(rec)
		if err != nil {
			q.logger.Error("dropping unencodable record: %v", err)
			continue
		}
		blobs = append(blobs, blob)
	}
	if err := q.store.Save(blobs); err != nil {
		q.logger.Error("persisting queue snapshot: %v", err)
	}
}
