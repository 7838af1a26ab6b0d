package courier

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/courierhq/courier-go/adapters"
)

// Re-export adapter types for convenience
type (
	Store     = adapters.Store
	Sender    = adapters.Sender
	Logger    = adapters.Logger
	LogLevel  = adapters.LogLevel
	HTTPError = adapters.HTTPError
)

// DefaultDestination is the built-in collector endpoint, used when neither
// the record nor the process default names one.
const DefaultDestination = "https://collector.courierhq.dev/v1/events"

const (
	defaultBatchSize   = 10
	defaultStoreID     = "courier_events"
	defaultSendTimeout = 10 * time.Second
)

// Backend selects the durable store implementation backing a queue.
type Backend string

const (
	// BackendMemory keeps the queue in process memory only.
	BackendMemory Backend = "memory"
	// BackendFile snapshots the queue to a JSON file, rewritten atomically.
	BackendFile Backend = "file"
	// BackendKV snapshots the queue under a key in an embedded Pebble
	// database, the preference-store style backend.
	BackendKV Backend = "kv"
)

// EventRecord is one unit of telemetry queued for delivery.
//
// Payload is opaque to the pipeline. Destination is optional; when empty the
// record resolves against the process default at send time, not at enqueue
// time. ID is assigned on dispatch when zero and correlates the record with
// its completion callback across the flush that ships it.
type EventRecord struct {
	ID          uuid.UUID `json:"id"`
	Payload     []byte    `json:"payload"`
	Destination string    `json:"destination,omitempty"`
}

func encodeRecord(rec EventRecord) ([]byte, error) {
	blob, err := json.Marshal(rec)
	if err != nil {
		return nil, errors.Wrap(err, "encoding record")
	}
	return blob, nil
}

// decodeRecord accepts blobs written by any revision of the pipeline: fields
// added since the blob was written simply stay zero.
func decodeRecord(blob []byte) (EventRecord, error) {
	var rec EventRecord
	if err := json.Unmarshal(blob, &rec); err != nil {
		return EventRecord{}, errors.Wrap(err, "decoding record")
	}
	return rec, nil
}

// Config configures a pipeline.
type Config struct {
	// BatchSize is the maximum number of records per network attempt.
	// Values <= 0 are coerced to the default; the drain loop would
	// degenerate on zero-size batches.
	BatchSize int

	// FlushInterval is the periodic flush cadence. Zero disables the timer
	// and instead triggers a flush immediately on every dispatch.
	FlushInterval time.Duration

	// Backend selects the store implementation when Store is nil.
	Backend Backend

	// StoreID is the logical queue name, distinguishing multiple queues on
	// the same backend.
	StoreID string

	// DataDir is where file and kv backends keep their state. Defaults to
	// the current directory.
	DataDir string

	// Destination seeds the process-default destination. Empty means the
	// built-in DefaultDestination until SetDefaultDestination is called.
	Destination string

	// Store overrides backend selection with a caller-supplied store.
	Store Store

	// Sender overrides the default HTTP sender.
	Sender Sender

	// Logger overrides the default logrus-backed logger.
	Logger Logger
}
