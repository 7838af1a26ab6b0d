package courier

import (
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/courierhq/courier-go/adapters"
)

// Client is the public entry point: it validates configuration, opens the
// backing store, and wires the queue, sender, and dispatcher together.
type Client struct {
	config     Config
	dispatcher *Dispatcher
	store      adapters.Store
	kv         *adapters.KVStore
	logger     adapters.Logger
}

// New creates a client and arms the flush timer. Missing pieces of config get
// defaults: a logrus logger at warn level, the net/http sender, the file
// backend in the current directory.
func New(config Config) (*Client, error) {
	if config.BatchSize <= 0 {
		config.BatchSize = defaultBatchSize
	}
	if config.StoreID == "" {
		config.StoreID = defaultStoreID
	}
	if config.Backend == "" {
		config.Backend = BackendFile
	}
	if config.DataDir == "" {
		config.DataDir = "."
	}
	if config.Logger == nil {
		config.Logger = adapters.NewLogrusLogger(adapters.LogLevelWarn)
	}
	if config.Sender == nil {
		config.Sender = adapters.NewHTTPSender(defaultSendTimeout, nil)
	}

	c := &Client{
		config: config,
		logger: config.Logger,
	}

	store := config.Store
	if store == nil {
		var err error
		store, err = c.openStore(config)
		if err != nil {
			return nil, err
		}
	}
	c.store = store

	queue := NewEventQueue(store, config.Logger)
	c.dispatcher = NewDispatcher(config, queue, config.Sender, config.Logger)
	c.dispatcher.OnForeground()
	return c, nil
}

func (c *Client) openStore(config Config) (adapters.Store, error) {
	switch config.Backend {
	case BackendMemory:
		return adapters.NewMemoryStore(), nil
	case BackendFile:
		return adapters.NewFileStore(filepath.Join(config.DataDir, config.StoreID+".json")), nil
	case BackendKV:
		kv, err := adapters.OpenKVStore(filepath.Join(config.DataDir, "courier_kv"), config.StoreID)
		if err != nil {
			return nil, err
		}
		c.kv = kv
		return kv, nil
	default:
		return nil, errors.Errorf("unknown backend %q", config.Backend)
	}
}

// Dispatch queues an opaque payload for the default destination.
func (c *Client) Dispatch(payload []byte, completion func(error)) {
	c.dispatcher.Dispatch(EventRecord{Payload: payload}, completion)
}

// DispatchTo queues a payload with an explicit destination override.
func (c *Client) DispatchTo(destination string, payload []byte, completion func(error)) {
	c.dispatcher.Dispatch(EventRecord{Payload: payload, Destination: destination}, completion)
}

// DispatchRecord queues a fully specified record.
func (c *Client) DispatchRecord(rec EventRecord, completion func(error)) {
	c.dispatcher.Dispatch(rec, completion)
}

// Flush triggers one drain pass; a concurrent flush collapses it.
func (c *Client) Flush() {
	c.dispatcher.Flush()
}

// Settle blocks until no flush is in flight. Intended for tests and orderly
// shutdown sequencing.
func (c *Client) Settle() {
	c.dispatcher.Settle()
}

// SetDefaultDestination updates the process-default destination for records
// resolved from now on.
func (c *Client) SetDefaultDestination(url string) {
	c.dispatcher.SetDefaultDestination(url)
}

// OnForeground arms the periodic flush timer.
func (c *Client) OnForeground() {
	c.dispatcher.OnForeground()
}

// OnBackground disarms the periodic flush timer without aborting an in-flight
// flush.
func (c *Client) OnBackground() {
	c.dispatcher.OnBackground()
}

// Close attempts a final drain and releases the store. Undeliverable records
// stay persisted for the next process.
func (c *Client) Close() error {
	c.dispatcher.Close()
	if c.kv != nil {
		return errors.Wrap(c.kv.Close(), "closing kv store")
	}
	return nil
}
