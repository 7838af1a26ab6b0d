package courier

import (
	"bytes"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/courierhq/courier-go/adapters"
)

// Dispatcher owns the queue and the flush schedule. Producers call Dispatch;
// the periodic timer, lifecycle hooks, and manual Flush calls all funnel into
// the same drain loop, which runs at most once at a time.
type Dispatcher struct {
	config      Config
	queue       *EventQueue
	sender      adapters.Sender
	logger      adapters.Logger
	defaultDest *destinationCell
	completions *completionRegistry

	gate    flushGate
	pending sync.WaitGroup

	ticker       *time.Ticker
	tickerStop   chan struct{}
	timerStarted bool
	timerMu      sync.Mutex
	wg           sync.WaitGroup
}

// NewDispatcher creates a dispatcher over an already-opened queue. A
// BatchSize <= 0 in config is coerced to the default; the timer is not armed
// until OnForeground.
func NewDispatcher(config Config, queue *EventQueue, sender adapters.Sender, logger adapters.Logger) *Dispatcher {
	if config.BatchSize <= 0 {
		config.BatchSize = defaultBatchSize
	}
	d := &Dispatcher{
		config:      config,
		queue:       queue,
		sender:      sender,
		logger:      logger,
		defaultDest: &destinationCell{},
		completions: newCompletionRegistry(),
	}
	if config.Destination != "" {
		d.defaultDest.Set(config.Destination)
	}
	return d
}

// Dispatch appends rec to the queue and returns without waiting for delivery.
// completion, when non-nil, is invoked exactly once, asynchronously, with the
// outcome of the first network attempt that includes this record. In
// immediate mode (BatchSize 1 or FlushInterval 0) a flush is kicked off right
// away; otherwise the record waits for the next timer tick or manual Flush.
func (d *Dispatcher) Dispatch(rec EventRecord, completion func(error)) {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if completion != nil {
		d.completions.put(rec.ID, completion)
	}
	d.queue.Save(rec)
	d.logger.Debug("queued record %s (%d queued)", rec.ID, d.queue.Count())

	if d.config.BatchSize == 1 || d.config.FlushInterval == 0 {
		d.triggerFlush()
	}
}

// Flush runs the drain loop. If a flush is already in progress the call is a
// no-op; the running loop re-checks the queue after every batch, so it will
// pick up anything a collapsed caller wanted flushed.
func (d *Dispatcher) Flush() {
	d.gate.runExclusive(d.drain)
}

// SetDefaultDestination updates the process-default destination. It affects
// records resolved at send time from now on; records already carrying an
// explicit destination are untouched.
func (d *Dispatcher) SetDefaultDestination(url string) {
	d.defaultDest.Set(url)
}

// OnForeground (re)arms the periodic timer when FlushInterval > 0. Safe to
// call redundantly.
func (d *Dispatcher) OnForeground() {
	if d.config.FlushInterval <= 0 {
		return
	}
	d.timerMu.Lock()
	defer d.timerMu.Unlock()
	if d.timerStarted {
		return
	}
	d.ticker = time.NewTicker(d.config.FlushInterval)
	d.tickerStop = make(chan struct{})
	d.timerStarted = true

	stop := d.tickerStop
	ticker := d.ticker
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for {
			select {
			case <-ticker.C:
				d.Flush()
			case <-stop:
				return
			}
		}
	}()
}

// OnBackground disarms the periodic timer. A flush already in flight runs to
// completion; only future automatic flushes stop. Safe to call redundantly.
func (d *Dispatcher) OnBackground() {
	d.timerMu.Lock()
	defer d.timerMu.Unlock()
	if !d.timerStarted {
		return
	}
	d.ticker.Stop()
	close(d.tickerStop)
	d.timerStarted = false
}

// Settle blocks until every dispatch-triggered flush has been launched and
// finished and no drain loop holds the gate. Test harnesses use this instead
// of sleeping.
func (d *Dispatcher) Settle() {
	d.pending.Wait()
	d.gate.wait()
}

// Close disarms the timer, attempts a final drain, and waits for the timer
// goroutine. Records that still fail to send stay in the store for the next
// process.
func (d *Dispatcher) Close() {
	d.OnBackground()
	d.wg.Wait()
	d.Flush()
	d.Settle()
}

func (d *Dispatcher) triggerFlush() {
	d.pending.Add(1)
	go func() {
		defer d.pending.Done()
		d.Flush()
	}()
}

// drain ships batches until the queue is empty or a send fails. The count is
// re-read every iteration on purpose: records appended while a batch was on
// the wire are drained by the same loop.
func (d *Dispatcher) drain() {
	for {
		batch, dest := d.nextBatch()
		if len(batch) == 0 {
			return
		}

		d.logger.Debug("sending batch of %d to %s", len(batch), dest)
		_, err := d.sender.Send(dest, batchPayload(batch))
		if err != nil {
			// The batch and everything behind it stays queued; the next
			// trigger retries it.
			d.logger.Error("batch of %d failed, %d left queued: %v", len(batch), d.queue.Count(), err)
			d.settleCompletions(batch, err)
			return
		}

		d.queue.RemoveFirstN(len(batch))
		d.settleCompletions(batch, nil)
	}
}

// nextBatch peeks up to BatchSize head records that resolve to the same
// destination. Stopping at a destination change keeps one network attempt per
// batch without ever reordering.
func (d *Dispatcher) nextBatch() ([]EventRecord, string) {
	head := d.queue.FirstN(d.config.BatchSize)
	if len(head) == 0 {
		return nil, ""
	}
	dest := d.resolveDestination(head[0])
	batch := head[:1]
	for _, rec := range head[1:] {
		if d.resolveDestination(rec) != dest {
			break
		}
		batch = append(batch, rec)
	}
	return batch, dest
}

// resolveDestination applies the precedence chain at send time: explicit
// per-record destination, then the process default, then the built-in
// constant.
func (d *Dispatcher) resolveDestination(rec EventRecord) string {
	if rec.Destination != "" {
		return rec.Destination
	}
	if url := d.defaultDest.Get(); url != "" {
		return url
	}
	return DefaultDestination
}

func (d *Dispatcher) settleCompletions(batch []EventRecord, result error) {
	for _, rec := range batch {
		if cb, ok := d.completions.take(rec.ID); ok {
			go cb(result)
		}
	}
}

// batchPayload joins the records' opaque payloads with newlines; for JSON
// payloads the wire form is NDJSON.
func batchPayload(batch []EventRecord) []byte {
	payloads := make([][]byte, len(batch))
	for i, rec := range batch {
		payloads[i] = rec.Payload
	}
	return bytes.Join(payloads, []byte("\n"))
}

// completionRegistry tracks per-record callbacks in memory. Records restored
// from a previous process have no callback and simply ship silently.
type completionRegistry struct {
	mu  sync.Mutex
	cbs map[uuid.UUID]func(error)
}

func newCompletionRegistry() *completionRegistry {
	return &completionRegistry{cbs: make(map[uuid.UUID]func(error))}
}

func (r *completionRegistry) put(id uuid.UUID, cb func(error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cbs[id] = cb
}

func (r *completionRegistry) take(id uuid.UUID) (func(error), bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cb, ok := r.cbs[id]
	if ok {
		delete(r.cbs, id)
	}
	return cb, ok
}
