package courier

import "sync"

// flushGate serializes the drain loop and collapses concurrent flushes: a
// flush that arrives while one is running is a no-op, not a queued second
// pass.
type flushGate struct {
	mu sync.Mutex
}

// runExclusive executes task if the gate is free and reports whether it ran.
func (g *flushGate) runExclusive(task func()) bool {
	if !g.mu.TryLock() {
		return false
	}
	defer g.mu.Unlock()
	task()
	return true
}

// wait blocks until the gate is free. Used by Settle.
func (g *flushGate) wait() {
	g.mu.Lock()
	g.mu.Unlock() //nolint:staticcheck // empty critical section observes the gate free
}
