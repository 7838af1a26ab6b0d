package courier

import "sync"

// destinationCell holds the process-default destination. Last write wins;
// reads and writes are atomic and deliberately decoupled from the queue lock,
// since the value only needs consistency per read, not sequencing with the
// drain loop.
type destinationCell struct {
	mu  sync.RWMutex
	url string
}

func (c *destinationCell) Set(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.url = url
}

func (c *destinationCell) Get() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.url
}
