package adapters

import "fmt"

// Sender performs one network attempt for a batch payload.
// Implement this interface to use custom transports. A Sender owns its own
// timeout policy; the pipeline waits for whatever it does.
type Sender interface {
	// Send delivers payload to destination and returns the collector's
	// response body on success. Any error means the whole batch failed and
	// will be retried on a later flush.
	Send(destination string, payload []byte) ([]byte, error)
}

// HTTPError reports a non-2xx response from the collector.
type HTTPError struct {
	Status int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("collector returned status %d", e.Status)
}
