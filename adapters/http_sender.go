package adapters

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

// HTTPSender is the default Sender implementation using the net/http package.
// The batch payload is posted as-is; batches built by the dispatcher are
// newline-delimited record payloads, hence the NDJSON content type.
type HTTPSender struct {
	client  *http.Client
	headers map[string]string
}

// Ensure HTTPSender implements Sender interface
var _ Sender = (*HTTPSender)(nil)

// NewHTTPSender creates a new HTTPSender instance. Extra headers are set on
// every request, after the defaults, so they can override Content-Type.
func NewHTTPSender(timeout time.Duration, headers map[string]string) *HTTPSender {
	return &HTTPSender{
		client:  &http.Client{Timeout: timeout},
		headers: headers,
	}
}

// Send posts payload to destination and reads the response body.
func (h *HTTPSender) Send(destination string, payload []byte) ([]byte, error) {
	req, err := http.NewRequest(http.MethodPost, destination, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, "creating request")
	}

	req.Header.Set("Content-Type", "application/x-ndjson")
	for key, value := range h.headers {
		req.Header.Set(key, value)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "sending request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "reading response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{Status: resp.StatusCode}
	}
	return body, nil
}
