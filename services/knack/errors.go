package knack

import (
	"errors"
	"fmt"
)

// TransportError is returned when the Knack API answers with a non-2xx status.
type TransportError struct {
	StatusCode int
	Method     string
	URL        string
	Body       string
}

func (e *TransportError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("knack %s %s returned status %d", e.Method, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("knack %s %s returned status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

// StatusCode reports the HTTP status carried by err, if any.
func StatusCode(err error) (int, bool) {
	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return transportErr.StatusCode, true
	}
	return 0, false
}
