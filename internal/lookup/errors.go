package lookup

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError is a non-2xx answer from the backend
type HTTPError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s failed: HTTP %d: %s", e.Op, e.StatusCode, e.Body)
}

// Recoverable reports whether retrying the request may succeed.
// 408, 429 and 5xx are transient; other 4xx are the caller's fault.
func (e *HTTPError) Recoverable() bool {
	switch {
	case e.StatusCode == http.StatusRequestTimeout, e.StatusCode == http.StatusTooManyRequests:
		return true
	case e.StatusCode >= 400 && e.StatusCode < 500:
		return false
	default:
		return true
	}
}

// IsRecoverable classifies err for the retry loop.
// Network-level errors count as recoverable.
func IsRecoverable(err error) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Recoverable()
	}
	return err != nil
}
