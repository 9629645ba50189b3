package export

import (
	"fmt"
	"net/http"
)

// trackerError is an HTTP failure from a remote tracker. Rate limits and
// server errors are retryable; auth and validation failures are not.
type trackerError struct {
	status    int
	message   string
	retryable bool
}

func newTrackerError(status int, body string) *trackerError {
	return &trackerError{
		status:    status,
		message:   body,
		retryable: status == http.StatusTooManyRequests || status >= 500,
	}
}

func (e *trackerError) Error() string {
	if e.status == 0 {
		return fmt.Sprintf("tracker request failed: %s", e.message)
	}
	return fmt.Sprintf("tracker returned status %d: %s", e.status, e.message)
}

func (e *trackerError) IsRetryable() bool {
	return e.retryable
}
