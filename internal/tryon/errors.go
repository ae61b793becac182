package tryon

import (
	"errors"
	"fmt"
)

// ErrMissingCredential is returned before any network call when no API key was resolved
var ErrMissingCredential = errors.New("FASHN_API_KEY is not configured")

// Outcome messages. Callers match on these strings, keep them stable.
const (
	MessageNoOutput         = "No output image received"
	MessageProcessingFailed = "Processing failed"
	MessageTimeout          = "Processing timeout - please try again"
	messageUnknownStatus    = "Unknown status: "
)

const (
	opSubmit = "API request failed"
	opStatus = "Status check failed"
)

// HTTPError is a non-2xx answer from the submission or status endpoint
type HTTPError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s: %d - %s", e.Op, e.StatusCode, e.Body)
}

// IsHTTPError reports whether err wraps an *HTTPError and returns it
func IsHTTPError(err error) (*HTTPError, bool) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr, true
	}
	return nil, false
}
