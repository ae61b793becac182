package domain

import "errors"

var (
	// ErrInvalidPayload is returned when a try-on message is malformed
	ErrInvalidPayload = errors.New("invalid try-on payload")

	// ErrPublishFailed is returned when the outcome event could not be published
	ErrPublishFailed = errors.New("failed to publish outcome")
)

// RetryableError wraps transient errors that should trigger a requeue
type RetryableError struct {
	Err error
}

func (e *RetryableError) Error() string {
	return "retryable error: " + e.Err.Error()
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// NewRetryableError creates a new retryable error
func NewRetryableError(err error) error {
	return &RetryableError{Err: err}
}
