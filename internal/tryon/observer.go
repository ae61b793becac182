package tryon

import "time"

// Observer receives the lifecycle of each try-on session.
// Implementations must be safe for concurrent use; one Service serves many sessions.
type Observer interface {
	Submitted(id string)
	Polled(id string, attempt int, status Status)
	PollFailed(id string, attempt int, err error)
	Finished(outcome Outcome, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) Submitted(string)                {}
func (nopObserver) Polled(string, int, Status)      {}
func (nopObserver) PollFailed(string, int, error)   {}
func (nopObserver) Finished(Outcome, time.Duration) {}
