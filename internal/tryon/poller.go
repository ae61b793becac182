package tryon

import (
	"context"
	"io"
	"log/slog"
	"time"
)

const (
	// DefaultMaxAttempts is the attempt budget of one polling session
	DefaultMaxAttempts = 30
	// DefaultPollInterval separates two status queries
	DefaultPollInterval = 2 * time.Second
)

// StatusQuerier fetches the remote status of a job. *Client implements it.
type StatusQuerier interface {
	Status(ctx context.Context, id, apiKey string) (*StatusResult, error)
}

// SleepFunc suspends the calling goroutine for d or until ctx is done
type SleepFunc func(ctx context.Context, d time.Duration) error

// Poller drives one status polling session per call to Poll
type Poller struct {
	querier     StatusQuerier
	maxAttempts int
	interval    time.Duration
	sleep       SleepFunc
	observer    Observer
	logger      *slog.Logger
}

// PollerOption customizes a Poller
type PollerOption func(*Poller)

// WithMaxAttempts overrides DefaultMaxAttempts
func WithMaxAttempts(n int) PollerOption {
	return func(p *Poller) {
		if n > 0 {
			p.maxAttempts = n
		}
	}
}

// WithPollInterval overrides DefaultPollInterval
func WithPollInterval(d time.Duration) PollerOption {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithSleep replaces the timer based wait, mainly for tests
func WithSleep(fn SleepFunc) PollerOption {
	return func(p *Poller) {
		if fn != nil {
			p.sleep = fn
		}
	}
}

// WithObserver attaches an Observer to every session
func WithObserver(o Observer) PollerOption {
	return func(p *Poller) {
		if o != nil {
			p.observer = o
		}
	}
}

// WithLogger sets the poller logger
func WithLogger(l *slog.Logger) PollerOption {
	return func(p *Poller) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewPoller creates a Poller querying through q
func NewPoller(q StatusQuerier, opts ...PollerOption) *Poller {
	p := &Poller{
		querier:     q,
		maxAttempts: DefaultMaxAttempts,
		interval:    DefaultPollInterval,
		sleep:       sleepContext,
		observer:    nopObserver{},
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Poll queries job id until it reaches a terminal state or the attempt budget runs out.
//
// A transport or HTTP failure is retried against the same budget; when the last
// attempt fails the Outcome carries that failure's message. A job that is still
// pending or processing after the last attempt ends with MessageTimeout.
func (p *Poller) Poll(ctx context.Context, id, apiKey string) Outcome {
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		res, err := p.querier.Status(ctx, id, apiKey)
		if err != nil {
			p.observer.PollFailed(id, attempt, err)

			// a query cut short by the caller is not a transport failure
			if ctxErr := ctx.Err(); ctxErr != nil {
				return classify(id, terminal{kind: KindCanceled, message: ctxErr.Error()})
			}

			if attempt == p.maxAttempts {
				p.logger.Error("Status check failed on final attempt",
					slog.String("job_id", id),
					slog.Int("attempt", attempt),
					slog.String("error", err.Error()),
				)
				return classify(id, terminal{kind: KindTransientTransportError, message: err.Error()})
			}

			p.logger.Warn("Status check failed, retrying",
				slog.String("job_id", id),
				slog.Int("attempt", attempt),
				slog.Int("max_attempts", p.maxAttempts),
				slog.String("error", err.Error()),
			)

			if err := p.sleep(ctx, p.interval); err != nil {
				return classify(id, terminal{kind: KindCanceled, message: err.Error()})
			}
			continue
		}

		status := ParseStatus(res.Status)
		p.observer.Polled(id, attempt, status)

		p.logger.Debug("Status checked",
			slog.String("job_id", id),
			slog.Int("attempt", attempt),
			slog.String("status", res.Status),
		)

		if t, done := classifyStatus(res); done {
			return classify(id, t)
		}

		if err := p.sleep(ctx, p.interval); err != nil {
			return classify(id, terminal{kind: KindCanceled, message: err.Error()})
		}
	}

	return classify(id, terminal{kind: KindAttemptBudgetExhausted, message: MessageTimeout})
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
