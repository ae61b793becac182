package tryon

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"
)

// Submitter creates remote jobs. *Client implements it.
type Submitter interface {
	Submit(ctx context.Context, req JobRequest, apiKey string) (*SubmissionResult, error)
}

// Config wires a Service
type Config struct {
	Submitter Submitter
	Poller    *Poller
	APIKey    string
	Observer  Observer
	Logger    *slog.Logger
}

// Service runs the submit-then-poll flow. It is safe for concurrent use;
// the API key is the only state shared between sessions and is never written.
type Service struct {
	submitter Submitter
	poller    *Poller
	apiKey    string
	observer  Observer
	logger    *slog.Logger
}

// NewService creates a Service
func NewService(cfg *Config) *Service {
	observer := cfg.Observer
	if observer == nil {
		observer = nopObserver{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{
		submitter: cfg.Submitter,
		poller:    cfg.Poller,
		apiKey:    cfg.APIKey,
		observer:  observer,
		logger:    logger,
	}
}

// HasCredential reports whether an API key was resolved
func (s *Service) HasCredential() bool {
	return s.apiKey != ""
}

// Process submits req and polls it to completion. Failures never escape as
// errors: they come back as an Outcome with Success false.
func (s *Service) Process(ctx context.Context, req JobRequest) Outcome {
	start := time.Now()
	outcome := s.process(ctx, req)
	elapsed := time.Since(start)

	s.observer.Finished(outcome, elapsed)

	attrs := []any{
		slog.String("job_id", outcome.ID),
		slog.Bool("success", outcome.Success),
		slog.String("kind", outcome.Kind.String()),
		slog.Duration("elapsed", elapsed),
	}
	if outcome.Success {
		s.logger.Info("Try-on completed", append(attrs, slog.String("result_url", outcome.ResultURL))...)
	} else {
		s.logger.Warn("Try-on failed", append(attrs, slog.String("error", outcome.Error))...)
	}

	return outcome
}

func (s *Service) process(ctx context.Context, req JobRequest) Outcome {
	if s.apiKey == "" {
		return classify("", terminal{kind: KindConfigurationError, message: ErrMissingCredential.Error()})
	}

	submission, err := s.submitter.Submit(ctx, req, s.apiKey)
	if err != nil {
		kind := KindHTTPError
		switch {
		case errors.Is(err, ErrMissingCredential):
			kind = KindConfigurationError
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			kind = KindCanceled
		}
		return classify("", terminal{kind: kind, message: err.Error()})
	}

	if submission.Error != "" {
		return classify("", terminal{kind: KindRemoteJobError, message: submission.Error})
	}

	s.observer.Submitted(submission.ID)

	return s.poller.Poll(ctx, submission.ID, s.apiKey)
}
