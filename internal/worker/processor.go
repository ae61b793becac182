package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/cuongbtq/vtryon/internal/tryon"
	"github.com/cuongbtq/vtryon/internal/worker/domain"
)

// processJob runs one try-on session and publishes its outcome.
// A nil error means the delivery can be ACKed.
func (w *Worker) processJob(ctx context.Context, msg *domain.TryOnMessage) error {
	w.logger.Info("Processing try-on",
		slog.String("request_id", msg.RequestID),
		slog.String("worker_id", w.workerID),
	)

	jobCtx := ctx
	if w.jobTimeout > 0 {
		var cancel context.CancelFunc
		jobCtx, cancel = context.WithTimeout(ctx, w.jobTimeout)
		defer cancel()
	}

	outcome := w.tryOn.Process(jobCtx, msg.JobRequest(w.modelName))

	// interrupted by shutdown rather than by the job's own deadline
	if outcome.Kind == tryon.KindCanceled && ctx.Err() != nil {
		w.logger.Warn("Try-on interrupted by shutdown",
			slog.String("request_id", msg.RequestID),
			slog.String("job_id", outcome.ID),
		)
		return domain.NewRetryableError(fmt.Errorf("try-on interrupted: %w", ctx.Err()))
	}

	body, err := json.Marshal(domain.NewOutcomeMessage(msg.RequestID, outcome, time.Now()))
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPublishFailed, err)
	}

	// publish even while shutting down so a finished session is not lost
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), w.publishTimeout)
	defer cancel()

	if err := w.broker.PublishResultWithRetry(pubCtx, body, "application/json"); err != nil {
		w.logger.Error("Failed to publish outcome",
			slog.String("request_id", msg.RequestID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("%w: %v", domain.ErrPublishFailed, err)
	}

	w.logger.Info("Outcome published",
		slog.String("request_id", msg.RequestID),
		slog.String("job_id", outcome.ID),
		slog.Bool("success", outcome.Success),
		slog.String("kind", outcome.Kind.String()),
	)

	return nil
}
