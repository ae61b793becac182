package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cuongbtq/vtryon/internal/tryon"
	"github.com/cuongbtq/vtryon/internal/worker/domain"
	amqp "github.com/rabbitmq/amqp091-go"
)

const defaultPublishTimeout = 10 * time.Second

// Broker is the queue surface the worker needs. *rabbitmq.Client implements it.
type Broker interface {
	Qos(prefetchCount int) error
	Consume(consumerTag string) (<-chan amqp.Delivery, error)
	Ack(deliveryTag uint64) error
	Nack(deliveryTag uint64, requeue bool) error
	PublishResultWithRetry(ctx context.Context, body []byte, contentType string) error
}

// TryOnProcessor runs one try-on session. *tryon.Service implements it.
type TryOnProcessor interface {
	Process(ctx context.Context, req tryon.JobRequest) tryon.Outcome
}

// Config holds worker configuration
type Config struct {
	Logger         *slog.Logger
	Broker         Broker
	TryOn          TryOnProcessor
	WorkerID       string
	QueueName      string
	ModelName      string
	Concurrency    int
	PrefetchCount  int
	JobTimeout     time.Duration
	PublishTimeout time.Duration
}

// Worker consumes try-on messages and publishes their outcomes
type Worker struct {
	logger            *slog.Logger
	broker            Broker
	tryOn             TryOnProcessor
	workerID          string
	rabbitMQQueueName string
	modelName         string
	concurrency       int
	prefetchCount     int
	jobTimeout        time.Duration
	publishTimeout    time.Duration
	jobsChan          chan *domain.TryOnMessage
	wg                sync.WaitGroup
	stopChan          chan struct{}
	stopOnce          sync.Once
}

// NewWorker creates a new worker instance
func NewWorker(cfg *Config) *Worker {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	prefetch := cfg.PrefetchCount
	if prefetch <= 0 {
		prefetch = concurrency
	}
	publishTimeout := cfg.PublishTimeout
	if publishTimeout <= 0 {
		publishTimeout = defaultPublishTimeout
	}

	return &Worker{
		logger:            cfg.Logger,
		broker:            cfg.Broker,
		tryOn:             cfg.TryOn,
		workerID:          cfg.WorkerID,
		rabbitMQQueueName: cfg.QueueName,
		modelName:         cfg.ModelName,
		concurrency:       concurrency,
		prefetchCount:     prefetch,
		jobTimeout:        cfg.JobTimeout,
		publishTimeout:    publishTimeout,
		jobsChan:          make(chan *domain.TryOnMessage, concurrency),
		stopChan:          make(chan struct{}),
	}
}

// Start consumes until ctx is canceled or the delivery channel closes
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info("Starting worker",
		slog.String("worker_id", w.workerID),
		slog.Int("concurrency", w.concurrency),
		slog.Duration("job_timeout", w.jobTimeout),
	)

	deliveries, err := w.setupConsumer(ctx)
	if err != nil {
		return err
	}

	w.spawnWorkerPool(ctx)
	w.startMessageDispatcher(ctx, deliveries)

	return nil
}

// Stop gracefully stops the worker and waits for in-flight jobs
func (w *Worker) Stop() {
	w.stopOnce.Do(func() {
		w.logger.Info("Stopping worker...")
		close(w.stopChan)
	})
	w.wg.Wait()
	w.logger.Info("Worker stopped")
}
