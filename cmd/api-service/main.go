package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cuongbtq/vtryon/internal/api/handler"
	"github.com/cuongbtq/vtryon/internal/api/router"
	"github.com/cuongbtq/vtryon/internal/api/storage"
	"github.com/cuongbtq/vtryon/internal/config"
	"github.com/cuongbtq/vtryon/internal/i18n"
	"github.com/cuongbtq/vtryon/internal/metrics"
	"github.com/cuongbtq/vtryon/internal/tryon"
	"github.com/cuongbtq/vtryon/internal/upload"
	"github.com/cuongbtq/vtryon/shared/logger"
	"github.com/cuongbtq/vtryon/shared/postgresql"
	"github.com/cuongbtq/vtryon/shared/rabbitmq"
	"github.com/cuongbtq/vtryon/shared/redis"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables or flags")
	}

	defaultConfigPath := os.Getenv("API_SERVICE_CONFIG_PATH")
	if defaultConfigPath == "" {
		defaultConfigPath = "configs/api-service/config.yaml"
	}
	configPath := flag.String("config", defaultConfigPath, "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.ValidateAPIConfig(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	appLogger, err := initLogger(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer appLogger.Close()

	appLogger.Info("Starting API service",
		slog.String("app", cfg.App.Name),
		slog.String("version", cfg.App.Version),
		slog.String("environment", cfg.App.Environment),
	)

	dbClient, err := initPostgreSQL(&cfg.Database, appLogger.Component("postgresql"))
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer dbClient.Close()

	appLogger.Info("Database connection established")

	rabbitClient, err := initRabbitMQ(&cfg.RabbitMQ, appLogger.Component("rabbitmq"))
	if err != nil {
		return fmt.Errorf("failed to initialize RabbitMQ: %w", err)
	}
	defer rabbitClient.Close()

	appLogger.Info("RabbitMQ connection established")

	healthChecks := []handler.HealthCheck{
		{Name: "postgres", Check: dbClient.HealthCheck},
		{Name: "rabbitmq", Check: rabbitClient.HealthCheck},
	}

	var limiter router.RateLimiter
	if cfg.RateLimit.Enabled {
		redisClient, err := redis.NewClient(&redis.Config{
			Addr:        cfg.Redis.Addr,
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			DialTimeout: cfg.Redis.DialTimeout,
		}, appLogger.Component("redis"))
		if err != nil {
			return fmt.Errorf("failed to initialize Redis: %w", err)
		}
		defer redisClient.Close()

		limiter = redis.NewFixedWindowLimiter(redisClient.GetClient(), "vtryon:ratelimit:", cfg.RateLimit.Requests, cfg.RateLimit.Window)
		healthChecks = append(healthChecks, handler.HealthCheck{Name: "redis", Check: redisClient.HealthCheck})

		appLogger.Info("Rate limiting enabled",
			slog.Int("requests", cfg.RateLimit.Requests),
			slog.Duration("window", cfg.RateLimit.Window),
		)
	}

	translator, err := i18n.New(cfg.I18n.DefaultLanguage)
	if err != nil {
		return fmt.Errorf("failed to initialize translations: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	tryOnService := initTryOn(&cfg.Fashn, metrics.NewTryOn(registry), appLogger)
	if !tryOnService.HasCredential() {
		appLogger.Warn("FASHN_API_KEY is not set, try-on requests will fail until it is configured")
	}

	uploader, err := upload.NewCloudinaryUploader(upload.CloudinaryConfig{
		CloudName: cfg.Cloudinary.CloudName,
		APIKey:    cfg.Cloudinary.APIKey,
		APISecret: cfg.Cloudinary.APISecret,
		Folder:    cfg.Cloudinary.Folder,
	}, appLogger.Component("upload"))
	if err != nil {
		if !errors.Is(err, upload.ErrNotConfigured) {
			return fmt.Errorf("failed to initialize uploader: %w", err)
		}
		appLogger.Warn("Cloudinary is not configured, garment uploads are disabled")
	}

	deps := &handler.Dependencies{
		Logger:        appLogger.Component("http"),
		Models:        storage.NewStorage(dbClient),
		TryOn:         tryOnService,
		Publisher:     rabbitClient,
		Forwarder:     upload.NewForwarder(cfg.Upload.TargetEndpoint, cfg.Upload.ForwardTimeout, appLogger.Component("forwarder")),
		Translator:    translator,
		ModelName:     cfg.Fashn.ModelName,
		MaxUploadSize: cfg.Upload.MaxFileSize,
		ServiceName:   cfg.App.Name,
		HealthChecks:  healthChecks,
	}
	// avoid storing a typed nil in the interface
	if uploader != nil {
		deps.Uploader = uploader
	}

	r := initRouter(cfg.App.Environment, deps, router.Options{
		Locales: translator,
		Limiter: limiter,
		Metrics: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	appLogger.Info("Starting HTTP server",
		slog.String("address", addr),
		slog.Duration("read_timeout", cfg.Server.ReadTimeout),
		slog.Duration("write_timeout", cfg.Server.WriteTimeout),
	)

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		appLogger.Info("Shutting down server...", slog.String("signal", sig.String()))
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown",
			slog.Any("error", err),
		)
		return err
	}

	appLogger.Info("Server shutdown complete")
	return nil
}

// initLogger initializes and configures the application logger
func initLogger(cfg *config.LoggingConfig) (*logger.Logger, error) {
	loggerCfg := &logger.Config{
		Level:        cfg.Level,
		Format:       cfg.Format,
		Output:       cfg.Output,
		EnableSource: cfg.EnableCaller,
		TimeFormat:   time.RFC3339,
	}

	return logger.New(loggerCfg)
}

// initPostgreSQL initializes the PostgreSQL database client
func initPostgreSQL(cfg *config.DatabaseConfig, logger *slog.Logger) (*postgresql.Client, error) {
	dbConfig := &postgresql.Config{
		Host:            cfg.Host,
		Port:            cfg.Port,
		User:            cfg.User,
		Password:        cfg.Password,
		Database:        cfg.Database,
		SSLMode:         cfg.SSLMode,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.ConnMaxIdleTime,
	}

	return postgresql.NewClient(dbConfig, logger)
}

// initRabbitMQ initializes the RabbitMQ client
func initRabbitMQ(cfg *config.RabbitMQConfig, logger *slog.Logger) (*rabbitmq.Client, error) {
	rabbitConfig := &rabbitmq.Config{
		Host:               cfg.Host,
		Port:               cfg.Port,
		User:               cfg.User,
		Password:           cfg.Password,
		VHost:              cfg.VHost,
		ExchangeName:       cfg.Exchange.Name,
		ExchangeType:       cfg.Exchange.Type,
		ExchangeDurable:    cfg.Exchange.Durable,
		ExchangeAutoDelete: cfg.Exchange.AutoDelete,
		QueueName:          cfg.Queue.Name,
		QueueDurable:       cfg.Queue.Durable,
		QueueAutoDelete:    cfg.Queue.AutoDelete,
		QueueExclusive:     cfg.Queue.Exclusive,
		RoutingKey:         cfg.RoutingKey,
		ResultQueueName:    cfg.ResultQueue.Name,
		ResultQueueDurable: cfg.ResultQueue.Durable,
		ResultRoutingKey:   cfg.ResultRoutingKey,
		RetryAttempts:      cfg.Connection.RetryAttempts,
		RetryInterval:      cfg.Connection.RetryInterval,
		Heartbeat:          cfg.Connection.Heartbeat,
		ConnectionTimeout:  cfg.Connection.ConnectionTimeout,
		PublishRetries:     cfg.Publish.RetryAttempts,
		PublishRetryDelay:  cfg.Publish.RetryInterval,
		PublishBackoffMult: cfg.Publish.BackoffMultiplier,
	}

	return rabbitmq.NewClient(rabbitConfig, logger)
}

// initTryOn wires the Fashn client, poller and service
func initTryOn(cfg *config.FashnConfig, observer tryon.Observer, appLogger *logger.Logger) *tryon.Service {
	tryOnLogger := appLogger.Component("tryon")

	client := tryon.NewClient(tryon.ClientOptions{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.RequestTimeout,
		Logger:  tryOnLogger,
	})

	poller := tryon.NewPoller(client,
		tryon.WithMaxAttempts(cfg.MaxAttempts),
		tryon.WithPollInterval(cfg.PollInterval),
		tryon.WithObserver(observer),
		tryon.WithLogger(tryOnLogger),
	)

	return tryon.NewService(&tryon.Config{
		Submitter: client,
		Poller:    poller,
		APIKey:    cfg.APIKey,
		Observer:  observer,
		Logger:    tryOnLogger,
	})
}

// initRouter initializes the Gin router with all routes and middleware
func initRouter(environment string, deps *handler.Dependencies, opts router.Options) *gin.Engine {
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	return router.SetupRouter(deps, opts)
}
