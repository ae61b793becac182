package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: 8080},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			Database: "vtryon_db",
		},
		RabbitMQ: RabbitMQConfig{
			Host:             "localhost",
			Port:             5672,
			Exchange:         ExchangeConfig{Name: "tryon_exchange"},
			Queue:            QueueConfig{Name: "tryon_requests"},
			ResultRoutingKey: "tryon.outcome",
		},
		Worker: WorkerConfig{
			Concurrency:     2,
			JobTimeout:      90 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Fashn: FashnConfig{
			PollInterval: 2 * time.Second,
			MaxAttempts:  30,
		},
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		filePath  string
		wantErr   bool
		errString string
	}{
		{
			name:     "valid config file",
			filePath: "testdata/valid_config.yaml",
		},
		{
			name:      "non-existent file",
			filePath:  "testdata/nonexistent.yaml",
			wantErr:   true,
			errString: "failed to read config file",
		},
		{
			name:      "malformed yaml",
			filePath:  "testdata/malformed.yaml",
			wantErr:   true,
			errString: "failed to parse config file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(tt.filePath)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errString)
				assert.Nil(t, cfg)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)

			assert.Equal(t, 8080, cfg.Server.Port)
			assert.Equal(t, "localhost", cfg.Database.Host)
			assert.Equal(t, "vtryon_db", cfg.Database.Database)
			assert.Equal(t, "tryon_exchange", cfg.RabbitMQ.Exchange.Name)
			assert.Equal(t, "tryon_requests", cfg.RabbitMQ.Queue.Name)
			assert.Equal(t, "tryon.outcome", cfg.RabbitMQ.ResultRoutingKey)
			assert.Equal(t, "vtryon-api", cfg.App.Name)
			assert.Equal(t, 2*time.Second, cfg.Fashn.PollInterval)
			assert.Equal(t, 30, cfg.Fashn.MaxAttempts)
			assert.Equal(t, time.Minute, cfg.RateLimit.Window)
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("testdata/no_secrets.yaml")
	require.NoError(t, err)

	assert.Equal(t, "https://api.fashn.ai/v1", cfg.Fashn.BaseURL)
	assert.Equal(t, "tryon-v1.6", cfg.Fashn.ModelName)
	assert.Equal(t, 30*time.Second, cfg.Fashn.RequestTimeout)
	assert.Equal(t, 2*time.Second, cfg.Fashn.PollInterval)
	assert.Equal(t, 30, cfg.Fashn.MaxAttempts)
	assert.Equal(t, int64(5<<20), cfg.Upload.MaxFileSize)
	assert.Equal(t, "user_uploads", cfg.Cloudinary.Folder)
	assert.Equal(t, "en", cfg.I18n.DefaultLanguage)
}

func TestLoad_EnvSecrets(t *testing.T) {
	t.Setenv("FASHN_API_KEY", "env-key")
	t.Setenv("CLOUDINARY_CLOUD_NAME", "demo")
	t.Setenv("CLOUDINARY_API_SECRET", "shh")
	t.Setenv("REDIS_PASSWORD", "redis-pass")

	cfg, err := Load("testdata/no_secrets.yaml")
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.Fashn.APIKey)
	assert.Equal(t, "demo", cfg.Cloudinary.CloudName)
	assert.Equal(t, "shh", cfg.Cloudinary.APISecret)
	assert.Equal(t, "redis-pass", cfg.Redis.Password)

	// values present in the file win
	cfg, err = Load("testdata/valid_config.yaml")
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.Fashn.APIKey)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *Config)
		errString string
	}{
		{name: "valid config", mutate: func(c *Config) {}},
		{name: "empty rabbitmq host", mutate: func(c *Config) { c.RabbitMQ.Host = "" }, errString: "rabbitmq host is required"},
		{name: "invalid rabbitmq port", mutate: func(c *Config) { c.RabbitMQ.Port = 0 }, errString: "invalid rabbitmq port"},
		{name: "empty exchange name", mutate: func(c *Config) { c.RabbitMQ.Exchange.Name = "" }, errString: "rabbitmq exchange name is required"},
		{name: "empty queue name", mutate: func(c *Config) { c.RabbitMQ.Queue.Name = "" }, errString: "rabbitmq queue name is required"},
		{name: "empty result routing key", mutate: func(c *Config) { c.RabbitMQ.ResultRoutingKey = "" }, errString: "result routing key is required"},
		{name: "zero attempts", mutate: func(c *Config) { c.Fashn.MaxAttempts = 0 }, errString: "max_attempts"},
		{name: "zero poll interval", mutate: func(c *Config) { c.Fashn.PollInterval = 0 }, errString: "poll_interval"},
		{name: "missing api key is allowed", mutate: func(c *Config) { c.Fashn.APIKey = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.errString != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errString)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestConfig_ValidateAPIConfig(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *Config)
		errString string
	}{
		{name: "valid config", mutate: func(c *Config) {}},
		{name: "invalid server port - too low", mutate: func(c *Config) { c.Server.Port = 0 }, errString: "invalid server port"},
		{name: "invalid server port - too high", mutate: func(c *Config) { c.Server.Port = 70000 }, errString: "invalid server port"},
		{name: "empty database host", mutate: func(c *Config) { c.Database.Host = "" }, errString: "database host is required"},
		{name: "empty database name", mutate: func(c *Config) { c.Database.Database = "" }, errString: "database name is required"},
		{name: "shared check still applies", mutate: func(c *Config) { c.RabbitMQ.Host = "" }, errString: "rabbitmq host is required"},
		{
			name: "rate limit without redis",
			mutate: func(c *Config) {
				c.RateLimit = RateLimitConfig{Enabled: true, Requests: 5, Window: time.Minute}
			},
			errString: "redis addr is required",
		},
		{
			name: "rate limit without window",
			mutate: func(c *Config) {
				c.Redis.Addr = "localhost:6379"
				c.RateLimit = RateLimitConfig{Enabled: true, Requests: 5}
			},
			errString: "rate_limit requests and window",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.ValidateAPIConfig()
			if tt.errString != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errString)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestConfig_ValidateWorkerConfig(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *Config)
		errString string
	}{
		{name: "valid config", mutate: func(c *Config) {}},
		{name: "zero concurrency", mutate: func(c *Config) { c.Worker.Concurrency = 0 }, errString: "worker concurrency"},
		{name: "zero job timeout", mutate: func(c *Config) { c.Worker.JobTimeout = 0 }, errString: "worker job_timeout"},
		{name: "zero shutdown timeout", mutate: func(c *Config) { c.Worker.ShutdownTimeout = 0 }, errString: "worker shutdown_timeout"},
		{name: "bad metrics port", mutate: func(c *Config) { c.Worker.MetricsPort = 70000 }, errString: "invalid worker metrics port"},
		{name: "database not needed", mutate: func(c *Config) { c.Database = DatabaseConfig{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.ValidateWorkerConfig()
			if tt.errString != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errString)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestLoad_ValidateIntegration(t *testing.T) {
	t.Run("load and validate valid config", func(t *testing.T) {
		cfg, err := Load("testdata/valid_config.yaml")
		require.NoError(t, err)
		require.NoError(t, cfg.ValidateAPIConfig())
		require.NoError(t, cfg.ValidateWorkerConfig())
	})

	t.Run("load config with invalid port", func(t *testing.T) {
		cfg, err := Load("testdata/invalid_port.yaml")
		require.NoError(t, err)

		err = cfg.ValidateAPIConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid server port")
	})

	t.Run("load config with missing database", func(t *testing.T) {
		cfg, err := Load("testdata/missing_database.yaml")
		require.NoError(t, err)

		err = cfg.ValidateAPIConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database name is required")
	})
}
