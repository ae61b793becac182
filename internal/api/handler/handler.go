package handler

import (
	"context"
	"log/slog"

	"github.com/cuongbtq/vtryon/internal/api/model"
	"github.com/cuongbtq/vtryon/internal/api/storage"
	"github.com/cuongbtq/vtryon/internal/tryon"
	"github.com/cuongbtq/vtryon/internal/upload"
	"github.com/gin-gonic/gin"
)

// LocaleKey is the gin context key holding the negotiated language
const LocaleKey = "locale"

// ModelStore reads the model gallery. *storage.Storage implements it.
type ModelStore interface {
	ListModels(ctx context.Context, filter storage.ModelFilter) ([]model.Model, error)
	GetModelByID(ctx context.Context, modelID string) (*model.Model, error)
}

// TryOnService runs a try-on session. *tryon.Service implements it.
type TryOnService interface {
	Process(ctx context.Context, req tryon.JobRequest) tryon.Outcome
	HasCredential() bool
}

// Publisher queues try-on messages. *rabbitmq.Client implements it.
type Publisher interface {
	PublishWithRetry(ctx context.Context, body []byte, contentType string) error
}

// Forwarder notifies a downstream endpoint of uploaded images
type Forwarder interface {
	ForwardBestEffort(ctx context.Context, imageURL string)
}

// Translator resolves localized messages. *i18n.Translator implements it.
type Translator interface {
	T(lang, key string) string
	Default() string
}

// HealthCheck probes one dependency
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Logger        *slog.Logger
	Models        ModelStore
	TryOn         TryOnService
	Publisher     Publisher
	Uploader      upload.Uploader
	Forwarder     Forwarder
	Translator    Translator
	ModelName     string
	MaxUploadSize int64
	ServiceName   string
	HealthChecks  []HealthCheck
}

func localeOf(c *gin.Context, tr Translator) string {
	if v, ok := c.Get(LocaleKey); ok {
		if lang, ok := v.(string); ok && lang != "" {
			return lang
		}
	}
	return tr.Default()
}
