package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/cuongbtq/vtryon/internal/api/domain"
	"github.com/cuongbtq/vtryon/internal/api/dto"
	"github.com/cuongbtq/vtryon/internal/tryon"
	workerdomain "github.com/cuongbtq/vtryon/internal/worker/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TryOnHandler runs try-on sessions synchronously or queues them
type TryOnHandler struct {
	logger     *slog.Logger
	models     ModelStore
	service    TryOnService
	publisher  Publisher
	translator Translator
	modelName  string
}

// NewTryOnHandler creates a new TryOnHandler instance
func NewTryOnHandler(deps *Dependencies) *TryOnHandler {
	return &TryOnHandler{
		logger:     deps.Logger,
		models:     deps.Models,
		service:    deps.TryOn,
		publisher:  deps.Publisher,
		translator: deps.Translator,
		modelName:  deps.ModelName,
	}
}

// resolved is a validated try-on request
type resolved struct {
	modelImage   string
	garmentImage string
	mode         tryon.Mode
}

// CreateTryOn handles POST /api/v1/tryons
// Blocks until the remote job reaches a terminal state.
func (h *TryOnHandler) CreateTryOn(c *gin.Context) {
	in, ok := h.resolve(c)
	if !ok {
		return
	}

	req := tryon.NewJobRequestForModel(h.modelName, in.modelImage, in.garmentImage, in.mode)
	outcome := h.service.Process(c.Request.Context(), req)

	status := http.StatusOK
	if outcome.Kind == tryon.KindConfigurationError {
		status = http.StatusServiceUnavailable
	}

	lang := localeOf(c, h.translator)
	c.JSON(status, dto.TryOnResponse{
		Outcome: outcome,
		Message: h.translator.T(lang, "tryon.outcome."+outcome.Kind.String()),
	})
}

// CreateTryOnAsync handles POST /api/v1/tryons/async
// Publishes the request for the worker service and returns immediately.
func (h *TryOnHandler) CreateTryOnAsync(c *gin.Context) {
	in, ok := h.resolve(c)
	if !ok {
		return
	}

	lang := localeOf(c, h.translator)
	msg := workerdomain.TryOnMessage{
		RequestID:    uuid.New().String(),
		ModelImage:   in.modelImage,
		GarmentImage: in.garmentImage,
		Mode:         string(in.mode),
	}

	body, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("Failed to marshal try-on message", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to queue try-on request",
		})
		return
	}

	if err := h.publisher.PublishWithRetry(c.Request.Context(), body, "application/json"); err != nil {
		h.logger.Error("Failed to publish try-on message",
			slog.String("request_id", msg.RequestID),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Failed to queue try-on request",
			"message": h.translator.T(lang, "errors.queue_unavailable"),
		})
		return
	}

	h.logger.Info("Try-on request queued",
		slog.String("request_id", msg.RequestID),
		slog.String("mode", msg.Mode),
	)

	c.JSON(http.StatusAccepted, dto.QueuedTryOnResponse{
		RequestID: msg.RequestID,
		Status:    "queued",
		Message:   h.translator.T(lang, "tryon.queued"),
	})
}

// resolve binds and validates the body, writing the error response itself
func (h *TryOnHandler) resolve(c *gin.Context) (resolved, bool) {
	lang := localeOf(c, h.translator)
	badRequest := func(detail string) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   detail,
			"message": h.translator.T(lang, "errors.invalid_request"),
		})
	}

	var req dto.TryOnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		badRequest("Invalid request body")
		return resolved{}, false
	}

	mode, err := tryon.ParseMode(req.Mode)
	if err != nil {
		badRequest(err.Error())
		return resolved{}, false
	}

	hasID := strings.TrimSpace(req.ModelID) != ""
	hasImage := strings.TrimSpace(req.ModelImage) != ""
	if hasID == hasImage {
		badRequest("exactly one of model_id or model_image is required")
		return resolved{}, false
	}

	modelImage := req.ModelImage
	if hasID {
		if _, err := uuid.Parse(req.ModelID); err != nil {
			badRequest("model_id must be a valid UUID")
			return resolved{}, false
		}

		m, err := h.models.GetModelByID(c.Request.Context(), req.ModelID)
		if err != nil {
			if errors.Is(err, domain.ErrModelNotFound) {
				c.JSON(http.StatusNotFound, gin.H{
					"error":   "Model not found",
					"message": h.translator.T(lang, "errors.model_not_found"),
				})
				return resolved{}, false
			}
			h.logger.Error("Failed to get model",
				slog.String("model_id", req.ModelID),
				slog.String("error", err.Error()),
			)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to get model",
			})
			return resolved{}, false
		}
		modelImage = m.ImageURL
	}

	return resolved{
		modelImage:   modelImage,
		garmentImage: req.GarmentImage,
		mode:         mode,
	}, true
}
