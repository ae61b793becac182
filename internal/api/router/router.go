package router

import (
	"net/http"

	"github.com/cuongbtq/vtryon/internal/api/handler"
	"github.com/gin-gonic/gin"
)

// Options holds router level dependencies
type Options struct {
	// Locales negotiates the response language; nil keeps the translator default
	Locales LocaleResolver
	// Limiter throttles try-on submissions; nil disables rate limiting
	Limiter RateLimiter
	// Metrics is served on /metrics when set
	Metrics http.Handler
}

// SetupRouter configures and returns the Gin router with all routes
func SetupRouter(deps *handler.Dependencies, opts Options) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(gin.Recovery())
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(CORSMiddleware())
	if opts.Locales != nil {
		r.Use(LocaleMiddleware(opts.Locales))
	}

	healthHandler := handler.NewHealthHandler(deps)
	r.GET("/health", healthHandler.Health)

	if opts.Metrics != nil {
		r.GET("/metrics", gin.WrapH(opts.Metrics))
	}

	modelHandler := handler.NewModelHandler(deps)
	uploadHandler := handler.NewUploadHandler(deps)
	tryOnHandler := handler.NewTryOnHandler(deps)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		models := v1.Group("/models")
		{
			// GET /api/v1/models - List gallery models with filtering and pagination
			models.GET("", modelHandler.ListModels)

			// GET /api/v1/models/:model_id - Get a gallery model
			models.GET("/:model_id", modelHandler.GetModel)
		}

		// POST /api/v1/uploads/clothes - Upload a garment photo
		v1.POST("/uploads/clothes", uploadHandler.UploadClothes)

		tryons := v1.Group("/tryons")
		if opts.Limiter != nil {
			tryons.Use(RateLimitMiddleware(opts.Limiter, deps.Translator, deps.Logger))
		}
		{
			// POST /api/v1/tryons - Run a try-on and wait for the result
			tryons.POST("", tryOnHandler.CreateTryOn)

			// POST /api/v1/tryons/async - Queue a try-on for the worker service
			tryons.POST("/async", tryOnHandler.CreateTryOnAsync)
		}
	}

	return r
}
