package server

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"alfredoptarigan/resume-optimizer/internal/apperrors"
	"alfredoptarigan/resume-optimizer/internal/config"
	"alfredoptarigan/resume-optimizer/internal/handlers"
	"alfredoptarigan/resume-optimizer/internal/middleware"
	"alfredoptarigan/resume-optimizer/internal/models"
	"alfredoptarigan/resume-optimizer/internal/services"
)

// multipart framing on top of the file itself. Bodies past MaxFileSize plus
// this slack are refused by fasthttp with 413 before any handler runs.
const bodyLimitSlack = 1 << 20

type Dependencies struct {
	Config    *config.Config
	Log       *logrus.Logger
	Analyzer  services.AnalyzerService
	PDFParser services.PDFParserService
	Limiter   *middleware.SlidingWindowLimiter
	Metrics   *middleware.Metrics
}

// NewApp wires middleware, handlers and routes into a fiber app.
func NewApp(deps Dependencies) *fiber.App {
	cfg := deps.Config

	app := fiber.New(fiber.Config{
		AppName:      "Resume Optimizer API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.LLM.Timeout + 30*time.Second,
		BodyLimit:    int(cfg.Upload.MaxFileSize) + bodyLimitSlack,
		ErrorHandler: NewErrorHandler(deps.Log),
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator:  uuid.NewString,
		ContextKey: handlers.RequestIDKey,
	}))
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path} ${locals:requestid}\n",
		TimeFormat: "2006-01-02 15:04:05",
		Output:     deps.Log.Out,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.CORSOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))
	app.Use(deps.Metrics.Track())

	statusHandler := handlers.NewStatusHandler(deps.Metrics)
	extractHandler := handlers.NewExtractHandler(deps.PDFParser, cfg.Upload.MaxFileSize, deps.Metrics, deps.Log)
	analyzeHandler := handlers.NewAnalyzeHandler(deps.Analyzer, deps.Metrics, deps.Log)

	api := app.Group("/api")
	api.Get("/", statusHandler.HandleStatus)
	api.Get("/metrics", statusHandler.HandleMetrics)
	api.Post("/extract", extractHandler.HandleExtract)
	api.Post("/analyze", middleware.RateLimit(deps.Limiter, deps.Metrics), analyzeHandler.HandleAnalyze)

	return app
}

// NewErrorHandler renders every error as {message, detail?, debug?} and logs it.
func NewErrorHandler(log logrus.FieldLogger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		body := models.ErrorResponse{Message: err.Error()}

		var appErr *apperrors.Error
		var fiberErr *fiber.Error
		switch {
		case errors.As(err, &appErr):
			code = appErr.Status()
			body = models.ErrorResponse{
				Message: appErr.Message,
				Detail:  appErr.Detail,
				Debug:   appErr.Debug,
			}
		case errors.As(err, &fiberErr):
			code = fiberErr.Code
			body.Message = fiberErr.Message
		}

		entry := log.WithError(err).WithFields(logrus.Fields{
			"status": code,
			"method": c.Method(),
			"path":   c.Path(),
		})
		if id, ok := c.Locals(handlers.RequestIDKey).(string); ok {
			entry = entry.WithField("request_id", id)
		}
		if code >= fiber.StatusInternalServerError {
			entry.Error("❌ Request failed")
		} else {
			entry.Warn("⚠️ Request rejected")
		}

		return c.Status(code).JSON(body)
	}
}
