package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"alfredoptarigan/resume-optimizer/internal/apperrors"
	"alfredoptarigan/resume-optimizer/internal/middleware"
	"alfredoptarigan/resume-optimizer/internal/models"
	"alfredoptarigan/resume-optimizer/internal/services"
)

type AnalyzeHandler struct {
	analyzer services.AnalyzerService
	metrics  *middleware.Metrics
	log      logrus.FieldLogger
}

func NewAnalyzeHandler(
	analyzer services.AnalyzerService,
	metrics *middleware.Metrics,
	log logrus.FieldLogger,
) *AnalyzeHandler {
	return &AnalyzeHandler{
		analyzer: analyzer,
		metrics:  metrics,
		log:      log,
	}
}

// HandleAnalyze handles POST /api/analyze
func (h *AnalyzeHandler) HandleAnalyze(c *fiber.Ctx) error {
	var req models.AnalyzeRequest

	if err := c.BodyParser(&req); err != nil {
		return apperrors.Wrap(apperrors.KindBadRequest, "Invalid request payload", err)
	}

	if h.metrics != nil {
		h.metrics.IncrementAnalyses()
	}

	resp, err := h.analyzer.Analyze(c.UserContext(), req)
	if err != nil {
		if h.metrics != nil {
			h.metrics.IncrementAnalysesFailed()
		}
		requestLogger(c, h.log).WithField("kind", apperrors.KindOf(err)).Warn("⚠️ Resume analysis failed")
		return err
	}

	return c.JSON(resp)
}
