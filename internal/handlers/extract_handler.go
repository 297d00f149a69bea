package handlers

import (
	"fmt"
	"io"
	"mime"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"alfredoptarigan/resume-optimizer/internal/apperrors"
	"alfredoptarigan/resume-optimizer/internal/middleware"
	"alfredoptarigan/resume-optimizer/internal/models"
	"alfredoptarigan/resume-optimizer/internal/services"
)

const pdfMediaType = "application/pdf"

type ExtractHandler struct {
	pdfParser   services.PDFParserService
	maxFileSize int64
	metrics     *middleware.Metrics
	log         logrus.FieldLogger
}

func NewExtractHandler(
	pdfParser services.PDFParserService,
	maxFileSize int64,
	metrics *middleware.Metrics,
	log logrus.FieldLogger,
) *ExtractHandler {
	return &ExtractHandler{
		pdfParser:   pdfParser,
		maxFileSize: maxFileSize,
		metrics:     metrics,
		log:         log,
	}
}

// HandleExtract handles POST /api/extract
func (h *ExtractHandler) HandleExtract(c *fiber.Ctx) error {
	log := requestLogger(c, h.log)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return apperrors.New(apperrors.KindMissingField, "No file uploaded")
	}

	mediaType, _, err := mime.ParseMediaType(fileHeader.Header.Get(fiber.HeaderContentType))
	if err != nil || mediaType != pdfMediaType {
		return apperrors.New(apperrors.KindUnsupportedType, "Only PDF files are allowed")
	}

	if fileHeader.Size > h.maxFileSize {
		return apperrors.New(apperrors.KindPayloadTooLarge,
			fmt.Sprintf("File too large. Max size: %d bytes", h.maxFileSize))
	}

	src, err := fileHeader.Open()
	if err != nil {
		return apperrors.Wrap(apperrors.KindExtractionFailure, "Failed to read uploaded file", err)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, h.maxFileSize+1))
	if err != nil {
		return apperrors.Wrap(apperrors.KindExtractionFailure, "Failed to read uploaded file", err)
	}
	if int64(len(data)) > h.maxFileSize {
		return apperrors.New(apperrors.KindPayloadTooLarge,
			fmt.Sprintf("File too large. Max size: %d bytes", h.maxFileSize))
	}

	if h.metrics != nil {
		h.metrics.IncrementExtractions()
	}

	log.WithFields(logrus.Fields{
		"filename": fileHeader.Filename,
		"size":     len(data),
	}).Info("📄 Extracting text from PDF")

	text, err := h.pdfParser.ExtractText(data)
	if err != nil {
		return &apperrors.Error{Kind: apperrors.KindExtractionFailure, Message: err.Error(), Err: err}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return apperrors.New(apperrors.KindEmptyContent, "No text content found in PDF")
	}

	return c.JSON(models.ExtractResponse{Text: text})
}
