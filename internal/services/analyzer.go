package services

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"alfredoptarigan/resume-optimizer/internal/apperrors"
	"alfredoptarigan/resume-optimizer/internal/models"
)

const debugSliceLen = 200

type AnalyzerService interface {
	Analyze(ctx context.Context, req models.AnalyzeRequest) (*models.AnalyzeResponse, error)
}

type AnalyzerOptions struct {
	Model       string
	Temperature float32
	MaxTokens   int
	// Timeout bounds the whole provider exchange, retries included. Zero means no bound.
	Timeout time.Duration
	// ExposeDebug adds the head of an unparseable reply to the error response.
	ExposeDebug bool
}

type analyzerService struct {
	completer     ChatCompleter
	promptBuilder *PromptBuilder
	opts          AnalyzerOptions
	log           logrus.FieldLogger
}

// NewAnalyzerService builds the analyzer. A nil completer means no provider
// credential was configured; every analysis then fails as Unconfigured.
func NewAnalyzerService(completer ChatCompleter, opts AnalyzerOptions, log logrus.FieldLogger) AnalyzerService {
	return &analyzerService{
		completer:     completer,
		promptBuilder: NewPromptBuilder(),
		opts:          opts,
		log:           log,
	}
}

func (a *analyzerService) Analyze(ctx context.Context, req models.AnalyzeRequest) (*models.AnalyzeResponse, error) {
	if strings.TrimSpace(req.Text) == "" || strings.TrimSpace(req.JobTitle) == "" {
		return nil, apperrors.New(apperrors.KindMissingField, "Text and job title are required")
	}

	if a.completer == nil {
		return nil, apperrors.New(apperrors.KindUnconfigured, "AI provider API key not configured")
	}

	if a.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.opts.Timeout)
		defer cancel()
	}

	log := a.log.WithFields(logrus.Fields{
		"model":       a.opts.Model,
		"job_title":   req.JobTitle,
		"text_length": len(req.Text),
	})
	log.Info("🤖 Analyzing resume with LLM")

	reply, err := a.completer.Complete(ctx, CompletionRequest{
		Model:       a.opts.Model,
		Messages:    a.promptBuilder.BuildMessages(req.JobTitle, req.Text),
		Temperature: a.opts.Temperature,
		MaxTokens:   a.opts.MaxTokens,
	})
	if errors.Is(err, ErrEmptyCompletion) {
		log.Warn("⚠️ Empty response received from AI provider")
		return nil, apperrors.Wrap(apperrors.KindUnparseableResponse, "Empty response from AI provider", err)
	}
	if err != nil {
		log.WithError(err).Error("❌ AI provider error")
		return nil, apperrors.Wrap(apperrors.KindProviderError, "AI provider error. Please try again in a minute.", err)
	}

	log.WithField("reply_length", len(reply)).Info("✅ Analysis response received")

	obj, err := ExtractJSONObject(reply)
	if err != nil {
		debug := headRunes(reply, debugSliceLen)
		log.WithError(err).WithField("debug", debug).Debug("unparseable model reply")
		log.WithError(err).Error("❌ Failed to parse AI response")

		appErr := apperrors.Wrap(apperrors.KindUnparseableResponse, "Failed to parse AI response", err)
		appErr.Detail = ""
		if a.opts.ExposeDebug {
			appErr.Debug = debug
		}
		return nil, appErr
	}

	return &models.AnalyzeResponse{
		ModelUsed:      a.opts.Model,
		AnalysisResult: analysisFromObject(obj, req.Text),
	}, nil
}

func headRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
