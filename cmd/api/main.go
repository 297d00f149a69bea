package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"alfredoptarigan/resume-optimizer/internal/config"
	"alfredoptarigan/resume-optimizer/internal/logger"
	"alfredoptarigan/resume-optimizer/internal/middleware"
	"alfredoptarigan/resume-optimizer/internal/server"
	"alfredoptarigan/resume-optimizer/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logr, err := logger.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	logr.Info("✅ Config loaded successfully")

	metrics := middleware.NewMetrics()

	// Initialize AI provider
	logr.WithFields(logrus.Fields{
		"provider":           cfg.LLM.Provider,
		"api_key_configured": cfg.APIKey() != "",
	}).Info("🔑 AI provider credentials checked")

	completer, model, err := newCompleter(cfg, logr)
	if err != nil {
		logr.Fatalf("❌ Failed to initialize AI provider: %v", err)
	}
	if completer == nil {
		logr.Warnf("⚠️  No API key configured for provider %q, /api/analyze will fail", cfg.LLM.Provider)
	} else {
		if cfg.LLM.RequestsPerMinute > 0 {
			completer = services.NewThrottledCompleter(completer, cfg.LLM.RequestsPerMinute)
		}

		retrying := services.NewRetryingCompleter(completer, cfg.Retry.MaxRetries, cfg.Retry.Backoff, logr)
		retrying.OnRetry = func(int, error) { metrics.IncrementProviderRetries() }
		completer = retrying

		logr.WithFields(logrus.Fields{
			"provider": cfg.LLM.Provider,
			"model":    model,
		}).Info("✅ AI provider initialized successfully")
	}

	analyzer := services.NewAnalyzerService(completer, services.AnalyzerOptions{
		Model:       model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		Timeout:     cfg.LLM.Timeout,
		ExposeDebug: !cfg.IsProduction(),
	}, logr)

	limiter := middleware.NewSlidingWindowLimiter(middleware.AnalyzeWindow, middleware.AnalyzeMaxRequests)
	limiter.StartCleanup(5 * time.Minute)

	app := server.NewApp(server.Dependencies{
		Config:    cfg,
		Log:       logr,
		Analyzer:  analyzer,
		PDFParser: services.NewPDFParserService(),
		Limiter:   limiter,
		Metrics:   metrics,
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logr.Info("🛑 Shutting down server...")
		limiter.Stop()
		if err := app.Shutdown(); err != nil {
			logr.Errorf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logr.Infof("🚀 Server starting on %s", addr)

	if err := app.Listen(addr); err != nil {
		logr.Fatalf("❌ Failed to start server: %v", err)
	}
}

// newCompleter returns the provider client selected by LLM_PROVIDER together
// with the model name it will be called with. A nil completer means no API key.
func newCompleter(cfg *config.Config, logr logrus.FieldLogger) (services.ChatCompleter, string, error) {
	apiKey := cfg.APIKey()

	switch cfg.LLM.Provider {
	case config.ProviderGemini:
		if apiKey == "" {
			return nil, cfg.Gemini.Model, nil
		}
		client, err := services.NewGeminiClient(context.Background(), apiKey, logr)
		if err != nil {
			return nil, "", err
		}
		return client, cfg.Gemini.Model, nil

	case config.ProviderOpenRouter, "":
		if apiKey == "" {
			return nil, cfg.OpenRouter.Model, nil
		}
		return services.NewOpenRouterClient(services.OpenRouterOptions{
			APIKey:  apiKey,
			BaseURL: cfg.OpenRouter.BaseURL,
			Referer: cfg.OpenRouter.Referer,
			Title:   cfg.OpenRouter.Title,
		}), cfg.OpenRouter.Model, nil

	default:
		return nil, "", fmt.Errorf("unknown LLM provider %q", cfg.LLM.Provider)
	}
}
