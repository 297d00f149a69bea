package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/resume-optimizer/internal/config"
	"alfredoptarigan/resume-optimizer/internal/logger"
	"alfredoptarigan/resume-optimizer/internal/services"
)

func TestNewCompleter_NoKeyMeansUnconfigured(t *testing.T) {
	cfg := config.Default()
	cfg.Gemini.APIKey = "gemini-key"

	completer, model, err := newCompleter(cfg, logger.Discard())
	require.NoError(t, err)
	assert.Nil(t, completer)
	assert.Equal(t, cfg.OpenRouter.Model, model)
}

func TestNewCompleter_OpenRouter(t *testing.T) {
	cfg := config.Default()
	cfg.OpenRouter.APIKey = "or-key"

	completer, model, err := newCompleter(cfg, logger.Discard())
	require.NoError(t, err)
	assert.IsType(t, &services.OpenRouterClient{}, completer)
	assert.Equal(t, "deepseek/deepseek-chat-v3-0324:free", model)
}

func TestNewCompleter_GeminiUsesGeminiKey(t *testing.T) {
	cfg := config.Default()
	cfg.LLM.Provider = config.ProviderGemini
	cfg.OpenRouter.APIKey = "or-key"

	completer, model, err := newCompleter(cfg, logger.Discard())
	require.NoError(t, err)
	assert.Nil(t, completer)
	assert.Equal(t, "gemini-2.5-flash", model)
}

func TestNewCompleter_UnknownProvider(t *testing.T) {
	cfg := config.Default()
	cfg.LLM.Provider = "bard"

	_, _, err := newCompleter(cfg, logger.Discard())
	assert.EqualError(t, err, `unknown LLM provider "bard"`)
}
