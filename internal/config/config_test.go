package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("OPENROUTER_API_KEY", "")
	t.Setenv("PORT", "")

	cfg := Load()

	assert.Equal(t, "5002", cfg.Server.Port)
	assert.Equal(t, ProviderOpenRouter, cfg.LLM.Provider)
	assert.Equal(t, "deepseek/deepseek-chat-v3-0324:free", cfg.OpenRouter.Model)
	assert.Equal(t, 2, cfg.Retry.MaxRetries)
	assert.Equal(t, 5*time.Second, cfg.Retry.Backoff)
	assert.Equal(t, int64(5*1024*1024), cfg.Upload.MaxFileSize)
	assert.Empty(t, cfg.APIKey())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `
server:
  port: "6000"
llm:
  provider: gemini
  timeout: 30s
gemini:
  api_key: from-file
  model: gemini-from-file
retry:
  backoff: 1s
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "7000")
	t.Setenv("GEMINI_MODEL", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("PROVIDER", "")
	t.Setenv("LLM_TIMEOUT", "")
	t.Setenv("RETRY_BACKOFF", "")

	cfg := Load()

	assert.Equal(t, "7000", cfg.Server.Port)
	assert.Equal(t, ProviderGemini, cfg.LLM.Provider)
	assert.Equal(t, 30*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, "gemini-from-file", cfg.Gemini.Model)
	assert.Equal(t, "from-file", cfg.APIKey())
	assert.Equal(t, time.Second, cfg.Retry.Backoff)
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("LLM_MAX_TOKENS", "lots")
	t.Setenv("RETRY_BACKOFF", "soon")

	cfg := Load()

	assert.Equal(t, 4000, cfg.LLM.MaxTokens)
	assert.Equal(t, 5*time.Second, cfg.Retry.Backoff)
}

func TestLoad_RetryEnv(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("RETRY_MAX_RETRIES", "4")
	t.Setenv("RETRY_BACKOFF", "250ms")

	cfg := Load()

	assert.Equal(t, 4, cfg.Retry.MaxRetries)
	assert.Equal(t, 250*time.Millisecond, cfg.Retry.Backoff)
}
