package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
	LLM        LLMConfig        `yaml:"llm"`
	OpenRouter OpenRouterConfig `yaml:"openrouter"`
	Gemini     GeminiConfig     `yaml:"gemini"`
	Retry      RetryConfig      `yaml:"retry"`
	Upload     UploadConfig     `yaml:"upload"`
}

type ServerConfig struct {
	Port        string `yaml:"port"`
	Env         string `yaml:"env"`
	CORSOrigins string `yaml:"cors_origins"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// LLMConfig holds the settings shared by every chat-completion backend.
type LLMConfig struct {
	Provider          string        `yaml:"provider"`
	Temperature       float32       `yaml:"temperature"`
	MaxTokens         int           `yaml:"max_tokens"`
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerMinute int           `yaml:"requests_per_minute"`
}

type OpenRouterConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
	Referer string `yaml:"referer"`
	Title   string `yaml:"title"`
}

type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

type RetryConfig struct {
	MaxRetries int           `yaml:"max_retries"`
	Backoff    time.Duration `yaml:"backoff"`
}

type UploadConfig struct {
	MaxFileSize int64 `yaml:"max_file_size"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        "5002",
			Env:         "development",
			CORSOrigins: "*",
		},
		Log: LogConfig{
			Level: "info",
		},
		LLM: LLMConfig{
			Provider:    ProviderOpenRouter,
			Temperature: 0.7,
			MaxTokens:   4000,
			Timeout:     120 * time.Second,
		},
		OpenRouter: OpenRouterConfig{
			BaseURL: "https://openrouter.ai/api/v1",
			Model:   "deepseek/deepseek-chat-v3-0324:free",
			Referer: "http://localhost:3000",
			Title:   "Resume Optimizer",
		},
		Gemini: GeminiConfig{
			Model: "gemini-2.5-flash",
		},
		Retry: RetryConfig{
			MaxRetries: 2,
			Backoff:    5 * time.Second,
		},
		Upload: UploadConfig{
			MaxFileSize: 5 * 1024 * 1024,
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file named by
// CONFIG_FILE, and finally the process environment (including .env).
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using environment and default values.")
	}

	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			log.Printf("⚠️  Ignoring config file %s: %v", path, err)
		}
	}

	cfg.applyEnv()
	return cfg
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

func (c *Config) applyEnv() {
	c.Server.Port = getEnv("PORT", c.Server.Port)
	c.Server.Env = getEnv("ENV", c.Server.Env)
	c.Server.CORSOrigins = getEnv("CORS_ORIGINS", c.Server.CORSOrigins)

	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.File = getEnv("LOG_FILE", c.Log.File)

	c.LLM.Provider = strings.ToLower(getEnv("PROVIDER", c.LLM.Provider))
	c.LLM.Temperature = getEnvAsFloat32("LLM_TEMPERATURE", c.LLM.Temperature)
	c.LLM.MaxTokens = getEnvAsInt("LLM_MAX_TOKENS", c.LLM.MaxTokens)
	c.LLM.Timeout = getEnvAsDuration("LLM_TIMEOUT", c.LLM.Timeout)
	c.LLM.RequestsPerMinute = getEnvAsInt("LLM_REQUESTS_PER_MINUTE", c.LLM.RequestsPerMinute)

	c.OpenRouter.APIKey = getEnv("OPENROUTER_API_KEY", c.OpenRouter.APIKey)
	c.OpenRouter.BaseURL = getEnv("OPENROUTER_BASE_URL", c.OpenRouter.BaseURL)
	c.OpenRouter.Model = getEnv("OPENROUTER_MODEL", c.OpenRouter.Model)
	c.OpenRouter.Referer = getEnv("OPENROUTER_REFERER", c.OpenRouter.Referer)
	c.OpenRouter.Title = getEnv("OPENROUTER_TITLE", c.OpenRouter.Title)

	c.Gemini.APIKey = getEnv("GEMINI_API_KEY", c.Gemini.APIKey)
	c.Gemini.Model = getEnv("GEMINI_MODEL", c.Gemini.Model)

	c.Retry.MaxRetries = getEnvAsInt("RETRY_MAX_RETRIES", c.Retry.MaxRetries)
	c.Retry.Backoff = getEnvAsDuration("RETRY_BACKOFF", c.Retry.Backoff)

	c.Upload.MaxFileSize = getEnvAsInt64("MAX_FILE_SIZE", c.Upload.MaxFileSize)
}

// APIKey returns the credential of the selected provider, or "" when none is set.
func (c *Config) APIKey() string {
	if c.LLM.Provider == ProviderGemini {
		return c.Gemini.APIKey
	}
	return c.OpenRouter.APIKey
}

func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 32); err == nil {
		return float32(value)
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	return defaultValue
}
