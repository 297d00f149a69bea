package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
	"google.golang.org/genai"
)

// GeminiClient is the ChatCompleter backed by the Gemini API. System messages
// become the system instruction; everything else is sent as user content.
type GeminiClient struct {
	client *genai.Client
	log    logrus.FieldLogger
}

func NewGeminiClient(ctx context.Context, apiKey string, log logrus.FieldLogger) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiClient{client: client, log: log}, nil
}

// Complete implements ChatCompleter.
func (g *GeminiClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	system, contents := splitGeminiMessages(req.Messages)

	config := &genai.GenerateContentConfig{
		Temperature:     &req.Temperature,
		MaxOutputTokens: int32(req.MaxTokens),
	}
	if system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	resp, err := g.client.Models.GenerateContent(ctx, req.Model, contents, config)
	if err != nil {
		g.log.WithError(err).Error("❌ Gemini API error")
		return "", classifyGeminiError(err)
	}

	if resp == nil {
		return "", ErrEmptyCompletion
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		if len(resp.Candidates) > 0 {
			g.log.WithField("finish_reason", resp.Candidates[0].FinishReason).Warn("⚠️ Gemini returned no text")
		}
		return "", ErrEmptyCompletion
	}

	return text, nil
}

func splitGeminiMessages(messages []ChatMessage) (string, []*genai.Content) {
	var system []string
	var contents []*genai.Content

	for _, m := range messages {
		if m.Role == RoleSystem {
			system = append(system, m.Content)
			continue
		}
		contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
	}

	return strings.Join(system, "\n\n"), contents
}

func classifyGeminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %w", ErrRateLimited, err)
	}
	return fmt.Errorf("failed to generate text: %w", err)
}
