package services

import (
	"context"
	"errors"
)

const (
	RoleSystem = "system"
	RoleUser   = "user"
)

var (
	// ErrRateLimited marks a provider failure caused by throttling (HTTP 429).
	ErrRateLimited = errors.New("provider rate limit exceeded")
	// ErrEmptyCompletion is returned when the provider answers without any text.
	ErrEmptyCompletion = errors.New("empty response from AI provider")
)

type ChatMessage struct {
	Role    string
	Content string
}

type CompletionRequest struct {
	Model       string
	Messages    []ChatMessage
	Temperature float32
	MaxTokens   int
}

// ChatCompleter sends one chat-completion request and returns the text of the
// first reply. Implementations wrap throttling failures with ErrRateLimited.
type ChatCompleter interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// IsRateLimited reports whether err carries a provider throttling signal.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}
