package services

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// ThrottledCompleter spaces outgoing provider calls to stay under a
// requests-per-minute budget.
type ThrottledCompleter struct {
	next    ChatCompleter
	limiter *rate.Limiter
}

func NewThrottledCompleter(next ChatCompleter, requestsPerMinute int) *ThrottledCompleter {
	limit := rate.Limit(float64(requestsPerMinute) / 60.0)
	return &ThrottledCompleter{
		next:    next,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Complete implements ChatCompleter.
func (t *ThrottledCompleter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("waiting for provider throttle: %w", err)
	}
	return t.next.Complete(ctx, req)
}
