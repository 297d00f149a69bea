package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// RetryingCompleter retries a completion only when the provider signals rate
// limiting. Any other failure is returned on first occurrence.
type RetryingCompleter struct {
	next       ChatCompleter
	maxRetries int
	backoff    time.Duration
	log        logrus.FieldLogger

	// OnRetry is called before every backoff wait.
	OnRetry func(attempt int, err error)

	sleep func(ctx context.Context, d time.Duration) error
}

func NewRetryingCompleter(next ChatCompleter, maxRetries int, backoff time.Duration, log logrus.FieldLogger) *RetryingCompleter {
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &RetryingCompleter{
		next:       next,
		maxRetries: maxRetries,
		backoff:    backoff,
		log:        log,
		sleep:      sleepContext,
	}
}

// Complete implements ChatCompleter.
func (r *RetryingCompleter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	for attempt := 0; ; attempt++ {
		reply, err := r.next.Complete(ctx, req)
		if err == nil {
			return reply, nil
		}

		if !IsRateLimited(err) || attempt >= r.maxRetries {
			return "", err
		}

		r.log.WithFields(logrus.Fields{
			"attempt": attempt + 1,
			"backoff": r.backoff,
		}).Warn("⚠️ Rate limit hit, retrying")

		if r.OnRetry != nil {
			r.OnRetry(attempt+1, err)
		}

		if err := r.sleep(ctx, r.backoff); err != nil {
			return "", err
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
