package scholar

import (
	"context"
	"math"
	"time"
)

// RetryConfig configures retries of provider round trips that failed with a Network failure.
// Provider rejections and malformed responses are never retried.
type RetryConfig struct {
	MaxAttempts       int           `yaml:"maxAttempts"`
	InitialBackoff    time.Duration `yaml:"initialBackoff"`
	MaxBackoff        time.Duration `yaml:"maxBackoff"`
	BackoffMultiplier float64       `yaml:"backoffMultiplier"`
}

// NoRetry performs exactly one round trip.
var NoRetry = RetryConfig{
	MaxAttempts:       1,
	InitialBackoff:    500 * time.Millisecond,
	MaxBackoff:        10 * time.Second,
	BackoffMultiplier: 2.0,
}

// withRetry calls send until it succeeds, fails with a non-Network failure, or attempts run out.
func withRetry(ctx context.Context, cfg RetryConfig, send func() (rawPayload, error), onRetry func(attempt int, err error)) (rawPayload, error) {
	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		raw, err := send()
		if err == nil {
			return raw, nil
		}
		lastErr = err

		if KindOf(err) != KindNetwork || ctx.Err() != nil {
			return rawPayload{}, err
		}

		if attempt < attempts-1 {
			if onRetry != nil {
				onRetry(attempt+1, err)
			}
			select {
			case <-ctx.Done():
				return rawPayload{}, networkFailure(ctx.Err())
			case <-time.After(calculateBackoff(attempt, cfg)):
			}
		}
	}
	return rawPayload{}, lastErr
}

func calculateBackoff(attempt int, cfg RetryConfig) time.Duration {
	mult := cfg.BackoffMultiplier
	if mult <= 0 {
		mult = 1
	}
	backoff := float64(cfg.InitialBackoff) * math.Pow(mult, float64(attempt))
	if cfg.MaxBackoff > 0 && backoff > float64(cfg.MaxBackoff) {
		backoff = float64(cfg.MaxBackoff)
	}
	return time.Duration(backoff)
}
