package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"inkwell-report-backend/utilities"
)

// TimeoutClient bounds every call with its own deadline.
type TimeoutClient struct {
	inner   LLMClient
	timeout time.Duration
}

// WithTimeout wraps c so that each call fails with ErrTimeout after d.
// A non-positive d returns c unchanged.
func WithTimeout(c LLMClient, d time.Duration) LLMClient {
	if d <= 0 {
		return c
	}
	return &TimeoutClient{inner: c, timeout: d}
}

func (t *TimeoutClient) GenerateResponse(ctx context.Context, prompt string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	text, err := t.inner.GenerateResponse(callCtx, prompt)
	if err != nil && callCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
		return "", &ErrTimeout{After: t.timeout, Err: err}
	}
	return text, err
}

func (t *TimeoutClient) ModelID() string { return t.inner.ModelID() }

// LoggingClient logs every call with its latency.
type LoggingClient struct {
	inner LLMClient
	log   *utilities.Logger
}

func WithLogging(c LLMClient, log *utilities.Logger) LLMClient {
	if log == nil {
		return c
	}
	return &LoggingClient{inner: c, log: log}
}

func (l *LoggingClient) GenerateResponse(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	text, err := l.inner.GenerateResponse(ctx, prompt)
	latency := time.Since(start).Milliseconds()

	if err != nil {
		l.log.Warn("llm call failed",
			"model", l.inner.ModelID(),
			"latency_ms", latency,
			"prompt_chars", len(prompt),
			"error", err,
		)
		return text, err
	}
	l.log.Debug("llm call",
		"model", l.inner.ModelID(),
		"latency_ms", latency,
		"prompt_chars", len(prompt),
		"response_chars", len(text),
	)
	return text, nil
}

func (l *LoggingClient) ModelID() string { return l.inner.ModelID() }

// RetryConfig controls WithRetry. MaxAttempts of 1 disables retries.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 1,
		InitialWait: 500 * time.Millisecond,
		MaxWait:     10 * time.Second,
		Multiplier:  2,
	}
}

// RetryClient retries transient errors with exponential backoff and jitter.
type RetryClient struct {
	inner  LLMClient
	config RetryConfig
}

func WithRetry(c LLMClient, cfg RetryConfig) LLMClient {
	if cfg.MaxAttempts <= 1 {
		return c
	}
	return &RetryClient{inner: c, config: cfg}
}

func (r *RetryClient) GenerateResponse(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for attempt := range r.config.MaxAttempts {
		text, err := r.inner.GenerateResponse(ctx, prompt)
		if err == nil {
			return text, nil
		}
		lastErr = err

		if errors.Is(err, context.Canceled) || !IsRetryable(err) {
			return "", err
		}
		if attempt == r.config.MaxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(r.backoff(attempt, err)):
		}
	}
	return "", lastErr
}

func (r *RetryClient) ModelID() string { return r.inner.ModelID() }

func (r *RetryClient) backoff(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	wait := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt))
	if wait > float64(r.config.MaxWait) {
		wait = float64(r.config.MaxWait)
	}
	// ±20% jitter
	wait += wait * 0.2 * (2*rand.Float64() - 1)
	if wait < 0 {
		wait = 0
	}
	return time.Duration(wait)
}
