package llm

import (
	"errors"
	"fmt"
	"time"
)

// ErrRateLimit indicates the provider returned a rate limit error (429).
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse indicates the provider answered with something that
// carries no usable completion.
type ErrInvalidResponse struct {
	Body string
	Err  error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid LLM response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable indicates the provider is down, unreachable or
// rejected our credentials.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("LLM provider unavailable: %v", e.Err)
	}
	return "LLM provider unavailable"
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrTimeout indicates a single completion exceeded its deadline.
type ErrTimeout struct {
	After time.Duration
	Err   error
}

func (e *ErrTimeout) Error() string {
	return fmt.Sprintf("LLM call timed out after %s", e.After)
}

func (e *ErrTimeout) Unwrap() error { return e.Err }

// IsRetryable reports whether err is a transient provider failure.
func IsRetryable(err error) bool {
	var (
		rl      *ErrRateLimit
		unavail *ErrProviderUnavailable
		timeout *ErrTimeout
	)
	return errors.As(err, &rl) || errors.As(err, &unavail) || errors.As(err, &timeout)
}
