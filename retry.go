package glotmark

import (
	"context"
	"errors"
	"time"
)

// RetryConfig holds configuration for retry behavior.
type RetryConfig struct {
	MaxRetries int           // Maximum number of retry attempts
	BaseDelay  time.Duration // Initial delay between retries
	MaxDelay   time.Duration // Maximum delay between retries
}

// DefaultRetryConfig returns sensible defaults for retry behavior.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		BaseDelay:  1 * time.Second,
		MaxDelay:   30 * time.Second,
	}
}

// RetryFunc is a function that can be retried.
type RetryFunc[T any] func() (T, error)

// WithRetry executes a function with exponential backoff retry.
func WithRetry[T any](ctx context.Context, cfg RetryConfig, fn RetryFunc[T]) (T, error) {
	var lastErr error
	var zero T

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		default:
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}

		lastErr = err

		if !IsRetryable(err) {
			return zero, err
		}

		// No sleep after the last attempt.
		if attempt < cfg.MaxRetries {
			delay := cfg.BaseDelay * time.Duration(1<<attempt)
			if delay > cfg.MaxDelay {
				delay = cfg.MaxDelay
			}

			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return zero, lastErr
}

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var backendErr *BackendError
	if errors.As(err, &backendErr) {
		return backendErr.Retryable
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	return false
}

// RetryableBackend wraps a Backend with retry logic around Translate.
type RetryableBackend struct {
	backend Backend
	config  RetryConfig
}

// NewRetryableBackend creates a backend wrapper with retry logic.
func NewRetryableBackend(backend Backend, cfg RetryConfig) *RetryableBackend {
	return &RetryableBackend{
		backend: backend,
		config:  cfg,
	}
}

// Translate implements Backend with retry logic.
func (b *RetryableBackend) Translate(ctx context.Context, text, targetLang string) (*TranslationResult, error) {
	return WithRetry(ctx, b.config, func() (*TranslationResult, error) {
		return b.backend.Translate(ctx, text, targetLang)
	})
}

// IsAvailable delegates to the wrapped backend.
func (b *RetryableBackend) IsAvailable(ctx context.Context) bool {
	return b.backend.IsAvailable(ctx)
}

// GetCachedResult delegates to the wrapped backend.
func (b *RetryableBackend) GetCachedResult(text, targetLang string) (*TranslationResult, bool) {
	return b.backend.GetCachedResult(text, targetLang)
}

// ClearCache delegates to the wrapped backend.
func (b *RetryableBackend) ClearCache() {
	b.backend.ClearCache()
}

// Verify RetryableBackend implements Backend
var _ Backend = (*RetryableBackend)(nil)
