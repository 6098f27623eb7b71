package glotmark

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		BaseDelay:  time.Millisecond,
		MaxDelay:   5 * time.Millisecond,
	}
}

func TestWithRetry_Success(t *testing.T) {
	callCount := 0
	result, err := WithRetry(context.Background(), fastRetryConfig(), func() (string, error) {
		callCount++
		return "ok", nil
	})

	if err != nil {
		t.Errorf("Expected success, got error: %v", err)
	}
	if result != "ok" {
		t.Errorf("Expected 'ok', got %q", result)
	}
	if callCount != 1 {
		t.Errorf("Expected 1 call, got %d", callCount)
	}
}

func TestWithRetry_RetryableError(t *testing.T) {
	callCount := 0
	result, err := WithRetry(context.Background(), fastRetryConfig(), func() (string, error) {
		callCount++
		if callCount < 3 {
			return "", &BackendError{Message: "rate limited", Retryable: true}
		}
		return "ok", nil
	})

	if err != nil {
		t.Errorf("Expected eventual success, got error: %v", err)
	}
	if result != "ok" {
		t.Errorf("Expected 'ok', got %q", result)
	}
	if callCount != 3 {
		t.Errorf("Expected 3 calls, got %d", callCount)
	}
}

func TestWithRetry_NonRetryableError(t *testing.T) {
	callCount := 0
	_, err := WithRetry(context.Background(), fastRetryConfig(), func() (string, error) {
		callCount++
		return "", &BackendError{Message: "bad request", Retryable: false}
	})

	if err == nil {
		t.Error("Expected error")
	}
	if callCount != 1 {
		t.Errorf("Non-retryable error should not retry, got %d calls", callCount)
	}
}

func TestWithRetry_ExhaustsRetries(t *testing.T) {
	callCount := 0
	_, err := WithRetry(context.Background(), fastRetryConfig(), func() (string, error) {
		callCount++
		return "", &BackendError{Message: "still down", Retryable: true}
	})

	if err == nil {
		t.Error("Expected error after exhausting retries")
	}
	if callCount != 4 {
		t.Errorf("Expected 4 calls (initial + 3 retries), got %d", callCount)
	}
}

func TestWithRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := WithRetry(ctx, fastRetryConfig(), func() (string, error) {
		return "", &BackendError{Message: "down", Retryable: true}
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestIsRetryable(t *testing.T) {
	if !IsRetryable(&BackendError{Message: "timeout", Retryable: true}) {
		t.Error("Retryable backend error should be retryable")
	}
	if IsRetryable(&BackendError{Message: "bad model", Retryable: false}) {
		t.Error("Non-retryable backend error should not be retryable")
	}
	if IsRetryable(context.Canceled) {
		t.Error("Context cancellation should not be retryable")
	}
	if IsRetryable(errors.New("mystery")) {
		t.Error("Unknown errors should not be retryable")
	}
	if IsRetryable(nil) {
		t.Error("nil should not be retryable")
	}
}

func TestRetryableBackend_Translate(t *testing.T) {
	inner := newFakeBackend()
	inner.failOn["hello"] = &BackendError{Message: "flaky", Retryable: true}
	attempts := 0
	inner.onTranslate = func(text string) {
		attempts++
		if attempts == 2 {
			// The failure is read before this hook runs, so clearing it here
			// makes the third attempt succeed.
			inner.mu.Lock()
			delete(inner.failOn, text)
			inner.mu.Unlock()
		}
	}
	b := NewRetryableBackend(inner, fastRetryConfig())

	res, err := b.Translate(context.Background(), "hello", "es")
	if err != nil {
		t.Fatalf("Expected success after retries, got %v", err)
	}
	if res.TranslatedText != "[hello]" {
		t.Errorf("Unexpected result: %q", res.TranslatedText)
	}
	if calls := inner.callTexts(); len(calls) != 3 {
		t.Errorf("Expected 3 attempts, got %d", len(calls))
	}
}
