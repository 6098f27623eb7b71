package glotmark

import (
	"errors"
	"strings"
	"testing"
)

func TestBackendError_Unwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := &BackendError{Message: "request failed", Cause: cause, Retryable: true}

	if !errors.Is(err, cause) {
		t.Error("Expected errors.Is to see the cause")
	}
	if !strings.Contains(err.Error(), "connection reset") {
		t.Errorf("Error string should include the cause: %q", err.Error())
	}
}

func TestExtractError_Error(t *testing.T) {
	err := &ExtractError{Message: "scan panic: boom", LanguageID: "python"}
	msg := err.Error()
	if !strings.Contains(msg, "python") || !strings.Contains(msg, "scan panic") {
		t.Errorf("Unexpected message: %q", msg)
	}
	if err.Unwrap() != nil {
		t.Error("No cause means nothing to unwrap")
	}
}

func TestCacheError_Error(t *testing.T) {
	cause := errors.New("disk full")
	err := &CacheError{Message: "persisting entries", Cause: cause}
	if !errors.Is(err, cause) {
		t.Error("Expected errors.Is to see the cause")
	}
}
