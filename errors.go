package glotmark

import "fmt"

// ExtractError indicates a comment extraction failure. It aborts only the
// pass that hit it, never the engine.
type ExtractError struct {
	Message    string
	LanguageID string
	Cause      error
}

func (e *ExtractError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extract error (%s): %s: %v", e.LanguageID, e.Message, e.Cause)
	}
	return fmt.Sprintf("extract error (%s): %s", e.LanguageID, e.Message)
}

func (e *ExtractError) Unwrap() error {
	return e.Cause
}

// BackendError indicates a single translation request failure (network,
// parse or timeout). The failed fragment is skipped; the pass continues.
type BackendError struct {
	Message   string
	Cause     error
	Retryable bool // whether the request can be retried
}

func (e *BackendError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("backend error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("backend error: %s", e.Message)
}

func (e *BackendError) Unwrap() error {
	return e.Cause
}

// CacheError indicates a cache persistence failure. In-memory state remains
// authoritative for the session.
type CacheError struct {
	Message string
	Cause   error
}

func (e *CacheError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cache error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("cache error: %s", e.Message)
}

func (e *CacheError) Unwrap() error {
	return e.Cause
}
