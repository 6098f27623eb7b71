// Package backend defines the translation backend facade and its providers.
//
// A Backend exposes {Translate, IsAvailable, GetCachedResult, ClearCache};
// providers are interchangeable and selected by configuration through the
// Registry, which falls back to a default when the configured identifier is
// unregistered.
package backend

import (
	"sync"
	"time"

	"github.com/glotmark/glotmark"
)

// Backend is an alias to the main package interface for convenience.
type Backend = glotmark.Backend

// TranslationResult is an alias to the main package type.
type TranslationResult = glotmark.TranslationResult

// memo is the per-provider synchronous result store backing GetCachedResult.
// It is a session-scoped convenience, distinct from the engine's persistent
// cache.
type memo struct {
	mu      sync.Mutex
	results map[string]TranslationResult
}

func newMemo() *memo {
	return &memo{results: make(map[string]TranslationResult)}
}

func (m *memo) get(text, targetLang string) (*TranslationResult, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	res, ok := m.results[glotmark.CacheKey(text, targetLang)]
	if !ok {
		return nil, false
	}
	out := res
	return &out, true
}

func (m *memo) put(res TranslationResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[glotmark.CacheKey(res.OriginalText, res.TargetLanguage)] = res
}

func (m *memo) clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = make(map[string]TranslationResult)
}

// newResult stamps a TranslationResult for a completed provider call.
func newResult(text, translated, targetLang, detectedLang string) *TranslationResult {
	return &TranslationResult{
		OriginalText:     text,
		TranslatedText:   translated,
		TargetLanguage:   targetLang,
		DetectedLanguage: detectedLang,
		Timestamp:        time.Now(),
	}
}
