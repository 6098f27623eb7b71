package backend

import (
	"context"
	"fmt"
	"sync"

	"github.com/glotmark/glotmark"
)

// Mock is a configurable in-memory backend for testing and dry runs.
type Mock struct {
	mu           sync.Mutex
	Translations map[string]string // source text to translation
	Available    bool              // IsAvailable answer (default true via NewMock)
	FailOn       map[string]error  // texts whose translation should fail
	CallCount    int               // number of Translate calls
	memo         *memo
}

// NewMock creates a mock backend with a few default translations.
func NewMock() *Mock {
	return &Mock{
		Translations: map[string]string{
			"Hello":               "Hola",
			"loaded ok":           "đã tải xong",
			"Check db connection": "Comprobar la conexión a la base de datos",
		},
		Available: true,
		memo:      newMemo(),
	}
}

// Translate returns the configured translation, or the bracketed source text
// for unknown inputs.
func (m *Mock) Translate(_ context.Context, text, targetLang string) (*TranslationResult, error) {
	m.mu.Lock()
	m.CallCount++
	failErr := m.FailOn[text]
	translation, known := m.Translations[text]
	m.mu.Unlock()

	if failErr != nil {
		return nil, &glotmark.BackendError{Message: "mock failure", Cause: failErr}
	}
	if !known {
		translation = fmt.Sprintf("[%s]", text)
	}

	res := newResult(text, translation, targetLang, "en")
	m.memo.put(*res)
	return res, nil
}

// IsAvailable returns the configured availability.
func (m *Mock) IsAvailable(_ context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Available
}

// GetCachedResult returns the session memo of a prior result, if any.
func (m *Mock) GetCachedResult(text, targetLang string) (*TranslationResult, bool) {
	return m.memo.get(text, targetLang)
}

// ClearCache drops the session memo.
func (m *Mock) ClearCache() {
	m.memo.clear()
}

// Reset clears the call count.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CallCount = 0
}

// Verify Mock implements Backend
var _ Backend = (*Mock)(nil)
