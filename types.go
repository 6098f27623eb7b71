package glotmark

import (
	"context"
	"time"
)

// DecorationMode controls how translated comments are rendered.
type DecorationMode string

const (
	// ModeOff disables decoration rendering entirely.
	ModeOff DecorationMode = "off"
	// ModeInline renders the translation after the comment with an arrow prefix.
	ModeInline DecorationMode = "inline"
	// ModeHighlighted renders the translation bracket-wrapped in a prominent style.
	ModeHighlighted DecorationMode = "highlighted"
)

// Range is a half-open byte offset span in a document, with the line numbers
// of its endpoints (0-based) carried along for viewport math.
type Range struct {
	Start     int `json:"start"`
	End       int `json:"end"`
	StartLine int `json:"startLine"`
	EndLine   int `json:"endLine"`
}

// LineRange is a span of document lines currently visible in a view
// (0-based, inclusive on both ends).
type LineRange struct {
	StartLine int
	EndLine   int
}

// CommentFragment is a single translatable unit of comment text with its
// source range. Fragments are produced fresh on every scan and discarded
// after the render pass that consumed them.
type CommentFragment struct {
	Range Range
	Text  string // cleaned content: markers, leading '*' and doc-tag syntax stripped
}

// TranslationResult is the immutable outcome of one backend call.
// Identity is (OriginalText, TargetLanguage); a repeat call with the same key
// supersedes the old result rather than editing it.
type TranslationResult struct {
	OriginalText     string    `json:"originalText"`
	TranslatedText   string    `json:"translatedText"`
	TargetLanguage   string    `json:"targetLanguage"`
	DetectedLanguage string    `json:"detectedLanguage,omitempty"`
	Timestamp        time.Time `json:"timestamp"`
}

// DecorationOption is one render instruction: a range plus the display text
// already formatted for the active mode. The decoration set for a view is
// replaced wholesale on every render pass.
type DecorationOption struct {
	Range     Range
	Text      string // formatted per mode, e.g. "→ hola" or "[ hola ]"
	HoverText string // original fragment text when hover is enabled
}

// Settings is the read-only configuration consumed by the engine.
// It is resolved once per pass through a SettingsSource.
type Settings struct {
	TargetLanguage string
	DecorationMode DecorationMode
	CacheTTL       time.Duration
	MaxCacheSize   int
	EnableHover    bool
	Backend        string // provider identifier resolved via the registry
}

// SettingsSource supplies the current settings. Implementations must be safe
// for concurrent use.
type SettingsSource interface {
	Settings() Settings
}

// StaticSettings is a SettingsSource that always returns the same value.
type StaticSettings Settings

// Settings implements SettingsSource.
func (s StaticSettings) Settings() Settings { return Settings(s) }

// DocumentView is the engine's handle on one open document. Implementations
// must be comparable (pointer types) so the scheduler can tell whether the
// active view changed mid-pass.
type DocumentView interface {
	// URI identifies the document.
	URI() string
	// Text returns the full document text.
	Text() string
	// LanguageID returns the host's language identifier (e.g. "python", "go").
	LanguageID() string
	// VisibleRanges returns the line ranges currently on screen.
	VisibleRanges() []LineRange
}

// DecorationSink receives decoration batches for display. Apply replaces the
// previous set for the view; Clear removes everything.
type DecorationSink interface {
	Apply(uri string, mode DecorationMode, decorations []DecorationOption)
	Clear(uri string)
}

// TranslationSink is an optional fire-and-forget display surface (panel or
// sidebar) notified of individual results and failures.
type TranslationSink interface {
	SetTranslation(original, translated string)
	SetError(message string)
}

// Extractor produces the ordered comment fragments of a document.
// Implementations must be deterministic and stateless across calls.
type Extractor interface {
	Extract(text, languageID string) ([]CommentFragment, error)
}

// TranslationCache is the synchronous cache consulted by the scheduler.
// Get must never return an expired entry; Put records a fresh result.
type TranslationCache interface {
	Get(text, targetLang string) (*TranslationResult, bool)
	Put(text, targetLang, translatedText, detectedLang string)
	Size() int
}

// Backend is the facade over one translation provider.
type Backend interface {
	// Translate translates a single text. It fails with a *BackendError on
	// network, parse or timeout failure.
	Translate(ctx context.Context, text, targetLang string) (*TranslationResult, error)
	// IsAvailable reports whether the provider can currently serve requests.
	// It never panics and returns false on any probe failure.
	IsAvailable(ctx context.Context) bool
	// GetCachedResult returns the provider's own memo of a prior result, if
	// any. It performs no I/O.
	GetCachedResult(text, targetLang string) (*TranslationResult, bool)
	// ClearCache drops the provider's memo.
	ClearCache()
}

// BackendResolver maps a configured provider identifier to a Backend,
// falling back to a default when the identifier is unregistered.
type BackendResolver interface {
	Resolve(name string) Backend
}

// CacheKey builds the composite cache key for a text and target language.
func CacheKey(text, targetLang string) string {
	return text + ":" + targetLang
}
