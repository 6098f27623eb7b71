package backend

import (
	"context"
	"sync"

	"github.com/glotmark/glotmark"
)

// Registry holds named Backend implementations and resolves the configured
// provider identifier, falling back to a default when it is unregistered.
type Registry struct {
	mu       sync.RWMutex
	backends map[string]Backend
	fallback string
}

// NewRegistry creates a Registry with the given fallback provider name.
func NewRegistry(fallback string) *Registry {
	return &Registry{
		backends: make(map[string]Backend),
		fallback: fallback,
	}
}

// Register adds or replaces a named backend.
func (r *Registry) Register(name string, b Backend) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backends[name] = b
}

// Get returns the named backend if registered.
func (r *Registry) Get(name string) (Backend, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.backends[name]
	return b, ok
}

// Resolve returns the named backend, the fallback if the name is
// unregistered, or an always-unavailable backend if neither exists.
func (r *Registry) Resolve(name string) Backend {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if b, ok := r.backends[name]; ok {
		return b
	}
	if b, ok := r.backends[r.fallback]; ok {
		return b
	}
	return unavailableBackend{}
}

// Names returns the registered provider identifiers.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.backends))
	for name := range r.backends {
		names = append(names, name)
	}
	return names
}

// Verify Registry implements the scheduler-facing resolver
var _ glotmark.BackendResolver = (*Registry)(nil)

// unavailableBackend is returned when nothing is registered. The scheduler's
// availability probe sees false and degrades to cache-only rendering.
type unavailableBackend struct{}

func (unavailableBackend) Translate(_ context.Context, _, _ string) (*TranslationResult, error) {
	return nil, &glotmark.BackendError{Message: "no backend registered"}
}

func (unavailableBackend) IsAvailable(_ context.Context) bool { return false }

func (unavailableBackend) GetCachedResult(_, _ string) (*TranslationResult, bool) {
	return nil, false
}

func (unavailableBackend) ClearCache() {}
