package cache

import (
	"log/slog"
	"sync"
	"time"

	"github.com/glotmark/glotmark"
)

// sweepSlack is how far past MaxSize the working set may grow before a Put
// triggers a full sweep instead of a plain persist.
const sweepSlack = 50

// Config holds construction parameters for the Store.
type Config struct {
	// TTL is the maximum entry age. Zero or negative means entries never
	// expire.
	TTL time.Duration
	// MaxSize is the entry count a sweep trims down to. Zero or negative
	// means unbounded.
	MaxSize int
	// Persister stores the entry list across restarts. Nil keeps the cache
	// memory-only.
	Persister Persister
	// Logger receives persistence failures. Defaults to slog.Default().
	Logger *slog.Logger
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Store is a thread-safe translation cache with TTL expiry and
// FIFO-by-insertion eviction. Reads are lazy about expiry: an expired entry
// is skipped, not deleted, until the next sweep.
type Store struct {
	mu        sync.Mutex
	order     []Entry // insertion order, oldest first
	byKey     map[string]glotmark.TranslationResult
	ttl       time.Duration
	maxSize   int
	persister Persister
	log       *slog.Logger
	now       func() time.Time
}

// NewStore creates a Store, loads the persisted entry set verbatim and
// immediately sweeps it, so a TTL or size policy that changed while the
// process was down takes effect at startup.
func NewStore(cfg Config) (*Store, error) {
	s := &Store{
		byKey:     make(map[string]glotmark.TranslationResult),
		ttl:       cfg.TTL,
		maxSize:   cfg.MaxSize,
		persister: cfg.Persister,
		log:       cfg.Logger,
		now:       cfg.Now,
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}

	if s.persister != nil {
		entries, err := s.persister.Load()
		if err != nil {
			return nil, &glotmark.CacheError{Message: "loading persisted entries", Cause: err}
		}
		for _, e := range entries {
			if _, dup := s.byKey[e.Key]; dup {
				continue
			}
			s.order = append(s.order, e)
			s.byKey[e.Key] = e.Result
		}
		s.mu.Lock()
		s.sweepLocked()
		s.mu.Unlock()
	}

	return s, nil
}

// Get returns the stored result for (text, targetLang) if it has not
// expired. It never mutates state.
func (s *Store) Get(text, targetLang string) (*glotmark.TranslationResult, bool) {
	key := glotmark.CacheKey(text, targetLang)

	s.mu.Lock()
	res, ok := s.byKey[key]
	s.mu.Unlock()

	if !ok {
		return nil, false
	}
	if s.ttl > 0 && s.now().Sub(res.Timestamp) >= s.ttl {
		return nil, false
	}
	out := res
	return &out, true
}

// Put records a fresh result under (text, targetLang), superseding any prior
// entry at that key. The write persists immediately unless the working set
// has outgrown maxSize by sweepSlack, in which case a sweep (which persists
// once) runs instead.
func (s *Store) Put(text, targetLang, translatedText, detectedLang string) {
	key := glotmark.CacheKey(text, targetLang)
	entry := Entry{
		Key: key,
		Result: glotmark.TranslationResult{
			OriginalText:     text,
			TranslatedText:   translatedText,
			TargetLanguage:   targetLang,
			DetectedLanguage: detectedLang,
			Timestamp:        s.now(),
		},
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byKey[key]; exists {
		s.removeFromOrderLocked(key)
	}
	s.order = append(s.order, entry)
	s.byKey[key] = entry.Result

	if s.maxSize > 0 && len(s.order) > s.maxSize+sweepSlack {
		s.sweepLocked()
		return
	}
	s.persistLocked()
}

// Sweep deletes expired entries, then trims the oldest-inserted entries until
// the count is back at maxSize.
func (s *Store) Sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
}

// Clear empties the store and persists the empty state.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = nil
	s.byKey = make(map[string]glotmark.TranslationResult)
	s.persistLocked()
}

// Size returns the current entry count, including not-yet-swept expired
// entries.
func (s *Store) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

// Entries returns a snapshot of the entry list in insertion order.
func (s *Store) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, len(s.order))
	copy(out, s.order)
	return out
}

// sweepLocked applies TTL expiry then FIFO trimming, and persists the result
// once. Caller holds s.mu.
func (s *Store) sweepLocked() {
	now := s.now()

	kept := s.order[:0]
	for _, e := range s.order {
		if s.ttl > 0 && now.Sub(e.Result.Timestamp) > s.ttl {
			delete(s.byKey, e.Key)
			continue
		}
		kept = append(kept, e)
	}
	s.order = kept

	if s.maxSize > 0 && len(s.order) > s.maxSize {
		drop := len(s.order) - s.maxSize
		for _, e := range s.order[:drop] {
			delete(s.byKey, e.Key)
		}
		s.order = append([]Entry(nil), s.order[drop:]...)
	}

	s.persistLocked()
}

// removeFromOrderLocked drops the entry with the given key from the order
// slice. Caller holds s.mu.
func (s *Store) removeFromOrderLocked(key string) {
	for i, e := range s.order {
		if e.Key == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}

// persistLocked saves the entry list; a failure is logged and the in-memory
// state stays authoritative for the session. Caller holds s.mu.
func (s *Store) persistLocked() {
	if s.persister == nil {
		return
	}
	entries := make([]Entry, len(s.order))
	copy(entries, s.order)
	if err := s.persister.Save(entries); err != nil {
		cacheErr := &glotmark.CacheError{Message: "persisting entries", Cause: err}
		s.log.Warn("cache persistence failed", "error", cacheErr)
	}
}

// Verify Store implements the scheduler-facing cache interface
var _ glotmark.TranslationCache = (*Store)(nil)
