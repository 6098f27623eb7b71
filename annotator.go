package glotmark

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

const (
	// DefaultDebounce is how long document edits are allowed to settle before
	// a re-scan is triggered.
	DefaultDebounce = 1500 * time.Millisecond

	defaultAvailabilityTimeout = 3 * time.Second
	defaultTranslateTimeout    = 30 * time.Second

	// offscreenBatchSize is how many off-screen results accumulate before a
	// batch re-render. Visible results always render immediately.
	offscreenBatchSize = 5
)

// errSuperseded marks a pass abandoned because a newer pass or a view switch
// took over.
var errSuperseded = errors.New("pass superseded")

// Annotator schedules and renders comment-translation decorations for the
// active document view. A pass runs extract → cache lookup → prioritized
// fetch → render; any trigger supersedes the in-flight pass rather than
// queueing behind it.
type Annotator struct {
	extractor Extractor
	cache     TranslationCache
	backends  BackendResolver
	sink      DecorationSink
	panel     TranslationSink
	settings  SettingsSource
	log       *slog.Logger

	debounceDelay       time.Duration
	availabilityTimeout time.Duration
	translateTimeout    time.Duration

	// generation increases on every new pass and on invalidation. A pass
	// captures the value at start and checks it at every suspension point.
	generation atomic.Int64

	mu       sync.Mutex
	view     DocumentView
	mode     DecorationMode
	modeSet  bool // CycleMode overrode the configured mode
	applied  []DecorationOption
	debounce *time.Timer
}

// AnnotatorOption is a functional option for configuring the Annotator.
type AnnotatorOption func(*Annotator)

// WithSettings sets the settings source consulted at the start of each pass.
func WithSettings(source SettingsSource) AnnotatorOption {
	return func(a *Annotator) {
		a.settings = source
	}
}

// WithLogger sets the structured logger.
func WithLogger(log *slog.Logger) AnnotatorOption {
	return func(a *Annotator) {
		a.log = log
	}
}

// WithTranslationSink sets an optional panel notified of results and errors.
func WithTranslationSink(panel TranslationSink) AnnotatorOption {
	return func(a *Annotator) {
		a.panel = panel
	}
}

// WithDebounce overrides the edit-settle delay.
func WithDebounce(d time.Duration) AnnotatorOption {
	return func(a *Annotator) {
		a.debounceDelay = d
	}
}

// WithTimeouts overrides the availability-probe and per-request timeouts.
func WithTimeouts(availability, translate time.Duration) AnnotatorOption {
	return func(a *Annotator) {
		a.availabilityTimeout = availability
		a.translateTimeout = translate
	}
}

// NewAnnotator creates an Annotator wired to the given collaborators.
func NewAnnotator(extractor Extractor, cache TranslationCache, backends BackendResolver, sink DecorationSink, opts ...AnnotatorOption) *Annotator {
	a := &Annotator{
		extractor: extractor,
		cache:     cache,
		backends:  backends,
		sink:      sink,
		settings: StaticSettings{
			TargetLanguage: "en",
			DecorationMode: ModeInline,
			CacheTTL:       24 * time.Hour,
			MaxCacheSize:   1000,
		},
		log:                 slog.Default(),
		debounceDelay:       DefaultDebounce,
		availabilityTimeout: defaultAvailabilityTimeout,
		translateTimeout:    defaultTranslateTimeout,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// SetActiveView switches the active document, invalidates any in-flight pass
// and runs a fresh one.
func (a *Annotator) SetActiveView(ctx context.Context, view DocumentView) {
	a.mu.Lock()
	a.view = view
	a.applied = nil
	a.mu.Unlock()
	a.generation.Add(1)
	a.UpdateDecorations(ctx)
}

// ActiveView returns the current document view.
func (a *Annotator) ActiveView() DocumentView {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.view
}

// ViewportChanged reacts to a scroll of the active view.
func (a *Annotator) ViewportChanged(ctx context.Context) {
	a.UpdateDecorations(ctx)
}

// DocumentChanged reacts to an edit of the active document. Re-scanning is
// debounced so a typing burst triggers one pass, not one per keystroke.
func (a *Annotator) DocumentChanged() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.debounce != nil {
		a.debounce.Stop()
	}
	a.debounce = time.AfterFunc(a.debounceDelay, func() {
		a.UpdateDecorations(context.Background())
	})
}

// CycleMode advances off → inline → highlighted → off and re-renders (or
// clears, when turning off). It returns the new mode.
func (a *Annotator) CycleMode(ctx context.Context) DecorationMode {
	settings := a.settings.Settings()
	a.mu.Lock()
	next := NextMode(a.currentModeLocked(settings))
	a.mode = next
	a.modeSet = true
	a.mu.Unlock()
	a.UpdateDecorations(ctx)
	return next
}

// InvalidateSettings marks any in-flight pass stale after a configuration
// change. The host decides when to trigger the next pass.
func (a *Annotator) InvalidateSettings() {
	a.generation.Add(1)
}

// Applied returns a snapshot of the decoration set from the last render.
func (a *Annotator) Applied() []DecorationOption {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]DecorationOption, len(a.applied))
	copy(out, a.applied)
	return out
}

// Close stops the pending debounce timer, if any.
func (a *Annotator) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.debounce != nil {
		a.debounce.Stop()
		a.debounce = nil
	}
}

// UpdateDecorations runs one full annotation pass for the active view.
// It is safe to call repeatedly and concurrently in effect: each invocation
// supersedes the previous one via the generation token.
func (a *Annotator) UpdateDecorations(ctx context.Context) {
	a.mu.Lock()
	view := a.view
	a.mu.Unlock()
	if view == nil {
		return
	}

	gen := a.generation.Add(1)
	settings := a.settings.Settings()

	a.mu.Lock()
	mode := a.currentModeLocked(settings)
	a.mu.Unlock()

	if mode == ModeOff {
		a.mu.Lock()
		if a.generation.Load() == gen && a.view == view {
			a.applied = nil
			a.sink.Clear(view.URI())
		}
		a.mu.Unlock()
		return
	}

	if err := a.runPass(ctx, view, gen, settings, mode); err != nil {
		if errors.Is(err, errSuperseded) {
			a.log.Debug("annotation pass superseded", "uri", view.URI(), "generation", gen)
			return
		}
		a.log.Error("annotation pass failed", "uri", view.URI(), "error", err)
	}
}

// runPass implements one extract → lookup → fetch → render cycle.
func (a *Annotator) runPass(ctx context.Context, view DocumentView, gen int64, settings Settings, mode DecorationMode) error {
	fragments, err := a.extractor.Extract(view.Text(), view.LanguageID())
	if err != nil {
		return err
	}

	lang := settings.TargetLanguage
	batch := make([]DecorationOption, 0, len(fragments))
	var misses []CommentFragment
	for _, frag := range fragments {
		if res, ok := a.cache.Get(frag.Text, lang); ok {
			batch = append(batch, makeDecoration(frag, res.TranslatedText, mode, settings.EnableHover))
			continue
		}
		misses = append(misses, frag)
	}

	// Cache hits render as one batch before any network activity, so
	// previously-seen translations appear instantly.
	if !a.applyBatch(view, gen, mode, batch) {
		return errSuperseded
	}
	if len(misses) == 0 {
		return nil
	}

	b := a.backends.Resolve(settings.Backend)
	availCtx, cancel := context.WithTimeout(ctx, a.availabilityTimeout)
	available := b.IsAvailable(availCtx)
	cancel()
	if !available {
		a.log.Warn("backend unavailable, cache-only render",
			"backend", settings.Backend, "misses", len(misses))
		return nil
	}

	visible := view.VisibleRanges()
	ordered := orderByProximity(misses, visible)

	// Misses are fetched one at a time to bound load on a local inference
	// backend; on-screen fragments first.
	pending := 0
	for _, frag := range ordered {
		if a.stale(view, gen) {
			return errSuperseded
		}

		res, err := a.translateOne(ctx, b, frag.Text, lang)
		if err != nil {
			a.log.Warn("translation request failed", "text", frag.Text, "error", err)
			if a.panel != nil {
				a.panel.SetError(err.Error())
			}
			continue
		}

		// Completed work is kept even if the pass goes stale below.
		a.cache.Put(frag.Text, lang, res.TranslatedText, res.DetectedLanguage)
		if a.panel != nil {
			a.panel.SetTranslation(frag.Text, res.TranslatedText)
		}

		if a.stale(view, gen) {
			return errSuperseded
		}

		batch = append(batch, makeDecoration(frag, res.TranslatedText, mode, settings.EnableHover))
		pending++
		if isVisible(frag.Range, visible) || pending%offscreenBatchSize == 0 {
			if !a.applyBatch(view, gen, mode, batch) {
				return errSuperseded
			}
		}
	}

	if !a.applyBatch(view, gen, mode, batch) {
		return errSuperseded
	}
	return nil
}

// translateOne issues a single backend request under the per-request timeout.
func (a *Annotator) translateOne(ctx context.Context, b Backend, text, lang string) (*TranslationResult, error) {
	tctx, cancel := context.WithTimeout(ctx, a.translateTimeout)
	defer cancel()
	return b.Translate(tctx, text, lang)
}

// applyBatch renders the accumulated decoration set if the pass is still
// current. The stale check and the sink call happen under one lock so exactly
// one pass's results can persist.
func (a *Annotator) applyBatch(view DocumentView, gen int64, mode DecorationMode, batch []DecorationOption) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.generation.Load() != gen || a.view != view {
		return false
	}
	decorations := make([]DecorationOption, len(batch))
	copy(decorations, batch)
	a.applied = decorations
	a.sink.Apply(view.URI(), mode, decorations)
	return true
}

// stale reports whether the pass identified by gen has been superseded or the
// active view changed.
func (a *Annotator) stale(view DocumentView, gen int64) bool {
	if a.generation.Load() != gen {
		return true
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.view != view
}

// currentModeLocked resolves the effective mode: a CycleMode override wins
// over the configured one. Caller holds a.mu.
func (a *Annotator) currentModeLocked(settings Settings) DecorationMode {
	if a.modeSet {
		return a.mode
	}
	return settings.DecorationMode
}
