// Package glotmark provides an incremental comment-translation annotation engine.
//
// Glotmark scans a source document for translatable comment fragments,
// reconciles them against a persistent translation cache, and progressively
// paints translated decorations into the host view, prioritizing whatever is
// currently on screen. Fetching is sequential and cooperatively cancellable:
// any change to the active view supersedes the in-flight pass via a
// generation token, so stale results are discarded instead of rendered.
//
// Basic usage:
//
//	import (
//	    "context"
//	    "github.com/glotmark/glotmark"
//	    "github.com/glotmark/glotmark/backend"
//	    "github.com/glotmark/glotmark/cache"
//	    "github.com/glotmark/glotmark/extract"
//	)
//
//	func main() {
//	    store, _ := cache.NewStore(cache.Config{
//	        TTL:       24 * time.Hour,
//	        MaxSize:   1000,
//	        Persister: cache.NewFilePersister("cache.json"),
//	    })
//
//	    backends := backend.NewRegistry("ollama")
//	    backends.Register("ollama", backend.NewOllama(backend.OllamaConfig{}))
//
//	    a := glotmark.NewAnnotator(extract.New(), store, backends, sink,
//	        glotmark.WithSettings(settings),
//	    )
//
//	    a.SetActiveView(context.Background(), view)
//	}
package glotmark
