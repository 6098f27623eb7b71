// Package cache provides the persistent translation cache consulted by the
// annotation scheduler.
//
// The store keeps insertion order: eviction is FIFO-by-insertion plus TTL,
// not LRU. The full entry set survives process restarts through a pluggable
// Persister (JSON file or Redis) sharing one export format.
package cache

import (
	"github.com/glotmark/glotmark"
)

// Entry is one cached translation under its composite key
// (text + ":" + targetLanguage).
type Entry struct {
	Key    string                     `json:"key"`
	Result glotmark.TranslationResult `json:"result"`
}

// Persister loads and saves the ordered entry list. Implementations must
// preserve order so FIFO eviction survives a reload.
type Persister interface {
	Load() ([]Entry, error)
	Save(entries []Entry) error
}

// ExportFormat is the serialized shape shared by all persisters.
type ExportFormat struct {
	Version    string            `json:"version"`
	ExportedAt string            `json:"exported_at"`
	Entries    []Entry           `json:"entries"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// ExportVersion is the current persistence format version.
const ExportVersion = "1.0"
