package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// FilePersister stores the entry list as a JSON document on disk.
type FilePersister struct {
	path     string
	metadata map[string]string
}

// NewFilePersister creates a persister writing to the given path.
// The path is provided by the caller and is intentionally user-controlled.
func NewFilePersister(path string) *FilePersister {
	return &FilePersister{path: path}
}

// WithMetadata attaches extra key/value pairs to the persisted document.
func (p *FilePersister) WithMetadata(metadata map[string]string) *FilePersister {
	p.metadata = metadata
	return p
}

// Load reads the persisted entry list. A missing file is an empty cache,
// not an error.
func (p *FilePersister) Load() ([]Entry, error) {
	data, err := os.ReadFile(p.path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading cache file: %w", err)
	}

	var export ExportFormat
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, fmt.Errorf("decoding cache file: %w", err)
	}
	return export.Entries, nil
}

// Save writes the entry list, creating parent directories as needed.
func (p *FilePersister) Save(entries []Entry) error {
	if dir := filepath.Dir(p.path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("creating cache directory: %w", err)
		}
	}

	export := ExportFormat{
		Version:    ExportVersion,
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Entries:    entries,
		Metadata:   p.metadata,
	}

	f, err := os.Create(p.path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return fmt.Errorf("creating cache file: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(export); err != nil {
		return fmt.Errorf("encoding cache file: %w", err)
	}
	return nil
}

// Verify FilePersister implements Persister
var _ Persister = (*FilePersister)(nil)
