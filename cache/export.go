package cache

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// ExportFormat is the JSON structure for cache export/import, used to seed a
// fresh process with previously computed translations.
type ExportFormat struct {
	Version    string        `json:"version"`
	ExportedAt string        `json:"exported_at"`
	Entries    []ExportEntry `json:"entries"`
}

// ExportEntry is a single cache entry: an already-derived key and its
// translation.
type ExportEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Exporter dumps a memory store's entries.
type Exporter struct {
	store *MemoryStore
}

// NewExporter creates an exporter over a memory store.
func NewExporter(store *MemoryStore) *Exporter {
	return &Exporter{store: store}
}

// Export writes the store contents to w as JSON.
func (e *Exporter) Export(w io.Writer) error {
	data := e.store.Entries()
	entries := make([]ExportEntry, 0, len(data))
	for key, value := range data {
		entries = append(entries, ExportEntry{Key: key, Value: value})
	}

	export := ExportFormat{
		Version:    "1.0",
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Entries:    entries,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(export); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// ExportToFile exports the store to a file at a caller-chosen path.
func (e *Exporter) ExportToFile(path string) error {
	f, err := os.Create(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()
	return e.Export(f)
}

// Importer loads previously exported entries into a memory store.
type Importer struct {
	store *MemoryStore
}

// NewImporter creates an importer over a memory store.
func NewImporter(store *MemoryStore) *Importer {
	return &Importer{store: store}
}

// ImportResult contains statistics about an import.
type ImportResult struct {
	Version  string
	Imported int
}

// Import reads entries from r and loads them into the store. Imported
// entries get a fresh TTL.
func (i *Importer) Import(r io.Reader) (*ImportResult, error) {
	var export ExportFormat
	if err := json.NewDecoder(r).Decode(&export); err != nil {
		return nil, fmt.Errorf("decoding JSON: %w", err)
	}

	result := &ImportResult{Version: export.Version}
	for _, entry := range export.Entries {
		if entry.Key == "" {
			continue
		}
		i.store.put(entry.Key, entry.Value)
		result.Imported++
	}
	return result, nil
}

// ImportFromFile imports entries from a file at a caller-chosen path.
func (i *Importer) ImportFromFile(path string) (*ImportResult, error) {
	f, err := os.Open(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()
	return i.Import(f)
}
