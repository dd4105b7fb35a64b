package store

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/peterbourgon/diskv/v3"
)

// Writer stores collections as <name>.json files in a directory, the layout
// DirSource reads back.
type Writer struct {
	d    *diskv.Diskv
	base string
}

// NewWriter creates dir if needed and returns a writer for it.
func NewWriter(dir string) (*Writer, error) {
	expanded, err := homedir.Expand(dir)
	if err != nil {
		return nil, fmt.Errorf("store: expand %q: %w", dir, err)
	}
	if err := os.MkdirAll(expanded, 0o755); err != nil {
		return nil, fmt.Errorf("store: create %q: %w", expanded, err)
	}
	return &Writer{
		d: diskv.New(diskv.Options{
			BasePath:     expanded,
			Transform:    flatTransform,
			CacheSizeMax: 0,
			FilePerm:     0o644,
			PathPerm:     0o755,
		}),
		base: expanded,
	}, nil
}

// Base returns the resolved directory.
func (w *Writer) Base() string { return w.base }

// Write stores raw JSON under name. The payload must be valid JSON.
func (w *Writer) Write(name string, payload []byte) error {
	key, err := fileName(name)
	if err != nil {
		return err
	}
	if !json.Valid(payload) {
		return fmt.Errorf("%w: %s", ErrMalformed, name)
	}
	if err := w.d.Write(key, payload); err != nil {
		return fmt.Errorf("store: write %s: %w", key, err)
	}
	return nil
}

// WriteJSON marshals v with indentation and stores it under name.
func (w *Writer) WriteJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", name, err)
	}
	return w.Write(name, data)
}

// WriteAll stores every collection in name order and returns the names written.
func (w *Writer) WriteAll(collections map[string]any) ([]string, error) {
	names := make([]string, 0, len(collections))
	for name := range collections {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := w.WriteJSON(name, collections[name]); err != nil {
			return nil, err
		}
	}
	return names, nil
}
