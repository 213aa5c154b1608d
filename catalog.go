package avatargen

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// WorkItem is one author to produce a portrait for.
type WorkItem struct {
	// Name is the display name used in the prompt and as the manifest key.
	Name string
}

// Filename returns the avatar filename derived from the item's name.
func (w WorkItem) Filename() string {
	return Filename(w.Name)
}

// Catalog is the on-disk list of authors, in processing order.
type Catalog struct {
	Authors []string `json:"authors" yaml:"authors"`
}

// LoadCatalog reads a catalog document. Files ending in .yaml or .yml are
// parsed as YAML, everything else as JSON. The document is either an object
// with an "authors" list or a bare list of names.
func LoadCatalog(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var names []string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		names, err = decodeCatalog(data, yaml.Unmarshal)
	default:
		names, err = decodeCatalog(data, json.Unmarshal)
	}
	if err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return names, nil
}

func decodeCatalog(data []byte, unmarshal func([]byte, any) error) ([]string, error) {
	var list []string
	listErr := unmarshal(data, &list)
	if listErr == nil {
		return list, nil
	}

	var doc Catalog
	if err := unmarshal(data, &doc); err != nil {
		return nil, listErr
	}
	return doc.Authors, nil
}

// SelectRange picks the catalog slice to process: from start, at most limit
// names when limit > 0, otherwise everything that remains. Blank and
// duplicate names are dropped.
func SelectRange(names []string, start, limit int) ([]WorkItem, error) {
	if start < 0 {
		return nil, fmt.Errorf("start index must not be negative, got %d", start)
	}
	if start >= len(names) {
		return nil, fmt.Errorf("%w: start index %d is past the end of the catalog (%d authors)",
			ErrNoWorkItems, start, len(names))
	}

	end := len(names)
	if limit > 0 {
		end = min(start+limit, len(names))
	}

	return ItemsFromNames(names[start:end])
}

// ItemsFromNames turns explicit names into work items, trimming whitespace
// and dropping blanks and exact duplicates. It fails with ErrNoWorkItems when
// nothing remains.
func ItemsFromNames(names []string) ([]WorkItem, error) {
	seen := make(map[string]bool, len(names))
	items := make([]WorkItem, 0, len(names))
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" || seen[name] {
			continue
		}
		if err := ValidateName(name); err != nil {
			return nil, fmt.Errorf("invalid author %q: %w", name, err)
		}
		seen[name] = true
		items = append(items, WorkItem{Name: name})
	}
	if len(items) == 0 {
		return nil, ErrNoWorkItems
	}
	return items, nil
}
