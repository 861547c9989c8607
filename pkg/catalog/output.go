package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultOutputPath is where the generated YAML dataset is written.
const DefaultOutputPath = "_data/crates_generated.yaml"

// WriteJSON writes entries to w as a single-line JSON array.
func WriteJSON(w io.Writer, entries []GeneratedEntry) error {
	if entries == nil {
		entries = []GeneratedEntry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// WriteYAML replaces the file at path with entries encoded as YAML,
// creating parent directories as needed.
func WriteYAML(path string, entries []GeneratedEntry) error {
	if entries == nil {
		entries = []GeneratedEntry{}
	}
	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ReadYAML loads a dataset written by [WriteYAML].
func ReadYAML(path string) ([]GeneratedEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entries []GeneratedEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return entries, nil
}
