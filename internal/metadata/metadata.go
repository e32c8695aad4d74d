// Package metadata keeps the dataset's descriptive metadata in sync with
// the database contents. The metadata lives in two mirror files next to
// the database, one JSON and one YAML, and enumerates every categorical
// value stored under the keys it describes.
package metadata

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Key describes one searchable key of the database.
type Key struct {
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Unit        string         `json:"unit,omitempty" yaml:"unit,omitempty"`
	Type        string         `json:"type,omitempty" yaml:"type,omitempty"`
	Values      map[string]any `json:"values,omitempty" yaml:"values,omitempty"`
}

// Metadata is the parsed content of a metadata mirror file. Values in the
// per-key enumerations are either plain description strings (possibly nil
// when a description is optional) or, for the user key, a contact card
// with name, surname, email, institution and country.
type Metadata struct {
	Title string          `json:"title,omitempty" yaml:"title,omitempty"`
	Keys  map[string]*Key `json:"keys" yaml:"keys"`
	Data  map[string]any  `json:"data,omitempty" yaml:"data,omitempty"`
	Rows  int             `json:"rows" yaml:"rows"`
}

// MirrorPaths returns the JSON and YAML metadata file paths for a
// database: same directory, same base name, .json and .yaml extensions.
func MirrorPaths(dbPath string) (jsonPath, yamlPath string) {
	base := strings.TrimSuffix(dbPath, filepath.Ext(dbPath))
	return base + ".json", base + ".yaml"
}

// ReadJSON loads metadata from a JSON mirror.
func ReadJSON(path string) (*Metadata, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}
	var m Metadata
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parse metadata %s: %w", path, err)
	}
	return &m, nil
}

// ReadYAML loads metadata from a YAML mirror.
func ReadYAML(path string) (*Metadata, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}
	var m Metadata
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parse metadata %s: %w", path, err)
	}
	return &m, nil
}

// WriteJSON writes the JSON mirror with 4-space indentation.
func (m *Metadata) WriteJSON(path string) error {
	raw, err := json.MarshalIndent(m, "", "    ")
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	if err := os.WriteFile(path, append(raw, '\n'), 0o644); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	return nil
}

// WriteYAML writes the YAML mirror with 4-space indentation.
func (m *Metadata) WriteYAML(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	enc := yaml.NewEncoder(f)
	enc.SetIndent(4)
	if err := enc.Encode(m); err != nil {
		f.Close()
		return fmt.Errorf("encode metadata: %w", err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("encode metadata: %w", err)
	}
	return f.Close()
}

// Write refreshes both mirror files.
func (m *Metadata) Write(jsonPath, yamlPath string) error {
	if err := m.WriteJSON(jsonPath); err != nil {
		return err
	}
	return m.WriteYAML(yamlPath)
}

// NewValues returns the stored values of a key that the metadata does not
// enumerate yet, in the order given.
func (m *Metadata) NewValues(key string, values []string) ([]string, error) {
	k, ok := m.Keys[key]
	if !ok {
		return nil, fmt.Errorf("metadata has no key %q", key)
	}
	var missing []string
	for _, v := range values {
		if _, ok := k.Values[v]; !ok {
			missing = append(missing, v)
		}
	}
	return missing, nil
}

func (m *Metadata) setValue(key, value string, description any) {
	k := m.Keys[key]
	if k.Values == nil {
		k.Values = make(map[string]any)
	}
	k.Values[value] = description
}
