package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrEmptyManifest is returned for a manifest that lists no tiers.
var ErrEmptyManifest = errors.New("manifest lists no catalog tiers")

// TierSpec names one catalog file of a manifest.
type TierSpec struct {
	File string `json:"file"`
	// Optional tiers are skipped quietly when their file is missing.
	Optional bool `json:"optional,omitempty"`
}

// Manifest describes a catalog directory: the tier files and the label
// tables that go with them. Relative paths resolve against the directory
// holding the manifest.
type Manifest struct {
	Tiers      []TierSpec `json:"tiers"`
	Names      string     `json:"names,omitempty"`
	Spectral   string     `json:"spectral,omitempty"`
	Components string     `json:"components,omitempty"`
	// Encoding of the label tables, see stringtable.ParseEncoding.
	Encoding string `json:"encoding,omitempty"`

	root string
}

// LoadManifest reads a JSON manifest.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	if len(m.Tiers) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyManifest)
	}
	m.root = filepath.Dir(path)
	return &m, nil
}

// Root returns the directory relative paths resolve against.
func (m *Manifest) Root() string {
	return m.root
}

// Resolve returns the path of a manifest entry. Empty names stay empty.
func (m *Manifest) Resolve(name string) string {
	if name == "" || filepath.IsAbs(name) || m.root == "" {
		return name
	}
	return filepath.Join(m.root, name)
}

// Save writes the manifest as indented JSON.
func (m *Manifest) Save(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
