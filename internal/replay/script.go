// Package replay drives the vertex tool headlessly from a YAML script of
// pointer events. It is used to reproduce edits and to batch-apply them to a
// GeoJSON file.
package replay

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Event types understood by the runner
const (
	EventActivate   = "activate"
	EventPress      = "press"
	EventMove       = "move"
	EventRelease    = "release"
	EventDeactivate = "deactivate"
)

// Script is a recorded editing session
type Script struct {
	Layer    string         `yaml:"layer"`
	Output   string         `yaml:"output"`
	ReadOnly bool           `yaml:"read_only"`
	Viewport ScriptViewport `yaml:"viewport"`
	Events   []Event        `yaml:"events"`
}

// ScriptViewport places the script's pixel coordinates on the map
type ScriptViewport struct {
	OriginX       float64 `yaml:"origin_x"`
	OriginY       float64 `yaml:"origin_y"`
	UnitsPerPixel float64 `yaml:"units_per_pixel"`
}

// Event is one pointer or tool event. X and Y are screen pixels and are
// ignored by activate and deactivate.
type Event struct {
	Type string  `yaml:"type"`
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
}

// LoadScript reads a script file. Relative layer and output paths are
// resolved against the script's directory.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}

	s, err := ParseScript(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	dir := filepath.Dir(path)
	s.Layer = resolve(dir, s.Layer)
	s.Output = resolve(dir, s.Output)
	return s, nil
}

// ParseScript decodes and checks a script. Unknown keys are rejected.
func ParseScript(data []byte) (*Script, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var s Script
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty script")
		}
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}

	if s.Viewport.UnitsPerPixel == 0 {
		s.Viewport.UnitsPerPixel = 1
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Script) validate() error {
	if s.Layer == "" {
		return fmt.Errorf("script has no layer")
	}
	if s.Viewport.UnitsPerPixel < 0 {
		return fmt.Errorf("units_per_pixel must be positive")
	}
	for i, ev := range s.Events {
		switch ev.Type {
		case EventActivate, EventPress, EventMove, EventRelease, EventDeactivate:
		default:
			return fmt.Errorf("event %d: unknown type %q", i, ev.Type)
		}
	}
	return nil
}

func resolve(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}
