package layer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/paulmach/orb/geojson"
	"go.uber.org/zap"

	"vertexdrag/internal/geometry"
)

// LoadGeoJSON reads a GeoJSON FeatureCollection file into a new layer named
// after the file
func LoadGeoJSON(path string, logger *zap.Logger) (*MemoryLayer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	l, err := ParseGeoJSON(name, data, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return l, nil
}

// ParseGeoJSON builds a layer from FeatureCollection bytes. Features without a
// usable geometry are skipped with a warning; features without an id, or with
// a duplicate one, get a generated id.
func ParseGeoJSON(name string, data []byte, logger *zap.Logger) (*MemoryLayer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal feature collection: %w", err)
	}

	l := NewMemoryLayer(name)
	skipped := 0

	for i, f := range fc.Features {
		g, err := geometry.FromOrb(f.Geometry)
		if err != nil {
			logger.Warn("skipping feature",
				zap.String("layer", name),
				zap.Int("position", i),
				zap.Error(err))
			skipped++
			continue
		}

		id := featureID(f.ID)
		if id == "" || l.HasFeature(id) {
			generated := FeatureID(uuid.NewString())
			if id != "" {
				logger.Warn("duplicate feature id, assigning a new one",
					zap.String("layer", name),
					zap.String("id", string(id)),
					zap.String("assigned", string(generated)))
			}
			id = generated
		}

		if err := l.add(id, g, f.Properties, f.ID); err != nil {
			return nil, err
		}
	}

	logger.Info("loaded layer",
		zap.String("layer", name),
		zap.Int("features", l.Len()),
		zap.Int("skipped", skipped))
	return l, nil
}

// FeatureCollection exports the layer in ascending id order
func (l *MemoryLayer) FeatureCollection() *geojson.FeatureCollection {
	ids := l.FeatureIDs()

	l.mu.RLock()
	defer l.mu.RUnlock()

	fc := geojson.NewFeatureCollection()
	for _, id := range ids {
		f, ok := l.features[id]
		if !ok {
			continue
		}
		out := geojson.NewFeature(f.geometry.ToOrb())
		out.ID = f.sourceID
		if out.ID == nil || featureID(out.ID) != id {
			out.ID = string(id)
		}
		out.Properties = f.properties.Clone()
		fc.Append(out)
	}
	return fc
}

// SaveGeoJSON serializes the layer and writes it to path
func (l *MemoryLayer) SaveGeoJSON(path string) error {
	data, err := json.MarshalIndent(l.FeatureCollection(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal layer: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// featureID normalises a GeoJSON id (string or number) to a FeatureID
func featureID(raw interface{}) FeatureID {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return FeatureID(v)
	default:
		return FeatureID(fmt.Sprint(v))
	}
}
