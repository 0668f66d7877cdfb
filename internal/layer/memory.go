package layer

import (
	"fmt"
	"sort"
	"sync"

	"github.com/paulmach/orb/geojson"

	"vertexdrag/internal/editerr"
	"vertexdrag/internal/geometry"
)

// feature is one stored record. Properties are carried through untouched.
type feature struct {
	geometry   geometry.Geometry
	properties geojson.Properties
	// sourceID is the id as it appeared in the source file, if any
	sourceID interface{}
}

// MemoryLayer is an in-memory vector layer with an R-tree over feature bounds
type MemoryLayer struct {
	mu       sync.RWMutex
	name     string
	readOnly bool
	features map[FeatureID]*feature
	index    *featureIndex
}

// NewMemoryLayer creates an empty layer
func NewMemoryLayer(name string) *MemoryLayer {
	return &MemoryLayer{
		name:     name,
		features: make(map[FeatureID]*feature),
		index:    newFeatureIndex(),
	}
}

// Name returns the layer name
func (l *MemoryLayer) Name() string {
	return l.name
}

// SetReadOnly makes every subsequent write fail with a WriteError
func (l *MemoryLayer) SetReadOnly(readOnly bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.readOnly = readOnly
}

// ReadOnly reports whether writes are rejected
func (l *MemoryLayer) ReadOnly() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.readOnly
}

// Add inserts a new feature
func (l *MemoryLayer) Add(id FeatureID, g geometry.Geometry, properties geojson.Properties) error {
	return l.add(id, g, properties, nil)
}

func (l *MemoryLayer) add(id FeatureID, g geometry.Geometry, properties geojson.Properties, sourceID interface{}) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.features[id]; exists {
		return fmt.Errorf("feature %s already exists in layer %s", id, l.name)
	}
	if properties == nil {
		properties = geojson.Properties{}
	}

	l.features[id] = &feature{geometry: g, properties: properties, sourceID: sourceID}
	l.index.put(id, g)
	return nil
}

// Delete removes a feature, reporting whether it existed
func (l *MemoryLayer) Delete(id FeatureID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.features[id]; !exists {
		return false
	}
	delete(l.features, id)
	l.index.remove(id)
	return true
}

// Len returns the number of features
func (l *MemoryLayer) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.features)
}

// FeatureIDs lists every feature id in ascending order
func (l *MemoryLayer) FeatureIDs() []FeatureID {
	l.mu.RLock()
	defer l.mu.RUnlock()

	ids := make([]FeatureID, 0, len(l.features))
	for id := range l.features {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// HasFeature reports whether the feature exists
func (l *MemoryLayer) HasFeature(id FeatureID) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, exists := l.features[id]
	return exists
}

// ReadGeometry returns the current geometry of a feature
func (l *MemoryLayer) ReadGeometry(id FeatureID) (geometry.Geometry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	f, exists := l.features[id]
	if !exists {
		return geometry.Geometry{}, editerr.New(editerr.FeatureNotFound, "layer.read", "no such feature").
			WithFeature(string(id))
	}
	return f.geometry, nil
}

// WriteGeometry replaces the geometry of a feature and re-indexes it
func (l *MemoryLayer) WriteGeometry(id FeatureID, g geometry.Geometry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.readOnly {
		return editerr.New(editerr.WriteError, "layer.write", fmt.Sprintf("layer %s is read-only", l.name)).
			WithFeature(string(id))
	}
	f, exists := l.features[id]
	if !exists {
		return editerr.New(editerr.FeatureNotFound, "layer.write", "no such feature").
			WithFeature(string(id))
	}
	if g.IsEmpty() {
		return editerr.New(editerr.InvalidGeometry, "layer.write", "empty geometry").
			WithFeature(string(id))
	}

	f.geometry = g
	l.index.put(id, g)
	return nil
}

// FeaturesIn returns the ids of features whose bounds intersect region
func (l *MemoryLayer) FeaturesIn(region geometry.Bound) []FeatureID {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.index.search(region)
}
