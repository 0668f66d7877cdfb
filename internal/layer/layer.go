// Package layer provides the feature data store the drag tool reads from and
// commits to.
package layer

import "vertexdrag/internal/geometry"

// FeatureID is a layer-scoped, stable feature identifier
type FeatureID string

// Layer is an editable vector layer
type Layer interface {
	// FeatureIDs lists every feature id in ascending order
	FeatureIDs() []FeatureID

	// HasFeature reports whether the feature still exists
	HasFeature(id FeatureID) bool

	// ReadGeometry returns the current geometry of a feature
	ReadGeometry(id FeatureID) (geometry.Geometry, error)

	// WriteGeometry replaces the geometry of a feature
	WriteGeometry(id FeatureID, g geometry.Geometry) error
}

// SpatialQuerier is implemented by layers that can narrow a search to the
// features whose bounds intersect a region. Results are in ascending id order.
type SpatialQuerier interface {
	FeaturesIn(region geometry.Bound) []FeatureID
}
