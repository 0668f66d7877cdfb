// Package locator finds the vertex nearest to a map position.
package locator

import (
	"math"

	"vertexdrag/internal/geometry"
	"vertexdrag/internal/layer"
)

// VertexRef identifies one vertex of one feature
type VertexRef struct {
	FeatureID   layer.FeatureID `json:"featureId"`
	VertexIndex int             `json:"vertexIndex"`
}

// Find returns the vertex closest to point whose distance is at most
// tolerance. Ties go to the lowest feature id, then the lowest vertex index.
// A miss is reported as ok == false.
func Find(l layer.Layer, point geometry.Point2D, tolerance float64) (VertexRef, bool) {
	if l == nil || !(tolerance >= 0) || !point.IsFinite() {
		return VertexRef{}, false
	}

	best := VertexRef{}
	bestDist := math.Inf(1)
	found := false

	for _, id := range candidates(l, point, tolerance) {
		g, err := l.ReadGeometry(id)
		if err != nil {
			continue
		}

		index, dist := nearestVertex(g, point)
		if index < 0 || dist > tolerance {
			continue
		}
		// Candidates arrive in ascending id order, so strict comparison keeps the lowest id
		if dist < bestDist {
			best = VertexRef{FeatureID: id, VertexIndex: index}
			bestDist = dist
			found = true
		}
	}

	return best, found
}

// candidates narrows the scan with the layer's spatial index when it has one
func candidates(l layer.Layer, point geometry.Point2D, tolerance float64) []layer.FeatureID {
	if sq, ok := l.(layer.SpatialQuerier); ok {
		// Widen slightly so a vertex exactly at the tolerance survives the
		// bounding-box filter; exact distances are checked afterwards
		margin := tolerance*(1+1e-9) + 1e-9
		return sq.FeaturesIn(geometry.BoundAround(point, margin))
	}
	return l.FeatureIDs()
}

// nearestVertex finds the closest vertex of a geometry to a given point
func nearestVertex(g geometry.Geometry, point geometry.Point2D) (int, float64) {
	vertices := g.Vertices()
	if len(vertices) == 0 {
		return -1, math.MaxFloat64
	}

	nearest := 0
	minDist := point.Distance(vertices[0])

	for i := 1; i < len(vertices); i++ {
		dist := point.Distance(vertices[i])
		if dist < minDist {
			minDist = dist
			nearest = i
		}
	}

	return nearest, minDist
}
