package geometry

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrNonFinite is returned when a vertex has a NaN or infinite coordinate
	ErrNonFinite = errors.New("non-finite coordinate")

	// ErrSelfIntersection is returned when a line or ring crosses itself
	ErrSelfIntersection = errors.New("self-intersection")
)

// ValidateOptions selects the checks run by Validate
type ValidateOptions struct {
	RejectSelfIntersections bool
}

// Validate checks that the geometry can be written back to a layer
func (g Geometry) Validate(opts ValidateOptions) error {
	for i, v := range g.Vertices() {
		if !v.IsFinite() {
			return fmt.Errorf("vertex %d: %w", i, ErrNonFinite)
		}
	}

	if !opts.RejectSelfIntersections {
		return nil
	}

	closed := g.kind == KindPolygon || g.kind == KindMultiPolygon
	if g.kind == KindPoint || g.kind == KindMultiPoint {
		return nil
	}

	for p, part := range g.parts {
		if partSelfIntersects(part, closed) {
			return fmt.Errorf("part %d: %w", p, ErrSelfIntersection)
		}
	}
	return nil
}

// partSelfIntersects checks every pair of edges of a line or ring. Edges that
// are not neighbours may not meet at all, even at a single vertex, and
// neighbours may not fold back over each other.
func partSelfIntersects(part []Point2D, closed bool) bool {
	part = dedupe(part, closed)

	edges := make([]LineSegment, 0, len(part))
	for i := 0; i+1 < len(part); i++ {
		edges = append(edges, LineSegment{P1: part[i], P2: part[i+1]})
	}
	if closed && len(part) > 1 {
		edges = append(edges, LineSegment{P1: part[len(part)-1], P2: part[0]})
	}

	n := len(edges)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			adjacent := j == i+1 || (closed && i == 0 && j == n-1)
			if adjacent {
				if n > 1 && foldsBack(edges[i], edges[j]) {
					return true
				}
				continue
			}
			if segmentsCross(edges[i], edges[j]) {
				return true
			}
		}
	}
	return false
}

// dedupe drops repeated consecutive vertices, and for rings a last vertex
// equal to the first
func dedupe(part []Point2D, closed bool) []Point2D {
	out := make([]Point2D, 0, len(part))
	for _, p := range part {
		if len(out) > 0 && out[len(out)-1] == p {
			continue
		}
		out = append(out, p)
	}
	if closed && len(out) > 1 && out[len(out)-1] == out[0] {
		out = out[:len(out)-1]
	}
	return out
}

// foldsBack reports whether two edges sharing a vertex overlap along a line
func foldsBack(a, b LineSegment) bool {
	var shared, u, v Point2D
	switch {
	case a.P2 == b.P1:
		shared, u, v = a.P2, a.P1, b.P2
	case a.P1 == b.P2:
		shared, u, v = a.P1, a.P2, b.P1
	default:
		return false
	}
	if direction(shared, u, v) != 0 {
		return false
	}
	return (u.X-shared.X)*(v.X-shared.X)+(u.Y-shared.Y)*(v.Y-shared.Y) > 0
}

// LineSegment represents a line segment between two points
type LineSegment struct {
	P1, P2 Point2D
}

// DoSegmentsIntersect checks if two line segments intersect.
// Segments touching only at a shared endpoint do not count.
func DoSegmentsIntersect(seg1, seg2 LineSegment) bool {
	if seg1.P1 == seg2.P1 || seg1.P1 == seg2.P2 || seg1.P2 == seg2.P1 || seg1.P2 == seg2.P2 {
		return false
	}
	return segmentsCross(seg1, seg2)
}

// segmentsCross checks if two segments share any point, endpoints included
func segmentsCross(seg1, seg2 LineSegment) bool {
	p1, p2 := seg1.P1, seg1.P2
	p3, p4 := seg2.P1, seg2.P2

	d1 := direction(p3, p4, p1)
	d2 := direction(p3, p4, p2)
	d3 := direction(p1, p2, p3)
	d4 := direction(p1, p2, p4)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}

	// Collinear cases
	if d1 == 0 && onSegment(p3, p4, p1) {
		return true
	}
	if d2 == 0 && onSegment(p3, p4, p2) {
		return true
	}
	if d3 == 0 && onSegment(p1, p2, p3) {
		return true
	}
	if d4 == 0 && onSegment(p1, p2, p4) {
		return true
	}

	return false
}

// direction calculates the cross product to determine orientation
func direction(p1, p2, p3 Point2D) float64 {
	return (p3.X-p1.X)*(p2.Y-p1.Y) - (p2.X-p1.X)*(p3.Y-p1.Y)
}

// onSegment checks if point q lies within the bounding box of segment pr
func onSegment(p, r, q Point2D) bool {
	return q.X <= math.Max(p.X, r.X) && q.X >= math.Min(p.X, r.X) &&
		q.Y <= math.Max(p.Y, r.Y) && q.Y >= math.Min(p.Y, r.Y)
}
