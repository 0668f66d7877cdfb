// Package geometry holds the immutable vertex geometry edited by the drag tool.
//
// A Geometry is an ordered vertex sequence split into parts (lines, rings or
// single points). Vertex indices are flattened across parts in storage order.
// Polygon rings are kept open: the closing vertex of a GeoJSON ring is not
// addressable and is re-added on export, so moving vertex 0 of a ring also
// moves its closing vertex.
package geometry

import "github.com/paulmach/orb"

// Kind identifies the shape of a geometry
type Kind int

const (
	KindEmpty Kind = iota
	KindPoint
	KindMultiPoint
	KindLineString
	KindMultiLineString
	KindPolygon
	KindMultiPolygon
)

func (k Kind) String() string {
	switch k {
	case KindPoint:
		return "Point"
	case KindMultiPoint:
		return "MultiPoint"
	case KindLineString:
		return "LineString"
	case KindMultiLineString:
		return "MultiLineString"
	case KindPolygon:
		return "Polygon"
	case KindMultiPolygon:
		return "MultiPolygon"
	default:
		return "Empty"
	}
}

// Geometry is an immutable feature shape. The zero value is empty.
type Geometry struct {
	kind  Kind
	parts [][]Point2D
	// rings holds the ring count of each polygon of a MultiPolygon
	rings []int
}

// NewPoint creates a single-vertex geometry
func NewPoint(p Point2D) Geometry {
	return Geometry{kind: KindPoint, parts: [][]Point2D{{p}}}
}

// NewMultiPoint creates a geometry of unconnected vertices
func NewMultiPoint(points ...Point2D) Geometry {
	return Geometry{kind: KindMultiPoint, parts: [][]Point2D{copyPoints(points)}}
}

// NewLineString creates an open line through the given vertices
func NewLineString(points ...Point2D) Geometry {
	return Geometry{kind: KindLineString, parts: [][]Point2D{copyPoints(points)}}
}

// NewMultiLineString creates a geometry of several open lines
func NewMultiLineString(lines ...[]Point2D) Geometry {
	parts := make([][]Point2D, len(lines))
	for i, line := range lines {
		parts[i] = copyPoints(line)
	}
	return Geometry{kind: KindMultiLineString, parts: parts}
}

// NewPolygon creates a polygon from an outer ring followed by holes.
// Rings may be given closed or open.
func NewPolygon(rings ...[]Point2D) Geometry {
	parts := make([][]Point2D, len(rings))
	for i, ring := range rings {
		parts[i] = openRing(ring)
	}
	return Geometry{kind: KindPolygon, parts: parts}
}

// NewMultiPolygon creates a geometry of several polygons, each a list of rings
func NewMultiPolygon(polygons ...[][]Point2D) Geometry {
	g := Geometry{kind: KindMultiPolygon, rings: make([]int, len(polygons))}
	for i, polygon := range polygons {
		g.rings[i] = len(polygon)
		for _, ring := range polygon {
			g.parts = append(g.parts, openRing(ring))
		}
	}
	return g
}

// Kind returns the geometry's shape
func (g Geometry) Kind() Kind {
	return g.kind
}

// IsEmpty reports whether the geometry has no vertices
func (g Geometry) IsEmpty() bool {
	return g.Len() == 0
}

// Len returns the number of addressable vertices
func (g Geometry) Len() int {
	n := 0
	for _, part := range g.parts {
		n += len(part)
	}
	return n
}

// VertexAt returns the vertex at flattened index i
func (g Geometry) VertexAt(i int) (Point2D, bool) {
	part, offset, ok := g.locate(i)
	if !ok {
		return Point2D{}, false
	}
	return g.parts[part][offset], true
}

// WithVertexMoved returns a copy of g with vertex i translated by d.
// The receiver is never modified.
func (g Geometry) WithVertexMoved(i int, d Point2D) (Geometry, bool) {
	part, offset, ok := g.locate(i)
	if !ok {
		return Geometry{}, false
	}
	moved := g.clone()
	moved.parts[part][offset] = moved.parts[part][offset].Add(d)
	return moved, true
}

// Vertices returns a copy of all vertices in index order
func (g Geometry) Vertices() []Point2D {
	out := make([]Point2D, 0, g.Len())
	for _, part := range g.parts {
		out = append(out, part...)
	}
	return out
}

// Parts returns a copy of the geometry's parts. Polygon rings are open.
func (g Geometry) Parts() [][]Point2D {
	out := make([][]Point2D, len(g.parts))
	for i, part := range g.parts {
		out[i] = copyPoints(part)
	}
	return out
}

// Bounds computes the axis-aligned bounding box of every vertex, hole
// vertices included
func (g Geometry) Bounds() (Bound, bool) {
	if g.IsEmpty() {
		return Bound{}, false
	}
	return fromOrbBound(orb.MultiPoint(toOrbPoints(g.Vertices())).Bound()), true
}

// Equal reports whether two geometries have the same kind, structure and coordinates
func (g Geometry) Equal(other Geometry) bool {
	if g.kind != other.kind || len(g.parts) != len(other.parts) || len(g.rings) != len(other.rings) {
		return false
	}
	for i := range g.rings {
		if g.rings[i] != other.rings[i] {
			return false
		}
	}
	for i := range g.parts {
		if len(g.parts[i]) != len(other.parts[i]) {
			return false
		}
		for j := range g.parts[i] {
			if g.parts[i][j] != other.parts[i][j] {
				return false
			}
		}
	}
	return true
}

// locate maps a flattened vertex index to its part and offset
func (g Geometry) locate(i int) (int, int, bool) {
	if i < 0 {
		return 0, 0, false
	}
	for p, part := range g.parts {
		if i < len(part) {
			return p, i, true
		}
		i -= len(part)
	}
	return 0, 0, false
}

func (g Geometry) clone() Geometry {
	out := Geometry{kind: g.kind, parts: make([][]Point2D, len(g.parts))}
	for i, part := range g.parts {
		out.parts[i] = copyPoints(part)
	}
	if g.rings != nil {
		out.rings = append([]int(nil), g.rings...)
	}
	return out
}

func copyPoints(points []Point2D) []Point2D {
	return append([]Point2D(nil), points...)
}

// openRing drops a closing vertex equal to the first one
func openRing(ring []Point2D) []Point2D {
	n := len(ring)
	if n > 1 && ring[0] == ring[n-1] {
		return copyPoints(ring[:n-1])
	}
	return copyPoints(ring)
}
