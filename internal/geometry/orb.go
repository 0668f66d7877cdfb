package geometry

import (
	"fmt"

	"github.com/paulmach/orb"
)

// ToOrb converts the geometry to its orb equivalent, closing polygon rings
func (g Geometry) ToOrb() orb.Geometry {
	switch g.kind {
	case KindPoint:
		if g.IsEmpty() {
			return nil
		}
		return toOrbPoint(g.parts[0][0])
	case KindMultiPoint:
		return orb.MultiPoint(toOrbPoints(g.parts[0]))
	case KindLineString:
		return orb.LineString(toOrbPoints(g.parts[0]))
	case KindMultiLineString:
		mls := make(orb.MultiLineString, len(g.parts))
		for i, part := range g.parts {
			mls[i] = orb.LineString(toOrbPoints(part))
		}
		return mls
	case KindPolygon:
		return toOrbPolygon(g.parts)
	case KindMultiPolygon:
		mp := make(orb.MultiPolygon, 0, len(g.rings))
		next := 0
		for _, count := range g.rings {
			mp = append(mp, toOrbPolygon(g.parts[next:next+count]))
			next += count
		}
		return mp
	default:
		return nil
	}
}

// FromOrb converts an orb geometry. Collections and bounds are not editable
// vertex geometries and are rejected.
func FromOrb(og orb.Geometry) (Geometry, error) {
	switch v := og.(type) {
	case orb.Point:
		return NewPoint(fromOrbPoint(v)), nil
	case orb.MultiPoint:
		return NewMultiPoint(fromOrbPoints(v)...), nil
	case orb.LineString:
		return NewLineString(fromOrbPoints(v)...), nil
	case orb.MultiLineString:
		lines := make([][]Point2D, len(v))
		for i, ls := range v {
			lines[i] = fromOrbPoints(ls)
		}
		return NewMultiLineString(lines...), nil
	case orb.Ring:
		return NewPolygon(fromOrbPoints(v)), nil
	case orb.Polygon:
		return NewPolygon(fromOrbRings(v)...), nil
	case orb.MultiPolygon:
		polygons := make([][][]Point2D, len(v))
		for i, poly := range v {
			polygons[i] = fromOrbRings(poly)
		}
		return NewMultiPolygon(polygons...), nil
	case nil:
		return Geometry{}, fmt.Errorf("missing geometry")
	default:
		return Geometry{}, fmt.Errorf("unsupported geometry type %s", og.GeoJSONType())
	}
}

func toOrbPoint(p Point2D) orb.Point {
	return orb.Point{p.X, p.Y}
}

func fromOrbPoint(p orb.Point) Point2D {
	return Point2D{X: p[0], Y: p[1]}
}

func toOrbPoints(points []Point2D) []orb.Point {
	out := make([]orb.Point, len(points))
	for i, p := range points {
		out[i] = toOrbPoint(p)
	}
	return out
}

func fromOrbPoints(points []orb.Point) []Point2D {
	out := make([]Point2D, len(points))
	for i, p := range points {
		out[i] = fromOrbPoint(p)
	}
	return out
}

func fromOrbRings(poly orb.Polygon) [][]Point2D {
	rings := make([][]Point2D, len(poly))
	for i, ring := range poly {
		rings[i] = fromOrbPoints(ring)
	}
	return rings
}

func toOrbPolygon(rings [][]Point2D) orb.Polygon {
	poly := make(orb.Polygon, len(rings))
	for i, ring := range rings {
		r := orb.Ring(toOrbPoints(ring))
		if len(r) > 0 {
			r = append(r, r[0])
		}
		poly[i] = r
	}
	return poly
}
