package geometry

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Point2D is a map-space coordinate pair
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point2D{X: x, Y: y}
func Pt(x, y float64) Point2D {
	return Point2D{X: x, Y: y}
}

// Add returns p translated by d
func (p Point2D) Add(d Point2D) Point2D {
	return Point2D{X: p.X + d.X, Y: p.Y + d.Y}
}

// Sub returns the displacement from other to p
func (p Point2D) Sub(other Point2D) Point2D {
	return Point2D{X: p.X - other.X, Y: p.Y - other.Y}
}

// Distance calculates Euclidean distance between two points
func (p Point2D) Distance(other Point2D) float64 {
	return planar.Distance(orb.Point{p.X, p.Y}, orb.Point{other.X, other.Y})
}

// IsFinite reports whether both coordinates are neither NaN nor infinite
func (p Point2D) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// Bound is an axis-aligned bounding box in map space
type Bound struct {
	Min Point2D `json:"min"`
	Max Point2D `json:"max"`
}

// Expand returns the bound grown by margin on every side
func (b Bound) Expand(margin float64) Bound {
	return fromOrbBound(b.toOrb().Pad(margin))
}

// BoundAround returns the square of half-width radius centred on p
func BoundAround(p Point2D, radius float64) Bound {
	return fromOrbBound(toOrbPoint(p).Bound().Pad(radius))
}

func (b Bound) toOrb() orb.Bound {
	return orb.Bound{Min: toOrbPoint(b.Min), Max: toOrbPoint(b.Max)}
}

func fromOrbBound(b orb.Bound) Bound {
	return Bound{Min: fromOrbPoint(b.Min), Max: fromOrbPoint(b.Max)}
}
