package tool

import (
	"fmt"
	"math"

	"vertexdrag/internal/geometry"
)

// ScreenPoint is a pointer position in pixels, y growing downwards
type ScreenPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Viewport is a north-up screen-to-map transform
type Viewport struct {
	// Origin is the map position of screen pixel (0, 0)
	Origin        geometry.Point2D `json:"origin"`
	UnitsPerPixel float64          `json:"unitsPerPixel"`
}

// NewViewport validates and creates a viewport
func NewViewport(origin geometry.Point2D, unitsPerPixel float64) (Viewport, error) {
	if !origin.IsFinite() {
		return Viewport{}, fmt.Errorf("viewport origin must be finite")
	}
	if !(unitsPerPixel > 0) || math.IsInf(unitsPerPixel, 0) {
		return Viewport{}, fmt.Errorf("units per pixel must be positive, got %v", unitsPerPixel)
	}
	return Viewport{Origin: origin, UnitsPerPixel: unitsPerPixel}, nil
}

// ScreenToMap converts a pixel position to map coordinates
func (v Viewport) ScreenToMap(p ScreenPoint) geometry.Point2D {
	return geometry.Point2D{
		X: v.Origin.X + p.X*v.UnitsPerPixel,
		Y: v.Origin.Y - p.Y*v.UnitsPerPixel,
	}
}

// MapToScreen converts map coordinates to a pixel position
func (v Viewport) MapToScreen(p geometry.Point2D) ScreenPoint {
	return ScreenPoint{
		X: (p.X - v.Origin.X) / v.UnitsPerPixel,
		Y: (v.Origin.Y - p.Y) / v.UnitsPerPixel,
	}
}

// MapUnitsPerPixel returns the current map scale
func (v Viewport) MapUnitsPerPixel() float64 {
	return v.UnitsPerPixel
}
