package server

import (
	"vertexdrag/internal/geometry"
	"vertexdrag/internal/tool"
)

// The adapters below are called by the tool while the server's event mutex
// is held, so they touch server state without locking.

// layerHost exposes the loaded layer as the host's active layer
type layerHost struct {
	s *Server
}

func (h layerHost) ActiveLayer() any {
	if h.s.layer == nil {
		return nil
	}
	return h.s.layer
}

// canvas maps pointer pixels through the server's current viewport
type canvas struct {
	s *Server
}

func (c canvas) ScreenToMap(p tool.ScreenPoint) geometry.Point2D {
	return c.s.viewport.ScreenToMap(p)
}

func (c canvas) MapUnitsPerPixel() float64 {
	return c.s.viewport.MapUnitsPerPixel()
}

// overlay keeps the latest preview for GET /preview
type overlay struct {
	s *Server
}

func (o overlay) ShowPreview(g geometry.Geometry) {
	o.s.preview = g
	o.s.previewVisible = true
}

func (o overlay) ClearPreview() {
	o.s.preview = geometry.Geometry{}
	o.s.previewVisible = false
}
