// Package tool adapts the drag state machine to a host map canvas: it turns
// screen-space pointer events into locator queries and controller
// transitions.
package tool

import (
	"go.uber.org/zap"

	"vertexdrag/internal/drag"
	"vertexdrag/internal/editerr"
	"vertexdrag/internal/geometry"
	"vertexdrag/internal/layer"
	"vertexdrag/internal/locator"
	"vertexdrag/internal/metrics"
)

// DefaultTolerancePixels is the snapping radius used when none is configured
const DefaultTolerancePixels = 5.0

// Canvas converts pointer positions to map space
type Canvas interface {
	ScreenToMap(p ScreenPoint) geometry.Point2D
	MapUnitsPerPixel() float64
}

// LayerSource supplies the host's currently selected layer. The tool only
// accepts values implementing layer.Layer.
type LayerSource interface {
	ActiveLayer() any
}

// Config holds the tool's tunables
type Config struct {
	TolerancePixels float64
	Validation      geometry.ValidateOptions
}

// Options carries optional collaborators
type Options struct {
	Metrics *metrics.Recorder
	Logger  *zap.Logger
}

// VertexTool is the host-facing vertex drag tool
type VertexTool struct {
	source  LayerSource
	canvas  Canvas
	sink    drag.PreviewSink
	cfg     Config
	metrics *metrics.Recorder
	logger  *zap.Logger

	// set while the tool is active
	layer      layer.Layer
	controller *drag.Controller
}

// New creates an inactive tool
func New(source LayerSource, canvas Canvas, sink drag.PreviewSink, cfg Config, opts Options) *VertexTool {
	if cfg.TolerancePixels <= 0 {
		cfg.TolerancePixels = DefaultTolerancePixels
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &VertexTool{
		source:  source,
		canvas:  canvas,
		sink:    sink,
		cfg:     cfg,
		metrics: opts.Metrics,
		logger:  opts.Logger,
	}
}

// Activate binds the tool to the host's active layer. It fails with an
// InvalidLayer error, leaving the tool inactive, when there is no editable
// vector layer.
func (t *VertexTool) Activate() error {
	if t.Active() {
		t.Deactivate()
	}

	candidate := t.source.ActiveLayer()
	editable, ok := candidate.(layer.Layer)
	if !ok {
		t.logger.Warn("activation refused: no editable vector layer selected")
		return editerr.New(editerr.InvalidLayer, "tool.activate", "please select a valid vector layer")
	}

	t.layer = editable
	t.controller = drag.NewController(editable, t.sink, drag.Options{
		Validation: t.cfg.Validation,
		Observer:   t.metrics,
		Logger:     t.logger,
	})
	t.logger.Info("vertex tool activated", zap.Float64("tolerance_px", t.cfg.TolerancePixels))
	return nil
}

// Deactivate cancels any open drag and unbinds the layer
func (t *VertexTool) Deactivate() {
	if t.controller == nil {
		return
	}
	if t.controller.Cancel() {
		t.logger.Info("drag cancelled by deactivation")
	}
	t.controller = nil
	t.layer = nil
	t.logger.Info("vertex tool deactivated")
}

// Active reports whether the tool is bound to a layer
func (t *VertexTool) Active() bool {
	return t.controller != nil
}

// Dragging reports whether a drag session is open
func (t *VertexTool) Dragging() bool {
	return t.controller != nil && t.controller.Active()
}

// Layer returns the bound layer, or nil when inactive
func (t *VertexTool) Layer() layer.Layer {
	return t.layer
}

// Tolerance converts the pixel tolerance to map units at the current scale
func (t *VertexTool) Tolerance() float64 {
	return t.cfg.TolerancePixels * t.canvas.MapUnitsPerPixel()
}

// OnPress looks for a vertex under the pointer and starts dragging it. A miss
// drops any session left open by a lost release.
func (t *VertexTool) OnPress(pos ScreenPoint) (locator.VertexRef, bool, error) {
	if t.controller == nil {
		return locator.VertexRef{}, false, nil
	}

	point := t.canvas.ScreenToMap(pos)
	ref, ok := locator.Find(t.layer, point, t.Tolerance())
	if !ok {
		t.metrics.PressMiss()
		t.controller.Cancel()
		return locator.VertexRef{}, false, nil
	}

	t.metrics.PressHit()
	if err := t.controller.Begin(ref, point); err != nil {
		return locator.VertexRef{}, false, err
	}
	return ref, true, nil
}

// OnMove updates the preview. ok is false when nothing is being dragged.
func (t *VertexTool) OnMove(pos ScreenPoint) (geometry.Geometry, bool, error) {
	if t.controller == nil {
		return geometry.Geometry{}, false, nil
	}
	return t.controller.Update(t.canvas.ScreenToMap(pos))
}

// OnRelease commits the drag. ok is false when nothing was being dragged.
func (t *VertexTool) OnRelease(pos ScreenPoint) (geometry.Geometry, bool, error) {
	if t.controller == nil {
		return geometry.Geometry{}, false, nil
	}
	return t.controller.Commit(t.canvas.ScreenToMap(pos))
}
