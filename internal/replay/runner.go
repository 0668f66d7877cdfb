package replay

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"vertexdrag/internal/geometry"
	"vertexdrag/internal/layer"
	"vertexdrag/internal/locator"
	"vertexdrag/internal/metrics"
	"vertexdrag/internal/tool"
)

// Step records what one event did
type Step struct {
	Index     int
	Event     Event
	Hit       bool
	Vertex    locator.VertexRef
	Dragging  bool
	Committed bool
	Err       error
}

// Result summarises a replay
type Result struct {
	Layer    *layer.MemoryLayer
	Steps    []Step
	Previews int
	Commits  int
	Failures int
}

// Options configures a Runner
type Options struct {
	Tool    tool.Config
	Metrics *metrics.Recorder
	Logger  *zap.Logger
}

// headless is the host side of a replay: a fixed viewport, the script's
// layer and a preview counter in place of a canvas.
type headless struct {
	layer    *layer.MemoryLayer
	viewport tool.Viewport
	previews int
}

func (h *headless) ActiveLayer() any                                { return h.layer }
func (h *headless) ScreenToMap(p tool.ScreenPoint) geometry.Point2D { return h.viewport.ScreenToMap(p) }
func (h *headless) MapUnitsPerPixel() float64                       { return h.viewport.MapUnitsPerPixel() }
func (h *headless) ShowPreview(geometry.Geometry)                   { h.previews++ }
func (h *headless) ClearPreview()                                   {}

// Runner replays scripts
type Runner struct {
	opts Options
}

// NewRunner creates a runner
func NewRunner(opts Options) *Runner {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Runner{opts: opts}
}

// Run loads the script's layer, feeds every event to a fresh tool and, when
// the script names an output, writes the edited layer there. Tool errors are
// recorded on their step and do not stop the replay.
func (r *Runner) Run(ctx context.Context, s *Script) (*Result, error) {
	l, err := layer.LoadGeoJSON(s.Layer, r.opts.Logger)
	if err != nil {
		return nil, err
	}
	l.SetReadOnly(s.ReadOnly)

	vp, err := tool.NewViewport(geometry.Pt(s.Viewport.OriginX, s.Viewport.OriginY), s.Viewport.UnitsPerPixel)
	if err != nil {
		return nil, fmt.Errorf("invalid viewport: %w", err)
	}

	host := &headless{layer: l, viewport: vp}
	t := tool.New(host, host, host, r.opts.Tool, tool.Options{
		Metrics: r.opts.Metrics,
		Logger:  r.opts.Logger,
	})

	res := &Result{Layer: l, Steps: make([]Step, 0, len(s.Events))}
	for i, ev := range s.Events {
		if err := ctx.Err(); err != nil {
			t.Deactivate()
			return res, err
		}

		step := r.apply(t, i, ev)
		if step.Committed {
			res.Commits++
		}
		if step.Err != nil {
			res.Failures++
			r.opts.Logger.Warn("replay event failed",
				zap.Int("index", i),
				zap.String("type", ev.Type),
				zap.Error(step.Err))
		}
		res.Steps = append(res.Steps, step)
	}

	// A drag left open at the end of the script is abandoned
	t.Deactivate()
	res.Previews = host.previews

	if s.Output != "" {
		if err := l.SaveGeoJSON(s.Output); err != nil {
			return res, err
		}
		r.opts.Logger.Info("replay output written",
			zap.String("path", s.Output),
			zap.Int("commits", res.Commits))
	}
	return res, nil
}

func (r *Runner) apply(t *tool.VertexTool, i int, ev Event) Step {
	step := Step{Index: i, Event: ev}
	pos := tool.ScreenPoint{X: ev.X, Y: ev.Y}

	switch ev.Type {
	case EventActivate:
		step.Err = t.Activate()
	case EventDeactivate:
		t.Deactivate()
	case EventPress:
		step.Vertex, step.Hit, step.Err = t.OnPress(pos)
	case EventMove:
		_, _, step.Err = t.OnMove(pos)
	case EventRelease:
		var ended bool
		_, ended, step.Err = t.OnRelease(pos)
		// A rejected write still ends the session but commits nothing
		step.Committed = ended && step.Err == nil
	}

	step.Dragging = t.Dragging()
	return step
}
