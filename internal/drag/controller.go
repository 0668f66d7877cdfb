// Package drag implements the vertex drag state machine.
//
// A Controller is either idle or holds exactly one active Session. Every
// preview and the committed geometry are derived from the snapshot taken at
// Begin, displaced by (pointer - anchor); nothing is accumulated between moves,
// so Update(p) and Commit(p) always produce the same geometry. The layer is
// written at most once per session, on Commit.
package drag

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"vertexdrag/internal/editerr"
	"vertexdrag/internal/geometry"
	"vertexdrag/internal/layer"
	"vertexdrag/internal/locator"
)

// PreviewSink receives the temporary overlay geometry
type PreviewSink interface {
	ShowPreview(g geometry.Geometry)
	ClearPreview()
}

// Observer is notified of session lifecycle events
type Observer interface {
	SessionStarted()
	SessionCommitted()
	SessionCancelled(reason string)
	WriteFailed()
}

// Cancellation reasons reported to the Observer
const (
	ReasonRequested       = "requested"
	ReasonSuperseded      = "superseded"
	ReasonStaleReference  = "stale_reference"
	ReasonInvalidGeometry = "invalid_geometry"
)

// Session is one in-progress edit. All fields are copies; Original is never
// aliased to the layer's stored geometry.
type Session struct {
	Target   locator.VertexRef
	Original geometry.Geometry
	Anchor   geometry.Point2D
}

// displaced derives the edited geometry for a pointer position
func (s Session) displaced(p geometry.Point2D) (geometry.Geometry, bool) {
	return s.Original.WithVertexMoved(s.Target.VertexIndex, p.Sub(s.Anchor))
}

type state interface {
	isState()
}

type idleState struct{}

type activeState struct {
	session Session
}

func (idleState) isState()   {}
func (activeState) isState() {}

// Options configures a Controller
type Options struct {
	Validation geometry.ValidateOptions
	Observer   Observer
	Logger     *zap.Logger
}

// Controller owns the drag state for one layer
type Controller struct {
	layer    layer.Layer
	sink     PreviewSink
	observer Observer
	opts     geometry.ValidateOptions
	logger   *zap.Logger
	state    state
}

// NewController creates an idle controller editing l
func NewController(l layer.Layer, sink PreviewSink, opts Options) *Controller {
	if sink == nil {
		sink = discardSink{}
	}
	if opts.Observer == nil {
		opts.Observer = nopObserver{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Controller{
		layer:    l,
		sink:     sink,
		observer: opts.Observer,
		opts:     opts.Validation,
		logger:   opts.Logger,
		state:    idleState{},
	}
}

// Active reports whether a session is in progress
func (c *Controller) Active() bool {
	_, ok := c.state.(activeState)
	return ok
}

// Session returns the active session, if any
func (c *Controller) Session() (Session, bool) {
	if s, ok := c.state.(activeState); ok {
		return s.session, true
	}
	return Session{}, false
}

// Begin snapshots the target feature and starts a session. An already active
// session is cancelled first.
func (c *Controller) Begin(target locator.VertexRef, anchor geometry.Point2D) error {
	if s, ok := c.state.(activeState); ok {
		c.logger.Warn("begin while a drag is active, cancelling previous session",
			zap.String("previous_feature", string(s.session.Target.FeatureID)),
			zap.Int("previous_vertex", s.session.Target.VertexIndex))
		c.cancel(ReasonSuperseded)
	}

	original, err := c.layer.ReadGeometry(target.FeatureID)
	if err != nil {
		if errors.Is(err, editerr.ErrFeatureNotFound) {
			return staleError("drag.begin", target, err)
		}
		return fmt.Errorf("drag.begin: failed to read feature %s: %w", target.FeatureID, err)
	}
	if _, ok := original.VertexAt(target.VertexIndex); !ok {
		return staleError("drag.begin", target, nil)
	}

	c.state = activeState{session: Session{
		Target:   target,
		Original: original,
		Anchor:   anchor,
	}}
	c.observer.SessionStarted()
	c.sink.ShowPreview(original)

	c.logger.Debug("drag started",
		zap.String("feature", string(target.FeatureID)),
		zap.Int("vertex", target.VertexIndex),
		zap.Float64("anchor_x", anchor.X),
		zap.Float64("anchor_y", anchor.Y))
	return nil
}

// Update derives and emits the preview for pointer position p. Without an
// active session it does nothing and reports ok == false.
func (c *Controller) Update(p geometry.Point2D) (preview geometry.Geometry, ok bool, err error) {
	s, active := c.state.(activeState)
	if !active {
		return geometry.Geometry{}, false, nil
	}

	if !c.layer.HasFeature(s.session.Target.FeatureID) {
		c.cancel(ReasonStaleReference)
		return geometry.Geometry{}, true, staleError("drag.update", s.session.Target, nil)
	}

	preview, moved := s.session.displaced(p)
	if !moved {
		c.cancel(ReasonStaleReference)
		return geometry.Geometry{}, true, staleError("drag.update", s.session.Target, nil)
	}
	if err := preview.Validate(geometry.ValidateOptions{}); err != nil {
		c.cancel(ReasonInvalidGeometry)
		return geometry.Geometry{}, true, invalidGeometryError("drag.update", s.session.Target, err)
	}

	c.sink.ShowPreview(preview)
	return preview, true, nil
}

// Commit writes the geometry for pointer position p to the layer and ends
// the session. The session ends whether or not the write succeeds. Without
// an active session it does nothing and reports ok == false.
func (c *Controller) Commit(p geometry.Point2D) (committed geometry.Geometry, ok bool, err error) {
	s, active := c.state.(activeState)
	if !active {
		return geometry.Geometry{}, false, nil
	}
	target := s.session.Target

	if !c.layer.HasFeature(target.FeatureID) {
		c.cancel(ReasonStaleReference)
		return geometry.Geometry{}, true, staleError("drag.commit", target, nil)
	}

	final, moved := s.session.displaced(p)
	if !moved {
		c.cancel(ReasonStaleReference)
		return geometry.Geometry{}, true, staleError("drag.commit", target, nil)
	}
	if err := final.Validate(c.opts); err != nil {
		c.cancel(ReasonInvalidGeometry)
		return geometry.Geometry{}, true, invalidGeometryError("drag.commit", target, err)
	}

	c.state = idleState{}
	c.sink.ClearPreview()

	if err := c.layer.WriteGeometry(target.FeatureID, final); err != nil {
		c.observer.WriteFailed()
		c.logger.Warn("commit rejected by layer",
			zap.String("feature", string(target.FeatureID)),
			zap.Error(err))
		if errors.Is(err, editerr.ErrFeatureNotFound) {
			return geometry.Geometry{}, true, staleError("drag.commit", target, err)
		}
		if _, typed := editerr.KindOf(err); typed {
			return geometry.Geometry{}, true, err
		}
		return geometry.Geometry{}, true, editerr.New(editerr.WriteError, "drag.commit", "layer rejected geometry").
			WithFeature(string(target.FeatureID)).
			WithCause(err)
	}

	c.observer.SessionCommitted()
	c.logger.Info("vertex moved",
		zap.String("feature", string(target.FeatureID)),
		zap.Int("vertex", target.VertexIndex),
		zap.Float64("dx", p.X-s.session.Anchor.X),
		zap.Float64("dy", p.Y-s.session.Anchor.Y))
	return final, true, nil
}

// Cancel discards the active session without writing, reporting whether
// there was one
func (c *Controller) Cancel() bool {
	if !c.Active() {
		return false
	}
	c.cancel(ReasonRequested)
	return true
}

func (c *Controller) cancel(reason string) {
	c.state = idleState{}
	c.sink.ClearPreview()
	c.observer.SessionCancelled(reason)
	c.logger.Debug("drag cancelled", zap.String("reason", reason))
}

func staleError(op string, target locator.VertexRef, cause error) error {
	msg := fmt.Sprintf("vertex %d is no longer valid", target.VertexIndex)
	return editerr.New(editerr.StaleReference, op, msg).
		WithFeature(string(target.FeatureID)).
		WithCause(cause)
}

func invalidGeometryError(op string, target locator.VertexRef, cause error) error {
	return editerr.New(editerr.InvalidGeometry, op, "edited geometry rejected").
		WithFeature(string(target.FeatureID)).
		WithCause(cause)
}

type discardSink struct{}

func (discardSink) ShowPreview(geometry.Geometry) {}
func (discardSink) ClearPreview()                 {}

type nopObserver struct{}

func (nopObserver) SessionStarted()         {}
func (nopObserver) SessionCommitted()       {}
func (nopObserver) SessionCancelled(string) {}
func (nopObserver) WriteFailed()            {}
