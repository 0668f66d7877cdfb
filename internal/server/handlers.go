package server

import (
	"encoding/json"
	"net/http"

	"github.com/paulmach/orb/geojson"
	"go.uber.org/zap"

	"vertexdrag/internal/editerr"
	"vertexdrag/internal/geometry"
	"vertexdrag/internal/locator"
	"vertexdrag/internal/tool"
)

type pointerRequest struct {
	X *float64 `json:"x" validate:"required"`
	Y *float64 `json:"y" validate:"required"`
}

func (p pointerRequest) point() tool.ScreenPoint {
	return tool.ScreenPoint{X: *p.X, Y: *p.Y}
}

type viewportRequest struct {
	OriginX       *float64 `json:"originX" validate:"required"`
	OriginY       *float64 `json:"originY" validate:"required"`
	UnitsPerPixel float64  `json:"unitsPerPixel" validate:"gt=0"`
}

type pressResponse struct {
	Active  bool               `json:"active"`
	Hit     bool               `json:"hit"`
	Vertex  *locator.VertexRef `json:"vertex"`
	Preview *geojson.Geometry  `json:"preview"`
}

type moveResponse struct {
	Dragging bool              `json:"dragging"`
	Preview  *geojson.Geometry `json:"preview"`
}

type releaseResponse struct {
	Committed bool              `json:"committed"`
	Geometry  *geojson.Geometry `json:"geometry"`
	Saved     bool              `json:"saved"`
}

// GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	active := s.tool.Active()
	dragging := s.tool.Dragging()
	s.mu.Unlock()

	status := "ready"
	if !active {
		status = "inactive"
	}

	resp := map[string]interface{}{
		"status":   status,
		"active":   active,
		"dragging": dragging,
		"features": 0,
	}
	if s.layer != nil {
		resp["layer"] = s.layer.Name()
		resp["features"] = s.layer.Len()
	}
	writeJSON(w, http.StatusOK, resp)
}

// POST /tool/activate
func (s *Server) handleActivate(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.tool.Activate(); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"active":    true,
		"tolerance": s.tool.Tolerance(),
	})
}

// POST /tool/deactivate
func (s *Server) handleDeactivate(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tool.Deactivate()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"active":  false,
	})
}

// PUT /viewport
func (s *Server) handleViewport(w http.ResponseWriter, r *http.Request) {
	var req viewportRequest
	if !s.decode(w, r, &req) {
		return
	}

	vp, err := tool.NewViewport(geometry.Pt(*req.OriginX, *req.OriginY), req.UnitsPerPixel)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	s.mu.Lock()
	s.viewport = vp
	tolerance := s.tool.Tolerance()
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"viewport":  vp,
		"tolerance": tolerance,
	})
}

// POST /pointer/press
func (s *Server) handlePress(w http.ResponseWriter, r *http.Request) {
	var req pointerRequest
	if !s.decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ref, hit, err := s.tool.OnPress(req.point())
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := pressResponse{Active: s.tool.Active(), Hit: hit}
	if hit {
		resp.Vertex = &ref
		resp.Preview = toGeoJSON(s.preview)
	}
	writeJSON(w, http.StatusOK, resp)
}

// POST /pointer/move
func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req pointerRequest
	if !s.decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	preview, ok, err := s.tool.OnMove(req.point())
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := moveResponse{Dragging: ok}
	if ok {
		resp.Preview = toGeoJSON(preview)
	}
	writeJSON(w, http.StatusOK, resp)
}

// POST /pointer/release
func (s *Server) handleRelease(w http.ResponseWriter, r *http.Request) {
	var req pointerRequest
	if !s.decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	committed, ok, err := s.tool.OnRelease(req.point())
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := releaseResponse{Committed: ok}
	if ok {
		resp.Geometry = toGeoJSON(committed)
		resp.Saved = s.autosave()
	}
	writeJSON(w, http.StatusOK, resp)
}

// GET /preview
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	var preview *geojson.Geometry
	if s.previewVisible {
		preview = toGeoJSON(s.preview)
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"preview": preview,
		"style":   s.cfg.Style,
	})
}

// GET /features
func (s *Server) handleFeatures(w http.ResponseWriter, r *http.Request) {
	if s.layer == nil {
		writeJSON(w, http.StatusOK, geojson.NewFeatureCollection())
		return
	}
	writeJSON(w, http.StatusOK, s.layer.FeatureCollection())
}

// decode parses and validates a JSON body, answering 400 on failure
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeBadRequest(w, "invalid request body")
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		writeBadRequest(w, err.Error())
		return false
	}
	return true
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := editerr.StatusCode(err)
	kind, _ := editerr.KindOf(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("kind", string(kind)), zap.Error(err))
	} else {
		s.logger.Warn("request rejected", zap.String("kind", string(kind)), zap.Error(err))
	}

	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   kind,
		"message": err.Error(),
	})
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, map[string]interface{}{
		"success": false,
		"error":   "bad_request",
		"message": message,
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func toGeoJSON(g geometry.Geometry) *geojson.Geometry {
	if g.IsEmpty() {
		return nil
	}
	return geojson.NewGeometry(g.ToOrb())
}
