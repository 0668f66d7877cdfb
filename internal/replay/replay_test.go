package replay

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vertexdrag/internal/editerr"
	"vertexdrag/internal/geometry"
	"vertexdrag/internal/layer"
	"vertexdrag/internal/locator"
)

const roads = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "id": "line", "properties": {"name": "main"},
     "geometry": {"type": "LineString", "coordinates": [[0, 0], [10, 0]]}}
  ]
}`

func writeFixture(t *testing.T, script string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "roads.geojson"), []byte(roads), 0o644))
	path := filepath.Join(dir, "drag.yaml")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o644))
	return path
}

func TestRunDragScript(t *testing.T) {
	path := writeFixture(t, `
layer: roads.geojson
output: edited.geojson
viewport:
  origin_x: 0
  origin_y: 0
  units_per_pixel: 1
events:
  - type: activate
  - {type: press, x: 0.1, y: -0.1}
  - {type: move, x: 1.1, y: -1.1}
  - {type: move, x: 3.1, y: -4.1}
  - {type: release, x: 3.1, y: -4.1}
  - {type: press, x: 50, y: -50}
  - type: deactivate
`)

	s, err := LoadScript(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "edited.geojson"), s.Output)

	res, err := NewRunner(Options{}).Run(context.Background(), s)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Commits)
	assert.Equal(t, 0, res.Failures)
	assert.Equal(t, 3, res.Previews)
	require.Len(t, res.Steps, 7)
	assert.True(t, res.Steps[1].Hit)
	assert.Equal(t, locator.VertexRef{FeatureID: "line", VertexIndex: 0}, res.Steps[1].Vertex)
	assert.True(t, res.Steps[3].Dragging)
	assert.False(t, res.Steps[4].Dragging)
	assert.False(t, res.Steps[5].Hit)

	edited, err := layer.LoadGeoJSON(s.Output, nil)
	require.NoError(t, err)
	g, err := edited.ReadGeometry("line")
	require.NoError(t, err)
	v, _ := g.VertexAt(0)
	assert.InDelta(t, 3, v.X, 1e-9)
	assert.InDelta(t, 4, v.Y, 1e-9)
	v, _ = g.VertexAt(1)
	assert.Equal(t, geometry.Pt(10, 0), v)
}

func TestRunReadOnlyRecordsWriteError(t *testing.T) {
	path := writeFixture(t, `
layer: roads.geojson
read_only: true
events:
  - type: activate
  - {type: press, x: 10, y: 0}
  - {type: release, x: 12, y: 0}
`)

	s, err := LoadScript(path)
	require.NoError(t, err)

	res, err := NewRunner(Options{}).Run(context.Background(), s)
	require.NoError(t, err)

	assert.Equal(t, 0, res.Commits)
	assert.Equal(t, 1, res.Failures)
	assert.ErrorIs(t, res.Steps[2].Err, editerr.ErrWrite)
	assert.False(t, res.Steps[2].Committed)
	assert.False(t, res.Steps[2].Dragging)

	g, err := res.Layer.ReadGeometry("line")
	require.NoError(t, err)
	v, _ := g.VertexAt(1)
	assert.Equal(t, geometry.Pt(10, 0), v)
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	path := writeFixture(t, `
layer: roads.geojson
events:
  - type: activate
`)
	s, err := LoadScript(path)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := NewRunner(Options{}).Run(ctx, s)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, res.Steps)
}

func TestParseScriptErrors(t *testing.T) {
	tests := []struct {
		name   string
		script string
	}{
		{"empty", ``},
		{"no layer", `events: [{type: activate}]`},
		{"unknown event", "layer: a.geojson\nevents: [{type: hover}]"},
		{"unknown key", "layer: a.geojson\nspeed: 3"},
		{"negative scale", "layer: a.geojson\nviewport: {units_per_pixel: -1}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScript([]byte(tt.script))
			assert.Error(t, err)
		})
	}
}

func TestParseScriptDefaultsScale(t *testing.T) {
	s, err := ParseScript([]byte("layer: a.geojson\n"))
	require.NoError(t, err)
	assert.Equal(t, 1.0, s.Viewport.UnitsPerPixel)
	assert.Empty(t, s.Events)
}
