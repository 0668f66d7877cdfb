package layer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"vertexdrag/internal/editerr"
	"vertexdrag/internal/geometry"
)

func newTestLayer(t *testing.T) *MemoryLayer {
	t.Helper()
	l := NewMemoryLayer("roads")
	require.NoError(t, l.Add("a", geometry.NewLineString(geometry.Pt(0, 0), geometry.Pt(10, 0)), nil))
	require.NoError(t, l.Add("b", geometry.NewPoint(geometry.Pt(100, 100)), nil))
	require.NoError(t, l.Add("c", geometry.NewPolygon([]geometry.Point2D{{X: 50, Y: 50}, {X: 60, Y: 50}, {X: 60, Y: 60}}), nil))
	return l
}

func TestMemoryLayer_ReadWrite(t *testing.T) {
	l := newTestLayer(t)

	g, err := l.ReadGeometry("a")
	require.NoError(t, err)
	assert.Equal(t, 2, g.Len())

	moved := geometry.NewLineString(geometry.Pt(3, 4), geometry.Pt(10, 0))
	require.NoError(t, l.WriteGeometry("a", moved))

	g, err = l.ReadGeometry("a")
	require.NoError(t, err)
	assert.True(t, g.Equal(moved))
}

func TestMemoryLayer_ReadMissing(t *testing.T) {
	l := newTestLayer(t)

	_, err := l.ReadGeometry("missing")
	assert.ErrorIs(t, err, editerr.ErrFeatureNotFound)
	assert.False(t, l.HasFeature("missing"))
}

func TestMemoryLayer_ReadOnlyRejectsWrites(t *testing.T) {
	l := newTestLayer(t)
	l.SetReadOnly(true)

	before, _ := l.ReadGeometry("a")
	err := l.WriteGeometry("a", geometry.NewLineString(geometry.Pt(1, 1), geometry.Pt(2, 2)))
	assert.ErrorIs(t, err, editerr.ErrWrite)

	after, _ := l.ReadGeometry("a")
	assert.True(t, before.Equal(after))
}

func TestMemoryLayer_DuplicateAdd(t *testing.T) {
	l := newTestLayer(t)
	assert.Error(t, l.Add("a", geometry.NewPoint(geometry.Pt(0, 0)), nil))
}

func TestMemoryLayer_FeatureIDsSorted(t *testing.T) {
	l := newTestLayer(t)
	assert.Equal(t, []FeatureID{"a", "b", "c"}, l.FeatureIDs())

	assert.True(t, l.Delete("b"))
	assert.False(t, l.Delete("b"))
	assert.Equal(t, []FeatureID{"a", "c"}, l.FeatureIDs())
}

func TestFeaturesIn(t *testing.T) {
	l := newTestLayer(t)

	// A horizontal line has a zero-height bbox; padding keeps it searchable
	ids := l.FeaturesIn(geometry.BoundAround(geometry.Pt(5, 0), 1))
	assert.Equal(t, []FeatureID{"a"}, ids)

	ids = l.FeaturesIn(geometry.BoundAround(geometry.Pt(100, 100), 0.5))
	assert.Equal(t, []FeatureID{"b"}, ids)

	ids = l.FeaturesIn(geometry.Bound{Min: geometry.Pt(-10, -10), Max: geometry.Pt(70, 70)})
	assert.Equal(t, []FeatureID{"a", "c"}, ids)

	assert.Empty(t, l.FeaturesIn(geometry.BoundAround(geometry.Pt(500, 500), 1)))
}

func TestFeaturesIn_FollowsWrites(t *testing.T) {
	l := newTestLayer(t)

	require.NoError(t, l.WriteGeometry("b", geometry.NewPoint(geometry.Pt(-50, -50))))

	assert.Empty(t, l.FeaturesIn(geometry.BoundAround(geometry.Pt(100, 100), 1)))
	assert.Equal(t, []FeatureID{"b"}, l.FeaturesIn(geometry.BoundAround(geometry.Pt(-50, -50), 1)))
}

const sampleCollection = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "id": 7, "properties": {"name": "river"},
     "geometry": {"type": "LineString", "coordinates": [[0, 0], [10, 0]]}},
    {"type": "Feature", "properties": {"name": "lake"},
     "geometry": {"type": "Polygon", "coordinates": [[[0, 0], [4, 0], [4, 4], [0, 0]]]}},
    {"type": "Feature", "id": "x", "properties": {},
     "geometry": {"type": "GeometryCollection", "geometries": []}}
  ]
}`

func TestParseGeoJSON(t *testing.T) {
	l, err := ParseGeoJSON("water", []byte(sampleCollection), zap.NewNop())
	require.NoError(t, err)

	// The collection feature is skipped
	assert.Equal(t, 2, l.Len())
	assert.True(t, l.HasFeature("7"))

	var generated FeatureID
	for _, id := range l.FeatureIDs() {
		if id != "7" {
			generated = id
		}
	}
	require.NotEmpty(t, generated)

	g, err := l.ReadGeometry(generated)
	require.NoError(t, err)
	assert.Equal(t, geometry.KindPolygon, g.Kind())
	assert.Equal(t, 3, g.Len())
}

func TestSaveGeoJSON_PreservesIDsAndProperties(t *testing.T) {
	l, err := ParseGeoJSON("water", []byte(sampleCollection), nil)
	require.NoError(t, err)
	require.NoError(t, l.WriteGeometry("7", geometry.NewLineString(geometry.Pt(3, 4), geometry.Pt(10, 0))))

	path := filepath.Join(t.TempDir(), "water.geojson")
	require.NoError(t, l.SaveGeoJSON(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	fc, err := geojson.UnmarshalFeatureCollection(data)
	require.NoError(t, err)
	require.Len(t, fc.Features, 2)

	var river *geojson.Feature
	for _, f := range fc.Features {
		if f.Properties["name"] == "river" {
			river = f
		}
	}
	require.NotNil(t, river)
	assert.Equal(t, "7", featureIDString(river.ID))
	assert.Equal(t, orb.LineString{{3, 4}, {10, 0}}, river.Geometry)

	reloaded, err := LoadGeoJSON(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "water", reloaded.Name())
	assert.Equal(t, 2, reloaded.Len())
}

func featureIDString(raw interface{}) string {
	return string(featureID(raw))
}
