package geometry

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithVertexMoved_LeavesOriginalUntouched(t *testing.T) {
	original := NewLineString(Pt(0, 0), Pt(10, 0))

	moved, ok := original.WithVertexMoved(0, Pt(3, 4))
	require.True(t, ok)

	if diff := cmp.Diff([]Point2D{{3, 4}, {10, 0}}, moved.Vertices()); diff != "" {
		t.Errorf("moved vertices mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]Point2D{{0, 0}, {10, 0}}, original.Vertices()); diff != "" {
		t.Errorf("original was modified (-want +got):\n%s", diff)
	}
}

func TestWithVertexMoved_OutOfRange(t *testing.T) {
	g := NewLineString(Pt(0, 0), Pt(1, 1))

	_, ok := g.WithVertexMoved(2, Pt(1, 1))
	assert.False(t, ok)
	_, ok = g.WithVertexMoved(-1, Pt(1, 1))
	assert.False(t, ok)
}

func TestWithVertexMoved_SinglePointTranslates(t *testing.T) {
	g := NewPoint(Pt(5, 5))

	moved, ok := g.WithVertexMoved(0, Pt(-2, 1))
	require.True(t, ok)

	v, _ := moved.VertexAt(0)
	assert.Equal(t, Pt(3, 6), v)
	assert.Equal(t, 1, moved.Len())
}

func TestVertexIndexFlattensAcrossParts(t *testing.T) {
	g := NewMultiPolygon(
		[][]Point2D{{{0, 0}, {4, 0}, {4, 4}, {0, 0}}},
		[][]Point2D{{{10, 10}, {12, 10}, {12, 12}, {10, 12}, {10, 10}}},
	)

	// Closing vertices are not addressable: 3 + 4
	assert.Equal(t, 7, g.Len())

	v, ok := g.VertexAt(3)
	require.True(t, ok)
	assert.Equal(t, Pt(10, 10), v)

	moved, ok := g.WithVertexMoved(6, Pt(1, 1))
	require.True(t, ok)
	v, _ = moved.VertexAt(6)
	assert.Equal(t, Pt(11, 13), v)
}

func TestToOrb_MovingFirstRingVertexMovesClosingVertex(t *testing.T) {
	g := NewPolygon([]Point2D{{0, 0}, {4, 0}, {4, 4}, {0, 4}, {0, 0}})

	moved, ok := g.WithVertexMoved(0, Pt(-1, -1))
	require.True(t, ok)

	poly, ok := moved.ToOrb().(orb.Polygon)
	require.True(t, ok)
	require.Len(t, poly, 1)

	ring := poly[0]
	require.Len(t, ring, 5)
	assert.Equal(t, orb.Point{-1, -1}, ring[0])
	assert.Equal(t, ring[0], ring[len(ring)-1])
}

func TestFromOrb_MultiPolygonKeepsStructure(t *testing.T) {
	src := orb.MultiPolygon{
		{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}},
		{
			{{5, 5}, {9, 5}, {9, 9}, {5, 9}, {5, 5}},
			{{6, 6}, {7, 6}, {7, 7}, {6, 6}},
		},
	}

	g, err := FromOrb(src)
	require.NoError(t, err)
	assert.Equal(t, KindMultiPolygon, g.Kind())
	assert.Equal(t, 3+4+3, g.Len())

	back, ok := g.ToOrb().(orb.MultiPolygon)
	require.True(t, ok)
	if diff := cmp.Diff(src, back); diff != "" {
		t.Errorf("multipolygon mismatch (-want +got):\n%s", diff)
	}
}

func TestFromOrb_RejectsCollections(t *testing.T) {
	_, err := FromOrb(orb.Collection{orb.Point{1, 2}})
	assert.Error(t, err)

	_, err = FromOrb(nil)
	assert.Error(t, err)
}

func TestBounds(t *testing.T) {
	g := NewLineString(Pt(3, -1), Pt(-2, 4), Pt(0, 0))

	b, ok := g.Bounds()
	require.True(t, ok)
	assert.Equal(t, Bound{Min: Pt(-2, -1), Max: Pt(3, 4)}, b)

	_, ok = Geometry{}.Bounds()
	assert.False(t, ok)

	// A hole dragged outside its shell still widens the box
	poly := NewPolygon(
		[]Point2D{{0, 0}, {10, 0}, {10, 10}, {0, 10}},
		[]Point2D{{2, 2}, {12, 2}, {2, 4}},
	)
	b, ok = poly.Bounds()
	require.True(t, ok)
	assert.Equal(t, Bound{Min: Pt(0, 0), Max: Pt(12, 10)}, b)
}

func TestBoundAround(t *testing.T) {
	b := BoundAround(Pt(5, -1), 2)
	assert.Equal(t, Bound{Min: Pt(3, -3), Max: Pt(7, 1)}, b)

	assert.Equal(t, Bound{Min: Pt(-1, -1), Max: Pt(5, 6)}, Bound{Min: Pt(0, 0), Max: Pt(4, 5)}.Expand(1))
}

func TestEqual(t *testing.T) {
	a := NewPolygon([]Point2D{{0, 0}, {1, 0}, {1, 1}})
	b := NewPolygon([]Point2D{{0, 0}, {1, 0}, {1, 1}, {0, 0}})

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(NewLineString(Pt(0, 0), Pt(1, 0), Pt(1, 1))))
}

func TestValidate(t *testing.T) {
	bowtie := NewPolygon([]Point2D{{0, 0}, {4, 4}, {4, 0}, {0, 4}})
	square := NewPolygon([]Point2D{{0, 0}, {4, 0}, {4, 4}, {0, 4}})

	tests := []struct {
		name    string
		g       Geometry
		opts    ValidateOptions
		wantErr error
	}{
		{"square", square, ValidateOptions{RejectSelfIntersections: true}, nil},
		{"bowtie allowed", bowtie, ValidateOptions{}, nil},
		{"bowtie rejected", bowtie, ValidateOptions{RejectSelfIntersections: true}, ErrSelfIntersection},
		{"crossing line", NewLineString(Pt(0, 0), Pt(4, 4), Pt(4, 0), Pt(0, 4)), ValidateOptions{RejectSelfIntersections: true}, ErrSelfIntersection},
		{"collapsed ring", NewPolygon([]Point2D{{0, 0}, {10, 0}, {0, 0}, {0, 10}}), ValidateOptions{RejectSelfIntersections: true}, ErrSelfIntersection},
		{"ring touching itself", NewPolygon([]Point2D{{0, 0}, {4, 0}, {2, 2}, {4, 4}, {0, 4}, {2, 2}}), ValidateOptions{RejectSelfIntersections: true}, ErrSelfIntersection},
		{"line folding back", NewLineString(Pt(0, 0), Pt(10, 0), Pt(5, 0)), ValidateOptions{RejectSelfIntersections: true}, ErrSelfIntersection},
		{"repeated vertex", NewLineString(Pt(0, 0), Pt(4, 0), Pt(4, 0), Pt(4, 4)), ValidateOptions{RejectSelfIntersections: true}, nil},
		{"collinear ring vertex", NewPolygon([]Point2D{{0, 0}, {2, 0}, {4, 0}, {4, 4}, {0, 4}}), ValidateOptions{RejectSelfIntersections: true}, nil},
		{"nan vertex", NewPoint(Pt(math.NaN(), 0)), ValidateOptions{}, ErrNonFinite},
		{"inf vertex", NewLineString(Pt(0, 0), Pt(math.Inf(1), 0)), ValidateOptions{}, ErrNonFinite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.g.Validate(tt.opts)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDoSegmentsIntersect(t *testing.T) {
	assert.True(t, DoSegmentsIntersect(
		LineSegment{P1: Pt(0, 0), P2: Pt(2, 2)},
		LineSegment{P1: Pt(0, 2), P2: Pt(2, 0)},
	))
	assert.False(t, DoSegmentsIntersect(
		LineSegment{P1: Pt(0, 0), P2: Pt(1, 0)},
		LineSegment{P1: Pt(0, 1), P2: Pt(1, 1)},
	))
	// Shared endpoint only
	assert.False(t, DoSegmentsIntersect(
		LineSegment{P1: Pt(0, 0), P2: Pt(1, 0)},
		LineSegment{P1: Pt(1, 0), P2: Pt(1, 1)},
	))
}
