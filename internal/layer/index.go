package layer

import (
	"math"
	"sort"

	"github.com/dhconnelly/rtreego"

	"vertexdrag/internal/geometry"
)

// boundsPadding keeps zero-width bounds (points, axis-aligned lines) valid
// rtreego rectangles and makes touching bounds intersect
const boundsPadding = 1e-9

// indexEntry wraps a feature's bounding box for R-tree storage
type indexEntry struct {
	ID   FeatureID
	BBox rtreego.Rect
}

// Bounds implements rtreego.Spatial interface
func (e *indexEntry) Bounds() rtreego.Rect {
	return e.BBox
}

// featureIndex manages feature bounding-box queries
type featureIndex struct {
	tree    *rtreego.Rtree
	entries map[FeatureID]*indexEntry
}

// newFeatureIndex creates an empty index
func newFeatureIndex() *featureIndex {
	return &featureIndex{
		tree:    rtreego.NewTree(2, 25, 50), // 2D, min 25, max 50 entries per node
		entries: make(map[FeatureID]*indexEntry),
	}
}

// put inserts or replaces the bounds stored for a feature
func (fi *featureIndex) put(id FeatureID, g geometry.Geometry) {
	fi.remove(id)

	bound, ok := g.Bounds()
	if !ok {
		return
	}
	rect, err := toRect(bound)
	if err != nil {
		return
	}

	entry := &indexEntry{ID: id, BBox: rect}
	fi.tree.Insert(entry)
	fi.entries[id] = entry
}

// remove drops a feature from the index
func (fi *featureIndex) remove(id FeatureID) {
	if entry, ok := fi.entries[id]; ok {
		fi.tree.Delete(entry)
		delete(fi.entries, id)
	}
}

// search returns ids of features whose bounds intersect the region, sorted
func (fi *featureIndex) search(region geometry.Bound) []FeatureID {
	rect, err := toRect(region)
	if err != nil {
		return []FeatureID{}
	}

	results := fi.tree.SearchIntersect(rect)
	ids := make([]FeatureID, 0, len(results))
	for _, item := range results {
		ids = append(ids, item.(*indexEntry).ID)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// toRect converts a bound to an rtreego rectangle, padded so that every
// side has positive length
func toRect(b geometry.Bound) (rtreego.Rect, error) {
	padX := boundsPadding * (1 + math.Max(math.Abs(b.Min.X), math.Abs(b.Max.X)))
	padY := boundsPadding * (1 + math.Max(math.Abs(b.Min.Y), math.Abs(b.Max.Y)))

	return rtreego.NewRect(
		rtreego.Point{b.Min.X - padX, b.Min.Y - padY},
		[]float64{b.Max.X - b.Min.X + 2*padX, b.Max.Y - b.Min.Y + 2*padY},
	)
}
