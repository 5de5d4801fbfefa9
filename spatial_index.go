package pathfinder

import (
	"sort"

	"github.com/dhconnelly/rtreego"
)

// wallInset keeps neighbouring wall rectangles from touching, so region
// queries never pick up a wall that only shares an edge with the region.
const wallInset = 0.1

// wallEntry wraps a wall cell for R-tree storage
type wallEntry struct {
	At   Point
	BBox rtreego.Rect
}

// Bounds implements rtreego.Spatial interface
func (w *wallEntry) Bounds() rtreego.Rect {
	return w.BBox
}

// WallIndex keeps every wall of a grid in an R-tree for region queries.
type WallIndex struct {
	tree    *rtreego.Rtree
	entries map[Point]*wallEntry
}

// NewWallIndex creates an empty wall index
func NewWallIndex() *WallIndex {
	return &WallIndex{
		tree:    rtreego.NewTree(2, 25, 50), // 2D, min 25, max 50 entries per node
		entries: make(map[Point]*wallEntry),
	}
}

// Add records a wall at p. Adding an already indexed wall is a no-op.
func (wi *WallIndex) Add(p Point) {
	if _, ok := wi.entries[p]; ok {
		return
	}
	bbox, err := rtreego.NewRect(
		rtreego.Point{float64(p.X) + wallInset, float64(p.Y) + wallInset},
		[]float64{1 - 2*wallInset, 1 - 2*wallInset},
	)
	if err != nil {
		return
	}
	entry := &wallEntry{At: p, BBox: bbox}
	wi.entries[p] = entry
	wi.tree.Insert(entry)
}

// Remove forgets the wall at p, if present.
func (wi *WallIndex) Remove(p Point) {
	entry, ok := wi.entries[p]
	if !ok {
		return
	}
	wi.tree.Delete(entry)
	delete(wi.entries, p)
}

// Len returns the number of indexed walls.
func (wi *WallIndex) Len() int {
	return len(wi.entries)
}

// Clear drops every wall from the index.
func (wi *WallIndex) Clear() {
	wi.tree = rtreego.NewTree(2, 25, 50)
	wi.entries = make(map[Point]*wallEntry)
}

// QueryRegion returns the walls inside the inclusive cell rectangle
// [lo, hi], sorted row-major.
func (wi *WallIndex) QueryRegion(lo, hi Point) []Point {
	if hi.X < lo.X || hi.Y < lo.Y {
		return []Point{}
	}
	bbox, err := rtreego.NewRect(
		rtreego.Point{float64(lo.X), float64(lo.Y)},
		[]float64{float64(hi.X - lo.X + 1), float64(hi.Y - lo.Y + 1)},
	)
	if err != nil {
		return []Point{}
	}

	results := wi.tree.SearchIntersect(bbox)
	walls := make([]Point, 0, len(results))
	for _, result := range results {
		if entry, ok := result.(*wallEntry); ok {
			walls = append(walls, entry.At)
		}
	}
	sortRowMajor(walls)
	return walls
}

func sortRowMajor(points []Point) {
	sort.Slice(points, func(i, j int) bool {
		if points[i].Y != points[j].Y {
			return points[i].Y < points[j].Y
		}
		return points[i].X < points[j].X
	})
}
