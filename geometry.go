package pathfinder

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Step costs are fixed-point approximations of 1 and sqrt(2) scaled by 10.
const (
	DirectCost   = 10
	DiagonalCost = 14
)

// Point is a cell coordinate on the grid
type Point struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Add returns p translated by the offset o.
func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}

// centre returns the centre of the cell in planar coordinates.
func (p Point) centre() orb.Point {
	return orb.Point{float64(p.X) + 0.5, float64(p.Y) + 0.5}
}

// Distance calculates Euclidean distance between two cells
func (p Point) Distance(other Point) float64 {
	return planar.Distance(p.centre(), other.centre())
}

// Adjacent reports whether other is one of the 8 neighbours of p.
func (p Point) Adjacent(other Point) bool {
	dx, dy := abs(p.X-other.X), abs(p.Y-other.Y)
	return dx <= 1 && dy <= 1 && dx+dy > 0
}

// StepCost returns the cost of moving between two adjacent cells. The move
// is straight when the cells share a row or column.
func StepCost(from, to Point) int {
	if from.X == to.X || from.Y == to.Y {
		return DirectCost
	}
	return DiagonalCost
}

// Offsets in expansion order: direct moves first, then diagonals.
var (
	directOffsets   = [4]Point{{0, -1}, {-1, 0}, {1, 0}, {0, 1}}
	diagonalOffsets = [4]Point{{-1, -1}, {1, -1}, {-1, 1}, {1, 1}}
)

// gridBound returns the planar extent covered by a width x height grid.
func gridBound(width, height int) orb.Bound {
	return orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{float64(width), float64(height)}}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
