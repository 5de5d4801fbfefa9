package pathfinder

import (
	"fmt"

	"github.com/paulmach/orb"
)

// Grid is a dense width x height field of cells holding exactly one Start
// and one End at all times.
type Grid struct {
	width  int
	height int
	bound  orb.Bound
	cells  []Cell

	start Point
	end   Point

	walls *WallIndex
}

// NewGrid creates an all-empty grid with Start and End placed at the given
// coordinates.
func NewGrid(width, height int, start, end Point) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("grid size %dx%d: %w", width, height, ErrInvalidConfiguration)
	}

	g := &Grid{
		width:  width,
		height: height,
		bound:  gridBound(width, height),
		cells:  make([]Cell, width*height),
		walls:  NewWallIndex(),
	}
	if !g.InBounds(start) {
		return nil, fmt.Errorf("start %v: %w", start, ErrOutOfBounds)
	}
	if !g.InBounds(end) {
		return nil, fmt.Errorf("end %v: %w", end, ErrOutOfBounds)
	}
	if start == end {
		return nil, fmt.Errorf("start and end both at %v: %w", start, ErrInvalidConfiguration)
	}

	g.start, g.end = start, end
	g.at(start).Kind = KindStart
	g.at(end).Kind = KindEnd
	return g, nil
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// Start returns the coordinate of the Start cell.
func (g *Grid) Start() Point { return g.start }

// End returns the coordinate of the End cell.
func (g *Grid) End() Point { return g.end }

// InBounds reports whether p lies inside [0,width) x [0,height).
func (g *Grid) InBounds(p Point) bool {
	return g.bound.Contains(p.centre())
}

// at returns the cell at p without bounds checking.
func (g *Grid) at(p Point) *Cell {
	return &g.cells[p.Y*g.width+p.X]
}

// Get returns a copy of the cell at p.
func (g *Grid) Get(p Point) (Cell, error) {
	if !g.InBounds(p) {
		return Cell{}, fmt.Errorf("get %v: %w", p, ErrOutOfBounds)
	}
	return *g.at(p), nil
}

// Set replaces the cell at p with a fresh cell of kind k. Start and End can
// only be relocated with MoveStart and MoveEnd; Set rejects anything that
// would duplicate or remove either of them.
func (g *Grid) Set(p Point, k Kind) error {
	if !g.InBounds(p) {
		return fmt.Errorf("set %v: %w", p, ErrOutOfBounds)
	}

	current := g.at(p).Kind
	switch {
	case current == k && (k == KindStart || k == KindEnd):
		return nil
	case k == KindStart || k == KindEnd:
		return fmt.Errorf("set %v to %s: second %s cell: %w", p, k, k, ErrInvariantViolation)
	case current == KindStart || current == KindEnd:
		return fmt.Errorf("set %v to %s: would remove the %s cell: %w", p, k, current, ErrInvariantViolation)
	case k != KindEmpty && k != KindWall:
		return fmt.Errorf("set %v: unknown %s: %w", p, k, ErrInvalidConfiguration)
	}

	*g.at(p) = Cell{Kind: k}
	if k == KindWall {
		g.walls.Add(p)
	} else {
		g.walls.Remove(p)
	}
	return nil
}

// MoveStart relocates Start onto the empty cell p, vacating the old Start.
func (g *Grid) MoveStart(p Point) error {
	if err := g.checkMoveTarget(p, g.start, KindStart); err != nil {
		return err
	}
	*g.at(g.start) = Cell{Kind: KindEmpty}
	*g.at(p) = Cell{Kind: KindStart}
	g.start = p
	return nil
}

// MoveEnd relocates End onto the empty cell p, vacating the old End.
func (g *Grid) MoveEnd(p Point) error {
	if err := g.checkMoveTarget(p, g.end, KindEnd); err != nil {
		return err
	}
	*g.at(g.end) = Cell{Kind: KindEmpty}
	*g.at(p) = Cell{Kind: KindEnd}
	g.end = p
	return nil
}

func (g *Grid) checkMoveTarget(p, current Point, k Kind) error {
	if !g.InBounds(p) {
		return fmt.Errorf("move %s to %v: %w", k, p, ErrOutOfBounds)
	}
	if p == current {
		return nil
	}
	if target := g.at(p).Kind; target != KindEmpty {
		return fmt.Errorf("move %s to %v: cell is %s: %w", k, p, target, ErrInvariantViolation)
	}
	return nil
}

// ResetSearch clears the bookkeeping of every non-wall cell, keeping
// Wall, Start and End placements.
func (g *Grid) ResetSearch() {
	for i := range g.cells {
		g.cells[i].clearSearch()
	}
}

// ClearWalls turns every wall back into an empty cell.
func (g *Grid) ClearWalls() {
	for _, p := range g.walls.QueryRegion(Point{}, Point{X: g.width - 1, Y: g.height - 1}) {
		*g.at(p) = Cell{Kind: KindEmpty}
	}
	g.walls.Clear()
}

// WallsIn returns the walls inside the inclusive rectangle [lo, hi],
// clipped to the grid.
func (g *Grid) WallsIn(lo, hi Point) []Point {
	lo = Point{X: max(lo.X, 0), Y: max(lo.Y, 0)}
	hi = Point{X: min(hi.X, g.width-1), Y: min(hi.Y, g.height-1)}
	return g.walls.QueryRegion(lo, hi)
}

// WallCount returns the number of walls on the grid.
func (g *Grid) WallCount() int {
	return g.walls.Len()
}

// isWall reports whether p is inside the grid and holds a wall.
func (g *Grid) isWall(p Point) bool {
	return g.InBounds(p) && g.at(p).Kind == KindWall
}

// cloneCells returns a copy of the cells for snapshots.
func (g *Grid) cloneCells() []Cell {
	cells := make([]Cell, len(g.cells))
	copy(cells, g.cells)
	return cells
}
