package pathfinder

import "fmt"

// Kind identifies the variant held by a Cell.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindWall
	KindStart
	KindEnd
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindWall:
		return "wall"
	case KindStart:
		return "start"
	case KindEnd:
		return "end"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Passable reports whether the search may step onto a cell of this kind.
func (k Kind) Passable() bool {
	return k != KindWall
}

// Cell is a single grid square. Only non-wall cells carry search
// bookkeeping; the cost fields of a Wall are always zero.
type Cell struct {
	Kind Kind

	G      int     // accumulated step cost from Start
	H      float64 // weighted heuristic estimate to End
	Parent Point   // valid only when HasParent is set

	HasParent bool
	Opened    bool
	Closed    bool
}

// F returns the priority of the cell, G + H.
func (c Cell) F() float64 {
	return float64(c.G) + c.H
}

// clearSearch drops everything a run wrote into the cell but keeps its kind.
func (c *Cell) clearSearch() {
	*c = Cell{Kind: c.Kind}
}

// open marks the cell as discovered, reached from parent with cost g.
func (c *Cell) open(parent Point, g int, h float64) {
	c.Parent, c.HasParent = parent, true
	c.G, c.H = g, h
	c.Opened, c.Closed = true, false
}

// reach records the parent and cost of a cell that is never queued.
func (c *Cell) reach(parent Point, g int) {
	c.Parent, c.HasParent = parent, true
	c.G = g
}

func (c *Cell) close() {
	c.Opened, c.Closed = false, true
}
