package pathfinder

// Edge represents a legal move out of a cell
type Edge struct {
	To   Point
	Cost int // DirectCost or DiagonalCost
}

// Neighbors returns the moves the search may take from p: in bounds, not a
// wall, not closed, and for diagonals not cutting the corner of a wall on
// either flank. Direct moves come first.
func (g *Grid) Neighbors(p Point) []Edge {
	edges := make([]Edge, 0, 8)
	for _, offset := range directOffsets {
		if to := p.Add(offset); g.enterable(to) {
			edges = append(edges, Edge{To: to, Cost: DirectCost})
		}
	}
	for _, offset := range diagonalOffsets {
		to := p.Add(offset)
		if !g.enterable(to) || g.cutsCorner(p, to) {
			continue
		}
		edges = append(edges, Edge{To: to, Cost: DiagonalCost})
	}
	return edges
}

func (g *Grid) enterable(p Point) bool {
	if !g.InBounds(p) {
		return false
	}
	c := g.at(p)
	return c.Kind.Passable() && !c.Closed
}

// cutsCorner reports whether the diagonal move from -> to passes a wall on
// one of the two orthogonal cells between them.
func (g *Grid) cutsCorner(from, to Point) bool {
	return g.isWall(Point{X: to.X, Y: from.Y}) || g.isWall(Point{X: from.X, Y: to.Y})
}
