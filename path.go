package pathfinder

import "fmt"

// Route is a found path ordered from Start to End, with its total step cost.
type Route struct {
	Path   []Point
	Length int
}

// reconstructPath walks parent links back from End to Start. The length is
// summed from the coordinates of each step, not from the stored g-costs.
func reconstructPath(g *Grid) (Route, error) {
	current := g.End()
	path := []Point{current}
	length := 0

	for current != g.Start() {
		cell := g.at(current)
		if !cell.HasParent {
			return Route{}, fmt.Errorf("cell %v has no parent: %w", current, ErrReconstruction)
		}
		parent := cell.Parent
		if !current.Adjacent(parent) || !g.InBounds(parent) {
			return Route{}, fmt.Errorf("cell %v has parent %v out of reach: %w", current, parent, ErrReconstruction)
		}
		length += StepCost(current, parent)
		path = append(path, parent)
		if len(path) > len(g.cells) {
			return Route{}, fmt.Errorf("parent chain from %v does not reach start: %w", g.End(), ErrReconstruction)
		}
		current = parent
	}

	// reverse path
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return Route{Path: path, Length: length}, nil
}
