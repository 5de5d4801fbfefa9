package pathfinder

import (
	"fmt"
	"time"
)

// Snapshot is an immutable copy of the engine taken at one instant.
type Snapshot struct {
	Width  int
	Height int
	Cells  []Cell // row-major, Cells[y*Width+x]
	Start  Point
	End    Point

	Opened []Point
	Closed []Point
	Path   []Point

	PathLength int
	State      State
	Stats      Stats
}

// At returns the snapshot's cell at p. p must be inside the grid.
func (s Snapshot) At(p Point) Cell {
	return s.Cells[p.Y*s.Width+p.X]
}

// Width returns the number of grid columns.
func (e *Engine) Width() int { return e.grid.Width() }

// Height returns the number of grid rows.
func (e *Engine) Height() int { return e.grid.Height() }

// Cell returns a copy of the cell at p.
func (e *Engine) Cell(p Point) (Cell, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.grid.Get(p)
}

// SetCell turns the cell at p into an empty cell or a wall. Start and End
// are moved with SetStartCell and SetEndCell.
func (e *Engine) SetCell(p Point, k Kind) error {
	return e.mutate("set cell", func() error { return e.grid.Set(p, k) })
}

// StartCell returns the coordinate of Start.
func (e *Engine) StartCell() Point {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.grid.Start()
}

// SetStartCell moves Start onto the empty cell p.
func (e *Engine) SetStartCell(p Point) error {
	return e.mutate("set start", func() error { return e.grid.MoveStart(p) })
}

// EndCell returns the coordinate of End.
func (e *Engine) EndCell() Point {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.grid.End()
}

// SetEndCell moves End onto the empty cell p.
func (e *Engine) SetEndCell(p Point) error {
	return e.mutate("set end", func() error { return e.grid.MoveEnd(p) })
}

// ClearWalls turns every wall back into an empty cell.
func (e *Engine) ClearWalls() error {
	return e.mutate("clear walls", func() error {
		e.grid.ClearWalls()
		return nil
	})
}

// SetWeight changes the heuristic multiplier for the next run.
func (e *Engine) SetWeight(w int) error {
	if w < 0 {
		return fmt.Errorf("set weight %d: %w", w, ErrInvalidConfiguration)
	}
	return e.configure("set weight", func() { e.weight = w })
}

// Weight returns the heuristic multiplier.
func (e *Engine) Weight() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.weight
}

// SetDelay paces the next run by pausing d after every frontier selection.
// Zero disables pacing.
func (e *Engine) SetDelay(d time.Duration) error {
	if d < 0 {
		return fmt.Errorf("set delay %v: %w", d, ErrInvalidConfiguration)
	}
	return e.configure("set delay", func() { e.delay = d })
}

// SetStepFunc replaces the per-selection callback. nil removes it.
func (e *Engine) SetStepFunc(fn StepFunc) error {
	return e.configure("set step func", func() { e.stepFn = fn })
}

// SetEndPolicy changes when reaching End finishes the next run.
func (e *Engine) SetEndPolicy(policy EndPolicy) error {
	return e.configure("set end policy", func() { e.policy = policy })
}

// mutate applies a grid edit. Edits are refused while a run is in progress,
// and a successful edit after a finished run discards that run's artifacts.
func (e *Engine) mutate(op string, apply func() error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == StateRunning {
		return fmt.Errorf("%s: %w", op, ErrConcurrentRun)
	}
	if err := apply(); err != nil {
		return err
	}
	if e.state.Terminal() {
		e.resetLocked()
	}
	return nil
}

// configure applies a settings change. Settings take effect on the next run.
func (e *Engine) configure(op string, apply func()) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == StateRunning {
		return fmt.Errorf("%s: %w", op, ErrConcurrentRun)
	}
	apply()
	return nil
}

// OpenedCells returns the cells currently in the frontier, row-major.
func (e *Engine) OpenedCells() []Point {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.collectLocked(func(c Cell) bool { return c.Opened })
}

// ClosedCells returns the cells already expanded, row-major.
func (e *Engine) ClosedCells() []Point {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.collectLocked(func(c Cell) bool { return c.Closed })
}

func (e *Engine) collectLocked(keep func(Cell) bool) []Point {
	points := []Point{}
	for i, c := range e.grid.cells {
		if keep(c) {
			points = append(points, Point{X: i % e.grid.width, Y: i / e.grid.width})
		}
	}
	return points
}

// IsProcess reports whether a run is in progress.
func (e *Engine) IsProcess() bool {
	return e.State() == StateRunning
}

// IsPathFind reports whether the last run found a path.
func (e *Engine) IsPathFind() bool {
	return e.State() == StateFound
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// PathLength returns the total step cost of the found path, or 0.
func (e *Engine) PathLength() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.route.Length
}

// Path returns the found path from Start to End. It is empty unless the
// last run ended in StateFound.
func (e *Engine) Path() []Point {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]Point{}, e.route.Path...)
}

// Route returns the found path and its length, or ErrReconstruction when
// the engine is not in StateFound.
func (e *Engine) Route() (Route, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.state != StateFound {
		return Route{}, fmt.Errorf("route in state %s: %w", e.state, ErrReconstruction)
	}
	return Route{Path: append([]Point{}, e.route.Path...), Length: e.route.Length}, nil
}

// Stats returns the counters of the last run.
func (e *Engine) Stats() Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()

	stats := e.stats
	if e.state == StateRunning {
		stats.FrontierPeak = e.frontier.Peak()
	}
	return stats
}

// WallsIn returns the walls inside the inclusive rectangle [lo, hi].
func (e *Engine) WallsIn(lo, hi Point) []Point {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.grid.WallsIn(lo, hi)
}

// WallCount returns the number of walls on the grid.
func (e *Engine) WallCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.grid.WallCount()
}

// Snapshot copies the whole engine state for an observer.
func (e *Engine) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()

	stats := e.stats
	if e.state == StateRunning {
		stats.FrontierPeak = e.frontier.Peak()
	}
	return Snapshot{
		Width:      e.grid.Width(),
		Height:     e.grid.Height(),
		Cells:      e.grid.cloneCells(),
		Start:      e.grid.Start(),
		End:        e.grid.End(),
		Opened:     e.collectLocked(func(c Cell) bool { return c.Opened }),
		Closed:     e.collectLocked(func(c Cell) bool { return c.Closed }),
		Path:       append([]Point{}, e.route.Path...),
		PathLength: e.route.Length,
		State:      e.state,
		Stats:      stats,
	}
}
