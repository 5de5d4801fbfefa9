package pathfinder

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// State is the position of the engine in its run lifecycle.
type State uint8

const (
	StateIdle State = iota
	StateRunning
	StateFound
	StateExhausted
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateFound:
		return "found"
	case StateExhausted:
		return "exhausted"
	case StateCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// Terminal reports whether s ends a run.
func (s State) Terminal() bool {
	return s == StateFound || s == StateExhausted || s == StateCancelled
}

// Stats counts the work done by the last run.
type Stats struct {
	Expanded     int // cells selected from the frontier
	Relaxed      int // cheaper parents found for already opened cells
	FrontierPeak int
}

// Engine runs weighted A* over a Grid with 8-directional movement. All grid
// access goes through a single mutex, so observers may query the engine
// from other goroutines while Start runs.
type Engine struct {
	mu sync.RWMutex

	grid     *Grid
	frontier *Frontier

	weight int
	policy EndPolicy
	stepFn StepFunc
	delay  time.Duration
	logger *slog.Logger

	state State
	route Route
	stats Stats
}

// New creates an engine over an empty width x height grid. weight scales
// the Euclidean heuristic: 0 is uniform-cost search, 1 is plain A*.
func New(width, height, weight int, options ...Option) (*Engine, error) {
	if weight < 0 {
		return nil, fmt.Errorf("weight %d: %w", weight, ErrInvalidConfiguration)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("grid size %dx%d: %w", width, height, ErrInvalidConfiguration)
	}

	engineOptions := defaultOptions(width, height)
	for _, option := range options {
		option(&engineOptions)
	}
	if engineOptions.Logger == nil {
		engineOptions.Logger = defaultOptions(width, height).Logger
	}
	if engineOptions.Delay < 0 {
		return nil, fmt.Errorf("delay %v: %w", engineOptions.Delay, ErrInvalidConfiguration)
	}

	grid, err := NewGrid(width, height, *engineOptions.Start, *engineOptions.End)
	if err != nil {
		return nil, err
	}

	return &Engine{
		grid:     grid,
		frontier: NewFrontier(),
		weight:   weight,
		policy:   engineOptions.EndPolicy,
		stepFn:   engineOptions.StepFunc,
		delay:    engineOptions.Delay,
		logger:   engineOptions.Logger,
	}, nil
}

// Start runs the search to completion on the calling goroutine and returns
// the terminal state. A previous run's artifacts are discarded first.
// Cancelling ctx stops the run at the next selection with StateCancelled
// and the context error. Exhausted is a normal outcome, not an error.
func (e *Engine) Start(ctx context.Context) (State, error) {
	e.mu.Lock()
	if e.state == StateRunning {
		e.mu.Unlock()
		return StateRunning, fmt.Errorf("start: %w", ErrConcurrentRun)
	}
	e.resetLocked()
	e.state = StateRunning
	e.seedLocked()
	stepFn, delay := e.stepFn, e.delay
	e.logger.Info("search started",
		"width", e.grid.Width(), "height", e.grid.Height(),
		"weight", e.weight, "start", e.grid.Start(), "end", e.grid.End(),
		"policy", e.policy, "walls", e.grid.WallCount())
	e.mu.Unlock()

	for index := 1; ; index++ {
		if err := ctx.Err(); err != nil {
			e.finish(StateCancelled)
			return StateCancelled, err
		}

		e.mu.Lock()
		current, state, selected := e.expandNextLocked()
		if state == StateFound {
			if err := e.completeLocked(); err != nil {
				e.mu.Unlock()
				e.finish(StateExhausted)
				return StateExhausted, err
			}
		}
		frontierLen := e.frontier.Len()
		e.mu.Unlock()

		if selected && stepFn != nil {
			stepFn(Step{Index: index, Current: current, Frontier: frontierLen, State: state})
		}
		if state != StateRunning {
			e.finish(state)
			return state, nil
		}
		if delay > 0 {
			wait(ctx, delay)
		}
	}
}

// seedLocked opens Start with g = 0.
func (e *Engine) seedLocked() {
	start := e.grid.Start()
	cell := e.grid.at(start)
	cell.G, cell.H = 0, e.heuristic(start)
	cell.Opened, cell.Closed = true, false
	e.frontier.Insert(start, cell.F())
}

// expandNextLocked selects the best frontier cell, closes it and relaxes
// its neighbours. It returns the selected cell, the state after the
// expansion and whether a cell was selected at all.
func (e *Engine) expandNextLocked() (Point, State, bool) {
	currentPoint, ok := e.frontier.SelectMinimum()
	if !ok {
		return Point{}, StateExhausted, false
	}
	current := e.grid.at(currentPoint)
	current.close()
	e.stats.Expanded++

	end := e.grid.End()
	if e.policy == FinishOnExpansion && currentPoint == end {
		return currentPoint, StateFound, true
	}

	e.logger.Debug("expanding cell", "cell", currentPoint, "g", current.G, "f", current.F())

	for _, edge := range e.grid.Neighbors(currentPoint) {
		neighbor := e.grid.at(edge.To)
		tentativeG := current.G + edge.Cost

		if e.policy == FinishOnDiscovery && edge.To == end {
			neighbor.reach(currentPoint, tentativeG)
			return currentPoint, StateFound, true
		}

		if !neighbor.Opened {
			neighbor.open(currentPoint, tentativeG, e.heuristic(edge.To))
			e.frontier.Insert(edge.To, neighbor.F())
		} else if tentativeG < neighbor.G {
			// Found a better path to this neighbor
			neighbor.Parent = currentPoint
			neighbor.G = tentativeG
			e.frontier.Update(edge.To, neighbor.F())
			e.stats.Relaxed++
		}
	}

	if e.frontier.IsEmpty() {
		return currentPoint, StateExhausted, true
	}
	return currentPoint, StateRunning, true
}

// completeLocked rebuilds the route once End has been reached.
func (e *Engine) completeLocked() error {
	route, err := reconstructPath(e.grid)
	if err != nil {
		e.logger.Error("path reconstruction failed", "error", err)
		return err
	}
	e.route = route
	return nil
}

func (e *Engine) finish(state State) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.state = state
	e.stats.FrontierPeak = e.frontier.Peak()
	e.logger.Info("search finished",
		"state", state,
		"path_length", e.route.Length,
		"path_cells", len(e.route.Path),
		"expanded", e.stats.Expanded,
		"relaxed", e.stats.Relaxed,
		"frontier_peak", e.stats.FrontierPeak)
}

// heuristic is the weighted Euclidean distance from p to End.
func (e *Engine) heuristic(p Point) float64 {
	return float64(e.weight) * p.Distance(e.grid.End())
}

// wait pauses for d or until ctx is done.
func wait(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// Reset discards everything the last run produced and returns to Idle.
// Wall, Start and End placements are kept.
func (e *Engine) Reset() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == StateRunning {
		return fmt.Errorf("reset: %w", ErrConcurrentRun)
	}
	e.resetLocked()
	return nil
}

func (e *Engine) resetLocked() {
	e.grid.ResetSearch()
	e.frontier.Clear()
	e.route = Route{}
	e.stats = Stats{}
	e.state = StateIdle
}
