package pathfinder

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, width, height, weight int, options ...Option) *Engine {
	t.Helper()
	engine, err := New(width, height, weight, options...)
	require.NoError(t, err)
	return engine
}

func addWalls(t *testing.T, engine *Engine, walls ...Point) {
	t.Helper()
	for _, p := range walls {
		require.NoError(t, engine.SetCell(p, KindWall))
	}
}

// assertValidPath checks the endpoints, adjacency, corner rule and length of
// the engine's current path.
func assertValidPath(t *testing.T, engine *Engine) {
	t.Helper()
	path := engine.Path()
	require.NotEmpty(t, path)
	assert.Equal(t, engine.StartCell(), path[0])
	assert.Equal(t, engine.EndCell(), path[len(path)-1])

	length := 0
	for i := 1; i < len(path); i++ {
		from, to := path[i-1], path[i]
		require.True(t, from.Adjacent(to), "step %v -> %v is not a grid move", from, to)
		to1, err := engine.Cell(Pt(to.X, from.Y))
		require.NoError(t, err)
		to2, err := engine.Cell(Pt(from.X, to.Y))
		require.NoError(t, err)
		assert.False(t, to1.Kind == KindWall || to2.Kind == KindWall, "step %v -> %v cuts a wall corner", from, to)
		length += StepCost(from, to)
	}
	assert.Equal(t, length, engine.PathLength())
}

func TestNew_Defaults(t *testing.T) {
	engine := newTestEngine(t, 70, 50, 1)

	assert.Equal(t, Pt(1, 25), engine.StartCell())
	assert.Equal(t, Pt(68, 25), engine.EndCell())
	assert.Equal(t, 70, engine.Width())
	assert.Equal(t, 50, engine.Height())
	assert.Equal(t, 1, engine.Weight())
	assert.Equal(t, StateIdle, engine.State())
	assert.False(t, engine.IsProcess())
	assert.False(t, engine.IsPathFind())
}

func TestNew_InvalidConfiguration(t *testing.T) {
	_, err := New(0, 10, 1)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	_, err = New(10, 10, -1)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	_, err = New(1, 1, 1)
	assert.ErrorIs(t, err, ErrInvalidConfiguration, "default start and end coincide")

	_, err = New(5, 5, 1, WithStart(Pt(2, 2)), WithEnd(Pt(2, 2)))
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	_, err = New(5, 5, 1, WithEnd(Pt(7, 2)))
	assert.ErrorIs(t, err, ErrOutOfBounds)

	_, err = New(5, 5, 1, WithDelay(-time.Second))
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestStart_StraightLine(t *testing.T) {
	engine := newTestEngine(t, 5, 1, 1, WithStart(Pt(0, 0)), WithEnd(Pt(4, 0)))

	state, err := engine.Start(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StateFound, state)
	assert.True(t, engine.IsPathFind())
	assert.False(t, engine.IsProcess())
	assert.Equal(t, 40, engine.PathLength())
	if diff := cmp.Diff([]Point{{0, 0}, {1, 0}, {2, 0}, {3, 0}, {4, 0}}, engine.Path()); diff != "" {
		t.Errorf("path mismatch (-want +got):\n%s", diff)
	}

	route, err := engine.Route()
	require.NoError(t, err)
	assert.Equal(t, 40, route.Length)
	assert.Len(t, route.Path, 5)
}

func TestStart_StraightLineFinishOnDiscovery(t *testing.T) {
	engine := newTestEngine(t, 5, 1, 1, WithStart(Pt(0, 0)), WithEnd(Pt(4, 0)), WithEndPolicy(FinishOnDiscovery))

	var steps []Step
	require.NoError(t, engine.SetStepFunc(func(s Step) { steps = append(steps, s) }))

	state, err := engine.Start(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StateFound, state)
	assert.Equal(t, 40, engine.PathLength())
	assert.Len(t, engine.Path(), 5)
	require.Len(t, steps, 4, "End is never selected under FinishOnDiscovery")
	assert.Equal(t, Pt(3, 0), steps[3].Current)
	assert.Equal(t, StateFound, steps[3].State)

	assert.Empty(t, engine.OpenedCells(), "End is reached but never queued")
	end, err := engine.Cell(engine.EndCell())
	require.NoError(t, err)
	assert.False(t, end.Opened)
	assert.False(t, end.Closed)
	assert.True(t, end.HasParent)
	assert.Equal(t, Pt(3, 0), end.Parent)
	assert.Equal(t, 40, end.G)
}

func TestStart_CornerRuleSealsStart(t *testing.T) {
	engine := newTestEngine(t, 3, 3, 1, WithStart(Pt(0, 0)), WithEnd(Pt(2, 2)))
	addWalls(t, engine, Pt(1, 0), Pt(0, 1))

	state, err := engine.Start(context.Background())
	require.NoError(t, err)

	// The only remaining move, (0,0) -> (1,1), clips both walls.
	assert.Equal(t, StateExhausted, state)
	assert.Equal(t, []Point{{0, 0}}, engine.ClosedCells())
	assert.Empty(t, engine.OpenedCells())
}

func TestStart_CornerRuleForcesDetour(t *testing.T) {
	engine := newTestEngine(t, 3, 3, 1, WithStart(Pt(0, 0)), WithEnd(Pt(2, 2)))
	addWalls(t, engine, Pt(1, 0))

	state, err := engine.Start(context.Background())
	require.NoError(t, err)

	require.Equal(t, StateFound, state)
	assert.Equal(t, 34, engine.PathLength())
	path := engine.Path()
	assert.NotEqual(t, Pt(1, 1), path[1], "diagonal (0,0) -> (1,1) clips the wall at (1,0)")
	assertValidPath(t, engine)
}

func TestStart_EnclosedEndIsExhausted(t *testing.T) {
	engine := newTestEngine(t, 7, 7, 1, WithStart(Pt(0, 0)), WithEnd(Pt(3, 3)))
	for _, o := range append(directOffsets[:], diagonalOffsets[:]...) {
		addWalls(t, engine, Pt(3, 3).Add(o))
	}

	state, err := engine.Start(context.Background())
	require.NoError(t, err, "an exhausted search is not an error")

	assert.Equal(t, StateExhausted, state)
	assert.False(t, engine.IsPathFind())
	assert.Empty(t, engine.Path())
	assert.Zero(t, engine.PathLength())
	assert.Empty(t, engine.OpenedCells())
	assert.Len(t, engine.ClosedCells(), 7*7-8-1)

	_, err = engine.Route()
	assert.ErrorIs(t, err, ErrReconstruction)
}

func TestReset_ClearsRunArtifacts(t *testing.T) {
	for _, walls := range [][]Point{nil, {{3, 0}, {3, 1}, {3, 2}, {3, 3}}} {
		engine := newTestEngine(t, 6, 4, 1, WithStart(Pt(0, 0)), WithEnd(Pt(5, 3)))
		addWalls(t, engine, walls...)

		_, err := engine.Start(context.Background())
		require.NoError(t, err)
		require.NotEmpty(t, engine.ClosedCells())

		require.NoError(t, engine.Reset())

		assert.Empty(t, engine.OpenedCells())
		assert.Empty(t, engine.ClosedCells())
		assert.False(t, engine.IsPathFind())
		assert.Empty(t, engine.Path())
		assert.Zero(t, engine.PathLength())
		assert.Equal(t, StateIdle, engine.State())
		assert.Equal(t, Stats{}, engine.Stats())
		assert.Equal(t, len(walls), engine.WallCount(), "walls survive a reset")
	}
}

func TestStart_WeightsAgreeOnOpenGrid(t *testing.T) {
	const optimal = 6*DiagonalCost + 3*DirectCost

	for _, weight := range []int{0, 1} {
		engine := newTestEngine(t, 10, 10, weight, WithStart(Pt(0, 0)), WithEnd(Pt(9, 6)))
		state, err := engine.Start(context.Background())
		require.NoError(t, err)
		require.Equal(t, StateFound, state)
		assert.Equal(t, optimal, engine.PathLength(), "weight %d", weight)
		assertValidPath(t, engine)
	}

	engine := newTestEngine(t, 10, 10, 8, WithStart(Pt(0, 0)), WithEnd(Pt(9, 6)))
	_, err := engine.Start(context.Background())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, engine.PathLength(), optimal)
}

func TestStart_RandomGrids(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	const size = 15

	for i := 0; i < 40; i++ {
		var walls []Point
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				p := Pt(x, y)
				if p != Pt(0, 0) && p != Pt(size-1, size-1) && rng.Float64() < 0.3 {
					walls = append(walls, p)
				}
			}
		}

		lengths := map[int]int{}
		for _, weight := range []int{0, 1, 6} {
			engine := newTestEngine(t, size, size, weight, WithStart(Pt(0, 0)), WithEnd(Pt(size-1, size-1)))
			addWalls(t, engine, walls...)

			state, err := engine.Start(context.Background())
			require.NoError(t, err)
			if state != StateFound {
				assert.Equal(t, StateExhausted, state)
				continue
			}
			assertValidPath(t, engine)
			lengths[weight] = engine.PathLength()

			// No parent link anywhere may cut a corner either.
			snap := engine.Snapshot()
			for idx, c := range snap.Cells {
				p := Pt(idx%size, idx/size)
				if c.Kind == KindWall {
					assert.Equal(t, Cell{Kind: KindWall}, c, "grid %d: wall %v carries search state", i, p)
					continue
				}
				if !c.HasParent || StepCost(p, c.Parent) == DirectCost {
					continue
				}
				flank1 := snap.At(Pt(p.X, c.Parent.Y))
				flank2 := snap.At(Pt(c.Parent.X, p.Y))
				assert.False(t, flank1.Kind == KindWall || flank2.Kind == KindWall,
					"grid %d: parent link %v -> %v cuts a corner", i, c.Parent, p)
			}
		}

		if len(lengths) > 0 {
			assert.Equal(t, lengths[0], lengths[1], "grid %d: uniform-cost and A* disagree", i)
			assert.GreaterOrEqual(t, lengths[6], lengths[1], "grid %d: weighted search beat the optimum", i)
		}
	}
}

func TestStart_StepFuncAndStats(t *testing.T) {
	engine := newTestEngine(t, 5, 1, 1, WithStart(Pt(0, 0)), WithEnd(Pt(4, 0)))

	var steps []Step
	require.NoError(t, engine.SetStepFunc(func(s Step) { steps = append(steps, s) }))

	_, err := engine.Start(context.Background())
	require.NoError(t, err)

	require.Len(t, steps, 5)
	for i, s := range steps {
		assert.Equal(t, i+1, s.Index)
		assert.Equal(t, Pt(i, 0), s.Current)
	}
	assert.Equal(t, StateFound, steps[4].State)
	assert.Equal(t, StateRunning, steps[0].State)

	stats := engine.Stats()
	assert.Equal(t, 5, stats.Expanded)
	assert.Equal(t, 1, stats.FrontierPeak)
}

func TestStart_RerunDiscardsPreviousRun(t *testing.T) {
	engine := newTestEngine(t, 8, 8, 1)

	_, err := engine.Start(context.Background())
	require.NoError(t, err)
	first := engine.Snapshot()

	_, err = engine.Start(context.Background())
	require.NoError(t, err)
	second := engine.Snapshot()

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second run differs (-first +second):\n%s", diff)
	}
}

func TestEdit_AfterRunResetsEngine(t *testing.T) {
	engine := newTestEngine(t, 5, 1, 1, WithStart(Pt(0, 0)), WithEnd(Pt(4, 0)))

	_, err := engine.Start(context.Background())
	require.NoError(t, err)
	require.True(t, engine.IsPathFind())

	addWalls(t, engine, Pt(2, 0))

	assert.Equal(t, StateIdle, engine.State())
	assert.Empty(t, engine.Path())
	assert.Empty(t, engine.ClosedCells())

	state, err := engine.Start(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateExhausted, state)
}

func TestEdit_FailedEditKeepsRun(t *testing.T) {
	engine := newTestEngine(t, 5, 1, 1, WithStart(Pt(0, 0)), WithEnd(Pt(4, 0)))
	_, err := engine.Start(context.Background())
	require.NoError(t, err)

	assert.ErrorIs(t, engine.SetCell(Pt(0, 0), KindWall), ErrInvariantViolation)
	assert.True(t, engine.IsPathFind())
}

func TestSetStartCell_OntoWall(t *testing.T) {
	engine := newTestEngine(t, 6, 6, 1)
	addWalls(t, engine, Pt(2, 1))

	assert.ErrorIs(t, engine.SetStartCell(Pt(2, 1)), ErrInvariantViolation)
	assert.Equal(t, Pt(1, 3), engine.StartCell())

	require.NoError(t, engine.SetCell(Pt(2, 1), KindEmpty))
	require.NoError(t, engine.SetStartCell(Pt(2, 1)))
	assert.Equal(t, Pt(2, 1), engine.StartCell())

	assert.ErrorIs(t, engine.SetEndCell(Pt(2, 1)), ErrInvariantViolation)
	assert.ErrorIs(t, engine.SetEndCell(Pt(-1, 1)), ErrOutOfBounds)
	require.NoError(t, engine.SetEndCell(Pt(5, 5)))
	assert.Equal(t, Pt(5, 5), engine.EndCell())
}

func TestSetWeight(t *testing.T) {
	engine := newTestEngine(t, 6, 6, 1)

	assert.ErrorIs(t, engine.SetWeight(-3), ErrInvalidConfiguration)
	require.NoError(t, engine.SetWeight(5))
	assert.Equal(t, 5, engine.Weight())
	assert.ErrorIs(t, engine.SetDelay(-time.Millisecond), ErrInvalidConfiguration)
}

func TestClearWalls(t *testing.T) {
	engine := newTestEngine(t, 5, 1, 1, WithStart(Pt(0, 0)), WithEnd(Pt(4, 0)))
	addWalls(t, engine, Pt(2, 0))

	require.NoError(t, engine.ClearWalls())
	assert.Zero(t, engine.WallCount())

	state, err := engine.Start(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateFound, state)
}

// blockingEngine returns an engine whose run parks inside its first step
// until release is closed.
func blockingEngine(t *testing.T) (engine *Engine, started <-chan struct{}, release chan struct{}) {
	t.Helper()
	startedCh := make(chan struct{})
	release = make(chan struct{})
	var once sync.Once

	engine = newTestEngine(t, 30, 30, 1, WithStepFunc(func(Step) {
		once.Do(func() { close(startedCh) })
		<-release
	}))
	return engine, startedCh, release
}

func TestStart_RejectsConcurrentRunAndEdits(t *testing.T) {
	engine, started, release := blockingEngine(t)

	done := make(chan State, 1)
	go func() {
		state, _ := engine.Start(context.Background())
		done <- state
	}()
	<-started

	assert.True(t, engine.IsProcess())
	_, err := engine.Start(context.Background())
	assert.ErrorIs(t, err, ErrConcurrentRun)
	assert.ErrorIs(t, engine.SetCell(Pt(5, 5), KindWall), ErrConcurrentRun)
	assert.ErrorIs(t, engine.SetStartCell(Pt(5, 5)), ErrConcurrentRun)
	assert.ErrorIs(t, engine.SetEndCell(Pt(5, 5)), ErrConcurrentRun)
	assert.ErrorIs(t, engine.SetWeight(3), ErrConcurrentRun)
	assert.ErrorIs(t, engine.SetDelay(time.Second), ErrConcurrentRun)
	assert.ErrorIs(t, engine.ClearWalls(), ErrConcurrentRun)
	assert.ErrorIs(t, engine.Reset(), ErrConcurrentRun)

	// Observers can still read while the run is parked.
	snap := engine.Snapshot()
	assert.Equal(t, StateRunning, snap.State)
	assert.NotEmpty(t, snap.Closed)

	close(release)
	assert.Equal(t, StateFound, <-done)
	assert.False(t, engine.IsProcess())
}

func TestStart_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	engine := newTestEngine(t, 40, 40, 1, WithStepFunc(func(s Step) {
		if s.Index == 3 {
			cancel()
		}
	}))

	state, err := engine.Start(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateCancelled, state)
	assert.False(t, engine.IsPathFind())
	assert.Empty(t, engine.Path())
	assert.Equal(t, 3, engine.Stats().Expanded)

	state, err = engine.Start(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateFound, state)
}

func TestStart_DelayHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	engine := newTestEngine(t, 40, 40, 1, WithDelay(time.Hour), WithStepFunc(func(Step) { cancel() }))

	finished := make(chan State, 1)
	go func() {
		state, _ := engine.Start(ctx)
		finished <- state
	}()

	select {
	case state := <-finished:
		assert.Equal(t, StateCancelled, state)
	case <-time.After(5 * time.Second):
		t.Fatal("search kept sleeping after cancellation")
	}
}

func TestSnapshot_IsACopy(t *testing.T) {
	engine := newTestEngine(t, 5, 1, 1, WithStart(Pt(0, 0)), WithEnd(Pt(4, 0)))
	_, err := engine.Start(context.Background())
	require.NoError(t, err)

	snap := engine.Snapshot()
	snap.Path[0] = Pt(9, 9)
	snap.Cells[0].Kind = KindWall
	path := engine.Path()
	path[1] = Pt(8, 8)

	assert.Equal(t, Pt(0, 0), engine.Path()[0])
	assert.Equal(t, Pt(1, 0), engine.Path()[1])
	cell, err := engine.Cell(Pt(0, 0))
	require.NoError(t, err)
	assert.Equal(t, KindStart, cell.Kind)
}
