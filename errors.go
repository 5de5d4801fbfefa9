package pathfinder

import "errors"

var (
	// ErrOutOfBounds is returned for coordinates outside the grid.
	ErrOutOfBounds = errors.New("coordinate out of bounds")
	// ErrInvariantViolation is returned when a mutation would leave the grid
	// without exactly one Start and one End, or targets an occupied cell.
	ErrInvariantViolation = errors.New("grid invariant violation")
	// ErrInvalidConfiguration is returned for bad dimensions, weights or
	// coinciding Start/End positions.
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrConcurrentRun is returned when the engine is asked to start or to
	// mutate the grid while a run is in progress.
	ErrConcurrentRun = errors.New("search already in progress")
	// ErrReconstruction is returned when a route is requested but no path
	// was found.
	ErrReconstruction = errors.New("no path to reconstruct")
)
