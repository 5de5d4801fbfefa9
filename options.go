package pathfinder

import (
	"io"
	"log/slog"
	"time"
)

// EndPolicy decides when reaching End finishes a run.
type EndPolicy uint8

const (
	// FinishOnExpansion relaxes End like any other cell and finishes only
	// when End is selected from the frontier. Optimal for weight <= 1.
	FinishOnExpansion EndPolicy = iota
	// FinishOnDiscovery finishes the first time an expansion touches End,
	// without comparing against cheaper edges found later.
	FinishOnDiscovery
)

func (p EndPolicy) String() string {
	if p == FinishOnDiscovery {
		return "discovery"
	}
	return "expansion"
}

// StepFunc is called once per frontier selection, outside the engine lock.
type StepFunc func(Step)

// Step describes one frontier selection.
type Step struct {
	Index    int   // 1-based selection counter
	Current  Point // cell selected from the frontier
	Frontier int   // open cells left after expanding Current
	State    State // StateRunning, or the terminal state this step produced
}

// Options defines parameters for the engine.
type Options struct {
	Start     *Point
	End       *Point
	EndPolicy EndPolicy
	Logger    *slog.Logger
	StepFunc  StepFunc
	Delay     time.Duration
}

// Option is a function that modifies Options.
type Option func(*Options)

// WithStart places Start at p instead of the default (1, height/2).
func WithStart(p Point) Option {
	return func(options *Options) { options.Start = &p }
}

// WithEnd places End at p instead of the default (width-2, height/2).
func WithEnd(p Point) Option {
	return func(options *Options) { options.End = &p }
}

// WithEndPolicy selects when reaching End finishes a run.
func WithEndPolicy(policy EndPolicy) Option {
	return func(options *Options) { options.EndPolicy = policy }
}

// WithLogger sets the logger used for run progress.
func WithLogger(logger *slog.Logger) Option {
	return func(options *Options) { options.Logger = logger }
}

// WithStepFunc installs a callback invoked after every frontier selection.
func WithStepFunc(fn StepFunc) Option {
	return func(options *Options) { options.StepFunc = fn }
}

// WithDelay pauses the run for d after every frontier selection.
func WithDelay(d time.Duration) Option {
	return func(options *Options) { options.Delay = d }
}

func defaultOptions(width, height int) Options {
	y := height / 2
	start := Point{X: min(1, width-1), Y: y}
	end := Point{X: max(width-2, 0), Y: y}
	return Options{
		Start:  &start,
		End:    &end,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}
