package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"pathfinder"
)

// progressInterval is how often the driver logs a snapshot while a run is
// in progress.
const progressInterval = 100 * time.Millisecond

// ExitError is an error that carries a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run parses args, builds the engine, searches and renders the result to
// outW. Logs go to logW.
func run(ctx context.Context, outW, logW io.Writer, args []string) error {
	config, shouldExit, err := parseArgs(args, outW)
	if err != nil || shouldExit {
		return err
	}

	logger, err := config.newLogger(logW)
	if err != nil {
		return &ExitError{Code: 2, Message: err.Error()}
	}
	logger.Info("grid pathfinder", "width", config.Width, "height", config.Height, "weight", config.Weight)

	engine, err := buildEngine(config, logger)
	if err != nil {
		return &ExitError{Code: 2, Message: err.Error()}
	}

	state, err := search(ctx, engine, logger)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if state == pathfinder.StateFound {
		route, _ := engine.Route()
		logger.Info("path found", "cells", len(route.Path), "length", route.Length)
	} else {
		logger.Info("no path found", "state", state)
	}

	return render(outW, engine.Snapshot())
}

// parseArgs processes command-line arguments into a Config. It reports
// whether the program should exit cleanly, e.g. after printing help.
func parseArgs(args []string, output io.Writer) (*Config, bool, error) {
	flagSet := flag.NewFlagSet("pathfinder", flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = func() {
		fmt.Fprint(output, `
pathfinder - weighted A* on an editable grid.

Usage:
  pathfinder [options] [CONFIG]

Arguments:
  CONFIG
    Optional .yaml, .yml or .hcl file describing the grid.

Options:
`)
		flagSet.PrintDefaults()
	}

	configFlag := flagSet.String("config", "", "Path to the grid config file.")
	weightFlag := flagSet.Int("weight", -1, "Heuristic weight; overrides the config when >= 0.")
	policyFlag := flagSet.String("end-policy", "", "When reaching End finishes: 'expansion' or 'discovery'.")
	logFormatFlag := flagSet.String("log-format", "", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	path := *configFlag
	if path == "" && flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}

	config := DefaultConfig()
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, false, &ExitError{Code: 2, Message: err.Error()}
		}
		config = loaded
	}

	if *weightFlag >= 0 {
		config.Weight = *weightFlag
	}
	if *policyFlag != "" {
		config.EndPolicy = *policyFlag
	}
	if *logFormatFlag != "" {
		config.LogFormat = strings.ToLower(*logFormatFlag)
	}
	if *logLevelFlag != "" {
		config.LogLevel = strings.ToLower(*logLevelFlag)
	}

	if err := config.Validate(); err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	return config, false, nil
}

// buildEngine creates the engine and lays out the configured walls.
func buildEngine(config *Config, logger *slog.Logger) (*pathfinder.Engine, error) {
	delay, _ := config.delay()
	policy, _ := config.endPolicy()

	options := []pathfinder.Option{
		pathfinder.WithLogger(logger),
		pathfinder.WithDelay(delay),
		pathfinder.WithEndPolicy(policy),
	}
	if config.Start != nil {
		options = append(options, pathfinder.WithStart(pathfinder.Pt(config.Start.X, config.Start.Y)))
	}
	if config.End != nil {
		options = append(options, pathfinder.WithEnd(pathfinder.Pt(config.End.X, config.End.Y)))
	}

	engine, err := pathfinder.New(config.Width, config.Height, config.Weight, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	skipped := 0
	for _, rect := range config.Walls {
		for _, p := range rect.Cells() {
			if err := engine.SetCell(p, pathfinder.KindWall); err != nil {
				logger.Warn("wall skipped", "cell", p, "error", err)
				skipped++
			}
		}
	}
	logger.Info("walls placed", "walls", engine.WallCount(), "skipped", skipped)
	return engine, nil
}

// search runs the engine on its own goroutine and logs progress snapshots
// until it finishes or ctx is cancelled.
func search(ctx context.Context, engine *pathfinder.Engine, logger *slog.Logger) (pathfinder.State, error) {
	type outcome struct {
		state pathfinder.State
		err   error
	}
	done := make(chan outcome, 1)
	go func() {
		state, err := engine.Start(ctx)
		done <- outcome{state: state, err: err}
	}()

	ticker := time.NewTicker(progressInterval)
	defer ticker.Stop()
	for {
		select {
		case result := <-done:
			return result.state, result.err
		case <-ticker.C:
			snap := engine.Snapshot()
			logger.Debug("search progress",
				"opened", len(snap.Opened),
				"closed", len(snap.Closed),
				"expanded", snap.Stats.Expanded)
		}
	}
}
