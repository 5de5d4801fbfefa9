package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"gopkg.in/yaml.v3"

	"pathfinder"
)

// Config describes the board the demo builds and how it runs the search.
//
// Files ending in .yaml/.yml are decoded as YAML, files ending in .hcl as HCL:
//
//	width  = 20
//	height = 10
//	weight = 1
//	start {
//	  x = 1
//	  y = 5
//	}
//	wall {
//	  x      = 9
//	  y      = 1
//	  height = 8
//	}
type Config struct {
	Width     int        `yaml:"width" hcl:"width"`
	Height    int        `yaml:"height" hcl:"height"`
	Weight    int        `yaml:"weight" hcl:"weight,optional"`
	Delay     string     `yaml:"delay" hcl:"delay,optional"`
	EndPolicy string     `yaml:"end_policy" hcl:"end_policy,optional"`
	LogLevel  string     `yaml:"log_level" hcl:"log_level,optional"`
	LogFormat string     `yaml:"log_format" hcl:"log_format,optional"`
	Start     *Coord     `yaml:"start" hcl:"start,block"`
	End       *Coord     `yaml:"end" hcl:"end,block"`
	Walls     []WallRect `yaml:"walls" hcl:"wall,block"`
}

// Coord is a cell coordinate in a config file
type Coord struct {
	X int `yaml:"x" hcl:"x"`
	Y int `yaml:"y" hcl:"y"`
}

// WallRect is a rectangle of wall cells; a zero width or height means 1.
type WallRect struct {
	X      int `yaml:"x" hcl:"x"`
	Y      int `yaml:"y" hcl:"y"`
	Width  int `yaml:"width" hcl:"width,optional"`
	Height int `yaml:"height" hcl:"height,optional"`
}

// Cells lists every cell covered by the rectangle.
func (r WallRect) Cells() []pathfinder.Point {
	w, h := max(r.Width, 1), max(r.Height, 1)
	cells := make([]pathfinder.Point, 0, w*h)
	for y := r.Y; y < r.Y+h; y++ {
		for x := r.X; x < r.X+w; x++ {
			cells = append(cells, pathfinder.Pt(x, y))
		}
	}
	return cells
}

// DefaultConfig is the board used when no config file is given: a wall
// across the middle with a gap at the bottom.
func DefaultConfig() *Config {
	return &Config{
		Width:     20,
		Height:    10,
		Weight:    1,
		EndPolicy: "expansion",
		LogLevel:  "info",
		LogFormat: "text",
		Walls:     []WallRect{{X: 9, Y: 0, Width: 1, Height: 8}},
	}
}

// LoadConfig reads a YAML or HCL config file, fills defaults and validates it.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()
	config.Walls = nil

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case ".hcl":
		parser := hclparse.NewParser()
		hclFile, diags := parser.ParseHCLFile(path)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
		}
		if diags := gohcl.DecodeBody(hclFile.Body, nil, config); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
		}
	default:
		return nil, fmt.Errorf("config %s: unsupported extension %q", path, filepath.Ext(path))
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return config, nil
}

// Validate checks the values the engine would otherwise reject later.
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("grid size %dx%d must be positive", c.Width, c.Height)
	}
	if c.Weight < 0 {
		return fmt.Errorf("weight %d must not be negative", c.Weight)
	}
	if _, err := c.delay(); err != nil {
		return err
	}
	if _, err := c.endPolicy(); err != nil {
		return err
	}
	if _, err := c.newLogger(io.Discard); err != nil {
		return err
	}
	for _, coord := range []*Coord{c.Start, c.End} {
		if coord != nil && (coord.X < 0 || coord.Y < 0 || coord.X >= c.Width || coord.Y >= c.Height) {
			return fmt.Errorf("coordinate (%d,%d) outside %dx%d grid", coord.X, coord.Y, c.Width, c.Height)
		}
	}
	return nil
}

func (c *Config) delay() (time.Duration, error) {
	if c.Delay == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Delay)
	if err != nil {
		return 0, fmt.Errorf("delay %q: %w", c.Delay, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("delay %q must not be negative", c.Delay)
	}
	return d, nil
}

func (c *Config) endPolicy() (pathfinder.EndPolicy, error) {
	switch strings.ToLower(c.EndPolicy) {
	case "", "expansion":
		return pathfinder.FinishOnExpansion, nil
	case "discovery":
		return pathfinder.FinishOnDiscovery, nil
	default:
		return 0, fmt.Errorf("end_policy %q: must be 'expansion' or 'discovery'", c.EndPolicy)
	}
}
