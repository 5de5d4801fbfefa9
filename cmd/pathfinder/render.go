package main

import (
	"bufio"
	"fmt"
	"io"

	"pathfinder"
)

// render draws the snapshot as text, one row per line:
// '#' wall, 'S' start, 'E' end, '*' path, 'o' opened, '.' closed.
func render(w io.Writer, snap pathfinder.Snapshot) error {
	onPath := make(map[pathfinder.Point]bool, len(snap.Path))
	for _, p := range snap.Path {
		onPath[p] = true
	}

	out := bufio.NewWriter(w)
	for y := 0; y < snap.Height; y++ {
		for x := 0; x < snap.Width; x++ {
			p := pathfinder.Pt(x, y)
			out.WriteByte(glyph(snap.At(p), onPath[p]))
		}
		out.WriteByte('\n')
	}

	if snap.State == pathfinder.StateFound {
		fmt.Fprintf(out, "path: %d cells, length %d\n", len(snap.Path), snap.PathLength)
	} else {
		fmt.Fprintf(out, "no path (%s)\n", snap.State)
	}
	return out.Flush()
}

func glyph(c pathfinder.Cell, onPath bool) byte {
	switch {
	case c.Kind == pathfinder.KindWall:
		return '#'
	case c.Kind == pathfinder.KindStart:
		return 'S'
	case c.Kind == pathfinder.KindEnd:
		return 'E'
	case onPath:
		return '*'
	case c.Opened:
		return 'o'
	case c.Closed:
		return '.'
	default:
		return ' '
	}
}
