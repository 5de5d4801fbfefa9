// Package pathfinder implements an interactive weighted A* search over a
// 2-D cell grid.
//
// The grid holds empty cells, walls, and exactly one Start and one End.
// Movement is 8-directional with step costs 10 (straight) and 14
// (diagonal); a diagonal step is refused when either orthogonal cell it
// passes is a wall. The heuristic is the Euclidean distance to End scaled
// by an integer weight.
//
// An Engine owns the grid and is meant to be edited between runs:
//
//	engine, err := pathfinder.New(70, 50, 1)
//	...
//	engine.SetCell(pathfinder.Pt(10, 10), pathfinder.KindWall)
//	state, err := engine.Start(ctx)
//	if state == pathfinder.StateFound {
//		fmt.Println(engine.Path(), engine.PathLength())
//	}
//
// Start runs synchronously; callers that drive a UI run it on its own
// goroutine and read progress through Snapshot, OpenedCells and
// ClosedCells, which all return copies.
package pathfinder
