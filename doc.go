// Package termgrid provides the screen buffer of an embeddable terminal widget.
//
// A [Grid] is a scrollable transcript of character cells with a cursor, a set
// of selections and a viewport. It is meant to sit behind a console-like
// widget: command output is written to it, the user edits a prompt line in
// place, selects text with the mouse and copies it out.
//
// # Quick Start
//
//	grid := termgrid.New(termgrid.WithSize(80, 24))
//	grid.WriteString("\x1b[31mHello \x1b[32mWorld\x1b[0m!\n")
//	fmt.Println(grid.LineText(0)) // "Hello World!"
//
// # Coordinates
//
// A [Point] is (column, absolute row). Rows are numbered from the first row
// ever written; when the scroll-back cap is reached the oldest rows are
// discarded and [Grid.MinimumVisibleIndex] advances, but surviving rows keep
// their numbers. A [Range] is a half-open span of points in row-major order.
//
// # Wide Characters
//
// Writing a character asks the grid's [GlyphMetrics] for its advance. The
// character spans ceil(advance / default advance) columns: the first is its
// head cell, the rest are placeholders carrying a negative offset back to
// the head. The cursor, selection boundaries and hit-testing always resolve
// to head cells.
//
// # Viewport
//
// [Grid.VisibleIndex] is the first row on screen. Every scroll operation goes
// through one clamp into [MinimumVisibleIndex, MaximumVisibleIndex], and every
// mutating call re-asserts the cursor, viewport and selection invariants
// before it returns.
//
// # Notifications
//
// Renderers [Grid.Subscribe] to receive PropertyChanged events naming what
// changed (VisibleIndex, Text, SelectingRange, CursorPoint, ...) followed by a
// LayoutChanged event when cell geometry must be rebuilt. The grid never calls
// into rendering itself; it only answers geometry queries such as
// [Grid.CellGeometry] and [Grid.Intersect].
//
// # Concurrency
//
// A Grid holds no locks. All calls must come from a single goroutine at a
// time; the console package routes them through a dispatch.Dispatcher.
package termgrid
