package termgrid

import (
	"fmt"
	"image/color"
	"strings"
)

// Write decodes ANSI output (SGR colors and attributes, CR, LF, BS, TAB,
// erase-line and erase-display) and writes it at the cursor.
func (g *Grid) Write(p []byte) (int, error) {
	defer g.commit()
	return g.decoder.Write(p)
}

// WriteString is Write for strings.
func (g *Grid) WriteString(s string) (int, error) {
	return g.Write([]byte(s))
}

// WriteText writes s without escape decoding. Control characters other than
// '\n', '\r', '\t', '\b' and BEL are dropped.
func (g *Grid) WriteText(s string) {
	defer g.commit()
	for _, r := range s {
		g.writeRune(r)
	}
}

// NewLine ends the current logical line and moves the cursor to the start of the next row.
func (g *Grid) NewLine() {
	defer g.commit()
	g.newLine()
}

func (g *Grid) writeRune(r rune) {
	switch r {
	case '\n':
		g.newLine()
	case '\r':
		g.carriageReturn()
	case '\t':
		g.tab(1)
	case '\b':
		g.backspace()
	case 0x07:
		g.bell.Ring()
	default:
		if r < ' ' || r == 0x7f || isZeroWidth(r) {
			return
		}
		g.put(r, g.template)
	}
}

// put writes ch with attrs at the cursor. A character that does not fit on the
// row starts a new one, and the cursor wraps as soon as the row is full so
// that it never rests past the last column.
func (g *Grid) put(ch rune, attrs Cell) {
	vol := 1
	if ch != 0 {
		vol = volumeOf(g.metrics, ch)
	}
	if vol > g.width {
		vol = g.width
	}
	g.pendingWrap = false
	if g.cursor.X+vol > g.width {
		g.wrap()
	}
	row := g.ensureRow(g.cursor.Y)
	row.setChar(g.cursor.X, ch, vol, attrs)
	g.cursor.X += vol
	if g.cursor.X >= g.width {
		g.wrap()
		g.pendingWrap = true
	}
	g.touch(PropertyText, PropertyCursorPoint)
}

func (g *Grid) wrap() {
	g.ensureRow(g.cursor.Y).multiline = true
	g.advanceRow()
}

func (g *Grid) advanceRow() {
	if g.inserting {
		g.insertRowAfter(g.cursor.Y)
	} else {
		g.ensureRow(g.cursor.Y + 1)
	}
	g.cursor = Pt(0, g.cursor.Y+1)
	g.touch(PropertyCursorPoint)
}

func (g *Grid) newLine() {
	if g.pendingWrap {
		// The previous row ended exactly at the edge; the wrap already moved us down.
		g.pendingWrap = false
		if prev := g.Row(g.cursor.Y - 1); prev != nil {
			prev.multiline = false
		}
		return
	}
	g.ensureRow(g.cursor.Y).multiline = false
	g.advanceRow()
}

func (g *Grid) carriageReturn() {
	if g.pendingWrap {
		return
	}
	if g.cursor.X != 0 {
		g.cursor.X = 0
		g.touch(PropertyCursorPoint)
	}
}

func (g *Grid) backspace() {
	g.pendingWrap = false
	if g.cursor.X > 0 {
		g.cursor = g.snapHead(Pt(g.cursor.X-1, g.cursor.Y))
		g.touch(PropertyCursorPoint)
	}
}

func (g *Grid) tab(n int) {
	g.pendingWrap = false
	for i := 0; i < n; i++ {
		next := (g.cursor.X/g.tabWidth + 1) * g.tabWidth
		if next >= g.width {
			next = g.width - 1
		}
		g.cursor.X = next
	}
	g.ensureRow(g.cursor.Y)
	g.touch(PropertyCursorPoint)
}

// SetCell writes ch at p and returns the number of columns it spans.
// Columns after the head become placeholders.
func (g *Grid) SetCell(p Point, ch rune) (int, error) {
	if !g.Contains(p) {
		return 0, fmt.Errorf("%w: cell %s", ErrOutOfRange, p)
	}
	vol := volumeOf(g.metrics, ch)
	if p.X+vol > g.width {
		return 0, fmt.Errorf("%w: %q at %s needs %d columns", ErrOutOfRange, ch, p, vol)
	}
	defer g.commit()
	g.ensureRow(p.Y).setChar(p.X, ch, vol, g.template)
	g.touch(PropertyText)
	return vol, nil
}

// SetRowColors overrides the default colors of row y. Nil colors remove the override.
func (g *Grid) SetRowColors(y int, fg, bg color.Color) error {
	if y < g.trimmed || y > g.lastAddressableRow() {
		return fmt.Errorf("%w: row %d", ErrOutOfRange, y)
	}
	defer g.commit()
	r := g.ensureRow(y)
	r.Fg, r.Bg = fg, bg
	g.touch(PropertyText)
	return nil
}

// Insert writes text at the cursor, pushing the rest of the logical line to the
// right and wrapping it onto new rows. The cursor ends after the inserted text.
// "\r\n" and lone '\r' are treated as line breaks.
func (g *Grid) Insert(text string) error {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	defer g.commit()
	g.setSelections(nil)
	g.reflow(g.cursor, g.cursor, func() {
		for _, r := range text {
			g.writeRune(r)
		}
	})
	return nil
}

// DeleteBackward removes the character before the cursor unless that would
// move the cursor before limit. It returns false if nothing was removed.
func (g *Grid) DeleteBackward(limit Point) bool {
	if !limit.Less(g.cursor) {
		return false
	}
	prev := g.Prev(g.cursor)
	if prev.Less(limit) || prev == g.cursor {
		return false
	}
	defer g.commit()
	g.reflow(prev, g.cursor, nil)
	return true
}

// DeleteForward removes the character under the cursor. It returns false if
// the rest of the logical line is empty.
func (g *Grid) DeleteForward() bool {
	end := Pt(0, g.logicalEnd(g.cursor.Y)+1)
	if g.TextRange(Range{Begin: g.cursor, End: end}) == "" {
		return false
	}
	defer g.commit()
	g.reflow(g.cursor, g.Next(g.cursor), nil)
	return true
}

// reflow rewrites the logical line from at: cells in [at, cut) are dropped,
// emit writes new content, and the rest of the line follows it. The cursor is
// left where emit finished.
func (g *Grid) reflow(at, cut Point, emit func()) {
	end := g.logicalEnd(cut.Y)
	tail := g.collectCells(cut, end)

	row := g.ensureRow(at.Y)
	g.removeRows(at.Y+1, end+1)
	row.clearFrom(at.X)
	row.multiline = false
	g.cursor = at
	g.pendingWrap = false

	g.inserting = true
	if emit != nil {
		emit()
	}
	mark, markWrap := g.cursor, g.pendingWrap
	for _, c := range tail {
		g.put(c.Char, c)
	}
	if len(tail) > 0 && g.pendingWrap {
		// The tail ended exactly at the edge; drop the empty row the wrap created.
		g.removeRows(g.cursor.Y, g.cursor.Y+1)
		if prev := g.Row(g.cursor.Y - 1); prev != nil {
			prev.multiline = false
		}
		markWrap = false
	}
	g.inserting = false

	g.cursor, g.pendingWrap = mark, markWrap
	g.touch(PropertyText, PropertyCursorPoint)
}

// collectCells copies head cells from p to the end of row endRow.
// Empty cells at the end of each row are dropped.
func (g *Grid) collectCells(p Point, endRow int) []Cell {
	var out []Cell
	for y := p.Y; y <= endRow; y++ {
		row := g.Row(y)
		if row == nil {
			continue
		}
		x0 := 0
		if y == p.Y {
			x0 = p.X
		}
		stop := row.contentEnd()
		for x := x0; x < stop; x++ {
			c := row.cells[x]
			if c.IsPlaceholder() {
				continue
			}
			c.Flags &^= CellFlagDirty
			out = append(out, c)
		}
	}
	return out
}

// ClearFrom erases everything from p to the end of the buffer and moves the cursor to p.
func (g *Grid) ClearFrom(p Point) error {
	if !g.Contains(p) {
		return fmt.Errorf("%w: clear from %s", ErrOutOfRange, p)
	}
	defer g.commit()
	g.clearFrom(g.snapHead(p))
	g.moveCursor(g.snapHead(p))
	return nil
}

func (g *Grid) clearFrom(p Point) {
	g.removeRows(p.Y+1, g.trimmed+len(g.rows))
	if row := g.Row(p.Y); row != nil {
		row.clearFrom(p.X)
		row.multiline = false
	}
	g.touch(PropertyText)
}

// ClearLine erases the row containing the cursor.
func (g *Grid) ClearLine() {
	defer g.commit()
	if row := g.Row(g.cursor.Y); row != nil {
		row.clearFrom(0)
		row.multiline = false
		g.touch(PropertyText)
	}
}

// Clear erases every retained row and moves the cursor to the top.
// Absolute row numbers keep increasing: the next row written is MinimumVisibleIndex.
func (g *Grid) Clear() {
	defer g.commit()
	g.pool.put(g.rows...)
	g.rows = nil
	g.cursor = Pt(0, g.trimmed)
	g.pendingWrap = false
	g.visible = g.trimmed
	g.selections = nil
	g.anchor = InvalidPoint
	g.setSelecting(EmptyRange)
	g.touch(PropertyText, PropertyCursorPoint, PropertyVisibleIndex, PropertySelections)
}
