package termgrid

import (
	"image/color"
	"strings"
)

// Row is one line of cells sized to the buffer width.
type Row struct {
	cells     []Cell
	selected  bool
	multiline bool

	// Fg and Bg override the default colors for cells without their own.
	Fg color.Color
	Bg color.Color

	text      string
	textValid bool
}

func newRow(width int) *Row {
	r := &Row{}
	r.reset(width)
	return r
}

// reset empties the row, reusing its cell storage when it is large enough.
func (r *Row) reset(width int) {
	if cap(r.cells) >= width {
		r.cells = r.cells[:width]
	} else {
		r.cells = make([]Cell, width)
	}
	for i := range r.cells {
		r.cells[i] = Cell{Volume: 1, Flags: CellFlagDirty}
	}
	r.selected = false
	r.multiline = false
	r.Fg = nil
	r.Bg = nil
	r.textValid = false
}

// Len returns the number of cells in the row.
func (r *Row) Len() int {
	return len(r.cells)
}

// Cell returns the cell at column x, or nil if x is out of range.
func (r *Row) Cell(x int) *Cell {
	if x < 0 || x >= len(r.cells) {
		return nil
	}
	return &r.cells[x]
}

// Cells returns the row's cells. Callers must not modify them.
func (r *Row) Cells() []Cell {
	return r.cells
}

// IsSelected returns true if any selection covers part of the row.
func (r *Row) IsSelected() bool {
	return r.selected
}

// IsMultiline returns true if the row's logical line continues on the next row.
func (r *Row) IsMultiline() bool {
	return r.multiline
}

// Head returns the column of the head cell covering column x.
func (r *Row) Head(x int) int {
	if x < 0 || x >= len(r.cells) {
		return x
	}
	return x - r.cells[x].HeadOffset()
}

// Text returns the row's characters with trailing empty cells trimmed.
// Empty interior cells become spaces and placeholders are skipped.
func (r *Row) Text() string {
	if !r.textValid {
		r.rebuildText()
	}
	return r.text
}

func (r *Row) rebuildText() {
	var sb strings.Builder
	end := r.contentEnd()
	index := 0
	for x := range r.cells {
		c := &r.cells[x]
		if c.IsPlaceholder() {
			continue
		}
		c.TextIndex = index
		index++
		if x >= end {
			continue
		}
		if c.Char == 0 {
			sb.WriteByte(' ')
		} else {
			sb.WriteRune(c.Char)
		}
	}
	r.text = sb.String()
	r.textValid = true
}

// contentEnd returns the column after the last non-empty cell.
func (r *Row) contentEnd() int {
	for x := len(r.cells) - 1; x >= 0; x-- {
		if !r.cells[x].IsEmpty() {
			return x + 1
		}
	}
	return 0
}

// textBetween returns the characters of cells in [from, to), trimming trailing empties.
func (r *Row) textBetween(from, to int) string {
	if from < 0 {
		from = 0
	}
	if end := r.contentEnd(); to > end {
		to = end
	}
	var sb strings.Builder
	for x := from; x < to; x++ {
		c := &r.cells[x]
		switch {
		case c.IsPlaceholder():
		case c.Char == 0:
			sb.WriteByte(' ')
		default:
			sb.WriteRune(c.Char)
		}
	}
	return sb.String()
}

// clearChar empties the whole character covering column x.
func (r *Row) clearChar(x int) {
	if x < 0 || x >= len(r.cells) {
		return
	}
	head := r.Head(x)
	vol := r.cells[head].Volume
	for i := head; i < head+vol && i < len(r.cells); i++ {
		r.cells[i].Reset()
	}
	r.textValid = false
}

// clearFrom empties every cell from column x to the end of the row.
func (r *Row) clearFrom(x int) {
	if x < len(r.cells) && x > 0 {
		r.clearChar(x)
	}
	if x < 0 {
		x = 0
	}
	for i := x; i < len(r.cells); i++ {
		r.cells[i].Reset()
	}
	r.textValid = false
}

// resize grows or shrinks the row. A wide character cut by the new edge is cleared.
func (r *Row) resize(width int) {
	old := len(r.cells)
	switch {
	case width < old:
		r.cells = r.cells[:width]
		r.clipEdge()
	case width > old:
		if cap(r.cells) >= width {
			r.cells = r.cells[:width]
		} else {
			cells := make([]Cell, width)
			copy(cells, r.cells)
			r.cells = cells
		}
		for i := old; i < width; i++ {
			r.cells[i] = Cell{Volume: 1, Flags: CellFlagDirty}
		}
	}
	r.textValid = false
}

// clipEdge clears a wide character whose placeholders no longer fit at the end of the row.
func (r *Row) clipEdge() {
	n := len(r.cells)
	if n == 0 {
		return
	}
	head := r.Head(n - 1)
	if head < 0 || head+r.cells[head].Volume > n {
		for i := max(head, 0); i < n; i++ {
			r.cells[i].Reset()
		}
	}
	r.textValid = false
}

// setChar writes a character of the given volume at column x using attrs for colors and flags.
func (r *Row) setChar(x int, ch rune, volume int, attrs Cell) {
	for i := x; i < x+volume; i++ {
		r.clearChar(i)
	}
	head := &r.cells[x]
	head.Char = ch
	head.Volume = volume
	head.Fg = attrs.Fg
	head.Bg = attrs.Bg
	head.Flags = attrs.Flags | CellFlagDirty
	for i := 1; i < volume; i++ {
		c := &r.cells[x+i]
		c.Char = 0
		c.Volume = -i
		c.Fg = attrs.Fg
		c.Bg = attrs.Bg
		c.Flags = attrs.Flags | CellFlagDirty
	}
	r.textValid = false
}

// rowPool keeps discarded rows so later growth can reuse their cell storage.
type rowPool struct {
	free []*Row
}

func (p *rowPool) get(width int) *Row {
	n := len(p.free)
	if n == 0 {
		return newRow(width)
	}
	r := p.free[n-1]
	p.free[n-1] = nil
	p.free = p.free[:n-1]
	r.reset(width)
	return r
}

func (p *rowPool) put(rows ...*Row) {
	for _, r := range rows {
		if r != nil {
			p.free = append(p.free, r)
		}
	}
}

// Len returns the number of pooled rows.
func (p *rowPool) Len() int {
	return len(p.free)
}
