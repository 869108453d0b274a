package termgrid

import (
	"fmt"
	"sort"
	"strings"
)

// Selections returns the current selections in row-major order.
func (g *Grid) Selections() []Range {
	out := make([]Range, len(g.selections))
	copy(out, g.selections)
	return out
}

// HasSelection returns true if at least one range is selected.
func (g *Grid) HasSelection() bool {
	return len(g.selections) > 0
}

// IsSelected returns true if any selection contains p.
func (g *Grid) IsSelected(p Point) bool {
	for _, r := range g.selections {
		if r.Contains(p) {
			return true
		}
	}
	return false
}

// selectionLimit is the exclusive end of the selectable area.
func (g *Grid) selectionLimit() Point {
	return Pt(0, g.lastAddressableRow()+1)
}

func (g *Grid) checkRange(r Range) (Range, error) {
	r = NewRange(r.Begin, r.End)
	if r.IsEmpty() {
		return EmptyRange, nil
	}
	limit := g.selectionLimit()
	inside := func(p Point) bool {
		return p == limit || g.Contains(p)
	}
	if !inside(r.Begin) || !inside(r.End) {
		return EmptyRange, fmt.Errorf("%w: selection %s", ErrOutOfRange, r)
	}
	return r, nil
}

// SetSelection replaces all selections with r. An empty range clears them.
func (g *Grid) SetSelection(r Range) error {
	r, err := g.checkRange(r)
	if err != nil {
		return err
	}
	defer g.commit()
	g.setSelections(nil)
	if !r.IsEmpty() {
		g.setSelections([]Range{r})
	}
	return nil
}

// AddSelection adds r, merging it with selections it overlaps or touches.
func (g *Grid) AddSelection(r Range) error {
	r, err := g.checkRange(r)
	if err != nil {
		return err
	}
	if r.IsEmpty() {
		return nil
	}
	defer g.commit()
	g.setSelections(append(g.Selections(), r))
	return nil
}

// ClearSelections removes every selection.
func (g *Grid) ClearSelections() {
	defer g.commit()
	g.setSelections(nil)
}

// SelectAll selects every retained row.
func (g *Grid) SelectAll() {
	defer g.commit()
	if len(g.rows) == 0 {
		g.setSelections(nil)
		return
	}
	g.setSelections([]Range{{Begin: Pt(0, g.trimmed), End: Pt(0, g.trimmed+len(g.rows))}})
}

// SelectingRange returns the range being dragged, or EmptyRange.
func (g *Grid) SelectingRange() Range {
	return g.selecting
}

// IsSelecting returns true between BeginSelecting and EndSelecting.
func (g *Grid) IsSelecting() bool {
	return g.anchor.IsValid()
}

// BeginSelecting starts a drag selection anchored at p.
func (g *Grid) BeginSelecting(p Point) error {
	if !g.Contains(p) {
		return fmt.Errorf("%w: selection anchor %s", ErrOutOfRange, p)
	}
	defer g.commit()
	g.anchor = g.snapHead(p)
	g.setSelecting(EmptyRange)
	return nil
}

// UpdateSelecting extends the drag selection to cover the cell at p.
func (g *Grid) UpdateSelecting(p Point) error {
	if !g.IsSelecting() {
		return fmt.Errorf("%w: not selecting", ErrInvalidOperation)
	}
	if !g.Contains(p) {
		return fmt.Errorf("%w: selection point %s", ErrOutOfRange, p)
	}
	defer g.commit()
	p = g.snapHead(p)
	var r Range
	if p.Less(g.anchor) {
		r = Range{Begin: p, End: g.Next(g.anchor)}
	} else {
		r = Range{Begin: g.anchor, End: g.Next(p)}
	}
	g.setSelecting(r)
	return nil
}

// EndSelecting finishes the drag. With add set the range joins the existing
// selections; otherwise it replaces them.
func (g *Grid) EndSelecting(add bool) error {
	if !g.IsSelecting() {
		return fmt.Errorf("%w: not selecting", ErrInvalidOperation)
	}
	defer g.commit()
	r := g.selecting
	g.anchor = InvalidPoint
	g.setSelecting(EmptyRange)
	if r.IsEmpty() {
		if !add {
			g.setSelections(nil)
		}
		return nil
	}
	if add {
		g.setSelections(append(g.Selections(), r))
	} else {
		g.setSelections([]Range{r})
	}
	return nil
}

// CancelSelecting drops the drag without changing the selections.
func (g *Grid) CancelSelecting() {
	defer g.commit()
	g.anchor = InvalidPoint
	g.setSelecting(EmptyRange)
}

func (g *Grid) setSelecting(r Range) {
	if r != g.selecting {
		g.selecting = r
		g.touch(PropertySelectingRange)
	}
}

// setSelections normalizes ranges and stores them if they differ from the current set.
func (g *Grid) setSelections(ranges []Range) {
	ranges = g.normalizeRanges(ranges)
	if equalRanges(ranges, g.selections) {
		return
	}
	g.selections = ranges
	g.markSelectedRows()
	g.touch(PropertySelections)
}

// normalizeRanges clips to the selectable area, snaps to head cells, sorts and merges.
func (g *Grid) normalizeRanges(ranges []Range) []Range {
	begin, limit := Pt(0, g.trimmed), g.selectionLimit()
	out := make([]Range, 0, len(ranges))
	for _, r := range ranges {
		r = NewRange(r.Begin, r.End)
		if r.IsEmpty() {
			continue
		}
		if r.Begin.Less(begin) {
			r.Begin = begin
		}
		if limit.Less(r.End) {
			r.End = limit
		}
		r.Begin = g.snapHead(r.Begin)
		r.End = g.snapEnd(r.End)
		if !r.Begin.Less(r.End) {
			continue
		}
		out = append(out, r)
	}
	if len(out) == 0 {
		return nil
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Begin.Less(out[j].Begin)
	})
	merged := out[:1]
	for _, r := range out[1:] {
		last := &merged[len(merged)-1]
		if last.Touches(r) {
			*last = last.Union(r)
			continue
		}
		merged = append(merged, r)
	}
	return merged
}

func (g *Grid) validateSelections() {
	g.setSelections(g.selections)
	g.markSelectedRows()
	if g.selecting.IsEmpty() {
		return
	}
	if s := g.normalizeRanges([]Range{g.selecting}); len(s) == 1 {
		g.setSelecting(s[0])
	} else {
		g.setSelecting(EmptyRange)
	}
}

func (g *Grid) markSelectedRows() {
	for i, row := range g.rows {
		y := g.trimmed + i
		line := Range{Begin: Pt(0, y), End: Pt(0, y+1)}
		selected := false
		for _, r := range g.selections {
			if r.Intersects(line) {
				selected = true
				break
			}
		}
		row.selected = selected
	}
}

func equalRanges(a, b []Range) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// TextRange returns the text covered by r. Rows are separated by "\n" unless
// the earlier row wraps into the next one.
func (g *Grid) TextRange(r Range) string {
	r = NewRange(r.Begin, r.End)
	if r.IsEmpty() {
		return ""
	}
	var sb strings.Builder
	for y := r.Begin.Y; y <= r.End.Y; y++ {
		from, to := 0, g.width
		if y == r.Begin.Y {
			from = r.Begin.X
		}
		if y == r.End.Y {
			to = r.End.X
			if to == 0 {
				break
			}
		}
		if y > r.Begin.Y {
			if prev := g.Row(y - 1); prev == nil || !prev.multiline {
				sb.WriteByte('\n')
			}
		}
		if row := g.Row(y); row != nil {
			sb.WriteString(row.textBetween(from, to))
		}
	}
	return sb.String()
}

// SelectedText returns the text of every selection in row-major order. Ranges
// that continue on a later row are separated by "\n".
func (g *Grid) SelectedText() string {
	var sb strings.Builder
	lastRow := 0
	for i, r := range g.selections {
		if i > 0 && r.Begin.Y > lastRow {
			sb.WriteByte('\n')
		}
		sb.WriteString(g.TextRange(r))
		lastRow = r.End.Y
		if r.End.X == 0 {
			lastRow--
		}
	}
	return sb.String()
}

// Copy returns the selected text and stores it in the system clipboard.
func (g *Grid) Copy() string {
	text := g.SelectedText()
	if text != "" {
		g.clipboard.Write(ClipboardSystem, []byte(text))
	}
	return text
}

// Paste inserts the system clipboard contents at the cursor.
func (g *Grid) Paste() error {
	text := g.clipboard.Read(ClipboardSystem)
	if text == "" {
		return nil
	}
	return g.Insert(text)
}
