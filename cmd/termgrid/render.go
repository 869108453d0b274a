package main

import (
	"image/color"

	"github.com/gdamore/tcell/v2"

	termgrid "github.com/danielgatis/go-termgrid"
)

const underlines = termgrid.CellFlagUnderline | termgrid.CellFlagDoubleUnderline |
	termgrid.CellFlagCurlyUnderline | termgrid.CellFlagDottedUnderline | termgrid.CellFlagDashedUnderline

var cursorStyles = map[termgrid.CursorStyle][2]tcell.CursorStyle{
	termgrid.CursorStyleBlock:     {tcell.CursorStyleSteadyBlock, tcell.CursorStyleBlinkingBlock},
	termgrid.CursorStyleUnderline: {tcell.CursorStyleSteadyUnderline, tcell.CursorStyleBlinkingUnderline},
	termgrid.CursorStyleBar:       {tcell.CursorStyleSteadyBar, tcell.CursorStyleBlinkingBar},
}

func tcellColor(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// cellStyle converts a cell's colors and flags. Cells without a color keep
// the terminal's own default.
func cellStyle(c *termgrid.Cell, selected bool) tcell.Style {
	st := tcell.StyleDefault
	if c.Fg != nil {
		st = st.Foreground(tcellColor(termgrid.ResolveColor(c.Fg, true)))
	}
	if c.Bg != nil {
		st = st.Background(tcellColor(termgrid.ResolveColor(c.Bg, false)))
	}
	st = st.
		Bold(c.HasFlag(termgrid.CellFlagBold)).
		Dim(c.HasFlag(termgrid.CellFlagDim)).
		Italic(c.HasFlag(termgrid.CellFlagItalic)).
		StrikeThrough(c.HasFlag(termgrid.CellFlagStrike)).
		Blink(c.HasFlag(termgrid.CellFlagBlinkSlow) || c.HasFlag(termgrid.CellFlagBlinkFast))
	if c.Flags&underlines != 0 {
		st = st.Underline(true)
	}
	return st.Reverse(c.HasFlag(termgrid.CellFlagReverse) != selected)
}

// draw paints the viewport of g onto s and places the cursor.
func draw(s tcell.Screen, g termgrid.ScreenBuffer) {
	s.Clear()
	w, h := s.Size()
	top := g.VisibleIndex()

	for sy := 0; sy < h && sy < g.Height(); sy++ {
		y := top + sy
		row := g.Row(y)
		if row == nil {
			continue
		}
		for x := 0; x < w && x < row.Len(); x++ {
			cell := row.Cell(x)
			if cell.IsPlaceholder() {
				continue
			}
			ch := cell.Char
			if ch == 0 || cell.HasFlag(termgrid.CellFlagHidden) {
				ch = ' '
			}
			s.SetContent(x, sy, ch, nil, cellStyle(cell, g.IsSelected(termgrid.Pt(x, y))))
		}
	}

	cur := g.CursorPoint()
	cs := g.CursorSettings()
	if cs.Visible && cur.Y >= top && cur.Y-top < h && cur.X < w {
		blink := 0
		if cs.Blink {
			blink = 1
		}
		s.SetCursorStyle(cursorStyles[cs.Style][blink])
		s.ShowCursor(cur.X, cur.Y-top)
	} else {
		s.HideCursor()
	}
	s.Show()
}
