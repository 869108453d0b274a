package termgrid

import (
	"image/color"

	"github.com/danielgatis/go-ansicode"
)

// Ensure ansiHandler implements ansicode.Handler
var _ ansicode.Handler = (*ansiHandler)(nil)

// IndexedColor references a color by palette index (0-255).
// Resolution to actual RGBA happens at render time using the palette.
type IndexedColor struct {
	Index int
}

// RGBA implements color.Color, returning a placeholder (actual resolution happens at render time).
func (c *IndexedColor) RGBA() (r, g, b, a uint32) {
	return 0, 0, 0, 0xffff
}

// NamedColor references a color by semantic name (foreground, background, cursor, etc.).
// Resolution to actual RGBA happens at render time using the palette and defaults.
type NamedColor struct {
	Name int
}

// RGBA implements color.Color, returning a placeholder (actual resolution happens at render time).
func (c *NamedColor) RGBA() (r, g, b, a uint32) {
	return 0, 0, 0, 0xffff
}

// ansiHandler turns decoded escape sequences into grid writes.
//
// The grid is a transcript, not a screen: sequences that address rows
// (absolute cursor moves, scroll regions, alternate screen) are ignored, and
// line feed always starts a new logical line. Anything the decoder reports
// that is not listed here falls through to the embedded interface.
type ansiHandler struct {
	ansicode.Handler

	g        *Grid
	charsets [4]int
	active   int
	titles   []string
}

func (h *ansiHandler) Input(r rune) {
	if h.charsets[h.active] == charsetLineDrawing {
		r = translateLineDrawing(r)
	}
	if isZeroWidth(r) {
		return
	}
	h.g.put(r, h.g.template)
}

func (h *ansiHandler) LineFeed()       { h.g.newLine() }
func (h *ansiHandler) CarriageReturn() { h.g.carriageReturn() }
func (h *ansiHandler) Backspace()      { h.g.backspace() }
func (h *ansiHandler) Tab(n int)       { h.g.tab(n) }
func (h *ansiHandler) Bell()           { h.g.bell.Ring() }
func (h *ansiHandler) Substitute()     { h.g.put('?', h.g.template) }

func (h *ansiHandler) ClearLine(mode ansicode.LineClearMode) {
	g := h.g
	row := g.Row(g.cursor.Y)
	if row == nil {
		return
	}
	switch mode {
	case ansicode.LineClearModeRight:
		row.clearFrom(g.cursor.X)
		row.multiline = false
	case ansicode.LineClearModeLeft:
		for x := 0; x <= g.cursor.X && x < row.Len(); x++ {
			row.clearChar(x)
		}
	case ansicode.LineClearModeAll:
		row.clearFrom(0)
		row.multiline = false
	}
	g.touch(PropertyText)
}

func (h *ansiHandler) ClearScreen(mode ansicode.ClearMode) {
	g := h.g
	switch mode {
	case ansicode.ClearModeBelow:
		g.clearFrom(g.cursor)
	case ansicode.ClearModeAbove:
		for y := g.visible; y < g.cursor.Y; y++ {
			if row := g.Row(y); row != nil {
				row.clearFrom(0)
			}
		}
		if row := g.Row(g.cursor.Y); row != nil {
			for x := 0; x <= g.cursor.X && x < row.Len(); x++ {
				row.clearChar(x)
			}
		}
		g.touch(PropertyText)
	case ansicode.ClearModeAll:
		g.clearFrom(Pt(0, g.visible))
		g.cursor = Pt(0, g.visible)
		g.pendingWrap = false
		g.touch(PropertyCursorPoint)
	case ansicode.ClearModeSaved:
		g.pool.put(g.rows...)
		g.rows = nil
		g.cursor = Pt(0, g.trimmed)
		g.pendingWrap = false
		g.touch(PropertyText, PropertyCursorPoint)
	}
}

func (h *ansiHandler) EraseChars(n int) {
	g := h.g
	row := g.Row(g.cursor.Y)
	if row == nil {
		return
	}
	for i := 0; i < n && g.cursor.X+i < row.Len(); i++ {
		row.clearChar(g.cursor.X + i)
	}
	g.touch(PropertyText)
}

func (h *ansiHandler) DeleteChars(n int) {
	g := h.g
	row := g.Row(g.cursor.Y)
	if row == nil || n <= 0 {
		return
	}
	x := row.Head(g.cursor.X)
	for i := 0; i < n && x < row.Len(); i++ {
		row.clearChar(x)
		copy(row.cells[x:], row.cells[x+1:])
		row.cells[row.Len()-1] = Cell{Volume: 1, Flags: CellFlagDirty}
	}
	row.textValid = false
	g.touch(PropertyText)
}

func (h *ansiHandler) InsertBlank(n int) {
	g := h.g
	row := g.ensureRow(g.cursor.Y)
	x := g.cursor.X
	row.clearChar(x)
	for i := 0; i < n && x < row.Len(); i++ {
		copy(row.cells[x+1:], row.cells[x:])
		row.cells[x] = Cell{Volume: 1, Flags: CellFlagDirty}
		row.clipEdge()
	}
	row.textValid = false
	g.touch(PropertyText)
}

func (h *ansiHandler) GotoCol(col int) {
	h.g.pendingWrap = false
	h.g.cursor.X = clamp(col, 0, h.g.width-1)
	h.g.touch(PropertyCursorPoint)
}

func (h *ansiHandler) MoveForward(n int) {
	h.GotoCol(h.g.cursor.X + n)
}

func (h *ansiHandler) MoveBackward(n int) {
	h.GotoCol(h.g.cursor.X - n)
}

func (h *ansiHandler) MoveForwardTabs(n int) {
	h.g.tab(n)
}

func (h *ansiHandler) MoveBackwardTabs(n int) {
	g := h.g
	for i := 0; i < n && g.cursor.X > 0; i++ {
		g.cursor.X = ((g.cursor.X - 1) / g.tabWidth) * g.tabWidth
	}
	g.pendingWrap = false
	g.touch(PropertyCursorPoint)
}

func (h *ansiHandler) MoveDownCr(n int) {
	for i := 0; i < n; i++ {
		h.g.newLine()
	}
}

func (h *ansiHandler) SetTerminalCharAttribute(attr ansicode.TerminalCharAttribute) {
	t := &h.g.template
	switch attr.Attr {
	case ansicode.CharAttributeReset:
		*t = NewCell()
	case ansicode.CharAttributeBold:
		t.SetFlag(CellFlagBold)
	case ansicode.CharAttributeDim:
		t.SetFlag(CellFlagDim)
	case ansicode.CharAttributeItalic:
		t.SetFlag(CellFlagItalic)
	case ansicode.CharAttributeUnderline:
		t.ClearFlag(cellFlagUnderlines)
		t.SetFlag(CellFlagUnderline)
	case ansicode.CharAttributeDoubleUnderline:
		t.ClearFlag(cellFlagUnderlines)
		t.SetFlag(CellFlagDoubleUnderline)
	case ansicode.CharAttributeCurlyUnderline:
		t.ClearFlag(cellFlagUnderlines)
		t.SetFlag(CellFlagCurlyUnderline)
	case ansicode.CharAttributeDottedUnderline:
		t.ClearFlag(cellFlagUnderlines)
		t.SetFlag(CellFlagDottedUnderline)
	case ansicode.CharAttributeDashedUnderline:
		t.ClearFlag(cellFlagUnderlines)
		t.SetFlag(CellFlagDashedUnderline)
	case ansicode.CharAttributeBlinkSlow:
		t.SetFlag(CellFlagBlinkSlow)
	case ansicode.CharAttributeBlinkFast:
		t.SetFlag(CellFlagBlinkFast)
	case ansicode.CharAttributeReverse:
		t.SetFlag(CellFlagReverse)
	case ansicode.CharAttributeHidden:
		t.SetFlag(CellFlagHidden)
	case ansicode.CharAttributeStrike:
		t.SetFlag(CellFlagStrike)
	case ansicode.CharAttributeCancelBold:
		t.ClearFlag(CellFlagBold)
	case ansicode.CharAttributeCancelBoldDim:
		t.ClearFlag(CellFlagBold | CellFlagDim)
	case ansicode.CharAttributeCancelItalic:
		t.ClearFlag(CellFlagItalic)
	case ansicode.CharAttributeCancelUnderline:
		t.ClearFlag(cellFlagUnderlines)
	case ansicode.CharAttributeCancelBlink:
		t.ClearFlag(CellFlagBlinkSlow | CellFlagBlinkFast)
	case ansicode.CharAttributeCancelReverse:
		t.ClearFlag(CellFlagReverse)
	case ansicode.CharAttributeCancelHidden:
		t.ClearFlag(CellFlagHidden)
	case ansicode.CharAttributeCancelStrike:
		t.ClearFlag(CellFlagStrike)
	case ansicode.CharAttributeForeground:
		t.Fg = attributeColor(attr)
	case ansicode.CharAttributeBackground:
		t.Bg = attributeColor(attr)
	}
}

// attributeColor converts an SGR color. A missing color means "use the default", which is nil.
func attributeColor(attr ansicode.TerminalCharAttribute) color.Color {
	switch {
	case attr.RGBColor != nil:
		return color.RGBA{R: attr.RGBColor.R, G: attr.RGBColor.G, B: attr.RGBColor.B, A: 255}
	case attr.IndexedColor != nil:
		return &IndexedColor{Index: int(attr.IndexedColor.Index)}
	case attr.NamedColor != nil:
		name := int(*attr.NamedColor)
		if name == NamedColorForeground || name == NamedColorBackground {
			return nil
		}
		return &NamedColor{Name: name}
	}
	return nil
}

func (h *ansiHandler) SetTitle(title string) {
	if title != h.g.title {
		h.g.title = title
		h.g.touch(PropertyTitle)
	}
}

func (h *ansiHandler) PushTitle() {
	h.titles = append(h.titles, h.g.title)
}

func (h *ansiHandler) PopTitle() {
	if n := len(h.titles); n > 0 {
		h.SetTitle(h.titles[n-1])
		h.titles = h.titles[:n-1]
	}
}

func (h *ansiHandler) SetCursorStyle(style ansicode.CursorStyle) {
	s := h.g.cursorSettings
	// Styles come in blinking/steady pairs: block, underline, bar.
	s.Style = CursorStyle(int(style) / 2)
	s.Blink = int(style)%2 == 0
	if s != h.g.cursorSettings {
		h.g.cursorSettings = s
		h.g.touch(PropertyCursorSettings)
	}
}

func (h *ansiHandler) ClipboardStore(clipboard byte, data []byte) {
	h.g.clipboard.Write(clipboard, data)
}

const (
	charsetASCII       = 0
	charsetLineDrawing = 1
)

func (h *ansiHandler) ConfigureCharset(index ansicode.CharsetIndex, charset ansicode.Charset) {
	if i := int(index); i >= 0 && i < len(h.charsets) {
		h.charsets[i] = int(charset)
	}
}

func (h *ansiHandler) SetActiveCharset(n int) {
	if n >= 0 && n < len(h.charsets) {
		h.active = n
	}
}

func (h *ansiHandler) ResetState() {
	h.g.template = NewCell()
	h.charsets = [4]int{}
	h.active = 0
}

func translateLineDrawing(r rune) rune {
	switch r {
	case 'j':
		return '┘'
	case 'k':
		return '┐'
	case 'l':
		return '┌'
	case 'm':
		return '└'
	case 'n':
		return '┼'
	case 'q':
		return '─'
	case 't':
		return '├'
	case 'u':
		return '┤'
	case 'v':
		return '┴'
	case 'w':
		return '┬'
	case 'x':
		return '│'
	default:
		return r
	}
}

// Sequences a transcript has no use for.

func (h *ansiHandler) ApplicationCommandReceived(data []byte)                         {}
func (h *ansiHandler) PrivacyMessageReceived(data []byte)                             {}
func (h *ansiHandler) StartOfStringReceived(data []byte)                              {}
func (h *ansiHandler) ClipboardLoad(clipboard byte, terminator string)                {}
func (h *ansiHandler) ClearTabs(mode ansicode.TabulationClearMode)                    {}
func (h *ansiHandler) HorizontalTabSet()                                              {}
func (h *ansiHandler) Decaln()                                                        {}
func (h *ansiHandler) DeleteLines(n int)                                              {}
func (h *ansiHandler) InsertBlankLines(n int)                                         {}
func (h *ansiHandler) DeviceStatus(n int)                                             {}
func (h *ansiHandler) IdentifyTerminal(b byte)                                        {}
func (h *ansiHandler) Goto(row, col int)                                              { h.GotoCol(col) }
func (h *ansiHandler) GotoLine(row int)                                               {}
func (h *ansiHandler) MoveUp(n int)                                                   {}
func (h *ansiHandler) MoveUpCr(n int)                                                 {}
func (h *ansiHandler) MoveDown(n int)                                                 {}
func (h *ansiHandler) ReverseIndex()                                                  {}
func (h *ansiHandler) SaveCursorPosition()                                            {}
func (h *ansiHandler) RestoreCursorPosition()                                         {}
func (h *ansiHandler) ScrollUp(n int)                                                 {}
func (h *ansiHandler) ScrollDown(n int)                                               {}
func (h *ansiHandler) SetScrollingRegion(top, bottom int)                             {}
func (h *ansiHandler) SetMode(mode ansicode.TerminalMode)                             {}
func (h *ansiHandler) UnsetMode(mode ansicode.TerminalMode)                           {}
func (h *ansiHandler) SetKeypadApplicationMode()                                      {}
func (h *ansiHandler) UnsetKeypadApplicationMode()                                    {}
func (h *ansiHandler) PushKeyboardMode(mode ansicode.KeyboardMode)                    {}
func (h *ansiHandler) PopKeyboardMode(n int)                                          {}
func (h *ansiHandler) ReportKeyboardMode()                                            {}
func (h *ansiHandler) SetModifyOtherKeys(modify ansicode.ModifyOtherKeys)             {}
func (h *ansiHandler) ReportModifyOtherKeys()                                         {}
func (h *ansiHandler) ResetColor(i int)                                               {}
func (h *ansiHandler) SetColor(index int, c color.Color)                              {}
func (h *ansiHandler) SetDynamicColor(prefix string, index int, terminator string)    {}
func (h *ansiHandler) SetHyperlink(hyperlink *ansicode.Hyperlink)                     {}
func (h *ansiHandler) SetWorkingDirectory(uri string)                                 {}
func (h *ansiHandler) ShellIntegrationMark(mark ansicode.ShellIntegrationMark, c int) {}
func (h *ansiHandler) SixelReceived(params [][]uint16, data []byte)                   {}
func (h *ansiHandler) TextAreaSizeChars()                                             {}
func (h *ansiHandler) TextAreaSizePixels()                                            {}
func (h *ansiHandler) CellSizePixels()                                                {}

func (h *ansiHandler) SetKeyboardMode(mode ansicode.KeyboardMode, behavior ansicode.KeyboardModeBehavior) {
}
