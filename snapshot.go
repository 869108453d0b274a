package termgrid

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// SessionState captures everything needed to rebuild a grid after a reload.
// It is owned by the embedding application; the grid never keeps a reference.
type SessionState struct {
	BufferWidth         int            `json:"buffer_width"`
	BufferHeight        int            `json:"buffer_height"`
	VisibleIndex        int            `json:"visible_index"`
	MaxBufferHeight     int            `json:"max_buffer_height"`
	MinimumVisibleIndex int            `json:"minimum_visible_index,omitempty"`
	CursorPoint         Point          `json:"cursor_point"`
	Selections          []Range        `json:"selections,omitempty"`
	Cursor              CursorSettings `json:"cursor"`
	Lines               []StateLine    `json:"lines,omitempty"`
}

// StateLine is one retained row.
type StateLine struct {
	Text      string         `json:"text"`
	Multiline bool           `json:"multiline,omitempty"`
	Segments  []StateSegment `json:"segments,omitempty"`
}

// StateSegment is a run of characters sharing colors and attributes.
type StateSegment struct {
	Text  string     `json:"text"`
	Fg    string     `json:"fg,omitempty"`
	Bg    string     `json:"bg,omitempty"`
	Attrs StateAttrs `json:"attrs,omitempty"`
}

// StateAttrs holds text formatting attributes.
type StateAttrs struct {
	Bold          bool `json:"bold,omitempty"`
	Dim           bool `json:"dim,omitempty"`
	Italic        bool `json:"italic,omitempty"`
	Underline     bool `json:"underline,omitempty"`
	Blink         bool `json:"blink,omitempty"`
	Reverse       bool `json:"reverse,omitempty"`
	Hidden        bool `json:"hidden,omitempty"`
	Strikethrough bool `json:"strikethrough,omitempty"`
}

// State returns a snapshot of the grid.
func (g *Grid) State() SessionState {
	s := SessionState{
		BufferWidth:         g.width,
		BufferHeight:        g.height,
		VisibleIndex:        g.visible,
		MaxBufferHeight:     g.maxHeight,
		MinimumVisibleIndex: g.trimmed,
		CursorPoint:         g.cursor,
		Selections:          g.Selections(),
		Cursor:              g.cursorSettings,
		Lines:               make([]StateLine, len(g.rows)),
	}
	for i, row := range g.rows {
		s.Lines[i] = StateLine{
			Text:      row.Text(),
			Multiline: row.multiline,
			Segments:  rowSegments(row),
		}
	}
	return s
}

// Restore replaces the grid contents with s.
func (g *Grid) Restore(s SessionState) error {
	if s.BufferWidth < 1 || s.BufferHeight < 1 || s.MaxBufferHeight < 1 || s.MinimumVisibleIndex < 0 {
		return fmt.Errorf("%w: session %dx%d max %d from %d", ErrInvalidArgument,
			s.BufferWidth, s.BufferHeight, s.MaxBufferHeight, s.MinimumVisibleIndex)
	}
	defer g.commit()

	g.pool.put(g.rows...)
	g.rows = nil
	g.width, g.height, g.maxHeight = s.BufferWidth, s.BufferHeight, s.MaxBufferHeight
	g.trimmed = s.MinimumVisibleIndex
	g.pendingWrap = false
	g.anchor = InvalidPoint
	g.selecting = EmptyRange

	for i, line := range s.Lines {
		row := g.ensureRow(g.trimmed + i)
		segments := line.Segments
		if len(segments) == 0 && line.Text != "" {
			segments = []StateSegment{{Text: line.Text}}
		}
		x := 0
		for _, seg := range segments {
			attrs := NewCell()
			attrs.Fg = parseColorToken(seg.Fg)
			attrs.Bg = parseColorToken(seg.Bg)
			attrs.Flags = attrsToFlags(seg.Attrs)
			for _, r := range seg.Text {
				vol := volumeOf(g.metrics, r)
				if vol > g.width {
					vol = g.width
				}
				if x+vol > g.width {
					continue
				}
				row.setChar(x, r, vol, attrs)
				x += vol
			}
		}
		row.multiline = line.Multiline
	}
	g.trim()

	g.cursor = s.CursorPoint
	g.visible = s.VisibleIndex
	g.cursorSettings = s.Cursor
	g.selections = nil
	g.setSelections(s.Selections)
	g.touch(PropertyBufferWidth, PropertyBufferHeight, PropertyMaxBufferHeight, PropertyText,
		PropertyCursorPoint, PropertyVisibleIndex, PropertySelections, PropertyCursorSettings)
	return nil
}

// rowSegments converts a row to runs of identical style.
func rowSegments(row *Row) []StateSegment {
	var segments []StateSegment
	var current *StateSegment
	var sb strings.Builder

	flush := func() {
		if current != nil && sb.Len() > 0 {
			current.Text = sb.String()
			segments = append(segments, *current)
		}
		sb.Reset()
	}

	end := row.contentEnd()
	for x := 0; x < end; x++ {
		cell := &row.cells[x]
		if cell.IsPlaceholder() {
			continue
		}
		fg, bg, attrs := colorToken(cell.Fg), colorToken(cell.Bg), flagsToAttrs(cell.Flags)
		if current == nil || current.Fg != fg || current.Bg != bg || current.Attrs != attrs {
			flush()
			current = &StateSegment{Fg: fg, Bg: bg, Attrs: attrs}
		}
		if cell.Char == 0 {
			sb.WriteByte(' ')
		} else {
			sb.WriteRune(cell.Char)
		}
	}
	flush()

	// A plain row is fully described by its text.
	if len(segments) == 1 && segments[0].Fg == "" && segments[0].Bg == "" && segments[0].Attrs == (StateAttrs{}) {
		return nil
	}
	return segments
}

func flagsToAttrs(f CellFlags) StateAttrs {
	return StateAttrs{
		Bold:          f&CellFlagBold != 0,
		Dim:           f&CellFlagDim != 0,
		Italic:        f&CellFlagItalic != 0,
		Underline:     f&cellFlagUnderlines != 0,
		Blink:         f&(CellFlagBlinkSlow|CellFlagBlinkFast) != 0,
		Reverse:       f&CellFlagReverse != 0,
		Hidden:        f&CellFlagHidden != 0,
		Strikethrough: f&CellFlagStrike != 0,
	}
}

func attrsToFlags(a StateAttrs) CellFlags {
	var f CellFlags
	set := func(on bool, flag CellFlags) {
		if on {
			f |= flag
		}
	}
	set(a.Bold, CellFlagBold)
	set(a.Dim, CellFlagDim)
	set(a.Italic, CellFlagItalic)
	set(a.Underline, CellFlagUnderline)
	set(a.Blink, CellFlagBlinkSlow)
	set(a.Reverse, CellFlagReverse)
	set(a.Hidden, CellFlagHidden)
	set(a.Strikethrough, CellFlagStrike)
	return f
}

// colorToken encodes a color as "#rrggbb", "i:<index>" or "n:<name>". Nil encodes as "".
func colorToken(c color.Color) string {
	switch v := c.(type) {
	case nil:
		return ""
	case *IndexedColor:
		return "i:" + strconv.Itoa(v.Index)
	case *NamedColor:
		return "n:" + strconv.Itoa(v.Name)
	default:
		return ColorToHex(c)
	}
}

func parseColorToken(s string) color.Color {
	switch {
	case s == "":
		return nil
	case strings.HasPrefix(s, "i:"):
		if n, err := strconv.Atoi(s[2:]); err == nil {
			return &IndexedColor{Index: n}
		}
	case strings.HasPrefix(s, "n:"):
		if n, err := strconv.Atoi(s[2:]); err == nil {
			return &NamedColor{Name: n}
		}
	case strings.HasPrefix(s, "#") && len(s) == 7:
		if v, err := strconv.ParseUint(s[1:], 16, 32); err == nil {
			return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
		}
	}
	return nil
}

// ColorToHex resolves c against the default palette and formats it as "#rrggbb".
func ColorToHex(c color.Color) string {
	rgba := ResolveColor(c, true)
	return fmt.Sprintf("#%02x%02x%02x", rgba.R, rgba.G, rgba.B)
}
