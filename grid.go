package termgrid

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/danielgatis/go-ansicode"
)

const (
	// DEFAULT_WIDTH is the default number of columns.
	DEFAULT_WIDTH = 80
	// DEFAULT_HEIGHT is the default number of viewport rows.
	DEFAULT_HEIGHT = 24
	// DEFAULT_MAX_BUFFER_HEIGHT is the default scroll-back cap in rows.
	DEFAULT_MAX_BUFFER_HEIGHT = 1000
	// DEFAULT_TAB_WIDTH is the default distance between tab stops.
	DEFAULT_TAB_WIDTH = 8
)

// ScreenBuffer is the read-only view a renderer draws from.
type ScreenBuffer interface {
	Width() int
	Height() int
	VisibleIndex() int
	Row(y int) *Row
	IsSelected(p Point) bool
	CursorPoint() Point
	CursorSettings() CursorSettings
	Subscribe(l Listener) func()
}

var _ ScreenBuffer = (*Grid)(nil)

// Grid is a scrollable buffer of character cells with a cursor and selections.
//
// Rows are addressed by absolute index. When the buffer grows past its maximum
// height the oldest rows are discarded and MinimumVisibleIndex advances, so
// points keep naming the same row for as long as it is retained.
//
// A Grid holds no locks. It must only be used from one goroutine at a time,
// normally the dispatcher that owns it.
type Grid struct {
	rows    []*Row
	trimmed int
	pool    rowPool

	width     int
	height    int
	maxHeight int
	tabWidth  int
	visible   int

	cursor         Point
	cursorSettings CursorSettings
	pendingWrap    bool
	inserting      bool

	selections []Range
	selecting  Range
	anchor     Point

	template Cell
	title    string

	metrics   GlyphMetrics
	clipboard ClipboardProvider
	bell      BellProvider
	logger    *log.Logger
	decoder   *ansicode.Decoder

	listeners    []listenerEntry
	nextListener int
	pending      []Property
	layoutDirty  bool

	restore *SessionState
}

// Option configures a Grid during construction.
type Option func(*Grid)

// WithSize sets the buffer width and viewport height.
// Values <= 0 are replaced with defaults (80x24).
func WithSize(width, height int) Option {
	if width <= 0 {
		width = DEFAULT_WIDTH
	}
	if height <= 0 {
		height = DEFAULT_HEIGHT
	}
	return func(g *Grid) {
		g.width = width
		g.height = height
	}
}

// WithMaxBufferHeight caps the number of retained rows. Values <= 0 keep the default.
func WithMaxBufferHeight(n int) Option {
	return func(g *Grid) {
		if n > 0 {
			g.maxHeight = n
		}
	}
}

// WithTabWidth sets the distance between tab stops. Values <= 0 keep the default.
func WithTabWidth(n int) Option {
	return func(g *Grid) {
		if n > 0 {
			g.tabWidth = n
		}
	}
}

// WithMetrics sets the glyph metrics used to size wide characters and cells.
func WithMetrics(m GlyphMetrics) Option {
	return func(g *Grid) {
		if m != nil {
			g.metrics = m
		}
	}
}

// WithClipboard sets the clipboard used by Copy, Paste and OSC 52.
// Defaults to a no-op if not set.
func WithClipboard(p ClipboardProvider) Option {
	return func(g *Grid) {
		if p != nil {
			g.clipboard = p
		}
	}
}

// WithBell sets the handler for bell characters in written output.
func WithBell(p BellProvider) Option {
	return func(g *Grid) {
		if p != nil {
			g.bell = p
		}
	}
}

// WithLogger sets the logger. Defaults to a logger that discards everything.
func WithLogger(l *log.Logger) Option {
	return func(g *Grid) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithState restores a saved session once the grid is constructed.
func WithState(s SessionState) Option {
	return func(g *Grid) {
		g.restore = &s
	}
}

// New creates a grid with the given options.
// Defaults to 80x24 with a 1000 row scroll-back.
func New(opts ...Option) *Grid {
	g := &Grid{
		width:          DEFAULT_WIDTH,
		height:         DEFAULT_HEIGHT,
		maxHeight:      DEFAULT_MAX_BUFFER_HEIGHT,
		tabWidth:       DEFAULT_TAB_WIDTH,
		cursorSettings: DefaultCursorSettings(),
		selecting:      EmptyRange,
		anchor:         InvalidPoint,
		template:       NewCell(),
		metrics:        CellMetrics{Width: DEFAULT_CELL_WIDTH, Height: DEFAULT_CELL_HEIGHT},
		clipboard:      NoopClipboard{},
		bell:           NoopBell{},
		logger:         log.New(io.Discard),
	}

	for _, opt := range opts {
		opt(g)
	}

	g.decoder = ansicode.NewDecoder(&ansiHandler{g: g})

	if g.restore != nil {
		if err := g.Restore(*g.restore); err != nil {
			g.logger.Warn("discarding saved session", "err", err)
		}
		g.restore = nil
	}
	return g
}

// Width returns the number of columns.
func (g *Grid) Width() int {
	return g.width
}

// Height returns the number of viewport rows.
func (g *Grid) Height() int {
	return g.height
}

// MaxBufferHeight returns the scroll-back cap in rows.
func (g *Grid) MaxBufferHeight() int {
	return g.maxHeight
}

// RowCount returns the number of retained rows.
func (g *Grid) RowCount() int {
	return len(g.rows)
}

// CursorPoint returns the cursor position.
func (g *Grid) CursorPoint() Point {
	return g.cursor
}

// Title returns the last title set by written output.
func (g *Grid) Title() string {
	return g.title
}

// Metrics returns the glyph metrics in use.
func (g *Grid) Metrics() GlyphMetrics {
	return g.metrics
}

// Clipboard returns the provider used by Copy and Paste.
func (g *Grid) Clipboard() ClipboardProvider {
	return g.clipboard
}

// Row returns the row at absolute index y, or nil if it is not retained.
func (g *Grid) Row(y int) *Row {
	i := y - g.trimmed
	if i < 0 || i >= len(g.rows) {
		return nil
	}
	return g.rows[i]
}

// Cell returns the cell at p, or nil if p is not inside a retained row.
func (g *Grid) Cell(p Point) *Cell {
	r := g.Row(p.Y)
	if r == nil {
		return nil
	}
	return r.Cell(p.X)
}

// LineText returns the text of row y, or "" if it is not retained.
func (g *Grid) LineText(y int) string {
	if r := g.Row(y); r != nil {
		return r.Text()
	}
	return ""
}

// String returns the retained text, one logical line per output line.
func (g *Grid) String() string {
	if len(g.rows) == 0 {
		return ""
	}
	return g.TextRange(Range{Begin: Pt(0, g.trimmed), End: Pt(0, g.trimmed+len(g.rows))})
}

// lastAddressableRow returns the largest row the cursor may occupy.
func (g *Grid) lastAddressableRow() int {
	n := len(g.rows)
	if n < g.height {
		n = g.height
	}
	return g.trimmed + n - 1
}

// Contains returns true if p lies inside the addressable buffer.
func (g *Grid) Contains(p Point) bool {
	return p.X >= 0 && p.X < g.width && p.Y >= g.trimmed && p.Y <= g.lastAddressableRow()
}

// ensureRow materializes every row up to and including y.
func (g *Grid) ensureRow(y int) *Row {
	for g.trimmed+len(g.rows) <= y {
		g.rows = append(g.rows, g.pool.get(g.width))
	}
	return g.rows[y-g.trimmed]
}

// insertRowAfter splices a fresh row in below y, shifting later rows down.
func (g *Grid) insertRowAfter(y int) *Row {
	i := y - g.trimmed + 1
	if i >= len(g.rows) {
		return g.ensureRow(y + 1)
	}
	r := g.pool.get(g.width)
	g.rows = append(g.rows, nil)
	copy(g.rows[i+1:], g.rows[i:])
	g.rows[i] = r
	return r
}

// removeRows drops the rows in [from, to) and returns them to the pool.
func (g *Grid) removeRows(from, to int) {
	i, j := from-g.trimmed, to-g.trimmed
	if i < 0 {
		i = 0
	}
	if j > len(g.rows) {
		j = len(g.rows)
	}
	if i >= j {
		return
	}
	g.pool.put(g.rows[i:j]...)
	g.rows = append(g.rows[:i], g.rows[j:]...)
}

// trim discards the oldest rows beyond the scroll-back cap.
func (g *Grid) trim() {
	excess := len(g.rows) - g.maxHeight
	if excess <= 0 {
		return
	}
	g.pool.put(g.rows[:excess]...)
	n := copy(g.rows, g.rows[excess:])
	for i := n; i < len(g.rows); i++ {
		g.rows[i] = nil
	}
	g.rows = g.rows[:n]
	g.trimmed += excess
	g.touch(PropertyText)
	g.logger.Debug("trimmed scroll-back", "rows", excess, "minimum", g.trimmed)
}

// Resize changes the buffer width and viewport height.
// Row contents are kept where columns remain; the cursor and viewport are clamped afterwards.
func (g *Grid) Resize(width, height int) error {
	if width < 1 || height < 1 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalidArgument, width, height)
	}
	defer g.commit()

	if width != g.width {
		for _, r := range g.rows {
			r.resize(width)
		}
		g.width = width
		g.pendingWrap = false
		g.touch(PropertyBufferWidth, PropertyText)
	}
	if height != g.height {
		g.height = height
		g.touch(PropertyBufferHeight)
	}
	return nil
}

// SetMaxBufferHeight changes the scroll-back cap, discarding the oldest rows if needed.
func (g *Grid) SetMaxBufferHeight(n int) error {
	if n < 1 {
		return fmt.Errorf("%w: max buffer height %d", ErrInvalidArgument, n)
	}
	defer g.commit()
	if n != g.maxHeight {
		g.maxHeight = n
		g.touch(PropertyMaxBufferHeight)
	}
	return nil
}

// PointToIndex flattens p into y*width + x.
func (g *Grid) PointToIndex(p Point) int {
	return p.Y*g.width + p.X
}

// IndexToPoint is the inverse of PointToIndex. Negative indices return InvalidPoint.
func (g *Grid) IndexToPoint(i int) Point {
	if i < 0 {
		return InvalidPoint
	}
	return Point{X: i % g.width, Y: i / g.width}
}

// SetCursor moves the cursor to p. A placeholder target snaps to its head cell.
func (g *Grid) SetCursor(p Point) error {
	if !g.Contains(p) {
		return fmt.Errorf("%w: cursor %s outside %dx%d from row %d",
			ErrOutOfRange, p, g.width, g.lastAddressableRow()-g.trimmed+1, g.trimmed)
	}
	defer g.commit()
	g.moveCursor(g.snapHead(p))
	return nil
}

func (g *Grid) moveCursor(p Point) {
	g.pendingWrap = false
	if p != g.cursor {
		g.cursor = p
		g.touch(PropertyCursorPoint)
	}
}

// snapHead moves p left onto the head cell covering it.
func (g *Grid) snapHead(p Point) Point {
	if r := g.Row(p.Y); r != nil {
		p.X = r.Head(p.X)
	}
	return p
}

// snapEnd moves an exclusive end point right past the character covering it.
func (g *Grid) snapEnd(p Point) Point {
	r := g.Row(p.Y)
	if r == nil || p.X <= 0 || p.X >= r.Len() {
		return p
	}
	if c := r.Cell(p.X); c.IsPlaceholder() {
		head := r.Head(p.X)
		p.X = head + r.cells[head].Volume
		if p.X >= r.Len() {
			p = Pt(0, p.Y+1)
		}
	}
	return p
}

// Next returns the head cell after p, continuing on the next row at the edge.
func (g *Grid) Next(p Point) Point {
	step := 1
	if c := g.Cell(p); c != nil && c.Volume > 1 {
		step = c.Volume
	}
	p.X += step
	if p.X >= g.width {
		p = Pt(0, p.Y+1)
	}
	return p
}

// Prev returns the head cell before p, continuing at the end of the previous row.
func (g *Grid) Prev(p Point) Point {
	if p.X > 0 {
		return g.snapHead(Pt(p.X-1, p.Y))
	}
	if p.Y <= g.trimmed {
		return p
	}
	return g.snapHead(Pt(g.width-1, p.Y-1))
}

// validate re-asserts the cursor, viewport and selection invariants.
func (g *Grid) validate() {
	c := g.cursor
	if c.X >= g.width {
		c.X = g.width - 1
	}
	if c.X < 0 {
		c.X = 0
	}
	if c.Y < g.trimmed {
		c.Y = g.trimmed
	}
	if last := g.lastAddressableRow(); c.Y > last {
		c.Y = last
	}
	c = g.snapHead(c)
	if c != g.cursor {
		g.cursor = c
		g.pendingWrap = false
		g.touch(PropertyCursorPoint)
	}

	if v := g.clampVisibleIndex(g.visible); v != g.visible {
		g.visible = v
		g.touch(PropertyVisibleIndex)
	}

	g.validateSelections()
}

// logicalStart returns the first row of the logical line containing y.
func (g *Grid) logicalStart(y int) int {
	for y > g.trimmed {
		prev := g.Row(y - 1)
		if prev == nil || !prev.multiline {
			break
		}
		y--
	}
	return y
}

// logicalEnd returns the last row of the logical line containing y.
func (g *Grid) logicalEnd(y int) int {
	for {
		r := g.Row(y)
		if r == nil || !r.multiline || g.Row(y+1) == nil {
			return y
		}
		y++
	}
}

// LogicalLine returns the range covering the wrapped line that contains row y.
func (g *Grid) LogicalLine(y int) Range {
	return Range{Begin: Pt(0, g.logicalStart(y)), End: Pt(0, g.logicalEnd(y)+1)}
}

func (g *Grid) dump() string {
	var sb strings.Builder
	for i, r := range g.rows {
		fmt.Fprintf(&sb, "%4d ", g.trimmed+i)
		if r.multiline {
			sb.WriteString("+ ")
		} else {
			sb.WriteString("  ")
		}
		sb.WriteString(r.Text())
		sb.WriteByte('\n')
	}
	return sb.String()
}
