package termgrid

import (
	"image"
	"io"
	"os"

	"github.com/unilibs/uniwidth"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
)

const (
	// DEFAULT_CELL_WIDTH is the default advance of one column in pixels.
	DEFAULT_CELL_WIDTH = 10
	// DEFAULT_CELL_HEIGHT is the default line height in pixels.
	DEFAULT_CELL_HEIGHT = 20
)

// GlyphMetrics measures characters so the grid can decide how many columns each one spans.
type GlyphMetrics interface {
	// Advance returns the horizontal advance of r in pixels.
	Advance(r rune) int
	// DefaultAdvance returns the advance of one column.
	DefaultAdvance() int
	// LineHeight returns the height of one row.
	LineHeight() int
}

// GlyphBounder is implemented by metrics that know the ink box of a glyph.
// Bounds are relative to the top-left corner of the glyph's cell.
type GlyphBounder interface {
	GlyphBounds(r rune) (image.Rectangle, bool)
}

// CellMetrics treats every character as a whole number of fixed-size columns,
// using its display width: 2 for wide characters (CJK, emoji), 1 otherwise.
type CellMetrics struct {
	Width  int
	Height int
}

var _ GlyphMetrics = CellMetrics{}

// Advance returns the display width of r times the column width.
func (m CellMetrics) Advance(r rune) int {
	w := uniwidth.RuneWidth(r)
	if w < 1 {
		w = 1
	}
	return w * m.DefaultAdvance()
}

// DefaultAdvance returns the column width.
func (m CellMetrics) DefaultAdvance() int {
	if m.Width <= 0 {
		return DEFAULT_CELL_WIDTH
	}
	return m.Width
}

// LineHeight returns the row height.
func (m CellMetrics) LineHeight() int {
	if m.Height <= 0 {
		return DEFAULT_CELL_HEIGHT
	}
	return m.Height
}

// FaceMetrics measures characters with a real font face.
// The default advance is the advance of 'M'.
type FaceMetrics struct {
	face       font.Face
	advance    int
	lineHeight int
	ascent     int
}

var (
	_ GlyphMetrics = (*FaceMetrics)(nil)
	_ GlyphBounder = (*FaceMetrics)(nil)
)

// NewFaceMetrics wraps face. A nil face falls back to basicfont.Face7x13.
func NewFaceMetrics(face font.Face) *FaceMetrics {
	if face == nil {
		face = basicfont.Face7x13
	}
	m := &FaceMetrics{face: face}
	if adv, ok := face.GlyphAdvance('M'); ok {
		m.advance = adv.Ceil()
	}
	if m.advance <= 0 {
		m.advance = DEFAULT_CELL_WIDTH
	}
	metrics := face.Metrics()
	m.lineHeight = metrics.Height.Ceil()
	if m.lineHeight <= 0 {
		m.lineHeight = DEFAULT_CELL_HEIGHT
	}
	m.ascent = metrics.Ascent.Ceil()
	return m
}

// Face returns the wrapped font face.
func (m *FaceMetrics) Face() font.Face {
	return m.face
}

// Advance returns the glyph advance of r, or the default advance if the face lacks r.
func (m *FaceMetrics) Advance(r rune) int {
	adv, ok := m.face.GlyphAdvance(r)
	if !ok {
		return m.advance
	}
	return adv.Ceil()
}

// DefaultAdvance returns the advance of 'M'.
func (m *FaceMetrics) DefaultAdvance() int {
	return m.advance
}

// LineHeight returns the face line height.
func (m *FaceMetrics) LineHeight() int {
	return m.lineHeight
}

// GlyphBounds returns the ink box of r relative to its cell, with the baseline at the ascent.
func (m *FaceMetrics) GlyphBounds(r rune) (image.Rectangle, bool) {
	b, _, ok := m.face.GlyphBounds(r)
	if !ok {
		return image.Rectangle{}, false
	}
	return image.Rect(
		b.Min.X.Floor(), m.ascent+b.Min.Y.Floor(),
		b.Max.X.Ceil(), m.ascent+b.Max.Y.Ceil(),
	), true
}

// LoadFont loads a TrueType or OpenType font from a file path.
func LoadFont(path string, size float64) (font.Face, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return LoadFontFromReader(f, size)
}

// LoadFontFromReader loads a TrueType or OpenType font from an io.Reader.
func LoadFontFromReader(r io.Reader, size float64) (font.Face, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	ft, err := opentype.Parse(data)
	if err != nil {
		return nil, err
	}

	return opentype.NewFace(ft, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// volumeOf returns how many columns r spans: ceil(advance / default advance), at least 1.
func volumeOf(m GlyphMetrics, r rune) int {
	def := m.DefaultAdvance()
	if def <= 0 {
		return 1
	}
	adv := m.Advance(r)
	vol := (adv + def - 1) / def
	if vol < 1 {
		vol = 1
	}
	return vol
}

// isZeroWidth returns true for combining marks and other runes that take no column.
func isZeroWidth(r rune) bool {
	return r >= ' ' && uniwidth.RuneWidth(r) == 0
}

// StringWidth returns the total display width of a string (sum of rune widths).
func StringWidth(s string) int {
	return uniwidth.StringWidth(s)
}
