package termgrid

import (
	"image/color"

	"github.com/danielgatis/go-ansicode"
)

// base16 holds the eight standard colors followed by their bright variants.
var base16 = [16]color.RGBA{
	{0, 0, 0, 255},
	{205, 49, 49, 255},
	{13, 188, 121, 255},
	{229, 229, 16, 255},
	{36, 114, 200, 255},
	{188, 63, 188, 255},
	{17, 168, 205, 255},
	{229, 229, 229, 255},
	{102, 102, 102, 255},
	{241, 76, 76, 255},
	{35, 209, 139, 255},
	{245, 245, 67, 255},
	{59, 142, 234, 255},
	{214, 112, 214, 255},
	{41, 184, 219, 255},
	{255, 255, 255, 255},
}

// DefaultPalette is the xterm 256-color palette: base16, a 6x6x6 cube from
// index 16 and a 24 step gray ramp from 232.
var DefaultPalette = newPalette()

func newPalette() [256]color.RGBA {
	var p [256]color.RGBA
	copy(p[:], base16[:])
	for i := 0; i < 216; i++ {
		r, g, b := i/36, i/6%6, i%6
		p[16+i] = color.RGBA{uint8(r * 51), uint8(g * 51), uint8(b * 51), 255}
	}
	for i := 0; i < 24; i++ {
		v := uint8(8 + i*10)
		p[232+i] = color.RGBA{v, v, v, 255}
	}
	return p
}

// Colors used where a cell or the cursor has none of its own.
var (
	DefaultForeground  = base16[7]
	DefaultBackground  = base16[0]
	DefaultCursorColor = base16[7]
)

// Semantic color names past the palette, shared with the escape decoder.
const (
	NamedColorForeground       = int(ansicode.NamedColorForeground)
	NamedColorBackground       = int(ansicode.NamedColorBackground)
	NamedColorCursor           = int(ansicode.NamedColorCursor)
	NamedColorDimBlack         = int(ansicode.NamedColorDimBlack)
	NamedColorDimWhite         = int(ansicode.NamedColorDimWhite)
	NamedColorBrightForeground = int(ansicode.NamedColorBrightForeground)
	NamedColorDimForeground    = int(ansicode.NamedColorDimForeground)
)

func defaultColor(fg bool) color.RGBA {
	if fg {
		return DefaultForeground
	}
	return DefaultBackground
}

// dim scales c to two thirds of its intensity.
func dim(c color.RGBA) color.RGBA {
	return color.RGBA{uint8(int(c.R) * 2 / 3), uint8(int(c.G) * 2 / 3), uint8(int(c.B) * 2 / 3), c.A}
}

// ResolveColor converts a cell color to RGBA. Nil and out-of-range colors
// resolve to the default foreground or background.
func ResolveColor(c color.Color, fg bool) color.RGBA {
	switch v := c.(type) {
	case nil:
		return defaultColor(fg)
	case color.RGBA:
		return v
	case *IndexedColor:
		if v.Index < 0 || v.Index >= len(DefaultPalette) {
			return defaultColor(fg)
		}
		return DefaultPalette[v.Index]
	case *NamedColor:
		return resolveNamed(v.Name, fg)
	}
	return color.RGBAModel.Convert(c).(color.RGBA)
}

func resolveNamed(name int, fg bool) color.RGBA {
	switch {
	case name >= 0 && name < len(base16):
		return base16[name]
	case name >= NamedColorDimBlack && name <= NamedColorDimWhite:
		return dim(base16[name-NamedColorDimBlack])
	}
	switch name {
	case NamedColorForeground:
		return DefaultForeground
	case NamedColorBackground:
		return DefaultBackground
	case NamedColorCursor:
		return DefaultCursorColor
	case NamedColorBrightForeground:
		return base16[15]
	case NamedColorDimForeground:
		return dim(DefaultForeground)
	}
	return defaultColor(fg)
}

// CellColors returns the resolved foreground and background of c, falling back
// to the row override and then to the defaults. Reverse video swaps them.
func CellColors(row *Row, c *Cell) (fg, bg color.RGBA) {
	fgc, bgc := c.Fg, c.Bg
	if fgc == nil && row != nil {
		fgc = row.Fg
	}
	if bgc == nil && row != nil {
		bgc = row.Bg
	}
	fg, bg = ResolveColor(fgc, true), ResolveColor(bgc, false)
	if c.HasFlag(CellFlagReverse) {
		fg, bg = bg, fg
	}
	return fg, bg
}
