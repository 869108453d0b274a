package termgrid

import (
	"image"
	"image/color"
)

// CellFlags is a bitmask of cell rendering attributes.
type CellFlags uint16

const (
	CellFlagBold CellFlags = 1 << iota
	CellFlagDim
	CellFlagItalic
	CellFlagUnderline
	CellFlagDoubleUnderline
	CellFlagCurlyUnderline
	CellFlagDottedUnderline
	CellFlagDashedUnderline
	CellFlagBlinkSlow
	CellFlagBlinkFast
	CellFlagReverse
	CellFlagHidden
	CellFlagStrike
	CellFlagDirty
)

const cellFlagUnderlines = CellFlagUnderline | CellFlagDoubleUnderline | CellFlagCurlyUnderline |
	CellFlagDottedUnderline | CellFlagDashedUnderline

// Cell stores one grid position.
//
// A character spanning several columns lives in its head cell (Volume >= 1). The
// columns it covers after the head are placeholder cells whose Volume is the
// negative offset back to the head: -1 for the column right after it, -2 for the
// next one, and so on.
type Cell struct {
	Char      rune
	Volume    int
	TextIndex int
	Fg        color.Color
	Bg        color.Color
	Flags     CellFlags
}

// NewCell creates an empty head cell with no color overrides.
func NewCell() Cell {
	return Cell{Volume: 1}
}

// Reset clears the cell back to an empty head cell.
func (c *Cell) Reset() {
	*c = Cell{Volume: 1, Flags: CellFlagDirty}
}

// IsEmpty returns true if nothing was ever written to the cell.
func (c *Cell) IsEmpty() bool {
	return c.Char == 0 && c.Volume >= 1
}

// IsHead returns true if the cursor and selection boundaries may rest on this cell.
func (c *Cell) IsHead() bool {
	return c.Volume >= 1
}

// IsPlaceholder returns true if this cell is covered by a wide character to its left.
func (c *Cell) IsPlaceholder() bool {
	return c.Volume < 0
}

// HeadOffset returns how many columns to the left the owning head cell is (0 for heads).
func (c *Cell) HeadOffset() int {
	if c.Volume < 0 {
		return -c.Volume
	}
	return 0
}

// HasFlag returns true if the specified flag is set.
func (c *Cell) HasFlag(flag CellFlags) bool {
	return c.Flags&flag != 0
}

// SetFlag enables the specified flag without affecting others.
func (c *Cell) SetFlag(flag CellFlags) {
	c.Flags |= flag
}

// ClearFlag disables the specified flag without affecting others.
func (c *Cell) ClearFlag(flag CellFlags) {
	c.Flags &^= flag
}

// IsDirty returns true if the cell was modified since the last ClearDirty call.
func (c *Cell) IsDirty() bool {
	return c.HasFlag(CellFlagDirty)
}

// MarkDirty marks the cell as modified for dirty tracking.
func (c *Cell) MarkDirty() {
	c.SetFlag(CellFlagDirty)
}

// ClearDirty resets the dirty tracking flag.
func (c *Cell) ClearDirty() {
	c.ClearFlag(CellFlagDirty)
}

// CellGeometry is the pixel layout of one cell relative to the top-left of the viewport.
type CellGeometry struct {
	// Background covers every column of the character.
	Background image.Rectangle
	// Foreground is the glyph ink box, inside Background when the font allows it.
	Foreground image.Rectangle
}

// BackgroundRect returns the background rectangle of the cell at p.
func (g *Grid) BackgroundRect(p Point) image.Rectangle {
	return g.CellGeometry(p).Background
}

// ForegroundRect returns the glyph rectangle of the cell at p.
func (g *Grid) ForegroundRect(p Point) image.Rectangle {
	return g.CellGeometry(p).Foreground
}
