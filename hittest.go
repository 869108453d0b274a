package termgrid

import "image"

// CellSize returns the pixel size of one column and one row.
func (g *Grid) CellSize() (width, height int) {
	return g.metrics.DefaultAdvance(), g.metrics.LineHeight()
}

// RowRect returns the bounds of row y relative to the top-left of the viewport.
func (g *Grid) RowRect(y int) image.Rectangle {
	cw, ch := g.CellSize()
	top := (y - g.visible) * ch
	return image.Rect(0, top, g.width*cw, top+ch)
}

// CellGeometry returns the rectangles of the character covering p.
// Placeholder cells report the geometry of their head.
func (g *Grid) CellGeometry(p Point) CellGeometry {
	cw, ch := g.CellSize()
	p = g.snapHead(p)
	vol := 1
	var r rune
	if c := g.Cell(p); c != nil {
		vol = c.Volume
		r = c.Char
	}
	left, top := p.X*cw, (p.Y-g.visible)*ch
	bg := image.Rect(left, top, left+vol*cw, top+ch)
	geom := CellGeometry{Background: bg, Foreground: bg}
	if b, ok := g.metrics.(GlyphBounder); ok && r != 0 {
		if ink, ok := b.GlyphBounds(r); ok {
			geom.Foreground = ink.Add(bg.Min).Intersect(bg)
		}
	}
	return geom
}

// Intersect returns the head cell under the pixel px (viewport coordinates),
// or InvalidPoint when px is outside the buffer.
func (g *Grid) Intersect(px image.Point) Point {
	p, _ := g.IntersectWithCell(px)
	return p
}

// IntersectWithCell is Intersect that also returns the cell, which is nil for
// rows that have not been written yet.
func (g *Grid) IntersectWithCell(px image.Point) (Point, *Cell) {
	first := max(g.visible, g.trimmed)
	last := min(g.visible+g.height, g.lastAddressableRow()+1)
	for y := first; y < last; y++ {
		if !px.In(g.RowRect(y)) {
			continue
		}
		for x := 0; x < g.width; x++ {
			p := Pt(x, y)
			if px.In(g.CellGeometry(p).Background) {
				p = g.snapHead(p)
				return p, g.Cell(p)
			}
		}
	}
	return InvalidPoint, nil
}
