package termgrid

// MinimumVisibleIndex returns the oldest retained row.
func (g *Grid) MinimumVisibleIndex() int {
	return g.trimmed
}

// MaximumVisibleIndex returns the largest viewport offset that still shows retained rows.
func (g *Grid) MaximumVisibleIndex() int {
	max := g.trimmed + len(g.rows) - g.height
	if max < g.trimmed {
		return g.trimmed
	}
	return max
}

// VisibleIndex returns the first row shown in the viewport.
func (g *Grid) VisibleIndex() int {
	return g.visible
}

func (g *Grid) clampVisibleIndex(v int) int {
	return clamp(v, g.MinimumVisibleIndex(), g.MaximumVisibleIndex())
}

// SetVisibleIndex scrolls so that row v is at the top, clamped to the valid range.
func (g *Grid) SetVisibleIndex(v int) {
	defer g.commit()
	v = g.clampVisibleIndex(v)
	if v != g.visible {
		g.visible = v
		g.touch(PropertyVisibleIndex)
	}
}

// Scroll moves the viewport by delta rows; negative values scroll towards older rows.
func (g *Grid) Scroll(delta int) {
	g.SetVisibleIndex(g.visible + delta)
}

// ScrollToTop shows the oldest retained row.
func (g *Grid) ScrollToTop() {
	g.SetVisibleIndex(g.MinimumVisibleIndex())
}

// ScrollToBottom shows the newest rows.
func (g *Grid) ScrollToBottom() {
	g.SetVisibleIndex(g.MaximumVisibleIndex())
}

// ScrollToCursor scrolls the least amount needed to bring the cursor row into view.
func (g *Grid) ScrollToCursor() {
	y := g.cursor.Y
	switch {
	case y < g.visible:
		g.SetVisibleIndex(y)
	case y >= g.visible+g.height:
		g.SetVisibleIndex(y - g.height + 1)
	}
}

// PageUp scrolls one viewport towards older rows.
func (g *Grid) PageUp() {
	g.Scroll(-g.height)
}

// PageDown scrolls one viewport towards newer rows.
func (g *Grid) PageDown() {
	g.Scroll(g.height)
}

// LineUp scrolls one row towards older rows.
func (g *Grid) LineUp() {
	g.Scroll(-1)
}

// LineDown scrolls one row towards newer rows.
func (g *Grid) LineDown() {
	g.Scroll(1)
}

// IsRowVisible returns true if row y is inside the viewport.
func (g *Grid) IsRowVisible(y int) bool {
	return y >= g.visible && y < g.visible+g.height
}

func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
