package termgrid

import (
	"testing"
)

type fixedMetrics map[rune]int

func (m fixedMetrics) Advance(r rune) int {
	if adv, ok := m[r]; ok {
		return adv
	}
	return 10
}

func (m fixedMetrics) DefaultAdvance() int { return 10 }
func (m fixedMetrics) LineHeight() int     { return 16 }

func TestCellMetricsAdvance(t *testing.T) {
	m := CellMetrics{Width: 8, Height: 16}

	tests := []struct {
		r    rune
		want int
	}{
		{'A', 8},
		{' ', 8},
		{'中', 16},
		{'한', 16},
		{'Ａ', 16}, // Fullwidth A
	}

	for _, tt := range tests {
		if got := m.Advance(tt.r); got != tt.want {
			t.Errorf("Advance(%q) = %d, want %d", tt.r, got, tt.want)
		}
	}
}

func TestCellMetricsDefaults(t *testing.T) {
	var m CellMetrics

	if m.DefaultAdvance() != DEFAULT_CELL_WIDTH || m.LineHeight() != DEFAULT_CELL_HEIGHT {
		t.Errorf("expected %dx%d, got %dx%d", DEFAULT_CELL_WIDTH, DEFAULT_CELL_HEIGHT, m.DefaultAdvance(), m.LineHeight())
	}
}

func TestVolumeOf(t *testing.T) {
	m := fixedMetrics{'i': 4, 'W': 12, '中': 20, '😀': 25}

	tests := []struct {
		r    rune
		want int
	}{
		{'a', 1},
		{'i', 1},
		{'W', 2},
		{'中', 2},
		{'😀', 3},
	}

	for _, tt := range tests {
		if got := volumeOf(m, tt.r); got != tt.want {
			t.Errorf("volumeOf(%q) = %d, want %d", tt.r, got, tt.want)
		}
	}
}

func TestGridUsesMetricsForVolume(t *testing.T) {
	g := New(WithSize(10, 2), WithMetrics(fixedMetrics{'😀': 25}))
	g.WriteText("😀x")

	if c := g.Cell(Pt(0, 0)); c.Volume != 3 {
		t.Errorf("expected volume 3, got %d", c.Volume)
	}
	if g.CursorPoint() != Pt(4, 0) {
		t.Errorf("expected cursor (4,0), got %s", g.CursorPoint())
	}
}

func TestFaceMetricsBasicFont(t *testing.T) {
	m := NewFaceMetrics(nil)

	if m.DefaultAdvance() != 7 {
		t.Errorf("expected advance 7, got %d", m.DefaultAdvance())
	}
	if m.LineHeight() != 13 {
		t.Errorf("expected line height 13, got %d", m.LineHeight())
	}
	if m.Advance('a') != 7 {
		t.Errorf("expected monospace advance, got %d", m.Advance('a'))
	}

	b, ok := m.GlyphBounds('M')
	if !ok {
		t.Fatal("expected bounds for 'M'")
	}
	if b.Empty() || b.Min.Y < 0 || b.Max.Y > m.LineHeight() {
		t.Errorf("expected ink box inside the cell, got %v", b)
	}
}

func TestStringWidth(t *testing.T) {
	tests := []struct {
		s    string
		want int
	}{
		{"hello", 5},
		{"中文", 4},
		{"a中b", 4},
		{"", 0},
	}

	for _, tt := range tests {
		if got := StringWidth(tt.s); got != tt.want {
			t.Errorf("StringWidth(%q) = %d, want %d", tt.s, got, tt.want)
		}
	}
}
