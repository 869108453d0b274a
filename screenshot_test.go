package termgrid

import (
	"image/color"
	"testing"
)

func TestScreenshotSize(t *testing.T) {
	g := New(WithSize(4, 2))
	img := g.Screenshot()

	if b := img.Bounds(); b.Dx() != 40 || b.Dy() != 40 {
		t.Errorf("expected 40x40 image, got %v", b)
	}
	if got := img.RGBAAt(39, 39); got != DefaultBackground {
		t.Errorf("expected default background, got %v", got)
	}
}

func TestScreenshotSelectionAndCursor(t *testing.T) {
	g := New(WithSize(4, 2))
	g.WriteText("a")
	if err := g.SetSelection(NewRange(Pt(0, 0), Pt(1, 0))); err != nil {
		t.Fatal(err)
	}

	img := g.Screenshot()
	if got := img.RGBAAt(9, 19); got != DefaultSelectionColor {
		t.Errorf("expected selection color, got %v", got)
	}
	white := color.RGBA{255, 255, 255, 255}
	if got := img.RGBAAt(15, 10); got != white {
		t.Errorf("expected inverted cursor cell, got %v", got)
	}

	img = g.ScreenshotWithConfig(&ScreenshotConfig{HideCursor: true})
	if got := img.RGBAAt(15, 10); got != DefaultBackground {
		t.Errorf("expected hidden cursor, got %v", got)
	}
}

func TestScreenshotBarCursor(t *testing.T) {
	g := New(WithSize(4, 2))
	g.SetCursorSettings(CursorSettings{Style: CursorStyleBar, Visible: true})
	red := color.RGBA{255, 0, 0, 255}

	img := g.ScreenshotWithConfig(&ScreenshotConfig{CursorColor: &red})

	if got := img.RGBAAt(1, 10); got != red {
		t.Errorf("expected bar cursor at the left edge, got %v", got)
	}
	if got := img.RGBAAt(5, 10); got != DefaultBackground {
		t.Errorf("expected background right of the bar, got %v", got)
	}
}
