package termgrid

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// DefaultSelectionColor highlights selected cells in screenshots.
var DefaultSelectionColor = color.RGBA{38, 79, 120, 255}

// ScreenshotConfig controls how the viewport is rendered to an image.
type ScreenshotConfig struct {
	// Face draws the glyphs. If nil, the face of FaceMetrics is used, then basicfont.Face7x13.
	Face font.Face

	// SelectionColor is the background of selected cells. If nil, uses DefaultSelectionColor.
	SelectionColor *color.RGBA

	// CursorColor is the cursor color. If nil, the cursor inverts the cell colors.
	CursorColor *color.RGBA

	// HideCursor skips drawing the cursor even when it is visible.
	HideCursor bool
}

// Screenshot renders the viewport with default settings.
func (g *Grid) Screenshot() *image.RGBA {
	return g.ScreenshotWithConfig(&ScreenshotConfig{})
}

// ScreenshotWithConfig renders the viewport. Cell rectangles come from
// CellGeometry, so the image matches what hit-testing reports.
func (g *Grid) ScreenshotWithConfig(cfg *ScreenshotConfig) *image.RGBA {
	face := cfg.Face
	if face == nil {
		if fm, ok := g.metrics.(*FaceMetrics); ok {
			face = fm.Face()
		} else {
			face = basicfont.Face7x13
		}
	}
	selection := DefaultSelectionColor
	if cfg.SelectionColor != nil {
		selection = *cfg.SelectionColor
	}

	cw, ch := g.CellSize()
	img := image.NewRGBA(image.Rect(0, 0, g.width*cw, g.height*ch))
	draw.Draw(img, img.Bounds(), image.NewUniform(DefaultBackground), image.Point{}, draw.Src)

	ascent := face.Metrics().Ascent.Ceil()
	for y := g.visible; y < g.visible+g.height; y++ {
		row := g.Row(y)
		if row == nil {
			continue
		}
		if row.Bg != nil {
			draw.Draw(img, g.RowRect(y), image.NewUniform(ResolveColor(row.Bg, false)), image.Point{}, draw.Src)
		}
		for x := 0; x < row.Len(); x++ {
			cell := row.Cell(x)
			if cell.IsPlaceholder() {
				continue
			}
			p := Pt(x, y)
			rect := g.CellGeometry(p).Background
			fg, bg := CellColors(row, cell)
			if g.IsSelected(p) {
				bg = selection
			}
			draw.Draw(img, rect, image.NewUniform(bg), image.Point{}, draw.Src)

			if cell.Char == 0 || cell.Char == ' ' || cell.HasFlag(CellFlagHidden) {
				continue
			}
			if cell.HasFlag(CellFlagDim) {
				fg = dim(fg)
			}
			d := &font.Drawer{
				Dst:  img,
				Src:  image.NewUniform(fg),
				Face: face,
				Dot:  fixed.P(rect.Min.X, rect.Min.Y+ascent),
			}
			d.DrawString(string(cell.Char))

			if cell.Flags&cellFlagUnderlines != 0 {
				uy := min(rect.Min.Y+ascent+2, rect.Max.Y-1)
				draw.Draw(img, image.Rect(rect.Min.X, uy, rect.Max.X, uy+1), image.NewUniform(fg), image.Point{}, draw.Src)
			}
			if cell.HasFlag(CellFlagStrike) {
				sy := rect.Min.Y + ch/2
				draw.Draw(img, image.Rect(rect.Min.X, sy, rect.Max.X, sy+1), image.NewUniform(fg), image.Point{}, draw.Src)
			}
		}
	}

	if !cfg.HideCursor && g.cursorSettings.Visible && g.IsRowVisible(g.cursor.Y) {
		g.drawCursor(img, cfg.CursorColor)
	}
	return img
}

func (g *Grid) drawCursor(img *image.RGBA, c *color.RGBA) {
	rect := g.CellGeometry(g.cursor).Background
	switch g.cursorSettings.Style {
	case CursorStyleUnderline:
		rect.Min.Y = rect.Max.Y - 2
	case CursorStyleBar:
		rect.Max.X = rect.Min.X + 2
	}
	rect = rect.Intersect(img.Bounds())

	if c != nil {
		draw.Draw(img, rect, image.NewUniform(*c), image.Point{}, draw.Src)
		return
	}
	for py := rect.Min.Y; py < rect.Max.Y; py++ {
		for px := rect.Min.X; px < rect.Max.X; px++ {
			e := img.RGBAAt(px, py)
			img.SetRGBA(px, py, color.RGBA{R: 255 - e.R, G: 255 - e.G, B: 255 - e.B, A: 255})
		}
	}
}
