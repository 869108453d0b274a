package termgrid

import (
	"image/color"
	"testing"
)

func TestWriteSGRColors(t *testing.T) {
	g := New(WithSize(20, 3))
	g.WriteString("\x1b[31mR\x1b[0mN\x1b[38;2;1;2;3mT\x1b[48;5;42mB")

	red := g.Cell(Pt(0, 0)).Fg
	if red == nil || ResolveColor(red, true) != DefaultPalette[1] {
		t.Errorf("expected red foreground, got %v", red)
	}
	if g.Cell(Pt(1, 0)).Fg != nil {
		t.Errorf("expected reset to clear the foreground, got %v", g.Cell(Pt(1, 0)).Fg)
	}
	if got := g.Cell(Pt(2, 0)).Fg; got != (color.RGBA{R: 1, G: 2, B: 3, A: 255}) {
		t.Errorf("expected truecolor foreground, got %v", got)
	}
	if bg := g.Cell(Pt(3, 0)).Bg; bg == nil || ResolveColor(bg, false) != DefaultPalette[42] {
		t.Errorf("expected background index 42, got %v", bg)
	}
	if g.LineText(0) != "RNTB" {
		t.Errorf("expected escape sequences to be consumed, got %q", g.LineText(0))
	}
}

func TestWriteSGRAttributes(t *testing.T) {
	g := New(WithSize(20, 3))
	g.WriteString("\x1b[1;4mA\x1b[22mB\x1b[24mC")

	a, b, c := g.Cell(Pt(0, 0)), g.Cell(Pt(1, 0)), g.Cell(Pt(2, 0))
	if !a.HasFlag(CellFlagBold) || !a.HasFlag(CellFlagUnderline) {
		t.Error("expected bold underlined 'A'")
	}
	if b.HasFlag(CellFlagBold) || !b.HasFlag(CellFlagUnderline) {
		t.Error("expected 'B' to lose bold only")
	}
	if c.HasFlag(CellFlagUnderline) {
		t.Error("expected 'C' without underline")
	}
}

func TestWriteEraseLine(t *testing.T) {
	g := New(WithSize(20, 3))
	g.WriteString("hello world\r\x1b[5C\x1b[K")

	if g.LineText(0) != "hello" {
		t.Errorf("expected 'hello', got %q", g.LineText(0))
	}
}

func TestWriteLineFeedStartsLine(t *testing.T) {
	g := New(WithSize(20, 3))
	g.WriteString("one\ntwo\r\nthree")

	if got := rowTexts(g); !equalStrings(got, []string{"one", "two", "three"}) {
		t.Errorf("unexpected rows %q", got)
	}
}

func TestWriteTitle(t *testing.T) {
	g := New()
	var titled bool
	g.Subscribe(ListenerFunc(func(e Event) {
		if e.Property == PropertyTitle {
			titled = true
		}
	}))

	g.WriteString("\x1b]0;build\x07")

	if g.Title() != "build" {
		t.Errorf("expected title 'build', got %q", g.Title())
	}
	if !titled {
		t.Error("expected a Title property change")
	}
}

func TestWriteLineDrawingCharset(t *testing.T) {
	g := New(WithSize(20, 3))
	g.WriteString("\x1b(0lqk\x1b(Bx")

	if g.LineText(0) != "┌─┐x" {
		t.Errorf("expected box drawing, got %q", g.LineText(0))
	}
}

func TestSetCursorSettingsNotifies(t *testing.T) {
	g := New()
	var props []Property
	g.Subscribe(ListenerFunc(func(e Event) {
		if e.Kind == PropertyChanged {
			props = append(props, e.Property)
		}
	}))

	g.SetCursorSettings(CursorSettings{Style: CursorStyleBar, Visible: true})
	g.SetCursorSettings(CursorSettings{Style: CursorStyleBar, Visible: true})

	if len(props) != 1 || props[0] != PropertyCursorSettings {
		t.Errorf("expected one CursorSettings change, got %v", props)
	}
	if g.CursorSettings().Style != CursorStyleBar {
		t.Errorf("expected bar, got %s", g.CursorSettings().Style)
	}
}
