package termgrid

import (
	"fmt"
	"strings"
)

// CursorStyle determines how the cursor is rendered.
type CursorStyle int

const (
	CursorStyleBlock CursorStyle = iota
	CursorStyleUnderline
	CursorStyleBar
)

// String returns the lower-case style name.
func (s CursorStyle) String() string {
	switch s {
	case CursorStyleUnderline:
		return "underline"
	case CursorStyleBar:
		return "bar"
	default:
		return "block"
	}
}

// ParseCursorStyle parses "block", "underline" or "bar".
func ParseCursorStyle(s string) (CursorStyle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "block", "":
		return CursorStyleBlock, nil
	case "underline":
		return CursorStyleUnderline, nil
	case "bar":
		return CursorStyleBar, nil
	}
	return CursorStyleBlock, fmt.Errorf("%w: cursor style %q", ErrInvalidArgument, s)
}

// MarshalText implements encoding.TextMarshaler.
func (s CursorStyle) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *CursorStyle) UnmarshalText(b []byte) error {
	v, err := ParseCursorStyle(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// CursorSettings controls how the cursor is drawn.
type CursorSettings struct {
	Style   CursorStyle `json:"style"`
	Blink   bool        `json:"blink"`
	Visible bool        `json:"visible"`
}

// DefaultCursorSettings returns a visible blinking block.
func DefaultCursorSettings() CursorSettings {
	return CursorSettings{Style: CursorStyleBlock, Blink: true, Visible: true}
}

// CursorSettings returns the current cursor settings.
func (g *Grid) CursorSettings() CursorSettings {
	return g.cursorSettings
}

// SetCursorSettings replaces the cursor settings.
func (g *Grid) SetCursorSettings(s CursorSettings) {
	defer g.commit()
	if s != g.cursorSettings {
		g.cursorSettings = s
		g.touch(PropertyCursorSettings)
	}
}
