package keybind

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidChord is returned when a chord specification cannot be parsed.
	ErrInvalidChord = errors.New("keybind: invalid chord")
	// ErrNilAction is returned when a binding has no action.
	ErrNilAction = errors.New("keybind: nil action")
	// ErrDuplicateBinding is returned by Add when the chord is already bound.
	ErrDuplicateBinding = errors.New("keybind: duplicate binding")
)

// Chord is the lookup key of a binding: an exact modifier set, a key and the
// phase it is resolved in.
type Chord struct {
	Modifiers Modifiers
	Key       Key
	Preview   bool
}

// String returns the chord in "Ctrl+Shift+C" form.
func (c Chord) String() string {
	s := c.Key.String()
	if c.Key == '+' {
		s = "Plus"
	}
	if mods := c.Modifiers.String(); mods != "" {
		s = mods + "+" + s
	}
	return s
}

// ParseChord parses specifications such as "Ctrl+C", "Shift+PageUp", "Cmd+V"
// or "F5". Letter keys are case-insensitive; Shift must be spelled out.
// A trailing "+" names the plus key ("Ctrl++").
func ParseChord(spec string) (Chord, error) {
	s := strings.TrimSpace(spec)
	if s == "" {
		return Chord{}, fmt.Errorf("%w: empty", ErrInvalidChord)
	}

	var keyPart string
	var modParts []string
	if strings.HasSuffix(s, "++") {
		keyPart = "+"
		s = strings.TrimSuffix(s, "++")
		if s != "" {
			modParts = strings.Split(s, "+")
		}
	} else if s == "+" {
		keyPart = "+"
	} else {
		parts := strings.Split(s, "+")
		keyPart = parts[len(parts)-1]
		modParts = parts[:len(parts)-1]
	}

	var c Chord
	for _, p := range modParts {
		m, ok := ModifierFromName(p)
		if !ok {
			return Chord{}, fmt.Errorf("%w: unknown modifier %q in %q", ErrInvalidChord, p, spec)
		}
		c.Modifiers |= m
	}
	k, ok := KeyFromName(keyPart)
	if !ok {
		return Chord{}, fmt.Errorf("%w: unknown key %q in %q", ErrInvalidChord, keyPart, spec)
	}
	c.Key = k
	return c, nil
}

// MustParseChord is ParseChord for static tables. It panics on error.
func MustParseChord(spec string) Chord {
	c, err := ParseChord(spec)
	if err != nil {
		panic(err)
	}
	return c
}

// AsPreview returns c resolved in the preview phase.
func (c Chord) AsPreview() Chord {
	c.Preview = true
	return c
}
