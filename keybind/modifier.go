package keybind

import "strings"

// Modifiers is a set of modifier keys.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
	// ModMeta is Cmd on macOS and the Windows key elsewhere.
	ModMeta
)

// ModNone is the empty modifier set.
const ModNone Modifiers = 0

// Has returns true if m contains every modifier in mod.
func (m Modifiers) Has(mod Modifiers) bool {
	return m&mod == mod
}

// With returns m plus mod.
func (m Modifiers) With(mod Modifiers) Modifiers {
	return m | mod
}

// Without returns m minus mod.
func (m Modifiers) Without(mod Modifiers) Modifiers {
	return m &^ mod
}

// String returns names in a fixed order, e.g. "Ctrl+Alt+Shift".
func (m Modifiers) String() string {
	if m == ModNone {
		return ""
	}
	var parts []string
	if m.Has(ModCtrl) {
		parts = append(parts, "Ctrl")
	}
	if m.Has(ModAlt) {
		parts = append(parts, "Alt")
	}
	if m.Has(ModShift) {
		parts = append(parts, "Shift")
	}
	if m.Has(ModMeta) {
		parts = append(parts, "Meta")
	}
	return strings.Join(parts, "+")
}

var modifierNames = map[string]Modifiers{
	"ctrl":    ModCtrl,
	"control": ModCtrl,
	"alt":     ModAlt,
	"option":  ModAlt,
	"opt":     ModAlt,
	"shift":   ModShift,
	"meta":    ModMeta,
	"cmd":     ModMeta,
	"command": ModMeta,
	"super":   ModMeta,
	"win":     ModMeta,
}

// ModifierFromName returns the modifier for a name such as "ctrl" or "cmd".
func ModifierFromName(name string) (Modifiers, bool) {
	m, ok := modifierNames[strings.ToLower(strings.TrimSpace(name))]
	return m, ok
}
