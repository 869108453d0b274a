package keybind

import (
	"fmt"
	"strings"
	"unicode"
)

// Key identifies a physical key. Printable keys are their lower-case rune;
// special keys live in the Unicode private use area so they never collide
// with text.
type Key rune

const KeyNone Key = 0

const (
	KeyEnter Key = 0xE000 + iota
	KeyEscape
	KeyTab
	KeyBackspace
	KeyDelete
	KeyInsert
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)

// KeySpace is the space bar.
const KeySpace Key = ' '

var keyNames = map[Key]string{
	KeyEnter:     "Enter",
	KeyEscape:    "Escape",
	KeyTab:       "Tab",
	KeyBackspace: "Backspace",
	KeyDelete:    "Delete",
	KeyInsert:    "Insert",
	KeyHome:      "Home",
	KeyEnd:       "End",
	KeyPageUp:    "PageUp",
	KeyPageDown:  "PageDown",
	KeyUp:        "Up",
	KeyDown:      "Down",
	KeyLeft:      "Left",
	KeyRight:     "Right",
	KeySpace:     "Space",
}

var keyAliases = map[string]Key{
	"enter":     KeyEnter,
	"return":    KeyEnter,
	"cr":        KeyEnter,
	"escape":    KeyEscape,
	"esc":       KeyEscape,
	"tab":       KeyTab,
	"backspace": KeyBackspace,
	"bs":        KeyBackspace,
	"delete":    KeyDelete,
	"del":       KeyDelete,
	"insert":    KeyInsert,
	"ins":       KeyInsert,
	"home":      KeyHome,
	"end":       KeyEnd,
	"pageup":    KeyPageUp,
	"pgup":      KeyPageUp,
	"pagedown":  KeyPageDown,
	"pgdn":      KeyPageDown,
	"up":        KeyUp,
	"down":      KeyDown,
	"left":      KeyLeft,
	"right":     KeyRight,
	"space":     KeySpace,
	"plus":      '+',
}

func init() {
	for i := 0; i < 12; i++ {
		k := KeyF1 + Key(i)
		name := fmt.Sprintf("F%d", i+1)
		keyNames[k] = name
		keyAliases[strings.ToLower(name)] = k
	}
}

// RuneKey returns the key that produces r. Letters fold to lower case.
func RuneKey(r rune) Key {
	return Key(unicode.ToLower(r))
}

// IsSpecial returns true for non-printable keys such as Enter or F1.
func (k Key) IsSpecial() bool {
	return k >= KeyEnter && k <= KeyF12
}

// String returns the key name, e.g. "Enter", "F5" or "C" for the c key.
func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	if k == KeyNone {
		return ""
	}
	return string(unicode.ToUpper(rune(k)))
}

// KeyFromName parses a key name or a single character.
func KeyFromName(name string) (Key, bool) {
	if k, ok := keyAliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return k, true
	}
	runes := []rune(name)
	if len(runes) == 1 && unicode.IsPrint(runes[0]) {
		return RuneKey(runes[0]), true
	}
	return KeyNone, false
}
