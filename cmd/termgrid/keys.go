package main

import (
	"github.com/gdamore/tcell/v2"

	"github.com/danielgatis/go-termgrid/keybind"
)

var specialKeys = map[tcell.Key]keybind.Key{
	tcell.KeyEnter:      keybind.KeyEnter,
	tcell.KeyEsc:        keybind.KeyEscape,
	tcell.KeyTab:        keybind.KeyTab,
	tcell.KeyBackspace:  keybind.KeyBackspace,
	tcell.KeyBackspace2: keybind.KeyBackspace,
	tcell.KeyDelete:     keybind.KeyDelete,
	tcell.KeyInsert:     keybind.KeyInsert,
	tcell.KeyHome:       keybind.KeyHome,
	tcell.KeyEnd:        keybind.KeyEnd,
	tcell.KeyPgUp:       keybind.KeyPageUp,
	tcell.KeyPgDn:       keybind.KeyPageDown,
	tcell.KeyUp:         keybind.KeyUp,
	tcell.KeyDown:       keybind.KeyDown,
	tcell.KeyLeft:       keybind.KeyLeft,
	tcell.KeyRight:      keybind.KeyRight,
}

func translateMods(m tcell.ModMask) keybind.Modifiers {
	var mods keybind.Modifiers
	if m&tcell.ModShift != 0 {
		mods = mods.With(keybind.ModShift)
	}
	if m&tcell.ModCtrl != 0 {
		mods = mods.With(keybind.ModCtrl)
	}
	if m&tcell.ModAlt != 0 {
		mods = mods.With(keybind.ModAlt)
	}
	if m&tcell.ModMeta != 0 {
		mods = mods.With(keybind.ModMeta)
	}
	return mods
}

// translateKey maps a tcell key event to a chord and the character to
// insert, if any.
func translateKey(ev *tcell.EventKey) (keybind.Modifiers, keybind.Key, rune) {
	mods := translateMods(ev.Modifiers())
	k := ev.Key()

	switch {
	case k == tcell.KeyRune:
		r := ev.Rune()
		return mods, keybind.RuneKey(r), r
	case k == tcell.KeyBacktab:
		return mods.With(keybind.ModShift), keybind.KeyTab, 0
	case k >= tcell.KeyF1 && k <= tcell.KeyF12:
		return mods, keybind.KeyF1 + keybind.Key(k-tcell.KeyF1), 0
	}
	if key, ok := specialKeys[k]; ok {
		return mods, key, 0
	}
	switch {
	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ:
		return mods.With(keybind.ModCtrl), keybind.Key('a' + rune(k-tcell.KeyCtrlA)), 0
	case k == tcell.KeyCtrlSpace:
		return mods.With(keybind.ModCtrl), keybind.KeySpace, 0
	}
	return mods, keybind.KeyNone, 0
}
