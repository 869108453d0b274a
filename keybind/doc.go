// Package keybind resolves key events to actions through layered binding tables.
//
// A [Collection] maps a [Chord] (modifiers, key and phase) to a guarded
// action. Lookups are exact: Ctrl+Shift+C never matches a Ctrl+C binding.
// When a collection has no binding for a chord, or its binding declines to
// fire, the chord is offered to the parent collection.
//
// Callers scan the preview phase first so a binding can intercept a key
// before the normal tables see it:
//
//	if previewTable.Process(target, mods, key, true) {
//		return
//	}
//	if !normalTable.Process(target, mods, key, false) {
//		insertLiteral(r)
//	}
//
// An unhandled chord is not an error; it means default input handling should
// proceed.
package keybind
