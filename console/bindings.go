package console

import (
	"sort"

	"github.com/danielgatis/go-termgrid/keybind"
)

// Action is a named console operation that key bindings refer to.
type Action struct {
	Name        string
	Description string
	Verify      func(c *Console) bool
	Run         func(c *Console) bool
}

func idle(c *Console) bool         { return c.running == nil }
func hasSelection(c *Console) bool { return c.grid.HasSelection() }

var actions = map[string]Action{
	"submit":          {Description: "run the input line", Verify: idle, Run: func(c *Console) bool { c.Submit(); return true }},
	"backspace":       {Description: "delete the character before the cursor", Verify: idle, Run: func(c *Console) bool { c.backspace(); return true }},
	"delete":          {Description: "delete the character under the cursor", Verify: idle, Run: func(c *Console) bool { c.deleteForward(); return true }},
	"left":            {Description: "move left", Verify: idle, Run: func(c *Console) bool { c.moveLeft(); return true }},
	"right":           {Description: "move right", Verify: idle, Run: func(c *Console) bool { c.moveRight(); return true }},
	"home":            {Description: "move to the start of the input", Verify: idle, Run: func(c *Console) bool { c.setCursor(c.inputStart); return true }},
	"end":             {Description: "move to the end of the input", Verify: idle, Run: func(c *Console) bool { c.setCursor(c.inputEnd()); return true }},
	"history_prev":    {Description: "previous history entry", Verify: idle, Run: func(c *Console) bool { c.historyPrev(); return true }},
	"history_next":    {Description: "next history entry", Verify: idle, Run: func(c *Console) bool { c.historyNext(); return true }},
	"complete":        {Description: "complete the word before the cursor", Verify: idle, Run: func(c *Console) bool { c.complete(); return true }},
	"clear_input":     {Description: "erase the input line", Verify: idle, Run: func(c *Console) bool { c.replaceInput(""); return true }},
	"clear_selection": {Description: "drop the selection", Verify: hasSelection, Run: func(c *Console) bool { c.grid.ClearSelections(); return true }},
	"copy":            {Description: "copy the selection", Verify: hasSelection, Run: func(c *Console) bool { c.grid.Copy(); return true }},
	"paste":           {Description: "paste the clipboard", Verify: idle, Run: func(c *Console) bool { c.paste(); return true }},
	"select_all":      {Description: "select everything", Run: func(c *Console) bool { c.grid.SelectAll(); return true }},
	"clear":           {Description: "clear the screen", Run: (*Console).clearScreen},
	"interrupt": {
		Description: "cancel the running command or abandon the input",
		Verify:      func(c *Console) bool { return !c.grid.HasSelection() },
		Run:         (*Console).interrupt,
	},
	"page_up":       {Description: "scroll up a page", Run: func(c *Console) bool { c.grid.PageUp(); return true }},
	"page_down":     {Description: "scroll down a page", Run: func(c *Console) bool { c.grid.PageDown(); return true }},
	"line_up":       {Description: "scroll up a line", Run: func(c *Console) bool { c.grid.LineUp(); return true }},
	"line_down":     {Description: "scroll down a line", Run: func(c *Console) bool { c.grid.LineDown(); return true }},
	"scroll_top":    {Description: "scroll to the oldest row", Run: func(c *Console) bool { c.grid.ScrollToTop(); return true }},
	"scroll_bottom": {Description: "scroll to the cursor", Run: func(c *Console) bool { c.grid.ScrollToCursor(); return true }},
}

func init() {
	for name, a := range actions {
		a.Name = name
		actions[name] = a
	}
}

// Actions returns the bindable action names, sorted.
func Actions() []string {
	names := make([]string, 0, len(actions))
	for n := range actions {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

type chordAction struct {
	chord  string
	action string
}

// defaultBindings returns the preview, normal and global tables for p.
func defaultBindings(p keybind.Platform) (preview, normal, global []chordAction) {
	primary := p.Primary().String()

	preview = []chordAction{
		{"Ctrl+C", "interrupt"},
	}
	normal = []chordAction{
		{"Enter", "submit"},
		{"Backspace", "backspace"},
		{"Delete", "delete"},
		{"Left", "left"},
		{"Right", "right"},
		{"Home", "home"},
		{"End", "end"},
		{"Up", "history_prev"},
		{"Down", "history_next"},
		{"Tab", "complete"},
		{"Escape", "clear_selection"},
	}
	global = []chordAction{
		{primary + "+C", "copy"},
		{primary + "+V", "paste"},
		{primary + "+A", "select_all"},
		{"Shift+Insert", "paste"},
		{"Ctrl+L", "clear"},
		{"PageUp", "page_up"},
		{"PageDown", "page_down"},
		{"Shift+PageUp", "page_up"},
		{"Shift+PageDown", "page_down"},
		{"Shift+Up", "line_up"},
		{"Shift+Down", "line_down"},
		{"Ctrl+Home", "scroll_top"},
		{"Ctrl+End", "scroll_bottom"},
	}
	if p == keybind.PlatformMacOS {
		global = append(global, chordAction{"Cmd+K", "clear"})
	}
	return preview, normal, global
}

func (c *Console) bind(table *keybind.Collection[*Console], spec, name string, preview bool) {
	chord, err := keybind.ParseChord(spec)
	if err != nil {
		c.logger.Warn("invalid key binding", "chord", spec, "err", err)
		return
	}
	if preview {
		chord = chord.AsPreview()
	}
	if name == "" || name == "none" {
		table.Remove(chord)
		return
	}
	a, ok := actions[name]
	if !ok {
		c.logger.Warn("unknown key binding action", "chord", spec, "action", name)
		return
	}
	_ = table.Set(keybind.Binding[*Console]{
		Chord:       chord,
		Verify:      a.Verify,
		Action:      a.Run,
		Description: a.Description,
	})
}

// buildBindings creates the tables for the current platform and applies the
// configured overrides to the normal table.
func (c *Console) buildBindings() {
	c.preview = keybind.NewCollection[*Console]("preview", nil)
	c.global = keybind.NewCollection[*Console]("global", nil)
	c.normal = keybind.NewCollection[*Console]("normal", c.global)

	preview, normal, global := defaultBindings(c.platform)
	for _, b := range preview {
		c.bind(c.preview, b.chord, b.action, true)
	}
	for _, b := range normal {
		c.bind(c.normal, b.chord, b.action, false)
	}
	for _, b := range global {
		c.bind(c.global, b.chord, b.action, false)
	}

	chords := make([]string, 0, len(c.cfg.Bindings))
	for chord := range c.cfg.Bindings {
		chords = append(chords, chord)
	}
	sort.Strings(chords)
	for _, chord := range chords {
		name := c.cfg.Bindings[chord]
		if name == "" || name == "none" {
			c.bind(c.global, chord, name, false)
		}
		c.bind(c.normal, chord, name, false)
	}
}

// Bindings returns the active bindings of every table, preview first.
func (c *Console) Bindings() []keybind.Binding[*Console] {
	var out []keybind.Binding[*Console]
	out = append(out, c.preview.Bindings()...)
	out = append(out, c.normal.Bindings()...)
	out = append(out, c.global.Bindings()...)
	return out
}
