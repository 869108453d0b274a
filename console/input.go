package console

import (
	"context"
	"strings"
	"time"
	"unicode"

	termgrid "github.com/danielgatis/go-termgrid"
	"github.com/danielgatis/go-termgrid/command"
	"github.com/danielgatis/go-termgrid/dispatch"
	"github.com/danielgatis/go-termgrid/keybind"
)

// HandleKey resolves a key event: the preview table first, then the normal
// table and its global parent, then literal insertion of r. It returns false
// if nothing consumed the event.
func (c *Console) HandleKey(mods keybind.Modifiers, key keybind.Key, r rune) bool {
	if c.preview.Process(c, mods, key, true) {
		return true
	}
	if c.normal.Process(c, mods, key, false) {
		return true
	}
	return c.insertRune(mods, r)
}

// HandleRune is HandleKey for a printable character.
func (c *Console) HandleRune(mods keybind.Modifiers, r rune) bool {
	return c.HandleKey(mods, keybind.RuneKey(r), r)
}

func (c *Console) insertRune(mods keybind.Modifiers, r rune) bool {
	if r == 0 || !unicode.IsPrint(r) || c.running != nil {
		return false
	}
	if mods.Has(keybind.ModCtrl) || mods.Has(keybind.ModAlt) || mods.Has(keybind.ModMeta) {
		return false
	}
	c.insert(string(r))
	return true
}

func (c *Console) writePrompt() {
	if c.grid.CursorPoint().X != 0 {
		c.grid.NewLine()
	}
	c.grid.WriteText(c.prompt)
	c.inputStart = c.grid.CursorPoint()
	c.grid.ScrollToCursor()
}

func (c *Console) clampInputStart() {
	if top := termgrid.Pt(0, c.grid.MinimumVisibleIndex()); c.inputStart.Less(top) {
		c.inputStart = top
	}
	if c.inputStart.X >= c.grid.Width() {
		c.inputStart = termgrid.Pt(0, c.inputStart.Y+1)
	}
}

// InputStart returns the first point of the input region.
func (c *Console) InputStart() termgrid.Point { return c.inputStart }

// inputEnd returns the point after the last character of the input.
func (c *Console) inputEnd() termgrid.Point {
	line := c.grid.LogicalLine(c.inputStart.Y)
	for y := line.End.Y - 1; y >= c.inputStart.Y; y-- {
		row := c.grid.Row(y)
		if row == nil {
			continue
		}
		for x := row.Len() - 1; x >= 0; x-- {
			if y == c.inputStart.Y && x < c.inputStart.X {
				return c.inputStart
			}
			if cell := row.Cell(x); cell.IsEmpty() {
				continue
			}
			return c.grid.Next(termgrid.Pt(row.Head(x), y))
		}
	}
	return c.inputStart
}

// Input returns the text typed after the prompt.
func (c *Console) Input() string {
	return c.grid.TextRange(termgrid.Range{Begin: c.inputStart, End: c.inputEnd()})
}

func (c *Console) inputBeforeCursor() string {
	return c.grid.TextRange(termgrid.Range{Begin: c.inputStart, End: c.grid.CursorPoint()})
}

// clampCursor keeps the cursor inside the input region.
func (c *Console) clampCursor() {
	cur := c.grid.CursorPoint()
	if cur.Less(c.inputStart) {
		c.setCursor(c.inputStart)
	} else if end := c.inputEnd(); end.Less(cur) {
		c.setCursor(end)
	}
}

func (c *Console) setCursor(p termgrid.Point) {
	if err := c.grid.SetCursor(p); err != nil {
		c.logger.Debug("cursor move rejected", "point", p, "err", err)
	}
}

func (c *Console) insert(text string) {
	c.clampCursor()
	if err := c.grid.Insert(text); err != nil {
		c.logger.Warn("insert failed", "err", err)
	}
	c.grid.ScrollToCursor()
}

func (c *Console) replaceInput(text string) {
	if err := c.grid.ClearFrom(c.inputStart); err != nil {
		c.logger.Warn("clear input failed", "err", err)
		return
	}
	c.insert(text)
}

func (c *Console) backspace() bool {
	c.clampCursor()
	return c.grid.DeleteBackward(c.inputStart)
}

func (c *Console) deleteForward() bool {
	c.clampCursor()
	if !c.grid.CursorPoint().Less(c.inputEnd()) {
		return false
	}
	return c.grid.DeleteForward()
}

func (c *Console) moveLeft() bool {
	cur := c.grid.CursorPoint()
	if !c.inputStart.Less(cur) {
		return false
	}
	c.setCursor(c.grid.Prev(cur))
	return true
}

func (c *Console) moveRight() bool {
	cur := c.grid.CursorPoint()
	if !cur.Less(c.inputEnd()) {
		return false
	}
	c.setCursor(c.grid.Next(cur))
	return true
}

// sanitizePaste folds pasted text onto the single input line.
func sanitizePaste(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			return ' '
		case !unicode.IsPrint(r):
			return -1
		}
		return r
	}, s)
}

func (c *Console) paste() bool {
	text := sanitizePaste(c.grid.Clipboard().Read(termgrid.ClipboardSystem))
	if text == "" {
		return false
	}
	c.insert(text)
	return true
}

// Submit runs the current input as a command line.
func (c *Console) Submit() {
	c.lastErr = nil
	line := c.Input()
	c.setCursor(c.inputEnd())
	c.grid.NewLine()

	if c.history.Add(line) && c.store != nil {
		if err := c.store.AppendHistory(context.Background(), c.name, line); err != nil {
			c.logger.Warn("failed to persist history", "err", err)
		}
	}

	cmd, args, err := c.reg.Resolve(line)
	if err != nil {
		c.lastErr = err
		c.writeError(err)
		c.writePrompt()
		return
	}
	if cmd == nil {
		c.writePrompt()
		return
	}
	c.run(cmd, args, line)
}

// Execute submits line as if it had been typed.
func (c *Console) Execute(line string) {
	c.replaceInput(line)
	c.Submit()
}

func (c *Console) run(cmd command.Command, args []string, line string) {
	ctx, cancel := context.WithCancel(c.ctx)
	j := &job{name: cmd.Name(), cancel: cancel, start: time.Now()}
	c.running = j

	cc := &command.Context{
		Args:       args,
		Line:       line,
		Grid:       c.grid,
		Dispatcher: c.disp,
	}

	c.logger.Debug("command started", "name", j.name, "args", args[1:])
	if ac, ok := cmd.(command.AsyncCommand); ok {
		cc.Out = &output{c: c, deferred: true}
		cc.Err = &output{c: c, deferred: true, stderr: true}
		j.op = c.disp.Go(ctx, func(ctx context.Context) error {
			return ac.ExecuteAsync(ctx, cc)
		})
	} else {
		cc.Out = &output{c: c}
		cc.Err = &output{c: c, stderr: true}
		j.op = c.disp.InvokeAsync(ctx, func(context.Context) error {
			return cmd.Execute(cc)
		})
	}
	j.op.OnComplete(func(err error) { c.finish(j, err) })
}

func (c *Console) finish(j *job, err error) {
	if c.running == j {
		c.running = nil
	}
	c.lastErr = err
	j.cancel()

	elapsed := time.Since(j.start)
	switch dispatch.Classify(err) {
	case dispatch.Failed:
		c.logger.Warn("command failed", "name", j.name, "elapsed", elapsed, "err", err)
	default:
		c.logger.Debug("command finished", "name", j.name, "elapsed", elapsed, "outcome", dispatch.Classify(err))
	}

	if c.closed {
		return
	}
	if err != nil {
		c.writeError(err)
	}
	c.writePrompt()
}

// Cancel asks the running command to stop. It returns false when idle.
func (c *Console) Cancel() bool {
	if c.running == nil {
		return false
	}
	c.logger.Debug("canceling command", "name", c.running.name)
	c.running.cancel()
	return true
}

func (c *Console) interrupt() bool {
	if c.Cancel() {
		return true
	}
	c.setCursor(c.inputEnd())
	c.grid.WriteText("^C")
	c.history.Reset()
	c.writePrompt()
	return true
}

func (c *Console) clearScreen() bool {
	input := c.Input()
	c.grid.Clear()
	if c.running != nil {
		return true
	}
	c.writePrompt()
	if input != "" {
		c.insert(input)
	}
	return true
}

func (c *Console) historyPrev() bool {
	text, ok := c.history.Prev(c.Input())
	if ok {
		c.replaceInput(text)
	}
	return ok
}

func (c *Console) historyNext() bool {
	text, ok := c.history.Next()
	if ok {
		c.replaceInput(text)
	}
	return ok
}
