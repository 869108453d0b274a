package console

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	termgrid "github.com/danielgatis/go-termgrid"
	"github.com/danielgatis/go-termgrid/command"
	"github.com/danielgatis/go-termgrid/config"
	"github.com/danielgatis/go-termgrid/dispatch"
	"github.com/danielgatis/go-termgrid/keybind"
	"github.com/danielgatis/go-termgrid/session"
)

func testRegistry() *command.Registry {
	return command.NewRegistry(
		command.NewFunc("echo", "echo [text...]", func(c *command.Context) error {
			fmt.Fprintln(c.Out, strings.Join(c.Args[1:], " "))
			return nil
		}),
		command.NewFunc("fail", "fail", func(c *command.Context) error {
			return errors.New("boom")
		}),
		command.NewFunc("exit", "exit", func(c *command.Context) error { return nil }),
		command.NewFunc("help", "help", func(c *command.Context) error { return nil }),
		command.NewFunc("hello", "hello", func(c *command.Context) error { return nil }),
		command.NewAsyncFunc("stream", "stream", func(ctx context.Context, c *command.Context) error {
			fmt.Fprintln(c.Out, "a")
			fmt.Fprintln(c.Err, "b")
			return nil
		}),
		command.NewAsyncFunc("wait", "wait", func(ctx context.Context, c *command.Context) error {
			<-ctx.Done()
			return ctx.Err()
		}),
		command.NewAsyncFunc("slow", "slow", func(ctx context.Context, c *command.Context) error {
			<-ctx.Done()
			time.Sleep(20 * time.Millisecond)
			fmt.Fprintln(c.Out, "late")
			return ctx.Err()
		}),
	)
}

func newTestConsole(t *testing.T, opts ...Option) *Console {
	t.Helper()
	cfg := config.Default()
	cfg.Width = 40
	cfg.Height = 10

	base := []Option{WithConfig(cfg), WithRegistry(testRegistry()), WithPlatform(keybind.PlatformLinux)}
	c := New(append(base, opts...)...)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func typeText(c *Console, s string) {
	for _, r := range s {
		c.HandleRune(keybind.ModNone, r)
	}
}

func press(t *testing.T, c *Console, spec string) bool {
	t.Helper()
	chord, err := keybind.ParseChord(spec)
	if err != nil {
		t.Fatalf("ParseChord(%q): %v", spec, err)
	}
	return c.HandleKey(chord.Modifiers, chord.Key, 0)
}

func waitIdle(t *testing.T, c *Console) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for {
		c.Drain()
		if !c.Busy() {
			c.Drain()
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("command did not finish")
		}
		time.Sleep(time.Millisecond)
	}
}

func rows(c *Console) []string {
	g := c.Grid()
	out := make([]string, 0, g.RowCount())
	for y := g.MinimumVisibleIndex(); y < g.MinimumVisibleIndex()+g.RowCount(); y++ {
		out = append(out, g.LineText(y))
	}
	return out
}

func equalRows(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNewWritesPrompt(t *testing.T) {
	c := newTestConsole(t)

	if got := rows(c); !equalRows(got, []string{"> "}) {
		t.Errorf("unexpected rows %q", got)
	}
	if c.InputStart() != termgrid.Pt(2, 0) {
		t.Errorf("expected input to start at (2,0), got %s", c.InputStart())
	}
	if c.Grid().Width() != 40 {
		t.Errorf("expected configured width, got %d", c.Grid().Width())
	}
}

func TestEditing(t *testing.T) {
	c := newTestConsole(t)

	typeText(c, "helo")
	press(t, c, "Left")
	typeText(c, "l")
	if c.Input() != "hello" {
		t.Fatalf("expected 'hello', got %q", c.Input())
	}

	press(t, c, "Home")
	press(t, c, "Backspace")
	if c.Input() != "hello" {
		t.Errorf("expected backspace at the prompt to do nothing, got %q", c.Input())
	}
	if got := rows(c)[0]; got != "> hello" {
		t.Errorf("expected the prompt to survive, got %q", got)
	}

	press(t, c, "Delete")
	if c.Input() != "ello" {
		t.Errorf("expected delete to remove 'h', got %q", c.Input())
	}

	press(t, c, "End")
	press(t, c, "Backspace")
	if c.Input() != "ell" {
		t.Errorf("expected backspace at the end to remove 'o', got %q", c.Input())
	}
	if c.Grid().CursorPoint() != termgrid.Pt(5, 0) {
		t.Errorf("expected cursor at (5,0), got %s", c.Grid().CursorPoint())
	}
}

func TestModifiedRunesAreNotInserted(t *testing.T) {
	c := newTestConsole(t)

	if c.HandleRune(keybind.ModAlt, 'x') {
		t.Error("expected Alt+X to be unhandled")
	}
	if !c.HandleRune(keybind.ModShift, 'X') {
		t.Error("expected Shift+X to insert")
	}
	if c.Input() != "X" {
		t.Errorf("expected 'X', got %q", c.Input())
	}
}

func TestSubmitSyncCommand(t *testing.T) {
	c := newTestConsole(t)

	typeText(c, "echo hi")
	press(t, c, "Enter")
	waitIdle(t, c)

	if got := rows(c); !equalRows(got, []string{"> echo hi", "hi", "> "}) {
		t.Errorf("unexpected rows %q", got)
	}
	if h := c.History().Entries(); len(h) != 1 || h[0] != "echo hi" {
		t.Errorf("expected history entry, got %q", h)
	}
	if c.Input() != "" {
		t.Errorf("expected an empty input, got %q", c.Input())
	}
	if c.Err() != nil {
		t.Errorf("expected no failure, got %v", c.Err())
	}
}

func TestSubmitErrors(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"unknown command", "nope", "nope: unknown command"},
		{"failing command", "fail", "boom"},
		{"unterminated quote", "echo 'oops", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestConsole(t)
			c.Execute(tt.line)
			waitIdle(t, c)

			got := rows(c)
			if len(got) != 3 {
				t.Fatalf("expected line, error and prompt, got %q", got)
			}
			if tt.want != "" && got[1] != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got[1])
			}
			if got[2] != "> " {
				t.Errorf("expected a fresh prompt, got %q", got[2])
			}
			if c.Err() == nil {
				t.Error("expected the failure to be recorded")
			}
			if fg := c.Grid().Cell(termgrid.Pt(0, 1)).Fg; fg == nil {
				t.Error("expected the error to be colored")
			}
		})
	}
}

func TestBlankLinePrompts(t *testing.T) {
	c := newTestConsole(t)

	press(t, c, "Enter")

	if got := rows(c); !equalRows(got, []string{"> ", "> "}) {
		t.Errorf("unexpected rows %q", got)
	}
	if c.History().Len() != 0 {
		t.Error("expected blank lines to stay out of history")
	}
}

func TestAsyncOutputOrder(t *testing.T) {
	c := newTestConsole(t)

	c.Execute("stream")
	if !c.Busy() {
		t.Fatal("expected the command to be running")
	}
	waitIdle(t, c)

	if got := rows(c); !equalRows(got, []string{"> stream", "a", "b", "> "}) {
		t.Errorf("unexpected rows %q", got)
	}
	if fg := c.Grid().Cell(termgrid.Pt(0, 2)).Fg; fg == nil {
		t.Error("expected stderr output to be colored")
	}
	if fg := c.Grid().Cell(termgrid.Pt(0, 1)).Fg; fg != nil {
		t.Errorf("expected plain stdout output, got %v", fg)
	}
}

func TestInterruptCancelsRunningCommand(t *testing.T) {
	c := newTestConsole(t)

	c.Execute("wait")
	if !c.Busy() {
		t.Fatal("expected the command to be running")
	}
	if c.HandleRune(keybind.ModNone, 'x') {
		t.Error("expected typing to be ignored while a command runs")
	}

	if !press(t, c, "Ctrl+C") {
		t.Fatal("expected Ctrl+C to be handled")
	}
	waitIdle(t, c)

	if got := rows(c); !equalRows(got, []string{"> wait", command.CanceledMessage, "> "}) {
		t.Errorf("unexpected rows %q", got)
	}
}

func TestCloseWaitsForRunningCommand(t *testing.T) {
	c := newTestConsole(t)

	c.Execute("slow")
	if !c.Busy() {
		t.Fatal("expected the command to be running")
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if c.Busy() {
		t.Error("expected Close to finish the running command")
	}
	text := c.Grid().String()
	if strings.Contains(text, "late") {
		t.Errorf("expected output after Close to be dropped, got %q", text)
	}
	if !strings.Contains(text, command.CanceledMessage) {
		t.Errorf("expected the cancellation to be reported, got %q", text)
	}
}

func TestCloseWithSharedDispatcher(t *testing.T) {
	d := dispatch.New()
	c := newTestConsole(t, WithDispatcher(d))

	c.Execute("slow")
	before := c.Grid().String()
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := d.Close(); err != nil {
		t.Fatalf("dispatcher Close: %v", err)
	}

	if got := c.Grid().String(); got != before {
		t.Errorf("expected a closed console to leave the grid alone, got %q", got)
	}
	if c.Busy() {
		t.Error("expected the command to be finished")
	}
}

func TestCtrlCWithSelectionCopies(t *testing.T) {
	c := newTestConsole(t)

	c.Execute("wait")
	c.Grid().SelectAll()

	if !press(t, c, "Ctrl+C") {
		t.Fatal("expected Ctrl+C to copy")
	}
	if !c.Busy() {
		t.Error("expected the command to keep running")
	}
	if clip := c.Grid().Clipboard().Read(termgrid.ClipboardSystem); !strings.Contains(clip, "> wait") {
		t.Errorf("expected the selection on the clipboard, got %q", clip)
	}

	press(t, c, "Escape")
	if c.Grid().HasSelection() {
		t.Fatal("expected Escape to drop the selection")
	}
	press(t, c, "Ctrl+C")
	waitIdle(t, c)
	if c.Busy() {
		t.Error("expected the command to be canceled")
	}
}

func TestCtrlCWhenIdleAbandonsInput(t *testing.T) {
	c := newTestConsole(t)

	typeText(c, "abc")
	press(t, c, "Ctrl+C")

	if got := rows(c); !equalRows(got, []string{"> abc^C", "> "}) {
		t.Errorf("unexpected rows %q", got)
	}
	if c.Input() != "" {
		t.Errorf("expected an empty input, got %q", c.Input())
	}
	if c.History().Len() != 0 {
		t.Error("expected abandoned input to stay out of history")
	}
}

func TestMacOSBindings(t *testing.T) {
	c := newTestConsole(t, WithPlatform(keybind.PlatformMacOS))

	typeText(c, "x")
	c.Grid().SelectAll()

	if press(t, c, "Ctrl+C") {
		t.Error("expected Ctrl+C with a selection to be unhandled on macOS")
	}
	if !press(t, c, "Cmd+C") {
		t.Fatal("expected Cmd+C to copy")
	}
	if clip := c.Grid().Clipboard().Read(termgrid.ClipboardSystem); !strings.Contains(clip, "> x") {
		t.Errorf("expected the selection on the clipboard, got %q", clip)
	}

	if !press(t, c, "Cmd+K") {
		t.Fatal("expected Cmd+K to clear")
	}
	if got := rows(c); !equalRows(got, []string{"> x"}) {
		t.Errorf("expected a cleared screen keeping the input, got %q", got)
	}
}

func TestPasteFoldsLines(t *testing.T) {
	c := newTestConsole(t)
	c.Grid().Clipboard().Write(termgrid.ClipboardSystem, []byte("a\r\nb\tc\x07"))

	if !press(t, c, "Ctrl+V") {
		t.Fatal("expected Ctrl+V to paste")
	}
	if c.Input() != "a b c" {
		t.Errorf("expected 'a b c', got %q", c.Input())
	}
	if c.Grid().RowCount() != 1 {
		t.Errorf("expected paste to stay on one line, got %q", rows(c))
	}
}

func TestSanitizePaste(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"one\ntwo", "one two"},
		{"one\r\ntwo", "one two"},
		{"tab\there", "tab here"},
		{"bell\x07", "bell"},
		{"中文", "中文"},
	}

	for _, tt := range tests {
		if got := sanitizePaste(tt.in); got != tt.want {
			t.Errorf("sanitizePaste(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestHistoryNavigation(t *testing.T) {
	c := newTestConsole(t)
	c.Execute("echo one")
	waitIdle(t, c)
	c.Execute("echo two")
	waitIdle(t, c)

	typeText(c, "draft")

	steps := []struct {
		key  string
		want string
	}{
		{"Up", "echo two"},
		{"Up", "echo one"},
		{"Up", "echo one"},
		{"Down", "echo two"},
		{"Down", "draft"},
	}
	for _, s := range steps {
		press(t, c, s.key)
		if c.Input() != s.want {
			t.Fatalf("after %s expected %q, got %q", s.key, s.want, c.Input())
		}
	}
}

func TestTabCompletion(t *testing.T) {
	t.Run("single candidate", func(t *testing.T) {
		c := newTestConsole(t)
		typeText(c, "ec")
		press(t, c, "Tab")
		if c.Input() != "echo " {
			t.Errorf("expected 'echo ', got %q", c.Input())
		}
	})

	t.Run("common prefix", func(t *testing.T) {
		c := newTestConsole(t)
		typeText(c, "he")
		press(t, c, "Tab")
		if c.Input() != "hel" {
			t.Errorf("expected 'hel', got %q", c.Input())
		}
	})

	t.Run("listing", func(t *testing.T) {
		c := newTestConsole(t)
		typeText(c, "hel")
		press(t, c, "Tab")

		if got := rows(c); !equalRows(got, []string{"> hel", "hello  help", "> hel"}) {
			t.Errorf("unexpected rows %q", got)
		}
		if c.Input() != "hel" {
			t.Errorf("expected the input to be kept, got %q", c.Input())
		}
	})

	t.Run("no candidates", func(t *testing.T) {
		c := newTestConsole(t)
		typeText(c, "echo x")
		press(t, c, "Tab")
		if c.Input() != "echo x" {
			t.Errorf("expected the input unchanged, got %q", c.Input())
		}
	})
}

func TestWrappedInput(t *testing.T) {
	cfg := config.Default()
	cfg.Width = 10
	cfg.Height = 5
	cfg.Platform = "linux"
	c := newTestConsole(t, WithConfig(cfg))

	typeText(c, "echo 0123456789")

	if c.Input() != "echo 0123456789" {
		t.Fatalf("expected the wrapped input, got %q", c.Input())
	}
	press(t, c, "Enter")
	waitIdle(t, c)

	if h := c.History().Entries(); len(h) != 1 || h[0] != "echo 0123456789" {
		t.Errorf("expected the full line in history, got %q", h)
	}
	if !strings.Contains(c.Grid().String(), "0123456789\n") {
		t.Errorf("expected echoed output, got %q", c.Grid().String())
	}
}

func TestConfiguredBindings(t *testing.T) {
	cfg := config.Default()
	cfg.Width = 40
	cfg.Height = 10
	cfg.Platform = "linux"
	cfg.Bindings = map[string]string{
		"Ctrl+K": "clear",
		"Ctrl+L": "none",
		"Ctrl+U": "clear_input",
		"Ctrl+Q": "no_such_action",
	}
	c := newTestConsole(t, WithConfig(cfg))
	c.Execute("echo hi")
	waitIdle(t, c)
	typeText(c, "abc")

	if press(t, c, "Ctrl+L") {
		t.Error("expected Ctrl+L to be unbound")
	}
	if press(t, c, "Ctrl+Q") {
		t.Error("expected an unknown action to be ignored")
	}
	if !press(t, c, "Ctrl+K") {
		t.Fatal("expected Ctrl+K to clear")
	}
	if got := rows(c); !equalRows(got, []string{"> abc"}) {
		t.Errorf("unexpected rows %q", got)
	}
	if !press(t, c, "Ctrl+U") {
		t.Fatal("expected Ctrl+U to erase the input")
	}
	if c.Input() != "" {
		t.Errorf("expected an empty input, got %q", c.Input())
	}
}

func TestApplyConfig(t *testing.T) {
	c := newTestConsole(t)

	cfg := c.Config()
	cfg.Width = 20
	cfg.Prompt = "$ "
	cfg.CursorStyle = "bar"
	if err := c.ApplyConfig(cfg); err != nil {
		t.Fatalf("ApplyConfig: %v", err)
	}

	if c.Grid().Width() != 20 {
		t.Errorf("expected width 20, got %d", c.Grid().Width())
	}
	if c.Grid().CursorSettings().Style != termgrid.CursorStyleBar {
		t.Errorf("expected bar cursor, got %s", c.Grid().CursorSettings().Style)
	}

	press(t, c, "Enter")
	if got := rows(c); !equalRows(got, []string{"> ", "$ "}) {
		t.Errorf("expected the new prompt, got %q", got)
	}

	bad := c.Config()
	bad.Width = 0
	if err := c.ApplyConfig(bad); !errors.Is(err, config.ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
	if c.Grid().Width() != 20 {
		t.Error("expected a rejected config to leave the grid alone")
	}
}

func TestSessionRestore(t *testing.T) {
	store := session.NewMemoryStore()

	first := newTestConsole(t, WithStore(store, "work"))
	first.Execute("echo hi")
	waitIdle(t, first)
	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	second := newTestConsole(t, WithStore(store, "work"))

	if !strings.Contains(second.Grid().String(), "> echo hi\nhi\n") {
		t.Errorf("expected the transcript to be restored, got %q", second.Grid().String())
	}
	if h := second.History().Entries(); len(h) != 1 || h[0] != "echo hi" {
		t.Errorf("expected restored history, got %q", h)
	}
	if second.Input() != "" {
		t.Errorf("expected a fresh prompt, got %q", second.Input())
	}

	other := newTestConsole(t, WithStore(store, "other"))
	if other.History().Len() != 0 || other.Grid().String() != "> " {
		t.Errorf("expected sessions to be separate, got %q", other.Grid().String())
	}
}

func TestBindingsListing(t *testing.T) {
	c := newTestConsole(t)

	var interrupt, copyAction bool
	for _, b := range c.Bindings() {
		if b.Chord == keybind.MustParseChord("Ctrl+C").AsPreview() {
			interrupt = true
		}
		if b.Chord == keybind.MustParseChord("Ctrl+C") {
			copyAction = true
		}
	}
	if !interrupt || !copyAction {
		t.Errorf("expected Ctrl+C in the preview and global tables, got preview=%v global=%v", interrupt, copyAction)
	}

	names := Actions()
	if len(names) != len(actions) || names[0] != "backspace" {
		t.Errorf("unexpected actions %q", names)
	}
}

func TestFormatColumns(t *testing.T) {
	tests := []struct {
		name  string
		items []string
		width int
		want  []string
	}{
		{"empty", nil, 20, nil},
		{"one row", []string{"a", "bb", "c"}, 20, []string{"a   bb  c"}},
		{"column major", []string{"a", "b", "c", "d", "e"}, 9, []string{"a  c  e", "b  d"}},
		{"narrow", []string{"long", "longer"}, 3, []string{"long", "longer"}},
		{"wide runes", []string{"中文", "x"}, 20, []string{"中文  x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatColumns(tt.items, tt.width); !equalRows(got, tt.want) {
				t.Errorf("FormatColumns = %q, want %q", got, tt.want)
			}
		})
	}
}
