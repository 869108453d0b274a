// Package console hosts an interactive command line on a termgrid.Grid.
//
// The console owns the input region after its prompt, resolves key events
// through layered binding tables and runs commands from a command.Registry
// on a dispatch.Dispatcher. It is not safe for concurrent use: every method
// must be called from the goroutine that pumps the dispatcher. Hosts feed
// input from inside a unit (see Dispatcher().InvokeAsync) so that binding
// actions observe CheckAccess like the commands they start.
package console

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/log"

	termgrid "github.com/danielgatis/go-termgrid"
	"github.com/danielgatis/go-termgrid/command"
	"github.com/danielgatis/go-termgrid/config"
	"github.com/danielgatis/go-termgrid/dispatch"
	"github.com/danielgatis/go-termgrid/keybind"
	"github.com/danielgatis/go-termgrid/session"
)

// DEFAULT_SESSION_NAME is used when no session name is given.
const DEFAULT_SESSION_NAME = "default"

// Console is an interactive command line.
type Console struct {
	grid     *termgrid.Grid
	disp     *dispatch.Dispatcher
	ownsDisp bool
	reg      *command.Registry
	cfg      config.Config
	store    session.Store
	name     string
	logger   *log.Logger
	platform keybind.Platform
	prompt   string
	history  *session.History

	preview *keybind.Collection[*Console]
	normal  *keybind.Collection[*Console]
	global  *keybind.Collection[*Console]

	ctx        context.Context
	cancel     context.CancelFunc
	inputStart termgrid.Point
	running    *job
	lastErr    error
	closed     bool
}

type job struct {
	name   string
	cancel context.CancelFunc
	op     *dispatch.Operation
	start  time.Time
}

// Option configures a Console.
type Option func(*Console)

// WithGrid uses g instead of a grid built from the config.
func WithGrid(g *termgrid.Grid) Option {
	return func(c *Console) {
		c.grid = g
	}
}

// WithDispatcher uses d instead of a private dispatcher. The caller keeps
// ownership and closes it.
func WithDispatcher(d *dispatch.Dispatcher) Option {
	return func(c *Console) {
		c.disp = d
	}
}

// WithRegistry sets the commands the console runs.
func WithRegistry(r *command.Registry) Option {
	return func(c *Console) {
		c.reg = r
	}
}

// WithConfig sets the configuration. Defaults to config.Default().
func WithConfig(cfg config.Config) Option {
	return func(c *Console) {
		c.cfg = cfg
	}
}

// WithStore persists grid state and history under the session name.
func WithStore(s session.Store, name string) Option {
	return func(c *Console) {
		c.store = s
		if name != "" {
			c.name = name
		}
	}
}

// WithLogger sets the logger. Defaults to a logger that discards everything.
func WithLogger(l *log.Logger) Option {
	return func(c *Console) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithPlatform overrides the configured key binding family.
func WithPlatform(p keybind.Platform) Option {
	return func(c *Console) {
		c.platform = p
		c.cfg.Platform = p.String()
	}
}

// WithPrompt overrides the configured prompt.
func WithPrompt(prompt string) Option {
	return func(c *Console) {
		c.cfg.Prompt = prompt
	}
}

// New builds a console, restores its session when a store is set and writes
// the first prompt.
func New(opts ...Option) *Console {
	c := &Console{
		cfg:    config.Default(),
		name:   DEFAULT_SESSION_NAME,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.platform = c.cfg.KeyPlatform()
	c.prompt = c.cfg.Prompt
	if c.reg == nil {
		c.reg = command.NewRegistry()
	}
	if c.disp == nil {
		c.disp = dispatch.New(
			dispatch.WithFrameBudget(time.Duration(c.cfg.FrameBudget)),
			dispatch.WithLogger(c.logger),
		)
		c.ownsDisp = true
	}
	if c.grid == nil {
		c.grid = termgrid.New(
			termgrid.WithSize(c.cfg.Width, c.cfg.Height),
			termgrid.WithMaxBufferHeight(c.cfg.MaxBufferHeight),
			termgrid.WithTabWidth(c.cfg.TabWidth),
			termgrid.WithClipboard(termgrid.NewMemoryClipboard()),
			termgrid.WithLogger(c.logger),
		)
	}
	c.grid.SetCursorSettings(c.cfg.Cursor())
	c.history = session.NewHistory(c.cfg.HistorySize)
	c.ctx, c.cancel = context.WithCancel(context.Background())

	c.buildBindings()
	c.loadSession()
	c.writePrompt()
	return c
}

// Grid returns the screen buffer.
func (c *Console) Grid() *termgrid.Grid { return c.grid }

// Dispatcher returns the dispatcher commands run on.
func (c *Console) Dispatcher() *dispatch.Dispatcher { return c.disp }

// Registry returns the command registry.
func (c *Console) Registry() *command.Registry { return c.reg }

// History returns the submitted lines.
func (c *Console) History() *session.History { return c.history }

// Config returns the active configuration.
func (c *Console) Config() config.Config { return c.cfg }

// Platform returns the key binding family in use.
func (c *Console) Platform() keybind.Platform { return c.platform }

// Busy reports whether a command is running.
func (c *Console) Busy() bool { return c.running != nil }

// Err returns the failure of the last submitted line, or nil.
func (c *Console) Err() error { return c.lastErr }

// Tick runs one frame of queued work.
func (c *Console) Tick() int {
	return c.disp.RunUntil(time.Duration(c.cfg.FrameBudget))
}

// Drain runs queued work until none is left.
func (c *Console) Drain() int {
	return c.disp.Drain()
}

// ApplyConfig switches to cfg: the grid is resized, cursor and prompt
// settings change and the binding tables are rebuilt. The prompt already on
// screen is kept.
func (c *Console) ApplyConfig(cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := c.grid.Resize(cfg.Width, cfg.Height); err != nil {
		return err
	}
	if err := c.grid.SetMaxBufferHeight(cfg.MaxBufferHeight); err != nil {
		return err
	}
	c.grid.SetCursorSettings(cfg.Cursor())
	c.cfg = cfg
	c.prompt = cfg.Prompt
	c.platform = cfg.KeyPlatform()
	c.buildBindings()
	c.clampInputStart()
	c.logger.Info("config applied", "width", cfg.Width, "height", cfg.Height, "platform", c.platform)
	return nil
}

// SessionState returns the grid state.
func (c *Console) SessionState() termgrid.SessionState {
	return c.grid.State()
}

// Restore replaces the grid contents with s and writes a fresh prompt.
func (c *Console) Restore(s termgrid.SessionState) error {
	if c.running != nil {
		return errors.New("console: cannot restore while a command is running")
	}
	if err := c.grid.Restore(s); err != nil {
		return err
	}
	c.writePrompt()
	return nil
}

// SaveSession writes the grid state to the store, if any.
func (c *Console) SaveSession(ctx context.Context) error {
	if c.store == nil {
		return nil
	}
	return c.store.SaveState(ctx, c.name, c.grid.State())
}

func (c *Console) loadSession() {
	if c.store == nil {
		return
	}
	ctx := context.Background()
	state, err := c.store.LoadState(ctx, c.name)
	switch {
	case errors.Is(err, session.ErrNotFound):
	case err != nil:
		c.logger.Warn("failed to load session", "name", c.name, "err", err)
	default:
		if err := c.grid.Restore(state); err != nil {
			c.logger.Warn("discarding saved session", "name", c.name, "err", err)
		}
	}

	lines, err := c.store.LoadHistory(ctx, c.name, c.cfg.HistorySize)
	if err != nil {
		c.logger.Warn("failed to load history", "name", c.name, "err", err)
		return
	}
	c.history.Load(lines)
}

// Close cancels the running command and saves the session. A dispatcher the
// console created is closed first, which waits for the command to return.
// Completions that arrive after Close leave the grid untouched.
func (c *Console) Close() error {
	if c.closed {
		return nil
	}
	c.cancel()
	if c.ownsDisp {
		c.disp.Close()
	}
	c.closed = true
	return c.SaveSession(context.Background())
}
