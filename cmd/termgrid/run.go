package main

import (
	"context"
	"errors"
	"os"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	termgrid "github.com/danielgatis/go-termgrid"
	"github.com/danielgatis/go-termgrid/command"
	"github.com/danielgatis/go-termgrid/config"
	"github.com/danielgatis/go-termgrid/keybind"
)

// DEFAULT_FRAME_INTERVAL is how often the screen is redrawn while idle.
const DEFAULT_FRAME_INTERVAL = time.Second / 60

var errNoTerminal = errors.New("run needs a terminal, use exec for scripts")

func newRunCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the interactive console",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd.Context(), opts)
		},
	}
}

func runInteractive(ctx context.Context, opts *options) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return errNoTerminal
	}

	e, err := opts.load()
	if err != nil {
		return err
	}
	defer e.Close()

	store, err := e.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	fini := sync.OnceFunc(screen.Fini)
	defer fini()
	screen.EnableMouse()

	e.cfg.Width, e.cfg.Height = screen.Size()
	h, err := e.newHost(store, opts.session)
	if err != nil {
		return err
	}
	defer func() {
		if err := h.con.Close(); err != nil {
			e.logger.Warn("failed to save session", "err", err)
		}
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	h.con.Registry().MustRegister(command.NewFunc("exit", "exit", func(*command.Context) error {
		cancel()
		return nil
	}))

	g, gctx := errgroup.WithContext(ctx)
	events := make(chan tcell.Event, 64)
	g.Go(func() error {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return nil
			}
			select {
			case events <- ev:
			case <-gctx.Done():
				return nil
			}
		}
	})
	g.Go(func() error {
		err := config.Watch(gctx, e.configPath, e.logger, func(cfg config.Config) {
			h.con.Dispatcher().InvokeAsync(gctx, func(context.Context) error {
				cfg.Width, cfg.Height = screen.Size()
				h.apply(cfg)
				return nil
			})
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			e.logger.Warn("config watch stopped", "path", e.configPath, "err", err)
		}
		return nil
	})

	e.logger.Info("console started", "width", e.cfg.Width, "height", e.cfg.Height, "session", opts.session)
	loopErr := (&screenHost{host: h, screen: screen}).loop(gctx, events)
	cancel()
	fini()
	return errors.Join(loopErr, g.Wait())
}

// screenHost drives a console from tcell events. Each event is handled in
// its own dispatcher unit, in order with command output.
type screenHost struct {
	*host
	screen tcell.Screen
	quit   bool
}

func (s *screenHost) loop(ctx context.Context, events <-chan tcell.Event) error {
	ticker := time.NewTicker(DEFAULT_FRAME_INTERVAL)
	defer ticker.Stop()

	draw(s.screen, s.con.Grid())
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			post(ctx, s.con, func() { s.quit = s.handle(ev) })
		case <-ticker.C:
		}
		s.con.Tick()
		if s.quit {
			return nil
		}
		draw(s.screen, s.con.Grid())
	}
}

// handle processes one event. It returns true when the user asked to quit.
func (s *screenHost) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		cfg := s.con.Config()
		cfg.Width, cfg.Height = ev.Size()
		s.apply(cfg)
		s.screen.Sync()
	case *tcell.EventKey:
		mods, key, r := translateKey(ev)
		if mods == keybind.ModCtrl && key == keybind.RuneKey('d') && !s.con.Busy() && s.con.Input() == "" {
			return true
		}
		s.con.HandleKey(mods, key, r)
	case *tcell.EventMouse:
		s.mouse(ev)
	}
	return false
}

func (s *screenHost) mouse(ev *tcell.EventMouse) {
	g := s.con.Grid()
	x, y := ev.Position()
	if x >= g.Width() {
		x = g.Width() - 1
	}
	p := termgrid.Pt(x, g.VisibleIndex()+y)

	var err error
	switch btn := ev.Buttons(); {
	case btn&tcell.WheelUp != 0:
		g.LineUp()
	case btn&tcell.WheelDown != 0:
		g.LineDown()
	case btn&tcell.Button1 != 0:
		if g.IsSelecting() {
			err = g.UpdateSelecting(p)
		} else {
			err = g.BeginSelecting(p)
		}
	case g.IsSelecting():
		err = g.EndSelecting(ev.Modifiers()&tcell.ModCtrl != 0)
	}
	if err != nil {
		s.logger.Debug("mouse selection ignored", "point", p, "err", err)
	}
}
