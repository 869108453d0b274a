package builtin

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"
	"syscall"

	"github.com/creack/pty"

	"github.com/danielgatis/go-termgrid/command"
	"github.com/danielgatis/go-termgrid/dispatch"
)

// DEFAULT_SHELL runs "sh" command lines.
const DEFAULT_SHELL = "/bin/sh"

// Shell runs its arguments through shell inside a pseudo-terminal sized to
// the grid. Output is streamed to the console with escape sequences intact;
// cancellation kills the process.
func Shell(shell string) command.AsyncCommand {
	if shell == "" {
		shell = DEFAULT_SHELL
	}
	var self *command.AsyncFunc
	self = command.NewAsyncFunc("sh", "sh <command line>", func(ctx context.Context, c *command.Context) error {
		if len(c.Args) < 2 {
			return command.Usagef(self, "missing command line")
		}

		size, err := dispatch.Call(ctx, c.Dispatcher, func(context.Context) (*pty.Winsize, error) {
			return &pty.Winsize{Cols: uint16(c.Grid.Width()), Rows: uint16(c.Grid.Height())}, nil
		})
		if err != nil {
			return err
		}

		cmd := exec.CommandContext(ctx, shell, "-c", strings.Join(c.Args[1:], " "))
		cmd.Env = append(os.Environ(), "TERM=xterm-256color")
		ptmx, err := pty.StartWithSize(cmd, size)
		if err != nil {
			return err
		}
		defer ptmx.Close()
		stop := context.AfterFunc(ctx, func() { ptmx.Close() })
		defer stop()

		_, copyErr := io.Copy(c.Out, ptmx)
		waitErr := cmd.Wait()

		if ctx.Err() != nil {
			return ctx.Err()
		}
		if waitErr != nil {
			return waitErr
		}
		if copyErr != nil && !errors.Is(copyErr, syscall.EIO) {
			return copyErr
		}
		return nil
	})
	return self
}
