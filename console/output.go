package console

import (
	"context"

	"github.com/danielgatis/go-termgrid/command"
)

const (
	sgrError = "\x1b[31m"
	sgrReset = "\x1b[0m"
)

// output is a command's Out or Err. Deferred writers come from background
// bodies and round-trip through the dispatcher so output keeps its order
// relative to the command's completion.
type output struct {
	c        *Console
	deferred bool
	stderr   bool
}

func (o *output) Write(p []byte) (int, error) {
	if !o.deferred {
		o.c.writeOutput(p, o.stderr)
		return len(p), nil
	}
	data := append([]byte(nil), p...)
	op := o.c.disp.InvokeAsync(context.Background(), func(context.Context) error {
		if o.c.closed {
			return nil
		}
		o.c.writeOutput(data, o.stderr)
		return nil
	})
	select {
	case <-op.Done():
		if err := op.Result(); err != nil {
			return 0, err
		}
	default:
	}
	return len(p), nil
}

func (c *Console) writeOutput(p []byte, stderr bool) {
	if stderr {
		c.grid.WriteString(sgrError)
	}
	if _, err := c.grid.Write(p); err != nil {
		c.logger.Warn("output write failed", "err", err)
	}
	if stderr {
		c.grid.WriteString(sgrReset)
	}
	c.grid.ScrollToCursor()
}

func (c *Console) writeError(err error) {
	msg := command.FormatError(err, c.cfg.Verbose)
	if c.grid.CursorPoint().X != 0 {
		c.grid.NewLine()
	}
	c.writeOutput([]byte(msg+"\n"), true)
}
