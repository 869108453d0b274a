package builtin

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/danielgatis/go-termgrid/command"
	"github.com/danielgatis/go-termgrid/dispatch"
)

// Help lists the commands in reg, or prints one command's usage.
func Help(reg *command.Registry) command.Command {
	f := command.NewFunc("help", "help [command]", func(c *command.Context) error {
		if len(c.Args) > 1 {
			cmd, ok := reg.Lookup(c.Args[1])
			if !ok {
				return &command.Error{Kind: command.ErrUnknownCommand, Command: c.Args[1]}
			}
			fmt.Fprintln(c.Out, cmd.Usage())
			return nil
		}

		width := 0
		for _, name := range reg.Names() {
			if w := runewidth.StringWidth(name); w > width {
				width = w
			}
		}
		for _, cmd := range reg.Commands() {
			fmt.Fprintf(c.Out, "%s  %s\n", runewidth.FillRight(cmd.Name(), width), cmd.Usage())
		}
		return nil
	})
	f.Complete = func(args []string, prefix string) []string {
		if len(args) > 0 {
			return nil
		}
		return reg.Names()
	}
	return f
}

// Echo prints its arguments.
func Echo() command.Command {
	return command.NewFunc("echo", "echo [text...]", func(c *command.Context) error {
		fmt.Fprintln(c.Out, strings.Join(c.Args[1:], " "))
		return nil
	})
}

// Clear erases the screen.
func Clear() command.Command {
	return command.NewFunc("clear", "clear", func(c *command.Context) error {
		c.Grid.Clear()
		return nil
	})
}

// History prints the submitted lines, numbered.
func History(entries func() []string) command.Command {
	return command.NewFunc("history", "history [count]", func(c *command.Context) error {
		lines := entries()
		start := 0
		if len(c.Args) > 1 {
			var n int
			if _, err := fmt.Sscan(c.Args[1], &n); err != nil || n < 0 {
				return command.Usagef(History(entries), "count must be a non-negative integer")
			}
			if n < len(lines) {
				start = len(lines) - n
			}
		}
		for i := start; i < len(lines); i++ {
			fmt.Fprintf(c.Out, "%5d  %s\n", i+1, lines[i])
		}
		return nil
	})
}

// Sleep waits for a duration in the background, printing progress each second.
func Sleep() command.AsyncCommand {
	var self *command.AsyncFunc
	self = command.NewAsyncFunc("sleep", "sleep <duration>", func(ctx context.Context, c *command.Context) error {
		if len(c.Args) != 2 {
			return command.Usagef(self, "expected one duration")
		}
		total, err := time.ParseDuration(c.Args[1])
		if err != nil || total < 0 {
			return command.Usagef(self, "invalid duration %q", c.Args[1])
		}

		var slept time.Duration
		for slept < total {
			step := min(time.Second, total-slept)
			if err := dispatch.Delay(ctx, step); err != nil {
				return err
			}
			slept += step
			fmt.Fprintf(c.Out, "slept %s of %s\n", slept, total)
		}
		return nil
	})
	self.Complete = func(args []string, prefix string) []string {
		return []string{"1s", "5s", "10s"}
	}
	return self
}
