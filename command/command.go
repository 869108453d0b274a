package command

import (
	"context"
	"io"

	termgrid "github.com/danielgatis/go-termgrid"
	"github.com/danielgatis/go-termgrid/dispatch"
)

// Context is passed to a running command.
type Context struct {
	// Args holds the split line; Args[0] is the command name.
	Args []string
	Line string
	Out  io.Writer
	Err  io.Writer
	// Grid may only be used on the dispatcher thread.
	Grid       *termgrid.Grid
	Dispatcher dispatch.Scheduler
}

// Command is a named command run on the dispatcher thread.
type Command interface {
	Name() string
	Usage() string
	Execute(c *Context) error
}

// AsyncCommand runs off the dispatcher thread until it returns or ctx is canceled.
type AsyncCommand interface {
	Command
	ExecuteAsync(ctx context.Context, c *Context) error
}

// Completer offers argument completions. args excludes the command name and
// the word being completed.
type Completer interface {
	Completions(args []string, prefix string) []string
}

// Func adapts a function to Command.
type Func struct {
	CmdName  string
	Help     string
	Run      func(c *Context) error
	Complete func(args []string, prefix string) []string
}

var (
	_ Command      = (*Func)(nil)
	_ Completer    = (*Func)(nil)
	_ AsyncCommand = (*AsyncFunc)(nil)
	_ Completer    = (*AsyncFunc)(nil)
)

// NewFunc returns a synchronous command.
func NewFunc(name, usage string, run func(c *Context) error) *Func {
	return &Func{CmdName: name, Help: usage, Run: run}
}

func (f *Func) Name() string  { return f.CmdName }
func (f *Func) Usage() string { return f.Help }

func (f *Func) Execute(c *Context) error {
	return f.Run(c)
}

func (f *Func) Completions(args []string, prefix string) []string {
	if f.Complete == nil {
		return nil
	}
	return f.Complete(args, prefix)
}

// AsyncFunc adapts a function to AsyncCommand.
type AsyncFunc struct {
	CmdName  string
	Help     string
	Run      func(ctx context.Context, c *Context) error
	Complete func(args []string, prefix string) []string
}

// NewAsyncFunc returns a background command.
func NewAsyncFunc(name, usage string, run func(ctx context.Context, c *Context) error) *AsyncFunc {
	return &AsyncFunc{CmdName: name, Help: usage, Run: run}
}

func (f *AsyncFunc) Name() string  { return f.CmdName }
func (f *AsyncFunc) Usage() string { return f.Help }

// Execute runs the body to completion on the caller.
func (f *AsyncFunc) Execute(c *Context) error {
	return f.Run(context.Background(), c)
}

func (f *AsyncFunc) ExecuteAsync(ctx context.Context, c *Context) error {
	return f.Run(ctx, c)
}

func (f *AsyncFunc) Completions(args []string, prefix string) []string {
	if f.Complete == nil {
		return nil
	}
	return f.Complete(args, prefix)
}
