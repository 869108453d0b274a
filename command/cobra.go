package command

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// CobraCommand exposes a cobra command tree as a console command.
type CobraCommand struct {
	root *cobra.Command
}

var (
	_ AsyncCommand = (*CobraCommand)(nil)
	_ Completer    = (*CobraCommand)(nil)
)

// Cobra wraps root. Cobra's own error and usage printing is silenced; the
// console renders the returned error instead.
func Cobra(root *cobra.Command) *CobraCommand {
	root.SilenceErrors = true
	root.SilenceUsage = true
	root.CompletionOptions.DisableDefaultCmd = true
	return &CobraCommand{root: root}
}

func (c *CobraCommand) Name() string { return c.root.Name() }

func (c *CobraCommand) Usage() string {
	if c.root.Short != "" {
		return c.root.Short
	}
	return c.root.UseLine()
}

// Execute runs the tree to completion on the caller.
func (c *CobraCommand) Execute(cc *Context) error {
	return c.ExecuteAsync(context.Background(), cc)
}

// ExecuteAsync runs the tree with cc.Args[1:]. Flags are reset to their
// defaults first since cobra keeps parsed values between runs.
func (c *CobraCommand) ExecuteAsync(ctx context.Context, cc *Context) error {
	resetFlags(c.root)
	var args []string
	if len(cc.Args) > 1 {
		args = cc.Args[1:]
	}
	c.root.SetArgs(args)
	c.root.SetIn(strings.NewReader(""))
	if cc.Out != nil {
		c.root.SetOut(cc.Out)
	}
	if cc.Err != nil {
		c.root.SetErr(cc.Err)
	}
	return c.root.ExecuteContext(ctx)
}

// Completions offers subcommands, flags, static ValidArgs and the results of
// ValidArgsFunction for the deepest command args resolve to.
func (c *CobraCommand) Completions(args []string, prefix string) []string {
	cmd, rest, err := c.root.Find(args)
	if err != nil {
		return nil
	}

	var out []string
	if strings.HasPrefix(prefix, "-") {
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			if f.Hidden {
				return
			}
			out = append(out, "--"+f.Name)
			if f.Shorthand != "" {
				out = append(out, "-"+f.Shorthand)
			}
		})
		return out
	}

	for _, sub := range cmd.Commands() {
		if sub.IsAvailableCommand() {
			out = append(out, sub.Name())
		}
	}
	for _, v := range cmd.ValidArgs {
		out = append(out, stripDescription(v))
	}
	if cmd.ValidArgsFunction != nil {
		comps, _ := cmd.ValidArgsFunction(cmd, rest, prefix)
		for _, v := range comps {
			out = append(out, stripDescription(v))
		}
	}
	return out
}

func stripDescription(s string) string {
	if i := strings.IndexByte(s, '\t'); i >= 0 {
		return s[:i]
	}
	return s
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

type cobraSync struct {
	c *CobraCommand
}

var (
	_ Command   = cobraSync{}
	_ Completer = cobraSync{}
)

// CobraSync wraps root as a command that runs on the dispatcher thread, for
// trees whose handlers touch state owned by it.
func CobraSync(root *cobra.Command) Command {
	return cobraSync{c: Cobra(root)}
}

func (s cobraSync) Name() string  { return s.c.Name() }
func (s cobraSync) Usage() string { return s.c.Usage() }

func (s cobraSync) Execute(cc *Context) error {
	return s.c.Execute(cc)
}

func (s cobraSync) Completions(args []string, prefix string) []string {
	return s.c.Completions(args, prefix)
}
