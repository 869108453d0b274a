package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/danielgatis/go-termgrid/console"
)

const pollInterval = time.Millisecond

func newExecCmd(opts *options) *cobra.Command {
	var width int

	cmd := &cobra.Command{
		Use:   "exec <line>...",
		Short: "Run command lines without a terminal and print the transcript",
		Long:  "exec submits every argument as one command line, waits for it to finish and prints the transcript. It fails if any line failed.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.load()
			if err != nil {
				return err
			}
			defer e.Close()
			if width > 0 {
				e.cfg.Width = width
			}

			h, err := e.newHost(nil, "")
			if err != nil {
				return err
			}
			defer h.con.Close()

			failed := 0
			for _, line := range args {
				post(cmd.Context(), h.con, func() { h.con.Execute(line) })
				waitIdle(cmd.Context(), h.con)
				if h.con.Err() != nil {
					failed++
				}
			}

			out := strings.TrimSuffix(h.con.Grid().String(), h.con.Config().Prompt)
			fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(out, "\n"))
			if failed > 0 {
				return fmt.Errorf("%d of %d lines failed", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&width, "width", "w", 0, "buffer width (default from config)")
	return cmd
}

// post queues fn as a dispatcher unit so console state changes run where
// CheckAccess holds.
func post(ctx context.Context, con *console.Console, fn func()) {
	con.Dispatcher().InvokeAsync(ctx, func(context.Context) error {
		fn()
		return nil
	})
}

// waitIdle pumps the console until the running command finishes. When ctx
// is done the command is canceled and still waited for.
func waitIdle(ctx context.Context, con *console.Console) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	done := ctx.Done()
	for {
		con.Drain()
		if !con.Busy() {
			return
		}
		select {
		case <-done:
			con.Cancel()
			done = nil
		case <-ticker.C:
		}
	}
}
