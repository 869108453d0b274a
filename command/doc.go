// Package command defines the commands a console runs and the registry that
// resolves a submitted line to one of them.
//
// A [Command] runs on the dispatcher thread and may touch the grid directly.
// An [AsyncCommand] runs on a background goroutine; it must reach the grid
// through the dispatcher and should return promptly once its context is
// canceled. Output written to [Context.Out] and [Context.Err] is delivered
// to the console in order.
package command
