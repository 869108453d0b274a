package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/danielgatis/go-termgrid/dispatch"
)

var (
	// ErrUnknownCommand is matched by errors for lines naming no registered command.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrUsage is matched by errors for malformed arguments.
	ErrUsage = errors.New("invalid usage")
	// ErrDuplicateCommand is returned when registering a name twice.
	ErrDuplicateCommand = errors.New("duplicate command")
)

// CanceledMessage is printed when a running command is canceled.
const CanceledMessage = "operation was canceled"

// Error is a command failure of a given kind. It matches its Kind with errors.Is.
type Error struct {
	Kind    error
	Command string
	Detail  string
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Command != "" {
		b.WriteString(e.Command)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.Error())
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	return b.String()
}

func (e *Error) Is(target error) bool {
	return target == e.Kind
}

// Usagef returns an ErrUsage error for cmd.
func Usagef(cmd Command, format string, args ...any) error {
	detail := fmt.Sprintf(format, args...)
	if u := cmd.Usage(); u != "" {
		detail += " (usage: " + u + ")"
	}
	return &Error{Kind: ErrUsage, Command: cmd.Name(), Detail: detail}
}

// FormatError renders err for the transcript. Verbose output lists every
// wrapped cause on its own line, plus the stack of a recovered panic; terse
// output is the innermost message. Cancellation always renders as
// CanceledMessage.
func FormatError(err error, verbose bool) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.Canceled) {
		return CanceledMessage
	}

	var chain []string
	last := err
	for e := err; e != nil; e = errors.Unwrap(e) {
		chain = append(chain, e.Error())
		last = e
	}
	if !verbose {
		return last.Error()
	}

	out := strings.Join(chain, "\n")
	var pe *dispatch.PanicError
	if errors.As(err, &pe) && len(pe.Stack) > 0 {
		out += "\n" + strings.TrimRight(string(pe.Stack), "\n")
	}
	return out
}
