package dispatch

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrClosed is returned for work submitted to, or pending in, a closed dispatcher.
	ErrClosed = errors.New("dispatch: dispatcher closed")
	// ErrWrongThread is returned by VerifyAccess outside a dispatched unit.
	ErrWrongThread = errors.New("dispatch: not on the dispatcher thread")
	// ErrPending is returned by Operation.Result before the unit completes.
	ErrPending = errors.New("dispatch: operation pending")
)

// PanicError is a panic recovered from a unit or background body.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Outcome classifies how a unit finished.
type Outcome int

const (
	Succeeded Outcome = iota
	Failed
	Canceled
)

func (o Outcome) String() string {
	switch o {
	case Succeeded:
		return "Succeeded"
	case Failed:
		return "Failed"
	case Canceled:
		return "Canceled"
	default:
		return "Unknown"
	}
}

// Classify maps a unit's error to its outcome. Only context.Canceled counts as
// cancellation; deadlines and panics are failures.
func Classify(err error) Outcome {
	switch {
	case err == nil:
		return Succeeded
	case errors.Is(err, context.Canceled):
		return Canceled
	default:
		return Failed
	}
}
