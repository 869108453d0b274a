package termgrid

import "errors"

var (
	// ErrInvalidArgument is returned for negative sizes and other malformed input.
	ErrInvalidArgument = errors.New("termgrid: invalid argument")
	// ErrOutOfRange is returned when a point falls outside the buffer.
	ErrOutOfRange = errors.New("termgrid: point out of range")
	// ErrInvalidOperation is returned when a call does not apply to the current state.
	ErrInvalidOperation = errors.New("termgrid: invalid operation")
)
