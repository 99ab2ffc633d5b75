package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is returned by New for unusable limits.
	ErrInvalidConfig = errors.New("engine: invalid configuration")

	// ErrSingleThreadedBackend is returned by New when a backend that serves
	// one handle at a time is combined with worker slots.
	ErrSingleThreadedBackend = errors.New("engine: backend does not support concurrent sweeps")
)

// InternalError reports a broken engine invariant. Sort panics with it.
type InternalError struct {
	Msg string
}

func (e *InternalError) Error() string {
	return "engine: internal error: " + e.Msg
}

func internalf(format string, args ...any) {
	panic(&InternalError{Msg: fmt.Sprintf(format, args...)})
}
