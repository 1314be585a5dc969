package messagestream

import (
	"errors"
	"fmt"
)

var (
	ErrConnect          = errors.New("messagestream: connect failed")
	ErrDisconnect       = errors.New("messagestream: disconnect failed")
	ErrQueueWrite       = errors.New("messagestream: queue write failed")
	ErrQueueRead        = errors.New("messagestream: queue read failed")
	ErrQueueQuery       = errors.New("messagestream: queue query failed")
	ErrStreamConnect    = errors.New("messagestream: stream connect failed")
	ErrStreamWrite      = errors.New("messagestream: stream write failed")
	ErrStreamPurge      = errors.New("messagestream: stream purge failed")
	ErrStreamQuery      = errors.New("messagestream: stream query failed")
	ErrStreamDisconnect = errors.New("messagestream: stream disconnect failed")
)

// Error wraps an underlying store failure with the entity name it occurred on.
// Kind is one of the sentinel errors above and is matched by errors.Is.
type Error struct {
	Kind   error
	Entity string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v (entity %q): %v", e.Kind, e.Entity, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func wrapErr(kind error, entity string, err error) error {
	return &Error{Kind: kind, Entity: entity, Err: err}
}
