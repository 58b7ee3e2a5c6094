package engine

import (
	"errors"
	"fmt"
)

// ErrBusy is returned when Generate is called while a run is in flight.
var ErrBusy = errors.New("engine: generation already in progress")

var (
	ErrNoTickers      = errors.New("Please enter at least one security ticker.")
	ErrTooManyTickers = fmt.Errorf("Please enter a maximum of %d tickers.", MaxTickers)
)

// Kind classifies a generation failure.
type Kind int

const (
	// KindValidation is a rejected request; no collaborator was called.
	KindValidation Kind = iota + 1
	// KindDecode is a malformed or oversized audio payload.
	KindDecode
	// KindCollaborator is a failure reported by a remote stage.
	KindCollaborator
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindDecode:
		return "decode"
	case KindCollaborator:
		return "collaborator"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is the single error type Generate reports. Its message is the one
// shown to the user.
type Error struct {
	Kind  Kind
	Stage Stage
	Err   error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of err, or 0 when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
