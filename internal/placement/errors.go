package placement

import (
	"errors"
	"fmt"

	"go-signpdf/internal/geometry"
	"go-signpdf/internal/position"
)

// Kind classifies placement failures so handlers can map them to HTTP
// statuses and batch outcomes can be reported per target.
type Kind int

const (
	KindOutOfBounds Kind = iota
	KindNotFound
	KindForbidden
	KindTransientIO
	KindInvalidPosition
)

func (k Kind) String() string {
	switch k {
	case KindOutOfBounds:
		return "out_of_bounds"
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindTransientIO:
		return "transient_io"
	case KindInvalidPosition:
		return "invalid_position"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

type Error struct {
	Kind Kind
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.msg, e.err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.msg)
}

func (e *Error) Unwrap() error { return e.err }

// E builds a placement error of the given kind.
func E(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, msg: fmt.Sprintf(format, args...)}
}

// Wrap classifies an underlying error. Geometry and position sentinels map
// to their kinds; anything else becomes the fallback kind.
func Wrap(fallback Kind, err error, format string, args ...any) *Error {
	kind := fallback
	switch {
	case errors.Is(err, geometry.ErrOutOfBounds):
		kind = KindOutOfBounds
	case errors.Is(err, position.ErrInvalidPosition):
		kind = KindInvalidPosition
	}
	return &Error{Kind: kind, msg: fmt.Sprintf(format, args...), err: err}
}

// KindOf extracts the failure kind from an error chain.
func KindOf(err error) (Kind, bool) {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind, true
	}
	return 0, false
}
