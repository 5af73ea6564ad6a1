package tabulation

import (
	"errors"
	"fmt"
)

// ErrInvalid marks a configuration or input error: an unknown tie-break
// mode or other policy value, an unknown key in a decoded option set, a
// malformed tagged JSON value. Callers at a service boundary should
// report it to the caller, not retry.
var ErrInvalid = errors.New("invalid")

// ErrInternal marks a failure that should never happen given a well-formed
// caller; services surface it as an opaque 500-equivalent rather than the
// original message.
var ErrInternal = errors.New("internal")

// ErrNotAllowed marks a request that is well-formed but structurally
// disallowed given how it was made, such as a GET against an endpoint
// that only accepts POST. It is distinct from ErrInvalid, which marks a
// malformed value; ErrNotAllowed marks an otherwise-valid request the
// caller has no standing to make this way.
var ErrNotAllowed = errors.New("not allowed")

// messageError wraps a sentinel with a formatted, caller-facing message and
// reports its own Type() for classification.
type messageError struct {
	sentinel error
	msg      string
}

func (e messageError) Error() string {
	return e.msg
}

func (e messageError) Unwrap() error {
	return e.sentinel
}

func (e messageError) Type() string {
	return e.sentinel.Error()
}

// MessageError builds an error wrapping sentinel with a literal message.
func MessageError(sentinel error, msg string) error {
	return messageError{sentinel: sentinel, msg: msg}
}

// MessageErrorf builds an error wrapping sentinel with a formatted message.
func MessageErrorf(sentinel error, format string, a ...any) error {
	return messageError{sentinel: sentinel, msg: fmt.Sprintf(format, a...)}
}

// WrapError attaches sentinel to an existing error without discarding its
// message, so errors.Is(result, sentinel) holds alongside the original text.
func WrapError(sentinel error, err error) error {
	if err == nil {
		return nil
	}
	return messageError{sentinel: sentinel, msg: err.Error()}
}
