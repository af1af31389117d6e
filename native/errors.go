package native

import (
	"errors"
	"fmt"
)

// Errors reported by the lifetime layer.
var (
	// ErrInvalidHandle is returned when wrapping the null address.
	ErrInvalidHandle = errors.New("native: can't wrap null pointer")

	// ErrDisposed is the panic value (wrapped) for use of a released handle.
	ErrDisposed = errors.New("native: use of released handle")

	// ErrRefCountUnderflow is the panic value (wrapped) when the engine is
	// asked to drop a reference that does not exist.
	ErrRefCountUnderflow = errors.New("native: reference count underflow")

	// ErrUnknownObject is the panic value (wrapped) when the engine is given
	// an address it never produced or has already freed.
	ErrUnknownObject = errors.New("native: unknown object")
)

// Underflow returns the panic value an engine uses for a reference-count
// underflow on p.
func Underflow(p Pointer) error {
	return fmt.Errorf("%w: %s", ErrRefCountUnderflow, p)
}

// Unknown returns the panic value an engine uses for an address it does not
// own.
func Unknown(op string, p Pointer) error {
	return fmt.Errorf("%w: %s(%s)", ErrUnknownObject, op, p)
}

// NilHandle returns the error for a nil wrapper passed where a handle is
// required.
func NilHandle(kind string) error {
	return fmt.Errorf("%w: nil %s", ErrInvalidHandle, kind)
}
