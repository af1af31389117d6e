package native

import (
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/gogpu/ggbind"
	"github.com/gogpu/ggbind/stats"
)

// Object is implemented by every engine wrapper. Wrappers get it by
// embedding *Handle or *RefCnt.
type Object interface {
	// Ptr returns the engine address. It panics after release.
	Ptr() Pointer

	// Released reports whether the wrapper has been released.
	Released() bool

	// Close releases the wrapper. It is idempotent.
	Close() error

	nativeHandle() *Handle
}

// Handle is a Go reference to one engine object.
//
// The zero value is not usable; create handles with NewHandle or NewRefCnt.
// Handle methods are not synchronized with engine calls that use the same
// address: closing a handle while another goroutine passes it to the engine
// is a caller bug.
type Handle struct {
	state   *handleState
	cleanup runtime.Cleanup
}

// handleState is shared between the Handle and its cleanup. The cleanup
// must not reference the Handle itself, or the Handle would never become
// unreachable.
type handleState struct {
	kind     string
	ptr      Pointer
	free     func(Pointer)
	released atomic.Bool
}

// release runs free exactly once. It reports whether this call did it.
func (s *handleState) release() bool {
	if !s.released.CompareAndSwap(false, true) {
		return false
	}
	if s.free != nil {
		s.free(s.ptr)
	}
	stats.OnReleased(s.kind)
	return true
}

func finalizeHandle(s *handleState) {
	if s.release() {
		ggbind.Logger().Warn("native: handle released by garbage collector",
			"kind", s.kind, "ptr", s.ptr.String())
	}
}

// NewHandle wraps ptr. free is called once with ptr when the handle is
// released; pass nil for borrowed objects owned by another object (a
// surface's canvas, for example). kind names the object type in errors,
// logs and statistics.
//
// NewHandle returns an error wrapping ErrInvalidHandle if ptr is Null.
func NewHandle(kind string, ptr Pointer, free func(Pointer)) (*Handle, error) {
	if ptr == Null {
		return nil, fmt.Errorf("%w: %s", ErrInvalidHandle, kind)
	}
	h := &Handle{}
	h.init(kind, ptr, free)
	return h, nil
}

// MustHandle is like NewHandle but panics on a null pointer. Use it only
// where the engine contract guarantees a non-null result.
func MustHandle(kind string, ptr Pointer, free func(Pointer)) *Handle {
	h, err := NewHandle(kind, ptr, free)
	if err != nil {
		panic(err)
	}
	return h
}

func (h *Handle) init(kind string, ptr Pointer, free func(Pointer)) {
	h.state = &handleState{kind: kind, ptr: ptr, free: free}
	stats.OnAllocated(kind)
	if free != nil {
		h.cleanup = runtime.AddCleanup(h, finalizeHandle, h.state)
	}
}

func (h *Handle) nativeHandle() *Handle { return h }

// Ptr returns the engine address.
//
// Ptr panics with an error wrapping ErrDisposed if the handle has been
// released: the engine may already have reused the address.
func (h *Handle) Ptr() Pointer {
	if h.state.released.Load() {
		panic(fmt.Errorf("%w: %s(_ptr=%s)", ErrDisposed, h.state.kind, h.state.ptr))
	}
	return h.state.ptr
}

// Kind returns the object kind given at creation.
func (h *Handle) Kind() string {
	return h.state.kind
}

// Released reports whether Close has run (or the cleanup has fired).
func (h *Handle) Released() bool {
	return h.state.released.Load()
}

// Equals reports whether h and other wrap the same engine address.
// Identity of the Go wrappers does not matter.
func (h *Handle) Equals(other Object) bool {
	if other == nil {
		return false
	}
	o := other.nativeHandle()
	if o == nil || o.state == nil {
		return false
	}
	return h.state.ptr == o.state.ptr
}

// Close releases the engine object. Calls after the first do nothing.
func (h *Handle) Close() error {
	if h.state.release() {
		h.cleanup.Stop()
	}
	return nil
}

// String formats the handle as Kind(_ptr=0x...).
func (h *Handle) String() string {
	return fmt.Sprintf("%s(_ptr=%s)", h.state.kind, h.state.ptr)
}

// GetPtr returns the address of an optional wrapper, or Null if it is nil.
// Engine entry points take Null for "no input".
func GetPtr[T any, P interface {
	*T
	Object
}](w P) Pointer {
	if w == nil {
		return Null
	}
	return w.Ptr()
}
