package native

import (
	"fmt"
	"runtime"

	"github.com/gogpu/ggbind/stats"
)

// RefCnt is a Handle that owns one reference of an engine object with an
// intrusive reference count shared with engine code.
//
// The engine may hold its own references (an image filter holds its inputs,
// a picture holds the typefaces it draws with). The object lives until the
// last holder, Go or engine, lets go.
type RefCnt struct {
	Handle
	lt Lifetime
}

// NewRefCnt wraps ptr, taking over one reference the caller already owns
// (typically the one returned by an engine factory). Close gives it back
// with lt.Unref.
func NewRefCnt(kind string, ptr Pointer, lt Lifetime) (*RefCnt, error) {
	if ptr == Null {
		return nil, fmt.Errorf("%w: %s", ErrInvalidHandle, kind)
	}
	r := &RefCnt{lt: lt}
	r.Handle.init(kind, ptr, lt.Unref)
	return r, nil
}

// Ref returns a new wrapper for the same object holding its own reference.
// Both wrappers must be closed.
func (r *RefCnt) Ref() *RefCnt {
	p := r.Ptr()
	stats.OnNativeCall("ref")
	r.lt.Ref(p)
	runtime.KeepAlive(r)
	dup, err := NewRefCnt(r.Kind(), p, r.lt)
	if err != nil {
		// p came from a live handle, so it is not Null.
		panic(err)
	}
	return dup
}

// RefCount returns the engine's current reference count of the object.
func (r *RefCnt) RefCount() int {
	p := r.Ptr()
	stats.OnNativeCall("ref_count")
	n := r.lt.RefCount(p)
	runtime.KeepAlive(r)
	return n
}

// Lifetime returns the engine lifetime the reference belongs to.
func (r *RefCnt) Lifetime() Lifetime {
	return r.lt
}
