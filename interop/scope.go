// Package interop marshals Go buffers into engine memory for the duration
// of one engine call.
//
// Engine entry points take raw addresses, not Go slices. A [Scope] copies
// Go data into freshly allocated engine memory, records every allocation,
// and frees all of them when it closes. [Do] and [Call] close the scope on
// every exit path, including panics, so no allocation outlives the call
// that made it and none is freed while the engine may still read it.
//
//	n, err := interop.Call(eng, func(s *interop.Scope) (float32, error) {
//	    text := s.String("Hello")
//	    return eng.FontMeasureText(font.Ptr(), text), nil
//	})
//
// Scopes nest freely; each frees only its own allocations. A Scope is not
// safe for concurrent use and must not escape the function that opened it.
package interop

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/ggbind/native"
	"github.com/gogpu/ggbind/stats"
)

var (
	// ErrOutOfMemory is the panic value (wrapped) when engine memory cannot
	// be allocated. Marshaling failures are not recoverable.
	ErrOutOfMemory = errors.New("interop: engine allocation failed")

	// ErrScopeClosed is the panic value (wrapped) when a closed scope is used.
	ErrScopeClosed = errors.New("interop: scope is closed")
)

// Scope is an arena of temporary engine allocations.
type Scope struct {
	mem    native.Memory
	allocs []native.Pointer
	closed bool
}

// Open creates an empty scope over mem. The caller must Close it; prefer
// Do or Call, which guarantee that.
func Open(mem native.Memory) *Scope {
	return &Scope{mem: mem}
}

// Close frees every allocation made through the scope, exactly once.
// Calls after the first do nothing.
func (s *Scope) Close() {
	if s.closed {
		return
	}
	s.closed = true
	for _, p := range s.allocs {
		s.mem.Free(p)
		stats.OnScopeFree()
	}
	s.allocs = nil
}

// Len returns the number of live allocations in the scope.
func (s *Scope) Len() int {
	return len(s.allocs)
}

// Do runs fn inside a new scope and closes the scope afterwards, whether fn
// returns normally, returns an error or panics.
func Do(mem native.Memory, fn func(s *Scope) error) error {
	s := Open(mem)
	defer s.Close()
	return fn(s)
}

// Call is Do for functions that produce a value.
func Call[T any](mem native.Memory, fn func(s *Scope) (T, error)) (T, error) {
	s := Open(mem)
	defer s.Close()
	return fn(s)
}

// Alloc allocates size bytes of uninitialized engine memory owned by the
// scope, typically an out-buffer for the engine to fill.
func (s *Scope) Alloc(size int) native.Pointer {
	if s.closed {
		panic(fmt.Errorf("%w: alloc of %d bytes", ErrScopeClosed, size))
	}
	if size <= 0 {
		size = 1
	}
	p := s.mem.Malloc(size)
	if p == native.Null {
		panic(fmt.Errorf("%w: %d bytes", ErrOutOfMemory, size))
	}
	s.allocs = append(s.allocs, p)
	stats.OnScopeAlloc(size)
	return p
}

// put copies data into a new allocation.
func (s *Scope) put(data []byte) native.Pointer {
	p := s.Alloc(len(data))
	if len(data) > 0 {
		s.mem.Write(p, data)
	}
	return p
}

// Bytes copies b into engine memory. A nil slice yields Null and no
// allocation.
func (s *Scope) Bytes(b []byte) native.Pointer {
	if b == nil {
		return native.Null
	}
	return s.put(b)
}

// Int16s copies v as little-endian 16-bit values. Nil yields Null.
func (s *Scope) Int16s(v []int16) native.Pointer {
	if v == nil {
		return native.Null
	}
	buf := make([]byte, 2*len(v))
	for i, x := range v {
		binary.LittleEndian.PutUint16(buf[2*i:], uint16(x))
	}
	return s.put(buf)
}

// Int32s copies v as little-endian 32-bit values. Nil yields Null.
func (s *Scope) Int32s(v []int32) native.Pointer {
	if v == nil {
		return native.Null
	}
	return s.put(encodeInt32s(v))
}

// Int64s copies v as little-endian 64-bit values. Nil yields Null.
func (s *Scope) Int64s(v []int64) native.Pointer {
	if v == nil {
		return native.Null
	}
	buf := make([]byte, 8*len(v))
	for i, x := range v {
		binary.LittleEndian.PutUint64(buf[8*i:], uint64(x))
	}
	return s.put(buf)
}

// Float32s copies v as little-endian IEEE 754 values. Nil yields Null.
func (s *Scope) Float32s(v []float32) native.Pointer {
	if v == nil {
		return native.Null
	}
	return s.put(encodeFloat32s(v))
}

// Float64s copies v as little-endian IEEE 754 values. Nil yields Null.
func (s *Scope) Float64s(v []float64) native.Pointer {
	if v == nil {
		return native.Null
	}
	buf := make([]byte, 8*len(v))
	for i, x := range v {
		binary.LittleEndian.PutUint64(buf[8*i:], math.Float64bits(x))
	}
	return s.put(buf)
}

// Pointers copies an array of engine addresses, 8 bytes each. Nil yields
// Null.
func (s *Scope) Pointers(v []native.Pointer) native.Pointer {
	if v == nil {
		return native.Null
	}
	buf := make([]byte, PointerSize*len(v))
	for i, p := range v {
		binary.LittleEndian.PutUint64(buf[PointerSize*i:], uint64(p))
	}
	return s.put(buf)
}

// String copies str as NUL-terminated UTF-8. The empty string still
// allocates the terminator.
func (s *Scope) String(str string) native.Pointer {
	buf := make([]byte, len(str)+1)
	copy(buf, str)
	return s.put(buf)
}

// Strings copies each string and then an array of their addresses.
// Nil yields Null.
func (s *Scope) Strings(v []string) native.Pointer {
	if v == nil {
		return native.Null
	}
	ptrs := make([]native.Pointer, len(v))
	for i, str := range v {
		ptrs[i] = s.String(str)
	}
	return s.Pointers(ptrs)
}

// PointerSize is the size of an engine address in marshaled arrays.
const PointerSize = 8

func encodeInt32s(v []int32) []byte {
	buf := make([]byte, 4*len(v))
	for i, x := range v {
		binary.LittleEndian.PutUint32(buf[4*i:], uint32(x))
	}
	return buf
}

func encodeFloat32s(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, x := range v {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(x))
	}
	return buf
}
