package soft

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/ggbind/native"
)

// Malloc allocates size bytes of zeroed scratch memory. It returns Null
// when the heap limit would be exceeded.
func (e *Engine) Malloc(size int) native.Pointer {
	e.mu.Lock()
	defer e.mu.Unlock()
	if size < 0 {
		return native.Null
	}
	if e.heapLimit > 0 && e.heapBytes+size > e.heapLimit {
		e.logger().Debug("soft: heap limit reached", "size", size, "used", e.heapBytes)
		return native.Null
	}
	p := e.alloc(size)
	e.heap[p] = make([]byte, size)
	e.heapBytes += size
	return p
}

// Free releases memory returned by Malloc.
func (e *Engine) Free(p native.Pointer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.freeBlockLocked(p)
}

func (e *Engine) freeBlockLocked(p native.Pointer) {
	b, ok := e.heap[p]
	if !ok {
		panic(native.Unknown("free", p))
	}
	delete(e.heap, p)
	e.heapBytes -= len(b)
}

// Write copies src into the heap at dst. dst may point inside a block.
func (e *Engine) Write(dst native.Pointer, src []byte) {
	e.mu.Lock()
	defer e.mu.Unlock()
	copy(e.spanLocked("write", dst, len(src)), src)
}

// Read copies heap memory at src into dst. src may point inside a block.
func (e *Engine) Read(src native.Pointer, dst []byte) {
	e.mu.Lock()
	defer e.mu.Unlock()
	copy(dst, e.spanLocked("read", src, len(dst)))
}

// HeapBlocks returns the number of live scratch allocations.
func (e *Engine) HeapBlocks() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.heap)
}

// spanLocked returns the n bytes of heap memory at p. It panics if the
// range is not inside one block.
func (e *Engine) spanLocked(op string, p native.Pointer, n int) []byte {
	if b, ok := e.heap[p]; ok && n <= len(b) {
		return b[:n]
	}
	for base, b := range e.heap {
		if p >= base && uintptr(p-base)+uintptr(n) <= uintptr(len(b)) {
			off := int(p - base)
			return b[off : off+n]
		}
	}
	panic(native.Unknown(op, p))
}

// putCString stores s as a NUL-terminated heap string owned by the
// engine. Called with e.mu held.
func (e *Engine) putCString(s string) native.Pointer {
	p := e.alloc(len(s) + 1)
	b := make([]byte, len(s)+1)
	copy(b, s)
	e.heap[p] = b
	e.heapBytes += len(b)
	return p
}

// The readers below decode call arguments. They run with e.mu held.

func (e *Engine) bytesAt(p native.Pointer, n int) []byte {
	if p == native.Null || n <= 0 {
		return nil
	}
	out := make([]byte, n)
	copy(out, e.spanLocked("read", p, n))
	return out
}

func (e *Engine) floatsAt(p native.Pointer, n int) []float32 {
	if p == native.Null {
		return nil
	}
	b := e.spanLocked("read", p, 4*n)
	out := make([]float32, n)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:]))
	}
	return out
}

func (e *Engine) pointersAt(p native.Pointer, n int) []native.Pointer {
	if p == native.Null || n <= 0 {
		return nil
	}
	b := e.spanLocked("read", p, 8*n)
	out := make([]native.Pointer, n)
	for i := range out {
		out[i] = native.Pointer(binary.LittleEndian.Uint64(b[8*i:]))
	}
	return out
}

func (e *Engine) putFloats(p native.Pointer, v []float32) {
	b := e.spanLocked("write", p, 4*len(v))
	for i, x := range v {
		binary.LittleEndian.PutUint32(b[4*i:], math.Float32bits(x))
	}
}

// cstringAt reads a NUL-terminated string. The string ends at the end of
// its block if no terminator is found.
func (e *Engine) cstringAt(p native.Pointer) string {
	if p == native.Null {
		return ""
	}
	b := e.tailLocked("read", p)
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

// tailLocked returns the heap memory from p to the end of its block.
func (e *Engine) tailLocked(op string, p native.Pointer) []byte {
	if b, ok := e.heap[p]; ok {
		return b
	}
	for base, b := range e.heap {
		if p >= base && uintptr(p-base) < uintptr(len(b)) {
			return b[p-base:]
		}
	}
	panic(native.Unknown(op, p))
}
