package interop

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/ggbind/native"
)

// The Read functions copy engine memory back into pre-sized Go buffers.
// They take the memory directly so results can also be read from
// engine-owned buffers, not only from scope allocations.

// ReadBytes fills dst from engine memory at p.
func ReadBytes(mem native.Memory, p native.Pointer, dst []byte) {
	if len(dst) == 0 {
		return
	}
	mem.Read(p, dst)
}

// ReadInt32s fills dst with little-endian 32-bit values at p.
func ReadInt32s(mem native.Memory, p native.Pointer, dst []int32) {
	if len(dst) == 0 {
		return
	}
	buf := make([]byte, 4*len(dst))
	mem.Read(p, buf)
	for i := range dst {
		dst[i] = int32(binary.LittleEndian.Uint32(buf[4*i:]))
	}
}

// ReadFloat32s fills dst with little-endian IEEE 754 values at p.
func ReadFloat32s(mem native.Memory, p native.Pointer, dst []float32) {
	if len(dst) == 0 {
		return
	}
	buf := make([]byte, 4*len(dst))
	mem.Read(p, buf)
	for i := range dst {
		dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[4*i:]))
	}
}

// ReadPointers fills dst with engine addresses at p.
func ReadPointers(mem native.Memory, p native.Pointer, dst []native.Pointer) {
	if len(dst) == 0 {
		return
	}
	buf := make([]byte, PointerSize*len(dst))
	mem.Read(p, buf)
	for i := range dst {
		dst[i] = native.Pointer(binary.LittleEndian.Uint64(buf[PointerSize*i:]))
	}
}

// ReadCString reads a NUL-terminated UTF-8 string of at most limit bytes.
func ReadCString(mem native.Memory, p native.Pointer, limit int) string {
	if p == native.Null || limit <= 0 {
		return ""
	}
	buf := make([]byte, limit)
	mem.Read(p, buf)
	for i, b := range buf {
		if b == 0 {
			return string(buf[:i])
		}
	}
	return string(buf)
}
