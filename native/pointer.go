package native

import "fmt"

// Pointer is an engine address. It is an integer, not a Go pointer: the
// garbage collector does not trace it and the engine owns what it points at.
type Pointer uintptr

// Null is the null engine address. It is never a valid object.
const Null Pointer = 0

// IsNull reports whether p is the null address.
func (p Pointer) IsNull() bool {
	return p == Null
}

// Offset returns p advanced by n bytes.
func (p Pointer) Offset(n int) Pointer {
	return p + Pointer(n)
}

// String formats p as a hexadecimal address.
func (p Pointer) String() string {
	return fmt.Sprintf("0x%x", uintptr(p))
}

// PackTwoInts packs two 32-bit values into one 64-bit value, a in the high
// half and b in the low half. The engine returns sizes and integer points
// in this form to avoid an out-buffer.
func PackTwoInts(a, b int32) int64 {
	return int64(uint64(uint32(a))<<32 | uint64(uint32(b)))
}

// UnpackTwoInts reverses PackTwoInts.
func UnpackTwoInts(v int64) (a, b int32) {
	return int32(uint64(v) >> 32), int32(uint32(uint64(v)))
}
