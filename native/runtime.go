package native

// Lifetime is the engine side of object lifetimes.
type Lifetime interface {
	// Ref adds one reference to a reference-counted object.
	Ref(p Pointer)

	// Unref drops one reference. At zero the engine frees the object.
	// Dropping a reference that does not exist must panic with an error
	// wrapping ErrRefCountUnderflow.
	Unref(p Pointer)

	// RefCount returns the current count. Diagnostics only.
	RefCount(p Pointer) int

	// Delete destroys an object that is not reference counted.
	Delete(p Pointer)
}

// Memory is engine-addressable scratch memory used for marshaling.
type Memory interface {
	// Malloc allocates size bytes. It returns Null on failure.
	Malloc(size int) Pointer

	// Free releases memory returned by Malloc.
	Free(p Pointer)

	// Write copies src into engine memory at dst.
	Write(dst Pointer, src []byte)

	// Read copies len(dst) bytes of engine memory at src into dst.
	Read(src Pointer, dst []byte)
}

// Runtime is the minimal engine boundary: lifetimes plus memory.
type Runtime interface {
	Lifetime
	Memory

	// Name identifies the engine implementation (e.g. "soft", "dynlib").
	Name() string
}
