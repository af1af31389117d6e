// Package native manages the lifetime of engine objects referenced from Go.
//
// Every engine object is seen from Go through a [Handle]: an opaque
// [Pointer] plus a release function. A handle is never built around
// [Null]; [NewHandle] rejects it with [ErrInvalidHandle].
//
// Objects that take part in the engine's intrusive reference counting are
// wrapped in a [RefCnt]. Each RefCnt holds exactly one engine reference and
// gives it back exactly once, on Close. Several wrappers may share one
// address; [RefCnt.Ref] creates another one with its own increment.
//
// # Release policy
//
//   - Close is idempotent: the second and later calls do nothing.
//   - Using a handle after Close panics with an error wrapping ErrDisposed.
//     The engine has already invalidated the memory, so there is nothing
//     safe to return.
//   - A reference-count underflow reported by the engine panics with an
//     error wrapping ErrRefCountUnderflow.
//
// # Finalization
//
// Each handle registers a cleanup with [runtime.AddCleanup]. When a wrapper
// becomes unreachable without Close, the cleanup releases the engine object
// and logs a warning. Cleanups run at an unspecified time on a runtime
// goroutine, so they are a backstop for leaks, not a release mechanism.
// Close cancels the cleanup; an object is never released twice.
//
// # Keeping arguments alive
//
// Code that passes handle addresses to the engine must keep the wrappers
// reachable until the engine call returns, with [runtime.KeepAlive].
// Otherwise the garbage collector may run a cleanup while the engine is
// still reading the object.
package native
