// Package dynlib is a gfx.Engine backed by a native shared library loaded
// at run time through purego, without cgo.
//
// The library exports one C function per engine entry point, named
// "ggbind_" followed by the entry point's snake_case name (for example
// ggbind_canvas_draw_rect). Lifetimes use ggbind_ref, ggbind_unref,
// ggbind_ref_count and ggbind_delete; ggbind_unref returns the remaining
// count, negative when the object had no reference to drop. Scratch
// memory comes from ggbind_malloc and ggbind_free and lives in this
// process, so Read and Write copy it directly.
//
// Open loads the library named by its argument or, when that is empty,
// by the GGBIND_LIB_PATH environment variable. Loading is supported on
// Unix-like systems; elsewhere Open returns ErrUnsupported.
package dynlib

import "errors"

// LibPathEnv names the environment variable Open reads when given no
// path.
const LibPathEnv = "GGBIND_LIB_PATH"

// symbolPrefix starts every exported engine symbol.
const symbolPrefix = "ggbind_"

var (
	// ErrNoLibrary is returned by Open when no library path is known.
	ErrNoLibrary = errors.New("dynlib: no library path (set " + LibPathEnv + ")")

	// ErrLoad is returned by Open when the library cannot be loaded.
	ErrLoad = errors.New("dynlib: loading library failed")

	// ErrMissingSymbol is returned by Open when the library lacks an
	// entry point.
	ErrMissingSymbol = errors.New("dynlib: missing symbol")

	// ErrUnsupported is returned by Open on systems without dlopen.
	ErrUnsupported = errors.New("dynlib: dynamic loading unsupported on this system")
)
