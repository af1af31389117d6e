// Package ggbind binds a native 2D graphics engine to Go.
//
// # Overview
//
// The engine does the real work: rasterization, image filters, text
// shaping and GPU submission. ggbind is the layer between Go code and the
// engine's C-style entry points. It owns:
//
//   - native object lifetimes (package native): handles, shared reference
//     counts, finalizer backstops
//   - scoped marshaling of Go buffers into engine memory (package interop)
//   - call statistics for profiling (package stats)
//   - typed wrappers over engine objects (package gfx)
//   - frame scheduling (package frame)
//   - the surface/context state machine (package surface)
//   - input normalization (package event)
//   - the rendering layer tying them to a platform window (package layer)
//
// # Quick Start
//
//	eng := soft.New()
//	l := layer.New(eng, myView)
//	p := headless.New(800, 600)
//	if err := l.AttachTo(p); err != nil {
//	    log.Fatal(err)
//	}
//	defer l.Detach()
//
//	l.NeedRedraw()
//	p.Tick(0) // runs one frame: clear, View.OnRender, flush
//
// # Engines
//
// Two engines ship with ggbind:
//
//   - engine/soft: pure Go, backed by github.com/gogpu/gg
//   - engine/dynlib: loads a native shared library at run time via purego
//
// # Threading
//
// One logical rendering goroutine per layer. Host frame callbacks and input
// callbacks arrive on that goroutine; only the frame-pending flag may be
// touched from elsewhere.
package ggbind

// Version information
const (
	// Version is the current version of the library
	Version = "0.3.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 3

	// VersionPatch is the patch version
	VersionPatch = 0
)
