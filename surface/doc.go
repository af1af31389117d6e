// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package surface binds engine drawing surfaces to platform windows.
//
// A Handler owns the chain an engine needs to draw into a window: a direct
// context, a render target, a surface and the surface's canvas. It moves
// through four states:
//
//	Uninitialized --InitContext--> ContextReady --InitCanvas--> CanvasReady
//	      \                              \                          |
//	       `-------------------------------`------- Dispose ------> Disposed
//
// InitContext reports failure with false so the caller can try another
// Backend. Drawing calls made before a canvas exists are skipped with a
// debug log. After Dispose every object of the chain is released, and
// using the canvas wrapper panics.
//
// Backends are small values chosen when the handler is built. The package
// registry lists the built-in backends by priority and availability on
// the running system:
//
//	for _, b := range surface.Ordered() {
//		h := surface.NewHandler(eng, b, win)
//		if h.InitContext() {
//			return h, nil
//		}
//	}
package surface
