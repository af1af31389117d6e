// Package soft is an in-process engine implementing gfx.Engine on top of
// the pure-Go rasterizer github.com/gogpu/gg.
//
// Engine objects live in a table keyed by address. Reference-counted
// objects are freed when their count reaches zero; objects that hold other
// objects (filters and their inputs, pictures and the typefaces they draw
// with, surfaces and their contexts) take engine references on them, so a
// Go wrapper can be closed while the engine still uses the object.
//
// Raster and Software-context surfaces draw into a gg.Context. WebGPU
// contexts take a device id from the native registry and draw through a
// ggcanvas.Canvas sharing that device; flushing the context uploads and
// presents every surface bound to it. OpenGL, Metal and Direct3D contexts
// are not available in this engine.
//
// An Engine is safe for concurrent use. Its scratch heap is plain Go
// memory addressed by synthetic pointers.
package soft
