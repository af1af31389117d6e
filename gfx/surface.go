package gfx

import (
	"fmt"
	"image"
	"runtime"

	"github.com/gogpu/ggbind/interop"
	"github.com/gogpu/ggbind/native"
	"github.com/gogpu/ggbind/stats"
)

// DirectContext is the engine's connection to a drawing API.
type DirectContext struct {
	*native.RefCnt
	eng     Engine
	backend Backend
}

// MakeDirectContext creates a context for backend. device identifies the
// API device: a native registry id for BackendWebGPU, zero otherwise.
// It returns an error wrapping native.ErrInvalidHandle when the engine
// does not support the backend here.
func MakeDirectContext(eng Engine, backend Backend, device uintptr) (*DirectContext, error) {
	stats.OnNativeCall("direct_context_make")
	r, err := native.NewRefCnt("DirectContext", eng.DirectContextMake(int32(backend), device), eng)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", backend, err)
	}
	return &DirectContext{RefCnt: r, eng: eng, backend: backend}, nil
}

// Backend returns the drawing API of the context.
func (c *DirectContext) Backend() Backend {
	return c.backend
}

// Flush submits every queued command of every surface of the context.
func (c *DirectContext) Flush() {
	stats.OnNativeCall("direct_context_flush")
	c.eng.DirectContextFlush(c.Ptr())
	runtime.KeepAlive(c)
}

// BackendRenderTarget describes the window framebuffer a surface draws to.
type BackendRenderTarget struct {
	*native.Handle
	eng Engine
}

// MakeRenderTarget creates a render target of the given size.
func MakeRenderTarget(eng Engine, backend Backend, width, height int, ct ColorType) (*BackendRenderTarget, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	stats.OnNativeCall("backend_render_target_make")
	p := eng.BackendRenderTargetMake(int32(backend), int32(width), int32(height), int32(ct))
	h, err := native.NewHandle("BackendRenderTarget", p, eng.Delete)
	if err != nil {
		return nil, err
	}
	return &BackendRenderTarget{Handle: h, eng: eng}, nil
}

// Surface owns the pixels drawn by its canvas.
type Surface struct {
	*native.RefCnt
	eng    Engine
	canvas *Canvas
}

func wrapSurface(eng Engine, p native.Pointer) (*Surface, error) {
	r, err := native.NewRefCnt("Surface", p, eng)
	if err != nil {
		return nil, err
	}
	return &Surface{RefCnt: r, eng: eng}, nil
}

// MakeRasterSurface creates a CPU surface.
func MakeRasterSurface(eng Engine, width, height int) (*Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	stats.OnNativeCall("surface_make_raster")
	return wrapSurface(eng, eng.SurfaceMakeRaster(int32(width), int32(height)))
}

// MakeSurfaceFromRenderTarget creates a surface drawing into rt through
// ctx.
func MakeSurfaceFromRenderTarget(ctx *DirectContext, rt *BackendRenderTarget, ct ColorType) (*Surface, error) {
	switch {
	case ctx == nil:
		return nil, native.NilHandle("DirectContext")
	case rt == nil:
		return nil, native.NilHandle("BackendRenderTarget")
	}
	stats.OnNativeCall("surface_make_from_render_target")
	defer runtime.KeepAlive(ctx)
	defer runtime.KeepAlive(rt)
	return wrapSurface(ctx.eng, ctx.eng.SurfaceMakeFromRenderTarget(ctx.Ptr(), rt.Ptr(), int32(ct)))
}

// Canvas returns the surface's canvas. Repeated calls return the same
// wrapper.
func (s *Surface) Canvas() *Canvas {
	if s.canvas != nil {
		return s.canvas
	}
	stats.OnNativeCall("surface_get_canvas")
	defer runtime.KeepAlive(s)
	c, err := borrowCanvas(s.eng, s.eng.SurfaceGetCanvas(s.Ptr()), s)
	if err != nil {
		// A live surface always has a canvas.
		panic(err)
	}
	s.canvas = c
	return c
}

// Size returns the surface dimensions in pixels.
func (s *Surface) Size() (width, height int) {
	stats.OnNativeCall("surface_get_size")
	w, h := native.UnpackTwoInts(s.eng.SurfaceGetSize(s.Ptr()))
	runtime.KeepAlive(s)
	return int(w), int(h)
}

// ReadPixels copies the surface into a new RGBA image.
func (s *Surface) ReadPixels() (*image.RGBA, error) {
	w, h := s.Size()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if len(img.Pix) == 0 {
		return img, nil
	}
	stats.OnNativeCall("surface_read_pixels")
	defer runtime.KeepAlive(s)
	return interop.Call(s.eng, func(sc *interop.Scope) (*image.RGBA, error) {
		dst := sc.Alloc(len(img.Pix))
		if !s.eng.SurfaceReadPixels(s.Ptr(), dst, int32(len(img.Pix))) {
			return nil, ErrReadPixels
		}
		interop.ReadBytes(s.eng, dst, img.Pix)
		return img, nil
	})
}

// Close releases the surface reference and its canvas wrapper.
func (s *Surface) Close() error {
	if s.canvas != nil {
		_ = s.canvas.Close()
		s.canvas = nil
	}
	return s.RefCnt.Close()
}
