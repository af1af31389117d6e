//go:build !windows && !js

package dynlib

import (
	"fmt"
	"os"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/gogpu/ggbind"
	"github.com/gogpu/ggbind/gfx"
	"github.com/gogpu/ggbind/native"
)

// Pointer is shorthand for engine addresses in the symbol table.
type Pointer = native.Pointer

var _ gfx.Engine = (*Engine)(nil)

// Engine calls into a loaded library. Its methods are safe for concurrent
// use if the library's are.
type Engine struct {
	path   string
	handle uintptr

	closeOnce sync.Once
	closeErr  error

	fn symbols
}

// Open loads the engine library at path, or at $GGBIND_LIB_PATH when path
// is empty, and resolves every entry point.
func Open(path string) (*Engine, error) {
	if path == "" {
		path = os.Getenv(LibPathEnv)
	}
	if path == "" {
		return nil, ErrNoLibrary
	}
	handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_LOCAL)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLoad, path, err)
	}
	e := &Engine{path: path, handle: handle}
	if err := e.fn.bind(handle); err != nil {
		_ = purego.Dlclose(handle)
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	ggbind.Logger().Info("dynlib: library loaded", "path", path)
	return e, nil
}

// Name implements native.Runtime.
func (e *Engine) Name() string { return "dynlib" }

// Path returns the loaded library's path.
func (e *Engine) Path() string { return e.path }

// Close unloads the library. Objects of the engine must all be released
// first.
func (e *Engine) Close() error {
	e.closeOnce.Do(func() {
		e.closeErr = purego.Dlclose(e.handle)
	})
	return e.closeErr
}

// Ref implements native.Lifetime.
func (e *Engine) Ref(p Pointer) { e.fn.ref(p) }

// Unref implements native.Lifetime.
func (e *Engine) Unref(p Pointer) {
	if p.IsNull() {
		return
	}
	if e.fn.unref(p) < 0 {
		panic(native.Underflow(p))
	}
}

// RefCount implements native.Lifetime.
func (e *Engine) RefCount(p Pointer) int { return int(e.fn.refCount(p)) }

// Delete implements native.Lifetime.
func (e *Engine) Delete(p Pointer) { e.fn.delete(p) }

// Malloc implements native.Memory.
func (e *Engine) Malloc(size int) Pointer {
	if size <= 0 {
		return native.Null
	}
	return e.fn.malloc(uintptr(size))
}

// Free implements native.Memory.
func (e *Engine) Free(p Pointer) { e.fn.free(p) }

// Write implements native.Memory. Library memory is in-process.
func (e *Engine) Write(dst Pointer, src []byte) {
	if len(src) == 0 {
		return
	}
	copy(unsafe.Slice((*byte)(unsafe.Pointer(uintptr(dst))), len(src)), src)
}

// Read implements native.Memory.
func (e *Engine) Read(src Pointer, dst []byte) {
	if len(dst) == 0 {
		return
	}
	copy(dst, unsafe.Slice((*byte)(unsafe.Pointer(uintptr(src))), len(dst)))
}

func (e *Engine) ImageFilterMakeBlur(sigmaX, sigmaY float32, input Pointer, tileMode int32, crop Pointer) Pointer {
	return e.fn.imageFilterMakeBlur(sigmaX, sigmaY, input, tileMode, crop)
}

func (e *Engine) ImageFilterMakeOffset(dx, dy float32, input, crop Pointer) Pointer {
	return e.fn.imageFilterMakeOffset(dx, dy, input, crop)
}

func (e *Engine) ImageFilterMakeCompose(outer, inner Pointer) Pointer {
	return e.fn.imageFilterMakeCompose(outer, inner)
}

func (e *Engine) ImageFilterMakeMerge(filters Pointer, count int32, crop Pointer) Pointer {
	return e.fn.imageFilterMakeMerge(filters, count, crop)
}

func (e *Engine) ImageFilterCountInputs(filter Pointer) int32 {
	return e.fn.imageFilterCountInputs(filter)
}

func (e *Engine) PictureRecorderMake() Pointer { return e.fn.pictureRecorderMake() }

func (e *Engine) PictureRecorderBeginRecording(rec, bounds Pointer) Pointer {
	return e.fn.pictureRecorderBeginRecording(rec, bounds)
}

func (e *Engine) PictureRecorderFinishRecording(rec Pointer) Pointer {
	return e.fn.pictureRecorderFinishRecording(rec)
}

func (e *Engine) PictureGetCullRect(pic, out Pointer) { e.fn.pictureGetCullRect(pic, out) }

func (e *Engine) PictureApproximateOpCount(pic Pointer) int32 {
	return e.fn.pictureApproximateOpCount(pic)
}

func (e *Engine) CanvasClear(canvas Pointer, color uint32) { e.fn.canvasClear(canvas, color) }

func (e *Engine) CanvasDrawRect(canvas, rect Pointer, color uint32) {
	e.fn.canvasDrawRect(canvas, rect, color)
}

func (e *Engine) CanvasDrawCircle(canvas Pointer, cx, cy, radius float32, color uint32) {
	e.fn.canvasDrawCircle(canvas, cx, cy, radius, color)
}

func (e *Engine) CanvasDrawPicture(canvas, pic Pointer) { e.fn.canvasDrawPicture(canvas, pic) }

func (e *Engine) CanvasDrawString(canvas, text Pointer, x, y float32, font Pointer, color uint32) {
	e.fn.canvasDrawString(canvas, text, x, y, font, color)
}

func (e *Engine) CanvasSave(canvas Pointer) int32 { return e.fn.canvasSave(canvas) }

func (e *Engine) CanvasRestore(canvas Pointer) { e.fn.canvasRestore(canvas) }

func (e *Engine) CanvasTranslate(canvas Pointer, dx, dy float32) {
	e.fn.canvasTranslate(canvas, dx, dy)
}

func (e *Engine) CanvasScale(canvas Pointer, sx, sy float32) { e.fn.canvasScale(canvas, sx, sy) }

func (e *Engine) TypefaceMakeDefault() Pointer { return e.fn.typefaceMakeDefault() }

func (e *Engine) TypefaceMakeFromData(data Pointer, size int32) Pointer {
	return e.fn.typefaceMakeFromData(data, size)
}

func (e *Engine) TypefaceGetFamilyName(tf Pointer) Pointer { return e.fn.typefaceGetFamilyName(tf) }

func (e *Engine) FontMake(tf Pointer, size float32) Pointer { return e.fn.fontMake(tf, size) }

func (e *Engine) FontGetSize(font Pointer) float32 { return e.fn.fontGetSize(font) }

func (e *Engine) FontMeasureText(font, text Pointer, byteLen int32) float32 {
	return e.fn.fontMeasureText(font, text, byteLen)
}

func (e *Engine) FontCountGlyphs(font, utf16 Pointer, units int32) int32 {
	return e.fn.fontCountGlyphs(font, utf16, units)
}

func (e *Engine) DirectContextMake(backend int32, device uintptr) Pointer {
	return e.fn.directContextMake(backend, device)
}

func (e *Engine) DirectContextFlush(ctx Pointer) { e.fn.directContextFlush(ctx) }

func (e *Engine) BackendRenderTargetMake(backend, width, height, colorType int32) Pointer {
	return e.fn.backendRenderTargetMake(backend, width, height, colorType)
}

func (e *Engine) SurfaceMakeFromRenderTarget(ctx, rt Pointer, colorType int32) Pointer {
	return e.fn.surfaceMakeFromRenderTarget(ctx, rt, colorType)
}

func (e *Engine) SurfaceMakeRaster(width, height int32) Pointer {
	return e.fn.surfaceMakeRaster(width, height)
}

func (e *Engine) SurfaceGetCanvas(surface Pointer) Pointer { return e.fn.surfaceGetCanvas(surface) }

func (e *Engine) SurfaceGetSize(surface Pointer) int64 { return e.fn.surfaceGetSize(surface) }

func (e *Engine) SurfaceReadPixels(surface, dst Pointer, size int32) bool {
	return e.fn.surfaceReadPixels(surface, dst, size)
}
