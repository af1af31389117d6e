package gfx

import (
	"errors"

	"github.com/gogpu/ggbind/native"
)

// Engine is the full set of engine entry points ggbind calls.
//
// Arguments and results are plain numbers and engine addresses. Buffers
// (rectangles, strings, pointer arrays) are passed as addresses of
// engine memory obtained from an interop scope. Factory methods return
// Null on failure and transfer one reference (or sole ownership) of the
// new object to the caller.
type Engine interface {
	native.Runtime

	ImageFilterMakeBlur(sigmaX, sigmaY float32, input native.Pointer, tileMode int32, crop native.Pointer) native.Pointer
	ImageFilterMakeOffset(dx, dy float32, input, crop native.Pointer) native.Pointer
	ImageFilterMakeCompose(outer, inner native.Pointer) native.Pointer
	ImageFilterMakeMerge(filters native.Pointer, count int32, crop native.Pointer) native.Pointer
	ImageFilterCountInputs(filter native.Pointer) int32

	PictureRecorderMake() native.Pointer
	PictureRecorderBeginRecording(rec, bounds native.Pointer) native.Pointer
	PictureRecorderFinishRecording(rec native.Pointer) native.Pointer
	PictureGetCullRect(pic, out native.Pointer)
	PictureApproximateOpCount(pic native.Pointer) int32

	CanvasClear(canvas native.Pointer, color uint32)
	CanvasDrawRect(canvas, rect native.Pointer, color uint32)
	CanvasDrawCircle(canvas native.Pointer, cx, cy, radius float32, color uint32)
	CanvasDrawPicture(canvas, pic native.Pointer)
	CanvasDrawString(canvas, text native.Pointer, x, y float32, font native.Pointer, color uint32)
	CanvasSave(canvas native.Pointer) int32
	CanvasRestore(canvas native.Pointer)
	CanvasTranslate(canvas native.Pointer, dx, dy float32)
	CanvasScale(canvas native.Pointer, sx, sy float32)

	TypefaceMakeDefault() native.Pointer
	TypefaceMakeFromData(data native.Pointer, size int32) native.Pointer
	TypefaceGetFamilyName(tf native.Pointer) native.Pointer
	FontMake(tf native.Pointer, size float32) native.Pointer
	FontGetSize(font native.Pointer) float32
	FontMeasureText(font, text native.Pointer, byteLen int32) float32
	FontCountGlyphs(font, utf16 native.Pointer, units int32) int32

	DirectContextMake(backend int32, device uintptr) native.Pointer
	DirectContextFlush(ctx native.Pointer)
	BackendRenderTargetMake(backend, width, height, colorType int32) native.Pointer
	SurfaceMakeFromRenderTarget(ctx, rt native.Pointer, colorType int32) native.Pointer
	SurfaceMakeRaster(width, height int32) native.Pointer
	SurfaceGetCanvas(surface native.Pointer) native.Pointer
	SurfaceGetSize(surface native.Pointer) int64
	SurfaceReadPixels(surface, dst native.Pointer, size int32) bool
}

var (
	// ErrReadPixels is returned when the engine cannot copy surface pixels.
	ErrReadPixels = errors.New("gfx: reading surface pixels failed")

	// ErrInvalidSize is returned for non-positive surface dimensions.
	ErrInvalidSize = errors.New("gfx: invalid size")
)

// Backend selects the drawing API behind a direct context.
type Backend int32

// Backends, in the engine's numbering.
const (
	BackendSoftware Backend = iota
	BackendOpenGL
	BackendMetal
	BackendDirect3D
	BackendWebGPU
)

func (b Backend) String() string {
	switch b {
	case BackendSoftware:
		return "Software"
	case BackendOpenGL:
		return "OpenGL"
	case BackendMetal:
		return "Metal"
	case BackendDirect3D:
		return "Direct3D"
	case BackendWebGPU:
		return "WebGPU"
	default:
		return "Unknown"
	}
}

// ColorType is the pixel layout of a surface.
type ColorType int32

// Supported color types.
const (
	ColorTypeUnknown ColorType = iota
	ColorTypeRGBA8888
	ColorTypeBGRA8888
)

// TileMode says how a filter samples outside its input.
type TileMode int32

// Tile modes.
const (
	TileClamp TileMode = iota
	TileRepeat
	TileMirror
	TileDecal
)
