//go:build !windows && !js

package dynlib

import (
	"fmt"

	"github.com/ebitengine/purego"
)

// symbols holds one Go function per library entry point.
type symbols struct {
	ref      func(p Pointer)
	unref    func(p Pointer) int32
	refCount func(p Pointer) int32
	delete   func(p Pointer)
	malloc   func(size uintptr) Pointer
	free     func(p Pointer)

	imageFilterMakeBlur    func(sigmaX, sigmaY float32, input Pointer, tileMode int32, crop Pointer) Pointer
	imageFilterMakeOffset  func(dx, dy float32, input, crop Pointer) Pointer
	imageFilterMakeCompose func(outer, inner Pointer) Pointer
	imageFilterMakeMerge   func(filters Pointer, count int32, crop Pointer) Pointer
	imageFilterCountInputs func(filter Pointer) int32

	pictureRecorderMake            func() Pointer
	pictureRecorderBeginRecording  func(rec, bounds Pointer) Pointer
	pictureRecorderFinishRecording func(rec Pointer) Pointer
	pictureGetCullRect             func(pic, out Pointer)
	pictureApproximateOpCount      func(pic Pointer) int32

	canvasClear       func(canvas Pointer, color uint32)
	canvasDrawRect    func(canvas, rect Pointer, color uint32)
	canvasDrawCircle  func(canvas Pointer, cx, cy, radius float32, color uint32)
	canvasDrawPicture func(canvas, pic Pointer)
	canvasDrawString  func(canvas, text Pointer, x, y float32, font Pointer, color uint32)
	canvasSave        func(canvas Pointer) int32
	canvasRestore     func(canvas Pointer)
	canvasTranslate   func(canvas Pointer, dx, dy float32)
	canvasScale       func(canvas Pointer, sx, sy float32)

	typefaceMakeDefault   func() Pointer
	typefaceMakeFromData  func(data Pointer, size int32) Pointer
	typefaceGetFamilyName func(tf Pointer) Pointer
	fontMake              func(tf Pointer, size float32) Pointer
	fontGetSize           func(font Pointer) float32
	fontMeasureText       func(font, text Pointer, byteLen int32) float32
	fontCountGlyphs       func(font, utf16 Pointer, units int32) int32

	directContextMake           func(backend int32, device uintptr) Pointer
	directContextFlush          func(ctx Pointer)
	backendRenderTargetMake     func(backend, width, height, colorType int32) Pointer
	surfaceMakeFromRenderTarget func(ctx, rt Pointer, colorType int32) Pointer
	surfaceMakeRaster           func(width, height int32) Pointer
	surfaceGetCanvas            func(surface Pointer) Pointer
	surfaceGetSize              func(surface Pointer) int64
	surfaceReadPixels           func(surface, dst Pointer, size int32) bool
}

// table pairs each function with its symbol name, without the prefix.
func (s *symbols) table() []struct {
	fn   any
	name string
} {
	return []struct {
		fn   any
		name string
	}{
		{&s.ref, "ref"},
		{&s.unref, "unref"},
		{&s.refCount, "ref_count"},
		{&s.delete, "delete"},
		{&s.malloc, "malloc"},
		{&s.free, "free"},

		{&s.imageFilterMakeBlur, "image_filter_make_blur"},
		{&s.imageFilterMakeOffset, "image_filter_make_offset"},
		{&s.imageFilterMakeCompose, "image_filter_make_compose"},
		{&s.imageFilterMakeMerge, "image_filter_make_merge"},
		{&s.imageFilterCountInputs, "image_filter_count_inputs"},

		{&s.pictureRecorderMake, "picture_recorder_make"},
		{&s.pictureRecorderBeginRecording, "picture_recorder_begin_recording"},
		{&s.pictureRecorderFinishRecording, "picture_recorder_finish_recording"},
		{&s.pictureGetCullRect, "picture_get_cull_rect"},
		{&s.pictureApproximateOpCount, "picture_approximate_op_count"},

		{&s.canvasClear, "canvas_clear"},
		{&s.canvasDrawRect, "canvas_draw_rect"},
		{&s.canvasDrawCircle, "canvas_draw_circle"},
		{&s.canvasDrawPicture, "canvas_draw_picture"},
		{&s.canvasDrawString, "canvas_draw_string"},
		{&s.canvasSave, "canvas_save"},
		{&s.canvasRestore, "canvas_restore"},
		{&s.canvasTranslate, "canvas_translate"},
		{&s.canvasScale, "canvas_scale"},

		{&s.typefaceMakeDefault, "typeface_make_default"},
		{&s.typefaceMakeFromData, "typeface_make_from_data"},
		{&s.typefaceGetFamilyName, "typeface_get_family_name"},
		{&s.fontMake, "font_make"},
		{&s.fontGetSize, "font_get_size"},
		{&s.fontMeasureText, "font_measure_text"},
		{&s.fontCountGlyphs, "font_count_glyphs"},

		{&s.directContextMake, "direct_context_make"},
		{&s.directContextFlush, "direct_context_flush"},
		{&s.backendRenderTargetMake, "backend_render_target_make"},
		{&s.surfaceMakeFromRenderTarget, "surface_make_from_render_target"},
		{&s.surfaceMakeRaster, "surface_make_raster"},
		{&s.surfaceGetCanvas, "surface_get_canvas"},
		{&s.surfaceGetSize, "surface_get_size"},
		{&s.surfaceReadPixels, "surface_read_pixels"},
	}
}

// bind resolves every symbol. RegisterLibFunc panics on a missing
// symbol, so each is looked up first.
func (s *symbols) bind(handle uintptr) error {
	for _, sym := range s.table() {
		name := symbolPrefix + sym.name
		if _, err := purego.Dlsym(handle, name); err != nil {
			return fmt.Errorf("%w: %s", ErrMissingSymbol, name)
		}
		purego.RegisterLibFunc(sym.fn, handle, name)
	}
	return nil
}

// SymbolNames returns every symbol the library must export.
func SymbolNames() []string {
	var s symbols
	t := s.table()
	names := make([]string, len(t))
	for i, sym := range t {
		names[i] = symbolPrefix + sym.name
	}
	return names
}
