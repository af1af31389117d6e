package gfx

import (
	"runtime"

	"github.com/gogpu/ggbind/interop"
	"github.com/gogpu/ggbind/native"
	"github.com/gogpu/ggbind/stats"
)

// ImageFilter is an immutable node in an engine filter graph. A filter
// holds engine references to its inputs, so inputs may be closed as soon
// as the filters built on them exist.
type ImageFilter struct {
	*native.RefCnt
	eng Engine
}

func wrapImageFilter(eng Engine, p native.Pointer) (*ImageFilter, error) {
	r, err := native.NewRefCnt("ImageFilter", p, eng)
	if err != nil {
		return nil, err
	}
	return &ImageFilter{RefCnt: r, eng: eng}, nil
}

// MakeBlur blurs input (the source image if nil) with the given sigmas.
// crop, if not nil, limits the output.
func MakeBlur(eng Engine, sigmaX, sigmaY float32, mode TileMode, input *ImageFilter, crop *Rect) (*ImageFilter, error) {
	stats.OnNativeCall("image_filter_make_blur")
	defer runtime.KeepAlive(input)
	p, _ := interop.Call(eng, func(s *interop.Scope) (native.Pointer, error) {
		return eng.ImageFilterMakeBlur(sigmaX, sigmaY, native.GetPtr(input), int32(mode), s.Float32s(optFloats(crop))), nil
	})
	return wrapImageFilter(eng, p)
}

// MakeOffset translates input by (dx, dy).
func MakeOffset(eng Engine, dx, dy float32, input *ImageFilter, crop *Rect) (*ImageFilter, error) {
	stats.OnNativeCall("image_filter_make_offset")
	defer runtime.KeepAlive(input)
	p, _ := interop.Call(eng, func(s *interop.Scope) (native.Pointer, error) {
		return eng.ImageFilterMakeOffset(dx, dy, native.GetPtr(input), s.Float32s(optFloats(crop))), nil
	})
	return wrapImageFilter(eng, p)
}

// MakeCompose applies inner, then outer to the result.
func MakeCompose(eng Engine, outer, inner *ImageFilter) (*ImageFilter, error) {
	stats.OnNativeCall("image_filter_make_compose")
	defer runtime.KeepAlive(outer)
	defer runtime.KeepAlive(inner)
	return wrapImageFilter(eng, eng.ImageFilterMakeCompose(native.GetPtr(outer), native.GetPtr(inner)))
}

// MakeMerge draws every filter's output on top of each other. Nil entries
// stand for the source image.
func MakeMerge(eng Engine, filters []*ImageFilter, crop *Rect) (*ImageFilter, error) {
	stats.OnNativeCall("image_filter_make_merge")
	defer runtime.KeepAlive(filters)
	ptrs := make([]native.Pointer, len(filters))
	for i, f := range filters {
		ptrs[i] = native.GetPtr(f)
	}
	p, _ := interop.Call(eng, func(s *interop.Scope) (native.Pointer, error) {
		return eng.ImageFilterMakeMerge(s.Pointers(ptrs), int32(len(ptrs)), s.Float32s(optFloats(crop))), nil
	})
	return wrapImageFilter(eng, p)
}

// CountInputs returns the number of input slots of the filter.
func (f *ImageFilter) CountInputs() int {
	stats.OnNativeCall("image_filter_count_inputs")
	n := f.eng.ImageFilterCountInputs(f.Ptr())
	runtime.KeepAlive(f)
	return int(n)
}
