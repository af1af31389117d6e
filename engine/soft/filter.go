package soft

import (
	"github.com/gogpu/ggbind/gfx"
	"github.com/gogpu/ggbind/native"
)

// imageFilter is a node of a filter graph. The engine records the graph
// but does not rasterize filters; inputs stay referenced until the node
// is freed.
type imageFilter struct {
	op     string
	params []float32
	inputs []native.Pointer // Null means the source image
	crop   *gfx.Rect
}

func (f *imageFilter) dispose(e *Engine) {
	for _, in := range f.inputs {
		e.unrefLocked(in)
	}
}

// makeFilterLocked validates and references the inputs, then adds the
// node. Unknown inputs make the factory fail with Null.
func (e *Engine) makeFilterLocked(f *imageFilter, cropPtr native.Pointer) native.Pointer {
	for _, in := range f.inputs {
		if in == native.Null {
			continue
		}
		if _, ok := lookup[*imageFilter](e, in); !ok {
			e.logger().Debug("soft: filter input is not an image filter", "op", f.op, "input", in.String())
			return native.Null
		}
	}
	if v := e.floatsAt(cropPtr, 4); v != nil {
		f.crop = &gfx.Rect{Left: v[0], Top: v[1], Right: v[2], Bottom: v[3]}
	}
	for _, in := range f.inputs {
		if in != native.Null {
			e.refLocked("image_filter_input", in)
		}
	}
	return e.newObject("ImageFilter", true, f)
}

// ImageFilterMakeBlur implements gfx.Engine.
func (e *Engine) ImageFilterMakeBlur(sigmaX, sigmaY float32, input native.Pointer, tileMode int32, crop native.Pointer) native.Pointer {
	e.mu.Lock()
	defer e.mu.Unlock()
	if sigmaX < 0 || sigmaY < 0 || tileMode < int32(gfx.TileClamp) || tileMode > int32(gfx.TileDecal) {
		return native.Null
	}
	return e.makeFilterLocked(&imageFilter{
		op:     "blur",
		params: []float32{sigmaX, sigmaY, float32(tileMode)},
		inputs: []native.Pointer{input},
	}, crop)
}

// ImageFilterMakeOffset implements gfx.Engine.
func (e *Engine) ImageFilterMakeOffset(dx, dy float32, input, crop native.Pointer) native.Pointer {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.makeFilterLocked(&imageFilter{
		op:     "offset",
		params: []float32{dx, dy},
		inputs: []native.Pointer{input},
	}, crop)
}

// ImageFilterMakeCompose implements gfx.Engine.
func (e *Engine) ImageFilterMakeCompose(outer, inner native.Pointer) native.Pointer {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.makeFilterLocked(&imageFilter{
		op:     "compose",
		inputs: []native.Pointer{outer, inner},
	}, native.Null)
}

// ImageFilterMakeMerge implements gfx.Engine.
func (e *Engine) ImageFilterMakeMerge(filters native.Pointer, count int32, crop native.Pointer) native.Pointer {
	e.mu.Lock()
	defer e.mu.Unlock()
	if count < 0 {
		return native.Null
	}
	inputs := e.pointersAt(filters, int(count))
	if inputs == nil {
		inputs = []native.Pointer{}
	}
	return e.makeFilterLocked(&imageFilter{op: "merge", inputs: inputs}, crop)
}

// ImageFilterCountInputs implements gfx.Engine.
func (e *Engine) ImageFilterCountInputs(filter native.Pointer) int32 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return int32(len(mustLookup[*imageFilter](e, "image_filter_count_inputs", filter).inputs))
}
