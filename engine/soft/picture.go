package soft

import (
	"github.com/gogpu/gg"
	"github.com/gogpu/ggbind/gfx"
	"github.com/gogpu/ggbind/native"
)

type picture struct {
	cull gfx.Rect
	ops  []op
}

// replay draws the recorded commands with the caller's state restored
// afterwards.
func (p *picture) replay(dc *gg.Context) {
	dc.Push()
	defer dc.Pop()
	for _, o := range p.ops {
		o.draw(dc)
	}
}

func (p *picture) dispose(e *Engine) {
	releaseOps(e, p.ops)
}

func releaseOps(e *Engine, ops []op) {
	for _, o := range ops {
		if o.ref != native.Null {
			e.unrefLocked(o.ref)
		}
	}
}

type recorder struct {
	canvas native.Pointer // Null when idle
	bounds gfx.Rect
	ops    []op
}

func (r *recorder) dispose(e *Engine) {
	if r.canvas != native.Null {
		e.dropLocked(r.canvas)
		r.canvas = native.Null
	}
	releaseOps(e, r.ops)
	r.ops = nil
}

// PictureRecorderMake implements gfx.Engine.
func (e *Engine) PictureRecorderMake() native.Pointer {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.newObject("PictureRecorder", false, &recorder{})
}

// PictureRecorderBeginRecording implements gfx.Engine. It returns Null if
// the recorder is already recording.
func (e *Engine) PictureRecorderBeginRecording(rp, bounds native.Pointer) native.Pointer {
	e.mu.Lock()
	defer e.mu.Unlock()
	r := mustLookup[*recorder](e, "picture_recorder_begin_recording", rp)
	if r.canvas != native.Null {
		return native.Null
	}
	if v := e.floatsAt(bounds, 4); v != nil {
		r.bounds = gfx.Rect{Left: v[0], Top: v[1], Right: v[2], Bottom: v[3]}
	}
	r.canvas = e.newCanvasLocked(&canvas{rec: r})
	return r.canvas
}

// PictureRecorderFinishRecording implements gfx.Engine. It returns Null if
// the recorder is idle.
func (e *Engine) PictureRecorderFinishRecording(rp native.Pointer) native.Pointer {
	e.mu.Lock()
	defer e.mu.Unlock()
	r := mustLookup[*recorder](e, "picture_recorder_finish_recording", rp)
	if r.canvas == native.Null {
		return native.Null
	}
	e.dropLocked(r.canvas)
	r.canvas = native.Null
	pic := &picture{cull: r.bounds, ops: r.ops}
	r.ops = nil
	return e.newObject("Picture", true, pic)
}

// PictureGetCullRect implements gfx.Engine.
func (e *Engine) PictureGetCullRect(pp, out native.Pointer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	p := mustLookup[*picture](e, "picture_get_cull_rect", pp)
	e.putFloats(out, []float32{p.cull.Left, p.cull.Top, p.cull.Right, p.cull.Bottom})
}

// PictureApproximateOpCount implements gfx.Engine.
func (e *Engine) PictureApproximateOpCount(pp native.Pointer) int32 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return int32(len(mustLookup[*picture](e, "picture_approximate_op_count", pp).ops))
}
