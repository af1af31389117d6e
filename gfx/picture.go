package gfx

import (
	"runtime"

	"github.com/gogpu/ggbind/interop"
	"github.com/gogpu/ggbind/native"
	"github.com/gogpu/ggbind/stats"
)

// Picture is an immutable recording of canvas commands.
type Picture struct {
	*native.RefCnt
	eng Engine
}

// CullRect returns the bounds given when the picture was recorded.
func (p *Picture) CullRect() Rect {
	stats.OnNativeCall("picture_get_cull_rect")
	defer runtime.KeepAlive(p)
	out := make([]float32, 4)
	_ = interop.Do(p.eng, func(s *interop.Scope) error {
		buf := s.Alloc(4 * 4)
		p.eng.PictureGetCullRect(p.Ptr(), buf)
		interop.ReadFloat32s(p.eng, buf, out)
		return nil
	})
	return rectFrom(out)
}

// ApproximateOpCount returns the number of recorded commands, counting
// nested pictures as one.
func (p *Picture) ApproximateOpCount() int {
	stats.OnNativeCall("picture_approximate_op_count")
	n := p.eng.PictureApproximateOpCount(p.Ptr())
	runtime.KeepAlive(p)
	return int(n)
}

// PictureRecorder records canvas commands into a Picture.
type PictureRecorder struct {
	*native.Handle
	eng       Engine
	recording *Canvas
}

// NewPictureRecorder creates an idle recorder.
func NewPictureRecorder(eng Engine) (*PictureRecorder, error) {
	stats.OnNativeCall("picture_recorder_make")
	h, err := native.NewHandle("PictureRecorder", eng.PictureRecorderMake(), eng.Delete)
	if err != nil {
		return nil, err
	}
	return &PictureRecorder{Handle: h, eng: eng}, nil
}

// BeginRecording starts a recording limited to bounds and returns the
// canvas to draw on. The canvas belongs to the recorder and is released
// by FinishRecording.
func (r *PictureRecorder) BeginRecording(bounds Rect) (*Canvas, error) {
	stats.OnNativeCall("picture_recorder_begin_recording")
	defer runtime.KeepAlive(r)
	p, _ := interop.Call(r.eng, func(s *interop.Scope) (native.Pointer, error) {
		return r.eng.PictureRecorderBeginRecording(r.Ptr(), s.Float32s(bounds.floats())), nil
	})
	c, err := borrowCanvas(r.eng, p, r)
	if err != nil {
		return nil, err
	}
	r.recording = c
	return c, nil
}

// FinishRecording ends the recording and returns its picture.
func (r *PictureRecorder) FinishRecording() (*Picture, error) {
	stats.OnNativeCall("picture_recorder_finish_recording")
	defer runtime.KeepAlive(r)
	if r.recording != nil {
		_ = r.recording.Close()
		r.recording = nil
	}
	rc, err := native.NewRefCnt("Picture", r.eng.PictureRecorderFinishRecording(r.Ptr()), r.eng)
	if err != nil {
		return nil, err
	}
	return &Picture{RefCnt: rc, eng: r.eng}, nil
}

// Close releases the recorder and any canvas still recording.
func (r *PictureRecorder) Close() error {
	if r.recording != nil {
		_ = r.recording.Close()
		r.recording = nil
	}
	return r.Handle.Close()
}
