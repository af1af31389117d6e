package gfx

import (
	"runtime"

	"github.com/gogpu/ggbind/interop"
	"github.com/gogpu/ggbind/native"
	"github.com/gogpu/ggbind/stats"
)

// Canvas issues drawing commands to a surface or a picture recording.
//
// A Canvas never owns its engine object. It is released together with
// the Surface or PictureRecorder it came from, and using it afterwards
// panics.
type Canvas struct {
	*native.Handle
	eng   Engine
	owner native.Object
}

func borrowCanvas(eng Engine, p native.Pointer, owner native.Object) (*Canvas, error) {
	h, err := native.NewHandle("Canvas", p, nil)
	if err != nil {
		return nil, err
	}
	return &Canvas{Handle: h, eng: eng, owner: owner}, nil
}

// Clear fills the whole canvas with color, ignoring the clip.
func (c *Canvas) Clear(color Color) {
	stats.OnNativeCall("canvas_clear")
	c.eng.CanvasClear(c.Ptr(), uint32(color))
	runtime.KeepAlive(c)
}

// DrawRect fills r.
func (c *Canvas) DrawRect(r Rect, color Color) {
	stats.OnNativeCall("canvas_draw_rect")
	defer runtime.KeepAlive(c)
	_ = interop.Do(c.eng, func(s *interop.Scope) error {
		c.eng.CanvasDrawRect(c.Ptr(), s.Float32s(r.floats()), uint32(color))
		return nil
	})
}

// DrawCircle fills a circle.
func (c *Canvas) DrawCircle(cx, cy, radius float32, color Color) {
	stats.OnNativeCall("canvas_draw_circle")
	c.eng.CanvasDrawCircle(c.Ptr(), cx, cy, radius, uint32(color))
	runtime.KeepAlive(c)
}

// DrawPicture replays pic. A nil pic panics with native.ErrInvalidHandle.
func (c *Canvas) DrawPicture(pic *Picture) {
	if pic == nil {
		panic(native.NilHandle("Picture"))
	}
	stats.OnNativeCall("canvas_draw_picture")
	c.eng.CanvasDrawPicture(c.Ptr(), pic.Ptr())
	runtime.KeepAlive(c)
	runtime.KeepAlive(pic)
}

// DrawString draws UTF-8 text with its baseline origin at (x, y).
func (c *Canvas) DrawString(text string, x, y float32, font *Font, color Color) {
	if font == nil {
		panic(native.NilHandle("Font"))
	}
	stats.OnNativeCall("canvas_draw_string")
	defer runtime.KeepAlive(c)
	defer runtime.KeepAlive(font)
	_ = interop.Do(c.eng, func(s *interop.Scope) error {
		c.eng.CanvasDrawString(c.Ptr(), s.String(text), x, y, font.Ptr(), uint32(color))
		return nil
	})
}

// Save pushes the matrix and clip and returns the save count before the
// call.
func (c *Canvas) Save() int {
	stats.OnNativeCall("canvas_save")
	n := c.eng.CanvasSave(c.Ptr())
	runtime.KeepAlive(c)
	return int(n)
}

// Restore pops the last Save.
func (c *Canvas) Restore() {
	stats.OnNativeCall("canvas_restore")
	c.eng.CanvasRestore(c.Ptr())
	runtime.KeepAlive(c)
}

// Translate moves the origin.
func (c *Canvas) Translate(dx, dy float32) {
	stats.OnNativeCall("canvas_translate")
	c.eng.CanvasTranslate(c.Ptr(), dx, dy)
	runtime.KeepAlive(c)
}

// Scale scales the current matrix.
func (c *Canvas) Scale(sx, sy float32) {
	stats.OnNativeCall("canvas_scale")
	c.eng.CanvasScale(c.Ptr(), sx, sy)
	runtime.KeepAlive(c)
}
