package soft

import (
	"github.com/gogpu/gg"
	"github.com/gogpu/ggbind/gfx"
	"github.com/gogpu/ggbind/native"
)

// op is one recorded drawing command. ref is an object the command
// draws with; a recording holds one reference on it.
type op struct {
	draw func(dc *gg.Context)
	ref  native.Pointer
}

// canvas draws either into a gg.Context or into a recorder.
type canvas struct {
	dc    *gg.Context
	rec   *recorder
	depth int
}

func (c *canvas) apply(e *Engine, o op) {
	if c.rec == nil {
		o.draw(c.dc)
		return
	}
	if o.ref != native.Null {
		e.refLocked("record", o.ref)
	}
	c.rec.ops = append(c.rec.ops, o)
}

// newCanvasLocked adds a canvas owned by another object. Canvases are not
// reference counted; the owner drops them.
func (e *Engine) newCanvasLocked(c *canvas) native.Pointer {
	return e.newObject("Canvas", false, c)
}

func (e *Engine) dropLocked(p native.Pointer) {
	if o, ok := e.objects[p]; ok {
		e.freeLocked(p, o)
	}
}

func toRGBA(c uint32) gg.RGBA {
	col := gfx.Color(c)
	return gg.RGBA2(
		float64(col.R())/255,
		float64(col.G())/255,
		float64(col.B())/255,
		float64(col.A())/255,
	)
}

func setColor(dc *gg.Context, c uint32) {
	rgba := toRGBA(c)
	dc.SetRGBA(rgba.R, rgba.G, rgba.B, rgba.A)
}

// CanvasClear implements gfx.Engine.
func (e *Engine) CanvasClear(cp native.Pointer, color uint32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	c := mustLookup[*canvas](e, "canvas_clear", cp)
	rgba := toRGBA(color)
	c.apply(e, op{draw: func(dc *gg.Context) {
		dc.ClearWithColor(rgba)
	}})
}

// CanvasDrawRect implements gfx.Engine.
func (e *Engine) CanvasDrawRect(cp, rect native.Pointer, color uint32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	c := mustLookup[*canvas](e, "canvas_draw_rect", cp)
	r := e.floatsAt(rect, 4)
	if r == nil {
		return
	}
	x, y := float64(r[0]), float64(r[1])
	w, h := float64(r[2]-r[0]), float64(r[3]-r[1])
	c.apply(e, op{draw: func(dc *gg.Context) {
		setColor(dc, color)
		dc.DrawRectangle(x, y, w, h)
		_ = dc.Fill()
	}})
}

// CanvasDrawCircle implements gfx.Engine.
func (e *Engine) CanvasDrawCircle(cp native.Pointer, cx, cy, radius float32, color uint32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	c := mustLookup[*canvas](e, "canvas_draw_circle", cp)
	c.apply(e, op{draw: func(dc *gg.Context) {
		setColor(dc, color)
		dc.DrawCircle(float64(cx), float64(cy), float64(radius))
		_ = dc.Fill()
	}})
}

// CanvasDrawPicture implements gfx.Engine.
func (e *Engine) CanvasDrawPicture(cp, pp native.Pointer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	c := mustLookup[*canvas](e, "canvas_draw_picture", cp)
	pic := mustLookup[*picture](e, "canvas_draw_picture", pp)
	c.apply(e, op{ref: pp, draw: pic.replay})
}

// CanvasDrawString implements gfx.Engine.
func (e *Engine) CanvasDrawString(cp, text native.Pointer, x, y float32, fp native.Pointer, color uint32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	c := mustLookup[*canvas](e, "canvas_draw_string", cp)
	f := mustLookup[*font](e, "canvas_draw_string", fp)
	s := e.cstringAt(text)
	face := f.face
	c.apply(e, op{ref: f.tf, draw: func(dc *gg.Context) {
		setColor(dc, color)
		dc.SetFont(face)
		dc.DrawString(s, float64(x), float64(y))
	}})
}

// CanvasSave implements gfx.Engine. It returns the save count before the
// call.
func (e *Engine) CanvasSave(cp native.Pointer) int32 {
	e.mu.Lock()
	defer e.mu.Unlock()
	c := mustLookup[*canvas](e, "canvas_save", cp)
	n := c.depth
	c.depth++
	c.apply(e, op{draw: func(dc *gg.Context) { dc.Push() }})
	return int32(n)
}

// CanvasRestore implements gfx.Engine. Unbalanced restores are ignored.
func (e *Engine) CanvasRestore(cp native.Pointer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	c := mustLookup[*canvas](e, "canvas_restore", cp)
	if c.depth == 0 {
		return
	}
	c.depth--
	c.apply(e, op{draw: func(dc *gg.Context) { dc.Pop() }})
}

// CanvasTranslate implements gfx.Engine.
func (e *Engine) CanvasTranslate(cp native.Pointer, dx, dy float32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	c := mustLookup[*canvas](e, "canvas_translate", cp)
	c.apply(e, op{draw: func(dc *gg.Context) { dc.Translate(float64(dx), float64(dy)) }})
}

// CanvasScale implements gfx.Engine.
func (e *Engine) CanvasScale(cp native.Pointer, sx, sy float32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	c := mustLookup[*canvas](e, "canvas_scale", cp)
	c.apply(e, op{draw: func(dc *gg.Context) { dc.Scale(float64(sx), float64(sy)) }})
}
