package main

import (
	"fmt"

	"github.com/gogpu/ggbind/event"
	"github.com/gogpu/ggbind/gfx"
	"github.com/gogpu/ggbind/layer"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// swing is the duration of one pass across the window, in seconds.
const swing = 1.5

// scene bounces a ball between the window edges over a recorded
// backdrop. It keeps requesting frames while the animation runs.
type scene struct {
	eng   gfx.Engine
	layer *layer.Layer

	typeface *gfx.Typeface
	font     *gfx.Font
	backdrop *gfx.Picture
	size     [2]int

	tween   *gween.Tween
	forward bool
	pos     float32
	last    int64
	paused  bool
	frame   int
}

func newScene(eng gfx.Engine) (*scene, error) {
	tf, err := gfx.DefaultTypeface(eng)
	if err != nil {
		return nil, err
	}
	font, err := gfx.NewFont(tf, 18)
	if err != nil {
		_ = tf.Close()
		return nil, err
	}
	return &scene{
		eng:      eng,
		typeface: tf,
		font:     font,
		tween:    gween.New(0, 1, swing, ease.OutBounce),
		forward:  true,
	}, nil
}

func (s *scene) Close() error {
	if s.backdrop != nil {
		_ = s.backdrop.Close()
	}
	_ = s.font.Close()
	return s.typeface.Close()
}

// recordBackdrop records the stripes for a w x h window once per size.
func (s *scene) recordBackdrop(w, h int) error {
	if s.backdrop != nil && s.size == [2]int{w, h} {
		return nil
	}
	rec, err := gfx.NewPictureRecorder(s.eng)
	if err != nil {
		return err
	}
	defer rec.Close()
	c, err := rec.BeginRecording(gfx.XYWH(0, 0, float32(w), float32(h)))
	if err != nil {
		return err
	}
	stripe := float32(h) / 8
	for i := range 8 {
		shade := uint8(24 + 12*i)
		c.DrawRect(gfx.XYWH(0, float32(i)*stripe, float32(w), stripe), gfx.RGB(shade/2, shade/2, shade))
	}
	pic, err := rec.FinishRecording()
	if err != nil {
		return err
	}
	if s.backdrop != nil {
		_ = s.backdrop.Close()
	}
	s.backdrop, s.size = pic, [2]int{w, h}
	return nil
}

func (s *scene) advance(frameTimeNanos int64) {
	var dt float32
	if s.last != 0 && !s.paused {
		dt = float32(frameTimeNanos-s.last) / 1e9
	}
	s.last = frameTimeNanos

	pos, done := s.tween.Update(dt)
	s.pos = pos
	if done {
		s.forward = !s.forward
		from, to := float32(1), float32(0)
		if s.forward {
			from, to = 0, 1
		}
		s.tween = gween.New(from, to, swing, ease.OutBounce)
	}
}

func (s *scene) OnRender(c *gfx.Canvas, w, h int, frameTimeNanos int64) {
	s.frame++
	s.advance(frameTimeNanos)

	if err := s.recordBackdrop(w, h); err == nil {
		c.DrawPicture(s.backdrop)
	}

	radius := float32(h) / 8
	x := radius + s.pos*(float32(w)-2*radius)
	c.DrawCircle(x, float32(h)/2, radius, gfx.RGB(240, 160, 32))

	c.Save()
	c.Translate(16, float32(h)-16)
	c.DrawString(fmt.Sprintf("ggbind %s  frame %d", s.layer.RenderAPI(), s.frame), 0, 0, s.font, gfx.ColorWhite)
	c.Restore()

	if !s.paused {
		s.layer.NeedRedraw()
	}
}

func (s *scene) togglePause() {
	s.paused = !s.paused
	s.last = 0
	s.layer.NeedRedraw()
}

func (s *scene) OnPointerEvent(e event.PointerEvent) {
	if e.Type == event.PointerDown && e.Button == event.ButtonPrimary {
		s.togglePause()
	}
}

func (s *scene) OnKeyboardEvent(e event.KeyEvent) {
	if e.Type == event.KeyDown && e.Code == "Space" && !e.Repeat {
		s.togglePause()
	}
}
