package headless_test

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"path/filepath"
	"testing"
	"time"

	"github.com/gogpu/ggbind/engine/soft"
	"github.com/gogpu/ggbind/event"
	"github.com/gogpu/ggbind/gfx"
	"github.com/gogpu/ggbind/layer"
	"github.com/gogpu/ggbind/platform/headless"
	"github.com/gogpu/ggbind/surface"
)

type circleView struct {
	frames chan struct{}
}

func (v *circleView) OnRender(c *gfx.Canvas, w, h int, _ int64) {
	c.DrawCircle(float32(w)/2, float32(h)/2, 4, gfx.RGB(0, 128, 0))
	if v.frames != nil {
		select {
		case v.frames <- struct{}{}:
		default:
		}
	}
}

func (v *circleView) OnPointerEvent(event.PointerEvent) {}
func (v *circleView) OnKeyboardEvent(event.KeyEvent)    {}

func TestWritePNG(t *testing.T) {
	p := headless.New(16, 16, headless.WithBackends(surface.Software))
	var buf bytes.Buffer
	if err := p.WritePNG(&buf); !errors.Is(err, headless.ErrNoFrame) {
		t.Fatalf("WritePNG before a frame = %v, want ErrNoFrame", err)
	}

	l := layer.New(soft.New(), &circleView{})
	if err := l.AttachTo(p); err != nil {
		t.Fatal(err)
	}
	defer l.Detach()
	if p.Layer() != l {
		t.Error("Layer does not return the attached layer")
	}
	p.Tick(0)

	if err := p.WritePNG(&buf); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 16 {
		t.Errorf("PNG is %dx%d", b.Dx(), b.Dy())
	}
	if _, g, _, _ := img.At(8, 8).RGBA(); g>>8 != 128 {
		t.Errorf("center green = %d, want 128", g>>8)
	}

	path := filepath.Join(t.TempDir(), "frame.png")
	if err := p.SavePNG(path); err != nil {
		t.Errorf("SavePNG: %v", err)
	}
}

func TestRunNeedsFrameRate(t *testing.T) {
	if err := headless.New(1, 1).Run(context.Background()); !errors.Is(err, headless.ErrManual) {
		t.Errorf("Run = %v, want ErrManual", err)
	}
}

func TestRunDeliversFrames(t *testing.T) {
	p := headless.New(8, 8, headless.WithFrameRate(200), headless.WithBackends(surface.Software))
	v := &circleView{frames: make(chan struct{}, 1)}
	l := layer.New(soft.New(), v)
	if err := l.AttachTo(p); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	select {
	case <-v.frames:
	case <-time.After(5 * time.Second):
		t.Fatal("no frame delivered")
	}
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Run = %v, want context.Canceled", err)
	}
	l.Detach()
	if p.Presented() != 1 {
		t.Errorf("presented %d frames, want 1", p.Presented())
	}
}

func TestCapabilities(t *testing.T) {
	p := headless.New(1, 1)
	if c := p.Capabilities(); c.Fullscreen || !c.Transparency {
		t.Errorf("Capabilities = %+v", c)
	}
	if s := p.Window().ContentScale(); s != 1 {
		t.Errorf("default scale = %v", s)
	}
}
