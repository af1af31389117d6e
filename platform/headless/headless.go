// Package headless is an offscreen layer.Platform.
//
// Frames are driven by hand with Tick, or in real time with Run when the
// platform is built WithFrameRate. Every presented frame is read back and
// kept, so it can be inspected or saved as PNG.
package headless

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"sync"

	"github.com/gogpu/ggbind/frame"
	"github.com/gogpu/ggbind/layer"
	"github.com/gogpu/ggbind/surface"
)

var (
	// ErrBusy is returned by Attach when another layer is attached.
	ErrBusy = errors.New("headless: platform already has a layer")

	// ErrNoFrame is returned by WritePNG before the first frame.
	ErrNoFrame = errors.New("headless: no frame presented")

	// ErrManual is returned by Run on a platform without a frame rate.
	ErrManual = errors.New("headless: platform is driven by Tick")
)

// Option configures a Platform.
type Option func(*Platform)

// WithScale sets the window content scale.
func WithScale(scale float32) Option {
	return func(p *Platform) {
		p.window.scale = scale
	}
}

// WithFrameRate drives frames from a ticker at fps frames per second;
// Run then delivers them.
func WithFrameRate(fps int) Option {
	return func(p *Platform) {
		p.ticker = frame.NewTickerHost(fps)
	}
}

// WithBackends replaces the backends offered to the layer. Each factory
// is called once per attach.
func WithBackends(factories ...surface.Factory) Option {
	return func(p *Platform) {
		p.factories = factories
	}
}

// Platform renders into an offscreen window of fixed size.
type Platform struct {
	window    window
	manual    frame.ManualHost
	ticker    *frame.TickerHost
	factories []surface.Factory

	mu          sync.Mutex
	layer       *layer.Layer
	last        *image.RGBA
	presented   int
	transparent bool
}

var (
	_ layer.Platform               = (*Platform)(nil)
	_ layer.Presenter              = (*Platform)(nil)
	_ layer.TransparencyController = (*Platform)(nil)
)

// New returns a width x height platform. Without WithBackends it offers
// every registered backend in priority order.
func New(width, height int, opts ...Option) *Platform {
	p := &Platform{window: window{w: width, h: height, scale: 1}}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// RequestCallback implements frame.Host.
func (p *Platform) RequestCallback(fn func(frameTimeNanos int64)) {
	if p.ticker != nil {
		p.ticker.RequestCallback(fn)
		return
	}
	p.manual.RequestCallback(fn)
}

// Tick delivers the queued frame callbacks with frame time nanos and
// returns how many ran.
func (p *Platform) Tick(nanos int64) int {
	return p.manual.Tick(nanos)
}

// Run delivers frames until ctx is done. It needs WithFrameRate.
func (p *Platform) Run(ctx context.Context) error {
	if p.ticker == nil {
		return ErrManual
	}
	return p.ticker.Run(ctx)
}

// Attach implements layer.Platform.
func (p *Platform) Attach(l *layer.Layer) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.layer != nil {
		return ErrBusy
	}
	p.layer = l
	return nil
}

// Detach implements layer.Platform.
func (p *Platform) Detach() {
	p.mu.Lock()
	p.layer = nil
	p.mu.Unlock()
}

// Layer returns the attached layer, or nil.
func (p *Platform) Layer() *layer.Layer {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.layer
}

// Window implements layer.Platform.
func (p *Platform) Window() surface.Window { return &p.window }

// Backends implements layer.Platform.
func (p *Platform) Backends() []surface.Backend {
	if p.factories == nil {
		return surface.Ordered()
	}
	backends := make([]surface.Backend, len(p.factories))
	for i, f := range p.factories {
		backends[i] = f()
	}
	return backends
}

// Capabilities implements layer.Platform.
func (p *Platform) Capabilities() layer.Capabilities {
	return layer.Capabilities{Transparency: true}
}

// SetTransparency implements layer.TransparencyController.
func (p *Platform) SetTransparency(on bool) error {
	p.mu.Lock()
	p.transparent = on
	p.mu.Unlock()
	return nil
}

// Transparent reports whether the window background is transparent.
func (p *Platform) Transparent() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.transparent
}

// Resize changes the window size. The layer picks it up on the next
// frame; Resize does not request one.
func (p *Platform) Resize(width, height int) {
	p.window.resize(width, height)
}

// Present implements layer.Presenter by reading the frame back.
func (p *Platform) Present(h *surface.Handler) error {
	img, err := h.ReadPixels()
	if err != nil {
		return fmt.Errorf("headless: present: %w", err)
	}
	p.mu.Lock()
	p.last = img
	p.presented++
	p.mu.Unlock()
	return nil
}

// Snapshot returns the last presented frame, or nil.
func (p *Platform) Snapshot() *image.RGBA {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

// Presented returns the number of presented frames.
func (p *Platform) Presented() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.presented
}

// WritePNG encodes the last presented frame to w.
func (p *Platform) WritePNG(w io.Writer) error {
	img := p.Snapshot()
	if img == nil {
		return ErrNoFrame
	}
	return png.Encode(w, img)
}

// SavePNG writes the last presented frame to a PNG file.
func (p *Platform) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := p.WritePNG(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

type window struct {
	mu    sync.Mutex
	w, h  int
	scale float32
}

func (w *window) Size() (int, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.w, w.h
}

func (w *window) ContentScale() float32 {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.scale <= 0 {
		return 1
	}
	return w.scale
}

func (w *window) resize(width, height int) {
	w.mu.Lock()
	w.w, w.h = width, height
	w.mu.Unlock()
}
