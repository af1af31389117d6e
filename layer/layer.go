// Package layer is the rendering layer a View draws through.
//
// A Layer owns one surface.Handler and one frame.Dispatcher. It is bound
// to a windowing system through a Platform: AttachTo picks the first of
// the platform's backends that yields a drawing context, and every frame
// callback then runs the redraw path
//
//	InitCanvas -> ClearCanvas -> View.OnRender -> Flush -> Present
//
// Redraws happen only on request. NeedRedraw may be called from any
// goroutine any number of times per frame; the frames coalesce into one
// callback.
//
// Example:
//
//	l := layer.New(soft.New(), view)
//	if err := l.AttachTo(headless.New(640, 480)); err != nil {
//	    return err
//	}
//	defer l.Detach()
//	l.NeedRedraw()
package layer

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gogpu/ggbind"
	"github.com/gogpu/ggbind/event"
	"github.com/gogpu/ggbind/frame"
	"github.com/gogpu/ggbind/gfx"
	"github.com/gogpu/ggbind/surface"
)

var (
	// ErrNoBackend is returned by AttachTo when no backend of the platform
	// yields a drawing context.
	ErrNoBackend = errors.New("layer: no usable backend")

	// ErrUnsupported is returned for features the platform lacks.
	ErrUnsupported = errors.New("layer: unsupported by platform")

	// ErrAttached is returned by AttachTo on an attached layer.
	ErrAttached = errors.New("layer: already attached")

	// ErrNotAttached is returned by platform calls on a detached layer.
	ErrNotAttached = errors.New("layer: not attached")
)

// Layer renders a View into a Platform window.
type Layer struct {
	eng  gfx.Engine
	view View
	cfg  config

	// frameMu serializes frames with Detach. mu guards platform, handler
	// and normalizer; View callbacks run without it.
	frameMu     sync.Mutex
	mu          sync.Mutex
	platform    Platform
	handler     *surface.Handler
	normalizer  *event.Normalizer
	transparent bool

	dispatcher atomic.Pointer[frame.Dispatcher]
}

// New returns a detached layer drawing view with eng.
func New(eng gfx.Engine, view View, opts ...Option) *Layer {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Layer{
		eng:        eng,
		view:       view,
		cfg:        cfg,
		normalizer: event.NewNormalizer(),
	}
}

// AttachTo binds the layer to p and acquires a drawing context from the
// first of p's backends that supplies one. It fails with ErrNoBackend if
// none does; p is detached again in that case.
func (l *Layer) AttachTo(p Platform) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.platform != nil {
		return ErrAttached
	}
	if err := p.Attach(l); err != nil {
		return fmt.Errorf("layer: attach: %w", err)
	}

	h, err := l.selectBackend(p)
	if err != nil {
		p.Detach()
		return err
	}
	if l.transparent {
		h.SetBleachColor(gfx.ColorTransparent)
	}
	ggbind.Logger().Info("layer: backend selected", "backend", h.Backend().Name())

	l.platform = p
	l.handler = h
	l.setPageHeight()
	d := frame.NewDispatcher(p, l.onFrame)
	l.dispatcher.Store(d)
	d.ScheduleFrame()
	return nil
}

func (l *Layer) selectBackend(p Platform) (*surface.Handler, error) {
	candidates := l.candidates(p.Backends())
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: none of %v offered", ErrNoBackend, l.cfg.renderAPI)
	}
	var opts []surface.HandlerOption
	if l.cfg.bleach != nil {
		opts = append(opts, surface.WithBleachColor(*l.cfg.bleach))
	}
	tried := make([]string, 0, len(candidates))
	for _, b := range candidates {
		h := surface.NewHandler(l.eng, b, p.Window(), opts...)
		if h.InitContext() {
			return h, nil
		}
		h.Dispose()
		tried = append(tried, b.Name())
	}
	return nil, fmt.Errorf("%w: tried %s", ErrNoBackend, strings.Join(tried, ", "))
}

// candidates orders backends by the configured render API names, or
// keeps the platform's order when none are configured.
func (l *Layer) candidates(backends []surface.Backend) []surface.Backend {
	if len(l.cfg.renderAPI) == 0 {
		return backends
	}
	var out []surface.Backend
	for _, name := range l.cfg.renderAPI {
		for _, b := range backends {
			if b.Name() == name {
				out = append(out, b)
			}
		}
	}
	return out
}

// Detach stops frame delivery, releases the drawing resources and
// unbinds the platform. It waits for a frame in progress, so it must not
// be called from View.OnRender. Detaching a detached layer does nothing.
func (l *Layer) Detach() {
	l.frameMu.Lock()
	defer l.frameMu.Unlock()
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.platform == nil {
		return
	}
	if d := l.dispatcher.Swap(nil); d != nil {
		d.Stop()
	}
	l.platform.Detach()
	l.normalizer.Reset()
	l.handler.Dispose()
	l.platform = nil
	l.handler = nil
}

// Attached reports whether the layer is bound to a platform.
func (l *Layer) Attached() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.platform != nil
}

// NeedRedraw requests a frame. Requests made before the frame is
// delivered collapse into it. It is safe to call from any goroutine,
// including from View.OnRender to request the next frame.
func (l *Layer) NeedRedraw() {
	if d := l.dispatcher.Load(); d != nil {
		d.ScheduleFrame()
	}
}

// Frames returns the number of frame callbacks delivered since AttachTo.
func (l *Layer) Frames() int64 {
	if d := l.dispatcher.Load(); d != nil {
		return d.Frames()
	}
	return 0
}

func (l *Layer) onFrame(frameTimeNanos int64) {
	l.frameMu.Lock()
	defer l.frameMu.Unlock()

	l.mu.Lock()
	h, p := l.handler, l.platform
	l.mu.Unlock()
	if h == nil {
		return
	}

	if err := h.InitCanvas(); err != nil {
		ggbind.Logger().Warn("layer: canvas unavailable", "err", err)
		return
	}
	l.mu.Lock()
	l.setPageHeight()
	l.mu.Unlock()

	h.ClearCanvas()
	w, ht := h.Size()
	l.view.OnRender(h.Canvas(), w, ht, frameTimeNanos)
	h.Flush()

	if pr, ok := p.(Presenter); ok {
		if err := pr.Present(h); err != nil {
			ggbind.Logger().Warn("layer: present failed", "err", err)
		}
	}
}

// setPageHeight sizes page-mode scrolling to the logical window height.
// Must be called with mu held.
func (l *Layer) setPageHeight() {
	win := l.platform.Window()
	_, h := win.Size()
	l.normalizer.SetPageHeight(float64(h) / float64(win.ContentScale()))
}

// normalize runs fn on the normalizer if the layer is attached.
func normalize[E any](l *Layer, fn func(n *event.Normalizer) E) (E, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.platform == nil {
		var zero E
		return zero, false
	}
	return fn(l.normalizer), true
}

// DeliverPointer normalizes raw pointer input of the given kind, one of
// event.PointerDown, event.PointerUp or event.PointerMove, and passes it
// to the View. Input on a detached layer is dropped.
func (l *Layer) DeliverPointer(kind event.Kind, r event.RawPointer) {
	e, ok := normalize(l, func(n *event.Normalizer) event.PointerEvent {
		switch kind {
		case event.PointerDown:
			return n.PointerDown(r)
		case event.PointerUp:
			return n.PointerUp(r)
		default:
			return n.PointerMove(r)
		}
	})
	if ok {
		l.view.OnPointerEvent(e)
	}
}

// DeliverWheel normalizes raw wheel input and passes it to the View.
func (l *Layer) DeliverWheel(r event.RawWheel) {
	if e, ok := normalize(l, func(n *event.Normalizer) event.PointerEvent { return n.Wheel(r) }); ok {
		l.view.OnPointerEvent(e)
	}
}

// DeliverKey normalizes raw key input of kind event.KeyDown or
// event.KeyUp and passes it to the View.
func (l *Layer) DeliverKey(kind event.Kind, r event.RawKey) {
	e, ok := normalize(l, func(n *event.Normalizer) event.KeyEvent {
		if kind == event.KeyUp {
			return n.KeyUp(r)
		}
		return n.KeyDown(r)
	})
	if ok {
		l.view.OnKeyboardEvent(e)
	}
}

// DeliverContextMenu reports whether the platform's context menu must be
// suppressed.
func (l *Layer) DeliverContextMenu() bool {
	return l.normalizer.ContextMenu()
}

// SetFullscreen switches the platform window to or from fullscreen.
func (l *Layer) SetFullscreen(on bool) error {
	l.mu.Lock()
	p := l.platform
	l.mu.Unlock()
	if p == nil {
		return ErrNotAttached
	}
	fc, ok := p.(FullscreenController)
	if !ok || !p.Capabilities().Fullscreen {
		return fmt.Errorf("%w: fullscreen", ErrUnsupported)
	}
	return fc.SetFullscreen(on)
}

// SetTransparency makes the window background transparent. The layer
// then clears every frame to transparent.
func (l *Layer) SetTransparency(on bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.platform == nil {
		return ErrNotAttached
	}
	tc, ok := l.platform.(TransparencyController)
	if !ok || !l.platform.Capabilities().Transparency {
		return fmt.Errorf("%w: transparency", ErrUnsupported)
	}
	if err := tc.SetTransparency(on); err != nil {
		return err
	}
	l.transparent = on
	switch {
	case on:
		l.handler.SetBleachColor(gfx.ColorTransparent)
	case l.cfg.bleach != nil:
		l.handler.SetBleachColor(*l.cfg.bleach)
	default:
		l.handler.SetBleachColor(l.handler.Backend().BleachColor())
	}
	l.NeedRedraw()
	return nil
}

// RenderAPI returns the name of the backend in use, or "" when detached.
func (l *Layer) RenderAPI() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.handler == nil {
		return ""
	}
	return l.handler.Backend().Name()
}

// ContentScale returns the window's ratio of physical to logical pixels,
// or 1 when detached.
func (l *Layer) ContentScale() float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.platform == nil {
		return 1
	}
	return l.platform.Window().ContentScale()
}

// Handler returns the surface handler, or nil when detached.
func (l *Layer) Handler() *surface.Handler {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.handler
}
