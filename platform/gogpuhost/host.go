// Package gogpuhost runs a layer in a gogpu window on the GPU backend.
//
// gogpu creates its device when the window first draws, so Run attaches
// the layer from inside the first draw callback. Frames are rendered only
// on request: while frame callbacks are queued the host holds an
// animation token, which makes gogpu draw at vsync, and drops it once the
// queue drains.
//
// Mouse, scroll and key callbacks of the window's event source are
// delivered to the layer on the window's goroutine.
//
// The engine presents the flushed surface through the texture drawer of
// the draw in progress; no pixels are read back.
package gogpuhost

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gogpu/ggbind"
	"github.com/gogpu/ggbind/layer"
	"github.com/gogpu/ggbind/surface"
	"github.com/gogpu/gogpu"
	"github.com/gogpu/gpucontext"
)

// ErrBusy is returned by Attach when another layer is attached.
var ErrBusy = errors.New("gogpuhost: host already has a layer")

// Host is a layer.Platform backed by a gogpu App.
type Host struct {
	app *gogpu.App

	mu      sync.Mutex
	queue   []func(int64)
	token   *gogpu.AnimationToken
	layer   *layer.Layer
	pending *layer.Layer
	err     error
	drawer  gpucontext.TextureDrawer
	width   int
	height  int

	in input
}

var (
	_ layer.Platform    = (*Host)(nil)
	_ surface.GPUWindow = (*window)(nil)
)

// New returns a host for a width x height window.
func New(title string, width, height int) *Host {
	app := gogpu.NewApp(gogpu.DefaultConfig().
		WithTitle(title).
		WithSize(width, height).
		WithContinuousRender(false))
	return &Host{app: app, width: width, height: height}
}

// Run opens the window, attaches l on the first draw and blocks until
// the window closes. l is detached on close. Run returns the attach error
// if l could not be attached.
func (h *Host) Run(l *layer.Layer) error {
	h.mu.Lock()
	h.pending = l
	h.mu.Unlock()

	h.app.OnDraw(h.draw)
	es := h.app.EventSource()
	es.OnMouseMove(h.mouseMove)
	es.OnMousePress(h.mousePress)
	es.OnMouseRelease(h.mouseRelease)
	es.OnScroll(h.scroll)
	es.OnKeyPress(h.keyPress)
	es.OnKeyRelease(h.keyRelease)
	h.app.OnClose(func() {
		h.mu.Lock()
		h.stopAnimationLocked()
		h.mu.Unlock()
		l.Detach()
	})
	if err := h.app.Run(); err != nil {
		return fmt.Errorf("gogpuhost: %w", err)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

// RequestCallback implements frame.Host. It must be called on the
// window's goroutine, which is where View callbacks run.
func (h *Host) RequestCallback(fn func(frameTimeNanos int64)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.queue = append(h.queue, fn)
	if h.token == nil {
		h.token = h.app.StartAnimation()
	}
}

func (h *Host) stopAnimationLocked() {
	if h.token != nil {
		h.token.Stop()
		h.token = nil
	}
}

func (h *Host) draw(dc *gogpu.Context) {
	h.mu.Lock()
	h.width, h.height = dc.Width(), dc.Height()
	h.drawer = dc.AsTextureDrawer()
	pending := h.pending
	if pending != nil && h.app.GPUContextProvider() != nil {
		h.pending = nil
	} else {
		pending = nil
	}
	h.mu.Unlock()

	if pending != nil {
		if err := pending.AttachTo(h); err != nil {
			ggbind.Logger().Error("gogpuhost: attach failed", "err", err)
			h.mu.Lock()
			h.err = err
			h.mu.Unlock()
		}
	}

	h.mu.Lock()
	q := h.queue
	h.queue = nil
	h.mu.Unlock()

	now := time.Now().UnixNano()
	for _, fn := range q {
		fn(now)
	}

	h.mu.Lock()
	h.drawer = nil
	if len(h.queue) == 0 {
		h.stopAnimationLocked()
	}
	h.mu.Unlock()
}

// Attach implements layer.Platform.
func (h *Host) Attach(l *layer.Layer) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.layer != nil {
		return ErrBusy
	}
	h.layer = l
	return nil
}

// Detach implements layer.Platform.
func (h *Host) Detach() {
	h.mu.Lock()
	h.layer = nil
	h.queue = nil
	h.in = input{}
	h.stopAnimationLocked()
	h.mu.Unlock()
}

// Window implements layer.Platform. The window is a surface.GPUWindow.
func (h *Host) Window() surface.Window { return (*window)(h) }

// Backends implements layer.Platform.
func (h *Host) Backends() []surface.Backend {
	return []surface.Backend{surface.GPU()}
}

// Capabilities implements layer.Platform.
func (h *Host) Capabilities() layer.Capabilities {
	return layer.Capabilities{}
}

type window Host

func (w *window) Size() (int, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width, w.height
}

func (w *window) ContentScale() float32 { return 1 }

func (w *window) DeviceProvider() gpucontext.DeviceProvider {
	p := w.app.GPUContextProvider()
	if p == nil {
		return nil
	}
	return p
}

func (w *window) TextureDrawer() gpucontext.TextureDrawer {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.drawer
}
