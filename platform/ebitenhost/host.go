// Package ebitenhost runs a layer in an Ebitengine window.
//
// Ebitengine calls Draw once per tick; the host delivers the layer's
// pending frame callback there and copies the software-rendered frame to
// the screen. The screen is not cleared between ticks, so a tick without a
// requested frame keeps showing the last one. Input is polled in Update.
package ebitenhost

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/ggbind/frame"
	"github.com/gogpu/ggbind/layer"
	"github.com/gogpu/ggbind/surface"
	"github.com/hajimehoshi/ebiten/v2"
)

// ErrBusy is returned by Attach when another layer is attached.
var ErrBusy = errors.New("ebitenhost: host already has a layer")

// Host is a layer.Platform backed by an Ebitengine game loop.
type Host struct {
	title         string
	width, height int

	frames frame.ManualHost
	input  input
	closed atomic.Bool

	mu     sync.Mutex
	layer  *layer.Layer
	screen *ebiten.Image
	phys   [2]int
	scale  float64
}

var (
	_ layer.Platform             = (*Host)(nil)
	_ layer.Presenter            = (*Host)(nil)
	_ layer.FullscreenController = (*Host)(nil)
)

// New returns a host for a window of width x height logical pixels.
func New(title string, width, height int) *Host {
	return &Host{title: title, width: width, height: height, scale: 1}
}

// Run opens the window and blocks until it is closed or Close is called.
func (h *Host) Run() error {
	ebiten.SetWindowTitle(h.title)
	ebiten.SetWindowSize(h.width, h.height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetScreenClearedEveryFrame(false)
	return ebiten.RunGame(&game{h: h})
}

// Close ends Run after the current tick.
func (h *Host) Close() {
	h.closed.Store(true)
}

// RequestCallback implements frame.Host. Callbacks run in the next Draw.
func (h *Host) RequestCallback(fn func(frameTimeNanos int64)) {
	h.frames.RequestCallback(fn)
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
	h.mu.Unlock()
	h.input.reset()
}

func (h *Host) attached() *layer.Layer {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.layer
}

// Window implements layer.Platform. Its size is the screen size in
// physical pixels.
func (h *Host) Window() surface.Window { return (*window)(h) }

// Backends implements layer.Platform. Ebitengine owns the GPU, so the
// layer renders in software.
func (h *Host) Backends() []surface.Backend {
	return []surface.Backend{surface.Software()}
}

// Capabilities implements layer.Platform.
func (h *Host) Capabilities() layer.Capabilities {
	return layer.Capabilities{Fullscreen: true}
}

// SetFullscreen implements layer.FullscreenController.
func (h *Host) SetFullscreen(on bool) error {
	ebiten.SetFullscreen(on)
	return nil
}

// Present implements layer.Presenter. It must run inside Draw.
func (h *Host) Present(hd *surface.Handler) error {
	img, err := hd.ReadPixels()
	if err != nil {
		return fmt.Errorf("ebitenhost: present: %w", err)
	}
	h.mu.Lock()
	screen := h.screen
	h.mu.Unlock()
	if screen == nil {
		return errors.New("ebitenhost: present outside Draw")
	}
	if !img.Bounds().Eq(screen.Bounds()) {
		return fmt.Errorf("ebitenhost: frame is %v, screen is %v", img.Bounds(), screen.Bounds())
	}
	screen.WritePixels(img.Pix)
	return nil
}

type window Host

func (w *window) Size() (int, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.phys[0], w.phys[1]
}

func (w *window) ContentScale() float32 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return float32(w.scale)
}

// game adapts Host to ebiten.Game.
type game struct {
	h *Host
}

func (g *game) Update() error {
	if g.h.closed.Load() {
		return ebiten.Termination
	}
	if l := g.h.attached(); l != nil {
		g.h.mu.Lock()
		scale := g.h.scale
		g.h.mu.Unlock()
		g.h.input.poll(l, scale)
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	g.h.mu.Lock()
	g.h.screen = screen
	g.h.mu.Unlock()

	g.h.frames.Tick(time.Now().UnixNano())

	g.h.mu.Lock()
	g.h.screen = nil
	g.h.mu.Unlock()
}

// Layout makes the screen match the window in physical pixels.
func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	scale := ebiten.Monitor().DeviceScaleFactor()
	if scale <= 0 {
		scale = 1
	}
	w := int(float64(outsideWidth) * scale)
	h := int(float64(outsideHeight) * scale)

	g.h.mu.Lock()
	resized := g.h.phys != [2]int{w, h}
	g.h.phys = [2]int{w, h}
	g.h.scale = scale
	l := g.h.layer
	g.h.mu.Unlock()

	if resized && l != nil {
		l.NeedRedraw()
	}
	return w, h
}
