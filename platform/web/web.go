//go:build js && wasm

package web

import (
	"errors"
	"fmt"
	"image"
	"sync"
	"syscall/js"

	"github.com/gogpu/ggbind/event"
	"github.com/gogpu/ggbind/frame"
	"github.com/gogpu/ggbind/layer"
	"github.com/gogpu/ggbind/surface"
	"golang.org/x/image/draw"
)

var (
	// ErrNoCanvas is returned by New when the element does not exist or
	// has no 2D context.
	ErrNoCanvas = errors.New("web: canvas not found")

	// ErrBusy is returned by Attach when another layer is attached.
	ErrBusy = errors.New("web: platform already has a layer")
)

type listener struct {
	target js.Value
	name   string
	fn     js.Func
}

// Platform is a layer.Platform drawing into one canvas element.
type Platform struct {
	canvas js.Value
	ctx2d  js.Value
	frames frame.ManualHost
	raf    js.Func

	mu         sync.Mutex
	layer      *layer.Layer
	listeners  []listener
	rafPending bool
	width      int
	height     int
	scale      float64
}

var (
	_ layer.Platform             = (*Platform)(nil)
	_ layer.Presenter            = (*Platform)(nil)
	_ layer.FullscreenController = (*Platform)(nil)
)

// New returns a platform for the canvas element with the given id.
func New(canvasID string) (*Platform, error) {
	doc := js.Global().Get("document")
	canvas := doc.Call("getElementById", canvasID)
	if canvas.IsNull() || canvas.IsUndefined() {
		return nil, fmt.Errorf("%w: #%s", ErrNoCanvas, canvasID)
	}
	ctx2d := canvas.Call("getContext", "2d")
	if ctx2d.IsNull() {
		return nil, fmt.Errorf("%w: #%s has no 2d context", ErrNoCanvas, canvasID)
	}
	p := &Platform{canvas: canvas, ctx2d: ctx2d, scale: 1}
	p.raf = js.FuncOf(func(_ js.Value, args []js.Value) any {
		p.mu.Lock()
		p.rafPending = false
		p.mu.Unlock()
		p.syncSize()
		p.frames.Tick(millisToNanos(args[0].Float()))
		return nil
	})
	p.syncSize()
	return p, nil
}

// syncSize sizes the canvas backing store to its CSS size in device
// pixels.
func (p *Platform) syncSize() {
	scale := js.Global().Get("devicePixelRatio").Float()
	if scale <= 0 {
		scale = 1
	}
	w := int(p.canvas.Get("clientWidth").Float() * scale)
	h := int(p.canvas.Get("clientHeight").Float() * scale)
	if p.canvas.Get("width").Int() != w {
		p.canvas.Set("width", w)
	}
	if p.canvas.Get("height").Int() != h {
		p.canvas.Set("height", h)
	}
	p.mu.Lock()
	p.width, p.height, p.scale = w, h, scale
	p.mu.Unlock()
}

// RequestCallback implements frame.Host.
func (p *Platform) RequestCallback(fn func(frameTimeNanos int64)) {
	p.frames.RequestCallback(fn)
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.rafPending {
		p.rafPending = true
		js.Global().Call("requestAnimationFrame", p.raf)
	}
}

// Attach implements layer.Platform by installing the DOM listeners.
func (p *Platform) Attach(l *layer.Layer) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.layer != nil {
		return ErrBusy
	}
	p.layer = l

	pointer := func(kind event.Kind) func(e js.Value) {
		return func(e js.Value) {
			l.DeliverPointer(kind, p.rawPointer(e))
		}
	}
	p.listen(p.canvas, "pointerdown", pointer(event.PointerDown))
	p.listen(p.canvas, "pointerup", pointer(event.PointerUp))
	p.listen(p.canvas, "pointermove", pointer(event.PointerMove))
	p.listen(p.canvas, "wheel", func(e js.Value) {
		e.Call("preventDefault")
		l.DeliverWheel(event.RawWheel{
			X:         e.Get("offsetX").Float(),
			Y:         e.Get("offsetY").Float(),
			DeltaX:    e.Get("deltaX").Float(),
			DeltaY:    e.Get("deltaY").Float(),
			Mode:      event.DeltaMode(e.Get("deltaMode").Int()),
			Modifiers: modifiers(e),
			Timestamp: millisToNanos(e.Get("timeStamp").Float()),
		})
	})
	p.listen(p.canvas, "contextmenu", func(e js.Value) {
		if l.DeliverContextMenu() {
			e.Call("preventDefault")
		}
	})
	doc := js.Global().Get("document")
	key := func(kind event.Kind) func(e js.Value) {
		return func(e js.Value) {
			k := e.Get("key").String()
			l.DeliverKey(kind, event.RawKey{
				Key:       k,
				Code:      e.Get("code").String(),
				Rune:      keyRune(k),
				Modifiers: modifiers(e),
				Repeat:    e.Get("repeat").Bool(),
				Timestamp: millisToNanos(e.Get("timeStamp").Float()),
			})
		}
	}
	p.listen(doc, "keydown", key(event.KeyDown))
	p.listen(doc, "keyup", key(event.KeyUp))
	return nil
}

// listen must be called with mu held.
func (p *Platform) listen(target js.Value, name string, fn func(e js.Value)) {
	jf := js.FuncOf(func(_ js.Value, args []js.Value) any {
		fn(args[0])
		return nil
	})
	target.Call("addEventListener", name, jf)
	p.listeners = append(p.listeners, listener{target: target, name: name, fn: jf})
}

func (p *Platform) rawPointer(e js.Value) event.RawPointer {
	return event.RawPointer{
		Pointer:   e.Get("pointerId").Int(),
		Device:    pointerDevice(e.Get("pointerType").String()),
		X:         e.Get("offsetX").Float(),
		Y:         e.Get("offsetY").Float(),
		Button:    domButton(e.Get("button").Int()),
		Modifiers: modifiers(e),
		Timestamp: millisToNanos(e.Get("timeStamp").Float()),
	}
}

func modifiers(e js.Value) event.Modifiers {
	return domModifiers(e.Get("shiftKey").Bool(), e.Get("ctrlKey").Bool(), e.Get("altKey").Bool(), e.Get("metaKey").Bool())
}

// Detach implements layer.Platform by removing the DOM listeners.
func (p *Platform) Detach() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, ls := range p.listeners {
		ls.target.Call("removeEventListener", ls.name, ls.fn)
		ls.fn.Release()
	}
	p.listeners = nil
	p.layer = nil
}

// Release frees the animation frame callback. The platform is unusable
// afterwards.
func (p *Platform) Release() {
	p.Detach()
	p.raf.Release()
}

// Window implements layer.Platform.
func (p *Platform) Window() surface.Window { return (*window)(p) }

// Backends implements layer.Platform.
func (p *Platform) Backends() []surface.Backend {
	return []surface.Backend{surface.Software()}
}

// Capabilities implements layer.Platform.
func (p *Platform) Capabilities() layer.Capabilities {
	return layer.Capabilities{Fullscreen: true}
}

// SetFullscreen implements layer.FullscreenController.
func (p *Platform) SetFullscreen(on bool) error {
	if on {
		p.canvas.Call("requestFullscreen")
		return nil
	}
	doc := js.Global().Get("document")
	if !doc.Get("fullscreenElement").IsNull() {
		doc.Call("exitFullscreen")
	}
	return nil
}

// Present implements layer.Presenter.
func (p *Platform) Present(h *surface.Handler) error {
	img, err := h.ReadPixels()
	if err != nil {
		return fmt.Errorf("web: present: %w", err)
	}
	// ImageData is not premultiplied.
	b := img.Bounds()
	straight := image.NewNRGBA(b)
	draw.Copy(straight, b.Min, img, b, draw.Src, nil)
	data := js.Global().Get("Uint8ClampedArray").New(len(straight.Pix))
	js.CopyBytesToJS(data, straight.Pix)
	imageData := js.Global().Get("ImageData").New(data, b.Dx(), b.Dy())
	p.ctx2d.Call("putImageData", imageData, 0, 0)
	return nil
}

type window Platform

func (w *window) Size() (int, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width, w.height
}

func (w *window) ContentScale() float32 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return float32(w.scale)
}
