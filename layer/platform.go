package layer

import (
	"github.com/gogpu/ggbind/event"
	"github.com/gogpu/ggbind/frame"
	"github.com/gogpu/ggbind/gfx"
	"github.com/gogpu/ggbind/surface"
)

// View receives the layer's frames and input. All methods are called
// synchronously on the platform's frame or event goroutine and may call
// Layer.NeedRedraw.
type View interface {
	// OnRender draws one frame. The canvas is already cleared and is
	// flushed after OnRender returns.
	OnRender(canvas *gfx.Canvas, width, height int, frameTimeNanos int64)

	OnPointerEvent(e event.PointerEvent)
	OnKeyboardEvent(e event.KeyEvent)
}

// Capabilities lists the optional features of a Platform.
type Capabilities struct {
	Fullscreen   bool
	Transparency bool
}

// Platform connects a Layer to one windowing system. The Platform's
// frame.Host methods deliver frame callbacks on the platform's frame
// goroutine.
type Platform interface {
	frame.Host

	// Attach binds the platform's input to l. It must not call AttachTo
	// or Detach.
	Attach(l *Layer) error

	// Detach stops input delivery to the attached layer.
	Detach()

	// Window is the drawable the layer renders into.
	Window() surface.Window

	// Backends lists the drawing backends to try, preferred first.
	Backends() []surface.Backend

	Capabilities() Capabilities
}

// Presenter is implemented by platforms that show software-rendered
// frames themselves. Present runs after every flushed frame.
type Presenter interface {
	Present(h *surface.Handler) error
}

// FullscreenController is implemented by platforms that report
// Capabilities.Fullscreen.
type FullscreenController interface {
	SetFullscreen(on bool) error
}

// TransparencyController is implemented by platforms that report
// Capabilities.Transparency.
type TransparencyController interface {
	SetTransparency(on bool) error
}
