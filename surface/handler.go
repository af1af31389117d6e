// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"errors"
	"fmt"
	"image"
	"log/slog"

	"github.com/gogpu/ggbind"
	"github.com/gogpu/ggbind/gfx"
	"github.com/gogpu/ggbind/native"
)

// State is the lifecycle state of a Handler.
type State int

// Handler states.
const (
	Uninitialized State = iota
	ContextReady
	CanvasReady
	Disposed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "Uninitialized"
	case ContextReady:
		return "ContextReady"
	case CanvasReady:
		return "CanvasReady"
	case Disposed:
		return "Disposed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

var (
	// ErrNoContext is returned by InitCanvas before InitContext succeeded.
	ErrNoContext = errors.New("surface: no drawing context")

	// ErrNoCanvas is returned by ReadPixels before InitCanvas succeeded.
	ErrNoCanvas = errors.New("surface: no canvas")

	// ErrDisposed is returned (or, for drawing calls, the wrapped panic
	// value) when a disposed handler is used.
	ErrDisposed = errors.New("surface: handler disposed")
)

// Handler owns the context, render target, surface and canvas of one
// window. It is not safe for concurrent use; call it from the frame
// goroutine.
type Handler struct {
	eng     gfx.Engine
	backend Backend
	window  Window
	bleach  gfx.Color

	state   State
	context *gfx.DirectContext
	target  *gfx.BackendRenderTarget
	surface *gfx.Surface
	canvas  *gfx.Canvas
	width   int
	height  int
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithBleachColor overrides the backend's clear color.
func WithBleachColor(c gfx.Color) HandlerOption {
	return func(h *Handler) {
		h.bleach = c
	}
}

// NewHandler returns an Uninitialized handler drawing into window with
// backend.
func NewHandler(eng gfx.Engine, backend Backend, window Window, opts ...HandlerOption) *Handler {
	h := &Handler{
		eng:     eng,
		backend: backend,
		window:  window,
		bleach:  backend.BleachColor(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) log() *slog.Logger {
	return ggbind.Logger().With("backend", h.backend.Name())
}

func (h *Handler) setState(s State) {
	h.log().Debug("surface: state change", "from", h.state.String(), "to", s.String())
	h.state = s
}

// State returns the current state.
func (h *Handler) State() State { return h.state }

// Backend returns the backend the handler was built with.
func (h *Handler) Backend() Backend { return h.backend }

// Canvas returns the canvas, or nil before InitCanvas.
func (h *Handler) Canvas() *gfx.Canvas { return h.canvas }

// SetBleachColor changes the color ClearCanvas fills with.
func (h *Handler) SetBleachColor(c gfx.Color) { h.bleach = c }

// BleachColor returns the color ClearCanvas fills with.
func (h *Handler) BleachColor() gfx.Color { return h.bleach }

// Context returns the direct context, or nil before InitContext.
func (h *Handler) Context() *gfx.DirectContext { return h.context }

// Size returns the size of the current canvas.
func (h *Handler) Size() (width, height int) { return h.width, h.height }

// InitContext acquires the drawing context. It returns false if the
// backend cannot supply one; the handler then stays Uninitialized and the
// caller may try another backend. A handler that already has a context
// returns true.
func (h *Handler) InitContext() bool {
	switch h.state {
	case ContextReady, CanvasReady:
		return true
	case Disposed:
		return false
	}
	ctx, err := h.backend.MakeContext(h.eng, h.window)
	if err != nil {
		h.log().Warn("surface: context acquisition failed", "err", err)
		return false
	}
	h.context = ctx
	h.setState(ContextReady)
	return true
}

// InitCanvas builds the render target, surface and canvas for the
// window's current size. In CanvasReady it rebuilds them if the size
// changed. It returns ErrNoContext before InitContext succeeded.
func (h *Handler) InitCanvas() error {
	switch h.state {
	case Uninitialized:
		return ErrNoContext
	case Disposed:
		return ErrDisposed
	}
	w, ht := h.window.Size()
	if h.state == CanvasReady && w == h.width && ht == h.height {
		return nil
	}
	if w <= 0 || ht <= 0 {
		return fmt.Errorf("%w: window is %dx%d", gfx.ErrInvalidSize, w, ht)
	}
	h.releaseCanvas()

	ct := h.backend.ColorType(h.window)
	rt, err := gfx.MakeRenderTarget(h.eng, h.backend.Kind(), w, ht, ct)
	if err != nil {
		h.setState(ContextReady)
		return fmt.Errorf("surface: render target: %w", err)
	}
	s, err := gfx.MakeSurfaceFromRenderTarget(h.context, rt, ct)
	if err != nil {
		_ = rt.Close()
		h.setState(ContextReady)
		return fmt.Errorf("surface: surface: %w", err)
	}
	h.target, h.surface = rt, s
	h.canvas = s.Canvas()
	h.width, h.height = w, ht
	h.setState(CanvasReady)
	return nil
}

// ready reports whether drawing can proceed; op names the call in the
// skip diagnostic. Drawing on a disposed handler panics.
func (h *Handler) ready(op string) bool {
	switch h.state {
	case CanvasReady:
		return true
	case Disposed:
		panic(fmt.Errorf("%w: %s", ErrDisposed, op))
	}
	h.log().Debug("surface: draw skipped", "op", op, "state", h.state.String())
	return false
}

// ClearCanvas fills the canvas with the bleach color.
func (h *Handler) ClearCanvas() {
	if h.ready("ClearCanvas") {
		h.canvas.Clear(h.bleach)
	}
}

// DrawOnCanvas draws pic on the canvas. A nil pic panics with
// native.ErrInvalidHandle in every state.
func (h *Handler) DrawOnCanvas(pic *gfx.Picture) {
	if pic == nil {
		panic(native.NilHandle("Picture"))
	}
	if h.ready("DrawOnCanvas") {
		h.canvas.DrawPicture(pic)
	}
}

// Flush submits the frame's commands. It must follow every frame.
func (h *Handler) Flush() {
	switch h.state {
	case ContextReady, CanvasReady:
		h.context.Flush()
	case Disposed:
		panic(fmt.Errorf("%w: Flush", ErrDisposed))
	default:
		h.log().Debug("surface: flush skipped", "state", h.state.String())
	}
}

// ReadPixels copies the canvas content.
func (h *Handler) ReadPixels() (*image.RGBA, error) {
	switch h.state {
	case CanvasReady:
		return h.surface.ReadPixels()
	case Disposed:
		return nil, ErrDisposed
	default:
		return nil, ErrNoCanvas
	}
}

func (h *Handler) releaseCanvas() {
	if h.canvas != nil {
		_ = h.canvas.Close()
		h.canvas = nil
	}
	if h.surface != nil {
		_ = h.surface.Close()
		h.surface = nil
	}
	if h.target != nil {
		_ = h.target.Close()
		h.target = nil
	}
	h.width, h.height = 0, 0
}

// Dispose releases canvas, surface, render target and context in that
// order. Calls after the first do nothing.
func (h *Handler) Dispose() {
	if h.state == Disposed {
		return
	}
	h.releaseCanvas()
	if h.context != nil {
		_ = h.context.Close()
		h.context = nil
	}
	h.backend.Release()
	h.setState(Disposed)
}
