// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"errors"
	"image/color"
	"testing"

	"github.com/gogpu/ggbind/engine/soft"
	"github.com/gogpu/ggbind/gfx"
	"github.com/gogpu/ggbind/native"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// recordingEngine logs the order in which objects are released.
type recordingEngine struct {
	*soft.Engine
	released  []native.Pointer
	onRelease func(p native.Pointer)
}

func (e *recordingEngine) Unref(p native.Pointer) {
	e.record(p)
	e.Engine.Unref(p)
}

func (e *recordingEngine) Delete(p native.Pointer) {
	e.record(p)
	e.Engine.Delete(p)
}

func (e *recordingEngine) record(p native.Pointer) {
	e.released = append(e.released, p)
	if e.onRelease != nil {
		e.onRelease(p)
	}
}

type mockDevice struct{}

func (m *mockDevice) Poll(wait bool) {}
func (m *mockDevice) Destroy()       {}

type mockQueue struct{}

type mockAdapter struct{}

type mockProvider struct {
	format gputypes.TextureFormat
}

func (m *mockProvider) Device() gpucontext.Device             { return &mockDevice{} }
func (m *mockProvider) Queue() gpucontext.Queue               { return &mockQueue{} }
func (m *mockProvider) Adapter() gpucontext.Adapter           { return &mockAdapter{} }
func (m *mockProvider) AdapterInfo() gpucontext.AdapterInfo   { return gpucontext.AdapterInfo{} }
func (m *mockProvider) SurfaceFormat() gputypes.TextureFormat { return m.format }

type gpuWindow struct {
	StaticWindow
	provider gpucontext.DeviceProvider
}

func (w *gpuWindow) DeviceProvider() gpucontext.DeviceProvider { return w.provider }
func (w *gpuWindow) TextureDrawer() gpucontext.TextureDrawer   { return nil }

func expectPanic(t *testing.T, target error, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		err, ok := recover().(error)
		if !ok || !errors.Is(err, target) {
			t.Errorf("recovered %v, want error wrapping %v", err, target)
		}
	}()
	fn()
}

func TestInitCanvasBeforeContext(t *testing.T) {
	eng := soft.New()
	h := NewHandler(eng, Software(), &StaticWindow{Width: 10, Height: 10})
	if err := h.InitCanvas(); !errors.Is(err, ErrNoContext) {
		t.Errorf("InitCanvas = %v, want ErrNoContext", err)
	}
	if h.State() != Uninitialized {
		t.Errorf("State = %s, want Uninitialized", h.State())
	}

	// Drawing before a canvas exists is skipped.
	h.ClearCanvas()
	h.DrawOnCanvas(recordPicture(t, eng))
	h.Flush()
	if _, err := h.ReadPixels(); !errors.Is(err, ErrNoCanvas) {
		t.Errorf("ReadPixels = %v, want ErrNoCanvas", err)
	}
}

func TestDrawSkippedWithContextOnly(t *testing.T) {
	h := NewHandler(soft.New(), Software(), &StaticWindow{Width: 10, Height: 10})
	if !h.InitContext() {
		t.Fatal("InitContext failed")
	}
	pic := recordPicture(t, h.eng)
	h.ClearCanvas()
	h.DrawOnCanvas(pic)
	h.Flush()
	if h.State() != ContextReady {
		t.Errorf("State = %s, want ContextReady", h.State())
	}
}

func recordPicture(t *testing.T, eng gfx.Engine) *gfx.Picture {
	t.Helper()
	rec, err := gfx.NewPictureRecorder(eng)
	if err != nil {
		t.Fatal(err)
	}
	defer rec.Close()
	if _, err := rec.BeginRecording(gfx.XYWH(0, 0, 1, 1)); err != nil {
		t.Fatal(err)
	}
	pic, err := rec.FinishRecording()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { pic.Close() })
	return pic
}

func TestDrawOnCanvasNilPicture(t *testing.T) {
	h := NewHandler(soft.New(), Software(), &StaticWindow{Width: 4, Height: 4})
	defer h.Dispose()
	expectPanic(t, native.ErrInvalidHandle, func() { h.DrawOnCanvas(nil) })
	if !h.InitContext() {
		t.Fatal("InitContext failed")
	}
	if err := h.InitCanvas(); err != nil {
		t.Fatal(err)
	}
	expectPanic(t, native.ErrInvalidHandle, func() { h.DrawOnCanvas(nil) })
	if h.State() != CanvasReady {
		t.Errorf("State = %s, want CanvasReady", h.State())
	}
}

func TestSoftwareLifecycle(t *testing.T) {
	eng := soft.New()
	h := NewHandler(eng, Software(), &StaticWindow{Width: 16, Height: 8})
	if !h.InitContext() {
		t.Fatal("InitContext failed")
	}
	if !h.InitContext() {
		t.Error("second InitContext failed")
	}
	if err := h.InitCanvas(); err != nil {
		t.Fatal(err)
	}
	if h.State() != CanvasReady {
		t.Fatalf("State = %s, want CanvasReady", h.State())
	}
	if w, ht := h.Size(); w != 16 || ht != 8 {
		t.Errorf("Size = %dx%d, want 16x8", w, ht)
	}

	h.ClearCanvas()
	h.Canvas().DrawRect(gfx.XYWH(0, 0, 4, 4), gfx.RGB(0, 255, 0))
	h.Flush()

	img, err := h.ReadPixels()
	if err != nil {
		t.Fatal(err)
	}
	if got, want := img.RGBAAt(12, 4), (color.RGBA{255, 255, 255, 255}); got != want {
		t.Errorf("cleared pixel = %v, want %v", got, want)
	}
	if got, want := img.RGBAAt(2, 2), (color.RGBA{0, 255, 0, 255}); got != want {
		t.Errorf("drawn pixel = %v, want %v", got, want)
	}
	if eng.Flushes(h.Context().Ptr()) != 1 {
		t.Errorf("context flushed %d times, want 1", eng.Flushes(h.Context().Ptr()))
	}

	h.Dispose()
	if eng.LiveCount() != 0 {
		t.Errorf("live objects after Dispose: %s", eng)
	}
}

func TestUnsupportedBackend(t *testing.T) {
	for _, b := range []Backend{OpenGL(), Metal(), Direct3D()} {
		t.Run(b.Name(), func(t *testing.T) {
			h := NewHandler(soft.New(), b, &StaticWindow{Width: 4, Height: 4})
			if h.InitContext() {
				t.Fatal("InitContext succeeded on an engine without the API")
			}
			if h.State() != Uninitialized {
				t.Errorf("State = %s, want Uninitialized", h.State())
			}
		})
	}
}

func TestDisposeOrder(t *testing.T) {
	eng := &recordingEngine{Engine: soft.New()}
	h := NewHandler(eng, Software(), &StaticWindow{Width: 4, Height: 4})
	if !h.InitContext() {
		t.Fatal("InitContext failed")
	}
	if err := h.InitCanvas(); err != nil {
		t.Fatal(err)
	}
	canvas := h.Canvas()
	surf, rt, ctx := h.surface.Ptr(), h.target.Ptr(), h.context.Ptr()

	canvasReleasedFirst := false
	eng.onRelease = func(p native.Pointer) {
		if p == surf {
			canvasReleasedFirst = canvas.Released()
		}
	}
	h.Dispose()

	want := []native.Pointer{surf, rt, ctx}
	if len(eng.released) != len(want) {
		t.Fatalf("released %v, want %v", eng.released, want)
	}
	for i := range want {
		if eng.released[i] != want[i] {
			t.Errorf("release %d = %s, want %s", i, eng.released[i], want[i])
		}
	}
	if !canvasReleasedFirst {
		t.Error("canvas still live when the surface was released")
	}
	if h.State() != Disposed {
		t.Errorf("State = %s, want Disposed", h.State())
	}

	h.Dispose()
	if len(eng.released) != len(want) {
		t.Errorf("second Dispose released more objects: %v", eng.released)
	}

	expectPanic(t, native.ErrDisposed, func() { canvas.Clear(gfx.ColorBlack) })
	expectPanic(t, ErrDisposed, h.ClearCanvas)
	expectPanic(t, ErrDisposed, h.Flush)
	if err := h.InitCanvas(); !errors.Is(err, ErrDisposed) {
		t.Errorf("InitCanvas after Dispose = %v, want ErrDisposed", err)
	}
	if h.InitContext() {
		t.Error("InitContext succeeded after Dispose")
	}
}

func TestInitCanvasFollowsWindowSize(t *testing.T) {
	eng := soft.New()
	win := &StaticWindow{Width: 8, Height: 8}
	h := NewHandler(eng, Software(), win)
	h.InitContext()
	if err := h.InitCanvas(); err != nil {
		t.Fatal(err)
	}
	first := h.Canvas()
	if err := h.InitCanvas(); err != nil {
		t.Fatal(err)
	}
	if h.Canvas() != first {
		t.Error("canvas rebuilt without a size change")
	}

	win.Width, win.Height = 20, 10
	if err := h.InitCanvas(); err != nil {
		t.Fatal(err)
	}
	if !first.Released() {
		t.Error("old canvas not released on resize")
	}
	if w, ht := h.Size(); w != 20 || ht != 10 {
		t.Errorf("Size = %dx%d, want 20x10", w, ht)
	}

	win.Width = 0
	if err := h.InitCanvas(); !errors.Is(err, gfx.ErrInvalidSize) {
		t.Errorf("InitCanvas with empty window = %v, want ErrInvalidSize", err)
	}
	h.Dispose()
	if eng.LiveCount() != 0 {
		t.Errorf("live objects after Dispose: %s", eng)
	}
}

func TestBleachColor(t *testing.T) {
	tests := []struct {
		name    string
		backend Backend
		opts    []HandlerOption
		want    color.RGBA
	}{
		{"software default", Software(), nil, color.RGBA{255, 255, 255, 255}},
		{"override", Software(), []HandlerOption{WithBleachColor(gfx.ColorTransparent)}, color.RGBA{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(soft.New(), tt.backend, &StaticWindow{Width: 2, Height: 2}, tt.opts...)
			defer h.Dispose()
			h.InitContext()
			if err := h.InitCanvas(); err != nil {
				t.Fatal(err)
			}
			h.Canvas().Clear(gfx.RGB(1, 2, 3))
			h.ClearCanvas()
			img, err := h.ReadPixels()
			if err != nil {
				t.Fatal(err)
			}
			if got := img.RGBAAt(1, 1); got != tt.want {
				t.Errorf("pixel = %v, want %v", got, tt.want)
			}
		})
	}
	if Metal().BleachColor() != gfx.ColorTransparent {
		t.Error("metal must clear to transparent")
	}
}

func TestGPUBackend(t *testing.T) {
	eng := soft.New()
	win := &gpuWindow{
		StaticWindow: StaticWindow{Width: 8, Height: 8},
		provider:     &mockProvider{format: gputypes.TextureFormatBGRA8Unorm},
	}
	before := native.ObjectCount()

	h := NewHandler(eng, GPU(), win)
	if !h.InitContext() {
		t.Fatal("InitContext failed with a device")
	}
	if native.ObjectCount() != before+1 {
		t.Errorf("window not published in the registry")
	}
	if ct := h.Backend().ColorType(win); ct != gfx.ColorTypeBGRA8888 {
		t.Errorf("ColorType = %d, want BGRA8888", ct)
	}
	if err := h.InitCanvas(); err != nil {
		t.Fatal(err)
	}
	h.ClearCanvas()
	h.Flush()

	h.Dispose()
	if native.ObjectCount() != before {
		t.Errorf("registry entry leaked")
	}
	if eng.LiveCount() != 0 {
		t.Errorf("live objects after Dispose: %s", eng)
	}
}

func TestGPUBackendWithoutDevice(t *testing.T) {
	tests := []struct {
		name string
		win  Window
	}{
		{"plain window", &StaticWindow{Width: 4, Height: 4}},
		{"no device yet", &gpuWindow{StaticWindow: StaticWindow{Width: 4, Height: 4}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if NewHandler(soft.New(), GPU(), tt.win).InitContext() {
				t.Error("InitContext succeeded without a device")
			}
		})
	}
}

func TestColorTypeFor(t *testing.T) {
	tests := []struct {
		format gputypes.TextureFormat
		want   gfx.ColorType
	}{
		{gputypes.TextureFormatBGRA8Unorm, gfx.ColorTypeBGRA8888},
		{gputypes.TextureFormatBGRA8UnormSrgb, gfx.ColorTypeBGRA8888},
		{gputypes.TextureFormatRGBA8Unorm, gfx.ColorTypeRGBA8888},
		{gputypes.TextureFormatUndefined, gfx.ColorTypeRGBA8888},
	}
	for _, tt := range tests {
		if got := ColorTypeFor(tt.format); got != tt.want {
			t.Errorf("ColorTypeFor(%v) = %d, want %d", tt.format, got, tt.want)
		}
	}
}
