// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"errors"
	"fmt"

	"github.com/gogpu/ggbind/gfx"
	"github.com/gogpu/ggbind/native"
	"github.com/gogpu/gputypes"
)

// ErrNoDevice is returned by the GPU backend for a window without a
// WebGPU device.
var ErrNoDevice = errors.New("surface: window has no GPU device")

// Backend acquires engine contexts of one drawing API for a window.
// A Backend value serves a single Handler.
type Backend interface {
	// Name is the registry name of the backend.
	Name() string

	// Kind is the engine backend a context of this Backend uses.
	Kind() gfx.Backend

	// MakeContext acquires a direct context for w.
	MakeContext(eng gfx.Engine, w Window) (*gfx.DirectContext, error)

	// ColorType returns the pixel layout of w's render target.
	ColorType(w Window) gfx.ColorType

	// BleachColor is the color ClearCanvas fills with.
	BleachColor() gfx.Color

	// Release frees what MakeContext set up besides the context. It runs
	// after the context is released and may run more than once.
	Release()
}

// contextBackend covers the engine-provided APIs: the window needs no
// device of its own.
type contextBackend struct {
	name   string
	kind   gfx.Backend
	bleach gfx.Color
	ct     gfx.ColorType
}

func (b *contextBackend) Name() string           { return b.name }
func (b *contextBackend) Kind() gfx.Backend      { return b.kind }
func (b *contextBackend) BleachColor() gfx.Color { return b.bleach }
func (b *contextBackend) Release()               {}

func (b *contextBackend) ColorType(Window) gfx.ColorType { return b.ct }

func (b *contextBackend) MakeContext(eng gfx.Engine, _ Window) (*gfx.DirectContext, error) {
	return gfx.MakeDirectContext(eng, b.kind, 0)
}

// Software returns the CPU backend. It is always available.
func Software() Backend {
	return &contextBackend{name: "software", kind: gfx.BackendSoftware, bleach: gfx.ColorWhite, ct: gfx.ColorTypeRGBA8888}
}

// OpenGL returns the OpenGL backend.
func OpenGL() Backend {
	return &contextBackend{name: "opengl", kind: gfx.BackendOpenGL, bleach: gfx.ColorWhite, ct: gfx.ColorTypeRGBA8888}
}

// Metal returns the Metal backend. It clears to transparent.
func Metal() Backend {
	return &contextBackend{name: "metal", kind: gfx.BackendMetal, bleach: gfx.ColorTransparent, ct: gfx.ColorTypeBGRA8888}
}

// Direct3D returns the Direct3D backend.
func Direct3D() Backend {
	return &contextBackend{name: "direct3d", kind: gfx.BackendDirect3D, bleach: gfx.ColorWhite, ct: gfx.ColorTypeBGRA8888}
}

// gpuBackend binds the engine to the window's WebGPU device. The window
// is published in the native registry so the engine can reach its device
// by id.
type gpuBackend struct {
	id uintptr
}

// GPU returns the WebGPU backend. The window must implement GPUWindow.
func GPU() Backend {
	return &gpuBackend{}
}

func (b *gpuBackend) Name() string           { return "gpu" }
func (b *gpuBackend) Kind() gfx.Backend      { return gfx.BackendWebGPU }
func (b *gpuBackend) BleachColor() gfx.Color { return gfx.ColorTransparent }

func (b *gpuBackend) MakeContext(eng gfx.Engine, w Window) (*gfx.DirectContext, error) {
	gw, ok := w.(GPUWindow)
	if !ok || gw.DeviceProvider() == nil {
		return nil, ErrNoDevice
	}
	b.Release()
	b.id = native.RegisterObject(gw)
	ctx, err := gfx.MakeDirectContext(eng, gfx.BackendWebGPU, b.id)
	if err != nil {
		b.Release()
		return nil, fmt.Errorf("surface: gpu context: %w", err)
	}
	return ctx, nil
}

func (b *gpuBackend) ColorType(w Window) gfx.ColorType {
	if gw, ok := w.(GPUWindow); ok {
		if p := gw.DeviceProvider(); p != nil {
			return ColorTypeFor(p.SurfaceFormat())
		}
	}
	return gfx.ColorTypeRGBA8888
}

func (b *gpuBackend) Release() {
	if b.id != 0 {
		native.UnregisterObject(b.id)
		b.id = 0
	}
}

// ColorTypeFor maps a swapchain texture format to the engine color type
// that matches its byte order. Formats the engine cannot draw into
// directly map to RGBA8888.
func ColorTypeFor(f gputypes.TextureFormat) gfx.ColorType {
	switch f {
	case gputypes.TextureFormatBGRA8Unorm, gputypes.TextureFormatBGRA8UnormSrgb:
		return gfx.ColorTypeBGRA8888
	default:
		return gfx.ColorTypeRGBA8888
	}
}
