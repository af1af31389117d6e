// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"github.com/gogpu/gpucontext"
)

// Window is the platform window a handler draws into.
type Window interface {
	// Size returns the drawable size in physical pixels.
	Size() (width, height int)

	// ContentScale returns the ratio of physical to logical pixels.
	ContentScale() float32
}

// GPUWindow is a Window backed by a WebGPU device.
type GPUWindow interface {
	Window

	// DeviceProvider returns the window's device, or nil before the
	// device exists.
	DeviceProvider() gpucontext.DeviceProvider

	// TextureDrawer returns the drawer of the frame in progress, or nil
	// outside a frame.
	TextureDrawer() gpucontext.TextureDrawer
}

// StaticWindow is a fixed-size Window.
type StaticWindow struct {
	Width, Height int
	Scale         float32
}

// Size implements Window.
func (w *StaticWindow) Size() (int, int) {
	return w.Width, w.Height
}

// ContentScale implements Window. A zero Scale reports 1.
func (w *StaticWindow) ContentScale() float32 {
	if w.Scale == 0 {
		return 1
	}
	return w.Scale
}
