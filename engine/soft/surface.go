package soft

import (
	"image"
	"slices"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/integration/ggcanvas"
	"github.com/gogpu/ggbind/gfx"
	"github.com/gogpu/ggbind/native"
	"github.com/gogpu/gpucontext"
	"golang.org/x/image/draw"
)

// deviceTarget is what a WebGPU device id must resolve to in the native
// registry.
type deviceTarget interface {
	DeviceProvider() gpucontext.DeviceProvider
}

// presentTarget is optionally implemented by a device target that can
// show a frame. TextureDrawer returns nil outside a frame.
type presentTarget interface {
	TextureDrawer() gpucontext.TextureDrawer
}

type directContext struct {
	backend  gfx.Backend
	target   deviceTarget // WebGPU only
	surfaces []native.Pointer
	flushes  int
}

type renderTarget struct {
	backend       gfx.Backend
	width, height int
	colorType     gfx.ColorType
}

type surface struct {
	dc     *gg.Context
	gpu    *ggcanvas.Canvas // WebGPU surfaces only
	ctx    native.Pointer   // Null for raster surfaces
	canvas native.Pointer
	self   native.Pointer
	width  int
	height int
}

func (s *surface) dispose(e *Engine) {
	e.dropLocked(s.canvas)
	if s.gpu != nil {
		_ = s.gpu.Close()
	} else {
		_ = s.dc.Close()
	}
	if s.ctx != native.Null {
		if c, ok := lookup[*directContext](e, s.ctx); ok {
			c.surfaces = slices.DeleteFunc(c.surfaces, func(p native.Pointer) bool {
				return p == s.self
			})
		}
		e.unrefLocked(s.ctx)
	}
}

// DirectContextMake implements gfx.Engine. Software contexts always
// succeed; WebGPU contexts need device to be a registry id of a value
// providing a gpucontext.DeviceProvider. Other backends are unsupported.
func (e *Engine) DirectContextMake(backend int32, device uintptr) native.Pointer {
	e.mu.Lock()
	defer e.mu.Unlock()
	c := &directContext{backend: gfx.Backend(backend)}
	switch c.backend {
	case gfx.BackendSoftware:
	case gfx.BackendWebGPU:
		t, ok := native.LookupObject(device).(deviceTarget)
		if !ok || t.DeviceProvider() == nil {
			e.logger().Debug("soft: device id has no device provider", "device", device)
			return native.Null
		}
		c.target = t
	default:
		e.logger().Debug("soft: backend not supported", "backend", c.backend.String())
		return native.Null
	}
	return e.newObject("DirectContext", true, c)
}

// DirectContextFlush implements gfx.Engine. For WebGPU contexts it uploads
// every surface and presents it when the target is inside a frame.
func (e *Engine) DirectContextFlush(cp native.Pointer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	c := mustLookup[*directContext](e, "direct_context_flush", cp)
	c.flushes++
	var drawer gpucontext.TextureDrawer
	if pt, ok := c.target.(presentTarget); ok {
		drawer = pt.TextureDrawer()
	}
	for _, sp := range c.surfaces {
		s, ok := lookup[*surface](e, sp)
		if !ok {
			continue
		}
		if s.gpu == nil {
			_ = s.dc.FlushGPU()
			continue
		}
		s.gpu.MarkDirty()
		if drawer == nil {
			if _, err := s.gpu.Flush(); err != nil {
				e.logger().Warn("soft: surface upload failed", "err", err)
			}
			continue
		}
		if err := s.gpu.RenderTo(drawer); err != nil {
			e.logger().Warn("soft: surface present failed", "err", err)
		}
	}
}

// Flushes returns how many times the context at p has been flushed.
func (e *Engine) Flushes(p native.Pointer) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if c, ok := lookup[*directContext](e, p); ok {
		return c.flushes
	}
	return 0
}

// BackendRenderTargetMake implements gfx.Engine.
func (e *Engine) BackendRenderTargetMake(backend, width, height, colorType int32) native.Pointer {
	e.mu.Lock()
	defer e.mu.Unlock()
	if width <= 0 || height <= 0 {
		return native.Null
	}
	return e.newObject("BackendRenderTarget", false, &renderTarget{
		backend:   gfx.Backend(backend),
		width:     int(width),
		height:    int(height),
		colorType: gfx.ColorType(colorType),
	})
}

func (e *Engine) newSurfaceLocked(s *surface) native.Pointer {
	s.canvas = e.newCanvasLocked(&canvas{dc: s.dc})
	s.self = e.newObject("Surface", true, s)
	return s.self
}

// SurfaceMakeRaster implements gfx.Engine.
func (e *Engine) SurfaceMakeRaster(width, height int32) native.Pointer {
	e.mu.Lock()
	defer e.mu.Unlock()
	if width <= 0 || height <= 0 {
		return native.Null
	}
	return e.newSurfaceLocked(&surface{
		dc:     gg.NewContext(int(width), int(height)),
		width:  int(width),
		height: int(height),
	})
}

// SurfaceMakeFromRenderTarget implements gfx.Engine. The surface takes a
// reference on the context; the render target is only read.
func (e *Engine) SurfaceMakeFromRenderTarget(cp, rp native.Pointer, colorType int32) native.Pointer {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, ok := lookup[*directContext](e, cp)
	if !ok {
		return native.Null
	}
	rt, ok := lookup[*renderTarget](e, rp)
	if !ok || rt.backend != c.backend {
		return native.Null
	}
	switch gfx.ColorType(colorType) {
	case gfx.ColorTypeRGBA8888, gfx.ColorTypeBGRA8888:
	default:
		return native.Null
	}
	s := &surface{ctx: cp, width: rt.width, height: rt.height}
	if c.target != nil {
		gc, err := ggcanvas.New(c.target.DeviceProvider(), rt.width, rt.height)
		if err != nil {
			e.logger().Warn("soft: gpu canvas creation failed", "err", err)
			return native.Null
		}
		s.gpu = gc
		s.dc = gc.Context()
	} else {
		s.dc = gg.NewContext(rt.width, rt.height)
	}
	e.refLocked("surface_make_from_render_target", cp)
	sp := e.newSurfaceLocked(s)
	c.surfaces = append(c.surfaces, sp)
	return sp
}

// SurfaceGetCanvas implements gfx.Engine.
func (e *Engine) SurfaceGetCanvas(sp native.Pointer) native.Pointer {
	e.mu.Lock()
	defer e.mu.Unlock()
	return mustLookup[*surface](e, "surface_get_canvas", sp).canvas
}

// SurfaceGetSize implements gfx.Engine.
func (e *Engine) SurfaceGetSize(sp native.Pointer) int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := mustLookup[*surface](e, "surface_get_size", sp)
	return native.PackTwoInts(int32(s.width), int32(s.height))
}

// SurfaceReadPixels implements gfx.Engine. It writes width*height*4 bytes
// of premultiplied RGBA to dst and fails if size is too small.
func (e *Engine) SurfaceReadPixels(sp, dst native.Pointer, size int32) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := mustLookup[*surface](e, "surface_read_pixels", sp)
	need := s.width * s.height * 4
	if int(size) < need {
		return false
	}
	img := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	src := s.dc.Image()
	draw.Copy(img, image.Point{}, src, src.Bounds(), draw.Src, nil)
	copy(e.spanLocked("surface_read_pixels", dst, need), img.Pix)
	return true
}
