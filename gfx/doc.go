// Package gfx wraps engine objects in Go types.
//
// Every engine object is reached through an address owned by a wrapper
// from package native. Reference-counted objects (image filters, pictures,
// typefaces, surfaces, direct contexts) embed *native.RefCnt; objects with
// a single owner (fonts, picture recorders, render targets) embed
// *native.Handle; canvases are borrowed from the surface or recorder that
// produced them and are never freed on their own.
//
// All wrappers must be closed. A garbage-collector cleanup releases
// forgotten wrappers eventually, but the timing is undefined.
//
// Calls pass their arguments through an interop scope and keep every
// wrapper argument reachable until the engine returns:
//
//	surf, err := gfx.MakeRasterSurface(eng, 320, 240)
//	if err != nil {
//		return err
//	}
//	defer surf.Close()
//	c := surf.Canvas()
//	c.Clear(gfx.ColorWhite)
//	c.DrawRect(gfx.XYWH(10, 10, 100, 50), gfx.RGB(0x20, 0x60, 0xc0))
package gfx
