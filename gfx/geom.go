package gfx

// Color is a 32-bit ARGB color, alpha in the top byte.
type Color uint32

// Common colors.
const (
	ColorTransparent Color = 0
	ColorBlack       Color = 0xff000000
	ColorWhite       Color = 0xffffffff
)

// ARGB packs the four channels.
func ARGB(a, r, g, b uint8) Color {
	return Color(a)<<24 | Color(r)<<16 | Color(g)<<8 | Color(b)
}

// RGB is an opaque ARGB.
func RGB(r, g, b uint8) Color {
	return ARGB(0xff, r, g, b)
}

// A returns the alpha channel.
func (c Color) A() uint8 { return uint8(c >> 24) }

// R returns the red channel.
func (c Color) R() uint8 { return uint8(c >> 16) }

// G returns the green channel.
func (c Color) G() uint8 { return uint8(c >> 8) }

// B returns the blue channel.
func (c Color) B() uint8 { return uint8(c) }

// Rect is an axis-aligned rectangle given by its edges.
type Rect struct {
	Left, Top, Right, Bottom float32
}

// XYWH makes a rectangle from origin and size.
func XYWH(x, y, w, h float32) Rect {
	return Rect{Left: x, Top: y, Right: x + w, Bottom: y + h}
}

// Width returns Right - Left.
func (r Rect) Width() float32 { return r.Right - r.Left }

// Height returns Bottom - Top.
func (r Rect) Height() float32 { return r.Bottom - r.Top }

// IsEmpty reports whether the rectangle has no area.
func (r Rect) IsEmpty() bool { return !(r.Left < r.Right && r.Top < r.Bottom) }

func (r Rect) floats() []float32 {
	return []float32{r.Left, r.Top, r.Right, r.Bottom}
}

// optFloats marshals an optional rectangle; nil becomes a nil slice and
// so a Null address.
func optFloats(r *Rect) []float32 {
	if r == nil {
		return nil
	}
	return r.floats()
}

func rectFrom(v []float32) Rect {
	return Rect{Left: v[0], Top: v[1], Right: v[2], Bottom: v[3]}
}
