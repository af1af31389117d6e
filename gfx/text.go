package gfx

import (
	"runtime"

	"github.com/gogpu/ggbind/interop"
	"github.com/gogpu/ggbind/native"
	"github.com/gogpu/ggbind/stats"
)

// familyNameLimit bounds the family-name read from engine memory.
const familyNameLimit = 256

// Typeface is a loaded font file.
type Typeface struct {
	*native.RefCnt
	eng Engine
}

func wrapTypeface(eng Engine, p native.Pointer) (*Typeface, error) {
	r, err := native.NewRefCnt("Typeface", p, eng)
	if err != nil {
		return nil, err
	}
	return &Typeface{RefCnt: r, eng: eng}, nil
}

// DefaultTypeface returns the engine's default typeface.
func DefaultTypeface(eng Engine) (*Typeface, error) {
	stats.OnNativeCall("typeface_make_default")
	return wrapTypeface(eng, eng.TypefaceMakeDefault())
}

// MakeTypefaceFromData parses TrueType or OpenType data.
func MakeTypefaceFromData(eng Engine, data []byte) (*Typeface, error) {
	stats.OnNativeCall("typeface_make_from_data")
	p, _ := interop.Call(eng, func(s *interop.Scope) (native.Pointer, error) {
		return eng.TypefaceMakeFromData(s.Bytes(data), int32(len(data))), nil
	})
	return wrapTypeface(eng, p)
}

// FamilyName returns the typeface's family name.
func (t *Typeface) FamilyName() string {
	stats.OnNativeCall("typeface_get_family_name")
	defer runtime.KeepAlive(t)
	return interop.ReadCString(t.eng, t.eng.TypefaceGetFamilyName(t.Ptr()), familyNameLimit)
}

// Font is a typeface at a size.
type Font struct {
	*native.Handle
	eng Engine
}

// NewFont makes a font of tf at size points. The font keeps its own
// engine reference to tf.
func NewFont(tf *Typeface, size float32) (*Font, error) {
	if tf == nil {
		return nil, native.NilHandle("Typeface")
	}
	stats.OnNativeCall("font_make")
	defer runtime.KeepAlive(tf)
	h, err := native.NewHandle("Font", tf.eng.FontMake(tf.Ptr(), size), tf.eng.Delete)
	if err != nil {
		return nil, err
	}
	return &Font{Handle: h, eng: tf.eng}, nil
}

// Size returns the font size in points.
func (f *Font) Size() float32 {
	stats.OnNativeCall("font_get_size")
	n := f.eng.FontGetSize(f.Ptr())
	runtime.KeepAlive(f)
	return n
}

// MeasureText returns the advance width of text.
func (f *Font) MeasureText(text string) float32 {
	stats.OnNativeCall("font_measure_text")
	defer runtime.KeepAlive(f)
	w, _ := interop.Call(f.eng, func(s *interop.Scope) (float32, error) {
		return f.eng.FontMeasureText(f.Ptr(), s.String(text), int32(len(text))), nil
	})
	return w
}

// CountGlyphs returns the number of glyphs text maps to.
func (f *Font) CountGlyphs(text string) int {
	stats.OnNativeCall("font_count_glyphs")
	defer runtime.KeepAlive(f)
	n, _ := interop.Call(f.eng, func(s *interop.Scope) (int32, error) {
		p, units := s.UTF16(text)
		return f.eng.FontCountGlyphs(f.Ptr(), p, int32(units)), nil
	})
	return int(n)
}
