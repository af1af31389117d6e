package soft

import (
	"github.com/gogpu/gg/text"
	"github.com/gogpu/ggbind/native"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/text/encoding/unicode"
)

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

type typeface struct {
	src  *text.FontSource
	name native.Pointer // engine-owned C string
}

func (t *typeface) dispose(e *Engine) {
	_ = t.src.Close()
	e.freeBlockLocked(t.name)
}

type font struct {
	tf   native.Pointer
	face text.Face
	size float32
}

func (f *font) dispose(e *Engine) {
	e.unrefLocked(f.tf)
}

func (e *Engine) makeTypefaceLocked(data []byte) native.Pointer {
	src, err := text.NewFontSource(data)
	if err != nil {
		e.logger().Debug("soft: typeface data rejected", "err", err)
		return native.Null
	}
	return e.newObject("Typeface", true, &typeface{src: src, name: e.putCString(src.Name())})
}

// TypefaceMakeDefault implements gfx.Engine with the Go Regular font.
func (e *Engine) TypefaceMakeDefault() native.Pointer {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.makeTypefaceLocked(goregular.TTF)
}

// TypefaceMakeFromData implements gfx.Engine.
func (e *Engine) TypefaceMakeFromData(data native.Pointer, size int32) native.Pointer {
	e.mu.Lock()
	defer e.mu.Unlock()
	b := e.bytesAt(data, int(size))
	if b == nil {
		return native.Null
	}
	return e.makeTypefaceLocked(b)
}

// TypefaceGetFamilyName implements gfx.Engine. The string belongs to the
// typeface.
func (e *Engine) TypefaceGetFamilyName(tp native.Pointer) native.Pointer {
	e.mu.Lock()
	defer e.mu.Unlock()
	return mustLookup[*typeface](e, "typeface_get_family_name", tp).name
}

// FontMake implements gfx.Engine. The font references its typeface.
func (e *Engine) FontMake(tp native.Pointer, size float32) native.Pointer {
	e.mu.Lock()
	defer e.mu.Unlock()
	tf, ok := lookup[*typeface](e, tp)
	if !ok || size <= 0 {
		return native.Null
	}
	e.refLocked("font_make", tp)
	return e.newObject("Font", false, &font{tf: tp, face: tf.src.Face(float64(size)), size: size})
}

// FontGetSize implements gfx.Engine.
func (e *Engine) FontGetSize(fp native.Pointer) float32 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return mustLookup[*font](e, "font_get_size", fp).size
}

// FontMeasureText implements gfx.Engine.
func (e *Engine) FontMeasureText(fp, str native.Pointer, byteLen int32) float32 {
	e.mu.Lock()
	defer e.mu.Unlock()
	f := mustLookup[*font](e, "font_measure_text", fp)
	s := string(e.bytesAt(str, int(byteLen)))
	return float32(f.face.Advance(s))
}

// FontCountGlyphs implements gfx.Engine.
func (e *Engine) FontCountGlyphs(fp, str native.Pointer, units int32) int32 {
	e.mu.Lock()
	defer e.mu.Unlock()
	f := mustLookup[*font](e, "font_count_glyphs", fp)
	b, err := utf16le.NewDecoder().Bytes(e.bytesAt(str, 2*int(units)))
	if err != nil {
		return 0
	}
	var n int32
	s := string(b)
	for range f.face.Glyphs(s) {
		n++
	}
	return n
}
