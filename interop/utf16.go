package interop

import (
	"github.com/gogpu/ggbind/native"
	"golang.org/x/text/encoding/unicode"
)

// The engine's text APIs index glyph clusters by UTF-16 code unit, so
// strings passed to them are marshaled as UTF-16LE.
var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// UTF16 copies str as UTF-16LE without terminator and returns the address
// and the number of code units.
func (s *Scope) UTF16(str string) (native.Pointer, int) {
	enc, err := utf16le.NewEncoder().Bytes([]byte(str))
	if err != nil {
		// The encoder replaces invalid UTF-8 instead of failing; an error
		// here means the encoder itself broke.
		panic(err)
	}
	return s.put(enc), len(enc) / 2
}

// ReadUTF16 reads n UTF-16LE code units at p and decodes them.
func ReadUTF16(mem native.Memory, p native.Pointer, n int) (string, error) {
	if n <= 0 {
		return "", nil
	}
	buf := make([]byte, 2*n)
	mem.Read(p, buf)
	dec, err := utf16le.NewDecoder().Bytes(buf)
	if err != nil {
		return "", err
	}
	return string(dec), nil
}
