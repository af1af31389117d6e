// Package web runs a layer in an HTML canvas under js/wasm.
//
// Frames come from requestAnimationFrame, requested only while the layer
// has a frame pending. Input arrives through DOM pointer, wheel, keyboard
// and contextmenu listeners on the canvas. Frames are rendered in
// software and copied to the canvas with putImageData.
package web

import (
	"unicode/utf8"

	"github.com/gogpu/ggbind/event"
)

// domButton converts a DOM MouseEvent.button to an event.Button. DOM
// numbers buttons from 0 in the same order.
func domButton(b int) event.Button {
	if b < 0 || b > 4 {
		return event.ButtonNone
	}
	return event.Button(b + 1)
}

func pointerDevice(pointerType string) event.Device {
	switch pointerType {
	case "touch":
		return event.DeviceTouch
	case "pen":
		return event.DevicePen
	default:
		return event.DeviceMouse
	}
}

func domModifiers(shift, ctrl, alt, meta bool) event.Modifiers {
	var m event.Modifiers
	if shift {
		m |= event.ModShift
	}
	if ctrl {
		m |= event.ModCtrl
	}
	if alt {
		m |= event.ModAlt
	}
	if meta {
		m |= event.ModMeta
	}
	return m
}

// keyRune returns the character a DOM KeyboardEvent.key types, or 0 for
// named keys such as "Enter".
func keyRune(key string) rune {
	r, n := utf8.DecodeRuneInString(key)
	if n == 0 || n != len(key) || r == utf8.RuneError {
		return 0
	}
	return r
}

// millisToNanos converts a DOMHighResTimeStamp.
func millisToNanos(ms float64) int64 {
	return int64(ms * 1e6)
}
