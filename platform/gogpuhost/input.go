package gogpuhost

import (
	"strconv"
	"time"

	"github.com/gogpu/ggbind/event"
	"github.com/gogpu/ggbind/layer"
	"github.com/gogpu/gpucontext"
)

var mouseButtons = map[gpucontext.MouseButton]event.Button{
	gpucontext.MouseButtonLeft:   event.ButtonPrimary,
	gpucontext.MouseButtonMiddle: event.ButtonMiddle,
	gpucontext.MouseButtonRight:  event.ButtonSecondary,
	gpucontext.MouseButton4:      event.ButtonBack,
	gpucontext.MouseButton5:      event.ButtonForward,
}

var keyCodes = map[gpucontext.Key]string{
	gpucontext.KeyEscape:       "Escape",
	gpucontext.KeyTab:          "Tab",
	gpucontext.KeyBackspace:    "Backspace",
	gpucontext.KeyEnter:        "Enter",
	gpucontext.KeySpace:        "Space",
	gpucontext.KeyInsert:       "Insert",
	gpucontext.KeyDelete:       "Delete",
	gpucontext.KeyHome:         "Home",
	gpucontext.KeyEnd:          "End",
	gpucontext.KeyPageUp:       "PageUp",
	gpucontext.KeyPageDown:     "PageDown",
	gpucontext.KeyLeft:         "ArrowLeft",
	gpucontext.KeyRight:        "ArrowRight",
	gpucontext.KeyUp:           "ArrowUp",
	gpucontext.KeyDown:         "ArrowDown",
	gpucontext.KeyLeftShift:    "ShiftLeft",
	gpucontext.KeyRightShift:   "ShiftRight",
	gpucontext.KeyLeftControl:  "ControlLeft",
	gpucontext.KeyRightControl: "ControlRight",
	gpucontext.KeyLeftAlt:      "AltLeft",
	gpucontext.KeyRightAlt:     "AltRight",
	gpucontext.KeyLeftSuper:    "MetaLeft",
	gpucontext.KeyRightSuper:   "MetaRight",
	gpucontext.KeyMinus:        "Minus",
	gpucontext.KeyEqual:        "Equal",
	gpucontext.KeyComma:        "Comma",
	gpucontext.KeyPeriod:       "Period",
	gpucontext.KeySlash:        "Slash",
}

func button(b gpucontext.MouseButton) event.Button {
	if eb, ok := mouseButtons[b]; ok {
		return eb
	}
	return event.ButtonNone
}

func modifiers(m gpucontext.Modifiers) event.Modifiers {
	var mods event.Modifiers
	if m.HasShift() {
		mods |= event.ModShift
	}
	if m.HasControl() {
		mods |= event.ModCtrl
	}
	if m.HasAlt() {
		mods |= event.ModAlt
	}
	if m.HasSuper() {
		mods |= event.ModMeta
	}
	return mods
}

// keyCode converts a gpucontext key to its W3C code form.
func keyCode(key gpucontext.Key) string {
	switch {
	case key >= gpucontext.KeyA && key <= gpucontext.KeyZ:
		return "Key" + string(rune('A'+key-gpucontext.KeyA))
	case key >= gpucontext.Key0 && key <= gpucontext.Key9:
		return "Digit" + strconv.Itoa(int(key-gpucontext.Key0))
	case key >= gpucontext.KeyF1 && key <= gpucontext.KeyF12:
		return "F" + strconv.Itoa(int(key-gpucontext.KeyF1)+1)
	}
	if code, ok := keyCodes[key]; ok {
		return code
	}
	return "Unidentified"
}

func rawKey(key gpucontext.Key, m gpucontext.Modifiers, now int64) event.RawKey {
	code := keyCode(key)
	mods := modifiers(m)
	raw := event.RawKey{Key: code, Code: code, Modifiers: mods, Timestamp: now}
	switch {
	case key >= gpucontext.KeyA && key <= gpucontext.KeyZ:
		r := 'a' + rune(key-gpucontext.KeyA)
		if mods&event.ModShift != 0 {
			r = 'A' + rune(key-gpucontext.KeyA)
		}
		raw.Key, raw.Rune = string(r), r
	case key >= gpucontext.Key0 && key <= gpucontext.Key9:
		r := '0' + rune(key-gpucontext.Key0)
		raw.Key, raw.Rune = string(r), r
	case key == gpucontext.KeySpace:
		raw.Key, raw.Rune = " ", ' '
	}
	return raw
}

// input tracks what gpucontext callbacks leave out: mouse events carry no
// modifiers and scroll events no position.
type input struct {
	x, y float64
	mods event.Modifiers
}

// attached returns the layer input is delivered to, or nil.
func (h *Host) attached() *layer.Layer {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.layer
}

func (h *Host) pointer(kind event.Kind, b event.Button, x, y float64) {
	l := h.attached()
	if l == nil {
		return
	}
	h.in.x, h.in.y = x, y
	l.DeliverPointer(kind, event.RawPointer{
		Device:    event.DeviceMouse,
		X:         x,
		Y:         y,
		Button:    b,
		Modifiers: h.in.mods,
		Timestamp: time.Now().UnixNano(),
	})
}

func (h *Host) mouseMove(x, y float64) {
	h.pointer(event.PointerMove, event.ButtonNone, x, y)
}

func (h *Host) mousePress(b gpucontext.MouseButton, x, y float64) {
	h.pointer(event.PointerDown, button(b), x, y)
}

func (h *Host) mouseRelease(b gpucontext.MouseButton, x, y float64) {
	h.pointer(event.PointerUp, button(b), x, y)
}

// scroll delivers gpucontext deltas, which are in lines and already
// positive for right and down.
func (h *Host) scroll(dx, dy float64) {
	l := h.attached()
	if l == nil || (dx == 0 && dy == 0) {
		return
	}
	l.DeliverWheel(event.RawWheel{
		X:         h.in.x,
		Y:         h.in.y,
		DeltaX:    dx,
		DeltaY:    dy,
		Mode:      event.DeltaLine,
		Modifiers: h.in.mods,
		Timestamp: time.Now().UnixNano(),
	})
}

func (h *Host) key(kind event.Kind, key gpucontext.Key, m gpucontext.Modifiers) {
	l := h.attached()
	if l == nil {
		return
	}
	h.in.mods = modifiers(m)
	l.DeliverKey(kind, rawKey(key, m, time.Now().UnixNano()))
}

func (h *Host) keyPress(key gpucontext.Key, m gpucontext.Modifiers) {
	h.key(event.KeyDown, key, m)
}

func (h *Host) keyRelease(key gpucontext.Key, m gpucontext.Modifiers) {
	h.key(event.KeyUp, key, m)
}
