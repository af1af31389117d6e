// Package event turns platform input into one event model.
//
// Platforms feed raw pointer, wheel and key input into a Normalizer, one
// per input surface. The Normalizer tracks which pointers are pressed, so
// it can report a move with a button held as a drag and tell the consumer
// whether a scroll happened mid-drag.
package event

import "fmt"

// Kind tags a normalized event.
type Kind int

// Event kinds.
const (
	PointerDown Kind = iota + 1
	PointerUp
	PointerMove
	PointerDrag
	Scroll
	KeyDown
	KeyUp
)

var kindNames = [...]string{
	PointerDown: "PointerDown",
	PointerUp:   "PointerUp",
	PointerMove: "PointerMove",
	PointerDrag: "PointerDrag",
	Scroll:      "Scroll",
	KeyDown:     "KeyDown",
	KeyUp:       "KeyUp",
}

func (k Kind) String() string {
	if k > 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsPointer reports whether k is one of the pointer kinds, Scroll included.
func (k Kind) IsPointer() bool {
	return k >= PointerDown && k <= Scroll
}

// Event is a PointerEvent or a KeyEvent.
type Event interface {
	Kind() Kind
	Time() int64
}

// Button identifies a pointer button. Values follow the usual mouse
// numbering, so the secondary (context-menu) button is 3.
type Button int

// Buttons.
const (
	ButtonNone      Button = 0
	ButtonPrimary   Button = 1
	ButtonMiddle    Button = 2
	ButtonSecondary Button = 3
	ButtonBack      Button = 4
	ButtonForward   Button = 5
)

// Buttons is a set of held buttons.
type Buttons uint8

// Of returns the set containing only b.
func Of(b Button) Buttons {
	if b <= ButtonNone || b > ButtonForward {
		return 0
	}
	return 1 << (b - 1)
}

// Has reports whether b is in the set.
func (s Buttons) Has(b Button) bool {
	return b != ButtonNone && s&Of(b) != 0
}

// Modifiers is a set of held modifier keys.
type Modifiers uint8

// Modifier keys.
const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Device is the kind of input device.
type Device int

// Devices.
const (
	DeviceMouse Device = iota
	DeviceTouch
	DevicePen
	DeviceKeyboard
)

// PointerEvent is a normalized pointer or scroll event.
type PointerEvent struct {
	Type Kind

	// X and Y are the position in logical pixels of the input surface.
	X, Y float64

	// DeltaX and DeltaY are the movement since the previous event of the
	// same pointer, or for Scroll the wheel distance in pixels.
	DeltaX, DeltaY float64

	// Button changed state in a Down or Up event; ButtonNone otherwise.
	Button Button

	// Buttons are held after the event.
	Buttons Buttons

	Modifiers Modifiers
	Pointer   int
	Device    Device

	// Pressed reports whether the pointer has a button held after the
	// event.
	Pressed bool

	// Timestamp is in nanoseconds of the platform's clock.
	Timestamp int64
}

// Kind implements Event.
func (e PointerEvent) Kind() Kind { return e.Type }

// Time implements Event.
func (e PointerEvent) Time() int64 { return e.Timestamp }

// KeyEvent is a normalized keyboard event.
type KeyEvent struct {
	Type Kind

	// Key is the logical key ("a", "Enter", "ArrowLeft").
	Key string

	// Code is the physical key in W3C code form ("KeyA", "Space").
	Code string

	// Rune is the typed character, or 0 for keys that type none.
	Rune rune

	Modifiers Modifiers
	Device    Device
	Repeat    bool
	Timestamp int64
}

// Kind implements Event.
func (e KeyEvent) Kind() Kind { return e.Type }

// Time implements Event.
func (e KeyEvent) Time() int64 { return e.Timestamp }
