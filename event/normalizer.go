package event

// LinePixels is the scroll distance of one wheel line.
const LinePixels = 16

// DeltaMode is the unit of a raw wheel delta.
type DeltaMode int

// Wheel delta units.
const (
	DeltaPixel DeltaMode = iota
	DeltaLine
	DeltaPage
)

// RawPointer is platform pointer input.
type RawPointer struct {
	Pointer   int
	Device    Device
	X, Y      float64
	Button    Button
	Modifiers Modifiers
	Timestamp int64
}

// RawWheel is platform wheel input.
type RawWheel struct {
	Pointer        int
	X, Y           float64
	DeltaX, DeltaY float64
	Mode           DeltaMode
	Modifiers      Modifiers
	Timestamp      int64
}

// RawKey is platform keyboard input.
type RawKey struct {
	Key       string
	Code      string
	Rune      rune
	Modifiers Modifiers
	Repeat    bool
	Timestamp int64
}

type pointerState struct {
	buttons Buttons
	x, y    float64
	seen    bool
}

// Normalizer converts raw input of one input surface into events. It is
// not safe for concurrent use; platforms call it from their event
// goroutine.
type Normalizer struct {
	pointers   map[int]*pointerState
	pageHeight float64
}

// NewNormalizer returns a Normalizer with nothing pressed.
func NewNormalizer() *Normalizer {
	return &Normalizer{pointers: make(map[int]*pointerState)}
}

// SetPageHeight sets the height, in pixels, of one page of page-mode
// wheel input. It is normally the surface height.
func (n *Normalizer) SetPageHeight(h float64) {
	n.pageHeight = h
}

func (n *Normalizer) state(id int) *pointerState {
	s, ok := n.pointers[id]
	if !ok {
		s = &pointerState{}
		n.pointers[id] = s
	}
	return s
}

// moveTo records the new position and returns the delta from the last
// known one. The first position of a pointer has no delta.
func (s *pointerState) moveTo(x, y float64) (dx, dy float64) {
	if s.seen {
		dx, dy = x-s.x, y-s.y
	}
	s.x, s.y, s.seen = x, y, true
	return dx, dy
}

func (n *Normalizer) pointerEvent(kind Kind, r RawPointer, s *pointerState, dx, dy float64) PointerEvent {
	return PointerEvent{
		Type:      kind,
		X:         r.X,
		Y:         r.Y,
		DeltaX:    dx,
		DeltaY:    dy,
		Buttons:   s.buttons,
		Modifiers: r.Modifiers,
		Pointer:   r.Pointer,
		Device:    r.Device,
		Pressed:   s.buttons != 0,
		Timestamp: r.Timestamp,
	}
}

// PointerDown records r.Button as held.
func (n *Normalizer) PointerDown(r RawPointer) PointerEvent {
	s := n.state(r.Pointer)
	dx, dy := s.moveTo(r.X, r.Y)
	s.buttons |= Of(r.Button)
	e := n.pointerEvent(PointerDown, r, s, dx, dy)
	e.Button = r.Button
	return e
}

// PointerUp records r.Button as released.
func (n *Normalizer) PointerUp(r RawPointer) PointerEvent {
	s := n.state(r.Pointer)
	dx, dy := s.moveTo(r.X, r.Y)
	s.buttons &^= Of(r.Button)
	e := n.pointerEvent(PointerUp, r, s, dx, dy)
	e.Button = r.Button
	return e
}

// PointerMove reports a move, or a drag if the pointer has a button held.
func (n *Normalizer) PointerMove(r RawPointer) PointerEvent {
	s := n.state(r.Pointer)
	dx, dy := s.moveTo(r.X, r.Y)
	kind := PointerMove
	if s.buttons != 0 {
		kind = PointerDrag
	}
	return n.pointerEvent(kind, r, s, dx, dy)
}

// Wheel reports a scroll with the delta in pixels and the pointer's
// pressed state.
func (n *Normalizer) Wheel(r RawWheel) PointerEvent {
	scale := 1.0
	switch r.Mode {
	case DeltaLine:
		scale = LinePixels
	case DeltaPage:
		scale = n.pageHeight
	}
	s := n.state(r.Pointer)
	s.moveTo(r.X, r.Y)
	return PointerEvent{
		Type:      Scroll,
		X:         r.X,
		Y:         r.Y,
		DeltaX:    r.DeltaX * scale,
		DeltaY:    r.DeltaY * scale,
		Buttons:   s.buttons,
		Modifiers: r.Modifiers,
		Pointer:   r.Pointer,
		Device:    DeviceMouse,
		Pressed:   s.buttons != 0,
		Timestamp: r.Timestamp,
	}
}

// ContextMenu handles the platform's context-menu request. It always
// reports true: the default menu is suppressed and button 3 reaches the
// consumer only through PointerDown and PointerUp.
func (n *Normalizer) ContextMenu() (suppress bool) {
	return true
}

// KeyDown reports a key press.
func (n *Normalizer) KeyDown(r RawKey) KeyEvent {
	return keyEvent(KeyDown, r)
}

// KeyUp reports a key release.
func (n *Normalizer) KeyUp(r RawKey) KeyEvent {
	return keyEvent(KeyUp, r)
}

func keyEvent(kind Kind, r RawKey) KeyEvent {
	return KeyEvent{
		Type:      kind,
		Key:       r.Key,
		Code:      r.Code,
		Rune:      r.Rune,
		Modifiers: r.Modifiers,
		Device:    DeviceKeyboard,
		Repeat:    r.Repeat,
		Timestamp: r.Timestamp,
	}
}

// Pressed reports whether pointer has a button held.
func (n *Normalizer) Pressed(pointer int) bool {
	s, ok := n.pointers[pointer]
	return ok && s.buttons != 0
}

// Reset forgets every pointer, as after the surface is detached.
func (n *Normalizer) Reset() {
	clear(n.pointers)
}
