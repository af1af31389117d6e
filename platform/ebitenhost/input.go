package ebitenhost

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gogpu/ggbind/event"
	"github.com/gogpu/ggbind/layer"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Pointer 0 is the mouse; touches take pointers 1 to maxPointers-1.
const maxPointers = 10

var mouseButtons = [...]struct {
	eb ebiten.MouseButton
	b  event.Button
}{
	{ebiten.MouseButtonLeft, event.ButtonPrimary},
	{ebiten.MouseButtonMiddle, event.ButtonMiddle},
	{ebiten.MouseButtonRight, event.ButtonSecondary},
	{ebiten.MouseButton3, event.ButtonBack},
	{ebiten.MouseButton4, event.ButtonForward},
}

type touch struct {
	id   ebiten.TouchID
	used bool
	x, y float64
}

// input turns the input state Ebitengine reports each tick into raw
// layer input.
type input struct {
	mouseX, mouseY float64
	mouseSeen      bool
	touches        [maxPointers]touch
	touchIDs       []ebiten.TouchID
	keys           []ebiten.Key
	chars          []rune
}

func (in *input) reset() {
	*in = input{}
}

func (in *input) poll(l *layer.Layer, scale float64) {
	now := time.Now().UnixNano()
	mods := readModifiers()
	in.pollMouse(l, scale, mods, now)
	in.pollTouches(l, scale, mods, now)
	in.pollWheel(l, scale, mods, now)
	in.pollKeys(l, mods, now)
}

func readModifiers() event.Modifiers {
	var mods event.Modifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		mods |= event.ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		mods |= event.ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		mods |= event.ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		mods |= event.ModMeta
	}
	return mods
}

func (in *input) pollMouse(l *layer.Layer, scale float64, mods event.Modifiers, now int64) {
	cx, cy := ebiten.CursorPosition()
	x, y := float64(cx)/scale, float64(cy)/scale
	raw := event.RawPointer{Device: event.DeviceMouse, X: x, Y: y, Modifiers: mods, Timestamp: now}

	if !in.mouseSeen || x != in.mouseX || y != in.mouseY {
		l.DeliverPointer(event.PointerMove, raw)
		in.mouseX, in.mouseY, in.mouseSeen = x, y, true
	}
	for _, mb := range mouseButtons {
		raw.Button = mb.b
		switch {
		case inpututil.IsMouseButtonJustPressed(mb.eb):
			l.DeliverPointer(event.PointerDown, raw)
		case inpututil.IsMouseButtonJustReleased(mb.eb):
			l.DeliverPointer(event.PointerUp, raw)
		}
	}
}

// slot returns the pointer of touch id, allocating one if needed, or -1
// when all are in use.
func (in *input) slot(id ebiten.TouchID) int {
	for i := 1; i < maxPointers; i++ {
		if in.touches[i].used && in.touches[i].id == id {
			return i
		}
	}
	for i := 1; i < maxPointers; i++ {
		if !in.touches[i].used {
			in.touches[i] = touch{id: id, used: true}
			return i
		}
	}
	return -1
}

func (in *input) pollTouches(l *layer.Layer, scale float64, mods event.Modifiers, now int64) {
	in.touchIDs = ebiten.AppendTouchIDs(in.touchIDs[:0])
	var active [maxPointers]bool
	for _, id := range in.touchIDs {
		i := in.slot(id)
		if i < 0 {
			continue
		}
		active[i] = true
		tx, ty := ebiten.TouchPosition(id)
		raw := event.RawPointer{
			Pointer:   i,
			Device:    event.DeviceTouch,
			X:         float64(tx) / scale,
			Y:         float64(ty) / scale,
			Button:    event.ButtonPrimary,
			Modifiers: mods,
			Timestamp: now,
		}
		t := &in.touches[i]
		switch {
		case inpututil.IsTouchJustPressed(id):
			l.DeliverPointer(event.PointerDown, raw)
		case raw.X != t.x || raw.Y != t.y:
			l.DeliverPointer(event.PointerMove, raw)
		}
		t.x, t.y = raw.X, raw.Y
	}
	for i := 1; i < maxPointers; i++ {
		t := &in.touches[i]
		if t.used && !active[i] {
			l.DeliverPointer(event.PointerUp, event.RawPointer{
				Pointer:   i,
				Device:    event.DeviceTouch,
				X:         t.x,
				Y:         t.y,
				Button:    event.ButtonPrimary,
				Modifiers: mods,
				Timestamp: now,
			})
			*t = touch{}
		}
	}
}

func (in *input) pollWheel(l *layer.Layer, scale float64, mods event.Modifiers, now int64) {
	dx, dy := ebiten.Wheel()
	if dx == 0 && dy == 0 {
		return
	}
	// Ebitengine reports scrolling up as positive; events use the DOM sign.
	l.DeliverWheel(event.RawWheel{
		X:         in.mouseX,
		Y:         in.mouseY,
		DeltaX:    -dx,
		DeltaY:    -dy,
		Mode:      event.DeltaLine,
		Modifiers: mods,
		Timestamp: now,
	})
}

func (in *input) pollKeys(l *layer.Layer, mods event.Modifiers, now int64) {
	in.chars = ebiten.AppendInputChars(in.chars[:0])
	in.keys = inpututil.AppendJustPressedKeys(in.keys[:0])
	for i, k := range in.keys {
		raw := rawKey(k, mods, now)
		if i == 0 && len(in.keys) == 1 && len(in.chars) == 1 {
			raw.Rune = in.chars[0]
			raw.Key = string(in.chars[0])
		}
		l.DeliverKey(event.KeyDown, raw)
	}
	in.keys = inpututil.AppendJustReleasedKeys(in.keys[:0])
	for _, k := range in.keys {
		l.DeliverKey(event.KeyUp, rawKey(k, mods, now))
	}
}

func rawKey(k ebiten.Key, mods event.Modifiers, now int64) event.RawKey {
	code := keyCode(k)
	return event.RawKey{Key: keyName(code), Code: code, Modifiers: mods, Timestamp: now}
}

// keyCode converts an Ebitengine key name to its W3C code form.
func keyCode(k ebiten.Key) string {
	name := k.String()
	switch {
	case utf8.RuneCountInString(name) == 1 && name[0] >= 'A' && name[0] <= 'Z':
		return "Key" + name
	case utf8.RuneCountInString(name) == 1 && name[0] >= '0' && name[0] <= '9':
		return "Digit" + name
	}
	return name
}

// keyName is the logical key for keys without a typed character.
func keyName(code string) string {
	switch {
	case strings.HasPrefix(code, "Key") && len(code) == 4:
		return strings.ToLower(code[3:])
	case strings.HasPrefix(code, "Digit") && len(code) == 6:
		return code[5:]
	case code == "Space":
		return " "
	}
	return code
}
