package window

import "fmt"

// Key represents a keyboard key.
type Key int

const (
	KeyUnknown Key = iota

	// Letters
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ

	// Function keys
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12

	// Special keys
	KeySpace
	KeyEnter
	KeyEscape
	KeyBackspace
	KeyTab

	// Arrow keys
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
)

var keyNames = map[Key]string{
	KeySpace:     "Space",
	KeyEnter:     "Enter",
	KeyEscape:    "Escape",
	KeyBackspace: "Backspace",
	KeyTab:       "Tab",
	KeyUp:        "Up",
	KeyDown:      "Down",
	KeyLeft:      "Left",
	KeyRight:     "Right",
}

func (k Key) String() string {
	switch {
	case k >= KeyA && k <= KeyZ:
		return string(rune('A' + int(k-KeyA)))
	case k >= KeyF1 && k <= KeyF12:
		return fmt.Sprintf("F%d", int(k-KeyF1)+1)
	}
	if name, ok := keyNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Key(%d)", int(k))
}

// KeyMods represents currently active keyboard modifiers.
type KeyMods uint8

const (
	ModShift KeyMods = 1 << iota
	ModCtrl
	ModAlt
	ModSuper
)

// InputEventType describes the kind of input event.
type InputEventType uint8

const (
	InputEventKeyDown InputEventType = iota
	InputEventKeyUp
)

func (t InputEventType) String() string {
	switch t {
	case InputEventKeyDown:
		return "KeyDown"
	case InputEventKeyUp:
		return "KeyUp"
	default:
		return fmt.Sprintf("InputEventType(%d)", uint8(t))
	}
}

// InputEvent is a raw input event emitted by a platform window backend.
//
// Events are queued during Poll() and returned by DrainInputEvents(), which
// clears the queue.
type InputEvent struct {
	Type   InputEventType
	Key    Key
	Mods   KeyMods
	Repeat bool
}

// Pressed reports whether the event is the initial press of key.
func (e InputEvent) Pressed(key Key) bool {
	return e.Type == InputEventKeyDown && !e.Repeat && e.Key == key
}
