package core

type Button uint16

const (
	BUTTON_LEFT Button = iota
	BUTTON_RIGHT
	BUTTON_MIDDLE
	BUTTON_MAX_BUTTONS
)

// KeyCode values follow the ASCII layout for letters, digits and space.
type KeyCode uint16

const (
	KEY_BACKSPACE KeyCode = 0x08
	KEY_TAB       KeyCode = 0x09
	KEY_ENTER     KeyCode = 0x0D
	KEY_SHIFT     KeyCode = 0x10
	KEY_CONTROL   KeyCode = 0x11
	KEY_ESCAPE    KeyCode = 0x1B
	KEY_SPACE     KeyCode = 0x20
	KEY_LEFT      KeyCode = 0x25
	KEY_UP        KeyCode = 0x26
	KEY_RIGHT     KeyCode = 0x27
	KEY_DOWN      KeyCode = 0x28

	KEY_0 KeyCode = 0x30
	KEY_1 KeyCode = 0x31
	KEY_2 KeyCode = 0x32
	KEY_3 KeyCode = 0x33
	KEY_4 KeyCode = 0x34
	KEY_5 KeyCode = 0x35
	KEY_6 KeyCode = 0x36
	KEY_7 KeyCode = 0x37
	KEY_8 KeyCode = 0x38
	KEY_9 KeyCode = 0x39

	KEY_A KeyCode = 0x41
	KEY_B KeyCode = 0x42
	KEY_C KeyCode = 0x43
	KEY_D KeyCode = 0x44
	KEY_E KeyCode = 0x45
	KEY_F KeyCode = 0x46
	KEY_G KeyCode = 0x47
	KEY_H KeyCode = 0x48
	KEY_I KeyCode = 0x49
	KEY_J KeyCode = 0x4A
	KEY_K KeyCode = 0x4B
	KEY_L KeyCode = 0x4C
	KEY_M KeyCode = 0x4D
	KEY_N KeyCode = 0x4E
	KEY_O KeyCode = 0x4F
	KEY_P KeyCode = 0x50
	KEY_Q KeyCode = 0x51
	KEY_R KeyCode = 0x52
	KEY_S KeyCode = 0x53
	KEY_T KeyCode = 0x54
	KEY_U KeyCode = 0x55
	KEY_V KeyCode = 0x56
	KEY_W KeyCode = 0x57
	KEY_X KeyCode = 0x58
	KEY_Y KeyCode = 0x59
	KEY_Z KeyCode = 0x5A

	KEY_F1  KeyCode = 0x70
	KEY_F2  KeyCode = 0x71
	KEY_F3  KeyCode = 0x72
	KEY_F4  KeyCode = 0x73
	KEY_F5  KeyCode = 0x74
	KEY_F6  KeyCode = 0x75
	KEY_F7  KeyCode = 0x76
	KEY_F8  KeyCode = 0x77
	KEY_F9  KeyCode = 0x78
	KEY_F10 KeyCode = 0x79
	KEY_F11 KeyCode = 0x7A
	KEY_F12 KeyCode = 0x7B

	KEYS_MAX_KEYS KeyCode = 0x100
)

type MouseState struct {
	X       uint16
	Y       uint16
	Buttons [BUTTON_MAX_BUTTONS]bool
}

type KeyboardState struct {
	Keys [KEYS_MAX_KEYS]bool
}

// InputState holds this frame's and the previous frame's device state.
// It is only touched from the thread that pumps window messages.
type InputState struct {
	KeyboardCurrent  KeyboardState
	KeyboardPrevious KeyboardState
	MouseCurrent     MouseState
	MousePrevious    MouseState
}

var inputState *InputState

func InputInitialize() {
	inputState = &InputState{}
	LogInfo("Input subsystem initialized.")
}

func InputShutdown() {
	inputState = nil
}

// InputUpdate rolls the current state into the previous one. Call it at
// the end of a frame.
func InputUpdate() {
	if inputState == nil {
		return
	}
	inputState.KeyboardPrevious = inputState.KeyboardCurrent
	inputState.MousePrevious = inputState.MouseCurrent
}

func InputIsKeyDown(key KeyCode) bool {
	return inputState != nil && key < KEYS_MAX_KEYS && inputState.KeyboardCurrent.Keys[key]
}

func InputIsKeyUp(key KeyCode) bool {
	return !InputIsKeyDown(key)
}

func InputWasKeyDown(key KeyCode) bool {
	return inputState != nil && key < KEYS_MAX_KEYS && inputState.KeyboardPrevious.Keys[key]
}

func InputWasKeyUp(key KeyCode) bool {
	return !InputWasKeyDown(key)
}

// InputKeyReleased reports a key that went up during this frame.
func InputKeyReleased(key KeyCode) bool {
	return InputIsKeyUp(key) && InputWasKeyDown(key)
}

// InputProcessKey records a key transition and fires a key event when the
// state changed.
func InputProcessKey(key KeyCode, pressed bool) {
	if inputState == nil || key >= KEYS_MAX_KEYS {
		return
	}
	if inputState.KeyboardCurrent.Keys[key] == pressed {
		return
	}
	inputState.KeyboardCurrent.Keys[key] = pressed
	code := EVENT_CODE_KEY_RELEASED
	if pressed {
		code = EVENT_CODE_KEY_PRESSED
	}
	EventFire(EventContext{Type: code, Data: &KeyEvent{KeyCode: key}})
}

func InputIsButtonDown(button Button) bool {
	return inputState != nil && button < BUTTON_MAX_BUTTONS && inputState.MouseCurrent.Buttons[button]
}

func InputIsButtonUp(button Button) bool {
	return !InputIsButtonDown(button)
}

func InputWasButtonDown(button Button) bool {
	return inputState != nil && button < BUTTON_MAX_BUTTONS && inputState.MousePrevious.Buttons[button]
}

func InputWasButtonUp(button Button) bool {
	return !InputWasButtonDown(button)
}

func InputGetMousePosition() (int32, int32) {
	if inputState == nil {
		return 0, 0
	}
	return int32(inputState.MouseCurrent.X), int32(inputState.MouseCurrent.Y)
}

func InputGetPreviousMousePosition() (int32, int32) {
	if inputState == nil {
		return 0, 0
	}
	return int32(inputState.MousePrevious.X), int32(inputState.MousePrevious.Y)
}

func InputProcessButton(button Button, pressed bool) {
	if inputState == nil || button >= BUTTON_MAX_BUTTONS {
		return
	}
	if inputState.MouseCurrent.Buttons[button] == pressed {
		return
	}
	inputState.MouseCurrent.Buttons[button] = pressed
	code := EVENT_CODE_BUTTON_RELEASED
	if pressed {
		code = EVENT_CODE_BUTTON_PRESSED
	}
	EventFire(EventContext{Type: code, Data: &MouseEvent{Button: button}})
}

func InputProcessMouseMove(x, y uint16) {
	if inputState == nil {
		return
	}
	if inputState.MouseCurrent.X == x && inputState.MouseCurrent.Y == y {
		return
	}
	inputState.MouseCurrent.X = x
	inputState.MouseCurrent.Y = y
	EventFire(EventContext{Type: EVENT_CODE_MOUSE_MOVED, Data: &MouseEvent{PosX: x, PosY: y}})
}

func InputProcessMouseWheel(zDelta int8) {
	EventFire(EventContext{Type: EVENT_CODE_MOUSE_WHEEL, Data: &MouseEvent{Scroll: zDelta}})
}
