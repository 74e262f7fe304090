package core

import "sync"

// EventCode identifies an event. Codes below EVENT_CODE_USER are reserved
// for the engine.
type EventCode uint16

const (
	// Shuts the application down on the next frame.
	EVENT_CODE_APPLICATION_QUIT EventCode = iota + 1
	// Data: *KeyEvent
	EVENT_CODE_KEY_PRESSED
	// Data: *KeyEvent
	EVENT_CODE_KEY_RELEASED
	// Data: *MouseEvent with Button set
	EVENT_CODE_BUTTON_PRESSED
	// Data: *MouseEvent with Button set
	EVENT_CODE_BUTTON_RELEASED
	// Data: *MouseEvent with PosX and PosY set
	EVENT_CODE_MOUSE_MOVED
	// Data: *MouseEvent with Scroll set
	EVENT_CODE_MOUSE_WHEEL
	// Data: *ResizeEvent
	EVENT_CODE_RESIZED
	// Fired by the shader system after a program was rebuilt. Data: string
	EVENT_CODE_SHADER_RELOADED

	EVENT_CODE_USER EventCode = 0x100
)

type EventContext struct {
	Type EventCode
	Data any
}

type KeyEvent struct {
	KeyCode KeyCode
}

type MouseEvent struct {
	Button Button
	PosX   uint16
	PosY   uint16
	Scroll int8
}

type ResizeEvent struct {
	Width  uint32
	Height uint32
}

// FnOnEvent returns true when the event was handled; later listeners do not
// see it.
type FnOnEvent func(ctx EventContext) bool

type registeredEvent struct {
	id       uint64
	callback FnOnEvent
}

type eventSystemState struct {
	mu         sync.RWMutex
	nextID     uint64
	registered map[EventCode][]registeredEvent
}

var eventState *eventSystemState

// EventInitialize sets up the event system. Calling it again resets every
// registration.
func EventInitialize() {
	eventState = &eventSystemState{
		registered: make(map[EventCode][]registeredEvent),
	}
}

func EventShutdown() {
	if eventState == nil {
		return
	}
	eventState.mu.Lock()
	clear(eventState.registered)
	eventState.mu.Unlock()
	eventState = nil
}

// EventRegister adds a listener for code and returns the handle that
// unregisters it. Listeners run in registration order.
func EventRegister(code EventCode, fn FnOnEvent) uint64 {
	if eventState == nil {
		LogWarn("event %d registered before the event system was initialized", code)
		return 0
	}
	eventState.mu.Lock()
	defer eventState.mu.Unlock()
	eventState.nextID++
	eventState.registered[code] = append(eventState.registered[code], registeredEvent{
		id:       eventState.nextID,
		callback: fn,
	})
	return eventState.nextID
}

// EventUnregister removes the listener with the given handle. It reports
// whether one was found.
func EventUnregister(code EventCode, handle uint64) bool {
	if eventState == nil {
		return false
	}
	eventState.mu.Lock()
	defer eventState.mu.Unlock()
	events := eventState.registered[code]
	for i, e := range events {
		if e.id == handle {
			eventState.registered[code] = append(events[:i:i], events[i+1:]...)
			return true
		}
	}
	return false
}

// EventFire calls the listeners of ctx.Type on the calling goroutine until
// one of them handles the event. It reports whether the event was handled.
func EventFire(ctx EventContext) bool {
	if eventState == nil {
		return false
	}
	eventState.mu.RLock()
	events := eventState.registered[ctx.Type]
	eventState.mu.RUnlock()
	for _, e := range events {
		if e.callback(ctx) {
			return true
		}
	}
	return false
}
