package rawcapture

import "github.com/petems/whisper-hotkey/internal/hotkey"

// evdev key event values
const (
	keyUp     int32 = 0
	keyDown   int32 = 1
	keyRepeat int32 = 2
)

// chord is a hotkey resolved to device key codes. Each modifier group lists
// the interchangeable codes for one modifier (left and right variants).
type chord struct {
	modifiers [][]uint16
	key       uint16
}

// matcher tracks which keys are down and decides when the chord fires.
// It is owned by a single goroutine and never locked.
type matcher struct {
	chord chord
	down  map[uint16]struct{}
	fired bool
}

func newMatcher(c chord) *matcher {
	return &matcher{chord: c, down: make(map[uint16]struct{})}
}

// handle feeds one key event and returns the activation it produces, if any.
func (m *matcher) handle(code uint16, value int32) (hotkey.EventKind, bool) {
	switch value {
	case keyDown:
		m.down[code] = struct{}{}
		if !m.fired && m.satisfied() {
			m.fired = true
			return hotkey.Pressed, true
		}
	case keyUp:
		delete(m.down, code)
		if code == m.chord.key && m.fired {
			m.fired = false
			return hotkey.Released, true
		}
	}
	// keyRepeat never changes state; holding the chord must not re-fire
	return 0, false
}

func (m *matcher) satisfied() bool {
	if _, ok := m.down[m.chord.key]; !ok {
		return false
	}
	for _, group := range m.chord.modifiers {
		if !m.anyDown(group) {
			return false
		}
	}
	return true
}

func (m *matcher) anyDown(codes []uint16) bool {
	for _, c := range codes {
		if _, ok := m.down[c]; ok {
			return true
		}
	}
	return false
}
