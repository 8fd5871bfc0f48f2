//go:build linux

package rawcapture

import evdev "github.com/holoplot/go-evdev"

// keyCodes maps the raw-capture native key names to evdev codes.
var keyCodes = map[string]uint16{
	"KEY_SPACE":     uint16(evdev.KEY_SPACE),
	"KEY_ENTER":     uint16(evdev.KEY_ENTER),
	"KEY_ESC":       uint16(evdev.KEY_ESC),
	"KEY_TAB":       uint16(evdev.KEY_TAB),
	"KEY_BACKSPACE": uint16(evdev.KEY_BACKSPACE),
	"KEY_DELETE":    uint16(evdev.KEY_DELETE),
	"KEY_UP":        uint16(evdev.KEY_UP),
	"KEY_DOWN":      uint16(evdev.KEY_DOWN),
	"KEY_LEFT":      uint16(evdev.KEY_LEFT),
	"KEY_RIGHT":     uint16(evdev.KEY_RIGHT),
	"KEY_INSERT":    uint16(evdev.KEY_INSERT),
	"KEY_HOME":      uint16(evdev.KEY_HOME),
	"KEY_END":       uint16(evdev.KEY_END),
	"KEY_PAGEUP":    uint16(evdev.KEY_PAGEUP),
	"KEY_PAGEDOWN":  uint16(evdev.KEY_PAGEDOWN),
	"KEY_A":         uint16(evdev.KEY_A),
	"KEY_B":         uint16(evdev.KEY_B),
	"KEY_C":         uint16(evdev.KEY_C),
	"KEY_D":         uint16(evdev.KEY_D),
	"KEY_E":         uint16(evdev.KEY_E),
	"KEY_F":         uint16(evdev.KEY_F),
	"KEY_G":         uint16(evdev.KEY_G),
	"KEY_H":         uint16(evdev.KEY_H),
	"KEY_I":         uint16(evdev.KEY_I),
	"KEY_J":         uint16(evdev.KEY_J),
	"KEY_K":         uint16(evdev.KEY_K),
	"KEY_L":         uint16(evdev.KEY_L),
	"KEY_M":         uint16(evdev.KEY_M),
	"KEY_N":         uint16(evdev.KEY_N),
	"KEY_O":         uint16(evdev.KEY_O),
	"KEY_P":         uint16(evdev.KEY_P),
	"KEY_Q":         uint16(evdev.KEY_Q),
	"KEY_R":         uint16(evdev.KEY_R),
	"KEY_S":         uint16(evdev.KEY_S),
	"KEY_T":         uint16(evdev.KEY_T),
	"KEY_U":         uint16(evdev.KEY_U),
	"KEY_V":         uint16(evdev.KEY_V),
	"KEY_W":         uint16(evdev.KEY_W),
	"KEY_X":         uint16(evdev.KEY_X),
	"KEY_Y":         uint16(evdev.KEY_Y),
	"KEY_Z":         uint16(evdev.KEY_Z),
	"KEY_0":         uint16(evdev.KEY_0),
	"KEY_1":         uint16(evdev.KEY_1),
	"KEY_2":         uint16(evdev.KEY_2),
	"KEY_3":         uint16(evdev.KEY_3),
	"KEY_4":         uint16(evdev.KEY_4),
	"KEY_5":         uint16(evdev.KEY_5),
	"KEY_6":         uint16(evdev.KEY_6),
	"KEY_7":         uint16(evdev.KEY_7),
	"KEY_8":         uint16(evdev.KEY_8),
	"KEY_9":         uint16(evdev.KEY_9),
	"KEY_F1":        uint16(evdev.KEY_F1),
	"KEY_F2":        uint16(evdev.KEY_F2),
	"KEY_F3":        uint16(evdev.KEY_F3),
	"KEY_F4":        uint16(evdev.KEY_F4),
	"KEY_F5":        uint16(evdev.KEY_F5),
	"KEY_F6":        uint16(evdev.KEY_F6),
	"KEY_F7":        uint16(evdev.KEY_F7),
	"KEY_F8":        uint16(evdev.KEY_F8),
	"KEY_F9":        uint16(evdev.KEY_F9),
	"KEY_F10":       uint16(evdev.KEY_F10),
	"KEY_F11":       uint16(evdev.KEY_F11),
	"KEY_F12":       uint16(evdev.KEY_F12),
	"KEY_F13":       uint16(evdev.KEY_F13),
	"KEY_F14":       uint16(evdev.KEY_F14),
	"KEY_F15":       uint16(evdev.KEY_F15),
	"KEY_F16":       uint16(evdev.KEY_F16),
	"KEY_F17":       uint16(evdev.KEY_F17),
	"KEY_F18":       uint16(evdev.KEY_F18),
	"KEY_F19":       uint16(evdev.KEY_F19),
	"KEY_F20":       uint16(evdev.KEY_F20),
	"KEY_F21":       uint16(evdev.KEY_F21),
	"KEY_F22":       uint16(evdev.KEY_F22),
	"KEY_F23":       uint16(evdev.KEY_F23),
	"KEY_F24":       uint16(evdev.KEY_F24),
}

// modifierCodes treats left and right variants as the same modifier.
var modifierCodes = map[string][]uint16{
	"KEY_LEFTCTRL":  {uint16(evdev.KEY_LEFTCTRL), uint16(evdev.KEY_RIGHTCTRL)},
	"KEY_LEFTSHIFT": {uint16(evdev.KEY_LEFTSHIFT), uint16(evdev.KEY_RIGHTSHIFT)},
	"KEY_LEFTALT":   {uint16(evdev.KEY_LEFTALT), uint16(evdev.KEY_RIGHTALT)},
	"KEY_LEFTMETA":  {uint16(evdev.KEY_LEFTMETA), uint16(evdev.KEY_RIGHTMETA)},
}
