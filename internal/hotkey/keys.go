package hotkey

import "strconv"

// Modifier is one of the four supported modifier keys.
type Modifier uint8

const (
	ModCtrl Modifier = 1 << iota
	ModShift
	ModAlt
	ModSuper
)

// modifierOrder is the canonical serialization order.
var modifierOrder = []Modifier{ModCtrl, ModShift, ModAlt, ModSuper}

func (m Modifier) String() string {
	switch m {
	case ModCtrl:
		return "ctrl"
	case ModShift:
		return "shift"
	case ModAlt:
		return "alt"
	case ModSuper:
		return "super"
	}
	return "mod(" + strconv.Itoa(int(m)) + ")"
}

var modifierAliases = map[string]Modifier{
	"ctrl":    ModCtrl,
	"control": ModCtrl,
	"shift":   ModShift,
	"alt":     ModAlt,
	"option":  ModAlt,
	"super":   ModSuper,
	"meta":    ModSuper,
	"win":     ModSuper,
	"cmd":     ModSuper,
}

// keyInfo holds the native token of one primary key on every backend.
// An empty token means the backend cannot express the key.
type keyInfo struct {
	accel string // DirectOS accelerator token
	xkb   string // portal trigger keysym
	evdev string // raw capture key name
}

var keyAliases = map[string]string{
	"return": "enter",
	"esc":    "escape",
	"del":    "delete",
	"pgup":   "pageup",
	"pgdn":   "pagedown",
}

var keyTable = buildKeyTable()

func buildKeyTable() map[string]keyInfo {
	t := map[string]keyInfo{
		"space":     {accel: "Space", xkb: "space", evdev: "KEY_SPACE"},
		"enter":     {accel: "Return", xkb: "Return", evdev: "KEY_ENTER"},
		"escape":    {accel: "Escape", xkb: "Escape", evdev: "KEY_ESC"},
		"tab":       {accel: "Tab", xkb: "Tab", evdev: "KEY_TAB"},
		"backspace": {accel: "Backspace", xkb: "BackSpace", evdev: "KEY_BACKSPACE"},
		"delete":    {accel: "Delete", xkb: "Delete", evdev: "KEY_DELETE"},
		"up":        {accel: "Up", xkb: "Up", evdev: "KEY_UP"},
		"down":      {accel: "Down", xkb: "Down", evdev: "KEY_DOWN"},
		"left":      {accel: "Left", xkb: "Left", evdev: "KEY_LEFT"},
		"right":     {accel: "Right", xkb: "Right", evdev: "KEY_RIGHT"},
		"insert":    {xkb: "Insert", evdev: "KEY_INSERT"},
		"home":      {xkb: "Home", evdev: "KEY_HOME"},
		"end":       {xkb: "End", evdev: "KEY_END"},
		"pageup":    {xkb: "Page_Up", evdev: "KEY_PAGEUP"},
		"pagedown":  {xkb: "Page_Down", evdev: "KEY_PAGEDOWN"},
	}
	for c := 'a'; c <= 'z'; c++ {
		s := string(c)
		upper := string(c - 'a' + 'A')
		t[s] = keyInfo{accel: upper, xkb: s, evdev: "KEY_" + upper}
	}
	for c := '0'; c <= '9'; c++ {
		s := string(c)
		t[s] = keyInfo{accel: s, xkb: s, evdev: "KEY_" + s}
	}
	for n := 1; n <= 24; n++ {
		name := "F" + strconv.Itoa(n)
		info := keyInfo{xkb: name, evdev: "KEY_" + name}
		// the native registration API stops at F20
		if n <= 20 {
			info.accel = name
		}
		t["f"+strconv.Itoa(n)] = info
	}
	return t
}

// KnownKey reports whether name is a supported primary key token
// (aliases included).
func KnownKey(name string) bool {
	_, ok := lookupKey(name)
	return ok
}

func lookupKey(name string) (string, bool) {
	if alias, ok := keyAliases[name]; ok {
		name = alias
	}
	_, ok := keyTable[name]
	return name, ok
}
