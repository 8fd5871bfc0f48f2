//go:build linux

package direct

import xhotkey "golang.design/x/hotkey"

// X11: Alt is Mod1 and Super is Mod4 on common keymaps.
var modifierMap = map[string]xhotkey.Modifier{
	"Ctrl":  xhotkey.ModCtrl,
	"Shift": xhotkey.ModShift,
	"Alt":   xhotkey.Mod1,
	"Super": xhotkey.Mod4,
}

func init() {
	keyMap["Backspace"] = xhotkey.Key(0xff08) // XK_BackSpace
}
