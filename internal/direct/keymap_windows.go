//go:build windows

package direct

import xhotkey "golang.design/x/hotkey"

var modifierMap = map[string]xhotkey.Modifier{
	"Ctrl":  xhotkey.ModCtrl,
	"Shift": xhotkey.ModShift,
	"Alt":   xhotkey.ModAlt,
	"Super": xhotkey.ModWin,
}

func init() {
	keyMap["Backspace"] = xhotkey.Key(0x08) // VK_BACK
}
