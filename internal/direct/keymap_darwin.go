//go:build darwin

package direct

import xhotkey "golang.design/x/hotkey"

var modifierMap = map[string]xhotkey.Modifier{
	"Ctrl":  xhotkey.ModCtrl,
	"Shift": xhotkey.ModShift,
	"Alt":   xhotkey.ModOption,
	"Super": xhotkey.ModCmd,
}

func init() {
	// kVK_Delete is the backspace key; forward delete is kVK_ForwardDelete
	keyMap["Backspace"] = xhotkey.KeyDelete
	keyMap["Delete"] = xhotkey.Key(0x75)
}
