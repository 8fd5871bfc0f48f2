package hotkey

import (
	"regexp"
	"strings"
)

var bracketToken = regexp.MustCompile(`<([^>]+)>`)

var acceleratorModifiers = map[string]Modifier{
	"control": ModCtrl,
	"ctrl":    ModCtrl,
	"primary": ModCtrl,
	"shift":   ModShift,
	"alt":     ModAlt,
	"mod1":    ModAlt,
	"super":   ModSuper,
	"meta":    ModSuper,
	"logo":    ModSuper,
	"mod4":    ModSuper,
}

// xkbToKey maps keysym names back to canonical key tokens.
var xkbToKey = func() map[string]string {
	m := make(map[string]string, len(keyTable))
	for name, info := range keyTable {
		m[strings.ToLower(info.xkb)] = name
	}
	return m
}()

// ParseAccelerator reads the trigger formats found in compositor stores and
// portal responses: bracketed GTK accelerators ("<Control><Alt>r"), XDG
// triggers ("CTRL+ALT+r") and display strings ("Ctrl+Alt+R").
func ParseAccelerator(text string) (Spec, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return Spec{}, parseErr(text, "empty accelerator")
	}

	var parts []string
	if strings.Contains(s, "<") {
		for _, m := range bracketToken.FindAllStringSubmatch(s, -1) {
			mod, ok := acceleratorModifiers[strings.ToLower(m[1])]
			if !ok {
				return Spec{}, parseErr(text, "unknown modifier <"+m[1]+">")
			}
			parts = append(parts, mod.String())
		}
		s = strings.TrimSpace(bracketToken.ReplaceAllString(s, ""))
		if s != "" {
			parts = append(parts, s)
		}
	} else {
		for _, tok := range strings.Split(s, "+") {
			tok = strings.TrimSpace(tok)
			if mod, ok := acceleratorModifiers[strings.ToLower(tok)]; ok {
				parts = append(parts, mod.String())
				continue
			}
			parts = append(parts, tok)
		}
	}

	for i, p := range parts {
		if name, ok := xkbToKey[strings.ToLower(p)]; ok {
			parts[i] = name
		}
	}
	return Parse(strings.Join(parts, "+"))
}
