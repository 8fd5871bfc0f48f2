package hotkey

import (
	"fmt"
	"strings"
)

var (
	accelModifiers = map[Modifier]string{ModCtrl: "Ctrl", ModShift: "Shift", ModAlt: "Alt", ModSuper: "Super"}
	xdgModifiers   = map[Modifier]string{ModCtrl: "CTRL", ModShift: "SHIFT", ModAlt: "ALT", ModSuper: "LOGO"}
	evdevModifiers = map[Modifier]string{ModCtrl: "KEY_LEFTCTRL", ModShift: "KEY_LEFTSHIFT", ModAlt: "KEY_LEFTALT", ModSuper: "KEY_LEFTMETA"}
)

// ToNative converts spec to the token syntax of the given backend:
//
//	DirectOS            Ctrl+Shift+R
//	PortalShortcuts     CTRL+SHIFT+r
//	RawCaptureFallback  KEY_LEFTCTRL+KEY_LEFTSHIFT+KEY_R
//
// Raw capture treats left and right modifier variants as equivalent; the
// left name stands for both.
func ToNative(spec Spec, backend Backend) (string, error) {
	if spec.IsZero() {
		return "", convErr(spec, backend, "", "hotkey has no primary key")
	}
	info, ok := keyTable[spec.key]
	if !ok {
		return "", convErr(spec, backend, spec.key, fmt.Sprintf("unknown key %q", spec.key))
	}

	var mods map[Modifier]string
	var key string
	switch backend {
	case DirectOS:
		mods, key = accelModifiers, info.accel
	case PortalShortcuts:
		mods, key = xdgModifiers, info.xkb
	case RawCaptureFallback:
		mods, key = evdevModifiers, info.evdev
	default:
		return "", convErr(spec, backend, "", "unknown backend")
	}
	if key == "" {
		return "", convErr(spec, backend, spec.key, fmt.Sprintf("key %q has no %s equivalent", spec.key, backend))
	}

	parts := make([]string, 0, 5)
	for _, m := range spec.ModifierList() {
		parts = append(parts, mods[m])
	}
	parts = append(parts, key)
	return strings.Join(parts, "+"), nil
}

func convErr(spec Spec, backend Backend, token, msg string) error {
	remedy := "choose a different primary key"
	if token != "" {
		remedy = fmt.Sprintf("replace %q with a key the %s backend supports", token, backend)
	}
	return &Error{
		Kind:        KindConversion,
		Op:          fmt.Sprintf("convert %q for %s", spec.Canonical(), backend),
		Msg:         msg,
		Remediation: remedy,
	}
}
