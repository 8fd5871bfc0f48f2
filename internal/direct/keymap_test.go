//go:build linux || darwin || windows

package direct

import (
	"errors"
	"testing"

	"github.com/petems/whisper-hotkey/internal/hotkey"
	"github.com/rs/zerolog"
)

func TestResolve(t *testing.T) {
	native, err := hotkey.ToNative(hotkey.MustParse("ctrl+shift+r"), hotkey.DirectOS)
	if err != nil {
		t.Fatalf("ToNative() error = %v", err)
	}
	mods, key, err := resolve(native)
	if err != nil {
		t.Fatalf("resolve(%q) error = %v", native, err)
	}
	if key != keyMap["R"] {
		t.Fatalf("key = %v, want %v", key, keyMap["R"])
	}
	if len(mods) != 2 || mods[0] != modifierMap["Ctrl"] || mods[1] != modifierMap["Shift"] {
		t.Fatalf("mods = %v", mods)
	}
}

func TestResolveEveryDirectKey(t *testing.T) {
	names := []string{"a", "z", "0", "9", "space", "enter", "escape", "tab", "backspace", "delete", "up", "down", "left", "right", "f1", "f12", "f20"}
	for _, name := range names {
		native, err := hotkey.ToNative(hotkey.MustParse("alt+"+name), hotkey.DirectOS)
		if err != nil {
			t.Fatalf("ToNative(alt+%s) error = %v", name, err)
		}
		if _, _, err := resolve(native); err != nil {
			t.Errorf("resolve(%q) error = %v", native, err)
		}
	}
}

func TestResolveUnknownToken(t *testing.T) {
	_, _, err := resolve("Ctrl+Hyper+R")
	if !errors.Is(err, hotkey.ErrConversion) {
		t.Fatalf("resolve() error = %v, want ConversionError", err)
	}
}

func TestRegisterRejectsUnrepresentableKey(t *testing.T) {
	r := NewRegistrar(zerolog.Nop())
	_, err := r.Register(t.Context(), hotkey.MustParse("ctrl+f24"))
	if !errors.Is(err, hotkey.ErrConversion) {
		t.Fatalf("Register() error = %v, want ConversionError", err)
	}
}
