//go:build linux

package rawcapture

import (
	"errors"
	"testing"

	evdev "github.com/holoplot/go-evdev"
	"github.com/petems/whisper-hotkey/internal/hotkey"
	"github.com/rs/zerolog"
)

func TestChordFor(t *testing.T) {
	c, err := chordFor(hotkey.MustParse("ctrl+shift+r"))
	if err != nil {
		t.Fatalf("chordFor() error = %v", err)
	}
	if c.key != uint16(evdev.KEY_R) {
		t.Fatalf("key = %d, want KEY_R", c.key)
	}
	if len(c.modifiers) != 2 {
		t.Fatalf("expected 2 modifier groups, got %d", len(c.modifiers))
	}
	ctrl := c.modifiers[0]
	if len(ctrl) != 2 || ctrl[0] != uint16(evdev.KEY_LEFTCTRL) || ctrl[1] != uint16(evdev.KEY_RIGHTCTRL) {
		t.Fatalf("ctrl group = %v", ctrl)
	}
}

func TestChordForEveryKnownKey(t *testing.T) {
	for _, name := range []string{"space", "enter", "escape", "f24", "pagedown", "0", "z"} {
		if _, err := chordFor(hotkey.MustParse("super+" + name)); err != nil {
			t.Errorf("chordFor(super+%s) error = %v", name, err)
		}
	}
}

func TestRegisterMissingDevice(t *testing.T) {
	l := NewListener(zerolog.Nop(), "/nonexistent/event99")
	_, err := l.Register(t.Context(), hotkey.MustParse("ctrl+r"))
	if !errors.Is(err, hotkey.ErrPermissionDenied) {
		t.Fatalf("Register() error = %v, want PermissionDenied", err)
	}
	if hotkey.RemediationOf(err) == "" {
		t.Fatal("PermissionDenied must carry remediation text")
	}
}
