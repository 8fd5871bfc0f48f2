//go:build linux || darwin || windows

package direct

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/petems/whisper-hotkey/internal/hotkey"
	"github.com/rs/zerolog"
	xhotkey "golang.design/x/hotkey"
)

type fakeHotkey struct {
	down, up    chan xhotkey.Event
	registerErr error

	mu           sync.Mutex
	unregistered int
}

func newFakeHotkey() *fakeHotkey {
	return &fakeHotkey{down: make(chan xhotkey.Event), up: make(chan xhotkey.Event)}
}

func (f *fakeHotkey) Register() error { return f.registerErr }

func (f *fakeHotkey) Unregister() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unregistered++
	return nil
}

func (f *fakeHotkey) Keydown() <-chan xhotkey.Event { return f.down }
func (f *fakeHotkey) Keyup() <-chan xhotkey.Event   { return f.up }

func (f *fakeHotkey) unregisterCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.unregistered
}

func registrarWith(fake *fakeHotkey) *Registrar {
	r := NewRegistrar(zerolog.Nop())
	r.newHotkey = func([]xhotkey.Modifier, xhotkey.Key) nativeHotkey { return fake }
	return r
}

func TestRegisterForwardsPressAndRelease(t *testing.T) {
	fake := newFakeHotkey()
	h, err := registrarWith(fake).Register(t.Context(), hotkey.MustParse("ctrl+shift+r"))
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	defer h.Close()

	fake.down <- xhotkey.Event{}
	fake.up <- xhotkey.Event{}
	for _, want := range []hotkey.EventKind{hotkey.Pressed, hotkey.Released} {
		select {
		case ev := <-h.Events():
			if ev.Kind != want || ev.Source != "direct" {
				t.Fatalf("event = %+v, want %s from direct", ev, want)
			}
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for %s", want)
		}
	}
}

func TestRegisterConflict(t *testing.T) {
	fake := newFakeHotkey()
	fake.registerErr = errors.New("already grabbed")
	_, err := registrarWith(fake).Register(t.Context(), hotkey.MustParse("ctrl+shift+r"))
	if !errors.Is(err, hotkey.ErrRegistrationConflict) {
		t.Fatalf("Register() error = %v, want RegistrationConflict", err)
	}
	if hotkey.RemediationOf(err) == "" {
		t.Fatal("conflict should carry remediation")
	}
}

func TestCloseUnregistersOnce(t *testing.T) {
	fake := newFakeHotkey()
	h, err := registrarWith(fake).Register(t.Context(), hotkey.MustParse("alt+space"))
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if err := h.Close(); err != nil {
		t.Fatalf("first Close() error = %v", err)
	}
	if err := h.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
	if n := fake.unregisterCount(); n != 1 {
		t.Fatalf("Unregister called %d times, want 1", n)
	}

	// nobody forwards key presses after Close
	select {
	case fake.down <- xhotkey.Event{}:
		t.Fatal("key press consumed after Close")
	case <-time.After(50 * time.Millisecond):
	}
	if _, ok := <-h.Events(); ok {
		t.Fatal("events channel should be closed after Close")
	}
}
