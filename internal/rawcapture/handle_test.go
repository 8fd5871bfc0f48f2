package rawcapture

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/petems/whisper-hotkey/internal/hotkey"
	"github.com/rs/zerolog"
)

type fakeSource struct {
	ch        chan keyEvent
	closed    chan struct{}
	closeOnce sync.Once
	closes    int
	mu        sync.Mutex
}

func newFakeSource() *fakeSource {
	return &fakeSource{ch: make(chan keyEvent, 16), closed: make(chan struct{})}
}

func (f *fakeSource) readKey() (uint16, int32, error) {
	select {
	case ev := <-f.ch:
		return ev.code, ev.value, nil
	case <-f.closed:
		return 0, 0, errors.New("closed")
	}
}

func (f *fakeSource) name() string { return "fake" }

func (f *fakeSource) Close() error {
	f.mu.Lock()
	f.closes++
	f.mu.Unlock()
	f.closeOnce.Do(func() { close(f.closed) })
	return nil
}

func (f *fakeSource) send(code uint16, value int32) {
	f.ch <- keyEvent{code: code, value: value}
}

func expectEvent(t *testing.T, events <-chan hotkey.Event, want hotkey.EventKind) {
	t.Helper()
	select {
	case ev, ok := <-events:
		if !ok {
			t.Fatalf("events closed, want %s", want)
		}
		if ev.Kind != want {
			t.Fatalf("got %s, want %s", ev.Kind, want)
		}
		if ev.Source != "rawcapture" {
			t.Fatalf("Source = %q", ev.Source)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for %s", want)
	}
}

func TestHandleMergesDevices(t *testing.T) {
	kbd1, kbd2 := newFakeSource(), newFakeSource()
	h := newHandle(zerolog.Nop(), ctrlShiftR, []keySource{kbd1, kbd2})
	defer h.Close()

	// modifiers on one keyboard, primary key on another
	kbd1.send(codeLeftCtrl, keyDown)
	kbd1.send(codeLeftShift, keyDown)
	time.Sleep(20 * time.Millisecond)
	kbd2.send(codeR, keyDown)
	expectEvent(t, h.Events(), hotkey.Pressed)

	kbd2.send(codeR, keyUp)
	expectEvent(t, h.Events(), hotkey.Released)
}

func TestHandleCloseIdempotent(t *testing.T) {
	src := newFakeSource()
	h := newHandle(zerolog.Nop(), ctrlShiftR, []keySource{src})

	if err := h.Close(); err != nil {
		t.Fatalf("first Close() error = %v", err)
	}
	if err := h.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}

	src.mu.Lock()
	closes := src.closes
	src.mu.Unlock()
	if closes != 1 {
		t.Fatalf("device closed %d times, want 1", closes)
	}

	select {
	case _, ok := <-h.Events():
		if ok {
			t.Fatal("no events expected after Close")
		}
	case <-time.After(time.Second):
		t.Fatal("events channel should be closed after Close")
	}
	if err := h.Err(); err != nil {
		t.Fatalf("Err() after Close = %v, want nil", err)
	}
}

func TestHandleEndsWhenDevicesVanish(t *testing.T) {
	src := newFakeSource()
	h := newHandle(zerolog.Nop(), ctrlShiftR, []keySource{src})
	defer h.Close()

	// unplugging makes every read fail
	src.Close()

	select {
	case _, ok := <-h.Events():
		if ok {
			t.Fatal("unexpected event")
		}
	case <-time.After(time.Second):
		t.Fatal("events channel should close once every device is gone")
	}
	if !errors.Is(h.Err(), hotkey.ErrPermissionDenied) {
		t.Fatalf("Err() = %v, want PermissionDenied", h.Err())
	}
	if hotkey.RemediationOf(h.Err()) == "" {
		t.Fatal("Err() should carry remediation")
	}
}

func TestHandleReportsRelease(t *testing.T) {
	h := newHandle(zerolog.Nop(), ctrlShiftR, nil)
	defer h.Close()
	if !h.ReleaseSupported() {
		t.Fatal("raw capture always supports release")
	}
}
