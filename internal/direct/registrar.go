//go:build linux || darwin || windows

// Package direct claims global shortcuts through the host's native hotkey
// API (X11 key grabs, Carbon hot keys, RegisterHotKey).
package direct

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/petems/whisper-hotkey/internal/hotkey"
	"github.com/rs/zerolog"
	xhotkey "golang.design/x/hotkey"
)

// nativeHotkey is the part of the OS hotkey API a handle drives.
type nativeHotkey interface {
	Register() error
	Unregister() error
	Keydown() <-chan xhotkey.Event
	Keyup() <-chan xhotkey.Event
}

// Registrar registers one combination with the OS.
type Registrar struct {
	log       zerolog.Logger
	newHotkey func(mods []xhotkey.Modifier, key xhotkey.Key) nativeHotkey
}

func NewRegistrar(log zerolog.Logger) *Registrar {
	return &Registrar{
		log: log,
		newHotkey: func(mods []xhotkey.Modifier, key xhotkey.Key) nativeHotkey {
			return xhotkey.New(mods, key)
		},
	}
}

// Register claims spec. A combination owned by another process is reported
// as RegistrationConflict and never retried.
func (r *Registrar) Register(ctx context.Context, spec hotkey.Spec) (hotkey.Handle, error) {
	native, err := hotkey.ToNative(spec, hotkey.DirectOS)
	if err != nil {
		return nil, err
	}
	mods, key, err := resolve(native)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hk := r.newHotkey(mods, key)
	if err := hk.Register(); err != nil {
		return nil, &hotkey.Error{
			Kind:        hotkey.KindRegistrationConflict,
			Op:          "register " + native,
			Msg:         "the combination is already claimed",
			Remediation: "pick another hotkey or free it in the application or desktop settings that own it",
			Err:         err,
		}
	}
	r.log.Info().Str("hotkey", native).Msg("Registered native hotkey")

	h := &handle{
		log:    r.log,
		hk:     hk,
		native: native,
		events: make(chan hotkey.Event, 8),
		done:   make(chan struct{}),
	}
	h.wg.Go(h.forward)
	return h, nil
}

// resolve maps an accelerator like "Ctrl+Shift+R" onto library codes.
func resolve(native string) ([]xhotkey.Modifier, xhotkey.Key, error) {
	parts := strings.Split(native, "+")
	keyName := parts[len(parts)-1]
	key, ok := keyMap[keyName]
	if !ok {
		return nil, 0, unsupported(native, keyName)
	}
	var mods []xhotkey.Modifier
	for _, name := range parts[:len(parts)-1] {
		m, ok := modifierMap[name]
		if !ok {
			return nil, 0, unsupported(native, name)
		}
		mods = append(mods, m)
	}
	return mods, key, nil
}

func unsupported(native, token string) error {
	return &hotkey.Error{
		Kind:        hotkey.KindConversion,
		Op:          "resolve " + native,
		Msg:         fmt.Sprintf("token %q is not supported by the native hotkey API on this platform", token),
		Remediation: "choose a different key",
	}
}

type handle struct {
	log    zerolog.Logger
	hk     nativeHotkey
	native string
	events chan hotkey.Event
	done   chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
}

func (h *handle) Events() <-chan hotkey.Event { return h.events }

func (h *handle) ReleaseSupported() bool { return true }

func (h *handle) forward() {
	down, up := h.hk.Keydown(), h.hk.Keyup()
	for {
		var kind hotkey.EventKind
		select {
		case <-h.done:
			return
		case <-down:
			kind = hotkey.Pressed
		case <-up:
			kind = hotkey.Released
		}
		select {
		case h.events <- hotkey.Event{Kind: kind, Source: hotkey.DirectOS.String(), At: time.Now()}:
		case <-h.done:
			return
		}
	}
}

// Close unregisters the hotkey exactly once.
func (h *handle) Close() error {
	var err error
	h.once.Do(func() {
		close(h.done)
		h.wg.Wait()
		if uerr := h.hk.Unregister(); uerr != nil {
			err = fmt.Errorf("unregister %s: %w", h.native, uerr)
		}
		close(h.events)
		h.log.Info().Str("hotkey", h.native).Msg("Unregistered native hotkey")
	})
	return err
}
