//go:build linux

package rawcapture

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	evdev "github.com/holoplot/go-evdev"
	"github.com/petems/whisper-hotkey/internal/hotkey"
	"github.com/petems/whisper-hotkey/internal/permissions"
	"github.com/rs/zerolog"
)

// Listener reads keyboards at the evdev layer when neither native
// registration nor the portal is usable.
type Listener struct {
	log zerolog.Logger
	// devicePaths lists candidate devices; empty means every /dev/input node
	devicePaths []string
}

// NewListener creates a raw capture listener. When devicePaths is empty all
// keyboard-capable input devices are used.
func NewListener(log zerolog.Logger, devicePaths ...string) *Listener {
	return &Listener{log: log, devicePaths: devicePaths}
}

// Register opens the keyboards and starts matching spec against them.
func (l *Listener) Register(ctx context.Context, spec hotkey.Spec) (hotkey.Handle, error) {
	c, err := chordFor(spec)
	if err != nil {
		return nil, err
	}

	paths, err := l.candidates()
	if err != nil {
		return nil, permissionErr(fmt.Sprintf("list input devices: %v", err), err)
	}

	var sources []keySource
	denied := 0
	for _, p := range paths {
		if ctx.Err() != nil {
			closeAll(sources)
			return nil, ctx.Err()
		}
		dev, err := evdev.Open(p)
		if err != nil {
			if errors.Is(err, os.ErrPermission) {
				denied++
			}
			l.log.Debug().Err(err).Str("device", p).Msg("Skipping input device")
			continue
		}
		if !isKeyboard(dev) {
			dev.Close()
			continue
		}
		name, _ := dev.Name()
		l.log.Info().Str("device", p).Str("name", name).Msg("Watching keyboard")
		sources = append(sources, &evdevSource{dev: dev, path: p})
	}

	if len(sources) == 0 {
		probe := permissions.ProbeInput()
		if denied > 0 || probe.Status == permissions.StatusDenied {
			return nil, permissionErr(fmt.Sprintf("cannot open any keyboard device (%d denied)", denied), nil)
		}
		return nil, permissionErr("no readable keyboard devices found under /dev/input", nil)
	}

	return newHandle(l.log, c, sources), nil
}

func (l *Listener) candidates() ([]string, error) {
	if len(l.devicePaths) > 0 {
		return l.devicePaths, nil
	}
	inputs, err := evdev.ListDevicePaths()
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(inputs))
	for _, in := range inputs {
		paths = append(paths, in.Path)
	}
	return paths, nil
}

// isKeyboard filters out mice, power buttons and similar nodes that also
// report EV_KEY.
func isKeyboard(dev *evdev.InputDevice) bool {
	hasA, hasSpace := false, false
	for _, code := range dev.CapableEvents(evdev.EV_KEY) {
		switch code {
		case evdev.KEY_A:
			hasA = true
		case evdev.KEY_SPACE:
			hasSpace = true
		}
	}
	return hasA && hasSpace
}

func permissionErr(msg string, err error) error {
	return &hotkey.Error{
		Kind:        hotkey.KindPermissionDenied,
		Op:          "open input devices",
		Msg:         msg,
		Remediation: permissions.InputGuidance(os.Getenv("USER"), "input"),
		Err:         err,
	}
}

func closeAll(sources []keySource) {
	for _, s := range sources {
		s.Close()
	}
}

type evdevSource struct {
	dev  *evdev.InputDevice
	path string
}

func (s *evdevSource) readKey() (uint16, int32, error) {
	for {
		ev, err := s.dev.ReadOne()
		if err != nil {
			return 0, 0, err
		}
		if ev.Type == evdev.EV_KEY {
			return uint16(ev.Code), ev.Value, nil
		}
	}
}

func (s *evdevSource) name() string { return s.path }

func (s *evdevSource) Close() error { return s.dev.Close() }

// chordFor resolves spec through its raw-capture native form.
func chordFor(spec hotkey.Spec) (chord, error) {
	native, err := hotkey.ToNative(spec, hotkey.RawCaptureFallback)
	if err != nil {
		return chord{}, err
	}
	parts := strings.Split(native, "+")
	keyName := parts[len(parts)-1]

	var c chord
	code, ok := keyCodes[keyName]
	if !ok {
		return chord{}, &hotkey.Error{Kind: hotkey.KindConversion, Op: "resolve " + native, Msg: fmt.Sprintf("no evdev code for %q", keyName)}
	}
	c.key = code
	for _, mod := range parts[:len(parts)-1] {
		variants, ok := modifierCodes[mod]
		if !ok {
			return chord{}, &hotkey.Error{Kind: hotkey.KindConversion, Op: "resolve " + native, Msg: fmt.Sprintf("no evdev code for %q", mod)}
		}
		c.modifiers = append(c.modifiers, variants)
	}
	return c, nil
}
