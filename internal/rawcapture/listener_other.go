//go:build !linux

package rawcapture

import (
	"context"

	"github.com/petems/whisper-hotkey/internal/hotkey"
	"github.com/petems/whisper-hotkey/internal/permissions"
	"github.com/rs/zerolog"
)

// Listener is unavailable off Linux; Register always fails.
type Listener struct {
	log zerolog.Logger
}

func NewListener(log zerolog.Logger, devicePaths ...string) *Listener {
	return &Listener{log: log}
}

func (l *Listener) Register(ctx context.Context, spec hotkey.Spec) (hotkey.Handle, error) {
	probe := permissions.ProbeInput()
	return nil, &hotkey.Error{
		Kind:        hotkey.KindPermissionDenied,
		Op:          "open input devices",
		Msg:         probe.Message,
		Remediation: probe.Guidance,
	}
}
