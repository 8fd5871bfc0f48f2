//go:build !linux && !darwin && !windows

package direct

import (
	"context"

	"github.com/petems/whisper-hotkey/internal/hotkey"
	"github.com/rs/zerolog"
)

type Registrar struct{}

func NewRegistrar(log zerolog.Logger) *Registrar { return &Registrar{} }

func (r *Registrar) Register(ctx context.Context, spec hotkey.Spec) (hotkey.Handle, error) {
	return nil, &hotkey.Error{
		Kind:        hotkey.KindConversion,
		Op:          "register " + spec.Canonical(),
		Msg:         "no native hotkey API on this platform",
		Remediation: "bind a desktop shortcut to `whisper-hotkey --toggle` instead",
	}
}
