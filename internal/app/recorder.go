package app

import (
	"fmt"
	"os/exec"

	"github.com/rs/zerolog"
)

// CommandRecorder runs external commands when recording starts and stops,
// e.g. a transcription tool's own start/stop commands. An empty command is
// a no-op.
type CommandRecorder struct {
	OnStart []string
	OnStop  []string
	Log     zerolog.Logger
}

func (r CommandRecorder) Start() error { return r.run("start", r.OnStart) }

func (r CommandRecorder) Stop() error { return r.run("stop", r.OnStop) }

// run launches argv without waiting for it to finish.
func (r CommandRecorder) run(name string, argv []string) error {
	if len(argv) == 0 {
		r.Log.Debug().Str("hook", name).Msg("No recorder command configured")
		return nil
	}
	cmd := exec.Command(argv[0], argv[1:]...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%s hook %q: %w", name, argv[0], err)
	}
	go func() {
		if err := cmd.Wait(); err != nil {
			r.Log.Warn().Err(err).Str("hook", name).Msg("Recorder command failed")
		}
	}()
	return nil
}
