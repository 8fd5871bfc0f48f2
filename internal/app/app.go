package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/petems/whisper-hotkey/internal/config"
	"github.com/petems/whisper-hotkey/internal/hotkey"
	"github.com/rs/zerolog"
)

type Mode int

const (
	PushToTalk Mode = iota
	Toggle
)

func (m Mode) String() string {
	if m == Toggle {
		return config.ModeToggle
	}
	return config.ModePushToTalk
}

// Recorder is the dictation pipeline driven by activations. It lives
// outside this module; Start and Stop are called from the event loop and
// should return promptly.
type Recorder interface {
	Start() error
	Stop() error
}

type Config struct {
	Recorder Recorder
	Config   *config.Config
	Logger   zerolog.Logger
}

type App struct {
	rec Recorder
	cfg *config.Config
	log zerolog.Logger

	mu             sync.Mutex
	dictating      bool
	releaseMissing bool
}

func New(cfg Config) *App {
	return &App{
		rec: cfg.Recorder,
		cfg: cfg.Config,
		log: cfg.Logger,
	}
}

// SetReleaseSupported tells the app whether the active backend can deliver
// key releases. Without them push-to-talk behaves like toggle.
func (a *App) SetReleaseSupported(ok bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !ok && !a.releaseMissing && a.cfg.Mode == config.ModePushToTalk {
		a.log.Warn().Msg("Hotkey backend cannot report key releases; push-to-talk works as toggle")
	}
	a.releaseMissing = !ok
}

// EffectiveMode is the mode actually applied to events.
func (a *App) EffectiveMode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.modeLocked()
}

func (a *App) modeLocked() Mode {
	if a.cfg.Mode == config.ModeToggle || a.releaseMissing {
		return Toggle
	}
	return PushToTalk
}

// OnEvent applies one activation.
func (a *App) OnEvent(ev hotkey.Event) {
	a.OnHotkey(ev.Kind == hotkey.Pressed)
}

func (a *App) OnHotkey(pressed bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch a.modeLocked() {
	case PushToTalk:
		if pressed {
			a.startDictationLocked()
		} else {
			a.stopDictationLocked()
		}
	case Toggle:
		if !pressed {
			return
		}
		a.toggleLocked()
	}
}

// Toggle flips recording regardless of mode. It serves the IPC toggle
// command.
func (a *App) Toggle() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.toggleLocked()
}

func (a *App) toggleLocked() {
	if !a.dictating {
		a.startDictationLocked()
	} else {
		a.stopDictationLocked()
	}
}

func (a *App) startDictationLocked() {
	if a.dictating {
		return
	}

	a.log.Info().Msg("Starting dictation")
	if err := a.rec.Start(); err != nil {
		a.log.Error().Err(err).Msg("Failed to start recording")
		return
	}
	a.dictating = true
}

func (a *App) stopDictationLocked() {
	if !a.dictating {
		return
	}

	a.log.Info().Msg("Stopping dictation")
	a.dictating = false

	if err := a.rec.Stop(); err != nil {
		a.log.Error().Err(err).Msg("Failed to stop recording")
	}
}

// Run applies events until the channel closes or ctx is done.
func (a *App) Run(ctx context.Context, events <-chan hotkey.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			a.log.Debug().Str("kind", ev.Kind.String()).Str("source", ev.Source).Msg("Activation")
			a.OnEvent(ev)
		}
	}
}

func (a *App) Shutdown(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.dictating {
		a.stopDictationLocked()
	}

	return nil
}

// ApplyMode switches between push-to-talk and toggle without touching the
// config file. A recording in progress keeps running; the next activation
// follows the new mode.
func (a *App) ApplyMode(mode string) error {
	switch mode {
	case config.ModePushToTalk, config.ModeToggle:
	default:
		return fmt.Errorf("unknown mode %q", mode)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cfg.Mode == mode {
		return nil
	}
	a.cfg.Mode = mode
	a.log.Info().Str("mode", mode).Str("effective", a.modeLocked().String()).Msg("Mode changed")
	return nil
}

func (a *App) IsDictating() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.dictating
}
