package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/petems/whisper-hotkey/internal/app"
	"github.com/petems/whisper-hotkey/internal/config"
	"github.com/petems/whisper-hotkey/internal/hotkey"
	"github.com/petems/whisper-hotkey/internal/shortcut"
	"github.com/rs/zerolog"
)

type nopRecorder struct{}

func (nopRecorder) Start() error { return nil }
func (nopRecorder) Stop() error  { return nil }

func TestWatchConfigAppliesModeChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	write := func(mode string) {
		body := `{"hotkey":"ctrl+r","hotkey_darwin":"ctrl+r","mode":"` + mode + `"}`
		if err := os.WriteFile(path, []byte(body), 0644); err != nil {
			t.Fatal(err)
		}
	}
	write(config.ModeToggle)

	cfg, err := config.LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	log := zerolog.Nop()
	application := app.New(app.Config{Recorder: nopRecorder{}, Config: cfg, Logger: log})
	orch := shortcut.New(log, shortcut.Options{})
	defer orch.Close()

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan struct{})
	go func() {
		watchConfig(ctx, log, path, hotkey.MustParse("ctrl+r"), orch, application)
		close(done)
	}()
	defer func() {
		cancel()
		<-done
	}()

	// give the watcher time to register
	time.Sleep(100 * time.Millisecond)
	write(config.ModePushToTalk)

	deadline := time.Now().Add(3 * time.Second)
	for application.EffectiveMode() != app.PushToTalk {
		if time.Now().After(deadline) {
			t.Fatalf("EffectiveMode() = %s after editing mode, want PushToTalk", application.EffectiveMode())
		}
		time.Sleep(10 * time.Millisecond)
	}
	if orch.Diagnostics().RestartRequired {
		t.Fatal("an unchanged hotkey must not trigger re-registration")
	}
}
