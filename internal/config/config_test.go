package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Hotkey != "ctrl+shift+r" || cfg.Mode != ModeToggle {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.File() != path {
		t.Fatalf("File() = %q, want %q", cfg.File(), path)
	}
	if cfg.PortalTimeout() != 2*time.Minute {
		t.Fatalf("PortalTimeout() = %v", cfg.PortalTimeout())
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	cfg.Hotkey = "super+f9"
	cfg.Mode = ModePushToTalk
	cfg.PortalTimeoutSeconds = 30
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if got.Hotkey != "super+f9" || got.Mode != ModePushToTalk || got.PortalTimeout() != 30*time.Second {
		t.Fatalf("reloaded config = %+v", got)
	}
	// fields absent from the file keep their defaults
	if got.ShortcutID != "toggle-recording" {
		t.Fatalf("ShortcutID = %q", got.ShortcutID)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad json", `{"hotkey":`},
		{"bad mode", `{"mode":"Hold"}`},
		{"negative timeout", `{"portal_timeout_seconds":-1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.json")
			if err := os.WriteFile(path, []byte(tt.body), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadFrom(path); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestWatchReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"hotkey":"ctrl+r"}`), 0644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()
	changes := make(chan *Config, 4)
	errc := make(chan error, 1)
	go func() {
		errc <- Watch(ctx, zerolog.Nop(), path, func(c *Config) { changes <- c })
	}()

	// give the watcher time to register
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(path, []byte(`{"hotkey":"alt+space"}`), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case c := <-changes:
		if c.Hotkey != "alt+space" {
			t.Fatalf("reloaded Hotkey = %q", c.Hotkey)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no reload observed")
	}

	cancel()
	if err := <-errc; err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
}
