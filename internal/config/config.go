package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

const (
	ModePushToTalk = "PushToTalk"
	ModeToggle     = "Toggle"
)

type Config struct {
	Hotkey               string   `json:"hotkey"`
	HotkeyDarwin         string   `json:"hotkey_darwin"`
	Mode                 string   `json:"mode"` // "PushToTalk" or "Toggle"
	AppID                string   `json:"app_id"`
	ShortcutID           string   `json:"shortcut_id"`
	ShortcutDescription  string   `json:"shortcut_description"`
	PortalTimeoutSeconds int      `json:"portal_timeout_seconds"`
	SocketPath           string   `json:"socket_path"` // empty uses the per-user default
	LogLevel             string   `json:"log_level"`
	OnStart              []string `json:"on_start"` // command run when recording starts
	OnStop               []string `json:"on_stop"`  // command run when recording stops

	path string
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Hotkey:               "ctrl+shift+r",
		HotkeyDarwin:         "alt+space", // Option+Space
		Mode:                 ModeToggle,
		AppID:                "io.github.petems.WhisperHotkey",
		ShortcutID:           "toggle-recording",
		ShortcutDescription:  "Start or stop dictation",
		PortalTimeoutSeconds: 120,
		LogLevel:             "info",
	}
}

// Load reads the config from the default location or returns defaults
func Load() (*Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads the config at path. A missing file yields defaults bound
// to path, so Save creates it there.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	cfg.path = path

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Mode {
	case ModePushToTalk, ModeToggle:
	default:
		return fmt.Errorf("mode must be %q or %q, got %q", ModePushToTalk, ModeToggle, c.Mode)
	}
	if c.PortalTimeoutSeconds < 0 {
		return fmt.Errorf("portal_timeout_seconds must not be negative")
	}
	return nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	path := c.File()

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// File is the path this config was loaded from.
func (c *Config) File() string {
	if c.path == "" {
		return Path()
	}
	return c.path
}

// PlatformHotkey returns the appropriate hotkey for the current platform
func (c *Config) PlatformHotkey() string {
	if runtime.GOOS == "darwin" && c.HotkeyDarwin != "" {
		return c.HotkeyDarwin
	}
	return c.Hotkey
}

// PortalTimeout bounds the portal bind, which may wait on a user dialog.
func (c *Config) PortalTimeout() time.Duration {
	if c.PortalTimeoutSeconds <= 0 {
		return 2 * time.Minute
	}
	return time.Duration(c.PortalTimeoutSeconds) * time.Second
}

// Path returns the platform-specific config file path
func Path() string {
	var base string

	switch runtime.GOOS {
	case "darwin":
		base = os.Getenv("HOME") + "/Library/Application Support"
	case "windows":
		base = os.Getenv("APPDATA")
	default: // linux
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			base = xdg
		} else {
			base = os.Getenv("HOME") + "/.config"
		}
	}

	return filepath.Join(base, "whisper-hotkey", "config.json")
}
