// Package capability inspects the desktop session and picks the backend that
// will own the global shortcut.
package capability

import (
	"context"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/petems/whisper-hotkey/internal/hotkey"
)

// DefaultProbeTimeout bounds the single broker query made by Detect.
const DefaultProbeTimeout = 2 * time.Second

// Report describes the detected environment. It is immutable after Detect
// returns and is surfaced for diagnostics only.
type Report struct {
	Backend     hotkey.Backend
	SessionType string
	Compositor  string
	// PortalVersion is nil when the GlobalShortcuts interface is absent.
	PortalVersion *uint32
	Sandboxed     bool
	ProbeError    string
}

// CanConfigure reports whether the broker exposes the interactive
// configuration call (GlobalShortcuts version 2 and later).
func (r Report) CanConfigure() bool {
	return r.PortalVersion != nil && *r.PortalVersion >= 2
}

// LookupEnvFunc exposes environment probing for testability.
type LookupEnvFunc func(string) (string, bool)

// PortalProber queries the shortcut broker. present is false when the
// GlobalShortcuts interface is not exported.
type PortalProber func(ctx context.Context) (version uint32, present bool, err error)

// Options controls Detect. Zero values use the real environment.
type Options struct {
	GOOS    string
	Lookup  LookupEnvFunc
	Exists  func(path string) bool
	Probe   PortalProber
	Timeout time.Duration
}

// Decide is the backend decision table. It is a pure function.
func Decide(wayland, portalPresent bool) hotkey.Backend {
	switch {
	case !wayland:
		return hotkey.DirectOS
	case portalPresent:
		return hotkey.PortalShortcuts
	default:
		return hotkey.RawCaptureFallback
	}
}

// Detect inspects environment variables and queries the broker once.
func Detect(ctx context.Context, opts Options) Report {
	goos := opts.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	lookup := opts.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	exists := opts.Exists
	if exists == nil {
		exists = fileExists
	}

	r := Report{
		SessionType: sessionType(goos, lookup),
		Compositor:  compositorName(lookup),
		Sandboxed:   sandboxed(lookup, exists),
	}

	wayland := goos == "linux" && r.SessionType == "wayland"
	present := false
	if wayland {
		probe := opts.Probe
		if probe == nil {
			probe = ProbePortal
		}
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultProbeTimeout
		}
		pctx, cancel := context.WithTimeout(ctx, timeout)
		version, ok, err := probe(pctx)
		cancel()
		if err != nil {
			r.ProbeError = err.Error()
		}
		if ok {
			present = true
			v := version
			r.PortalVersion = &v
		}
	}

	r.Backend = Decide(wayland, present)
	return r
}

func sessionType(goos string, lookup LookupEnvFunc) string {
	if goos != "linux" {
		return goos
	}
	if v, ok := lookup("XDG_SESSION_TYPE"); ok && v != "" {
		return strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := lookup("WAYLAND_DISPLAY"); ok && v != "" {
		return "wayland"
	}
	if v, ok := lookup("DISPLAY"); ok && v != "" {
		return "x11"
	}
	return "tty"
}

func compositorName(lookup LookupEnvFunc) string {
	if v, ok := lookup("HYPRLAND_INSTANCE_SIGNATURE"); ok && v != "" {
		return "hyprland"
	}
	if v, ok := lookup("SWAYSOCK"); ok && v != "" {
		return "sway"
	}
	v, _ := lookup("XDG_CURRENT_DESKTOP")
	// XDG_CURRENT_DESKTOP is a colon separated list, e.g. "ubuntu:GNOME"
	for _, part := range strings.Split(strings.ToLower(v), ":") {
		switch part {
		case "gnome":
			return "gnome"
		case "kde", "plasma":
			return "kde"
		case "sway":
			return "sway"
		case "hyprland":
			return "hyprland"
		}
	}
	if v != "" {
		return strings.ToLower(v)
	}
	return "unknown"
}

func sandboxed(lookup LookupEnvFunc, exists func(string) bool) bool {
	for _, name := range []string{"FLATPAK_ID", "SNAP"} {
		if v, ok := lookup(name); ok && v != "" {
			return true
		}
	}
	return exists("/.flatpak-info")
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
