package capability

import (
	"context"
	"errors"
	"testing"

	"github.com/petems/whisper-hotkey/internal/hotkey"
)

func envOf(vars map[string]string) LookupEnvFunc {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func noFiles(string) bool { return false }

func TestDecide(t *testing.T) {
	tests := []struct {
		name    string
		wayland bool
		portal  bool
		want    hotkey.Backend
	}{
		{"x11 without portal", false, false, hotkey.DirectOS},
		{"x11 with portal", false, true, hotkey.DirectOS},
		{"wayland with portal", true, true, hotkey.PortalShortcuts},
		{"wayland without portal", true, false, hotkey.RawCaptureFallback},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decide(tt.wayland, tt.portal); got != tt.want {
				t.Fatalf("Decide(%v, %v) = %s, want %s", tt.wayland, tt.portal, got, tt.want)
			}
		})
	}
}

func TestDetectWaylandWithPortal(t *testing.T) {
	probed := 0
	r := Detect(context.Background(), Options{
		GOOS:   "linux",
		Lookup: envOf(map[string]string{"XDG_SESSION_TYPE": "wayland", "XDG_CURRENT_DESKTOP": "ubuntu:GNOME"}),
		Exists: noFiles,
		Probe: func(ctx context.Context) (uint32, bool, error) {
			probed++
			if _, ok := ctx.Deadline(); !ok {
				t.Error("probe context should carry a deadline")
			}
			return 2, true, nil
		},
	})

	if probed != 1 {
		t.Fatalf("probe called %d times, want 1", probed)
	}
	if r.Backend != hotkey.PortalShortcuts {
		t.Fatalf("Backend = %s, want portal", r.Backend)
	}
	if r.Compositor != "gnome" {
		t.Fatalf("Compositor = %q, want gnome", r.Compositor)
	}
	if r.PortalVersion == nil || *r.PortalVersion != 2 || !r.CanConfigure() {
		t.Fatalf("expected portal version 2 with configure support, got %+v", r.PortalVersion)
	}
}

func TestDetectWaylandWithoutPortal(t *testing.T) {
	r := Detect(context.Background(), Options{
		GOOS:   "linux",
		Lookup: envOf(map[string]string{"WAYLAND_DISPLAY": "wayland-1", "HYPRLAND_INSTANCE_SIGNATURE": "abc"}),
		Exists: noFiles,
		Probe: func(context.Context) (uint32, bool, error) {
			return 0, false, errors.New("no bus")
		},
	})

	if r.Backend != hotkey.RawCaptureFallback {
		t.Fatalf("Backend = %s, want rawcapture", r.Backend)
	}
	if r.Compositor != "hyprland" {
		t.Fatalf("Compositor = %q, want hyprland", r.Compositor)
	}
	if r.PortalVersion != nil || r.CanConfigure() {
		t.Fatal("portal version should be absent")
	}
	if r.ProbeError == "" {
		t.Fatal("probe error should be recorded for diagnostics")
	}
}

func TestDetectX11SkipsProbe(t *testing.T) {
	r := Detect(context.Background(), Options{
		GOOS:   "linux",
		Lookup: envOf(map[string]string{"XDG_SESSION_TYPE": "x11", "DISPLAY": ":0"}),
		Exists: noFiles,
		Probe: func(context.Context) (uint32, bool, error) {
			t.Fatal("probe must not run outside Wayland")
			return 0, false, nil
		},
	})
	if r.Backend != hotkey.DirectOS {
		t.Fatalf("Backend = %s, want direct", r.Backend)
	}
}

func TestDetectNonLinux(t *testing.T) {
	r := Detect(context.Background(), Options{
		GOOS:   "darwin",
		Lookup: envOf(map[string]string{"WAYLAND_DISPLAY": "wayland-0"}),
		Exists: noFiles,
		Probe: func(context.Context) (uint32, bool, error) {
			t.Fatal("probe must not run on darwin")
			return 0, false, nil
		},
	})
	if r.Backend != hotkey.DirectOS {
		t.Fatalf("Backend = %s, want direct", r.Backend)
	}
	if r.SessionType != "darwin" {
		t.Fatalf("SessionType = %q", r.SessionType)
	}
}

func TestDetectSandbox(t *testing.T) {
	r := Detect(context.Background(), Options{
		GOOS:   "linux",
		Lookup: envOf(map[string]string{"XDG_SESSION_TYPE": "x11"}),
		Exists: func(path string) bool { return path == "/.flatpak-info" },
	})
	if !r.Sandboxed {
		t.Fatal("expected sandboxed when /.flatpak-info exists")
	}

	r = Detect(context.Background(), Options{
		GOOS:   "linux",
		Lookup: envOf(map[string]string{"XDG_SESSION_TYPE": "x11", "SNAP": "/snap/app/1"}),
		Exists: noFiles,
	})
	if !r.Sandboxed {
		t.Fatal("expected sandboxed under snap")
	}
}
