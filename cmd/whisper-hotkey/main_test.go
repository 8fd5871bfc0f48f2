package main

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/petems/whisper-hotkey/internal/capability"
	"github.com/petems/whisper-hotkey/internal/hotkey"
)

func TestPrintReportPortal(t *testing.T) {
	v := uint32(2)
	var buf bytes.Buffer
	printReport(&buf, capability.Report{
		Backend:       hotkey.PortalShortcuts,
		SessionType:   "wayland",
		Compositor:    "gnome",
		PortalVersion: &v,
	}, "ctrl+shift+r")

	out := buf.String()
	for _, want := range []string{"backend:     portal", "portal:      2", "ctrl+shift+r -> CTRL+SHIFT+r", "configure:   true"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintReportInvalidHotkey(t *testing.T) {
	var buf bytes.Buffer
	printReport(&buf, capability.Report{Backend: hotkey.DirectOS}, "ctrl+")
	if !strings.Contains(buf.String(), "is invalid") {
		t.Fatalf("output = %q", buf.String())
	}
}

func TestToggleWithoutInstance(t *testing.T) {
	dir := t.TempDir()
	cmd := newRootCmd()
	var stderr bytes.Buffer
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{
		"--toggle",
		"--config", filepath.Join(dir, "config.json"),
		"--socket", filepath.Join(dir, "none.sock"),
	})

	err := cmd.Execute()
	if !errors.Is(err, hotkey.ErrConnection) {
		t.Fatalf("Execute() error = %v, want ConnectionError", err)
	}
	if !strings.Contains(stderr.String(), "start whisper-hotkey first") {
		t.Fatalf("stderr should carry remediation, got %q", stderr.String())
	}
}
