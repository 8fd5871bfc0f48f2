package permissions

import (
	"strings"
	"testing"
)

func TestInputGuidance(t *testing.T) {
	got := InputGuidance("alice", "input")
	for _, want := range []string{"usermod -aG input alice", "udev", "log out"} {
		if !strings.Contains(got, want) {
			t.Errorf("guidance %q missing %q", got, want)
		}
	}
}

func TestInputGuidanceDefaults(t *testing.T) {
	got := InputGuidance("", "")
	if !strings.Contains(got, "usermod -aG input $USER") {
		t.Fatalf("guidance %q should fall back to $USER and the input group", got)
	}
}

func TestProbeInputStatusIsSet(t *testing.T) {
	res := ProbeInput()
	switch res.Status {
	case StatusGranted, StatusDenied, StatusUnavailable:
	default:
		t.Fatalf("unexpected status %q", res.Status)
	}
	if res.Status == StatusDenied && res.Guidance == "" {
		t.Fatal("denied result must carry guidance")
	}
}
