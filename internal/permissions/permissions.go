// Package permissions checks whether the process may read keyboard input
// devices and explains how to fix it when it may not.
package permissions

import (
	"fmt"
	"strings"
)

// Status enumerates coarse results of a permission probe.
type Status string

const (
	StatusGranted     Status = "granted"
	StatusDenied      Status = "denied"
	StatusUnavailable Status = "unavailable"
)

// ProbeResult is the outcome of probing input-device access.
type ProbeResult struct {
	Status   Status
	Message  string
	Guidance string
	Devices  []string
}

// InputGuidance is the remediation text for a user who cannot read
// /dev/input. There is no automatic recovery; every step needs the user.
func InputGuidance(user, group string) string {
	if user == "" {
		user = "$USER"
	}
	if group == "" {
		group = "input"
	}
	steps := []string{
		fmt.Sprintf("add your account to the %q group: sudo usermod -aG %s %s", group, group, user),
		fmt.Sprintf("or install a udev rule, e.g. /etc/udev/rules.d/99-whisper-hotkey.rules containing: KERNEL==\"event*\", SUBSYSTEM==\"input\", GROUP=\"%s\", MODE=\"0640\"", group),
		"then reload rules (sudo udevadm control --reload && sudo udevadm trigger) and log out and back in",
	}
	return strings.Join(steps, "; ")
}
