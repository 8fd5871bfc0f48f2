package portal

import (
	"strings"
	"testing"

	"github.com/petems/whisper-hotkey/internal/hotkey"
)

func TestInstructionsPerCompositor(t *testing.T) {
	tests := []struct {
		compositor string
		want       string
	}{
		{"gnome", "GNOME Settings"},
		{"GNOME", "GNOME Settings"},
		{"kde", "System Settings"},
		{"sway", "bindsym Ctrl+Shift+r exec whisper-hotkey --toggle"},
		{"hyprland", "hyprland.conf"},
		{"river", "keyboard shortcut settings"},
	}
	for _, tt := range tests {
		t.Run(tt.compositor, func(t *testing.T) {
			got := Instructions(tt.compositor, hotkey.MustParse("ctrl+shift+r"))
			if !strings.Contains(got, tt.want) {
				t.Fatalf("Instructions(%q) = %q, want it to contain %q", tt.compositor, got, tt.want)
			}
		})
	}
}

func TestInstructionsSpellTriggerPerCompositor(t *testing.T) {
	tests := []struct {
		compositor string
		hotkey     string
		want       string
	}{
		{"hyprland", "super+shift+r", "bind = SUPER SHIFT, R, exec, whisper-hotkey --toggle"},
		{"hyprland", "f9", "bind = , F9, exec, whisper-hotkey --toggle"},
		{"sway", "super+shift+r", "bindsym Mod4+Shift+r exec whisper-hotkey --toggle"},
		{"sway", "alt+enter", "bindsym Mod1+Return exec"},
		{"gnome", "super+shift+r", "record Shift+Super+R"},
		{"kde", "super+space", "assign Meta+Space"},
		{"river", "ctrl+pageup", "bound to Ctrl+Page_Up"},
	}
	for _, tt := range tests {
		t.Run(tt.compositor+"/"+tt.hotkey, func(t *testing.T) {
			got := Instructions(tt.compositor, hotkey.MustParse(tt.hotkey))
			if !strings.Contains(got, tt.want) {
				t.Fatalf("Instructions(%q, %s) = %q, want it to contain %q", tt.compositor, tt.hotkey, got, tt.want)
			}
			if strings.Contains(got, "LOGO") {
				t.Fatalf("portal modifier names leaked into %q", got)
			}
		})
	}
}

func TestInstructionsWithoutTrigger(t *testing.T) {
	got := Instructions("unknown", hotkey.Spec{})
	if strings.Contains(got, "bound to") {
		t.Fatalf("empty trigger should be omitted: %q", got)
	}
	if !strings.Contains(got, ToggleCommand) {
		t.Fatalf("instructions must name the toggle command: %q", got)
	}
}

func TestEveryCompositorRenders(t *testing.T) {
	names := KnownCompositors()
	if len(names) != 4 {
		t.Fatalf("KnownCompositors() = %v", names)
	}
	for _, name := range names {
		if got := Instructions(name, hotkey.MustParse("ctrl+r")); strings.Contains(got, "{{") {
			t.Errorf("%s: template not rendered: %q", name, got)
		}
	}
}
