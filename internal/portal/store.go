package portal

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/petems/whisper-hotkey/internal/hotkey"
)

// Store reads bindings the compositor has already approved. Lookups are
// read-only.
type Store interface {
	Lookup(ctx context.Context, appID, shortcutID string) (Binding, bool, error)
}

const dconfTimeout = 3 * time.Second

// DconfStore reads GNOME's global-shortcuts database through the dconf
// command line tool.
type DconfStore struct {
	// Run returns the output of `dconf read key`. Nil runs the real binary.
	Run func(ctx context.Context, key string) ([]byte, error)
}

func dconfRead(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, dconfTimeout)
	defer cancel()
	return exec.CommandContext(ctx, "dconf", "read", key).Output()
}

// dconfKey is where GNOME keeps the shortcuts approved for one application.
func dconfKey(appID string) string {
	return "/org/gnome/settings-daemon/global-shortcuts/" + appID + "/shortcuts"
}

func (s DconfStore) Lookup(ctx context.Context, appID, shortcutID string) (Binding, bool, error) {
	run := s.Run
	if run == nil {
		run = dconfRead
	}
	out, err := run(ctx, dconfKey(appID))
	if err != nil {
		return Binding{}, false, fmt.Errorf("dconf read %s: %w", dconfKey(appID), err)
	}
	accel, ok := findTrigger(string(out), shortcutID)
	if !ok {
		return Binding{}, false, nil
	}
	spec, err := hotkey.ParseAccelerator(accel)
	if err != nil {
		return Binding{}, false, fmt.Errorf("stored trigger for %s: %w", shortcutID, err)
	}
	return Binding{ShortcutID: shortcutID, TriggerDescription: spec.Canonical()}, true, nil
}

// The stored value is a GVariant text dump such as
//
//	[('toggle-recording', {'shortcuts': <['<Control><Alt>r']>, 'description': <'Toggle'>})]
var shortcutsRE = regexp.MustCompile(`'shortcuts':\s*<\[\s*'([^']*)'`)

func findTrigger(dump, shortcutID string) (string, bool) {
	start := strings.Index(dump, "('"+shortcutID+"'")
	if start < 0 {
		return "", false
	}
	rest := dump[start:]
	// stop at the next entry
	if end := strings.Index(rest[1:], "('"); end >= 0 {
		rest = rest[:end+1]
	}
	m := shortcutsRE.FindStringSubmatch(rest)
	if m == nil || m[1] == "" {
		return "", false
	}
	return m[1], true
}
