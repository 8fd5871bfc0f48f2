//go:build linux

package permissions

import (
	"fmt"
	"os/user"
	"path/filepath"

	"golang.org/x/sys/unix"
)

const inputGlob = "/dev/input/event*"

// ProbeInput checks read access to the evdev nodes without opening them.
func ProbeInput() ProbeResult {
	paths, _ := filepath.Glob(inputGlob)
	if len(paths) == 0 {
		return ProbeResult{
			Status:  StatusUnavailable,
			Message: "no input event devices found under /dev/input",
		}
	}

	var readable []string
	for _, p := range paths {
		if unix.Access(p, unix.R_OK) == nil {
			readable = append(readable, p)
		}
	}
	if len(readable) > 0 {
		return ProbeResult{
			Status:  StatusGranted,
			Message: fmt.Sprintf("%d of %d input devices readable", len(readable), len(paths)),
			Devices: readable,
		}
	}

	name := ""
	if u, err := user.Current(); err == nil {
		name = u.Username
	}
	return ProbeResult{
		Status:   StatusDenied,
		Message:  fmt.Sprintf("none of %d input devices are readable by this user", len(paths)),
		Guidance: InputGuidance(name, deviceGroup(paths[0])),
	}
}

// deviceGroup returns the group owning an input node, falling back to "input".
func deviceGroup(path string) string {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return "input"
	}
	g, err := user.LookupGroupId(fmt.Sprint(st.Gid))
	if err != nil || g.Name == "root" {
		return "input"
	}
	return g.Name
}
