//go:build !linux

package permissions

// ProbeInput reports raw input capture as unavailable off Linux.
func ProbeInput() ProbeResult {
	return ProbeResult{
		Status:   StatusUnavailable,
		Message:  "raw input capture is only supported on Linux",
		Guidance: "use the native hotkey backend on this platform",
	}
}
