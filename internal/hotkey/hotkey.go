package hotkey

import (
	"context"
	"time"
)

// Backend identifies which mechanism owns the global shortcut.
// It is chosen once per process; switching requires a restart.
type Backend int

const (
	DirectOS Backend = iota
	PortalShortcuts
	RawCaptureFallback
)

func (b Backend) String() string {
	switch b {
	case DirectOS:
		return "direct"
	case PortalShortcuts:
		return "portal"
	case RawCaptureFallback:
		return "rawcapture"
	default:
		return "unknown"
	}
}

// EventKind distinguishes key-down from key-up activations
type EventKind int

const (
	Pressed EventKind = iota
	Released
)

func (k EventKind) String() string {
	if k == Released {
		return "released"
	}
	return "pressed"
}

// Event is a single activation of the configured shortcut.
type Event struct {
	Kind   EventKind
	Source string
	At     time.Time
}

// Handle is a claimed shortcut. Close releases the claim so the same
// combination can be claimed again; it is safe to call more than once.
// The Events channel is closed once the producer has stopped.
type Handle interface {
	Events() <-chan Event
	Close() error
}

// Registrar claims a shortcut on one backend.
type Registrar interface {
	Register(ctx context.Context, spec Spec) (Handle, error)
}

// ReleaseReporter is implemented by handles that know whether their backend
// can ever deliver Released events.
type ReleaseReporter interface {
	ReleaseSupported() bool
}
