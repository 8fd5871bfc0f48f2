// Package portal binds the global shortcut through the desktop portal
// GlobalShortcuts broker (org.freedesktop.portal.GlobalShortcuts).
package portal

import (
	"context"
	"errors"
	"fmt"

	"github.com/godbus/dbus/v5"
	"github.com/petems/whisper-hotkey/internal/hotkey"
	"github.com/rs/zerolog"
)

// Binding is the trigger the broker actually accepted for a shortcut id. It
// may differ from the requested one after conflict resolution.
type Binding struct {
	ShortcutID         string
	TriggerDescription string
}

// Config identifies the application and the one shortcut it binds.
type Config struct {
	AppID       string
	ShortcutID  string
	Description string
	// Version is the GlobalShortcuts interface version reported by the
	// capability probe. 2 and later support ConfigureShortcuts.
	Version    uint32
	Compositor string
}

// Session negotiates a binding with the broker. Register may block for as
// long as the user takes to answer the broker's dialog; callers bound it
// with ctx.
type Session struct {
	log   zerolog.Logger
	cfg   Config
	store Store
	dial  func(ctx context.Context) (broker, error)
}

// NewSession returns a Session using the session bus. store may be nil,
// in which case no cached binding is consulted.
func NewSession(log zerolog.Logger, cfg Config, store Store) *Session {
	return &Session{log: log, cfg: cfg, store: store, dial: dialBroker}
}

// Register binds spec and starts listening for activations.
//
// A binding already present in the compositor store is reused without a
// BindShortcuts call. Otherwise a session is created and the broker is
// asked to bind the shortcut, which may show a dialog.
func (s *Session) Register(ctx context.Context, spec hotkey.Spec) (hotkey.Handle, error) {
	trigger, err := hotkey.ToNative(spec, hotkey.PortalShortcuts)
	if err != nil {
		return nil, err
	}

	b, err := s.dial(ctx)
	if err != nil {
		return nil, s.unavailable("connect", err)
	}

	// not every broker exposes the registry interface
	if err := b.RegisterApp(ctx, s.cfg.AppID); err != nil {
		s.log.Warn().Err(err).Str("app_id", s.cfg.AppID).Msg("Portal registry unavailable, continuing")
	}

	binding, cached := s.cached(ctx)

	// subscribe before binding so an activation right after acceptance is kept
	sigs, err := b.Subscribe()
	if err != nil {
		b.Close()
		return nil, s.unavailable("subscribe", err)
	}

	var session dbus.ObjectPath
	if cached {
		s.log.Info().
			Str("shortcut_id", binding.ShortcutID).
			Str("trigger", binding.TriggerDescription).
			Msg("Reusing approved portal binding")
	} else {
		session, binding, err = s.bind(ctx, b, spec)
		if err != nil {
			b.Close()
			return nil, err
		}
		if binding.TriggerDescription != trigger {
			s.log.Info().
				Str("requested", trigger).
				Str("accepted", binding.TriggerDescription).
				Msg("Broker bound a different trigger")
		}
	}

	h := newHandle(s.log, b, s.cfg, session, binding, spec, sigs)
	return h, nil
}

func (s *Session) cached(ctx context.Context) (Binding, bool) {
	if s.store == nil {
		return Binding{}, false
	}
	binding, ok, err := s.store.Lookup(ctx, s.cfg.AppID, s.cfg.ShortcutID)
	if err != nil {
		s.log.Debug().Err(err).Msg("Shortcut store lookup failed")
		return Binding{}, false
	}
	return binding, ok
}

func (s *Session) bind(ctx context.Context, b broker, spec hotkey.Spec) (dbus.ObjectPath, Binding, error) {
	trigger, err := hotkey.ToNative(spec, hotkey.PortalShortcuts)
	if err != nil {
		return "", Binding{}, err
	}
	session, err := b.CreateSession(ctx)
	if err != nil {
		return "", Binding{}, s.classify("create session", spec, err)
	}
	accepted, err := b.BindShortcuts(ctx, session, s.cfg.ShortcutID, s.cfg.Description, trigger)
	if err != nil {
		return "", Binding{}, s.classify("bind shortcuts", spec, err)
	}
	return session, Binding{ShortcutID: s.cfg.ShortcutID, TriggerDescription: accepted}, nil
}

// classify maps a non-success response to BindRejected and everything else
// to BrokerUnavailable.
func (s *Session) classify(op string, spec hotkey.Spec, err error) error {
	var resp *responseError
	if errors.As(err, &resp) {
		return &hotkey.Error{
			Kind:        hotkey.KindBindRejected,
			Op:          op,
			Msg:         "the shortcut was not approved",
			Remediation: Instructions(s.cfg.Compositor, spec),
			Err:         err,
		}
	}
	return s.unavailable(op, err)
}

func (s *Session) unavailable(op string, err error) error {
	return &hotkey.Error{
		Kind:        hotkey.KindBrokerUnavailable,
		Op:          op,
		Msg:         "desktop portal did not answer",
		Remediation: "make sure xdg-desktop-portal and a backend for your desktop are running",
		Err:         err,
	}
}

// errConfigureUnsupported is returned by OpenConfiguration on brokers older
// than version 2.
func errConfigureUnsupported(cfg Config, spec hotkey.Spec) error {
	return &hotkey.Error{
		Kind:        hotkey.KindBrokerUnavailable,
		Op:          "configure shortcuts",
		Msg:         fmt.Sprintf("GlobalShortcuts version %d has no configuration dialog", cfg.Version),
		Remediation: Instructions(cfg.Compositor, spec),
	}
}
