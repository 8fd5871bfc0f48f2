package portal

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/petems/whisper-hotkey/internal/hotkey"
	"github.com/rs/zerolog"
)

const closeTimeout = 2 * time.Second

// errStreamEnded is reported by Err when the broker stopped delivering
// signals while the handle was still open.
var errStreamEnded = errors.New("portal activation stream ended")

// Handle is a bound portal shortcut. It only ever produces Pressed; the
// broker has no release signal this handle relies on.
type Handle struct {
	log       zerolog.Logger
	b         broker
	cfg       Config
	requested hotkey.Spec
	sigs      <-chan portalSignal

	events  chan hotkey.Event
	changed chan string
	done    chan struct{}
	wg      sync.WaitGroup

	mu      sync.Mutex
	session dbus.ObjectPath
	binding Binding
	err     error

	closeOnce  sync.Once
	eventsOnce sync.Once
}

func newHandle(log zerolog.Logger, b broker, cfg Config, session dbus.ObjectPath, binding Binding, requested hotkey.Spec, sigs <-chan portalSignal) *Handle {
	h := &Handle{
		log:       log,
		b:         b,
		cfg:       cfg,
		requested: requested,
		sigs:      sigs,
		events:    make(chan hotkey.Event, 8),
		changed:   make(chan string, 1),
		done:      make(chan struct{}),
		session:   session,
		binding:   binding,
	}
	h.wg.Go(h.listen)
	return h
}

func (h *Handle) Events() <-chan hotkey.Event { return h.events }

// ReleaseSupported is always false: push-to-talk cannot work through the
// portal.
func (h *Handle) ReleaseSupported() bool { return false }

// Binding returns the currently accepted binding.
func (h *Handle) Binding() Binding {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.binding
}

// Err reports why the event stream ended. It is nil while the handle is
// live and after a regular Close.
func (h *Handle) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

func (h *Handle) listen() {
	defer h.closeEvents()
	for {
		select {
		case <-h.done:
			return
		case sig, ok := <-h.sigs:
			if !ok {
				select {
				case <-h.done:
				default:
					h.mu.Lock()
					h.err = &hotkey.Error{
						Kind:        hotkey.KindBrokerUnavailable,
						Op:          "listen",
						Msg:         "lost the connection to the desktop portal",
						Remediation: "restart whisper-hotkey once the desktop portal is running again",
						Err:         errStreamEnded,
					}
					h.mu.Unlock()
					h.log.Error().Msg("Portal activation stream ended")
				}
				return
			}
			h.dispatch(sig)
		}
	}
}

func (h *Handle) dispatch(sig portalSignal) {
	h.mu.Lock()
	session := h.session
	id := h.binding.ShortcutID
	h.mu.Unlock()

	// without a session of our own (cached binding) any session matches
	if session != "" && sig.session != session {
		return
	}

	switch sig.kind {
	case signalActivated:
		if sig.shortcutID != id {
			return
		}
		select {
		case h.events <- hotkey.Event{Kind: hotkey.Pressed, Source: hotkey.PortalShortcuts.String(), At: sig.at}:
		case <-h.done:
		}
	case signalShortcutsChanged:
		trigger, ok := sig.triggers[id]
		if !ok {
			return
		}
		h.mu.Lock()
		h.binding.TriggerDescription = trigger
		h.mu.Unlock()
		h.log.Info().Str("trigger", trigger).Msg("Portal shortcut changed")
		select {
		case h.changed <- trigger:
		default:
		}
	}
}

// OpenConfiguration opens the broker's shortcut dialog (GlobalShortcuts
// version 2) and waits for the user to pick a new trigger. changed is false
// when ctx ends before the broker reports a change.
func (h *Handle) OpenConfiguration(ctx context.Context) (trigger string, changed bool, err error) {
	if h.cfg.Version < 2 {
		return "", false, errConfigureUnsupported(h.cfg, h.boundSpec())
	}

	session, err := h.ensureSession(ctx)
	if err != nil {
		return "", false, err
	}

	// drop a change reported before this call
	select {
	case <-h.changed:
	default:
	}

	if err := h.b.ConfigureShortcuts(ctx, session); err != nil {
		return "", false, &hotkey.Error{
			Kind:        hotkey.KindBrokerUnavailable,
			Op:          "configure shortcuts",
			Msg:         "the configuration dialog could not be opened",
			Remediation: Instructions(h.cfg.Compositor, h.boundSpec()),
			Err:         err,
		}
	}

	select {
	case t := <-h.changed:
		return t, true, nil
	case <-ctx.Done():
		return h.Binding().TriggerDescription, false, nil
	case <-h.done:
		return "", false, fmt.Errorf("configure shortcuts: handle closed")
	}
}

// boundSpec is the accepted trigger as a Spec, or the requested one when
// the broker's description cannot be read back.
func (h *Handle) boundSpec() hotkey.Spec {
	if spec, err := hotkey.ParseAccelerator(h.Binding().TriggerDescription); err == nil {
		return spec
	}
	return h.requested
}

// ensureSession creates a session for a handle that was set up from a
// cached binding. The broker needs the shortcut bound in a live session
// before it can configure it; an approved binding answers without a dialog.
func (h *Handle) ensureSession(ctx context.Context) (dbus.ObjectPath, error) {
	h.mu.Lock()
	session := h.session
	h.mu.Unlock()
	if session != "" {
		return session, nil
	}

	s := &Session{log: h.log, cfg: h.cfg}
	session, binding, err := s.bind(ctx, h.b, h.requested)
	if err != nil {
		return "", err
	}
	h.mu.Lock()
	h.session = session
	h.binding = binding
	h.mu.Unlock()
	return session, nil
}

func (h *Handle) closeEvents() {
	h.eventsOnce.Do(func() { close(h.events) })
}

// Close ends the session and the bus connection, then waits for the
// listener to stop.
func (h *Handle) Close() error {
	var err error
	h.closeOnce.Do(func() {
		close(h.done)

		h.mu.Lock()
		session := h.session
		h.mu.Unlock()
		if session != "" {
			ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
			if cerr := h.b.CloseSession(ctx, session); cerr != nil {
				h.log.Debug().Err(cerr).Msg("Closing portal session failed")
			}
			cancel()
		}
		err = h.b.Close()

		stopped := make(chan struct{})
		go func() {
			h.wg.Wait()
			close(stopped)
		}()
		select {
		case <-stopped:
			h.closeEvents()
		case <-time.After(closeTimeout):
			// listen closes events itself once it returns
			h.log.Warn().Msg("Portal listener did not stop in time")
		}
	})
	return err
}
