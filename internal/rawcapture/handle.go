package rawcapture

import (
	"sync"
	"time"

	"github.com/petems/whisper-hotkey/internal/hotkey"
	"github.com/rs/zerolog"
)

// closeTimeout bounds how long Close waits for blocked device reads.
const closeTimeout = 2 * time.Second

// keySource is one opened input device delivering key events.
type keySource interface {
	// readKey blocks until the next key event. It returns an error once the
	// source is closed.
	readKey() (code uint16, value int32, err error)
	name() string
	Close() error
}

type keyEvent struct {
	code  uint16
	value int32
}

// handle owns the opened devices for one claimed chord. Every event is only
// observed; devices are never grabbed, so typing reaches other applications.
type handle struct {
	log     zerolog.Logger
	sources []keySource
	raw     chan keyEvent
	events  chan hotkey.Event
	done    chan struct{}

	readers     sync.WaitGroup
	readersDone chan struct{}
	owner       sync.WaitGroup
	once        sync.Once
	eventsOnce  sync.Once

	mu  sync.Mutex
	err error
}

func newHandle(log zerolog.Logger, c chord, sources []keySource) *handle {
	h := &handle{
		log:     log,
		sources: sources,
		raw:     make(chan keyEvent, 64),
		events:  make(chan hotkey.Event, 8),
		done:    make(chan struct{}),

		readersDone: make(chan struct{}),
	}
	for _, src := range sources {
		h.readers.Go(func() { h.readLoop(src) })
	}
	go func() {
		h.readers.Wait()
		close(h.readersDone)
	}()
	h.owner.Go(func() { h.matchLoop(newMatcher(c)) })
	return h
}

func (h *handle) Events() <-chan hotkey.Event { return h.events }

// ReleaseSupported is always true: key-up is visible at the device layer.
func (h *handle) ReleaseSupported() bool { return true }

// Err reports why the event stream ended. It is nil while the handle is
// live and after Close.
func (h *handle) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

func (h *handle) readLoop(src keySource) {
	for {
		code, value, err := src.readKey()
		if err != nil {
			select {
			case <-h.done:
			default:
				h.log.Warn().Err(err).Str("device", src.name()).Msg("Input device read failed")
			}
			return
		}
		select {
		case h.raw <- keyEvent{code: code, value: value}:
		case <-h.done:
			return
		}
	}
}

// matchLoop is the only goroutine touching the pressed-key set.
func (h *handle) matchLoop(m *matcher) {
	for {
		select {
		case <-h.done:
			return
		case <-h.readersDone:
			select {
			case <-h.done:
				return
			default:
			}
			h.mu.Lock()
			h.err = &hotkey.Error{
				Kind:        hotkey.KindPermissionDenied,
				Op:          "read input devices",
				Msg:         "every watched keyboard stopped delivering events",
				Remediation: "reconnect the keyboard, then restart whisper-hotkey",
			}
			h.mu.Unlock()
			h.log.Error().Msg("All input devices are gone")
			h.closeEvents()
			return
		case ev := <-h.raw:
			kind, ok := m.handle(ev.code, ev.value)
			if !ok {
				continue
			}
			select {
			case h.events <- hotkey.Event{Kind: kind, Source: hotkey.RawCaptureFallback.String(), At: time.Now()}:
			case <-h.done:
				return
			}
		}
	}
}

// Close stops the listener and closes every device. Safe to call repeatedly.
func (h *handle) Close() error {
	var firstErr error
	h.once.Do(func() {
		close(h.done)
		for _, src := range h.sources {
			if err := src.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}

		select {
		case <-h.readersDone:
		case <-time.After(closeTimeout):
			h.log.Warn().Msg("Timeout waiting for input readers to stop")
		}

		h.owner.Wait()
		h.closeEvents()
	})
	return firstErr
}

func (h *handle) closeEvents() {
	h.eventsOnce.Do(func() { close(h.events) })
}
