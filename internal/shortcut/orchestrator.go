// Package shortcut owns the global shortcut for the process: it detects the
// environment once, registers on the matching backend and forwards
// activations to a single consumer.
package shortcut

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/petems/whisper-hotkey/internal/capability"
	"github.com/petems/whisper-hotkey/internal/hotkey"
	"github.com/petems/whisper-hotkey/internal/portal"
	"github.com/rs/zerolog"
)

const (
	DefaultPortalTimeout = 2 * time.Minute
	closeTimeout         = 2 * time.Second
)

// State is the lifecycle state of the Orchestrator.
type State int

const (
	Uninitialized State = iota
	DirectActive
	PortalActive
	FallbackActive
	Failed
)

func (s State) String() string {
	switch s {
	case DirectActive:
		return "DirectActive"
	case PortalActive:
		return "PortalActive"
	case FallbackActive:
		return "FallbackActive"
	case Failed:
		return "Failed"
	default:
		return "Uninitialized"
	}
}

func activeState(b hotkey.Backend) State {
	switch b {
	case hotkey.DirectOS:
		return DirectActive
	case hotkey.PortalShortcuts:
		return PortalActive
	default:
		return FallbackActive
	}
}

// Options wires the backends. Portal builds a registrar from the detected
// report so it can use the broker version and compositor name.
type Options struct {
	Detect        func(ctx context.Context) capability.Report
	Direct        hotkey.Registrar
	Portal        func(report capability.Report) hotkey.Registrar
	Raw           hotkey.Registrar
	PortalTimeout time.Duration
}

// Diagnostics is a snapshot for display and logs.
type Diagnostics struct {
	Report           capability.Report
	State            State
	Trigger          string
	LastError        string
	Remediation      string
	RestartRequired  bool
	ReleaseSupported bool
}

// Orchestrator is safe for concurrent use. Exactly one backend is active
// per process.
type Orchestrator struct {
	log  zerolog.Logger
	opts Options

	ctx    context.Context
	cancel context.CancelFunc

	events  chan hotkey.Event
	settled chan struct{}

	mu              sync.Mutex
	started         bool
	shut            bool
	state           State
	report          capability.Report
	backend         hotkey.Backend
	handle          hotkey.Handle
	forwarded       chan struct{}
	spec            hotkey.Spec
	trigger         string
	lastErr         error
	restartRequired bool

	updateMu    sync.Mutex
	sendMu      sync.RWMutex
	closed      bool
	wg          sync.WaitGroup
	closeOnce   sync.Once
	settledOnce sync.Once
}

func New(log zerolog.Logger, opts Options) *Orchestrator {
	if opts.PortalTimeout <= 0 {
		opts.PortalTimeout = DefaultPortalTimeout
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Orchestrator{
		log:     log,
		opts:    opts,
		ctx:     ctx,
		cancel:  cancel,
		events:  make(chan hotkey.Event, 16),
		settled: make(chan struct{}),
	}
}

// Events is the single activation stream. It is closed by Close.
func (o *Orchestrator) Events() <-chan hotkey.Event { return o.events }

// Settled is closed once startup registration has finished, successfully
// or not.
func (o *Orchestrator) Settled() <-chan struct{} { return o.settled }

// Start detects the environment and registers spec in the background. It
// returns immediately; watch Settled or Diagnostics for the outcome.
func (o *Orchestrator) Start(ctx context.Context, spec hotkey.Spec) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.started {
		return errors.New("orchestrator already started")
	}
	if o.shut {
		return errors.New("orchestrator closed")
	}
	o.started = true

	// stop startup when either the caller or Close cancels
	runCtx, cancel := context.WithCancel(o.ctx)
	stop := context.AfterFunc(ctx, cancel)
	o.wg.Go(func() {
		defer stop()
		defer cancel()
		defer o.markSettled()
		o.start(runCtx, spec)
	})
	return nil
}

func (o *Orchestrator) markSettled() {
	o.settledOnce.Do(func() { close(o.settled) })
}

func (o *Orchestrator) start(ctx context.Context, spec hotkey.Spec) {
	report := o.opts.Detect(ctx)
	o.mu.Lock()
	o.report = report
	o.backend = report.Backend
	o.spec = spec
	o.mu.Unlock()

	o.log.Info().
		Str("backend", report.Backend.String()).
		Str("session", report.SessionType).
		Str("compositor", report.Compositor).
		Bool("sandboxed", report.Sandboxed).
		Msg("Detected desktop capabilities")

	backend := report.Backend
	h, err := o.register(ctx, backend, spec)
	if backend == hotkey.PortalShortcuts && err != nil && portalFallback(err) {
		o.log.Warn().Err(err).Msg("Portal binding failed, falling back to raw input capture")
		backend = hotkey.RawCaptureFallback
		h, err = o.register(ctx, backend, spec)
		if err != nil {
			err = withInstructions(err, report.Compositor, spec)
		}
	}
	if err != nil {
		o.fail(backend, err)
		return
	}
	o.install(backend, spec, h)
}

// portalFallback reports whether a startup portal error allows trying raw
// capture instead.
func portalFallback(err error) bool {
	switch hotkey.KindOf(err) {
	case hotkey.KindBrokerUnavailable, hotkey.KindBindRejected:
		return true
	}
	return false
}

func (o *Orchestrator) register(ctx context.Context, backend hotkey.Backend, spec hotkey.Spec) (hotkey.Handle, error) {
	var r hotkey.Registrar
	switch backend {
	case hotkey.DirectOS:
		r = o.opts.Direct
	case hotkey.PortalShortcuts:
		if o.opts.Portal != nil {
			o.mu.Lock()
			report := o.report
			o.mu.Unlock()
			r = o.opts.Portal(report)
		}
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.opts.PortalTimeout)
		defer cancel()
	case hotkey.RawCaptureFallback:
		r = o.opts.Raw
	}
	if r == nil {
		return nil, &hotkey.Error{Kind: hotkey.KindUnknown, Op: "register", Msg: fmt.Sprintf("no %s registrar configured", backend)}
	}
	o.log.Debug().Str("backend", backend.String()).Str("hotkey", spec.Canonical()).Msg("Registering hotkey")
	return r.Register(ctx, spec)
}

// withInstructions attaches manual compositor setup to the remediation of a
// terminal fallback failure.
func withInstructions(err error, compositor string, spec hotkey.Spec) error {
	var he *hotkey.Error
	if !errors.As(err, &he) {
		return err
	}
	cp := *he
	manual := portal.Instructions(compositor, spec)
	if cp.Remediation == "" {
		cp.Remediation = manual
	} else {
		cp.Remediation += "\nAlternatively: " + manual
	}
	return &cp
}

func (o *Orchestrator) fail(backend hotkey.Backend, err error) {
	o.mu.Lock()
	o.state = Failed
	o.backend = backend
	o.lastErr = err
	o.mu.Unlock()
	o.log.Error().
		Err(err).
		Str("backend", backend.String()).
		Str("remediation", hotkey.RemediationOf(err)).
		Msg("Global hotkey unavailable")
}

func (o *Orchestrator) install(backend hotkey.Backend, spec hotkey.Spec, h hotkey.Handle) {
	o.mu.Lock()
	if o.shut || o.ctx.Err() != nil {
		o.mu.Unlock()
		h.Close()
		return
	}
	done := make(chan struct{})
	o.handle = h
	o.forwarded = done
	o.backend = backend
	o.state = activeState(backend)
	o.spec = spec
	o.trigger = triggerOf(backend, spec, h)
	o.lastErr = nil
	trigger := o.trigger
	o.wg.Go(func() {
		defer close(done)
		o.forward(backend, h)
	})
	o.mu.Unlock()

	o.log.Info().Str("backend", backend.String()).Str("trigger", trigger).Msg("Global hotkey active")
}

func triggerOf(backend hotkey.Backend, spec hotkey.Spec, h hotkey.Handle) string {
	if b, ok := h.(interface{ Binding() portal.Binding }); ok {
		return b.Binding().TriggerDescription
	}
	if native, err := hotkey.ToNative(spec, backend); err == nil {
		return native
	}
	return spec.Canonical()
}

// forward copies one handle's events until the handle stops. A stream that
// ends while the handle is still current was not closed by us.
func (o *Orchestrator) forward(backend hotkey.Backend, h hotkey.Handle) {
	for ev := range h.Events() {
		if !o.send(ev) {
			return
		}
	}

	o.mu.Lock()
	current := o.handle == h
	if current {
		o.handle = nil
		o.state = Failed
		o.lastErr = streamError(backend, h)
	}
	err := o.lastErr
	o.mu.Unlock()
	if current {
		o.log.Error().Err(err).Str("backend", backend.String()).Msg("Hotkey stream ended")
		h.Close()
	}
}

func streamError(backend hotkey.Backend, h hotkey.Handle) error {
	if e, ok := h.(interface{ Err() error }); ok && e.Err() != nil {
		return e.Err()
	}
	return &hotkey.Error{
		Kind:        hotkey.KindBrokerUnavailable,
		Op:          "listen",
		Msg:         fmt.Sprintf("%s event stream ended", backend),
		Remediation: "restart whisper-hotkey",
	}
}

func (o *Orchestrator) send(ev hotkey.Event) bool {
	o.sendMu.RLock()
	defer o.sendMu.RUnlock()
	if o.closed {
		return false
	}
	select {
	case o.events <- ev:
		return true
	case <-o.ctx.Done():
		return false
	}
}

// Inject delivers an activation that arrived out of band, e.g. the IPC
// press and release commands.
func (o *Orchestrator) Inject(kind hotkey.EventKind) {
	o.send(hotkey.Event{Kind: kind, Source: "ipc", At: time.Now()})
}

// Update re-registers the hotkey. Only the direct backend can do this in
// place; other backends hold session or device resources and need a
// restart.
func (o *Orchestrator) Update(ctx context.Context, spec hotkey.Spec) error {
	o.updateMu.Lock()
	defer o.updateMu.Unlock()

	o.mu.Lock()
	if o.shut {
		o.mu.Unlock()
		return errors.New("orchestrator closed")
	}
	if o.backend != hotkey.DirectOS || o.state == Uninitialized {
		o.restartRequired = true
		o.mu.Unlock()
		o.log.Info().Str("hotkey", spec.Canonical()).Msg("Hotkey change takes effect after restart")
		return nil
	}
	old, drained := o.handle, o.forwarded
	o.handle = nil
	o.mu.Unlock()

	// the old handle's events, including a pending release, drain first
	if old != nil {
		if err := old.Close(); err != nil {
			o.log.Warn().Err(err).Msg("Closing previous hotkey")
		}
		select {
		case <-drained:
		case <-time.After(closeTimeout):
			o.log.Warn().Msg("Previous hotkey forwarder did not stop in time")
		}
	}

	h, err := o.register(ctx, hotkey.DirectOS, spec)
	if err != nil {
		o.fail(hotkey.DirectOS, err)
		return err
	}
	o.install(hotkey.DirectOS, spec, h)
	return nil
}

// OpenConfiguration opens the broker's shortcut dialog when the active
// backend supports it.
func (o *Orchestrator) OpenConfiguration(ctx context.Context) (string, bool, error) {
	o.mu.Lock()
	h := o.handle
	compositor := o.report.Compositor
	spec := o.spec
	o.mu.Unlock()

	cfg, ok := h.(interface {
		OpenConfiguration(ctx context.Context) (string, bool, error)
	})
	if !ok {
		return "", false, &hotkey.Error{
			Kind:        hotkey.KindBrokerUnavailable,
			Op:          "configure shortcuts",
			Msg:         "the active backend has no configuration dialog",
			Remediation: portal.Instructions(compositor, spec),
		}
	}
	newTrigger, changed, err := cfg.OpenConfiguration(ctx)
	if err != nil {
		return "", false, err
	}
	if changed {
		o.mu.Lock()
		o.trigger = newTrigger
		o.mu.Unlock()
		o.log.Info().Str("trigger", newTrigger).Msg("Shortcut reconfigured")
	}
	return newTrigger, changed, nil
}

// Diagnostics returns the current state.
func (o *Orchestrator) Diagnostics() Diagnostics {
	o.mu.Lock()
	defer o.mu.Unlock()
	d := Diagnostics{
		Report:           o.report,
		State:            o.state,
		Trigger:          o.trigger,
		RestartRequired:  o.restartRequired,
		ReleaseSupported: true,
	}
	if o.lastErr != nil {
		d.LastError = o.lastErr.Error()
		d.Remediation = hotkey.RemediationOf(o.lastErr)
	}
	if r, ok := o.handle.(hotkey.ReleaseReporter); ok {
		d.ReleaseSupported = r.ReleaseSupported()
	}
	return d
}

// Close releases the active handle and stops all background work. It is
// safe to call more than once.
func (o *Orchestrator) Close() error {
	var err error
	o.closeOnce.Do(func() {
		o.cancel()

		o.sendMu.Lock()
		o.closed = true
		o.sendMu.Unlock()

		o.mu.Lock()
		o.shut = true
		h := o.handle
		o.handle = nil
		o.mu.Unlock()

		if h != nil {
			err = h.Close()
		}

		stopped := make(chan struct{})
		go func() {
			o.wg.Wait()
			close(stopped)
		}()
		select {
		case <-stopped:
			close(o.events)
		case <-time.After(closeTimeout):
			o.log.Warn().Msg("Hotkey workers did not stop in time")
		}
		o.markSettled()
	})
	return err
}

// Scoped starts o, runs fn and closes o on every exit path.
func Scoped(ctx context.Context, o *Orchestrator, spec hotkey.Spec, fn func(ctx context.Context) error) error {
	if err := o.Start(ctx, spec); err != nil {
		return err
	}
	defer o.Close()
	return fn(ctx)
}
