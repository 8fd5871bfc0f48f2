package portal

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/google/uuid"
)

const (
	portalService  = "org.freedesktop.portal.Desktop"
	portalPath     = dbus.ObjectPath("/org/freedesktop/portal/desktop")
	shortcutsIface = "org.freedesktop.portal.GlobalShortcuts"
	requestIface   = "org.freedesktop.portal.Request"
	sessionIface   = "org.freedesktop.portal.Session"
	registryIface  = "org.freedesktop.host.portal.Registry"
	requestPrefix  = "/org/freedesktop/portal/desktop/request/"
)

// Request.Response codes.
const (
	responseSuccess   uint32 = 0
	responseCancelled uint32 = 1
)

type signalKind int

const (
	signalActivated signalKind = iota
	signalShortcutsChanged
)

// portalSignal is a decoded GlobalShortcuts signal.
type portalSignal struct {
	kind       signalKind
	session    dbus.ObjectPath
	shortcutID string            // Activated only
	triggers   map[string]string // ShortcutsChanged only: id -> trigger description
	at         time.Time
}

// shortcutDef is the a(sa{sv}) element passed to BindShortcuts.
type shortcutDef struct {
	ID      string
	Options map[string]dbus.Variant
}

// broker is the subset of the portal D-Bus API a Session uses.
type broker interface {
	RegisterApp(ctx context.Context, appID string) error
	CreateSession(ctx context.Context) (dbus.ObjectPath, error)
	BindShortcuts(ctx context.Context, session dbus.ObjectPath, id, description, trigger string) (string, error)
	ConfigureShortcuts(ctx context.Context, session dbus.ObjectPath) error
	CloseSession(ctx context.Context, session dbus.ObjectPath) error
	Subscribe() (<-chan portalSignal, error)
	Close() error
}

// dbusBroker talks to xdg-desktop-portal over a private session bus
// connection.
type dbusBroker struct {
	conn   *dbus.Conn
	obj    dbus.BusObject
	sender string
	cancel context.CancelFunc

	once sync.Once
	done chan struct{}
}

func dialBroker(ctx context.Context) (broker, error) {
	// the connection outlives ctx; it is torn down by Close
	connCtx, cancel := context.WithCancel(context.Background())
	type result struct {
		conn *dbus.Conn
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		conn, err := dbus.ConnectSessionBus(dbus.WithContext(connCtx))
		ch <- result{conn, err}
	}()

	var res result
	select {
	case res = <-ch:
	case <-ctx.Done():
		cancel()
		return nil, ctx.Err()
	}
	if res.err != nil {
		cancel()
		return nil, fmt.Errorf("connect session bus: %w", res.err)
	}

	names := res.conn.Names()
	if len(names) == 0 {
		res.conn.Close()
		cancel()
		return nil, fmt.Errorf("session bus assigned no unique name")
	}
	// ":1.42" -> "1_42", as the portal builds request paths
	sender := strings.ReplaceAll(strings.TrimPrefix(names[0], ":"), ".", "_")

	return &dbusBroker{
		conn:   res.conn,
		obj:    res.conn.Object(portalService, portalPath),
		sender: sender,
		cancel: cancel,
		done:   make(chan struct{}),
	}, nil
}

func newToken() string {
	return "whisper_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

func (b *dbusBroker) RegisterApp(ctx context.Context, appID string) error {
	return b.obj.CallWithContext(ctx, registryIface+".Register", 0, appID, map[string]dbus.Variant{}).Err
}

func (b *dbusBroker) CreateSession(ctx context.Context) (dbus.ObjectPath, error) {
	opts := map[string]dbus.Variant{
		"session_handle_token": dbus.MakeVariant(newToken()),
	}
	code, results, err := b.request(ctx, "CreateSession", opts)
	if err != nil {
		return "", err
	}
	if code != responseSuccess {
		return "", &responseError{method: "CreateSession", code: code}
	}
	v, ok := results["session_handle"]
	if !ok {
		return "", fmt.Errorf("CreateSession: response has no session_handle")
	}
	switch s := v.Value().(type) {
	case string:
		return dbus.ObjectPath(s), nil
	case dbus.ObjectPath:
		return s, nil
	default:
		return "", fmt.Errorf("CreateSession: unexpected session_handle type %s", v.Signature())
	}
}

func (b *dbusBroker) BindShortcuts(ctx context.Context, session dbus.ObjectPath, id, description, trigger string) (string, error) {
	shortcuts := []shortcutDef{{
		ID: id,
		Options: map[string]dbus.Variant{
			"description":       dbus.MakeVariant(description),
			"preferred_trigger": dbus.MakeVariant(trigger),
		},
	}}
	code, results, err := b.request(ctx, "BindShortcuts", session, shortcuts, "", map[string]dbus.Variant{})
	if err != nil {
		return "", err
	}
	if code != responseSuccess {
		return "", &responseError{method: "BindShortcuts", code: code}
	}
	v, ok := results["shortcuts"]
	if !ok {
		return "", &responseError{method: "BindShortcuts", code: code, missing: id}
	}
	triggers, err := decodeShortcuts(v.Value())
	if err != nil {
		return "", fmt.Errorf("BindShortcuts: %w", err)
	}
	accepted, ok := triggers[id]
	if !ok {
		return "", &responseError{method: "BindShortcuts", code: code, missing: id}
	}
	return accepted, nil
}

func (b *dbusBroker) ConfigureShortcuts(ctx context.Context, session dbus.ObjectPath) error {
	return b.obj.CallWithContext(ctx, shortcutsIface+".ConfigureShortcuts", 0, session, "", map[string]dbus.Variant{}).Err
}

func (b *dbusBroker) CloseSession(ctx context.Context, session dbus.ObjectPath) error {
	return b.conn.Object(portalService, session).CallWithContext(ctx, sessionIface+".Close", 0).Err
}

// request performs a portal call that answers through a Request object and
// waits for its Response signal. The match is installed before the call so
// a fast response cannot be missed.
func (b *dbusBroker) request(ctx context.Context, method string, args ...any) (uint32, map[string]dbus.Variant, error) {
	token := newToken()
	path := dbus.ObjectPath(requestPrefix + b.sender + "/" + token)

	// the last argument of every request method is the options vardict
	if opts, ok := args[len(args)-1].(map[string]dbus.Variant); ok {
		opts["handle_token"] = dbus.MakeVariant(token)
	}

	match := []dbus.MatchOption{
		dbus.WithMatchObjectPath(path),
		dbus.WithMatchInterface(requestIface),
		dbus.WithMatchMember("Response"),
	}
	if err := b.conn.AddMatchSignal(match...); err != nil {
		return 0, nil, fmt.Errorf("%s: add match: %w", method, err)
	}
	defer b.conn.RemoveMatchSignal(match...)

	sigs := make(chan *dbus.Signal, 4)
	b.conn.Signal(sigs)
	defer b.conn.RemoveSignal(sigs)

	var handle dbus.ObjectPath
	if err := b.obj.CallWithContext(ctx, shortcutsIface+"."+method, 0, args...).Store(&handle); err != nil {
		return 0, nil, fmt.Errorf("%s: %w", method, err)
	}

	for {
		select {
		case <-ctx.Done():
			return 0, nil, fmt.Errorf("%s: waiting for response: %w", method, ctx.Err())
		case sig, ok := <-sigs:
			if !ok {
				return 0, nil, fmt.Errorf("%s: connection closed while waiting for response", method)
			}
			if sig.Name != requestIface+".Response" || (sig.Path != handle && sig.Path != path) {
				continue
			}
			var code uint32
			var results map[string]dbus.Variant
			if err := dbus.Store(sig.Body, &code, &results); err != nil {
				return 0, nil, fmt.Errorf("%s: decode response: %w", method, err)
			}
			return code, results, nil
		}
	}
}

// Subscribe delivers Activated and ShortcutsChanged signals until the
// broker is closed or the bus connection drops, then closes the channel.
func (b *dbusBroker) Subscribe() (<-chan portalSignal, error) {
	for _, member := range []string{"Activated", "ShortcutsChanged"} {
		if err := b.conn.AddMatchSignal(
			dbus.WithMatchObjectPath(portalPath),
			dbus.WithMatchInterface(shortcutsIface),
			dbus.WithMatchMember(member),
		); err != nil {
			return nil, fmt.Errorf("subscribe %s: %w", member, err)
		}
	}

	raw := make(chan *dbus.Signal, 16)
	b.conn.Signal(raw)
	out := make(chan portalSignal, 16)
	go func() {
		defer close(out)
		defer b.conn.RemoveSignal(raw)
		for {
			select {
			case <-b.done:
				return
			case sig, ok := <-raw:
				if !ok {
					return
				}
				ps, ok := decodeSignal(sig)
				if !ok {
					continue
				}
				select {
				case out <- ps:
				case <-b.done:
					return
				}
			}
		}
	}()
	return out, nil
}

func decodeSignal(sig *dbus.Signal) (portalSignal, bool) {
	switch sig.Name {
	case shortcutsIface + ".Activated":
		var session dbus.ObjectPath
		var id string
		var ts uint64
		var opts map[string]dbus.Variant
		if err := dbus.Store(sig.Body, &session, &id, &ts, &opts); err != nil {
			return portalSignal{}, false
		}
		at := time.Now()
		if ts > 0 {
			at = time.UnixMilli(int64(ts))
		}
		return portalSignal{kind: signalActivated, session: session, shortcutID: id, at: at}, true
	case shortcutsIface + ".ShortcutsChanged":
		if len(sig.Body) < 2 {
			return portalSignal{}, false
		}
		session, _ := sig.Body[0].(dbus.ObjectPath)
		triggers, err := decodeShortcuts(sig.Body[1])
		if err != nil {
			return portalSignal{}, false
		}
		return portalSignal{kind: signalShortcutsChanged, session: session, triggers: triggers, at: time.Now()}, true
	}
	return portalSignal{}, false
}

// decodeShortcuts maps an a(sa{sv}) shortcut list to id -> trigger_description.
func decodeShortcuts(src any) (map[string]string, error) {
	var list []shortcutDef
	if err := dbus.Store([]any{src}, &list); err != nil {
		return nil, fmt.Errorf("decode shortcuts: %w", err)
	}
	out := make(map[string]string, len(list))
	for _, s := range list {
		desc := ""
		if d, ok := s.Options["trigger_description"]; ok {
			desc, _ = d.Value().(string)
		}
		out[s.ID] = desc
	}
	return out, nil
}

func (b *dbusBroker) Close() error {
	var err error
	b.once.Do(func() {
		close(b.done)
		err = b.conn.Close()
		b.cancel()
	})
	return err
}

// responseError is a non-success Request.Response.
type responseError struct {
	method  string
	code    uint32
	missing string
}

func (e *responseError) Error() string {
	switch {
	case e.missing != "":
		return fmt.Sprintf("%s: broker did not bind shortcut %q", e.method, e.missing)
	case e.code == responseCancelled:
		return fmt.Sprintf("%s: cancelled by the user", e.method)
	default:
		return fmt.Sprintf("%s: request failed (response %d)", e.method, e.code)
	}
}
