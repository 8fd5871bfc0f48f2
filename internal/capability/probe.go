package capability

import (
	"context"
	"errors"
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	portalService        = "org.freedesktop.portal.Desktop"
	portalPath           = dbus.ObjectPath("/org/freedesktop/portal/desktop")
	globalShortcutsIface = "org.freedesktop.portal.GlobalShortcuts"
)

// ProbePortal reads the GlobalShortcuts version property from the session
// bus. It only reads; no session or request objects are created.
func ProbePortal(ctx context.Context) (uint32, bool, error) {
	conn, err := dbus.ConnectSessionBus(dbus.WithContext(ctx))
	if err != nil {
		return 0, false, fmt.Errorf("connect session bus: %w", err)
	}
	defer conn.Close()

	var v dbus.Variant
	obj := conn.Object(portalService, portalPath)
	err = obj.CallWithContext(ctx, "org.freedesktop.DBus.Properties.Get", 0, globalShortcutsIface, "version").Store(&v)
	if err != nil {
		if isRemoteError(err) {
			// UnknownInterface / UnknownProperty: the portal runs but has no backend for shortcuts
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("read %s.version: %w", globalShortcutsIface, err)
	}

	version, ok := v.Value().(uint32)
	if !ok {
		return 0, false, fmt.Errorf("unexpected %s.version type %s", globalShortcutsIface, v.Signature())
	}
	return version, true, nil
}

// isRemoteError reports whether err is an error reply from the bus peer, as
// opposed to a transport failure.
func isRemoteError(err error) bool {
	var v dbus.Error
	if errors.As(err, &v) {
		return true
	}
	var p *dbus.Error
	return errors.As(err, &p)
}
