//go:build windows

package ipc

import (
	"net"
	"os/user"
	"strings"
	"time"

	"github.com/Microsoft/go-winio"
)

// DefaultSocketPath is a per-user named pipe.
func DefaultSocketPath() string {
	name := "default"
	if u, err := user.Current(); err == nil {
		// DOMAIN\user is not a valid pipe name component
		name = strings.NewReplacer(`\`, "_", " ", "_").Replace(u.Username)
	}
	return `\\.\pipe\whisper-hotkey-` + name
}

func listen(path string) (net.Listener, error) {
	return winio.ListenPipe(path, &winio.PipeConfig{
		// owner only
		SecurityDescriptor: "D:P(A;;GA;;;OW)",
		MessageMode:        false,
	})
}

func dial(path string, timeout time.Duration) (net.Conn, error) {
	return winio.DialPipe(path, &timeout)
}

// named pipes vanish with their last handle
func cleanup(string) {}
