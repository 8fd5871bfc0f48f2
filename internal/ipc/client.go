package ipc

import (
	"fmt"
	"time"

	"github.com/petems/whisper-hotkey/internal/hotkey"
)

const dialTimeout = time.Second

// SendToggle asks the running instance to toggle recording.
func SendToggle(path string) error {
	return Send(path, CmdToggle)
}

// Send writes one command to the running instance. It never waits for a
// reply; an absent listener is a ConnectionError.
func Send(path string, cmd Command) error {
	if path == "" {
		path = DefaultSocketPath()
	}
	if !cmd.valid() {
		return fmt.Errorf("unknown control command %q", cmd)
	}

	conn, err := dial(path, dialTimeout)
	if err != nil {
		return &hotkey.Error{
			Kind:        hotkey.KindConnection,
			Op:          "dial " + path,
			Msg:         "no running whisper-hotkey instance",
			Remediation: "start whisper-hotkey first, or check --socket matches the running instance",
			Err:         err,
		}
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(connTimeout)); err != nil {
		return fmt.Errorf("set deadline: %w", err)
	}
	if _, err := conn.Write([]byte(string(cmd) + "\n")); err != nil {
		return &hotkey.Error{Kind: hotkey.KindConnection, Op: "send " + string(cmd), Err: err}
	}
	return nil
}
