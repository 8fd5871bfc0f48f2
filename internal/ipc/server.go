// Package ipc is the local control channel used to trigger activation from
// outside the process, e.g. a desktop shortcut running
// `whisper-hotkey --toggle`.
package ipc

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	connTimeout  = 2 * time.Second
	maxTokenSize = 64
)

// Command is one control token.
type Command string

const (
	CmdToggle    Command = "toggle"
	CmdPress     Command = "press"
	CmdRelease   Command = "release"
	CmdConfigure Command = "configure"
)

func (c Command) valid() bool {
	switch c {
	case CmdToggle, CmdPress, CmdRelease, CmdConfigure:
		return true
	}
	return false
}

// Handler receives each valid command exactly once. It runs on the
// connection goroutine and should return quickly.
type Handler func(Command)

// Server accepts control connections for the lifetime of the process.
type Server struct {
	path    string
	handler Handler
	log     zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	listener net.Listener
	started  bool
	wg       sync.WaitGroup
}

// NewServer returns a server on path, or on DefaultSocketPath when path is
// empty.
func NewServer(log zerolog.Logger, path string, handler Handler) *Server {
	if path == "" {
		path = DefaultSocketPath()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		path:    path,
		handler: handler,
		log:     log,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Path returns the socket path or pipe name.
func (s *Server) Path() string {
	return s.path
}

// Start binds the socket, replacing a stale one, and begins accepting.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return errors.New("ipc server already started")
	}
	if s.handler == nil {
		return errors.New("ipc server requires a handler")
	}

	listener, err := listen(s.path)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.path, err)
	}

	s.listener = listener
	s.started = true
	s.wg.Go(s.acceptLoop)
	s.log.Info().Str("path", s.path).Msg("Control socket listening")
	return nil
}

// Stop closes the listener, removes the socket and waits for in-flight
// connections.
func (s *Server) Stop() error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = false
	s.cancel()
	listener := s.listener
	s.listener = nil
	s.mu.Unlock()

	var err error
	if listener != nil {
		err = listener.Close()
	}
	s.wg.Wait()
	cleanup(s.path)
	return err
}

func (s *Server) acceptLoop() {
	consecutiveErrors := 0
	for {
		s.mu.Lock()
		listener := s.listener
		s.mu.Unlock()
		if listener == nil {
			return
		}

		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-s.ctx.Done():
				return
			default:
			}
			consecutiveErrors++
			if consecutiveErrors > 10 {
				s.log.Warn().Err(err).Int("count", consecutiveErrors).Msg("Control socket accept keeps failing")
				time.Sleep(500 * time.Millisecond)
			} else {
				s.log.Debug().Err(err).Msg("Control socket accept error")
			}
			continue
		}
		consecutiveErrors = 0

		s.wg.Go(func() {
			s.handleConnection(conn)
		})
	}
}

// handleConnection reads a single token line. Nothing is written back.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()
	if err := conn.SetDeadline(time.Now().Add(connTimeout)); err != nil {
		s.log.Debug().Err(err).Msg("Failed to set control connection deadline")
		return
	}

	token, err := readToken(bufio.NewReaderSize(conn, maxTokenSize+1))
	if err != nil {
		if !errors.Is(err, io.EOF) {
			s.log.Debug().Err(err).Msg("Invalid control message")
		}
		return
	}

	cmd := Command(token)
	if !cmd.valid() {
		s.log.Warn().Str("token", token).Msg("Ignoring unknown control token")
		return
	}
	s.log.Debug().Str("command", token).Msg("Control command received")
	s.handler(cmd)
}

func readToken(r *bufio.Reader) (string, error) {
	raw, err := r.ReadSlice('\n')
	switch {
	case errors.Is(err, bufio.ErrBufferFull):
		return "", fmt.Errorf("message exceeds %d bytes", maxTokenSize)
	case errors.Is(err, io.EOF):
		if len(raw) == 0 {
			return "", io.EOF
		}
	case err != nil:
		return "", err
	}
	return strings.ToLower(strings.TrimSpace(string(raw))), nil
}
