package terminal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/creack/pty"
)

// readChunkSize bounds a single PTY drain.
const readChunkSize = 16384

var (
	// ErrReadTimeout reports that no output arrived within the read window.
	ErrReadTimeout = errors.New("pty read timed out")
	// ErrSessionClosed reports that the child exited or the PTY is gone.
	ErrSessionClosed = errors.New("session is closed")
)

// Session is one spawn of the interactive process behind a PTY. Reads
// are bounded by deadlines rather than a background pump, so output
// produced between calls stays in the kernel buffer until the next
// drain.
type Session struct {
	pid       int
	cmd       *exec.Cmd
	ptmx      *os.File
	startedAt time.Time

	mu       sync.RWMutex
	closed   bool
	exitCode int

	done chan struct{}
}

// StartSession spawns pathArgs behind a new PTY of the given size. The
// child gets TERM=xterm-256color so full-screen applications render
// correctly.
func StartSession(pathArgs string, rows, cols int) (*Session, error) {
	argv := strings.Fields(pathArgs)
	if len(argv) == 0 {
		return nil, fmt.Errorf("no command configured")
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Env = append(os.Environ(), "TERM=xterm-256color")

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start PTY: %w", err)
	}

	s := &Session{
		pid:       cmd.Process.Pid,
		cmd:       cmd,
		ptmx:      ptmx,
		startedAt: time.Now(),
		exitCode:  -1,
		done:      make(chan struct{}),
	}

	go s.monitorProcess()

	return s, nil
}

// monitorProcess reaps the child and tears the PTY down once it exits.
func (s *Session) monitorProcess() {
	s.cmd.Wait()

	s.mu.Lock()
	s.closed = true
	if state := s.cmd.ProcessState; state != nil {
		s.exitCode = state.ExitCode()
	}
	s.mu.Unlock()

	close(s.done)
	s.ptmx.Close()
}

// Alive reports whether the child is still running.
func (s *Session) Alive() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.closed
}

// Pid returns the child process ID.
func (s *Session) Pid() int {
	return s.pid
}

// StartedAt returns the spawn time.
func (s *Session) StartedAt() time.Time {
	return s.startedAt
}

// Write sends input bytes to the PTY.
func (s *Session) Write(p []byte) (int, error) {
	if !s.Alive() {
		return 0, ErrSessionClosed
	}
	n, err := s.ptmx.Write(p)
	if err != nil && isClosedErr(err) {
		return n, ErrSessionClosed
	}
	return n, err
}

// Read drains up to one chunk from the PTY, waiting at most timeout
// for data to become ready. ErrReadTimeout means the window elapsed
// with nothing to read; ErrSessionClosed means the child is gone.
func (s *Session) Read(timeout time.Duration) ([]byte, error) {
	if !s.Alive() {
		return nil, ErrSessionClosed
	}
	if err := s.ptmx.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return nil, err
	}

	buf := make([]byte, readChunkSize)
	n, err := s.ptmx.Read(buf)
	if n > 0 {
		return buf[:n], nil
	}
	switch {
	case err == nil:
		return nil, ErrReadTimeout
	case os.IsTimeout(err):
		return nil, ErrReadTimeout
	case isClosedErr(err):
		return nil, ErrSessionClosed
	default:
		return nil, err
	}
}

// WaitExit blocks until the child has been reaped or the grace period
// elapses. It reports the exit code and whether the reap happened.
func (s *Session) WaitExit(grace time.Duration) (int, bool) {
	select {
	case <-s.done:
	case <-time.After(grace):
		return 0, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.exitCode, true
}

// ExitCode returns the recorded exit code once the child was reaped.
func (s *Session) ExitCode() (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.closed {
		return 0, false
	}
	return s.exitCode, true
}

// Terminate hard-kills the child and waits for the reaper. Calling it
// on an already dead session just waits for the reap.
func (s *Session) Terminate() error {
	s.mu.RLock()
	closed := s.closed
	s.mu.RUnlock()

	if !closed && s.cmd.Process != nil {
		if err := s.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
			return err
		}
	}

	select {
	case <-s.done:
	case <-time.After(3 * time.Second):
		return fmt.Errorf("process %d did not exit after kill", s.pid)
	}
	return nil
}

// isClosedErr matches the errors a PTY produces once its child is
// gone: EOF, EIO from the master side, or a closed file descriptor.
func isClosedErr(err error) bool {
	return errors.Is(err, io.EOF) ||
		errors.Is(err, os.ErrClosed) ||
		errors.Is(err, syscall.EIO)
}
