package terminal

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func startTestSession(t *testing.T) *Session {
	t.Helper()
	s, err := StartSession("/bin/sh", 24, 80)
	if err != nil {
		t.Fatalf("StartSession() error: %v", err)
	}
	t.Cleanup(func() { s.Terminate() })
	return s
}

// drainUntil reads until the accumulated output contains marker or the
// deadline passes.
func drainUntil(t *testing.T, s *Session, marker string, deadline time.Duration) string {
	t.Helper()
	var out []byte
	stop := time.Now().Add(deadline)
	for time.Now().Before(stop) {
		chunk, err := s.Read(200 * time.Millisecond)
		if err == nil {
			out = append(out, chunk...)
			if strings.Contains(string(out), marker) {
				return string(out)
			}
			continue
		}
		if errors.Is(err, ErrReadTimeout) {
			continue
		}
		t.Fatalf("Read() error: %v", err)
	}
	t.Fatalf("marker %q not observed, got %q", marker, out)
	return ""
}

func TestSessionEcho(t *testing.T) {
	s := startTestSession(t)

	if !s.Alive() {
		t.Fatal("expected live session")
	}
	if s.Pid() <= 0 {
		t.Errorf("Pid() = %d, want > 0", s.Pid())
	}

	if _, err := s.Write([]byte("echo termgate-ping\n")); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	drainUntil(t, s, "termgate-ping", 5*time.Second)
}

func TestSessionReadTimeout(t *testing.T) {
	s := startTestSession(t)

	// Flush the startup prompt, then expect silence.
	time.Sleep(300 * time.Millisecond)
	for {
		if _, err := s.Read(100 * time.Millisecond); err != nil {
			if !errors.Is(err, ErrReadTimeout) {
				t.Fatalf("Read() error: %v", err)
			}
			break
		}
	}

	start := time.Now()
	_, err := s.Read(200 * time.Millisecond)
	if !errors.Is(err, ErrReadTimeout) {
		t.Fatalf("Read() error = %v, want ErrReadTimeout", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Read() blocked %v past its deadline", elapsed)
	}
}

func TestSessionExitDetection(t *testing.T) {
	s := startTestSession(t)

	if _, err := s.Write([]byte("exit 3\n")); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	code, reaped := s.WaitExit(5 * time.Second)
	if !reaped {
		t.Fatal("session did not exit")
	}
	if code != 3 {
		t.Errorf("exit code = %d, want 3", code)
	}
	if s.Alive() {
		t.Error("Alive() = true after exit")
	}

	if _, err := s.Read(100 * time.Millisecond); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("Read() error = %v, want ErrSessionClosed", err)
	}
	if _, err := s.Write([]byte("x")); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("Write() error = %v, want ErrSessionClosed", err)
	}

	if got, ok := s.ExitCode(); !ok || got != 3 {
		t.Errorf("ExitCode() = %d, %v, want 3, true", got, ok)
	}
}

func TestSessionTerminate(t *testing.T) {
	s := startTestSession(t)

	if err := s.Terminate(); err != nil {
		t.Fatalf("Terminate() error: %v", err)
	}
	if s.Alive() {
		t.Error("Alive() = true after terminate")
	}

	// Terminating twice is harmless.
	if err := s.Terminate(); err != nil {
		t.Errorf("second Terminate() error: %v", err)
	}
}

func TestStartSessionBadCommand(t *testing.T) {
	if _, err := StartSession("/no/such/shell-xyz", 24, 80); err == nil {
		t.Fatal("expected spawn failure")
	}
}

func TestStartSessionEmptyCommand(t *testing.T) {
	if _, err := StartSession("   ", 24, 80); err == nil {
		t.Fatal("expected error for empty command")
	}
}

func TestSessionWaitExitGrace(t *testing.T) {
	s := startTestSession(t)

	if _, reaped := s.WaitExit(100 * time.Millisecond); reaped {
		t.Error("WaitExit() reported a reap while the child still runs")
	}
}
