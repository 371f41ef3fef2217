package terminal

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/termgate/termgate/internal/logging"
	"github.com/termgate/termgate/internal/monitoring"
	"github.com/termgate/termgate/internal/safety"
	"github.com/termgate/termgate/internal/shared/id"
	"github.com/termgate/termgate/internal/transcript"
)

// exitGrace bounds how long a dead-looking session may take to reap
// before the manager falls back to a hard kill.
const exitGrace = 2 * time.Second

// Config holds the manager's spawn and read settings.
type Config struct {
	PathArgs        string
	Rows            int
	Cols            int
	SpawnGrace      time.Duration
	ReadTimeout     time.Duration
	FixControlChars bool
}

// Manager owns the single interactive terminal session and its screen.
// All entry points serialize on one mutex: the stdio transport is
// sequential anyway, and the observer listener only takes read
// snapshots.
type Manager struct {
	cfg     Config
	gate    *safety.Gate
	filter  *safety.OutputFilter
	log     *logging.Logger
	metrics *monitoring.Metrics
	rec     *transcript.Recorder

	mu     sync.Mutex
	sess   *Session
	screen *Screen
	sid    id.SessionID
}

// NewManager wires a manager over the given safety gate and output
// filter.
func NewManager(cfg Config, gate *safety.Gate, filter *safety.OutputFilter, log *logging.Logger) *Manager {
	return &Manager{
		cfg:    cfg,
		gate:   gate,
		filter: filter,
		log:    log,
	}
}

// WithMetrics attaches metrics collection.
func (m *Manager) WithMetrics(metrics *monitoring.Metrics) *Manager {
	m.metrics = metrics
	return m
}

// WithRecorder attaches a transcript recorder for raw PTY output.
func (m *Manager) WithRecorder(rec *transcript.Recorder) *Manager {
	m.rec = rec
	return m
}

// Interact sends input to the terminal, waits, then drains output and
// renders the screen. A nil input polls without sending anything. The
// session is spawned on first use and respawned after death. The
// returned text is always one of the fixed response shapes.
func (m *Manager) Interact(input *string, wait time.Duration) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if input != nil && m.gate.RequiresConfirmation(*input) {
		m.record("blocked")
		if m.metrics != nil {
			m.metrics.RecordSafetyBlock("terminal")
		}
		m.log.Warn("terminal input held for confirmation")
		return m.gate.Warning(*input)
	}

	if err := m.ensureStarted(); err != nil {
		m.record("error")
		m.log.Error("terminal spawn failed", zap.Error(err))
		return fmt.Sprintf("Error executing interactive process: %v", err)
	}

	sawClosed := false

	if input != nil && *input != "" {
		data := *input
		if m.cfg.FixControlChars {
			data = safety.FixControlAtEnd(data)
		}
		n, err := m.sess.Write([]byte(data))
		switch {
		case err == nil:
			if m.metrics != nil {
				m.metrics.RecordPTYWrite(n)
			}
		case errors.Is(err, ErrSessionClosed):
			sawClosed = true
		default:
			m.record("error")
			m.log.Error("terminal write failed", zap.Error(err))
			m.teardownLocked()
			return fmt.Sprintf("Error executing interactive process: %v", err)
		}
	}

	if !sawClosed {
		time.Sleep(wait)

		chunk, err := m.sess.Read(m.cfg.ReadTimeout)
		switch {
		case err == nil:
			m.feedLocked(chunk)
		case errors.Is(err, ErrReadTimeout):
			if m.metrics != nil {
				m.metrics.RecordPTYReadTimeout()
			}
		case errors.Is(err, ErrSessionClosed):
			sawClosed = true
		default:
			m.record("error")
			m.log.Error("terminal read failed", zap.Error(err))
			m.teardownLocked()
			return fmt.Sprintf("Error executing interactive process: %v", err)
		}
	}

	rendered := m.filter.Apply(m.screen.Render())

	if !sawClosed && m.sess.Alive() {
		m.record("alive")
		return fmt.Sprintf("pid: %d\nscreen:\n%s", m.sess.Pid(), rendered)
	}

	code, reaped := m.sess.WaitExit(exitGrace)
	if !reaped {
		m.sess.Terminate()
		code, _ = m.sess.ExitCode()
	}
	m.log.Info("terminal session ended",
		zap.String("session", m.sid.String()),
		zap.Int("exit_code", code),
	)
	m.detachLocked()
	m.record("terminated")
	return fmt.Sprintf("terminal terminated, code: %d\nscreen:\n%s", code, rendered)
}

// Terminate tears down the session on explicit request.
func (m *Manager) Terminate() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sess == nil {
		return "No interactive process currently running."
	}

	pid := m.sess.Pid()
	err := m.sess.Terminate()
	m.log.Info("terminal session terminated",
		zap.String("session", m.sid.String()),
		zap.Int("pid", pid),
	)
	// Detach even when the kill errored: the session is unusable
	// either way and the next call should start fresh.
	m.detachLocked()
	if err != nil {
		return fmt.Sprintf("Error terminating the process: %v", err)
	}
	return fmt.Sprintf("Interactive process (PID: %d) successfully terminated.", pid)
}

// Close terminates any live session. Used at shutdown.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sess != nil {
		m.sess.Terminate()
		m.detachLocked()
	}
}

// Alive reports whether a session exists and its child still runs.
func (m *Manager) Alive() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sess != nil && m.sess.Alive()
}

// Pid returns the child PID, or 0 when no session exists.
func (m *Manager) Pid() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sess == nil {
		return 0
	}
	return m.sess.Pid()
}

// SessionID returns the current session's ID, or empty.
func (m *Manager) SessionID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sid.String()
}

// ScreenText renders the current grid without touching the PTY, for
// passive observers.
func (m *Manager) ScreenText() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.screen == nil {
		return ""
	}
	return m.filter.Apply(m.screen.Render())
}

// ensureStarted spawns the terminal if absent, superseding a session
// that died since the last call.
func (m *Manager) ensureStarted() error {
	if m.sess != nil && m.sess.Alive() {
		return nil
	}
	if m.sess != nil {
		// Died without a caller noticing; reap before superseding.
		m.sess.Terminate()
		m.detachLocked()
	}

	sess, err := StartSession(m.cfg.PathArgs, m.cfg.Rows, m.cfg.Cols)
	if err != nil {
		return err
	}
	m.sess = sess
	m.screen = NewScreen(m.cfg.Rows, m.cfg.Cols)
	m.sid = id.NewSessionID()
	if m.metrics != nil {
		m.metrics.RecordSessionSpawn()
	}
	m.log.Info("terminal session started",
		zap.String("session", m.sid.String()),
		zap.Int("pid", sess.Pid()),
		zap.String("command", m.cfg.PathArgs),
	)

	// Give the child a moment to paint its first screen, then drain
	// whatever arrived. Nothing here is fatal.
	time.Sleep(m.cfg.SpawnGrace)
	if chunk, err := m.sess.Read(m.cfg.ReadTimeout); err == nil {
		m.feedLocked(chunk)
	}
	return nil
}

// feedLocked advances the screen and transcript with one output chunk.
func (m *Manager) feedLocked(chunk []byte) {
	if len(chunk) == 0 {
		return
	}
	m.screen.Feed(chunk)
	if m.metrics != nil {
		m.metrics.RecordPTYRead(len(chunk))
	}
	if m.rec != nil {
		m.rec.Record(chunk)
	}
}

// detachLocked drops the dead session and its screen.
func (m *Manager) detachLocked() {
	m.sess = nil
	m.screen = nil
	m.sid = ""
	if m.metrics != nil {
		m.metrics.RecordSessionDeath()
	}
	if m.rec != nil {
		m.rec.Flush()
	}
}

// teardownLocked force-terminates after an error so the next call
// starts from a clean slate.
func (m *Manager) teardownLocked() {
	if m.sess != nil {
		m.sess.Terminate()
	}
	m.detachLocked()
}

func (m *Manager) record(outcome string) {
	if m.metrics != nil {
		m.metrics.RecordInteraction(outcome)
	}
}
