// Package runner executes one-shot commands against a configured base
// argv and formats their outcome as text.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/termgate/termgate/internal/logging"
	"github.com/termgate/termgate/internal/monitoring"
)

// Runner appends each command to the base argv and runs the result
// directly, without a shell. It is stateless and safe for concurrent
// use.
type Runner struct {
	baseArgv []string
	log      *logging.Logger
	metrics  *monitoring.Metrics
}

// New creates a runner. pathArgs is the base command plus immutable
// arguments, whitespace-separated; it may be empty, in which case the
// command itself forms the whole argv.
func New(pathArgs string, log *logging.Logger) *Runner {
	return &Runner{
		baseArgv: strings.Fields(pathArgs),
		log:      log,
	}
}

// WithMetrics attaches a metrics recorder.
func (r *Runner) WithMetrics(m *monitoring.Metrics) *Runner {
	r.metrics = m
	return r
}

// Run executes command and returns the formatted outcome. Every
// runtime condition resolves to text: a timeout kills the whole
// process group and reports the configured limit, a spawn failure
// reports the error. The command is split on whitespace; no shell
// interpretation happens here.
func (r *Runner) Run(ctx context.Context, command string, timeout time.Duration) string {
	argv := append(append([]string{}, r.baseArgv...), strings.Fields(command)...)
	if len(argv) == 0 {
		return "Error executing the command: no command specified"
	}

	start := time.Now()
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.Command(argv[0], argv[1:]...)
	// Own process group so a timeout can take down children too.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		r.record("spawn_error", time.Since(start))
		r.log.Error("command spawn failed", zap.String("command", command), zap.Error(err))
		return fmt.Sprintf("Error executing the command: %v", err)
	}

	waitCh := make(chan error, 1)
	go func() { waitCh <- cmd.Wait() }()

	select {
	case <-runCtx.Done():
		killProcessGroup(cmd)
		<-waitCh
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			r.record("timeout", time.Since(start))
			r.log.Warn("command timed out",
				zap.String("command", command),
				zap.Duration("timeout", timeout),
			)
			return fmt.Sprintf("The command timed out after %g seconds", timeout.Seconds())
		}
		r.record("canceled", time.Since(start))
		return fmt.Sprintf("Error executing the command: %v", runCtx.Err())

	case err := <-waitCh:
		exitCode := 0
		if err != nil {
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				exitCode = exitErr.ExitCode()
			} else {
				r.record("error", time.Since(start))
				r.log.Error("command failed", zap.String("command", command), zap.Error(err))
				return fmt.Sprintf("Error executing the command: %v", err)
			}
		}
		r.record("ok", time.Since(start))
		r.log.Debug("command finished",
			zap.String("command", command),
			zap.Int("exit_code", exitCode),
			zap.Duration("duration", time.Since(start)),
		)
		return formatResult(exitCode, safeUTF8(stdout.Bytes()), safeUTF8(stderr.Bytes()))
	}
}

func (r *Runner) record(status string, d time.Duration) {
	if r.metrics != nil {
		r.metrics.RecordExec(status, d)
	}
}

// formatResult keeps the historical output shape: return code first,
// then stdout and stderr sections only when non-empty.
func formatResult(exitCode int, stdout, stderr string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "return code: %d\n", exitCode)
	if stdout != "" {
		fmt.Fprintf(&b, "STDOUT:\n%s\n", stdout)
	}
	if stderr != "" {
		fmt.Fprintf(&b, "STDERR:\n%s\n", stderr)
	}
	return b.String()
}

// killProcessGroup hard-kills the child and everything it forked.
func killProcessGroup(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	if err := syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL); err != nil {
		_ = cmd.Process.Kill()
	}
}

// safeUTF8 replaces invalid byte sequences so the result survives the
// JSON transport.
func safeUTF8(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return string(bytes.ToValidUTF8(b, []byte("�")))
}
