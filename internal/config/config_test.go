package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Process config
	assert.Equal(t, "/bin/bash", cfg.Process.PathArgs)
	assert.True(t, cfg.Process.FixControlChars)
	assert.Equal(t, time.Second, cfg.Process.SpawnGrace)
	assert.Equal(t, 500*time.Millisecond, cfg.Process.ReadTimeout)

	// Gate config
	assert.Equal(t, []string{"rm -rf", "sudo", "shutdown", "reboot"}, cfg.Gate.ForbiddenWords)

	// Filter config
	assert.Equal(t, []string{`\x1b\[K`}, cfg.Filter.Patterns)

	// Tools config
	assert.Equal(t, "exec", cfg.Tools.ExecName)
	assert.Equal(t, 60, cfg.Tools.ExecTimeout)
	assert.Equal(t, "terminal", cfg.Tools.TerminalName)
	assert.Equal(t, 0.2, cfg.Tools.TerminalWait)
	assert.Equal(t, 24, cfg.Tools.TerminalRows)
	assert.Equal(t, 80, cfg.Tools.TerminalCols)
	assert.Equal(t, "terminal_terminate", cfg.Tools.TerminateName)

	// Logging config
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Development)

	// Monitor config
	assert.Equal(t, "", cfg.Monitor.Addr)
	assert.Equal(t, time.Second, cfg.Monitor.ScreenInterval)
	assert.Equal(t, 20, cfg.Monitor.RequestsPerSecond)
	assert.Equal(t, 40, cfg.Monitor.Burst)

	// Transcript config
	assert.Equal(t, "", cfg.Transcript.Path)
}

func TestDefaultMatchesEnvDefaults(t *testing.T) {
	// Load with a clean environment must agree with Default().
	loaded, err := Load()
	require.NoError(t, err)

	assert.Equal(t, Default(), loaded)
}

func TestLoadOrDefault(t *testing.T) {
	cfg := LoadOrDefault()

	assert.NotNil(t, cfg)
	assert.Equal(t, "/bin/bash", cfg.Process.PathArgs)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	envVars := map[string]string{
		"PROCESS_PATH_ARGS": "/usr/bin/fish",
		"FIX_CONTROL_CHARS": "false",
		"SPAWN_GRACE":       "2s",
		"READ_TIMEOUT":      "250ms",
		"FORBIDDEN_WORDS":   "mkfs,dd",
		"EXEC_NAME":         "run",
		"EXEC_TIMEOUT":      "30",
		"TERMINAL_NAME":     "shell",
		"TERMINAL_WAIT":     "0.5",
		"TERMINAL_ROWS":     "50",
		"TERMINAL_COLS":     "132",
		"TERMINATE_NAME":    "shell_kill",
		"LOG_LEVEL":         "debug",
		"LOG_DEV":           "true",
		"MONITOR_ADDR":      "127.0.0.1:9180",
		"TRANSCRIPT_PATH":   "/tmp/session.zst",
	}

	for key, value := range envVars {
		err := os.Setenv(key, value)
		require.NoError(t, err)
		defer os.Unsetenv(key)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/usr/bin/fish", cfg.Process.PathArgs)
	assert.False(t, cfg.Process.FixControlChars)
	assert.Equal(t, 2*time.Second, cfg.Process.SpawnGrace)
	assert.Equal(t, 250*time.Millisecond, cfg.Process.ReadTimeout)

	assert.Equal(t, []string{"mkfs", "dd"}, cfg.Gate.ForbiddenWords)

	assert.Equal(t, "run", cfg.Tools.ExecName)
	assert.Equal(t, 30, cfg.Tools.ExecTimeout)
	assert.Equal(t, "shell", cfg.Tools.TerminalName)
	assert.Equal(t, 0.5, cfg.Tools.TerminalWait)
	assert.Equal(t, 50, cfg.Tools.TerminalRows)
	assert.Equal(t, 132, cfg.Tools.TerminalCols)
	assert.Equal(t, "shell_kill", cfg.Tools.TerminateName)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)

	assert.Equal(t, "127.0.0.1:9180", cfg.Monitor.Addr)
	assert.Equal(t, "/tmp/session.zst", cfg.Transcript.Path)
}

func TestLoadWithPartialEnvironmentVariables(t *testing.T) {
	err := os.Setenv("EXEC_TIMEOUT", "120")
	require.NoError(t, err)
	defer os.Unsetenv("EXEC_TIMEOUT")

	err = os.Setenv("LOG_LEVEL", "warn")
	require.NoError(t, err)
	defer os.Unsetenv("LOG_LEVEL")

	cfg, err := Load()
	require.NoError(t, err)

	// Verify overridden values
	assert.Equal(t, 120, cfg.Tools.ExecTimeout)
	assert.Equal(t, "warn", cfg.Logging.Level)

	// Verify default values still apply
	assert.Equal(t, "/bin/bash", cfg.Process.PathArgs)
	assert.Equal(t, "terminal", cfg.Tools.TerminalName)
	assert.True(t, cfg.Process.FixControlChars)
}

func TestLoadFileOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "termgate.yaml")

	content := `process:
  path_args: /bin/sh
tools:
  exec_name: shell_exec
  exec_timeout: 15
  terminal_rows: 40
monitor:
  addr: 127.0.0.1:9180
  rate_rps: 5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	// File values applied
	assert.Equal(t, "/bin/sh", cfg.Process.PathArgs)
	assert.Equal(t, "shell_exec", cfg.Tools.ExecName)
	assert.Equal(t, 15, cfg.Tools.ExecTimeout)
	assert.Equal(t, 40, cfg.Tools.TerminalRows)
	assert.Equal(t, "127.0.0.1:9180", cfg.Monitor.Addr)
	assert.Equal(t, 5, cfg.Monitor.RequestsPerSecond)

	// Untouched fields keep their defaults
	assert.Equal(t, "terminal", cfg.Tools.TerminalName)
	assert.Equal(t, 80, cfg.Tools.TerminalCols)
	assert.Equal(t, 40, cfg.Monitor.Burst)
}

func TestLoadFileWinsOverEnvironment(t *testing.T) {
	err := os.Setenv("EXEC_NAME", "from_env")
	require.NoError(t, err)
	defer os.Unsetenv("EXEC_NAME")

	dir := t.TempDir()
	path := filepath.Join(dir, "termgate.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tools:\n  exec_name: from_file\n"), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "from_file", cfg.Tools.ExecName)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile("/nonexistent/termgate.yaml")
	assert.Error(t, err)
}

func TestLoadFileEmptyPath(t *testing.T) {
	cfg, err := LoadFile("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "defaults are valid",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "empty process path",
			mutate:  func(c *Config) { c.Process.PathArgs = "" },
			wantErr: true,
		},
		{
			name:    "zero read timeout",
			mutate:  func(c *Config) { c.Process.ReadTimeout = 0 },
			wantErr: true,
		},
		{
			name:    "zero exec timeout",
			mutate:  func(c *Config) { c.Tools.ExecTimeout = 0 },
			wantErr: true,
		},
		{
			name:    "negative terminal wait",
			mutate:  func(c *Config) { c.Tools.TerminalWait = -1 },
			wantErr: true,
		},
		{
			name:    "zero terminal size",
			mutate:  func(c *Config) { c.Tools.TerminalRows = 0 },
			wantErr: true,
		},
		{
			name:    "invalid filter pattern",
			mutate:  func(c *Config) { c.Filter.Patterns = []string{"("} },
			wantErr: true,
		},
		{
			name: "monitor without rate limit",
			mutate: func(c *Config) {
				c.Monitor.Addr = "127.0.0.1:9180"
				c.Monitor.RequestsPerSecond = 0
			},
			wantErr: true,
		},
		{
			name:    "rate limit ignored when monitor disabled",
			mutate:  func(c *Config) { c.Monitor.RequestsPerSecond = 0 },
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
