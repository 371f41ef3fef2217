package config

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"

	"github.com/termgate/termgate/internal/safety"
)

// Config holds all application configuration.
type Config struct {
	Process    ProcessConfig    `yaml:"process"`
	Gate       GateConfig       `yaml:"gate"`
	Filter     FilterConfig     `yaml:"filter"`
	Tools      ToolsConfig      `yaml:"tools"`
	Logging    LogConfig        `yaml:"logging"`
	Monitor    MonitorConfig    `yaml:"monitor"`
	Transcript TranscriptConfig `yaml:"transcript"`
}

// ProcessConfig holds the spawn settings shared by the one-shot and
// interactive paths.
type ProcessConfig struct {
	// PathArgs is the base command plus immutable arguments. One-shot
	// commands are appended to it; the interactive terminal runs it
	// as-is.
	PathArgs        string        `envconfig:"PROCESS_PATH_ARGS" default:"/bin/bash" yaml:"path_args"`
	FixControlChars bool          `envconfig:"FIX_CONTROL_CHARS" default:"true" yaml:"fix_control_chars"`
	SpawnGrace      time.Duration `envconfig:"SPAWN_GRACE" default:"1s" yaml:"spawn_grace"`
	ReadTimeout     time.Duration `envconfig:"READ_TIMEOUT" default:"500ms" yaml:"read_timeout"`
}

// GateConfig holds command screening configuration.
type GateConfig struct {
	ForbiddenWords []string `envconfig:"FORBIDDEN_WORDS" default:"rm -rf,sudo,shutdown,reboot" yaml:"forbidden_words"`
}

// FilterConfig holds output scrubbing configuration. Patterns are
// regular expressions deleted from rendered screen text.
type FilterConfig struct {
	Patterns []string `envconfig:"FILTER_PATTERNS" default:"\\x1b\\[K" yaml:"patterns"`
}

// ToolsConfig holds the advertised tool catalog. An empty name
// disables that tool; disabling the terminal tool also disables the
// terminate tool.
type ToolsConfig struct {
	ExecName        string `envconfig:"EXEC_NAME" default:"exec" yaml:"exec_name"`
	ExecDescription string `envconfig:"EXEC_DESCRIPTION" default:"Executes a static command (ls pwd cat echo ps mkdir cp grep find git sed ...) and returns its result" yaml:"exec_description"`
	ExecTimeout     int    `envconfig:"EXEC_TIMEOUT" default:"60" yaml:"exec_timeout"`

	TerminalName        string  `envconfig:"TERMINAL_NAME" default:"terminal" yaml:"terminal_name"`
	TerminalDescription string  `envconfig:"TERMINAL_DESCRIPTION" default:"Create a persistent shell terminal session if it doesn't exist and send input to the shell (applications: vi top htop nano less python ssh mysql ftp ncdu ...) (for nano -> Enter: \\r), asynchronous return (the screen may still refresh after the return)" yaml:"terminal_description"`
	TerminalWait        float64 `envconfig:"TERMINAL_WAIT" default:"0.2" yaml:"terminal_wait"`
	TerminalRows        int     `envconfig:"TERMINAL_ROWS" default:"24" yaml:"terminal_rows"`
	TerminalCols        int     `envconfig:"TERMINAL_COLS" default:"80" yaml:"terminal_cols"`

	TerminateName        string `envconfig:"TERMINATE_NAME" default:"terminal_terminate" yaml:"terminate_name"`
	TerminateDescription string `envconfig:"TERMINATE_DESCRIPTION" default:"Terminate the current interactive process/terminal if it exists" yaml:"terminate_description"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info" yaml:"level"`
	Development bool   `envconfig:"LOG_DEV" default:"false" yaml:"development"`
}

// MonitorConfig holds the optional observer listener configuration.
// An empty address disables the listener entirely.
type MonitorConfig struct {
	Addr              string        `envconfig:"MONITOR_ADDR" default:"" yaml:"addr"`
	ScreenInterval    time.Duration `envconfig:"MONITOR_SCREEN_INTERVAL" default:"1s" yaml:"screen_interval"`
	RequestsPerSecond int           `envconfig:"MONITOR_RATE_RPS" default:"20" yaml:"rate_rps"`
	Burst             int           `envconfig:"MONITOR_RATE_BURST" default:"40" yaml:"rate_burst"`
}

// TranscriptConfig holds session transcript recording configuration.
// An empty path disables recording.
type TranscriptConfig struct {
	Path string `envconfig:"TRANSCRIPT_PATH" default:"" yaml:"path"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadFile loads configuration from the environment, then overlays the
// YAML file at path. Values in the file win over environment values;
// CLI flags applied by the caller win over both.
func LoadFile(path string) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Process: ProcessConfig{
			PathArgs:        "/bin/bash",
			FixControlChars: true,
			SpawnGrace:      time.Second,
			ReadTimeout:     500 * time.Millisecond,
		},
		Gate: GateConfig{
			ForbiddenWords: safety.DefaultForbiddenWords,
		},
		Filter: FilterConfig{
			Patterns: safety.DefaultFilterPatterns,
		},
		Tools: ToolsConfig{
			ExecName:             "exec",
			ExecDescription:      "Executes a static command (ls pwd cat echo ps mkdir cp grep find git sed ...) and returns its result",
			ExecTimeout:          60,
			TerminalName:         "terminal",
			TerminalDescription:  `Create a persistent shell terminal session if it doesn't exist and send input to the shell (applications: vi top htop nano less python ssh mysql ftp ncdu ...) (for nano -> Enter: \r), asynchronous return (the screen may still refresh after the return)`,
			TerminalWait:         0.2,
			TerminalRows:         24,
			TerminalCols:         80,
			TerminateName:        "terminal_terminate",
			TerminateDescription: "Terminate the current interactive process/terminal if it exists",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		Monitor: MonitorConfig{
			Addr:              "",
			ScreenInterval:    time.Second,
			RequestsPerSecond: 20,
			Burst:             40,
		},
		Transcript: TranscriptConfig{
			Path: "",
		},
	}
}

// Validate checks the configuration for values no component can run
// with.
func (c *Config) Validate() error {
	if c.Process.PathArgs == "" {
		return fmt.Errorf("process path args must not be empty")
	}
	if c.Process.ReadTimeout <= 0 {
		return fmt.Errorf("read timeout must be positive, got %v", c.Process.ReadTimeout)
	}
	if c.Tools.ExecTimeout <= 0 {
		return fmt.Errorf("exec timeout must be positive, got %d", c.Tools.ExecTimeout)
	}
	if c.Tools.TerminalWait < 0 {
		return fmt.Errorf("terminal wait must not be negative, got %v", c.Tools.TerminalWait)
	}
	if c.Tools.TerminalRows <= 0 || c.Tools.TerminalCols <= 0 {
		return fmt.Errorf("terminal size must be positive, got %dx%d", c.Tools.TerminalCols, c.Tools.TerminalRows)
	}
	if _, err := safety.NewOutputFilter(c.Filter.Patterns); err != nil {
		return err
	}
	if c.Monitor.Addr != "" {
		if c.Monitor.ScreenInterval <= 0 {
			return fmt.Errorf("monitor screen interval must be positive, got %v", c.Monitor.ScreenInterval)
		}
		if c.Monitor.RequestsPerSecond <= 0 || c.Monitor.Burst <= 0 {
			return fmt.Errorf("monitor rate limit must be positive, got rps=%d burst=%d", c.Monitor.RequestsPerSecond, c.Monitor.Burst)
		}
	}
	return nil
}
