// Package config provides 12-factor configuration management for termgate.
//
// Configuration is loaded from environment variables with sensible
// defaults, optionally overlaid by a YAML file, and finally by CLI
// flags. Precedence: flags > file > environment > defaults.
//
// Configuration Sections:
//   - Process: base command, input repair, spawn grace, read timeout
//   - Gate: forbidden substrings that require explicit confirmation
//   - Filter: regex deletions applied to rendered screen output
//   - Tools: advertised tool names, descriptions, timeouts, screen size
//   - Logging: log level and output format (always stderr)
//   - Monitor: optional HTTP observer listener
//   - Transcript: optional compressed session transcript
//
// Example Usage:
//
//	cfg, err := config.LoadFile("/etc/termgate.yaml")
//	if err != nil {
//		...
//	}
//	if err := cfg.Validate(); err != nil {
//		...
//	}
//
// Environment Variables:
//   - PROCESS_PATH_ARGS, FIX_CONTROL_CHARS, SPAWN_GRACE, READ_TIMEOUT
//   - FORBIDDEN_WORDS, FILTER_PATTERNS
//   - EXEC_NAME, EXEC_DESCRIPTION, EXEC_TIMEOUT
//   - TERMINAL_NAME, TERMINAL_DESCRIPTION, TERMINAL_WAIT, TERMINAL_ROWS, TERMINAL_COLS
//   - TERMINATE_NAME, TERMINATE_DESCRIPTION
//   - LOG_LEVEL, LOG_DEV
//   - MONITOR_ADDR, MONITOR_SCREEN_INTERVAL, MONITOR_RATE_RPS, MONITOR_RATE_BURST
//   - TRANSCRIPT_PATH
package config
