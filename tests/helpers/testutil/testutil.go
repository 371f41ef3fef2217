// Package testutil provides testing utilities and helpers shared by
// the tool-level test suites.
package testutil

import (
	"strings"
	"testing"
	"time"

	"github.com/termgate/termgate/internal/config"
	"github.com/termgate/termgate/internal/types"
)

// TestConfig returns a configuration suitable for spawning real
// processes in tests: a plain shell and short grace periods so suites
// stay fast.
func TestConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := config.Default()
	cfg.Process.PathArgs = "/bin/sh"
	cfg.Process.SpawnGrace = 200 * time.Millisecond
	cfg.Process.ReadTimeout = 300 * time.Millisecond
	return cfg
}

// AssertSuccess is a helper to assert a successful result.
func AssertSuccess(t *testing.T, result *types.Result) {
	t.Helper()
	if result == nil {
		t.Fatal("Result is nil")
	}
	if !result.Success {
		t.Fatalf("Expected success, got error: %v", result.Error)
	}
}

// AssertError is a helper to assert an error result.
func AssertError(t *testing.T, result *types.Result) {
	t.Helper()
	if result == nil {
		t.Fatal("Result is nil")
	}
	if result.Success {
		t.Fatal("Expected error, got success")
	}
	if result.Error == nil {
		t.Fatal("Expected error message, got nil")
	}
}

// AssertTextContains asserts the result succeeded and its text payload
// contains want.
func AssertTextContains(t *testing.T, result *types.Result, want string) {
	t.Helper()
	AssertSuccess(t, result)

	if !strings.Contains(result.Text(), want) {
		t.Fatalf("Text %q does not contain %q", result.Text(), want)
	}
}

// AssertTextPrefix asserts the result succeeded and its text payload
// starts with want.
func AssertTextPrefix(t *testing.T, result *types.Result, want string) {
	t.Helper()
	AssertSuccess(t, result)

	if !strings.HasPrefix(result.Text(), want) {
		t.Fatalf("Text %q does not start with %q", result.Text(), want)
	}
}
