package safety

import (
	"fmt"
	"strings"
)

// DefaultForbiddenWords are the substrings gated when no explicit list
// is configured.
var DefaultForbiddenWords = []string{"rm -rf", "sudo", "shutdown", "reboot"}

// Gate screens command input for substrings the operator marked as
// dangerous. Matching is case-sensitive.
type Gate struct {
	forbidden []string
}

// NewGate creates a gate over the given forbidden substrings. Empty
// entries are dropped so they cannot match everything.
func NewGate(words []string) *Gate {
	g := &Gate{}
	for _, w := range words {
		if w != "" {
			g.forbidden = append(g.forbidden, w)
		}
	}
	return g
}

// RequiresConfirmation reports whether command contains any forbidden
// substring.
func (g *Gate) RequiresConfirmation(command string) bool {
	for _, w := range g.forbidden {
		if strings.Contains(command, w) {
			return true
		}
	}
	return false
}

// Warning builds the text returned in place of execution when a
// command trips the gate. The caller is expected to resend the command
// only after the user explicitly confirms it.
func (g *Gate) Warning(command string) string {
	return fmt.Sprintf("⚠️ This command contains a potentially dangerous operation: %s\nPlease reformulate it or explicitly confirm that you want to execute it.", command)
}
