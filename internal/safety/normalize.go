package safety

import "strings"

// controlFixes maps literal escape sequences, as they arrive when a
// client double-escapes its JSON, to the control characters they were
// meant to be.
var controlFixes = []struct {
	literal string
	actual  string
}{
	{`\n`, "\n"},
}

// FixControlAtEnd repairs a known-mistake escape sequence at the very
// end of input. Only the trailing occurrence is replaced; the same
// sequence anywhere else in the input is left alone.
func FixControlAtEnd(input string) string {
	if input == "" {
		return input
	}
	for _, fix := range controlFixes {
		if strings.HasSuffix(input, fix.literal) {
			return input[:len(input)-len(fix.literal)] + fix.actual
		}
	}
	return input
}
