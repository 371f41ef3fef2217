// Package safety screens command input and scrubs terminal output.
//
// Three small pieces live here:
//   - Gate: substring screening of inbound commands. A match does not
//     block the command forever; it returns a warning so the caller can
//     resend after explicit confirmation.
//   - FixControlAtEnd: repairs a literal escape sequence at the tail of
//     input, a common client-side double-escaping mistake.
//   - OutputFilter: regex deletions applied to rendered screen text.
//
// Matching Rules:
//   - Gate matching is case-sensitive and positional: any occurrence of
//     a configured substring anywhere in the command triggers it.
//   - FixControlAtEnd replaces only a trailing occurrence; the same
//     sequence in the middle of the input is left alone.
//
// Example Usage:
//
//	gate := safety.NewGate(safety.DefaultForbiddenWords)
//	if gate.RequiresConfirmation(cmd) {
//		return gate.Warning(cmd)
//	}
package safety
