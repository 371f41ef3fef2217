// Package terminal runs the persistent interactive shell session.
//
// A Session wraps one child process behind a PTY. Reads are bounded by
// deadlines instead of a background pump, so output produced while no
// call is in flight stays buffered in the kernel until the next drain.
// A monitor goroutine reaps the child and records its exit code the
// moment it dies.
//
// A Screen feeds drained bytes through a vt10x emulation and renders
// the character grid to plain text with a block glyph marking the
// cursor.
//
// The Manager ties both together: it spawns the session lazily,
// supersedes it after death, applies the safety gate and output
// filters, and formats the fixed response texts callers rely on.
package terminal
