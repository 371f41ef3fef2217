// Package mcp adapts the process provider to the Model Context
// Protocol over stdio.
//
// The adapter is deliberately thin: tool registration mirrors the
// provider's catalog, raw arguments pass through untouched, and every
// operational outcome travels back as plain text. Stdout belongs to
// the protocol stream, which is why all logging in this program goes
// to stderr.
package mcp
