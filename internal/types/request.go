package types

import "time"

// Request is the closed set of operations the process service accepts.
// Handlers dispatch on the concrete type rather than on tool name
// strings, so adding an operation requires adding a variant here.
type Request interface {
	isRequest()
}

// ExecRequest runs a single command to completion and captures its output.
type ExecRequest struct {
	Command string
	Timeout time.Duration
}

// InteractRequest drives the persistent terminal session. A nil Input
// polls the screen without sending anything.
type InteractRequest struct {
	Input *string
	Wait  time.Duration
}

// TerminateRequest tears down the terminal session if one exists.
type TerminateRequest struct{}

func (*ExecRequest) isRequest()      {}
func (*InteractRequest) isRequest()  {}
func (*TerminateRequest) isRequest() {}

// ValidationError reports a request that failed argument validation.
// It is surfaced to the caller as plain text rather than as a protocol
// fault, so the model can read it and retry.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }
