// Package provider implements the process service behind the exposed
// tools.
//
// The provider owns both execution paths and the safety gate in front
// of them:
//   - Exec: one-shot command execution with bounded runtime
//   - Interact: the persistent interactive terminal with screen
//     rendering
//   - Terminate: explicit terminal teardown
//
// Provider Interface:
//   - Definition(): Returns service metadata and tool definitions
//   - Execute(): Validates raw tool arguments and runs the operation
//   - Handle(): Dispatches an already-typed request
//
// Tool IDs are fixed (process.exec, process.interact,
// process.terminate) while the names and descriptions advertised to
// callers come from configuration, so deployments can relabel tools
// without touching dispatch.
package provider
