// Package services implements the driving port interfaces.
// Services contain the core redaction logic: parallel detection
// orchestration, conflict resolution, token assignment, the streaming
// engine, and the acceleration parity layer.
//
// Services are pure Go with no CGO or external I/O; persistence and
// pattern detection live behind driven ports.
package services
