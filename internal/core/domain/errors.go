package domain

import "errors"

// Domain errors represent redaction engine failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMalformedSpan indicates a detector returned an out-of-range,
	// zero-length, or otherwise invalid span. Rejected at pool entry,
	// never fatal.
	ErrMalformedSpan = errors.New("malformed span")

	// ErrUnknownDetector indicates a detector name is not registered.
	ErrUnknownDetector = errors.New("unknown detector")

	// ErrNoDetectors indicates the engine was built with an empty registry.
	ErrNoDetectors = errors.New("no detectors registered")

	// ErrAcceleratedUnavailable indicates a detector has no accelerated
	// implementation. In accelerated mode the call falls back to the
	// reference implementation.
	ErrAcceleratedUnavailable = errors.New("accelerated implementation unavailable")

	// Streaming session errors. A protocol violation is fatal to that
	// call only, never to the session's prior output.

	// ErrSessionClosed indicates an operation on a closed session.
	ErrSessionClosed = errors.New("session closed")

	// ErrSessionFlushed indicates Feed was called after Flush.
	ErrSessionFlushed = errors.New("session already flushed")
)
