package driving

import (
	"context"

	"github.com/custodia-labs/scrub-cli/internal/core/domain"
)

// Redactor is the batch API: one call redacts one whole document.
type Redactor interface {
	// Redact runs detection, conflict resolution, and token assignment
	// over text and returns the redacted text with its plan and log.
	Redact(ctx context.Context, text string) (domain.Result, error)
}

// Session is one streaming redaction session. Chunks must be fed strictly
// in arrival order by a single caller; out-of-order delivery is a caller
// error the engine does not handle.
type Session interface {
	// Feed appends a chunk and returns the redacted safe prefix that can
	// be emitted without risking a match truncated by the chunk boundary.
	// The prefix may be empty while the engine buffers.
	Feed(ctx context.Context, chunk string) (string, error)

	// Flush runs the pipeline over the entire remaining buffer with no
	// held-back tail and returns the final redacted output. The session
	// transitions to closed; further Feed calls fail.
	Flush(ctx context.Context) (string, error)

	// Plan returns the spans applied so far, with offsets into the full
	// stream.
	Plan() *domain.ResolvedPlan

	// Log returns the accumulated decision log.
	Log() *domain.DecisionLog

	// Close abandons the session. Safe to call after Flush.
	Close() error
}

// StreamRedactor opens streaming sessions. Independent sessions may be
// processed fully in parallel; each session's state is owned exclusively
// by that session.
type StreamRedactor interface {
	OpenSession(ctx context.Context) (Session, error)
}

// ParitySource exposes the shadow-mode comparison stream for external
// promotion tooling. Purely observational.
type ParitySource interface {
	// Records returns a read channel of parity records. The channel is
	// closed when the engine shuts down. Slow readers never block
	// redaction; records are dropped instead.
	Records() <-chan domain.ParityRecord
}
