package driven

import (
	"context"

	"github.com/custodia-labs/scrub-cli/internal/core/domain"
)

// AuditSink receives decision logs and parity records for persistence or
// external aggregation. Sinks are purely observational: a sink error is
// logged, never fed back into the redaction result.
type AuditSink interface {
	// RecordDecisions stores the decision log of one orchestration pass.
	// docID identifies the document or streaming session.
	RecordDecisions(ctx context.Context, docID string, log *domain.DecisionLog) error

	// RecordParity stores one shadow-mode comparison outcome.
	RecordParity(ctx context.Context, rec domain.ParityRecord) error

	// Close releases any underlying resources.
	Close() error
}
