// Package memory provides an in-memory audit sink for tests and dry runs.
package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/scrub-cli/internal/core/domain"
	"github.com/custodia-labs/scrub-cli/internal/core/ports/driven"
)

// Ensure AuditSink implements the interface.
var _ driven.AuditSink = (*AuditSink)(nil)

// AuditSink is an in-memory implementation of driven.AuditSink. Records
// are kept in arrival order and never evicted.
type AuditSink struct {
	mu        sync.RWMutex
	decisions map[string][]domain.Decision
	parity    []domain.ParityRecord
	closed    bool
}

// NewAuditSink creates a new in-memory audit sink.
func NewAuditSink() *AuditSink {
	return &AuditSink{
		decisions: make(map[string][]domain.Decision),
	}
}

// RecordDecisions appends the log entries under the document ID.
func (s *AuditSink) RecordDecisions(_ context.Context, docID string, log *domain.DecisionLog) error {
	if log == nil || len(log.Entries) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.decisions[docID] = append(s.decisions[docID], log.Entries...)
	return nil
}

// RecordParity appends one parity record.
func (s *AuditSink) RecordParity(_ context.Context, rec domain.ParityRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.parity = append(s.parity, rec)
	return nil
}

// Close marks the sink closed. Recorded data stays readable.
func (s *AuditSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Decisions returns the recorded decisions for a document ID.
func (s *AuditSink) Decisions(docID string) []domain.Decision {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Decision, len(s.decisions[docID]))
	copy(out, s.decisions[docID])
	return out
}

// ParityRecords returns all recorded parity records in arrival order.
func (s *AuditSink) ParityRecords() []domain.ParityRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ParityRecord, len(s.parity))
	copy(out, s.parity)
	return out
}

// Closed reports whether Close was called.
func (s *AuditSink) Closed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}
