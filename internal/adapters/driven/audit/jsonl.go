// Package audit provides file-based audit sinks. The JSONL sink appends
// one JSON object per line, suitable for log shipping and offline review
// of redaction decisions.
package audit

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/custodia-labs/scrub-cli/internal/core/domain"
	"github.com/custodia-labs/scrub-cli/internal/core/ports/driven"
)

// Ensure JSONLSink implements the interface.
var _ driven.AuditSink = (*JSONLSink)(nil)

// decisionLine is one decision log entry as written to the file.
type decisionLine struct {
	Type     string          `json:"type"`
	Time     time.Time       `json:"time"`
	DocID    string          `json:"doc_id"`
	Decision domain.Decision `json:"decision"`
}

// parityLine is one parity record as written to the file.
type parityLine struct {
	Type   string              `json:"type"`
	Record domain.ParityRecord `json:"record"`
}

// JSONLSink appends decision and parity records to a JSON Lines file.
// Writes are serialised; the file is flushed after every record so a
// crash loses at most the record being written.
type JSONLSink struct {
	mu   sync.Mutex
	file *os.File
	w    *bufio.Writer
}

// NewJSONLSink opens or creates the audit file in append mode. Parent
// directories are created as needed.
func NewJSONLSink(path string) (*JSONLSink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating audit directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("opening audit file: %w", err)
	}
	return &JSONLSink{
		file: f,
		w:    bufio.NewWriter(f),
	}, nil
}

// RecordDecisions writes one line per decision log entry.
func (s *JSONLSink) RecordDecisions(_ context.Context, docID string, log *domain.DecisionLog) error {
	if log == nil || len(log.Entries) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	for _, d := range log.Entries {
		if err := s.writeLine(decisionLine{
			Type:     "decision",
			Time:     now,
			DocID:    docID,
			Decision: d,
		}); err != nil {
			return err
		}
	}
	return s.w.Flush()
}

// RecordParity writes one line for the comparison outcome.
func (s *JSONLSink) RecordParity(_ context.Context, rec domain.ParityRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writeLine(parityLine{Type: "parity", Record: rec}); err != nil {
		return err
	}
	return s.w.Flush()
}

// Close flushes and closes the audit file.
func (s *JSONLSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.w.Flush(); err != nil {
		s.file.Close()
		return fmt.Errorf("flushing audit file: %w", err)
	}
	return s.file.Close()
}

func (s *JSONLSink) writeLine(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling audit line: %w", err)
	}
	if _, err := s.w.Write(data); err != nil {
		return fmt.Errorf("writing audit line: %w", err)
	}
	if err := s.w.WriteByte('\n'); err != nil {
		return fmt.Errorf("writing audit line: %w", err)
	}
	return nil
}
