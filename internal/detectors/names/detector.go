// Package names detects person names from surface context.
//
// Three rules with descending certainty: titled names ("Dr. Wilson"),
// label-introduced names ("Patient: John Smith"), and bare capitalised
// pairs. The first two carry unambiguous surface context and sit at the
// protected priority threshold; the bare heuristic is deliberately
// low-priority and low-confidence so stronger detectors outrank it.
package names

import (
	"context"
	"regexp"

	"github.com/custodia-labs/scrub-cli/internal/core/domain"
	"github.com/custodia-labs/scrub-cli/internal/core/ports/driven"
)

const (
	barePriority = 100

	titledConfidence   = 0.95
	labelledConfidence = 0.95
	bareConfidence     = 0.6
)

var (
	// Dr. Wilson, Mrs. Jane Smith, Mr Jones.
	titledRe = regexp.MustCompile(`\b(?:Dr|Mr|Mrs|Ms|Prof|Rev)\.?\s+[A-Z][a-z]+(?:\s+[A-Z][a-z]+)?\b`)

	// Patient: John Smith / Name - Jane Doe / Physician: Gregory House.
	// Case-insensitive label, case-sensitive name: the capitalisation of
	// the value is part of the evidence.
	labelledRe = regexp.MustCompile(`\b(?i:patient|name|physician|provider|guarantor|spouse|mother|father|contact)\b\s*[:\-]\s*([A-Z][a-z]+(?:\s+[A-Z][a-z]+){0,2})`)

	// Bare capitalised pair. Noisy on headings and sentence starts; the
	// vocabulary post-filter and the resolver clean most of that up.
	bareRe = regexp.MustCompile(`\b[A-Z][a-z]+\s+[A-Z][a-z]+\b`)
)

var _ driven.Detector = (*Detector)(nil)

// Detector finds person names.
type Detector struct{}

// New creates a names detector.
func New() *Detector {
	return &Detector{}
}

func (d *Detector) Name() string              { return "names" }
func (d *Detector) Category() domain.Category { return domain.CategoryName }
func (d *Detector) Priority() int             { return barePriority }

// Detect scans for names.
func (d *Detector) Detect(_ context.Context, text string, _ domain.Settings) ([]domain.Span, error) {
	var spans []domain.Span

	for _, m := range titledRe.FindAllStringIndex(text, -1) {
		spans = append(spans, span(text, m[0], m[1], domain.ProtectedPriority, titledConfidence, "Name titled"))
	}
	for _, m := range labelledRe.FindAllStringSubmatchIndex(text, -1) {
		if m[2] < 0 {
			continue
		}
		spans = append(spans, span(text, m[2], m[3], domain.ProtectedPriority, labelledConfidence, "Name labelled"))
	}
	for _, m := range bareRe.FindAllStringIndex(text, -1) {
		spans = append(spans, span(text, m[0], m[1], barePriority, bareConfidence, "Name capitalised pair"))
	}

	return spans, nil
}

func span(text string, start, end, priority int, confidence float64, pattern string) domain.Span {
	return domain.Span{
		Text:           text[start:end],
		OriginalValue:  text[start:end],
		CharacterStart: start,
		CharacterEnd:   end,
		Category:       domain.CategoryName,
		Confidence:     confidence,
		Priority:       priority,
		Pattern:        pattern,
		State:          domain.StateCandidate,
	}
}
