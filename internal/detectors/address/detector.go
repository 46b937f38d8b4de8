// Package address detects street addresses and ZIP codes.
package address

import (
	"context"
	"regexp"

	"github.com/custodia-labs/scrub-cli/internal/core/domain"
	"github.com/custodia-labs/scrub-cli/internal/core/ports/driven"
)

const (
	basePriority = 100

	streetConfidence = 0.88
	zipConfidence    = 0.8
)

var (
	// 123 Main Street, 4521 Oak Ave, 77 Massachusetts Avenue Apt 4B.
	streetRe = regexp.MustCompile(`\b\d{1,5}\s+[A-Z][a-z]+(?:\s+[A-Z][a-z]+)?\s+(?:Street|St|Avenue|Ave|Road|Rd|Boulevard|Blvd|Drive|Dr|Lane|Ln|Court|Ct|Place|Pl|Way|Circle|Cir)\.?(?:\s+(?:Apt|Suite|Ste|Unit|#)\.?\s*[A-Za-z0-9-]+)?\b`)

	// ZIP or ZIP+4 following a state abbreviation or a comma keeps the
	// false-positive rate on bare 5-digit numbers down.
	zipRe = regexp.MustCompile(`\b[A-Z]{2}\s+(\d{5}(?:-\d{4})?)\b`)
)

var _ driven.Detector = (*Detector)(nil)

// Detector finds postal addresses.
type Detector struct{}

// New creates an address detector.
func New() *Detector {
	return &Detector{}
}

func (d *Detector) Name() string              { return "address" }
func (d *Detector) Category() domain.Category { return domain.CategoryAddress }
func (d *Detector) Priority() int             { return basePriority }

// Detect scans for street addresses and ZIP codes.
func (d *Detector) Detect(_ context.Context, text string, _ domain.Settings) ([]domain.Span, error) {
	var spans []domain.Span

	for _, m := range streetRe.FindAllStringIndex(text, -1) {
		spans = append(spans, span(text, m[0], m[1], basePriority, streetConfidence, "Street address"))
	}
	for _, m := range zipRe.FindAllStringSubmatchIndex(text, -1) {
		spans = append(spans, span(text, m[2], m[3], basePriority, zipConfidence, "ZIP code"))
	}

	return spans, nil
}

func span(text string, start, end, priority int, confidence float64, pattern string) domain.Span {
	return domain.Span{
		Text:           text[start:end],
		OriginalValue:  text[start:end],
		CharacterStart: start,
		CharacterEnd:   end,
		Category:       domain.CategoryAddress,
		Confidence:     confidence,
		Priority:       priority,
		Pattern:        pattern,
		State:          domain.StateCandidate,
	}
}
