// Package dates detects calendar dates in numeric and written forms.
//
// Dates are temporal spans: the token assignment layer anchors the first
// date of a document as day zero and encodes later dates as signed day
// offsets, so chronology survives redaction even though absolute dates
// do not.
package dates

import (
	"context"
	"regexp"

	"github.com/custodia-labs/scrub-cli/internal/core/domain"
	"github.com/custodia-labs/scrub-cli/internal/core/ports/driven"
)

const (
	basePriority = 100

	numericConfidence = 0.9
	writtenConfidence = 0.92
	dobConfidence     = 0.98
)

var (
	// 01/02/1980, 1/2/1980, 01-02-1980, 1980-01-02, 01/02/80.
	numericRe = regexp.MustCompile(`\b(?:\d{1,2}[/-]\d{1,2}[/-]\d{2,4}|\d{4}-\d{2}-\d{2})\b`)

	// January 2, 1980 / Jan 2, 1980 / 2 January 1980.
	writtenRe = regexp.MustCompile(`(?i)\b(?:(?:Jan(?:uary)?|Feb(?:ruary)?|Mar(?:ch)?|Apr(?:il)?|May|Jun(?:e)?|Jul(?:y)?|Aug(?:ust)?|Sep(?:tember)?|Oct(?:ober)?|Nov(?:ember)?|Dec(?:ember)?)\.?\s+\d{1,2},?\s+\d{4}|\d{1,2}\s+(?:Jan(?:uary)?|Feb(?:ruary)?|Mar(?:ch)?|Apr(?:il)?|May|Jun(?:e)?|Jul(?:y)?|Aug(?:ust)?|Sep(?:tember)?|Oct(?:ober)?|Nov(?:ember)?|Dec(?:ember)?)\.?\s+\d{4})\b`)

	// Date-of-birth labels make the span structurally certain.
	dobRe = regexp.MustCompile(`(?i)\b(?:DOB|date\s+of\s+birth|birth\s*date)[\s:#]*(\d{1,2}[/-]\d{1,2}[/-]\d{2,4}|\d{4}-\d{2}-\d{2})\b`)
)

var _ driven.Detector = (*Detector)(nil)

// Detector finds calendar dates.
type Detector struct{}

// New creates a dates detector.
func New() *Detector {
	return &Detector{}
}

func (d *Detector) Name() string              { return "dates" }
func (d *Detector) Category() domain.Category { return domain.CategoryDate }
func (d *Detector) Priority() int             { return basePriority }

// Detect scans for dates. A labelled DOB and the bare numeric pattern
// both fire on the same value; the resolver keeps the labelled one.
func (d *Detector) Detect(_ context.Context, text string, _ domain.Settings) ([]domain.Span, error) {
	var spans []domain.Span

	for _, m := range numericRe.FindAllStringIndex(text, -1) {
		spans = append(spans, span(text, m[0], m[1], basePriority, numericConfidence, "Date numeric"))
	}
	for _, m := range writtenRe.FindAllStringIndex(text, -1) {
		spans = append(spans, span(text, m[0], m[1], basePriority, writtenConfidence, "Date written"))
	}
	for _, m := range dobRe.FindAllStringSubmatchIndex(text, -1) {
		spans = append(spans, span(text, m[2], m[3], domain.ProtectedPriority, dobConfidence, "DOB labelled"))
	}

	return spans, nil
}

func span(text string, start, end, priority int, confidence float64, pattern string) domain.Span {
	return domain.Span{
		Text:           text[start:end],
		OriginalValue:  text[start:end],
		CharacterStart: start,
		CharacterEnd:   end,
		Category:       domain.CategoryDate,
		Confidence:     confidence,
		Priority:       priority,
		Pattern:        pattern,
		State:          domain.StateCandidate,
	}
}
