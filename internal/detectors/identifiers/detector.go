// Package identifiers detects structured identifier numbers: social
// security numbers, medical record numbers, and payment card numbers.
//
// The package carries two implementations of the same inner loop: a
// regex-based reference implementation and an accelerated single-pass
// byte scanner. Both must emit identical spans; the parity layer's shadow
// mode verifies this before the accelerated path is promoted.
package identifiers

import (
	"context"
	"regexp"

	"github.com/custodia-labs/scrub-cli/internal/core/domain"
	"github.com/custodia-labs/scrub-cli/internal/core/ports/driven"
)

// Span priorities and confidences, shared by both implementations.
// Labelled forms are structurally certain and sit at the protected
// threshold; bare forms rely on shape alone.
const (
	ssnLabelledPriority   = domain.ProtectedPriority
	ssnLabelledConfidence = 0.98
	ssnBarePriority       = 100
	ssnBareConfidence     = 0.92
	mrnPriority           = domain.ProtectedPriority
	mrnConfidence         = 0.95
	cardPriority          = 100
	cardConfidence        = 0.9
)

var (
	ssnLabelledRe = regexp.MustCompile(`(?i)\bSSN[\s:#]*(\d{3}-\d{2}-\d{4})\b`)
	ssnBareRe     = regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)
	mrnRe         = regexp.MustCompile(`(?i)\bMRN[\s:#]*([A-Z0-9]{5,12})\b`)
	cardGroupedRe = regexp.MustCompile(`\b\d{4}[ -]\d{4}[ -]\d{4}[ -]\d{4}\b`)
	cardCompactRe = regexp.MustCompile(`\b\d{16}\b`)
)

// Ensure both detector interfaces are satisfied.
var _ driven.AcceleratedDetector = (*Detector)(nil)

// Detector finds structured identifier numbers.
type Detector struct{}

// New creates an identifiers detector.
func New() *Detector {
	return &Detector{}
}

// Name returns the detector registration name.
func (d *Detector) Name() string {
	return "identifiers"
}

// Category returns the primary category this detector emits.
func (d *Detector) Category() domain.Category {
	return domain.CategoryIdentifier
}

// Priority returns the detector's priority floor.
func (d *Detector) Priority() int {
	return ssnBarePriority
}

// Detect is the reference implementation.
func (d *Detector) Detect(_ context.Context, text string, _ domain.Settings) ([]domain.Span, error) {
	var spans []domain.Span

	for _, m := range ssnLabelledRe.FindAllStringSubmatchIndex(text, -1) {
		spans = append(spans, span(text, m[2], m[3], ssnLabelledPriority, ssnLabelledConfidence, "SSN labelled"))
	}
	for _, m := range ssnBareRe.FindAllStringIndex(text, -1) {
		spans = append(spans, span(text, m[0], m[1], ssnBarePriority, ssnBareConfidence, "SSN bare"))
	}
	for _, m := range mrnRe.FindAllStringSubmatchIndex(text, -1) {
		spans = append(spans, span(text, m[2], m[3], mrnPriority, mrnConfidence, "MRN labelled"))
	}
	for _, m := range cardGroupedRe.FindAllStringIndex(text, -1) {
		if luhnValid(text[m[0]:m[1]]) {
			spans = append(spans, span(text, m[0], m[1], cardPriority, cardConfidence, "Credit card grouped"))
		}
	}
	for _, m := range cardCompactRe.FindAllStringIndex(text, -1) {
		if luhnValid(text[m[0]:m[1]]) {
			spans = append(spans, span(text, m[0], m[1], cardPriority, cardConfidence, "Credit card compact"))
		}
	}

	return spans, nil
}

func span(text string, start, end, priority int, confidence float64, pattern string) domain.Span {
	return domain.Span{
		Text:           text[start:end],
		OriginalValue:  text[start:end],
		CharacterStart: start,
		CharacterEnd:   end,
		Category:       domain.CategoryIdentifier,
		Confidence:     confidence,
		Priority:       priority,
		Pattern:        pattern,
		State:          domain.StateCandidate,
	}
}

// luhnValid runs the Luhn checksum over the digits in s, ignoring
// separators. Filters out random 16-digit runs that are not card numbers.
func luhnValid(s string) bool {
	sum := 0
	double := false
	for i := len(s) - 1; i >= 0; i-- {
		c := s[i]
		if c < '0' || c > '9' {
			continue
		}
		n := int(c - '0')
		if double {
			n *= 2
			if n > 9 {
				n -= 9
			}
		}
		sum += n
		double = !double
	}
	return sum%10 == 0
}
