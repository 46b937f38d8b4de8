// Package contact detects electronic contact identifiers: email
// addresses, phone and fax numbers, URLs, and IPv4 addresses.
package contact

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/custodia-labs/scrub-cli/internal/core/domain"
	"github.com/custodia-labs/scrub-cli/internal/core/ports/driven"
)

const (
	basePriority = 100

	emailConfidence = 0.95
	phoneConfidence = 0.9
	faxConfidence   = 0.95
	urlConfidence   = 0.85
	ipConfidence    = 0.9
)

var (
	emailRe = regexp.MustCompile(`(?i)\b[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}\b`)

	// North American forms: (555) 123-4567, 555-123-4567, 555.123.4567,
	// +1 555 123 4567.
	phoneRe = regexp.MustCompile(`(?:\+1[\s.-]?)?(?:\(\d{3}\)[\s.-]?|\d{3}[\s.-])\d{3}[\s.-]\d{4}\b`)

	// Fax numbers carry an explicit label; the label makes them
	// structurally certain.
	faxRe = regexp.MustCompile(`(?i)\bfax[\s:#]*((?:\+1[\s.-]?)?(?:\(\d{3}\)[\s.-]?|\d{3}[\s.-])\d{3}[\s.-]\d{4})\b`)

	urlRe = regexp.MustCompile(`(?i)\b(?:https?://|www\.)[^\s<>"{}|\\^` + "`" + `\[\]]+`)

	ipv4Re = regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`)
)

var _ driven.Detector = (*Detector)(nil)

// Detector finds electronic contact identifiers.
type Detector struct{}

// New creates a contact detector.
func New() *Detector {
	return &Detector{}
}

func (d *Detector) Name() string              { return "contact" }
func (d *Detector) Category() domain.Category { return domain.CategoryContact }
func (d *Detector) Priority() int             { return basePriority }

// Detect scans for contact identifiers. Overlaps between the labelled
// fax pattern and the bare phone pattern are expected; the resolver
// keeps the structurally certain one.
func (d *Detector) Detect(_ context.Context, text string, _ domain.Settings) ([]domain.Span, error) {
	var spans []domain.Span

	for _, m := range emailRe.FindAllStringIndex(text, -1) {
		spans = append(spans, span(text, m[0], m[1], basePriority, emailConfidence, "Email"))
	}
	for _, m := range phoneRe.FindAllStringIndex(text, -1) {
		spans = append(spans, span(text, m[0], m[1], basePriority, phoneConfidence, "Phone"))
	}
	for _, m := range faxRe.FindAllStringSubmatchIndex(text, -1) {
		spans = append(spans, span(text, m[2], m[3], domain.ProtectedPriority, faxConfidence, "Fax labelled"))
	}
	for _, m := range urlRe.FindAllStringIndex(text, -1) {
		spans = append(spans, span(text, m[0], m[1], basePriority, urlConfidence, "URL"))
	}
	for _, m := range ipv4Re.FindAllStringIndex(text, -1) {
		if validIPv4(text[m[0]:m[1]]) {
			spans = append(spans, span(text, m[0], m[1], basePriority, ipConfidence, "IPv4"))
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
		Category:       domain.CategoryContact,
		Confidence:     confidence,
		Priority:       priority,
		Pattern:        pattern,
		State:          domain.StateCandidate,
	}
}

// validIPv4 rejects dotted quads with an octet above 255.
func validIPv4(s string) bool {
	for _, part := range strings.Split(s, ".") {
		n, err := strconv.Atoi(part)
		if err != nil || n > 255 {
			return false
		}
	}
	return true
}
