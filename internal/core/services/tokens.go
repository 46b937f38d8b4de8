package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/custodia-labs/scrub-cli/internal/core/domain"
)

// dateLayouts are tried in order when anchoring temporal spans.
// Clinical documents mix numeric and written forms freely.
var dateLayouts = []string{
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"2006-01-02",
	"01/02/06",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
}

// ocrFold maps characters commonly confused by OCR onto a canonical form
// so that "JOHNS0N" and "JOHNSON" key the same token.
var ocrFold = strings.NewReplacer(
	"0", "o",
	"1", "l",
	"5", "s",
	"8", "b",
	"|", "l",
)

// TokenAssigner maps resolved spans to stable replacement tokens.
//
// State is per document or per streaming session: the same normalised
// value always receives the same token within one unit, and the first
// parsed date becomes the day-zero anchor so later dates encode a signed
// day offset instead of an opaque label.
//
// Not safe for concurrent use; a document's spans are assigned from a
// single goroutine.
type TokenAssigner struct {
	counters map[domain.Category]int
	byKey    map[string]string
	anchor   *time.Time
}

// NewTokenAssigner creates an empty per-document token map.
func NewTokenAssigner() *TokenAssigner {
	return &TokenAssigner{
		counters: make(map[domain.Category]int),
		byKey:    make(map[string]string),
	}
}

// Assign fills in Replacement for every span in the plan, in plan order.
// Assigning the same plan against the same map twice yields identical
// replacements.
func (t *TokenAssigner) Assign(plan *domain.ResolvedPlan) {
	if plan == nil {
		return
	}
	for i := range plan.Spans {
		plan.Spans[i].Replacement = t.tokenFor(&plan.Spans[i])
	}
}

func (t *TokenAssigner) tokenFor(s *domain.Span) string {
	key := string(s.Category) + "|" + NormalizeValue(s.OriginalValue)
	if tok, ok := t.byKey[key]; ok {
		return tok
	}

	t.counters[s.Category]++
	n := t.counters[s.Category]

	var tok string
	if s.Category.Temporal() {
		tok = t.dateToken(s.OriginalValue, n)
	} else {
		tok = fmt.Sprintf("{{%s_%d}}", s.Category, n)
	}
	t.byKey[key] = tok
	return tok
}

// dateToken encodes the signed day offset from the document's first
// parsed date. The first date seen becomes day zero. Values that fail to
// parse fall back to a plain positional token; they still get referential
// consistency through the token map.
func (t *TokenAssigner) dateToken(value string, n int) string {
	parsed, ok := parseDate(value)
	if !ok {
		return fmt.Sprintf("{{%s_%d}}", domain.CategoryDate, n)
	}
	if t.anchor == nil {
		t.anchor = &parsed
	}
	days := int(parsed.Sub(*t.anchor).Hours() / 24)
	return fmt.Sprintf("{{%s_%d:DAY_%d}}", domain.CategoryDate, n, days)
}

func parseDate(value string) (time.Time, bool) {
	v := strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, v); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// NormalizeValue folds case, whitespace, and OCR-confusable characters so
// that trivially different renderings of the same value share a token.
func NormalizeValue(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	v = strings.Join(strings.Fields(v), " ")
	return ocrFold.Replace(v)
}

// ApplyPlan splices every applied span's replacement into text in a
// single right-to-left pass so earlier replacements never invalidate the
// offsets of not-yet-applied spans. Plan spans must be non-overlapping
// and sorted by start ascending, as produced by the resolver.
func ApplyPlan(text string, plan *domain.ResolvedPlan) string {
	if plan == nil || len(plan.Spans) == 0 {
		return text
	}

	spans := make([]domain.Span, len(plan.Spans))
	copy(spans, plan.Spans)
	sort.SliceStable(spans, func(a, b int) bool {
		return spans[a].CharacterStart > spans[b].CharacterStart
	})

	out := text
	for _, s := range spans {
		if s.CharacterStart < 0 || s.CharacterEnd > len(out) || s.Replacement == "" {
			continue
		}
		out = out[:s.CharacterStart] + s.Replacement + out[s.CharacterEnd:]
	}
	return out
}
