package services

import (
	"fmt"
	"sync"

	"github.com/custodia-labs/scrub-cli/internal/core/domain"
	"github.com/custodia-labs/scrub-cli/internal/logger"
)

// sectionHeadings are document-structure phrases that pattern detectors
// routinely mistake for names or addresses. They are suppressed unless
// the span is structurally certain.
var sectionHeadings = []string{
	"CLINICAL INFORMATION",
	"CHIEF COMPLAINT",
	"PRESENT ILLNESS",
	"PAST MEDICAL HISTORY",
	"FAMILY HISTORY",
	"SOCIAL HISTORY",
	"REVIEW OF SYSTEMS",
	"PHYSICAL EXAMINATION",
	"LABORATORY DATA",
	"IMAGING STUDIES",
	"FINDINGS",
	"IMPRESSION",
	"ASSESSMENT",
	"PLAN",
	"MEDICATIONS",
	"ALLERGIES",
	"DIAGNOSIS",
	"PROCEDURE",
	"RESULTS",
	"CONCLUSION",
	"RECOMMENDATIONS",
	"DISCHARGE SUMMARY",
	"OPERATIVE REPORT",
	"PROGRESS NOTE",
	"CONSULTATION REPORT",
	"RADIOLOGY REPORT",
	"PATHOLOGY REPORT",
	"EMERGENCY CONTACT",
}

// PostFilter suppresses candidate spans whose value appears in the
// configured allowlist or in the built-in clinical section headings.
//
// This is vocabulary-based suppression, so the protected priority
// threshold applies: spans at or above domain.ProtectedPriority pass
// through untouched. The filter runs before clustering, on the candidate
// pool, and records every suppression in the decision log.
//
// The allowlist is externally owned and may be swapped at runtime (the
// file config store reloads it on change), hence the lock.
type PostFilter struct {
	mu      sync.RWMutex
	entries map[string]struct{}
}

// NewPostFilter builds a post-filter from the allowlist in settings plus
// the built-in section headings.
func NewPostFilter(allowlist []string) *PostFilter {
	f := &PostFilter{}
	f.SetAllowlist(allowlist)
	return f
}

// SetAllowlist replaces the user allowlist. The built-in section headings
// are always included.
func (f *PostFilter) SetAllowlist(allowlist []string) {
	entries := make(map[string]struct{}, len(allowlist)+len(sectionHeadings))
	for _, h := range sectionHeadings {
		entries[NormalizeValue(h)] = struct{}{}
	}
	for _, a := range allowlist {
		entries[NormalizeValue(a)] = struct{}{}
	}

	f.mu.Lock()
	f.entries = entries
	f.mu.Unlock()
}

// Filter returns the pool with allowlisted spans removed, logging each
// suppression. Removed spans never reach the resolver, so their entries
// carry the span range and no pool index.
func (f *PostFilter) Filter(pool []domain.Span, log *domain.DecisionLog) []domain.Span {
	if len(pool) == 0 {
		return pool
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	out := pool[:0]
	for _, s := range pool {
		if s.Protected() {
			out = append(out, s)
			continue
		}
		if _, listed := f.entries[NormalizeValue(s.OriginalValue)]; !listed {
			out = append(out, s)
			continue
		}
		logger.Debug("postfilter: allowlisted %s span at [%d,%d)", s.Category, s.CharacterStart, s.CharacterEnd)
		log.Add(domain.Decision{
			Kind:           domain.DecisionAllowlisted,
			Detector:       s.Detector,
			CharacterStart: s.CharacterStart,
			CharacterEnd:   s.CharacterEnd,
			SpanIndex:      -1,
			WinnerIndex:    -1,
			Reason:         fmt.Sprintf("%s value is allowlisted vocabulary", s.Category),
		})
	}
	return out
}
