package domain

import "fmt"

// Category is the kind of identifier a span redacts.
// The set is fixed; detectors must not invent new categories because the
// token assignment layer mints replacement tokens per category.
type Category string

const (
	CategoryName       Category = "NAME"
	CategoryDate       Category = "DATE"
	CategoryAddress    Category = "ADDRESS"
	CategoryIdentifier Category = "ID"
	CategoryContact    Category = "CONTACT"
	CategoryDevice     Category = "DEVICE"
	CategoryBiometric  Category = "BIOMETRIC"
	CategoryVehicle    Category = "VEHICLE"
	CategoryUniqueID   Category = "UID"
	CategoryAge        Category = "AGE"
	CategoryLocation   Category = "LOCATION"
)

// Valid returns true if the category is one of the fixed enumeration.
func (c Category) Valid() bool {
	switch c {
	case CategoryName, CategoryDate, CategoryAddress, CategoryIdentifier,
		CategoryContact, CategoryDevice, CategoryBiometric, CategoryVehicle,
		CategoryUniqueID, CategoryAge, CategoryLocation:
		return true
	}
	return false
}

// Temporal reports whether values in this category carry chronological
// meaning. Temporal spans are tokenized with a day offset from the
// document's first date (day-zero anchoring) instead of an opaque label.
func (c Category) Temporal() bool {
	return c == CategoryDate
}

// ProtectedPriority is the threshold at or above which a span is
// "structurally certain": it was produced from unambiguous surface context
// such as an explicit field label, relationship label, or credential suffix.
// Such spans are never suppressed by vocabulary or allowlist filtering.
const ProtectedPriority = 150

// SpanState tracks a span through resolution.
// Candidate spans become either applied or ignored; both are terminal.
type SpanState string

const (
	StateCandidate SpanState = "candidate"
	StateApplied   SpanState = "applied"
	StateIgnored   SpanState = "ignored"
)

// Span is one candidate or resolved match over a character range.
// Offsets are a half-open range into the source text and never change
// after the span is created.
type Span struct {
	// Text is the matched substring after normalisation.
	Text string `json:"text"`

	// OriginalValue is the matched substring exactly as it appears in the
	// source text.
	OriginalValue string `json:"original_value"`

	// CharacterStart and CharacterEnd delimit the half-open match range.
	// Invariant: 0 <= start < end <= len(source).
	CharacterStart int `json:"character_start"`
	CharacterEnd   int `json:"character_end"`

	// Category is the kind of identifier matched.
	Category Category `json:"category"`

	// Confidence is the detector's certainty in [0,1].
	Confidence float64 `json:"confidence"`

	// Priority ranks spans during conflict resolution; higher wins.
	// Values at or above ProtectedPriority mark structurally certain spans.
	Priority int `json:"priority"`

	// Pattern names the rule that produced the span. Diagnostic only.
	Pattern string `json:"pattern,omitempty"`

	// Detector is the registration name of the producing detector.
	Detector string `json:"detector,omitempty"`

	// State is the span's position in the candidate -> applied|ignored
	// lifecycle.
	State SpanState `json:"state"`

	// AmbiguousWith holds candidate-pool indices of spans this one
	// conflicted with, set at resolution time. Indices rather than
	// references keep the decision log trivially serialisable.
	AmbiguousWith []int `json:"ambiguous_with,omitempty"`

	// Replacement is the token assigned to an applied span.
	// Empty until the token assignment layer runs.
	Replacement string `json:"replacement,omitempty"`
}

// Length returns the number of characters the span covers.
func (s Span) Length() int {
	return s.CharacterEnd - s.CharacterStart
}

// Overlaps reports whether the two ranges intersect.
func (s Span) Overlaps(o Span) bool {
	return s.CharacterStart < o.CharacterEnd && o.CharacterStart < s.CharacterEnd
}

// Contains reports whether s wholly contains o.
func (s Span) Contains(o Span) bool {
	return s.CharacterStart <= o.CharacterStart && s.CharacterEnd >= o.CharacterEnd
}

// SameRange reports whether both spans cover exactly the same range.
func (s Span) SameRange(o Span) bool {
	return s.CharacterStart == o.CharacterStart && s.CharacterEnd == o.CharacterEnd
}

// Validate checks the span against the source text length.
// Zero-length and out-of-range spans are rejected at candidate-pool entry.
func (s Span) Validate(textLen int) error {
	if s.CharacterStart < 0 || s.CharacterEnd > textLen {
		return fmt.Errorf("%w: span [%d,%d) outside text of length %d",
			ErrMalformedSpan, s.CharacterStart, s.CharacterEnd, textLen)
	}
	if s.CharacterStart >= s.CharacterEnd {
		return fmt.Errorf("%w: span [%d,%d) is empty or inverted",
			ErrMalformedSpan, s.CharacterStart, s.CharacterEnd)
	}
	if !s.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrMalformedSpan, s.Category)
	}
	if s.Confidence < 0 || s.Confidence > 1 {
		return fmt.Errorf("%w: confidence %v outside [0,1]", ErrMalformedSpan, s.Confidence)
	}
	return nil
}

// Protected reports whether the span is exempt from vocabulary-based
// suppression.
func (s Span) Protected() bool {
	return s.Priority >= ProtectedPriority
}
