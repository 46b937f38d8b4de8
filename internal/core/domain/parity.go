package domain

import "time"

// ParityMode selects which implementation of a detector's inner loop runs.
type ParityMode string

const (
	// ModeReference runs only the reference implementation.
	ModeReference ParityMode = "reference"

	// ModeAccelerated runs only the accelerated implementation, falling
	// back to the reference implementation per invocation on failure.
	ModeAccelerated ParityMode = "accelerated"

	// ModeShadow returns the reference result and additionally runs the
	// accelerated implementation, diffing the two into a ParityRecord.
	// Shadow mode never changes emitted output.
	ModeShadow ParityMode = "shadow"
)

// Valid returns true for a known parity mode.
func (m ParityMode) Valid() bool {
	switch m {
	case ModeReference, ModeAccelerated, ModeShadow:
		return true
	}
	return false
}

// DiffSide names which implementation produced an unmatched span.
type DiffSide string

const (
	SideReference   DiffSide = "reference"
	SideAccelerated DiffSide = "accelerated"
)

// ParityDiff describes one span present on only one side of a shadow
// comparison, or matched with a confidence delta above epsilon.
type ParityDiff struct {
	Side           DiffSide `json:"side"`
	Category       Category `json:"category"`
	CharacterStart int      `json:"character_start"`
	CharacterEnd   int      `json:"character_end"`
	Confidence     float64  `json:"confidence"`
}

// ParityRecord is one comparison outcome between the reference and
// accelerated implementations of a single detector invocation. Records
// accumulate evidence for promoting an accelerated implementation; they
// never affect the emitted redaction result.
type ParityRecord struct {
	ID       string    `json:"id"`
	Detector string    `json:"detector"`
	Time     time.Time `json:"time"`

	// Matched counts spans identical on both sides (offset, category,
	// confidence within epsilon).
	Matched int `json:"matched"`

	// OnlyReference and OnlyAccelerated count unmatched spans per side.
	OnlyReference   int `json:"only_reference"`
	OnlyAccelerated int `json:"only_accelerated"`

	// Diffs holds a bounded sample of the unmatched spans.
	Diffs []ParityDiff `json:"diffs,omitempty"`
}

// Clean reports whether the two implementations agreed exactly.
func (r ParityRecord) Clean() bool {
	return r.OnlyReference == 0 && r.OnlyAccelerated == 0
}
