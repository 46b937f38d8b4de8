package driven

import (
	"context"

	"github.com/custodia-labs/scrub-cli/internal/core/domain"
)

// Detector is the plug-in contract every pattern detector implements.
//
// Detect must be pure with respect to (text, settings): it must not mutate
// the text, must return spans with in-range, non-negative-length offsets,
// and must be safely callable concurrently with any other detector on the
// same text. Detectors may return overlapping spans; resolution is not the
// detector's job.
type Detector interface {
	// Name returns the detector's registration name for logging and
	// configuration. Names are unique within a registry.
	Name() string

	// Category returns the primary category this detector emits.
	// Individual spans may refine it. Metadata only.
	Category() domain.Category

	// Priority returns the detector's priority floor. Individual spans
	// carry their own priority at or above this floor.
	Priority() int

	// Detect scans text and returns candidate spans.
	Detect(ctx context.Context, text string, settings domain.Settings) ([]domain.Span, error)
}

// AcceleratedDetector is a Detector whose inner loop can additionally be
// served by an alternate, faster implementation with identical span
// semantics. Selection between the two is the parity layer's job; a
// detector never decides on its own which implementation runs.
type AcceleratedDetector interface {
	Detector

	// DetectAccelerated runs the accelerated implementation.
	// No context: the accelerated path is a tight, non-blocking loop.
	DetectAccelerated(text string) ([]domain.Span, error)
}
