// Package domain defines the core business entities for Scrub.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Span: A candidate or resolved match over a character range
//   - ResolvedPlan: The non-overlapping span sequence selected for redaction
//   - DecisionLog: Audit entries explaining each suppression
//   - ParityRecord: One reference/accelerated comparison outcome
//   - Settings: Read-only engine configuration
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
