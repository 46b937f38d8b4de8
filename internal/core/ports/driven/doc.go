// Package driven defines the interfaces that core calls OUT to collaborators.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces; detector adapters and
// infrastructure adapters implement them.
//
// # Required Interfaces
//
//   - Detector: Scans text for candidate spans
//
// # Optional Interfaces
//
// These can be nil - the engine degrades gracefully:
//
//   - AcceleratedDetector: Alternate fast inner loop, gated by the parity layer
//   - AuditSink: Decision log and parity record persistence
//   - ConfigStore: Settings and allowlist persistence
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or detector package
package driven
