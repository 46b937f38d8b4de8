package domain

import "fmt"

// Default settings values.
const (
	// DefaultMaxMatchLength is the longest match any configured detector
	// can produce. The streaming engine holds back this many bytes at the
	// end of its buffer so no detector's view of a candidate match is ever
	// truncated by a chunk boundary.
	DefaultMaxMatchLength = 256

	// DefaultConfidenceEpsilon is the tolerance for confidence comparison
	// in shadow-mode diffing.
	DefaultConfidenceEpsilon = 0.01
)

// Settings configures one engine instance. It is read-only once the
// engine is constructed; detectors receive it on every Detect call and
// must not mutate it.
type Settings struct {
	// Mode selects the parity layer behaviour for detectors that declare
	// an accelerated implementation.
	Mode ParityMode `toml:"mode"`

	// MaxMatchLength is the streaming safety margin in bytes.
	MaxMatchLength int `toml:"max_match_length"`

	// ConfidenceEpsilon bounds acceptable confidence drift between the
	// reference and accelerated implementations in shadow mode.
	ConfidenceEpsilon float64 `toml:"confidence_epsilon"`

	// ShadowPerSecond limits how many shadow comparisons run per second.
	// Zero means every invocation is compared.
	ShadowPerSecond float64 `toml:"shadow_per_second"`

	// Allowlist holds vocabulary entries that suppress non-protected
	// spans whose normalised value matches. Externally owned; the engine
	// treats it as read-only configuration.
	Allowlist []string `toml:"allowlist"`

	// Detectors optionally restricts which registered detectors run.
	// Empty means all.
	Detectors []string `toml:"detectors"`
}

// DefaultSettings returns settings suitable for whole-document redaction
// with the reference implementations.
func DefaultSettings() Settings {
	return Settings{
		Mode:              ModeReference,
		MaxMatchLength:    DefaultMaxMatchLength,
		ConfidenceEpsilon: DefaultConfidenceEpsilon,
	}
}

// Validate checks the settings for internal consistency.
func (s Settings) Validate() error {
	if !s.Mode.Valid() {
		return fmt.Errorf("%w: unknown parity mode %q", ErrInvalidInput, s.Mode)
	}
	if s.MaxMatchLength <= 0 {
		return fmt.Errorf("%w: max match length must be positive, got %d",
			ErrInvalidInput, s.MaxMatchLength)
	}
	if s.ConfidenceEpsilon < 0 {
		return fmt.Errorf("%w: confidence epsilon must be non-negative, got %v",
			ErrInvalidInput, s.ConfidenceEpsilon)
	}
	if s.ShadowPerSecond < 0 {
		return fmt.Errorf("%w: shadow rate must be non-negative, got %v",
			ErrInvalidInput, s.ShadowPerSecond)
	}
	return nil
}
