package driven

import "github.com/custodia-labs/scrub-cli/internal/core/domain"

// ConfigStore loads and persists engine settings.
type ConfigStore interface {
	// Load returns the stored settings, or defaults when nothing is stored.
	Load() (domain.Settings, error)

	// Save persists the settings.
	Save(settings domain.Settings) error

	// WatchAllowlist registers a callback invoked with the new allowlist
	// whenever the backing allowlist file changes. The returned stop
	// function cancels the watch.
	WatchAllowlist(onChange func([]string)) (stop func(), err error)
}
