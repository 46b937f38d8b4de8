package detectors

import (
	"github.com/custodia-labs/scrub-cli/internal/core/ports/driven"
	"github.com/custodia-labs/scrub-cli/internal/detectors/address"
	"github.com/custodia-labs/scrub-cli/internal/detectors/contact"
	"github.com/custodia-labs/scrub-cli/internal/detectors/dates"
	"github.com/custodia-labs/scrub-cli/internal/detectors/identifiers"
	"github.com/custodia-labs/scrub-cli/internal/detectors/names"
)

// RegisterDefaults registers all built-in detectors with the registry.
// Call this during application initialisation to enable standard
// detectors. Order matters: it is the resolver's final tie-break.
func RegisterDefaults(r *Registry) {
	r.Register("identifiers", func(_ map[string]any) (driven.Detector, error) {
		return identifiers.New(), nil
	})
	r.Register("contact", func(_ map[string]any) (driven.Detector, error) {
		return contact.New(), nil
	})
	r.Register("dates", func(_ map[string]any) (driven.Detector, error) {
		return dates.New(), nil
	})
	r.Register("names", func(_ map[string]any) (driven.Detector, error) {
		return names.New(), nil
	})
	r.Register("address", func(_ map[string]any) (driven.Detector, error) {
		return address.New(), nil
	})
}

// Defaults builds the full built-in detector set in registration order.
func Defaults() ([]driven.Detector, error) {
	r := NewRegistry()
	RegisterDefaults(r)
	return r.BuildAll(nil)
}
