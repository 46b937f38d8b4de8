package detectors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scrub-cli/internal/core/domain"
	"github.com/custodia-labs/scrub-cli/internal/core/ports/driven"
)

type stubDetector struct {
	name string
}

func (s *stubDetector) Name() string              { return s.name }
func (s *stubDetector) Category() domain.Category { return domain.CategoryName }
func (s *stubDetector) Priority() int             { return 100 }

func (s *stubDetector) Detect(context.Context, string, domain.Settings) ([]domain.Span, error) {
	return nil, nil
}

func stubBuilder(name string) BuilderFunc {
	return func(_ map[string]any) (driven.Detector, error) {
		return &stubDetector{name: name}, nil
	}
}

func TestRegistry_RegisterAndBuild(t *testing.T) {
	r := NewRegistry()
	r.Register("alpha", stubBuilder("alpha"))

	require.True(t, r.Has("alpha"))
	assert.False(t, r.Has("beta"))

	d, err := r.Build("alpha", nil)
	require.NoError(t, err)
	assert.Equal(t, "alpha", d.Name())
}

func TestRegistry_BuildUnknown(t *testing.T) {
	r := NewRegistry()

	_, err := r.Build("missing", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownDetector)
}

func TestRegistry_OrderPreserved(t *testing.T) {
	r := NewRegistry()
	r.Register("alpha", stubBuilder("alpha"))
	r.Register("beta", stubBuilder("beta"))
	r.Register("gamma", stubBuilder("gamma"))

	// Re-registration keeps the original position.
	r.Register("alpha", stubBuilder("alpha"))

	assert.Equal(t, []string{"alpha", "beta", "gamma"}, r.Names())
}

func TestRegistry_BuildAll(t *testing.T) {
	r := NewRegistry()
	r.Register("alpha", stubBuilder("alpha"))
	r.Register("beta", stubBuilder("beta"))
	r.Register("gamma", stubBuilder("gamma"))

	all, err := r.BuildAll(nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "alpha", all[0].Name())
	assert.Equal(t, "gamma", all[2].Name())

	// Selection keeps registration order regardless of request order.
	some, err := r.BuildAll([]string{"gamma", "alpha"})
	require.NoError(t, err)
	require.Len(t, some, 2)
	assert.Equal(t, "alpha", some[0].Name())
	assert.Equal(t, "gamma", some[1].Name())

	_, err = r.BuildAll([]string{"delta"})
	assert.ErrorIs(t, err, domain.ErrUnknownDetector)
}

func TestDefaults(t *testing.T) {
	all, err := Defaults()
	require.NoError(t, err)
	require.Len(t, all, 5)

	names := make([]string, len(all))
	for i, d := range all {
		names[i] = d.Name()
	}
	assert.Equal(t, []string{"identifiers", "contact", "dates", "names", "address"}, names)
}
