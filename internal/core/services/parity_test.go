package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scrub-cli/internal/core/domain"
)

// fakeDetector lets each test script the reference and accelerated
// results independently.
type fakeDetector struct {
	name     string
	refSpans []domain.Span
	refErr   error

	accSpans []domain.Span
	accErr   error
	accPanic bool
	accCalls int
}

func (f *fakeDetector) Name() string              { return f.name }
func (f *fakeDetector) Category() domain.Category { return domain.CategoryName }
func (f *fakeDetector) Priority() int             { return 100 }

func (f *fakeDetector) Detect(context.Context, string, domain.Settings) ([]domain.Span, error) {
	return f.refSpans, f.refErr
}

func (f *fakeDetector) DetectAccelerated(string) ([]domain.Span, error) {
	f.accCalls++
	if f.accPanic {
		panic("scanner out of bounds")
	}
	return f.accSpans, f.accErr
}

func paritySettings(mode domain.ParityMode) domain.Settings {
	s := domain.DefaultSettings()
	s.Mode = mode
	return s
}

func namedSpan(start, end int, confidence float64) domain.Span {
	return domain.Span{
		CharacterStart: start,
		CharacterEnd:   end,
		Category:       domain.CategoryName,
		Confidence:     confidence,
	}
}

func TestParity_ReferenceMode(t *testing.T) {
	d := &fakeDetector{
		name:     "fake",
		refSpans: []domain.Span{namedSpan(0, 5, 0.9)},
		accSpans: []domain.Span{namedSpan(0, 5, 0.9)},
	}
	p := NewParity(paritySettings(domain.ModeReference), nil)
	defer p.Close()

	spans, err := p.Run(context.Background(), d, "text", domain.DefaultSettings())
	require.NoError(t, err)

	assert.Equal(t, d.refSpans, spans)
	assert.Zero(t, d.accCalls)
}

func TestParity_AcceleratedMode(t *testing.T) {
	d := &fakeDetector{
		name:     "fake",
		refSpans: []domain.Span{namedSpan(0, 5, 0.9)},
		accSpans: []domain.Span{namedSpan(10, 15, 0.8)},
	}
	p := NewParity(paritySettings(domain.ModeAccelerated), nil)
	defer p.Close()

	spans, err := p.Run(context.Background(), d, "text", domain.DefaultSettings())
	require.NoError(t, err)

	assert.Equal(t, d.accSpans, spans)
	assert.Equal(t, 1, d.accCalls)
}

func TestParity_AcceleratedFallbackOnError(t *testing.T) {
	d := &fakeDetector{
		name:     "fake",
		refSpans: []domain.Span{namedSpan(0, 5, 0.9)},
		accErr:   errors.New("native loop unavailable"),
	}
	p := NewParity(paritySettings(domain.ModeAccelerated), nil)
	defer p.Close()

	spans, err := p.Run(context.Background(), d, "text", domain.DefaultSettings())
	require.NoError(t, err)

	// The failing accelerated path never reduces coverage.
	assert.Equal(t, d.refSpans, spans)
}

func TestParity_AcceleratedFallbackOnPanic(t *testing.T) {
	d := &fakeDetector{
		name:     "fake",
		refSpans: []domain.Span{namedSpan(0, 5, 0.9)},
		accPanic: true,
	}
	p := NewParity(paritySettings(domain.ModeAccelerated), nil)
	defer p.Close()

	spans, err := p.Run(context.Background(), d, "text", domain.DefaultSettings())
	require.NoError(t, err)
	assert.Equal(t, d.refSpans, spans)
}

func TestParity_ShadowReturnsReference(t *testing.T) {
	d := &fakeDetector{
		name:     "fake",
		refSpans: []domain.Span{namedSpan(0, 5, 0.9)},
		accSpans: []domain.Span{namedSpan(10, 15, 0.8)},
	}
	p := NewParity(paritySettings(domain.ModeShadow), nil)
	defer p.Close()

	spans, err := p.Run(context.Background(), d, "text", domain.DefaultSettings())
	require.NoError(t, err)

	// Shadow mode compares but the reference result stays authoritative.
	assert.Equal(t, d.refSpans, spans)
	assert.Equal(t, 1, d.accCalls)

	rec := <-p.Records()
	assert.Equal(t, "fake", rec.Detector)
	assert.Equal(t, 0, rec.Matched)
	assert.Equal(t, 1, rec.OnlyReference)
	assert.Equal(t, 1, rec.OnlyAccelerated)
	assert.False(t, rec.Clean())
}

func TestParity_ShadowCleanRecord(t *testing.T) {
	same := []domain.Span{namedSpan(0, 5, 0.9), namedSpan(10, 15, 0.8)}
	d := &fakeDetector{name: "fake", refSpans: same, accSpans: same}
	p := NewParity(paritySettings(domain.ModeShadow), nil)
	defer p.Close()

	_, err := p.Run(context.Background(), d, "text", domain.DefaultSettings())
	require.NoError(t, err)

	rec := <-p.Records()
	assert.Equal(t, 2, rec.Matched)
	assert.True(t, rec.Clean())
	assert.Empty(t, rec.Diffs)
}

func TestParity_ShadowConfidenceEpsilon(t *testing.T) {
	d := &fakeDetector{
		name:     "fake",
		refSpans: []domain.Span{namedSpan(0, 5, 0.900)},
		accSpans: []domain.Span{namedSpan(0, 5, 0.905)},
	}
	p := NewParity(paritySettings(domain.ModeShadow), nil)
	defer p.Close()

	_, err := p.Run(context.Background(), d, "text", domain.DefaultSettings())
	require.NoError(t, err)

	// Drift within epsilon counts as a match.
	rec := <-p.Records()
	assert.Equal(t, 1, rec.Matched)
	assert.True(t, rec.Clean())
}

func TestParity_ShadowAcceleratedErrorSkipsRecord(t *testing.T) {
	d := &fakeDetector{
		name:     "fake",
		refSpans: []domain.Span{namedSpan(0, 5, 0.9)},
		accErr:   errors.New("native loop unavailable"),
	}
	p := NewParity(paritySettings(domain.ModeShadow), nil)

	spans, err := p.Run(context.Background(), d, "text", domain.DefaultSettings())
	require.NoError(t, err)
	assert.Equal(t, d.refSpans, spans)

	p.Close()
	_, open := <-p.Records()
	assert.False(t, open, "no record expected for a failed shadow run")
}

func TestParity_ShadowSampling(t *testing.T) {
	d := &fakeDetector{
		name:     "fake",
		refSpans: []domain.Span{namedSpan(0, 5, 0.9)},
		accSpans: []domain.Span{namedSpan(0, 5, 0.9)},
	}
	settings := paritySettings(domain.ModeShadow)
	settings.ShadowPerSecond = 1
	p := NewParity(settings, nil)
	defer p.Close()

	// Burst of one: the first run is compared, the rest skip the diff.
	for range 10 {
		_, err := p.Run(context.Background(), d, "text", settings)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, d.accCalls)
}

func TestParity_EmitAfterCloseDoesNotPanic(t *testing.T) {
	d := &fakeDetector{
		name:     "fake",
		refSpans: []domain.Span{namedSpan(0, 5, 0.9)},
		accSpans: []domain.Span{namedSpan(0, 5, 0.9)},
	}
	p := NewParity(paritySettings(domain.ModeShadow), nil)
	p.Close()

	spans, err := p.Run(context.Background(), d, "text", domain.DefaultSettings())
	require.NoError(t, err)
	assert.Equal(t, d.refSpans, spans)
}
