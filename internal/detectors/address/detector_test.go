package address

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scrub-cli/internal/core/domain"
)

func detect(t *testing.T, text string) []domain.Span {
	t.Helper()
	spans, err := New().Detect(context.Background(), text, domain.DefaultSettings())
	require.NoError(t, err)
	return spans
}

func TestDetect_Street(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"simple", "lives at 123 Main Street in town", "123 Main Street"},
		{"abbreviated", "lives at 4521 Oak Ave in town", "4521 Oak Ave"},
		{"two word with unit", "lives at 77 Massachusetts Avenue Apt 4B today", "77 Massachusetts Avenue Apt 4B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spans := detect(t, tt.text)
			require.Len(t, spans, 1)
			assert.Equal(t, tt.want, spans[0].Text)
			assert.Equal(t, "Street address", spans[0].Pattern)
			assert.Equal(t, domain.CategoryAddress, spans[0].Category)
		})
	}
}

func TestDetect_ZIP(t *testing.T) {
	spans := detect(t, "Boston, MA 02115 area")
	require.Len(t, spans, 1)
	assert.Equal(t, "02115", spans[0].Text)
	assert.Equal(t, "ZIP code", spans[0].Pattern)

	spans = detect(t, "Boston, MA 02115-4567 area")
	require.Len(t, spans, 1)
	assert.Equal(t, "02115-4567", spans[0].Text)
}

func TestDetect_BareFiveDigitsIgnored(t *testing.T) {
	// Five digits without a preceding state abbreviation are not a ZIP.
	assert.Empty(t, detect(t, "invoice 12345 issued"))
}
