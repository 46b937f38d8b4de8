package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scrub-cli/internal/core/domain"
)

func TestPostFilter_SectionHeadings(t *testing.T) {
	f := NewPostFilter(nil)
	log := &domain.DecisionLog{}
	pool := []domain.Span{
		{CharacterStart: 0, CharacterEnd: 15, Category: domain.CategoryName,
			OriginalValue: "Family History", Priority: 100, State: domain.StateCandidate},
		{CharacterStart: 20, CharacterEnd: 30, Category: domain.CategoryName,
			OriginalValue: "John Smith", Priority: 100, State: domain.StateCandidate},
	}

	out := f.Filter(pool, log)

	require.Len(t, out, 1)
	assert.Equal(t, "John Smith", out[0].OriginalValue)
	require.Equal(t, 1, log.Count(domain.DecisionAllowlisted))

	// Removed spans never reach the resolver pool, so the entry locates
	// the span by range, not by index.
	entry := log.Entries[0]
	assert.Equal(t, -1, entry.SpanIndex)
	assert.Equal(t, -1, entry.WinnerIndex)
	assert.Equal(t, 0, entry.CharacterStart)
	assert.Equal(t, 15, entry.CharacterEnd)
}

func TestPostFilter_UserAllowlist(t *testing.T) {
	f := NewPostFilter([]string{"General Hospital"})
	log := &domain.DecisionLog{}
	pool := []domain.Span{
		{CharacterStart: 0, CharacterEnd: 16, Category: domain.CategoryName,
			OriginalValue: "general  HOSPITAL", Priority: 100, State: domain.StateCandidate},
	}

	out := f.Filter(pool, log)

	assert.Empty(t, out)
	assert.Equal(t, 1, log.Count(domain.DecisionAllowlisted))
}

func TestPostFilter_ProtectedBypass(t *testing.T) {
	// Vocabulary suppression never touches structurally certain spans.
	f := NewPostFilter([]string{"Emergency Contact"})
	log := &domain.DecisionLog{}
	pool := []domain.Span{
		{CharacterStart: 0, CharacterEnd: 17, Category: domain.CategoryName,
			OriginalValue: "Emergency Contact", Priority: domain.ProtectedPriority,
			State: domain.StateCandidate},
	}

	out := f.Filter(pool, log)

	require.Len(t, out, 1)
	assert.Zero(t, log.Count(domain.DecisionAllowlisted))
}

func TestPostFilter_SetAllowlistSwapsAtRuntime(t *testing.T) {
	f := NewPostFilter(nil)
	span := domain.Span{CharacterStart: 0, CharacterEnd: 10, Category: domain.CategoryName,
		OriginalValue: "Mercy Ward", Priority: 100, State: domain.StateCandidate}

	out := f.Filter([]domain.Span{span}, &domain.DecisionLog{})
	require.Len(t, out, 1)

	f.SetAllowlist([]string{"Mercy Ward"})
	out = f.Filter([]domain.Span{span}, &domain.DecisionLog{})
	assert.Empty(t, out)
}
