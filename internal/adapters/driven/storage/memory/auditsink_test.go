package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scrub-cli/internal/core/domain"
)

func TestAuditSink_Decisions(t *testing.T) {
	sink := NewAuditSink()
	log := &domain.DecisionLog{}
	log.Add(domain.Decision{Kind: domain.DecisionSuppressed, Detector: "names", SpanIndex: 1, WinnerIndex: 0})

	require.NoError(t, sink.RecordDecisions(context.Background(), "doc-1", log))
	require.NoError(t, sink.RecordDecisions(context.Background(), "doc-1", log))

	got := sink.Decisions("doc-1")
	require.Len(t, got, 2)
	assert.Equal(t, domain.DecisionSuppressed, got[0].Kind)
	assert.Empty(t, sink.Decisions("doc-2"))
}

func TestAuditSink_EmptyLogIgnored(t *testing.T) {
	sink := NewAuditSink()

	require.NoError(t, sink.RecordDecisions(context.Background(), "doc-1", nil))
	require.NoError(t, sink.RecordDecisions(context.Background(), "doc-1", &domain.DecisionLog{}))

	assert.Empty(t, sink.Decisions("doc-1"))
}

func TestAuditSink_Parity(t *testing.T) {
	sink := NewAuditSink()

	require.NoError(t, sink.RecordParity(context.Background(), domain.ParityRecord{ID: "a", Detector: "identifiers"}))
	require.NoError(t, sink.RecordParity(context.Background(), domain.ParityRecord{ID: "b", Detector: "identifiers"}))

	got := sink.ParityRecords()
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "b", got[1].ID)
}

func TestAuditSink_Close(t *testing.T) {
	sink := NewAuditSink()
	require.False(t, sink.Closed())
	require.NoError(t, sink.Close())
	assert.True(t, sink.Closed())
}
