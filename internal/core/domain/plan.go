package domain

// ResolvedPlan is the final, non-overlapping redaction plan for one text
// unit. Spans are ordered by CharacterStart ascending and all carry state
// StateApplied; after token assignment every span has a Replacement.
type ResolvedPlan struct {
	Spans []Span `json:"spans"`
}

// Len returns the number of applied spans.
func (p *ResolvedPlan) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Spans)
}

// Summary counts applied spans per category for reporting.
func (p *ResolvedPlan) Summary() map[Category]int {
	out := make(map[Category]int)
	if p == nil {
		return out
	}
	for _, s := range p.Spans {
		out[s.Category]++
	}
	return out
}

// DecisionKind classifies a decision log entry.
type DecisionKind string

const (
	// DecisionSuppressed records a candidate losing conflict resolution
	// to an overlapping winner.
	DecisionSuppressed DecisionKind = "suppressed"

	// DecisionAllowlisted records a candidate removed by the vocabulary
	// post-filter before clustering.
	DecisionAllowlisted DecisionKind = "allowlisted"

	// DecisionRejected records a malformed span dropped at pool entry.
	DecisionRejected DecisionKind = "rejected"

	// DecisionDetectorFailed records a detector whose contribution was
	// dropped because it returned an error or panicked.
	DecisionDetectorFailed DecisionKind = "detector_failed"
)

// Decision is one entry in the decision log, explaining a suppression,
// rejection, or detector failure for audit and testability.
type Decision struct {
	Kind     DecisionKind `json:"kind"`
	Detector string       `json:"detector,omitempty"`

	// CharacterStart and CharacterEnd locate the affected span in the
	// text unit the log describes, or -1 when the entry is not about a
	// span (detector failures). Streaming sessions record stream-global
	// offsets here.
	CharacterStart int `json:"character_start"`
	CharacterEnd   int `json:"character_end"`

	// SpanIndex is the index of the affected span in the candidate pool
	// handed to the resolver, or -1 when the span never reached the
	// resolver (rejections, allowlist removals) or the entry is not
	// about a specific span. Streaming sessions store -1: pool indices
	// are per-pass and do not survive the merge into a session log.
	SpanIndex int `json:"span_index"`

	// WinnerIndex is the resolver-pool index of the span that won the
	// conflict, or -1 when no winner is involved.
	WinnerIndex int `json:"winner_index"`

	Reason string `json:"reason"`
}

// DecisionLog collects the decisions made while producing one resolved
// plan. It is append-only and owned by the orchestration pass.
type DecisionLog struct {
	Entries []Decision `json:"entries"`
}

// Add appends an entry.
func (l *DecisionLog) Add(d Decision) {
	l.Entries = append(l.Entries, d)
}

// Count returns the number of entries of the given kind.
func (l *DecisionLog) Count(kind DecisionKind) int {
	n := 0
	for _, e := range l.Entries {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// Result bundles the outputs of one batch redaction pass.
type Result struct {
	// Redacted is the input text with every applied span replaced by its
	// token.
	Redacted string `json:"redacted"`

	// Plan is the resolved, non-overlapping span sequence that was applied.
	Plan *ResolvedPlan `json:"plan"`

	// Log explains every suppression and failure from this pass.
	Log *DecisionLog `json:"log"`
}
