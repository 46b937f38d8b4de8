package services

import (
	"fmt"
	"sort"

	"github.com/custodia-labs/scrub-cli/internal/core/domain"
)

// Resolver converts a candidate pool into a resolved, non-overlapping
// redaction plan plus decision log entries explaining each suppression.
//
// Resolution is fully deterministic: every ordering ends in the candidate
// pool index, which reflects detector registration order, so two spans
// with identical range, priority, and confidence always resolve the same
// way.
type Resolver struct{}

// NewResolver creates a conflict resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve consumes the candidate pool and produces the resolved plan.
// The pool slice is mutated in place: every span leaves in a terminal
// state (applied or ignored) with AmbiguousWith recorded.
func (r *Resolver) Resolve(pool []domain.Span, log *domain.DecisionLog) *domain.ResolvedPlan {
	if len(pool) == 0 {
		return &domain.ResolvedPlan{}
	}

	// Sort pool indices by start ascending, then priority descending,
	// then confidence descending, then length descending. The stable sort
	// preserves pool order (= registration order) as the final tie-break.
	order := make([]int, len(pool))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		sa, sb := pool[order[a]], pool[order[b]]
		if sa.CharacterStart != sb.CharacterStart {
			return sa.CharacterStart < sb.CharacterStart
		}
		if sa.Priority != sb.Priority {
			return sa.Priority > sb.Priority
		}
		if sa.Confidence != sb.Confidence {
			return sa.Confidence > sb.Confidence
		}
		return sa.Length() > sb.Length()
	})

	var winners []int
	for _, cluster := range clusters(pool, order) {
		w := r.pickWinner(pool, cluster)
		winners = append(winners, w)

		pool[w].State = domain.StateApplied
		for _, idx := range cluster {
			if idx == w {
				continue
			}
			pool[idx].State = domain.StateIgnored
			pool[idx].AmbiguousWith = append(pool[idx].AmbiguousWith, w)
			pool[w].AmbiguousWith = append(pool[w].AmbiguousWith, idx)
			log.Add(domain.Decision{
				Kind:           domain.DecisionSuppressed,
				Detector:       pool[idx].Detector,
				CharacterStart: pool[idx].CharacterStart,
				CharacterEnd:   pool[idx].CharacterEnd,
				SpanIndex:      idx,
				WinnerIndex:    w,
				Reason: fmt.Sprintf("%s lost to overlapping %s from %s",
					pool[idx].Category, pool[w].Category, pool[w].Detector),
			})
		}
	}

	sort.Ints(winners)
	plan := &domain.ResolvedPlan{Spans: make([]domain.Span, 0, len(winners))}
	for _, w := range winners {
		plan.Spans = append(plan.Spans, pool[w])
	}
	// Winners sorted by pool index; re-sort by position for the plan.
	sort.SliceStable(plan.Spans, func(a, b int) bool {
		return plan.Spans[a].CharacterStart < plan.Spans[b].CharacterStart
	})
	return plan
}

// clusters groups the position-sorted candidates into transitive overlap
// clusters: a span joins the current cluster while its start precedes the
// furthest end seen so far, so A-B-C chains cluster together even when A
// and C do not directly overlap.
func clusters(pool []domain.Span, order []int) [][]int {
	var out [][]int
	var current []int
	maxEnd := -1

	for _, idx := range order {
		s := pool[idx]
		if len(current) > 0 && s.CharacterStart < maxEnd {
			current = append(current, idx)
		} else {
			if len(current) > 0 {
				out = append(out, current)
			}
			current = []int{idx}
		}
		if s.CharacterEnd > maxEnd {
			maxEnd = s.CharacterEnd
		}
	}
	if len(current) > 0 {
		out = append(out, current)
	}
	return out
}

// pickWinner selects exactly one winner from a cluster.
//
// A span strictly contained within another member of higher or equal
// priority can never win, regardless of confidence: priority establishes
// an absolute ordering for containment. Among the remaining spans, the
// winner is the best by priority descending, confidence descending,
// length descending, start ascending, and finally pool index ascending.
func (r *Resolver) pickWinner(pool []domain.Span, cluster []int) int {
	if len(cluster) == 1 {
		return cluster[0]
	}

	eligible := make([]int, 0, len(cluster))
	for _, idx := range cluster {
		if !dominated(pool, cluster, idx) {
			eligible = append(eligible, idx)
		}
	}
	if len(eligible) == 0 {
		eligible = cluster
	}

	best := eligible[0]
	for _, idx := range eligible[1:] {
		if betterWinner(pool[idx], pool[best], idx, best) {
			best = idx
		}
	}
	return best
}

// dominated reports whether pool[idx] is strictly contained within another
// cluster member of higher or equal priority.
func dominated(pool []domain.Span, cluster []int, idx int) bool {
	s := pool[idx]
	for _, other := range cluster {
		if other == idx {
			continue
		}
		o := pool[other]
		if o.Contains(s) && !o.SameRange(s) && o.Priority >= s.Priority {
			return true
		}
	}
	return false
}

func betterWinner(a, b domain.Span, aIdx, bIdx int) bool {
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	if a.Confidence != b.Confidence {
		return a.Confidence > b.Confidence
	}
	if a.Length() != b.Length() {
		return a.Length() > b.Length()
	}
	if a.CharacterStart != b.CharacterStart {
		return a.CharacterStart < b.CharacterStart
	}
	return aIdx < bIdx
}
