package services

import (
	"context"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/custodia-labs/scrub-cli/internal/core/domain"
	"github.com/custodia-labs/scrub-cli/internal/core/ports/driving"
	"github.com/custodia-labs/scrub-cli/internal/logger"
)

var _ driving.Session = (*session)(nil)

type sessionState int

const (
	sessionOpen sessionState = iota
	sessionFlushed
	sessionClosed
)

// session holds the per-stream state: the rolling buffer, the global
// offset of the buffer's start, the token map for the whole stream, and
// the accumulated plan and log.
//
// Chunks must be processed strictly in arrival order; the session is not
// safe for concurrent use and does not serialise callers itself.
type session struct {
	engine   *Engine
	id       string
	state    sessionState
	buf      string
	offset   int
	assigner *TokenAssigner
	plan     domain.ResolvedPlan
	log      domain.DecisionLog

	// failed tracks detectors whose failure is already in the session
	// log; a detector that fails on every pass is logged once.
	failed map[string]bool
}

func newSession(e *Engine) *session {
	return &session{
		engine:   e,
		id:       uuid.New().String(),
		assigner: NewTokenAssigner(),
		failed:   make(map[string]bool),
	}
}

// Feed appends a chunk to the rolling buffer, runs the pipeline over the
// buffer, and emits the redacted prefix that is safely clear of the
// held-back tail. The tail length equals the longest configured match
// length, so no detector's view of a candidate match is ever truncated by
// a chunk boundary.
func (s *session) Feed(ctx context.Context, chunk string) (string, error) {
	switch s.state {
	case sessionFlushed:
		return "", domain.ErrSessionFlushed
	case sessionClosed:
		return "", domain.ErrSessionClosed
	}

	s.buf += chunk
	margin := s.engine.settings.MaxMatchLength
	if len(s.buf) <= margin {
		return "", nil
	}
	return s.emit(ctx, len(s.buf)-margin)
}

// Flush runs the pipeline over the entire remaining buffer with no
// held-back tail and closes the session for further input.
func (s *session) Flush(ctx context.Context) (string, error) {
	switch s.state {
	case sessionFlushed:
		return "", domain.ErrSessionFlushed
	case sessionClosed:
		return "", domain.ErrSessionClosed
	}

	out, err := s.emit(ctx, len(s.buf))
	if err != nil {
		return "", err
	}
	s.state = sessionFlushed
	s.engine.recordAudit(ctx, s.id, &s.log)
	return out, nil
}

// Plan returns the spans applied so far, with offsets into the full
// stream rather than the current buffer.
func (s *session) Plan() *domain.ResolvedPlan {
	return &s.plan
}

// Log returns the accumulated decision log.
func (s *session) Log() *domain.DecisionLog {
	return &s.log
}

// Close abandons the session. State is session-local, so abandoning one
// stream can never corrupt another.
func (s *session) Close() error {
	s.state = sessionClosed
	return nil
}

// emit runs detection and resolution over the whole buffer, then applies
// and emits only the spans that end at or before cutoff. The cutoff is
// pulled left to the nearest rune boundary and to the start of any span
// that would otherwise straddle it, so an emitted prefix never splits a
// match. The remainder stays buffered verbatim.
func (s *session) emit(ctx context.Context, cutoff int) (string, error) {
	if cutoff <= 0 || len(s.buf) == 0 {
		return "", nil
	}

	pool, passLog := s.engine.orch.Detect(ctx, s.buf)
	plan := s.engine.resolver.Resolve(pool, passLog)

	for cutoff > 0 && cutoff < len(s.buf) && !utf8.RuneStart(s.buf[cutoff]) {
		cutoff--
	}
	// Plan spans are non-overlapping and start-ordered, so at most one
	// can straddle the cutoff.
	for _, sp := range plan.Spans {
		if sp.CharacterStart < cutoff && sp.CharacterEnd > cutoff {
			cutoff = sp.CharacterStart
			break
		}
	}
	if cutoff <= 0 {
		return "", nil
	}

	emitted := &domain.ResolvedPlan{}
	for _, sp := range plan.Spans {
		if sp.CharacterEnd <= cutoff {
			emitted.Spans = append(emitted.Spans, sp)
		}
	}

	// Token identity is carried by the session assigner, so values seen
	// in earlier chunks keep their tokens.
	s.assigner.Assign(emitted)
	out := ApplyPlan(s.buf[:cutoff], emitted)

	for _, sp := range emitted.Spans {
		sp.CharacterStart += s.offset
		sp.CharacterEnd += s.offset
		s.plan.Spans = append(s.plan.Spans, sp)
	}
	s.mergeLog(passLog, cutoff)

	logger.Debug("session %s: emitted %d bytes, %d spans, %d held back",
		s.id, cutoff, emitted.Len(), len(s.buf)-cutoff)

	s.buf = s.buf[cutoff:]
	s.offset += cutoff
	return out, nil
}

// mergeLog folds one pass's decisions into the session log. Every pass
// re-detects the held-back tail, so a tail decision would repeat until
// its bytes are emitted; only decisions whose span lies inside the
// emitted prefix are final, and each is recorded exactly once, in the
// pass that emits its region. Offsets are rebased to the stream and pool
// indices dropped, since per-pass indices mean nothing in a merged log.
func (s *session) mergeLog(passLog *domain.DecisionLog, cutoff int) {
	for _, e := range passLog.Entries {
		switch {
		case e.Kind == domain.DecisionDetectorFailed:
			if !s.failed[e.Detector] {
				s.failed[e.Detector] = true
				s.log.Add(e)
			}
		case e.CharacterEnd >= 0 && e.CharacterEnd <= cutoff:
			e.CharacterStart += s.offset
			e.CharacterEnd += s.offset
			e.SpanIndex = -1
			e.WinnerIndex = -1
			s.log.Add(e)
		}
	}
}
