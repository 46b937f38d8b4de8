package services

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/scrub-cli/internal/core/domain"
	"github.com/custodia-labs/scrub-cli/internal/core/ports/driven"
	"github.com/custodia-labs/scrub-cli/internal/logger"
)

// parityBuffer bounds the record channel. Slow readers drop records
// rather than blocking redaction.
const parityBuffer = 256

// maxSampledDiffs bounds the diff sample carried by one parity record.
const maxSampledDiffs = 5

// Parity gates which implementation of a detector's inner loop serves
// each invocation and, in shadow mode, differentially verifies the
// accelerated implementation against the reference one.
//
// The switching logic lives here and only here; detectors never decide
// for themselves which implementation runs.
type Parity struct {
	mode    domain.ParityMode
	epsilon float64
	limiter *rate.Limiter
	sink    driven.AuditSink

	mu      sync.Mutex
	records chan domain.ParityRecord
	closed  bool
}

// NewParity creates the parity layer for the given settings. sink may be
// nil; records are then only available on the Records channel.
func NewParity(settings domain.Settings, sink driven.AuditSink) *Parity {
	var limiter *rate.Limiter
	if settings.ShadowPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(settings.ShadowPerSecond), 1)
	}
	return &Parity{
		mode:    settings.Mode,
		epsilon: settings.ConfidenceEpsilon,
		limiter: limiter,
		sink:    sink,
		records: make(chan domain.ParityRecord, parityBuffer),
	}
}

// Records returns the read channel of shadow comparison outcomes.
func (p *Parity) Records() <-chan domain.ParityRecord {
	return p.records
}

// Close closes the record channel. Run must not be called afterwards.
func (p *Parity) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.closed = true
		close(p.records)
	}
}

// Run invokes the detector through the configured mode and returns the
// authoritative spans.
//
// In accelerated mode a failing or missing accelerated implementation
// falls back to the reference implementation for that invocation; the
// accelerated path never reduces detection coverage. In shadow mode the
// reference result is always returned and the accelerated result is only
// diffed.
func (p *Parity) Run(ctx context.Context, d driven.Detector, text string, settings domain.Settings) ([]domain.Span, error) {
	accel, hasAccel := d.(driven.AcceleratedDetector)

	switch p.mode {
	case domain.ModeAccelerated:
		if hasAccel {
			spans, err := runAccelerated(accel, text)
			if err == nil {
				return spans, nil
			}
			logger.Warn("parity: accelerated %s failed, falling back: %v", d.Name(), err)
		}
		return d.Detect(ctx, text, settings)

	case domain.ModeShadow:
		ref, err := d.Detect(ctx, text, settings)
		if err != nil {
			return nil, err
		}
		if hasAccel && (p.limiter == nil || p.limiter.Allow()) {
			acc, accErr := runAccelerated(accel, text)
			if accErr != nil {
				// Omitted from this cycle's record per the fallback rule.
				logger.Debug("parity: shadow %s skipped: %v", d.Name(), accErr)
				return ref, nil
			}
			p.emit(ctx, p.diff(d.Name(), ref, acc))
		}
		return ref, nil

	default:
		return d.Detect(ctx, text, settings)
	}
}

// runAccelerated calls the accelerated implementation with panic
// containment; a crashing native loop must never take the document down.
func runAccelerated(d driven.AcceleratedDetector, text string) (spans []domain.Span, err error) {
	defer func() {
		if r := recover(); r != nil {
			spans = nil
			err = fmt.Errorf("accelerated %s panicked: %v", d.Name(), r)
		}
	}()
	return d.DetectAccelerated(text)
}

// diff compares the two result sets by offset, category, and confidence
// within epsilon.
func (p *Parity) diff(detector string, ref, acc []domain.Span) domain.ParityRecord {
	rec := domain.ParityRecord{
		ID:       uuid.New().String(),
		Detector: detector,
		Time:     time.Now().UTC(),
	}

	type key struct {
		start, end int
		category   domain.Category
	}
	accByKey := make(map[key][]domain.Span, len(acc))
	for _, s := range acc {
		k := key{s.CharacterStart, s.CharacterEnd, s.Category}
		accByKey[k] = append(accByKey[k], s)
	}

	for _, s := range ref {
		k := key{s.CharacterStart, s.CharacterEnd, s.Category}
		matched := false
		for i, cand := range accByKey[k] {
			if math.Abs(cand.Confidence-s.Confidence) <= p.epsilon {
				accByKey[k] = append(accByKey[k][:i], accByKey[k][i+1:]...)
				matched = true
				break
			}
		}
		if matched {
			rec.Matched++
			continue
		}
		rec.OnlyReference++
		if len(rec.Diffs) < maxSampledDiffs {
			rec.Diffs = append(rec.Diffs, domain.ParityDiff{
				Side:           domain.SideReference,
				Category:       s.Category,
				CharacterStart: s.CharacterStart,
				CharacterEnd:   s.CharacterEnd,
				Confidence:     s.Confidence,
			})
		}
	}

	for _, remaining := range accByKey {
		for _, s := range remaining {
			rec.OnlyAccelerated++
			if len(rec.Diffs) < maxSampledDiffs {
				rec.Diffs = append(rec.Diffs, domain.ParityDiff{
					Side:           domain.SideAccelerated,
					Category:       s.Category,
					CharacterStart: s.CharacterStart,
					CharacterEnd:   s.CharacterEnd,
					Confidence:     s.Confidence,
				})
			}
		}
	}

	return rec
}

// emit publishes a record without ever blocking the redaction path.
func (p *Parity) emit(ctx context.Context, rec domain.ParityRecord) {
	p.mu.Lock()
	if !p.closed {
		select {
		case p.records <- rec:
		default:
			logger.Debug("parity: record channel full, dropping %s", rec.ID)
		}
	}
	p.mu.Unlock()

	if p.sink != nil {
		if err := p.sink.RecordParity(ctx, rec); err != nil {
			logger.Warn("parity: sink error: %v", err)
		}
	}
}
