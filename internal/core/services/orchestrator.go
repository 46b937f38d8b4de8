package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/scrub-cli/internal/core/domain"
	"github.com/custodia-labs/scrub-cli/internal/core/ports/driven"
	"github.com/custodia-labs/scrub-cli/internal/logger"
)

// Orchestrator fans the same text out to every registered detector and
// merges their candidate spans into one pool.
//
// Detectors run concurrently; each writes to a private slice and the
// results are concatenated in registration order afterwards, so the pool
// is deterministic and no locking happens during fan-out. A failing or
// panicking detector loses only its own findings: the failure is recorded
// in the decision log and orchestration continues, because a missed span
// is a worse outcome than a degraded pass.
type Orchestrator struct {
	detectors []driven.Detector
	parity    *Parity
	filter    *PostFilter
	settings  domain.Settings
}

// NewOrchestrator wires the detector set, parity layer, and vocabulary
// post-filter for one engine instance. Registration order of detectors is
// significant: it is the final deterministic tie-break in resolution.
func NewOrchestrator(detectors []driven.Detector, parity *Parity, filter *PostFilter, settings domain.Settings) *Orchestrator {
	return &Orchestrator{
		detectors: detectors,
		parity:    parity,
		filter:    filter,
		settings:  settings,
	}
}

// Detect runs one orchestration pass and returns the validated,
// post-filtered candidate pool together with the pass's decision log.
func (o *Orchestrator) Detect(ctx context.Context, text string) ([]domain.Span, *domain.DecisionLog) {
	log := &domain.DecisionLog{}
	if text == "" || len(o.detectors) == 0 {
		return nil, log
	}

	results := make([][]domain.Span, len(o.detectors))
	failures := make([]error, len(o.detectors))

	g, gctx := errgroup.WithContext(ctx)
	for i, d := range o.detectors {
		g.Go(func() error {
			spans, err := o.invoke(gctx, d, text)
			if err != nil {
				// Recorded after fan-in; never aborts the pass.
				failures[i] = err
				return nil
			}
			results[i] = spans
			return nil
		})
	}
	// Workers only report via the slices; Wait is for completion.
	_ = g.Wait()

	var pool []domain.Span
	for i, d := range o.detectors {
		if failures[i] != nil {
			logger.Warn("orchestrator: detector %s failed: %v", d.Name(), failures[i])
			log.Add(domain.Decision{
				Kind:           domain.DecisionDetectorFailed,
				Detector:       d.Name(),
				CharacterStart: -1,
				CharacterEnd:   -1,
				SpanIndex:      -1,
				WinnerIndex:    -1,
				Reason:         failures[i].Error(),
			})
			continue
		}
		for _, s := range results[i] {
			s.Detector = d.Name()
			s.State = domain.StateCandidate
			if err := s.Validate(len(text)); err != nil {
				log.Add(domain.Decision{
					Kind:           domain.DecisionRejected,
					Detector:       d.Name(),
					CharacterStart: s.CharacterStart,
					CharacterEnd:   s.CharacterEnd,
					SpanIndex:      -1,
					WinnerIndex:    -1,
					Reason:         err.Error(),
				})
				continue
			}
			if s.OriginalValue == "" {
				s.OriginalValue = text[s.CharacterStart:s.CharacterEnd]
			}
			if s.Text == "" {
				s.Text = s.OriginalValue
			}
			pool = append(pool, s)
		}
	}

	if o.filter != nil {
		pool = o.filter.Filter(pool, log)
	}
	return pool, log
}

// invoke runs a single detector through the parity layer with panic
// containment.
func (o *Orchestrator) invoke(ctx context.Context, d driven.Detector, text string) (spans []domain.Span, err error) {
	defer func() {
		if r := recover(); r != nil {
			spans = nil
			err = fmt.Errorf("detector %s panicked: %v", d.Name(), r)
		}
	}()
	if o.parity != nil {
		return o.parity.Run(ctx, d, text, o.settings)
	}
	return d.Detect(ctx, text, o.settings)
}
