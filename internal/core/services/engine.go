package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/custodia-labs/scrub-cli/internal/core/domain"
	"github.com/custodia-labs/scrub-cli/internal/core/ports/driven"
	"github.com/custodia-labs/scrub-cli/internal/core/ports/driving"
	"github.com/custodia-labs/scrub-cli/internal/logger"
)

// Ensure Engine implements the driving ports.
var (
	_ driving.Redactor       = (*Engine)(nil)
	_ driving.StreamRedactor = (*Engine)(nil)
	_ driving.ParitySource   = (*Engine)(nil)
)

// Engine is the redaction engine facade: it owns the orchestrator,
// resolver, parity layer, and post-filter, and implements both the batch
// and streaming driving ports.
//
// The engine itself holds no per-document state; token maps live in the
// per-call assigner or the per-session state, so independent documents
// and sessions can run fully in parallel.
type Engine struct {
	orch     *Orchestrator
	resolver *Resolver
	parity   *Parity
	filter   *PostFilter
	settings domain.Settings
	audit    driven.AuditSink
}

// NewEngine builds an engine from a registration-ordered detector set.
// audit may be nil.
func NewEngine(detectors []driven.Detector, settings domain.Settings, audit driven.AuditSink) (*Engine, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if len(detectors) == 0 {
		return nil, domain.ErrNoDetectors
	}

	parity := NewParity(settings, audit)
	filter := NewPostFilter(settings.Allowlist)

	return &Engine{
		orch:     NewOrchestrator(detectors, parity, filter, settings),
		resolver: NewResolver(),
		parity:   parity,
		filter:   filter,
		settings: settings,
		audit:    audit,
	}, nil
}

// Settings returns the engine's read-only configuration.
func (e *Engine) Settings() domain.Settings {
	return e.settings
}

// SetAllowlist swaps the vocabulary allowlist at runtime. Used by the
// config store's file watcher.
func (e *Engine) SetAllowlist(allowlist []string) {
	e.filter.SetAllowlist(allowlist)
}

// Records exposes the parity record stream for promotion tooling.
func (e *Engine) Records() <-chan domain.ParityRecord {
	return e.parity.Records()
}

// Close shuts down the parity stream and the audit sink.
func (e *Engine) Close() error {
	e.parity.Close()
	if e.audit != nil {
		return e.audit.Close()
	}
	return nil
}

// Redact runs the whole pipeline over one document: fan-out detection,
// conflict resolution, token assignment, and splice.
func (e *Engine) Redact(ctx context.Context, text string) (domain.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	pool, log := e.orch.Detect(ctx, text)
	plan := e.resolver.Resolve(pool, log)

	assigner := NewTokenAssigner()
	assigner.Assign(plan)
	redacted := ApplyPlan(text, plan)

	logger.Debug("engine: applied %d spans, %d decisions", plan.Len(), len(log.Entries))
	e.recordAudit(ctx, uuid.New().String(), log)

	return domain.Result{
		Redacted: redacted,
		Plan:     plan,
		Log:      log,
	}, nil
}

// OpenSession starts a streaming session sharing this engine's detector
// set and settings. Session state is owned exclusively by the returned
// session.
func (e *Engine) OpenSession(ctx context.Context) (driving.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("opening session: %w", err)
	}
	return newSession(e), nil
}

func (e *Engine) recordAudit(ctx context.Context, docID string, log *domain.DecisionLog) {
	if e.audit == nil || len(log.Entries) == 0 {
		return
	}
	if err := e.audit.RecordDecisions(ctx, docID, log); err != nil {
		logger.Warn("engine: audit sink error: %v", err)
	}
}
