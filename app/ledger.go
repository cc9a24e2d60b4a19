package app

import (
	"context"
	"strings"

	"sproutlens/domain/belief"
	"sproutlens/domain/core"
	"sproutlens/internal"
	"sproutlens/ports"
)

// Ledger is the evidence ledger plus the certainty engine. Appending evidence
// and recomputing certainty are one transactional operation: the repository
// write carries both the immutable record and the updated hypothesis, so
// every certainty change has exactly one causing audit record.
type Ledger struct {
	hypotheses  ports.HypothesisRepository
	evidence    ports.EvidenceRepository
	adjustments ports.AdjustmentRepository
	locks       *focusLocks
	log         *internal.Logger
}

// NewLedger creates the evidence ledger / certainty engine
func NewLedger(hypotheses ports.HypothesisRepository, evidence ports.EvidenceRepository, adjustments ports.AdjustmentRepository, log *internal.Logger) *Ledger {
	if log == nil {
		log = internal.DefaultLogger
	}
	return &Ledger{
		hypotheses:  hypotheses,
		evidence:    evidence,
		adjustments: adjustments,
		locks:       newFocusLocks(),
		log:         log,
	}
}

// AppendEvidence records an observation against a hypothesis and applies its
// certainty step. A transforming observation also revises the theory text to
// the observation content. Fails before any mutation on bad enums, empty
// content, or a terminal hypothesis.
func (l *Ledger) AppendEvidence(ctx context.Context, childID core.ChildID, focus, content string, effect belief.Effect, source belief.Source) (*belief.Hypothesis, *belief.Evidence, error) {
	ev := &belief.Evidence{
		ID:      core.EvidenceID(core.NewID()),
		Content: strings.TrimSpace(content),
		Effect:  effect,
		Source:  source,
	}
	if err := ev.Validate(); err != nil {
		return nil, nil, err
	}

	lock := l.locks.get(childID, focus)
	lock.Lock()
	defer lock.Unlock()

	h, err := l.hypotheses.Get(ctx, childID, focus)
	if err != nil {
		return nil, nil, err
	}
	if h.IsTerminal() {
		return nil, nil, core.ErrTerminalFrozen
	}

	expected := h.Version
	h.Certainty = belief.Apply(h.Certainty, effect)
	if effect == belief.EffectTransforms {
		// The transforming observation states the revised theory; the prior
		// wording survives in the ledger.
		h.Theory = ev.Content
	}
	h.Version++
	h.UpdatedAt = core.Now()

	ev.HypothesisID = h.ID
	ev.CertaintyAfter = h.Certainty
	ev.Seq = h.Version
	ev.RecordedAt = h.UpdatedAt

	if err := l.evidence.Append(ctx, ev, h, expected); err != nil {
		return nil, nil, err
	}

	l.log.Debug("evidence appended: child=%s focus=%s effect=%s certainty=%.2f status=%s",
		childID, focus, effect, h.Certainty, h.Status())
	return h, ev, nil
}

// AdjustCertainty applies a manual expert override. It writes one
// CertaintyAdjustment record and no Evidence, keeping the expert lane
// distinguishable in the timeline.
func (l *Ledger) AdjustCertainty(ctx context.Context, childID core.ChildID, focus string, newValue float64, reason, actor string) (*belief.Hypothesis, error) {
	adj := &belief.CertaintyAdjustment{
		ID:       core.NewID(),
		NewValue: newValue,
		Reason:   strings.TrimSpace(reason),
		Actor:    actor,
	}
	if err := adj.Validate(); err != nil {
		return nil, err
	}

	lock := l.locks.get(childID, focus)
	lock.Lock()
	defer lock.Unlock()

	h, err := l.hypotheses.Get(ctx, childID, focus)
	if err != nil {
		return nil, err
	}
	if h.IsTerminal() {
		return nil, core.ErrTerminalFrozen
	}

	expected := h.Version
	h.Certainty = adj.NewValue
	h.Version++
	h.UpdatedAt = core.Now()

	adj.HypothesisID = h.ID
	adj.Seq = h.Version
	adj.RecordedAt = h.UpdatedAt

	if err := l.adjustments.Append(ctx, adj, h, expected); err != nil {
		return nil, err
	}

	l.log.Info("certainty adjusted: child=%s focus=%s value=%.2f actor=%s", childID, focus, newValue, actor)
	return h, nil
}

// EvidenceFor returns the evidence for a hypothesis in ledger order
func (l *Ledger) EvidenceFor(ctx context.Context, childID core.ChildID, focus string) ([]*belief.Evidence, error) {
	h, err := l.hypotheses.Get(ctx, childID, focus)
	if err != nil {
		return nil, err
	}
	return l.evidence.ListByHypothesis(ctx, h.ID)
}

// Timeline reconstructs the lifecycle of a hypothesis by replaying its
// evidence and adjustments from the creation baseline. The projection is
// recomputed from the ledger on every call and is never cached.
func (l *Ledger) Timeline(ctx context.Context, childID core.ChildID, focus string) ([]belief.TimelineEvent, error) {
	h, err := l.hypotheses.Get(ctx, childID, focus)
	if err != nil {
		return nil, err
	}
	evidence, err := l.evidence.ListByHypothesis(ctx, h.ID)
	if err != nil {
		return nil, err
	}
	adjustments, err := l.adjustments.ListByHypothesis(ctx, h.ID)
	if err != nil {
		return nil, err
	}
	return belief.Replay(h, evidence, adjustments), nil
}

// TimelineTrend returns the least-squares certainty slope of a hypothesis
// lifecycle, per event
func (l *Ledger) TimelineTrend(ctx context.Context, childID core.ChildID, focus string) (float64, error) {
	events, err := l.Timeline(ctx, childID, focus)
	if err != nil {
		return 0, err
	}
	return belief.Trend(events), nil
}
