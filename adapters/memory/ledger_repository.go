package memory

import (
	"context"
	"sync"

	"sproutlens/domain/belief"
	"sproutlens/domain/core"
	"sproutlens/ports"
)

// EvidenceRepository is an in-memory append-only evidence ledger. Append
// holds both the evidence write and the hypothesis update under one lock,
// mirroring the transactional contract of the postgres adapter.
type EvidenceRepository struct {
	mu         sync.RWMutex
	hypotheses *HypothesisRepository
	records    map[core.HypothesisID][]*belief.Evidence
}

// NewEvidenceRepository creates an in-memory evidence ledger bound to the
// hypothesis store it updates transactionally
func NewEvidenceRepository(hypotheses *HypothesisRepository) *EvidenceRepository {
	return &EvidenceRepository{
		hypotheses: hypotheses,
		records:    make(map[core.HypothesisID][]*belief.Evidence),
	}
}

var _ ports.EvidenceRepository = (*EvidenceRepository)(nil)

// Append stores the evidence and the recomputed hypothesis atomically
func (r *EvidenceRepository) Append(ctx context.Context, ev *belief.Evidence, h *belief.Hypothesis, expectedVersion int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.hypotheses.mu.Lock()
	defer r.hypotheses.mu.Unlock()
	if err := r.hypotheses.updateLocked(h, expectedVersion); err != nil {
		return err
	}

	dup := *ev
	r.records[ev.HypothesisID] = append(r.records[ev.HypothesisID], &dup)
	return nil
}

// ListByHypothesis returns evidence in ledger order; records are appended in
// (timestamp, seq) order by construction and never reordered
func (r *EvidenceRepository) ListByHypothesis(ctx context.Context, id core.HypothesisID) ([]*belief.Evidence, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored := r.records[id]
	out := make([]*belief.Evidence, len(stored))
	for i, ev := range stored {
		dup := *ev
		out[i] = &dup
	}
	return out, nil
}

// AdjustmentRepository is the in-memory audit lane for manual overrides
type AdjustmentRepository struct {
	mu         sync.RWMutex
	hypotheses *HypothesisRepository
	records    map[core.HypothesisID][]*belief.CertaintyAdjustment
}

// NewAdjustmentRepository creates an in-memory adjustment store bound to the
// hypothesis store it updates transactionally
func NewAdjustmentRepository(hypotheses *HypothesisRepository) *AdjustmentRepository {
	return &AdjustmentRepository{
		hypotheses: hypotheses,
		records:    make(map[core.HypothesisID][]*belief.CertaintyAdjustment),
	}
}

var _ ports.AdjustmentRepository = (*AdjustmentRepository)(nil)

// Append stores the adjustment and the hypothesis atomically
func (r *AdjustmentRepository) Append(ctx context.Context, adj *belief.CertaintyAdjustment, h *belief.Hypothesis, expectedVersion int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.hypotheses.mu.Lock()
	defer r.hypotheses.mu.Unlock()
	if err := r.hypotheses.updateLocked(h, expectedVersion); err != nil {
		return err
	}

	dup := *adj
	r.records[adj.HypothesisID] = append(r.records[adj.HypothesisID], &dup)
	return nil
}

// ListByHypothesis returns adjustments in recorded order
func (r *AdjustmentRepository) ListByHypothesis(ctx context.Context, id core.HypothesisID) ([]*belief.CertaintyAdjustment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored := r.records[id]
	out := make([]*belief.CertaintyAdjustment, len(stored))
	for i, adj := range stored {
		dup := *adj
		out[i] = &dup
	}
	return out, nil
}
