package ports

import (
	"context"

	"sproutlens/domain/belief"
	"sproutlens/domain/core"
)

// EvidenceRepository is the append-only evidence ledger. Append writes the
// evidence record and the recomputed hypothesis in one transaction - evidence
// without a certainty update (or vice versa) is an inconsistent state, so the
// invariant is enforced structurally rather than by convention.
type EvidenceRepository interface {
	// Append stores ev and persists h (version-checked against
	// expectedVersion) atomically
	Append(ctx context.Context, ev *belief.Evidence, h *belief.Hypothesis, expectedVersion int) error

	// ListByHypothesis returns evidence ordered by recorded time ascending,
	// insertion order breaking ties; never reordered once written
	ListByHypothesis(ctx context.Context, id core.HypothesisID) ([]*belief.Evidence, error)
}

// AdjustmentRepository is the append-only audit lane for manual certainty
// overrides, transactional with the hypothesis write like EvidenceRepository
type AdjustmentRepository interface {
	// Append stores adj and persists h (version-checked) atomically
	Append(ctx context.Context, adj *belief.CertaintyAdjustment, h *belief.Hypothesis, expectedVersion int) error

	// ListByHypothesis returns adjustments ordered by recorded time ascending
	ListByHypothesis(ctx context.Context, id core.HypothesisID) ([]*belief.CertaintyAdjustment, error)
}
