package ports

import (
	"context"

	"sproutlens/domain/belief"
	"sproutlens/domain/core"
)

// HypothesisRepository defines the interface for hypothesis data operations.
// Writes are version-checked: Update must fail with core.ErrVersionMismatch
// when the stored version differs from expectedVersion, so a certainty value
// is never computed from a stale base.
type HypothesisRepository interface {
	// Create persists a new hypothesis; fails with core.ErrDuplicateFocus
	// when the child already has one with the same focus
	Create(ctx context.Context, h *belief.Hypothesis) error

	// Get retrieves a hypothesis by child and focus
	Get(ctx context.Context, childID core.ChildID, focus string) (*belief.Hypothesis, error)

	// ListByChild returns all hypotheses for a child, creation order
	ListByChild(ctx context.Context, childID core.ChildID) ([]*belief.Hypothesis, error)

	// Update persists a mutated hypothesis if the stored version still
	// matches expectedVersion, bumping the version by one
	Update(ctx context.Context, h *belief.Hypothesis, expectedVersion int) error
}
