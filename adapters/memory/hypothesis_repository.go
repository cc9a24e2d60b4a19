package memory

import (
	"context"
	"sync"

	"sproutlens/domain/belief"
	"sproutlens/domain/core"
	"sproutlens/ports"
)

// HypothesisRepository is an in-memory HypothesisRepository for tests and
// the dev binary
type HypothesisRepository struct {
	mu    sync.RWMutex
	byKey map[string]*belief.Hypothesis
	order []string
}

// NewHypothesisRepository creates an empty in-memory hypothesis store
func NewHypothesisRepository() *HypothesisRepository {
	return &HypothesisRepository{byKey: make(map[string]*belief.Hypothesis)}
}

var _ ports.HypothesisRepository = (*HypothesisRepository)(nil)

func key(childID core.ChildID, focus string) string {
	return childID.String() + "/" + focus
}

func copyHypothesis(h *belief.Hypothesis) *belief.Hypothesis {
	dup := *h
	return &dup
}

// Create persists a new hypothesis
func (r *HypothesisRepository) Create(ctx context.Context, h *belief.Hypothesis) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := key(h.ChildID, h.Focus)
	if _, exists := r.byKey[k]; exists {
		return core.ErrDuplicateFocus
	}
	r.byKey[k] = copyHypothesis(h)
	r.order = append(r.order, k)
	return nil
}

// Get retrieves a hypothesis by child and focus
func (r *HypothesisRepository) Get(ctx context.Context, childID core.ChildID, focus string) (*belief.Hypothesis, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.byKey[key(childID, focus)]
	if !ok {
		return nil, core.NewNotFoundError("hypothesis", focus)
	}
	return copyHypothesis(h), nil
}

// ListByChild returns a child's hypotheses in creation order
func (r *HypothesisRepository) ListByChild(ctx context.Context, childID core.ChildID) ([]*belief.Hypothesis, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*belief.Hypothesis
	for _, k := range r.order {
		h := r.byKey[k]
		if h.ChildID == childID {
			out = append(out, copyHypothesis(h))
		}
	}
	return out, nil
}

// Update persists a mutated hypothesis under an optimistic version check
func (r *HypothesisRepository) Update(ctx context.Context, h *belief.Hypothesis, expectedVersion int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.updateLocked(h, expectedVersion)
}

func (r *HypothesisRepository) updateLocked(h *belief.Hypothesis, expectedVersion int) error {
	k := key(h.ChildID, h.Focus)
	stored, ok := r.byKey[k]
	if !ok {
		return core.NewNotFoundError("hypothesis", h.Focus)
	}
	if stored.Version != expectedVersion {
		return core.ErrVersionMismatch
	}
	r.byKey[k] = copyHypothesis(h)
	return nil
}
