package app

import (
	"context"
	"strings"

	"sproutlens/domain/belief"
	"sproutlens/domain/core"
	"sproutlens/internal"
	"sproutlens/ports"
)

// Registry owns the set of hypotheses for each child and exposes the
// query/aggregate views the rendering layer consumes
type Registry struct {
	hypotheses ports.HypothesisRepository
	locks      *focusLocks
	log        *internal.Logger
}

// NewRegistry creates the hypothesis registry
func NewRegistry(hypotheses ports.HypothesisRepository, log *internal.Logger) *Registry {
	if log == nil {
		log = internal.DefaultLogger
	}
	return &Registry{hypotheses: hypotheses, locks: newFocusLocks(), log: log}
}

// CreateHypothesisRequest defines inputs for proposing a hypothesis
type CreateHypothesisRequest struct {
	ChildID          core.ChildID
	Focus            string
	Theory           string
	Domain           belief.Domain
	VideoAppropriate bool
	VideoValue       belief.VideoValue
}

// CreateHypothesis registers a pattern-detector proposal at the creation
// baseline. Focus is the stable key: a duplicate for the same child conflicts.
func (r *Registry) CreateHypothesis(ctx context.Context, req CreateHypothesisRequest) (*belief.Hypothesis, error) {
	now := core.Now()
	h := &belief.Hypothesis{
		ID:               core.HypothesisID(core.NewID()),
		ChildID:          req.ChildID,
		Focus:            strings.TrimSpace(req.Focus),
		Theory:           strings.TrimSpace(req.Theory),
		Domain:           req.Domain,
		Certainty:        belief.CreationBaseline,
		VideoAppropriate: req.VideoAppropriate,
		VideoValue:       req.VideoValue,
		Version:          1,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := h.Validate(); err != nil {
		return nil, err
	}
	if err := r.hypotheses.Create(ctx, h); err != nil {
		return nil, err
	}
	r.log.Info("hypothesis created: child=%s focus=%s domain=%s", req.ChildID, h.Focus, h.Domain)
	return h, nil
}

// ListFilter narrows a hypothesis listing. Status is matched against the
// derived status, never a stored one.
type ListFilter struct {
	Status belief.Status
	Domain belief.Domain
}

// ListHypotheses returns a child's hypotheses, optionally filtered
func (r *Registry) ListHypotheses(ctx context.Context, childID core.ChildID, filter ListFilter) ([]*belief.Hypothesis, error) {
	all, err := r.hypotheses.ListByChild(ctx, childID)
	if err != nil {
		return nil, err
	}
	if filter.Status == "" && filter.Domain == "" {
		return all, nil
	}
	matched := make([]*belief.Hypothesis, 0, len(all))
	for _, h := range all {
		if filter.Status != "" && h.Status() != filter.Status {
			continue
		}
		if filter.Domain != "" && h.Domain != filter.Domain {
			continue
		}
		matched = append(matched, h)
	}
	return matched, nil
}

// GetHypothesis retrieves a hypothesis by child and focus
func (r *Registry) GetHypothesis(ctx context.Context, childID core.ChildID, focus string) (*belief.Hypothesis, error) {
	return r.hypotheses.Get(ctx, childID, focus)
}

// MarkTerminal closes a hypothesis out as refuted or transformed. Terminal
// states are sticky: evidence and adjustments no longer move the hypothesis.
// Records stay in place for audit; nothing is deleted.
func (r *Registry) MarkTerminal(ctx context.Context, childID core.ChildID, focus string, terminal belief.Terminal) (*belief.Hypothesis, error) {
	if terminal != belief.TerminalRefuted && terminal != belief.TerminalTransformed {
		return nil, core.NewValidationError("terminal", "must be refuted or transformed")
	}

	lock := r.locks.get(childID, focus)
	lock.Lock()
	defer lock.Unlock()

	h, err := r.hypotheses.Get(ctx, childID, focus)
	if err != nil {
		return nil, err
	}
	if h.IsTerminal() {
		return nil, core.ErrTerminalFrozen
	}

	expected := h.Version
	h.Terminal = terminal
	h.Version++
	h.UpdatedAt = core.Now()
	if err := r.hypotheses.Update(ctx, h, expected); err != nil {
		return nil, err
	}
	r.log.Info("hypothesis closed: child=%s focus=%s terminal=%s", childID, focus, terminal)
	return h, nil
}

// Summary rolls a child's hypotheses up by derived status and by domain
type Summary struct {
	Total    int                   `json:"total"`
	ByStatus map[belief.Status]int `json:"by_status"`
	ByDomain map[belief.Domain]int `json:"by_domain"`
}

// Summarize computes the per-child rollup
func (r *Registry) Summarize(ctx context.Context, childID core.ChildID) (*Summary, error) {
	all, err := r.hypotheses.ListByChild(ctx, childID)
	if err != nil {
		return nil, err
	}
	s := &Summary{
		Total:    len(all),
		ByStatus: make(map[belief.Status]int),
		ByDomain: make(map[belief.Domain]int),
	}
	for _, h := range all {
		s.ByStatus[h.Status()]++
		s.ByDomain[h.Domain]++
	}
	return s, nil
}
