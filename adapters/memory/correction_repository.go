package memory

import (
	"context"
	"sync"

	"sproutlens/domain/correction"
	"sproutlens/domain/core"
	"sproutlens/ports"
)

// CorrectionRepository is an in-memory append-only correction store
type CorrectionRepository struct {
	mu            sync.RWMutex
	corrections   []*correction.Correction
	missedSignals []*correction.MissedSignal
}

// NewCorrectionRepository creates an empty in-memory correction store
func NewCorrectionRepository() *CorrectionRepository {
	return &CorrectionRepository{}
}

var _ ports.CorrectionRepository = (*CorrectionRepository)(nil)

// Append stores an immutable correction record
func (r *CorrectionRepository) Append(ctx context.Context, c *correction.Correction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	dup := *c
	r.corrections = append(r.corrections, &dup)
	return nil
}

// List returns corrections matching the filter in recorded order
func (r *CorrectionRepository) List(ctx context.Context, filter correction.Filter) ([]*correction.Correction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*correction.Correction
	for _, c := range r.corrections {
		if filter.Matches(c) {
			dup := *c
			out = append(out, &dup)
		}
	}
	return out, nil
}

// AppendMissedSignal stores an immutable missed-signal record
func (r *CorrectionRepository) AppendMissedSignal(ctx context.Context, m *correction.MissedSignal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	dup := *m
	r.missedSignals = append(r.missedSignals, &dup)
	return nil
}

// ListMissedSignals returns a child's missed signals in recorded order
func (r *CorrectionRepository) ListMissedSignals(ctx context.Context, childID core.ChildID) ([]*correction.MissedSignal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*correction.MissedSignal
	for _, m := range r.missedSignals {
		if m.ChildID == childID {
			dup := *m
			out = append(out, &dup)
		}
	}
	return out, nil
}
