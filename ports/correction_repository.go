package ports

import (
	"context"

	"sproutlens/domain/correction"
	"sproutlens/domain/core"
)

// CorrectionRepository is the append-only store of expert corrections and
// missed-signal records. Neither kind is ever mutated or deleted.
type CorrectionRepository interface {
	// Append stores an immutable correction record
	Append(ctx context.Context, c *correction.Correction) error

	// List returns corrections matching the filter, recorded order
	List(ctx context.Context, filter correction.Filter) ([]*correction.Correction, error)

	// AppendMissedSignal stores an immutable missed-signal record
	AppendMissedSignal(ctx context.Context, m *correction.MissedSignal) error

	// ListMissedSignals returns a child's missed signals, recorded order
	ListMissedSignals(ctx context.Context, childID core.ChildID) ([]*correction.MissedSignal, error)
}
