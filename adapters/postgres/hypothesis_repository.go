package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"sproutlens/domain/belief"
	"sproutlens/domain/core"
	"sproutlens/ports"
)

// HypothesisRepositoryImpl implements HypothesisRepository for PostgreSQL.
// Status is never stored - only certainty and the terminal flag - so the
// derived status cannot desync from its inputs.
type HypothesisRepositoryImpl struct {
	db *sqlx.DB
}

// NewHypothesisRepository creates a new PostgreSQL hypothesis repository
func NewHypothesisRepository(db *sqlx.DB) ports.HypothesisRepository {
	return &HypothesisRepositoryImpl{db: db}
}

// Create persists a new hypothesis
func (r *HypothesisRepositoryImpl) Create(ctx context.Context, h *belief.Hypothesis) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO hypotheses (
			id, child_id, focus, theory, domain, certainty, terminal,
			video_appropriate, video_value, version, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		h.ID.String(), h.ChildID.String(), h.Focus, h.Theory, string(h.Domain),
		h.Certainty, string(h.Terminal), h.VideoAppropriate, string(h.VideoValue),
		h.Version, h.CreatedAt.Time(), h.UpdatedAt.Time())

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return core.ErrDuplicateFocus
		}
		return fmt.Errorf("failed to insert hypothesis: %w", err)
	}
	return nil
}

// Get retrieves a hypothesis by child and focus
func (r *HypothesisRepositoryImpl) Get(ctx context.Context, childID core.ChildID, focus string) (*belief.Hypothesis, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, child_id, focus, theory, domain, certainty, terminal,
			   video_appropriate, video_value, version, created_at, updated_at
		FROM hypotheses
		WHERE child_id = $1 AND focus = $2`, childID.String(), focus)

	h, err := scanHypothesis(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.NewNotFoundError("hypothesis", focus)
		}
		return nil, fmt.Errorf("failed to get hypothesis: %w", err)
	}
	return h, nil
}

// ListByChild returns a child's hypotheses in creation order
func (r *HypothesisRepositoryImpl) ListByChild(ctx context.Context, childID core.ChildID) ([]*belief.Hypothesis, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, child_id, focus, theory, domain, certainty, terminal,
			   video_appropriate, video_value, version, created_at, updated_at
		FROM hypotheses
		WHERE child_id = $1
		ORDER BY created_at ASC, id ASC`, childID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query hypotheses: %w", err)
	}
	defer rows.Close()

	var out []*belief.Hypothesis
	for rows.Next() {
		h, err := scanHypothesis(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan hypothesis: %w", err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// Update persists a mutated hypothesis under an optimistic version check
func (r *HypothesisRepositoryImpl) Update(ctx context.Context, h *belief.Hypothesis, expectedVersion int) error {
	return updateHypothesisTx(ctx, r.db, h, expectedVersion)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// updateHypothesisTx runs the version-checked hypothesis update against db or
// an open transaction, so ledger appends can share it
func updateHypothesisTx(ctx context.Context, e execer, h *belief.Hypothesis, expectedVersion int) error {
	result, err := e.ExecContext(ctx, `
		UPDATE hypotheses SET
			theory = $1, certainty = $2, terminal = $3, version = $4, updated_at = $5
		WHERE id = $6 AND version = $7`,
		h.Theory, h.Certainty, string(h.Terminal), h.Version, h.UpdatedAt.Time(),
		h.ID.String(), expectedVersion)
	if err != nil {
		return fmt.Errorf("failed to update hypothesis: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return core.ErrVersionMismatch
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanHypothesis(row rowScanner) (*belief.Hypothesis, error) {
	var h belief.Hypothesis
	var id, childID, domain, terminal, videoValue string
	var createdAt, updatedAt time.Time

	err := row.Scan(&id, &childID, &h.Focus, &h.Theory, &domain, &h.Certainty,
		&terminal, &h.VideoAppropriate, &videoValue, &h.Version, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	h.ID = core.HypothesisID(id)
	h.ChildID = core.ChildID(childID)
	h.Domain = belief.Domain(domain)
	h.Terminal = belief.Terminal(terminal)
	h.VideoValue = belief.VideoValue(videoValue)
	h.CreatedAt = core.NewTimestamp(createdAt)
	h.UpdatedAt = core.NewTimestamp(updatedAt)
	return &h, nil
}
