package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"sproutlens/domain/belief"
	"sproutlens/domain/core"
	"sproutlens/ports"
)

// EvidenceRepositoryImpl implements the append-only evidence ledger for
// PostgreSQL. The evidence insert and the hypothesis update share one
// transaction; either both land or neither does.
type EvidenceRepositoryImpl struct {
	db *sqlx.DB
}

// NewEvidenceRepository creates a new PostgreSQL evidence repository
func NewEvidenceRepository(db *sqlx.DB) ports.EvidenceRepository {
	return &EvidenceRepositoryImpl{db: db}
}

// Append stores the evidence and the recomputed hypothesis atomically
func (r *EvidenceRepositoryImpl) Append(ctx context.Context, ev *belief.Evidence, h *belief.Hypothesis, expectedVersion int) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := updateHypothesisTx(ctx, tx, h, expectedVersion); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO evidence (
			id, hypothesis_id, content, effect, source, certainty_after, seq, recorded_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		ev.ID.String(), ev.HypothesisID.String(), ev.Content, string(ev.Effect),
		string(ev.Source), ev.CertaintyAfter, ev.Seq, ev.RecordedAt.Time())
	if err != nil {
		return fmt.Errorf("failed to insert evidence: %w", err)
	}

	return tx.Commit()
}

// ListByHypothesis returns evidence ordered by recorded time ascending with
// insertion order breaking ties
func (r *EvidenceRepositoryImpl) ListByHypothesis(ctx context.Context, id core.HypothesisID) ([]*belief.Evidence, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, hypothesis_id, content, effect, source, certainty_after, seq, recorded_at
		FROM evidence
		WHERE hypothesis_id = $1
		ORDER BY recorded_at ASC, seq ASC`, id.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query evidence: %w", err)
	}
	defer rows.Close()

	var out []*belief.Evidence
	for rows.Next() {
		var ev belief.Evidence
		var evID, hypID, effect, source string
		var recordedAt time.Time
		if err := rows.Scan(&evID, &hypID, &ev.Content, &effect, &source,
			&ev.CertaintyAfter, &ev.Seq, &recordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan evidence: %w", err)
		}
		ev.ID = core.EvidenceID(evID)
		ev.HypothesisID = core.HypothesisID(hypID)
		ev.Effect = belief.Effect(effect)
		ev.Source = belief.Source(source)
		ev.RecordedAt = core.NewTimestamp(recordedAt)
		out = append(out, &ev)
	}
	return out, rows.Err()
}

// AdjustmentRepositoryImpl implements the manual-override audit lane for
// PostgreSQL, transactional with the hypothesis write
type AdjustmentRepositoryImpl struct {
	db *sqlx.DB
}

// NewAdjustmentRepository creates a new PostgreSQL adjustment repository
func NewAdjustmentRepository(db *sqlx.DB) ports.AdjustmentRepository {
	return &AdjustmentRepositoryImpl{db: db}
}

// Append stores the adjustment and the hypothesis atomically
func (r *AdjustmentRepositoryImpl) Append(ctx context.Context, adj *belief.CertaintyAdjustment, h *belief.Hypothesis, expectedVersion int) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := updateHypothesisTx(ctx, tx, h, expectedVersion); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO certainty_adjustments (
			id, hypothesis_id, new_value, reason, actor, seq, recorded_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		adj.ID.String(), adj.HypothesisID.String(), adj.NewValue, adj.Reason,
		adj.Actor, adj.Seq, adj.RecordedAt.Time())
	if err != nil {
		return fmt.Errorf("failed to insert certainty adjustment: %w", err)
	}

	return tx.Commit()
}

// ListByHypothesis returns adjustments ordered by recorded time ascending
func (r *AdjustmentRepositoryImpl) ListByHypothesis(ctx context.Context, id core.HypothesisID) ([]*belief.CertaintyAdjustment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, hypothesis_id, new_value, reason, actor, seq, recorded_at
		FROM certainty_adjustments
		WHERE hypothesis_id = $1
		ORDER BY recorded_at ASC, seq ASC`, id.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query adjustments: %w", err)
	}
	defer rows.Close()

	var out []*belief.CertaintyAdjustment
	for rows.Next() {
		var adj belief.CertaintyAdjustment
		var adjID, hypID string
		var recordedAt time.Time
		if err := rows.Scan(&adjID, &hypID, &adj.NewValue, &adj.Reason, &adj.Actor,
			&adj.Seq, &recordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan adjustment: %w", err)
		}
		adj.ID = core.ID(adjID)
		adj.HypothesisID = core.HypothesisID(hypID)
		adj.RecordedAt = core.NewTimestamp(recordedAt)
		out = append(out, &adj)
	}
	return out, rows.Err()
}
