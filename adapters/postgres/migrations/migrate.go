package migrations

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// schema holds the DDL statements in dependency order. Evidence, adjustments,
// corrections, and missed signals are append-only tables: nothing in the
// codebase updates or deletes their rows.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS hypotheses (
		id TEXT PRIMARY KEY,
		child_id TEXT NOT NULL,
		focus TEXT NOT NULL,
		theory TEXT NOT NULL,
		domain TEXT NOT NULL,
		certainty DOUBLE PRECISION NOT NULL CHECK (certainty >= 0 AND certainty <= 1),
		terminal TEXT NOT NULL DEFAULT '',
		video_appropriate BOOLEAN NOT NULL DEFAULT FALSE,
		video_value TEXT NOT NULL DEFAULT '',
		version INTEGER NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		UNIQUE (child_id, focus)
	)`,
	`CREATE TABLE IF NOT EXISTS evidence (
		id TEXT PRIMARY KEY,
		hypothesis_id TEXT NOT NULL REFERENCES hypotheses(id),
		content TEXT NOT NULL,
		effect TEXT NOT NULL,
		source TEXT NOT NULL,
		certainty_after DOUBLE PRECISION NOT NULL,
		seq INTEGER NOT NULL,
		recorded_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_evidence_hypothesis
		ON evidence (hypothesis_id, recorded_at, seq)`,
	`CREATE TABLE IF NOT EXISTS certainty_adjustments (
		id TEXT PRIMARY KEY,
		hypothesis_id TEXT NOT NULL REFERENCES hypotheses(id),
		new_value DOUBLE PRECISION NOT NULL CHECK (new_value >= 0 AND new_value <= 1),
		reason TEXT NOT NULL,
		actor TEXT NOT NULL DEFAULT '',
		seq INTEGER NOT NULL,
		recorded_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_adjustments_hypothesis
		ON certainty_adjustments (hypothesis_id, recorded_at, seq)`,
	`CREATE TABLE IF NOT EXISTS video_artifacts (
		id TEXT PRIMARY KEY,
		child_id TEXT NOT NULL,
		state TEXT NOT NULL,
		target_focus TEXT NOT NULL DEFAULT '',
		what_to_film TEXT NOT NULL,
		duration_seconds INTEGER NOT NULL DEFAULT 0,
		storage_path TEXT NOT NULL DEFAULT '',
		observations JSONB,
		validation JSONB,
		certainty_after DOUBLE PRECISION,
		version INTEGER NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_video_artifacts_child
		ON video_artifacts (child_id, state)`,
	`CREATE TABLE IF NOT EXISTS corrections (
		id TEXT PRIMARY KEY,
		child_id TEXT NOT NULL,
		target_type TEXT NOT NULL,
		target_id TEXT NOT NULL,
		correction_type TEXT NOT NULL,
		severity TEXT NOT NULL,
		expert_reasoning TEXT NOT NULL,
		suggested_correction TEXT NOT NULL DEFAULT '',
		used_for_training BOOLEAN NOT NULL DEFAULT FALSE,
		recorded_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_corrections_child
		ON corrections (child_id, target_type, severity)`,
	`CREATE TABLE IF NOT EXISTS missed_signals (
		id TEXT PRIMARY KEY,
		child_id TEXT NOT NULL,
		signal_type TEXT NOT NULL,
		domain TEXT NOT NULL,
		why_important TEXT NOT NULL,
		recorded_at TIMESTAMPTZ NOT NULL
	)`,
}

// Up applies the schema. Statements are idempotent so reruns are safe.
func Up(ctx context.Context, db *sqlx.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement %d: %w", i, err)
		}
	}
	return nil
}
