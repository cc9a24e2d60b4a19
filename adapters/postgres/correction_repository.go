package postgres

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"sproutlens/domain/belief"
	"sproutlens/domain/correction"
	"sproutlens/domain/core"
	"sproutlens/ports"
)

// CorrectionRepositoryImpl implements the append-only correction store for
// PostgreSQL. No update or delete statements exist for these tables.
type CorrectionRepositoryImpl struct {
	db *sqlx.DB
}

// NewCorrectionRepository creates a new PostgreSQL correction repository
func NewCorrectionRepository(db *sqlx.DB) ports.CorrectionRepository {
	return &CorrectionRepositoryImpl{db: db}
}

// Append stores an immutable correction record
func (r *CorrectionRepositoryImpl) Append(ctx context.Context, c *correction.Correction) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO corrections (
			id, child_id, target_type, target_id, correction_type, severity,
			expert_reasoning, suggested_correction, used_for_training, recorded_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		c.ID.String(), c.ChildID.String(), string(c.TargetType), c.TargetID,
		string(c.CorrectionType), string(c.Severity), c.ExpertReasoning,
		c.SuggestedCorrection, c.UsedForTraining, c.RecordedAt.Time())
	if err != nil {
		return fmt.Errorf("failed to insert correction: %w", err)
	}
	return nil
}

// List returns corrections matching the filter in recorded order
func (r *CorrectionRepositoryImpl) List(ctx context.Context, filter correction.Filter) ([]*correction.Correction, error) {
	query := `
		SELECT id, child_id, target_type, target_id, correction_type, severity,
			   expert_reasoning, suggested_correction, used_for_training, recorded_at
		FROM corrections`

	var conditions []string
	var args []interface{}
	if filter.ChildID != "" {
		args = append(args, filter.ChildID.String())
		conditions = append(conditions, "child_id = $"+strconv.Itoa(len(args)))
	}
	if filter.TargetType != "" {
		args = append(args, string(filter.TargetType))
		conditions = append(conditions, "target_type = $"+strconv.Itoa(len(args)))
	}
	if filter.Severity != "" {
		args = append(args, string(filter.Severity))
		conditions = append(conditions, "severity = $"+strconv.Itoa(len(args)))
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY recorded_at ASC, id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query corrections: %w", err)
	}
	defer rows.Close()

	var out []*correction.Correction
	for rows.Next() {
		var c correction.Correction
		var id, childID, targetType, correctionType, severity string
		var recordedAt time.Time
		if err := rows.Scan(&id, &childID, &targetType, &c.TargetID, &correctionType,
			&severity, &c.ExpertReasoning, &c.SuggestedCorrection, &c.UsedForTraining,
			&recordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan correction: %w", err)
		}
		c.ID = core.CorrectionID(id)
		c.ChildID = core.ChildID(childID)
		c.TargetType = correction.TargetType(targetType)
		c.CorrectionType = correction.Type(correctionType)
		c.Severity = correction.Severity(severity)
		c.RecordedAt = core.NewTimestamp(recordedAt)
		out = append(out, &c)
	}
	return out, rows.Err()
}

// AppendMissedSignal stores an immutable missed-signal record
func (r *CorrectionRepositoryImpl) AppendMissedSignal(ctx context.Context, m *correction.MissedSignal) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO missed_signals (
			id, child_id, signal_type, domain, why_important, recorded_at
		) VALUES ($1, $2, $3, $4, $5, $6)`,
		m.ID.String(), m.ChildID.String(), m.SignalType, string(m.Domain),
		m.WhyImportant, m.RecordedAt.Time())
	if err != nil {
		return fmt.Errorf("failed to insert missed signal: %w", err)
	}
	return nil
}

// ListMissedSignals returns a child's missed signals in recorded order
func (r *CorrectionRepositoryImpl) ListMissedSignals(ctx context.Context, childID core.ChildID) ([]*correction.MissedSignal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, child_id, signal_type, domain, why_important, recorded_at
		FROM missed_signals
		WHERE child_id = $1
		ORDER BY recorded_at ASC, id ASC`, childID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query missed signals: %w", err)
	}
	defer rows.Close()

	var out []*correction.MissedSignal
	for rows.Next() {
		var m correction.MissedSignal
		var id, child, domain string
		var recordedAt time.Time
		if err := rows.Scan(&id, &child, &m.SignalType, &domain, &m.WhyImportant,
			&recordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan missed signal: %w", err)
		}
		m.ID = core.ID(id)
		m.ChildID = core.ChildID(child)
		m.Domain = belief.Domain(domain)
		m.RecordedAt = core.NewTimestamp(recordedAt)
		out = append(out, &m)
	}
	return out, rows.Err()
}
