package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"sproutlens/domain/core"
	"sproutlens/domain/video"
	"sproutlens/ports"
)

// VideoRepositoryImpl implements VideoRepository for PostgreSQL.
// Observations and validation are stored as JSONB.
type VideoRepositoryImpl struct {
	db *sqlx.DB
}

// NewVideoRepository creates a new PostgreSQL video artifact repository
func NewVideoRepository(db *sqlx.DB) ports.VideoRepository {
	return &VideoRepositoryImpl{db: db}
}

// Create persists a new artifact
func (r *VideoRepositoryImpl) Create(ctx context.Context, a *video.Artifact) error {
	observationsJSON, err := json.Marshal(a.Observations)
	if err != nil {
		return fmt.Errorf("failed to marshal observations: %w", err)
	}
	validationJSON, err := marshalNullable(a.Validation)
	if err != nil {
		return fmt.Errorf("failed to marshal validation: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO video_artifacts (
			id, child_id, state, target_focus, what_to_film, duration_seconds,
			storage_path, observations, validation, certainty_after, version,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		a.ID.String(), a.ChildID.String(), string(a.State), a.TargetFocus,
		a.Guidance.WhatToFilm, a.Guidance.DurationSeconds, a.StoragePath,
		observationsJSON, validationJSON, a.CertaintyAfter, a.Version,
		a.CreatedAt.Time(), a.UpdatedAt.Time())
	if err != nil {
		return fmt.Errorf("failed to insert video artifact: %w", err)
	}
	return nil
}

// Get retrieves an artifact by ID
func (r *VideoRepositoryImpl) Get(ctx context.Context, id core.ArtifactID) (*video.Artifact, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, child_id, state, target_focus, what_to_film, duration_seconds,
			   storage_path, observations, validation, certainty_after, version,
			   created_at, updated_at
		FROM video_artifacts
		WHERE id = $1`, id.String())

	a, err := scanArtifact(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.NewNotFoundError("video artifact", id.String())
		}
		return nil, fmt.Errorf("failed to get video artifact: %w", err)
	}
	return a, nil
}

// ListByChild returns a child's artifacts in creation order
func (r *VideoRepositoryImpl) ListByChild(ctx context.Context, childID core.ChildID) ([]*video.Artifact, error) {
	return r.query(ctx, `
		SELECT id, child_id, state, target_focus, what_to_film, duration_seconds,
			   storage_path, observations, validation, certainty_after, version,
			   created_at, updated_at
		FROM video_artifacts
		WHERE child_id = $1
		ORDER BY created_at ASC, id ASC`, childID.String())
}

// ListUploaded returns a child's artifacts awaiting analysis
func (r *VideoRepositoryImpl) ListUploaded(ctx context.Context, childID core.ChildID) ([]*video.Artifact, error) {
	return r.query(ctx, `
		SELECT id, child_id, state, target_focus, what_to_film, duration_seconds,
			   storage_path, observations, validation, certainty_after, version,
			   created_at, updated_at
		FROM video_artifacts
		WHERE child_id = $1 AND state = $2
		ORDER BY created_at ASC, id ASC`, childID.String(), string(video.StateUploaded))
}

// Update persists a mutated artifact under an optimistic version check.
// target_focus is deliberately absent from the SET list: once set it is
// immutable and re-targeting requires a new artifact.
func (r *VideoRepositoryImpl) Update(ctx context.Context, a *video.Artifact, expectedVersion int) error {
	observationsJSON, err := json.Marshal(a.Observations)
	if err != nil {
		return fmt.Errorf("failed to marshal observations: %w", err)
	}
	validationJSON, err := marshalNullable(a.Validation)
	if err != nil {
		return fmt.Errorf("failed to marshal validation: %w", err)
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE video_artifacts SET
			state = $1, storage_path = $2, observations = $3, validation = $4,
			certainty_after = $5, version = $6, updated_at = $7
		WHERE id = $8 AND version = $9`,
		string(a.State), a.StoragePath, observationsJSON, validationJSON,
		a.CertaintyAfter, a.Version, a.UpdatedAt.Time(),
		a.ID.String(), expectedVersion)
	if err != nil {
		return fmt.Errorf("failed to update video artifact: %w", err)
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

func (r *VideoRepositoryImpl) query(ctx context.Context, q string, args ...interface{}) ([]*video.Artifact, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query video artifacts: %w", err)
	}
	defer rows.Close()

	var out []*video.Artifact
	for rows.Next() {
		a, err := scanArtifact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan video artifact: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func marshalNullable(v *video.Validation) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

func scanArtifact(row rowScanner) (*video.Artifact, error) {
	var a video.Artifact
	var id, childID, state string
	var observationsJSON, validationJSON []byte
	var createdAt, updatedAt time.Time

	err := row.Scan(&id, &childID, &state, &a.TargetFocus, &a.Guidance.WhatToFilm,
		&a.Guidance.DurationSeconds, &a.StoragePath, &observationsJSON,
		&validationJSON, &a.CertaintyAfter, &a.Version, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	a.ID = core.ArtifactID(id)
	a.ChildID = core.ChildID(childID)
	a.State = video.State(state)
	a.CreatedAt = core.NewTimestamp(createdAt)
	a.UpdatedAt = core.NewTimestamp(updatedAt)

	if len(observationsJSON) > 0 {
		if err := json.Unmarshal(observationsJSON, &a.Observations); err != nil {
			return nil, fmt.Errorf("failed to unmarshal observations: %w", err)
		}
	}
	if len(validationJSON) > 0 {
		a.Validation = &video.Validation{}
		if err := json.Unmarshal(validationJSON, a.Validation); err != nil {
			return nil, fmt.Errorf("failed to unmarshal validation: %w", err)
		}
	}
	return &a, nil
}
