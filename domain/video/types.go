package video

import (
	"strings"

	"sproutlens/domain/belief"
	"sproutlens/domain/core"
)

// State is the verification lifecycle state of a video artifact.
// Legal transitions: pending -> uploaded -> {analyzed | validation_failed},
// with validation_failed -> uploaded allowed only through a fresh upload.
type State string

const (
	StatePending          State = "pending"
	StateUploaded         State = "uploaded"
	StateAnalyzed         State = "analyzed"
	StateValidationFailed State = "validation_failed"
)

// CanUpload reports whether a fresh upload is legal from s
func (s State) CanUpload() bool {
	return s == StatePending || s == StateValidationFailed
}

// CanAnalyze reports whether analysis is legal from s
func (s State) CanAnalyze() bool {
	return s == StateUploaded
}

// Observation is one analyzed moment in a clip
type Observation struct {
	TimestampStart float64       `json:"timestamp_start"`
	TimestampEnd   float64       `json:"timestamp_end"`
	Content        string        `json:"content"`
	Domain         belief.Domain `json:"domain"`
	Effect         belief.Effect `json:"effect"`
}

// Validation is the analyzer's judgment of whether a clip matched its
// filming request
type Validation struct {
	IsUsable       bool     `json:"is_usable"`
	WhatVideoShows string   `json:"what_video_shows"`
	Issues         []string `json:"validation_issues,omitempty"`
}

// FilmingGuidance is the externally generated instruction set for a capture,
// passed through unmodified
type FilmingGuidance struct {
	WhatToFilm      string `json:"what_to_film"`
	DurationSeconds int    `json:"duration_seconds,omitempty"`
}

// Artifact tracks one video clip from filming request to analysis outcome.
// TargetFocus, once set, is immutable; re-targeting requires a new artifact.
type Artifact struct {
	ID             core.ArtifactID `json:"id"`
	ChildID        core.ChildID    `json:"child_id"`
	State          State           `json:"state"`
	TargetFocus    string          `json:"target_hypothesis_focus,omitempty"`
	Guidance       FilmingGuidance `json:"guidance"`
	StoragePath    string          `json:"storage_path,omitempty"`
	Observations   []Observation   `json:"observations,omitempty"`
	Validation     *Validation     `json:"video_validation,omitempty"`
	CertaintyAfter *float64        `json:"certainty_after,omitempty"`
	Version        int             `json:"version"`
	CreatedAt      core.Timestamp  `json:"created_at"`
	UpdatedAt      core.Timestamp  `json:"updated_at"`
}

// IsLinked reports whether the artifact targets a hypothesis (baseline
// captures are unlinked)
func (a *Artifact) IsLinked() bool {
	return strings.TrimSpace(a.TargetFocus) != ""
}

// Validate checks artifact fields before creation
func (a *Artifact) Validate() error {
	if a.ChildID.String() == "" {
		return core.NewValidationError("child_id", "cannot be empty")
	}
	if strings.TrimSpace(a.Guidance.WhatToFilm) == "" {
		return core.NewValidationError("what_to_film", "cannot be empty")
	}
	return nil
}
