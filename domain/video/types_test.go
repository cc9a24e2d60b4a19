package video

import (
	"testing"

	"sproutlens/domain/core"
)

// TestStateTransitions tests the verification lifecycle gates
func TestStateTransitions(t *testing.T) {
	tests := []struct {
		state      State
		canUpload  bool
		canAnalyze bool
	}{
		{StatePending, true, false},
		{StateUploaded, false, true},
		{StateAnalyzed, false, false},
		{StateValidationFailed, true, false},
	}

	for _, test := range tests {
		if got := test.state.CanUpload(); got != test.canUpload {
			t.Errorf("%s.CanUpload(): expected %v, got %v", test.state, test.canUpload, got)
		}
		if got := test.state.CanAnalyze(); got != test.canAnalyze {
			t.Errorf("%s.CanAnalyze(): expected %v, got %v", test.state, test.canAnalyze, got)
		}
	}
}

// TestArtifactIsLinked tests baseline vs linked captures
func TestArtifactIsLinked(t *testing.T) {
	linked := &Artifact{TargetFocus: "block-stacking"}
	if !linked.IsLinked() {
		t.Error("Expected artifact with focus to be linked")
	}

	baseline := &Artifact{TargetFocus: "   "}
	if baseline.IsLinked() {
		t.Error("Expected blank focus to be unlinked")
	}
}

// TestArtifactValidate tests creation preconditions
func TestArtifactValidate(t *testing.T) {
	a := &Artifact{
		ID:       core.ArtifactID(core.NewID()),
		ChildID:  core.ChildID(core.NewID()),
		Guidance: FilmingGuidance{WhatToFilm: "Film a mealtime"},
	}
	if err := a.Validate(); err != nil {
		t.Fatalf("Expected valid artifact to pass, got %v", err)
	}

	a.Guidance.WhatToFilm = ""
	if err := a.Validate(); !core.IsValidationError(err) {
		t.Errorf("Expected validation error for empty guidance, got %v", err)
	}

	a.Guidance.WhatToFilm = "Film a mealtime"
	a.ChildID = ""
	if err := a.Validate(); !core.IsValidationError(err) {
		t.Errorf("Expected validation error for missing child, got %v", err)
	}
}
