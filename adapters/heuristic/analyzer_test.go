package heuristic

import (
	"context"
	"testing"

	"sproutlens/domain/belief"
	"sproutlens/domain/video"
	"sproutlens/ports"
)

// TestAnalyzeProducesMatchingObservation tests that the verdict tracks the
// filming request
func TestAnalyzeProducesMatchingObservation(t *testing.T) {
	a := NewAnalyzer()
	res, err := a.Analyze(context.Background(), ports.AnalysisRequest{
		StoragePath: "clips/x",
		Guidance:    video.FilmingGuidance{WhatToFilm: "Film the child stacking blocks", DurationSeconds: 45},
		TargetFocus: "block-stacking",
	})
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if !res.IsUsable {
		t.Fatalf("Expected usable verdict, got issues %v", res.ValidationIssues)
	}
	if len(res.Observations) != 1 {
		t.Fatalf("Expected 1 observation, got %d", len(res.Observations))
	}
	obs := res.Observations[0]
	if obs.Domain != belief.DomainCognitive {
		t.Errorf("Expected cognitive domain for stacking, got %s", obs.Domain)
	}
	if obs.Effect != belief.EffectSupports {
		t.Errorf("Expected supporting effect, got %s", obs.Effect)
	}
	if obs.TimestampEnd != 45 {
		t.Errorf("Expected observation to span the requested duration, got %v", obs.TimestampEnd)
	}
}

// TestAnalyzeEmptyGuidanceIsUnusable tests the retryable failure path
func TestAnalyzeEmptyGuidanceIsUnusable(t *testing.T) {
	a := NewAnalyzer()
	res, err := a.Analyze(context.Background(), ports.AnalysisRequest{StoragePath: "clips/x"})
	if err != nil {
		t.Fatalf("Expected a verdict, not an error: %v", err)
	}
	if res.IsUsable {
		t.Error("Expected unusable verdict for empty guidance")
	}
	if len(res.ValidationIssues) == 0 {
		t.Error("Expected an issue explaining the failure")
	}
}

// TestClassifyDomain tests the keyword mapping and its fallback
func TestClassifyDomain(t *testing.T) {
	tests := []struct {
		what     string
		expected belief.Domain
	}{
		{"Film the child climbing the ladder", belief.DomainMotor},
		{"Capture them saying two-word phrases", belief.DomainLanguage},
		{"Record pretend play with the kitchen set", belief.DomainPlay},
		{"Something entirely unmatched", belief.DomainBehavioral},
	}
	for _, test := range tests {
		if got := classifyDomain(test.what); got != test.expected {
			t.Errorf("classifyDomain(%q): expected %s, got %s", test.what, test.expected, got)
		}
	}
}
