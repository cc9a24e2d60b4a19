package belief

import (
	"math"
	"testing"
)

// TestStepFor tests the per-effect certainty steps
func TestStepFor(t *testing.T) {
	tests := []struct {
		effect   Effect
		expected float64
	}{
		{EffectSupports, 0.15},
		{EffectContradicts, -0.15},
		{EffectTransforms, 0.05},
		{Effect("unknown"), 0},
	}

	for _, test := range tests {
		if got := StepFor(test.effect); got != test.expected {
			t.Errorf("StepFor(%s): expected %v, got %v", test.effect, test.expected, got)
		}
	}
}

// TestApplyClamps tests that certainty never leaves [0,1]
func TestApplyClamps(t *testing.T) {
	tests := []struct {
		name      string
		certainty float64
		effect    Effect
		expected  float64
	}{
		{"support from baseline", 0.3, EffectSupports, 0.45},
		{"contradict from baseline", 0.3, EffectContradicts, 0.15},
		{"transform nudge", 0.3, EffectTransforms, 0.35},
		{"clamped at ceiling", 0.95, EffectSupports, 1.0},
		{"clamped at floor", 0.1, EffectContradicts, 0.0},
		{"exact ceiling stays", 1.0, EffectTransforms, 1.0},
		{"exact floor stays", 0.0, EffectContradicts, 0.0},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := Apply(test.certainty, test.effect)
			if math.Abs(got-test.expected) > 1e-9 {
				t.Errorf("Apply(%v, %s): expected %v, got %v", test.certainty, test.effect, test.expected, got)
			}
			if got < 0 || got > 1 {
				t.Errorf("Apply left the [0,1] range: %v", got)
			}
		})
	}
}

// TestDeriveStatus tests the threshold derivation and terminal overrides
func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name      string
		certainty float64
		terminal  Terminal
		expected  Status
	}{
		{"zero is wondering", 0.0, TerminalNone, StatusWondering},
		{"just below investigating", 0.29, TerminalNone, StatusWondering},
		{"investigating boundary inclusive", 0.3, TerminalNone, StatusInvestigating},
		{"mid range", 0.5, TerminalNone, StatusInvestigating},
		{"just below confirmed", 0.69, TerminalNone, StatusInvestigating},
		{"confirmed boundary inclusive", 0.7, TerminalNone, StatusConfirmed},
		{"full certainty", 1.0, TerminalNone, StatusConfirmed},
		{"refuted overrides high certainty", 0.9, TerminalRefuted, StatusRefuted},
		{"transformed overrides low certainty", 0.1, TerminalTransformed, StatusTransformed},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := DeriveStatus(test.certainty, test.terminal); got != test.expected {
				t.Errorf("DeriveStatus(%v, %q): expected %s, got %s", test.certainty, test.terminal, test.expected, got)
			}
		})
	}
}

// TestCreationBaselineStatus tests that a fresh hypothesis is already
// investigating, not merely wondering
func TestCreationBaselineStatus(t *testing.T) {
	if got := DeriveStatus(CreationBaseline, TerminalNone); got != StatusInvestigating {
		t.Errorf("Expected baseline status investigating, got %s", got)
	}
}
