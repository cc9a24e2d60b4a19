package correction

import (
	"errors"
	"testing"

	"sproutlens/domain/belief"
	"sproutlens/domain/core"
)

// TestSeverityWeight tests the aggregation weights
func TestSeverityWeight(t *testing.T) {
	tests := []struct {
		severity Severity
		expected float64
	}{
		{SeverityLow, 1},
		{SeverityMedium, 2},
		{SeverityHigh, 3},
		{Severity("catastrophic"), 0},
	}
	for _, test := range tests {
		if got := test.severity.Weight(); got != test.expected {
			t.Errorf("%s.Weight(): expected %v, got %v", test.severity, test.expected, got)
		}
	}
}

// TestCorrectionValidate tests the append preconditions
func TestCorrectionValidate(t *testing.T) {
	valid := func() *Correction {
		return &Correction{
			ID:              core.CorrectionID(core.NewID()),
			ChildID:         core.ChildID(core.NewID()),
			TargetType:      TargetObservation,
			TargetID:        "obs-42",
			CorrectionType:  TypeDomainChange,
			Severity:        SeverityMedium,
			ExpertReasoning: "this is fine motor, not gross motor",
		}
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("Expected valid correction to pass, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Correction)
	}{
		{"unknown target type", func(c *Correction) { c.TargetType = "diary" }},
		{"empty target id", func(c *Correction) { c.TargetID = " " }},
		{"unknown correction type", func(c *Correction) { c.CorrectionType = "vibes" }},
		{"unknown severity", func(c *Correction) { c.Severity = "urgent" }},
		{"empty reasoning", func(c *Correction) { c.ExpertReasoning = "" }},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := valid()
			test.mutate(c)
			if err := c.Validate(); !core.IsValidationError(err) {
				t.Errorf("Expected validation error, got %v", err)
			}
		})
	}
}

// TestCorrectionValidateEmptyReasoning tests that the shared empty-reason
// sentinel is used
func TestCorrectionValidateEmptyReasoning(t *testing.T) {
	c := &Correction{
		TargetType:     TargetEvidence,
		TargetID:       "ev-1",
		CorrectionType: TypeEvidenceReclassify,
		Severity:       SeverityLow,
	}
	if err := c.Validate(); !errors.Is(err, core.ErrEmptyReason) {
		t.Errorf("Expected ErrEmptyReason, got %v", err)
	}
}

// TestMissedSignalValidate tests missed-signal preconditions
func TestMissedSignalValidate(t *testing.T) {
	m := &MissedSignal{
		ID:           core.NewID(),
		ChildID:      core.ChildID(core.NewID()),
		SignalType:   "echolalia",
		Domain:       belief.DomainLanguage,
		WhyImportant: "repetition pattern worth tracking",
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("Expected valid missed signal to pass, got %v", err)
	}

	m.Domain = "astral"
	if err := m.Validate(); !core.IsValidationError(err) {
		t.Errorf("Expected validation error for unknown domain, got %v", err)
	}
}

// TestFilterMatches tests aggregation filtering
func TestFilterMatches(t *testing.T) {
	child := core.ChildID(core.NewID())
	c := &Correction{ChildID: child, TargetType: TargetVideo, Severity: SeverityHigh}

	tests := []struct {
		name     string
		filter   Filter
		expected bool
	}{
		{"empty filter matches", Filter{}, true},
		{"matching child", Filter{ChildID: child}, true},
		{"other child", Filter{ChildID: core.ChildID(core.NewID())}, false},
		{"matching target and severity", Filter{TargetType: TargetVideo, Severity: SeverityHigh}, true},
		{"severity mismatch", Filter{Severity: SeverityLow}, false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := test.filter.Matches(c); got != test.expected {
				t.Errorf("Expected %v, got %v", test.expected, got)
			}
		})
	}
}
