package correction

import (
	"strings"

	"sproutlens/domain/belief"
	"sproutlens/domain/core"
)

// TargetType identifies what kind of machine output a correction disputes
type TargetType string

const (
	TargetObservation TargetType = "observation"
	TargetCuriosity   TargetType = "curiosity"
	TargetHypothesis  TargetType = "hypothesis"
	TargetEvidence    TargetType = "evidence"
	TargetVideo       TargetType = "video"
	TargetResponse    TargetType = "response"
)

// Valid reports whether t is a known target type
func (t TargetType) Valid() bool {
	switch t {
	case TargetObservation, TargetCuriosity, TargetHypothesis,
		TargetEvidence, TargetVideo, TargetResponse:
		return true
	}
	return false
}

// Type categorizes what went wrong with the disputed output
type Type string

const (
	TypeDomainChange        Type = "domain_change"
	TypeExtractionError     Type = "extraction_error"
	TypeMissedSignal        Type = "missed_signal"
	TypeHallucination       Type = "hallucination"
	TypeEvidenceReclassify  Type = "evidence_reclassify"
	TypeTimingIssue         Type = "timing_issue"
	TypeCertaintyAdjustment Type = "certainty_adjustment"
)

// Valid reports whether t is a known correction type
func (t Type) Valid() bool {
	switch t {
	case TypeDomainChange, TypeExtractionError, TypeMissedSignal, TypeHallucination,
		TypeEvidenceReclassify, TypeTimingIssue, TypeCertaintyAdjustment:
		return true
	}
	return false
}

// Severity grades how badly the disputed output misled
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Valid reports whether s is a known severity
func (s Severity) Valid() bool {
	return s == SeverityLow || s == SeverityMedium || s == SeverityHigh
}

// Weight maps severity to a numeric weight for aggregation
func (s Severity) Weight() float64 {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	}
	return 0
}

// Correction is an immutable expert-authored record disputing a prior
// machine-produced inference. The disputed record itself is never edited.
type Correction struct {
	ID                  core.CorrectionID `json:"id"`
	ChildID             core.ChildID      `json:"child_id"`
	TargetType          TargetType        `json:"target_type"`
	TargetID            string            `json:"target_id"`
	CorrectionType      Type              `json:"correction_type"`
	Severity            Severity          `json:"severity"`
	ExpertReasoning     string            `json:"expert_reasoning"`
	SuggestedCorrection string            `json:"suggested_correction,omitempty"`
	UsedForTraining     bool              `json:"used_for_training"`
	RecordedAt          core.Timestamp    `json:"recorded_at"`
}

// Validate checks correction fields before appending
func (c *Correction) Validate() error {
	if !c.TargetType.Valid() {
		return core.NewValidationError("target_type", "unknown target type: "+string(c.TargetType))
	}
	if strings.TrimSpace(c.TargetID) == "" {
		return core.NewValidationError("target_id", "cannot be empty")
	}
	if !c.CorrectionType.Valid() {
		return core.NewValidationError("correction_type", "unknown correction type: "+string(c.CorrectionType))
	}
	if !c.Severity.Valid() {
		return core.NewValidationError("severity", "unknown severity: "+string(c.Severity))
	}
	if strings.TrimSpace(c.ExpertReasoning) == "" {
		return core.ErrEmptyReason
	}
	return nil
}

// MissedSignal documents content the system failed to surface at all. It is
// kept in a ledger parallel to Corrections because there is no original value
// to dispute, only an absence to record.
type MissedSignal struct {
	ID           core.ID        `json:"id"`
	ChildID      core.ChildID   `json:"child_id"`
	SignalType   string         `json:"signal_type"`
	Domain       belief.Domain  `json:"domain"`
	WhyImportant string         `json:"why_important"`
	RecordedAt   core.Timestamp `json:"recorded_at"`
}

// Validate checks missed-signal fields before appending
func (m *MissedSignal) Validate() error {
	if strings.TrimSpace(m.SignalType) == "" {
		return core.NewValidationError("signal_type", "cannot be empty")
	}
	if !m.Domain.Valid() {
		return core.NewValidationError("domain", "unknown developmental domain: "+string(m.Domain))
	}
	if strings.TrimSpace(m.WhyImportant) == "" {
		return core.NewValidationError("why_important", "cannot be empty")
	}
	return nil
}

// Filter narrows an aggregation query
type Filter struct {
	ChildID    core.ChildID
	TargetType TargetType
	Severity   Severity
}

// Matches reports whether c passes the filter
func (f Filter) Matches(c *Correction) bool {
	if f.ChildID != "" && c.ChildID != f.ChildID {
		return false
	}
	if f.TargetType != "" && c.TargetType != f.TargetType {
		return false
	}
	if f.Severity != "" && c.Severity != f.Severity {
		return false
	}
	return true
}
