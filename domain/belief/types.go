package belief

import (
	"strings"

	"sproutlens/domain/core"
)

// Domain categorizes the developmental area a hypothesis belongs to
type Domain string

const (
	DomainMotor       Domain = "motor"
	DomainLanguage    Domain = "language"
	DomainSocial      Domain = "social"
	DomainEmotional   Domain = "emotional"
	DomainCognitive   Domain = "cognitive"
	DomainSensory     Domain = "sensory"
	DomainBehavioral  Domain = "behavioral"
	DomainDailyLiving Domain = "daily_living"
	DomainPlay        Domain = "play"
	DomainCreativity  Domain = "creativity"
)

// Domains lists all valid developmental domains
var Domains = []Domain{
	DomainMotor, DomainLanguage, DomainSocial, DomainEmotional, DomainCognitive,
	DomainSensory, DomainBehavioral, DomainDailyLiving, DomainPlay, DomainCreativity,
}

// Valid reports whether d is a known developmental domain
func (d Domain) Valid() bool {
	for _, known := range Domains {
		if d == known {
			return true
		}
	}
	return false
}

// Status is the derived lifecycle state of a hypothesis
type Status string

const (
	StatusWondering     Status = "wondering"
	StatusInvestigating Status = "investigating"
	StatusConfirmed     Status = "confirmed"
	StatusRefuted       Status = "refuted"
	StatusTransformed   Status = "transformed"
)

// Terminal is a sticky flag that overrides the numeric status derivation.
// Empty means not terminal.
type Terminal string

const (
	TerminalNone        Terminal = ""
	TerminalRefuted     Terminal = "refuted"
	TerminalTransformed Terminal = "transformed"
)

// Valid reports whether t is a recognized terminal flag
func (t Terminal) Valid() bool {
	return t == TerminalNone || t == TerminalRefuted || t == TerminalTransformed
}

// Effect is the directional impact of an evidence item on its hypothesis
type Effect string

const (
	EffectSupports    Effect = "supports"
	EffectContradicts Effect = "contradicts"
	EffectTransforms  Effect = "transforms"
)

// Valid reports whether e is a known effect
func (e Effect) Valid() bool {
	return e == EffectSupports || e == EffectContradicts || e == EffectTransforms
}

// Source identifies where an evidence item originated
type Source string

const (
	SourceConversation Source = "conversation"
	SourceVideo        Source = "video"
	SourceExpert       Source = "expert"
)

// Valid reports whether s is a known source
func (s Source) Valid() bool {
	return s == SourceConversation || s == SourceVideo || s == SourceExpert
}

// VideoValue classifies why filming would help a hypothesis
type VideoValue string

const (
	VideoValueNone        VideoValue = ""
	VideoValueCalibration VideoValue = "calibration"
	VideoValueChain       VideoValue = "chain"
	VideoValueDiscovery   VideoValue = "discovery"
	VideoValueReframe     VideoValue = "reframe"
	VideoValueRelational  VideoValue = "relational"
)

// Valid reports whether v is a known video value (or absent)
func (v VideoValue) Valid() bool {
	switch v {
	case VideoValueNone, VideoValueCalibration, VideoValueChain,
		VideoValueDiscovery, VideoValueReframe, VideoValueRelational:
		return true
	}
	return false
}

// Hypothesis is a tentative, revisable theory about a child's development.
// Status is never stored: it is always derived from Certainty and Terminal.
type Hypothesis struct {
	ID               core.HypothesisID `json:"id"`
	ChildID          core.ChildID      `json:"child_id"`
	Focus            string            `json:"focus"`
	Theory           string            `json:"theory"`
	Domain           Domain            `json:"domain"`
	Certainty        float64           `json:"certainty"`
	Terminal         Terminal          `json:"terminal,omitempty"`
	VideoAppropriate bool              `json:"video_appropriate"`
	VideoValue       VideoValue        `json:"video_value,omitempty"`
	Version          int               `json:"version"`
	CreatedAt        core.Timestamp    `json:"created_at"`
	UpdatedAt        core.Timestamp    `json:"updated_at"`
}

// Status derives the lifecycle state from certainty and the terminal flag
func (h *Hypothesis) Status() Status {
	return DeriveStatus(h.Certainty, h.Terminal)
}

// IsTerminal reports whether the hypothesis has been closed out
func (h *Hypothesis) IsTerminal() bool {
	return h.Terminal != TerminalNone
}

// Validate checks hypothesis fields before creation
func (h *Hypothesis) Validate() error {
	if strings.TrimSpace(h.Focus) == "" {
		return core.NewValidationError("focus", "cannot be empty")
	}
	if strings.TrimSpace(h.Theory) == "" {
		return core.NewValidationError("theory", "cannot be empty")
	}
	if !h.Domain.Valid() {
		return core.NewValidationError("domain", "unknown developmental domain: "+string(h.Domain))
	}
	if !h.VideoValue.Valid() {
		return core.NewValidationError("video_value", "unknown video value: "+string(h.VideoValue))
	}
	if h.Certainty < 0 || h.Certainty > 1 {
		return core.ErrCertaintyRange
	}
	return nil
}

// Evidence is a single immutable observation bearing on a hypothesis.
// Seq carries the hypothesis version assigned at write time; together with
// RecordedAt it gives a stable replay order.
type Evidence struct {
	ID             core.EvidenceID   `json:"id"`
	HypothesisID   core.HypothesisID `json:"hypothesis_id"`
	Content        string            `json:"content"`
	Effect         Effect            `json:"effect"`
	Source         Source            `json:"source"`
	CertaintyAfter float64           `json:"certainty_after"`
	Seq            int               `json:"seq"`
	RecordedAt     core.Timestamp    `json:"recorded_at"`
}

// Validate checks evidence fields before appending
func (e *Evidence) Validate() error {
	if strings.TrimSpace(e.Content) == "" {
		return core.NewValidationError("content", "cannot be empty")
	}
	if !e.Effect.Valid() {
		return core.ErrUnknownEffect
	}
	if !e.Source.Valid() {
		return core.ErrUnknownSource
	}
	return nil
}

// CertaintyAdjustment is the audit record for a manual expert override.
// It lives in a separate lane from Evidence so automatic and expert-driven
// changes stay distinguishable in the timeline.
type CertaintyAdjustment struct {
	ID           core.ID           `json:"id"`
	HypothesisID core.HypothesisID `json:"hypothesis_id"`
	NewValue     float64           `json:"new_value"`
	Reason       string            `json:"reason"`
	Actor        string            `json:"actor"`
	Seq          int               `json:"seq"`
	RecordedAt   core.Timestamp    `json:"recorded_at"`
}

// Validate checks adjustment fields before recording
func (a *CertaintyAdjustment) Validate() error {
	if strings.TrimSpace(a.Reason) == "" {
		return core.ErrEmptyReason
	}
	if a.NewValue < 0 || a.NewValue > 1 {
		return core.ErrCertaintyRange
	}
	return nil
}
