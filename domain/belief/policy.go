package belief

// CreationBaseline is the certainty every hypothesis starts from. It sits on
// the wondering/investigating boundary so a freshly proposed theory is already
// worth investigating but far from confirmed.
const CreationBaseline = 0.3

// Certainty thresholds for status derivation. These are the only place the
// cutoffs are defined; all callers go through DeriveStatus.
const (
	ConfirmedThreshold     = 0.7
	InvestigatingThreshold = 0.3
)

// Bounded step sizes for automatic certainty updates. A supporting or
// contradicting observation moves certainty by a fixed step; a transforming
// observation revises the theory text and nudges certainty only slightly.
const (
	SupportStep    = 0.15
	ContradictStep = -0.15
	TransformStep  = 0.05
)

// StepFor returns the signed certainty step for an evidence effect.
// Unknown effects return 0; callers validate the enum before applying.
func StepFor(effect Effect) float64 {
	switch effect {
	case EffectSupports:
		return SupportStep
	case EffectContradicts:
		return ContradictStep
	case EffectTransforms:
		return TransformStep
	}
	return 0
}

// Clamp bounds a certainty value to [0,1]
func Clamp(certainty float64) float64 {
	if certainty < 0 {
		return 0
	}
	if certainty > 1 {
		return 1
	}
	return certainty
}

// Apply computes the certainty after an evidence effect, clamped to [0,1]
func Apply(certainty float64, effect Effect) float64 {
	return Clamp(certainty + StepFor(effect))
}

// DeriveStatus is the single pure derivation of hypothesis status.
// Terminal flags are sticky and override the numeric thresholds.
func DeriveStatus(certainty float64, terminal Terminal) Status {
	switch terminal {
	case TerminalRefuted:
		return StatusRefuted
	case TerminalTransformed:
		return StatusTransformed
	}
	switch {
	case certainty >= ConfirmedThreshold:
		return StatusConfirmed
	case certainty >= InvestigatingThreshold:
		return StatusInvestigating
	default:
		return StatusWondering
	}
}
