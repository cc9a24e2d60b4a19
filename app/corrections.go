package app

import (
	"context"
	"strings"

	mstats "github.com/montanaflynn/stats"

	"sproutlens/domain/belief"
	"sproutlens/domain/correction"
	"sproutlens/domain/core"
	"sproutlens/internal"
	"sproutlens/ports"
)

// AuditTrail records expert disagreement with prior machine output. It only
// stores and aggregates; generating training suggestions from the records
// belongs to an external consumer.
type AuditTrail struct {
	corrections ports.CorrectionRepository
	log         *internal.Logger
}

// NewAuditTrail creates the correction audit trail
func NewAuditTrail(corrections ports.CorrectionRepository, log *internal.Logger) *AuditTrail {
	if log == nil {
		log = internal.DefaultLogger
	}
	return &AuditTrail{corrections: corrections, log: log}
}

// FlagRequest defines inputs for disputing a machine output
type FlagRequest struct {
	ChildID             core.ChildID
	TargetType          correction.TargetType
	TargetID            string
	CorrectionType      correction.Type
	Severity            correction.Severity
	ExpertReasoning     string
	SuggestedCorrection string
}

// Flag appends an immutable correction record. The disputed record is left
// in place; a correction references it, never removes it.
func (t *AuditTrail) Flag(ctx context.Context, req FlagRequest) (*correction.Correction, error) {
	c := &correction.Correction{
		ID:                  core.CorrectionID(core.NewID()),
		ChildID:             req.ChildID,
		TargetType:          req.TargetType,
		TargetID:            strings.TrimSpace(req.TargetID),
		CorrectionType:      req.CorrectionType,
		Severity:            req.Severity,
		ExpertReasoning:     strings.TrimSpace(req.ExpertReasoning),
		SuggestedCorrection: strings.TrimSpace(req.SuggestedCorrection),
		UsedForTraining:     false,
		RecordedAt:          core.Now(),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := t.corrections.Append(ctx, c); err != nil {
		return nil, err
	}
	t.log.Info("correction flagged: child=%s target=%s/%s type=%s severity=%s",
		req.ChildID, req.TargetType, c.TargetID, req.CorrectionType, req.Severity)
	return c, nil
}

// RecordMissedSignal documents content the system failed to surface at all.
// It lives in a parallel ledger to corrections since there is no original
// value to dispute.
func (t *AuditTrail) RecordMissedSignal(ctx context.Context, childID core.ChildID, signalType string, domain belief.Domain, whyImportant string) (*correction.MissedSignal, error) {
	m := &correction.MissedSignal{
		ID:           core.NewID(),
		ChildID:      childID,
		SignalType:   strings.TrimSpace(signalType),
		Domain:       domain,
		WhyImportant: strings.TrimSpace(whyImportant),
		RecordedAt:   core.Now(),
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if err := t.corrections.AppendMissedSignal(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// CorrectionAggregate groups corrections for reporting
type CorrectionAggregate struct {
	Total          int                              `json:"total"`
	ByType         map[correction.Type]int          `json:"by_type"`
	BySeverity     map[correction.Severity]int      `json:"by_severity"`
	ByTarget       map[correction.TargetType]int    `json:"by_target"`
	MeanSeverity   float64                          `json:"mean_severity_weight"`
	MedianSeverity float64                          `json:"median_severity_weight"`
}

// Aggregate groups corrections by type, severity, and target, with summary
// statistics over the severity weights
func (t *AuditTrail) Aggregate(ctx context.Context, filter correction.Filter) (*CorrectionAggregate, error) {
	records, err := t.corrections.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	agg := &CorrectionAggregate{
		Total:      len(records),
		ByType:     make(map[correction.Type]int),
		BySeverity: make(map[correction.Severity]int),
		ByTarget:   make(map[correction.TargetType]int),
	}
	weights := make([]float64, 0, len(records))
	for _, c := range records {
		agg.ByType[c.CorrectionType]++
		agg.BySeverity[c.Severity]++
		agg.ByTarget[c.TargetType]++
		weights = append(weights, c.Severity.Weight())
	}
	if len(weights) > 0 {
		agg.MeanSeverity, _ = mstats.Mean(weights)
		agg.MedianSeverity, _ = mstats.Median(weights)
	}
	return agg, nil
}

// MissedSignalAggregate groups missed-signal records for reporting
type MissedSignalAggregate struct {
	Total    int                   `json:"total"`
	ByDomain map[belief.Domain]int `json:"by_domain"`
	ByType   map[string]int        `json:"by_signal_type"`
}

// AggregateMissedSignals groups a child's missed signals by domain and type
func (t *AuditTrail) AggregateMissedSignals(ctx context.Context, childID core.ChildID) (*MissedSignalAggregate, error) {
	records, err := t.corrections.ListMissedSignals(ctx, childID)
	if err != nil {
		return nil, err
	}
	agg := &MissedSignalAggregate{
		Total:    len(records),
		ByDomain: make(map[belief.Domain]int),
		ByType:   make(map[string]int),
	}
	for _, m := range records {
		agg.ByDomain[m.Domain]++
		agg.ByType[m.SignalType]++
	}
	return agg, nil
}
