package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sproutlens/adapters/memory"
	"sproutlens/domain/belief"
	"sproutlens/domain/correction"
	"sproutlens/domain/core"
	"sproutlens/internal"
)

func newAuditFixture(t *testing.T) (*AuditTrail, core.ChildID) {
	t.Helper()
	log := internal.NewLogger(internal.LogLevelError)
	return NewAuditTrail(memory.NewCorrectionRepository(), log), core.ChildID(core.NewID())
}

func flag(t *testing.T, audit *AuditTrail, childID core.ChildID, target correction.TargetType, ctype correction.Type, severity correction.Severity) *correction.Correction {
	t.Helper()
	c, err := audit.Flag(context.Background(), FlagRequest{
		ChildID:         childID,
		TargetType:      target,
		TargetID:        string(core.NewID()),
		CorrectionType:  ctype,
		Severity:        severity,
		ExpertReasoning: "disagrees with the machine output",
	})
	require.NoError(t, err)
	return c
}

// TestFlagRecordsImmutableCorrection tests the append path and defaults
func TestFlagRecordsImmutableCorrection(t *testing.T) {
	audit, childID := newAuditFixture(t)
	c := flag(t, audit, childID, correction.TargetObservation, correction.TypeDomainChange, correction.SeverityMedium)

	assert.NotEmpty(t, c.ID)
	assert.False(t, c.UsedForTraining, "new corrections must not be marked as used for training")
	assert.False(t, c.RecordedAt.Time().IsZero())
}

// TestFlagValidation tests that invalid requests write nothing
func TestFlagValidation(t *testing.T) {
	audit, childID := newAuditFixture(t)

	_, err := audit.Flag(context.Background(), FlagRequest{
		ChildID:        childID,
		TargetType:     "diary",
		TargetID:       "x",
		CorrectionType: correction.TypeHallucination,
		Severity:       correction.SeverityHigh,
	})
	require.Error(t, err)
	assert.True(t, core.IsValidationError(err))

	agg, err := audit.Aggregate(context.Background(), correction.Filter{ChildID: childID})
	require.NoError(t, err)
	assert.Zero(t, agg.Total)
}

// TestAggregate tests grouping and the severity statistics
func TestAggregate(t *testing.T) {
	audit, childID := newAuditFixture(t)
	ctx := context.Background()

	flag(t, audit, childID, correction.TargetObservation, correction.TypeDomainChange, correction.SeverityLow)
	flag(t, audit, childID, correction.TargetObservation, correction.TypeExtractionError, correction.SeverityMedium)
	flag(t, audit, childID, correction.TargetHypothesis, correction.TypeDomainChange, correction.SeverityHigh)
	flag(t, audit, childID, correction.TargetVideo, correction.TypeHallucination, correction.SeverityHigh)

	agg, err := audit.Aggregate(ctx, correction.Filter{ChildID: childID})
	require.NoError(t, err)

	assert.Equal(t, 4, agg.Total)
	assert.Equal(t, 2, agg.ByType[correction.TypeDomainChange])
	assert.Equal(t, 2, agg.ByTarget[correction.TargetObservation])
	assert.Equal(t, 2, agg.BySeverity[correction.SeverityHigh])
	// weights 1, 2, 3, 3
	assert.InDelta(t, 2.25, agg.MeanSeverity, 1e-9)
	assert.InDelta(t, 2.5, agg.MedianSeverity, 1e-9)
}

// TestAggregateFiltering tests severity and target narrowing
func TestAggregateFiltering(t *testing.T) {
	audit, childID := newAuditFixture(t)
	ctx := context.Background()

	flag(t, audit, childID, correction.TargetObservation, correction.TypeDomainChange, correction.SeverityLow)
	flag(t, audit, childID, correction.TargetVideo, correction.TypeTimingIssue, correction.SeverityHigh)
	otherChild := core.ChildID(core.NewID())
	flag(t, audit, otherChild, correction.TargetVideo, correction.TypeTimingIssue, correction.SeverityHigh)

	high, err := audit.Aggregate(ctx, correction.Filter{ChildID: childID, Severity: correction.SeverityHigh})
	require.NoError(t, err)
	assert.Equal(t, 1, high.Total)
	assert.InDelta(t, 3.0, high.MeanSeverity, 1e-9)

	empty, err := audit.Aggregate(ctx, correction.Filter{ChildID: childID, TargetType: correction.TargetCuriosity})
	require.NoError(t, err)
	assert.Zero(t, empty.Total)
	assert.Zero(t, empty.MeanSeverity)
}

// TestMissedSignals tests the parallel absence ledger and its rollup
func TestMissedSignals(t *testing.T) {
	audit, childID := newAuditFixture(t)
	ctx := context.Background()

	_, err := audit.RecordMissedSignal(ctx, childID, "echolalia", belief.DomainLanguage, "repetition pattern worth tracking")
	require.NoError(t, err)
	_, err = audit.RecordMissedSignal(ctx, childID, "echolalia", belief.DomainLanguage, "again in a new context")
	require.NoError(t, err)
	_, err = audit.RecordMissedSignal(ctx, childID, "toe-walking", belief.DomainMotor, "gait pattern")
	require.NoError(t, err)

	_, err = audit.RecordMissedSignal(ctx, childID, "", belief.DomainMotor, "x")
	assert.True(t, core.IsValidationError(err))

	agg, err := audit.AggregateMissedSignals(ctx, childID)
	require.NoError(t, err)
	assert.Equal(t, 3, agg.Total)
	assert.Equal(t, 2, agg.ByType["echolalia"])
	assert.Equal(t, 2, agg.ByDomain[belief.DomainLanguage])
	assert.Equal(t, 1, agg.ByDomain[belief.DomainMotor])
}
