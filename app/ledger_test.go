package app

import (
	"context"
	"errors"
	"math"
	"testing"

	"sproutlens/adapters/memory"
	"sproutlens/domain/belief"
	"sproutlens/domain/core"
	"sproutlens/internal"
)

type ledgerFixture struct {
	hypotheses  *memory.HypothesisRepository
	evidence    *memory.EvidenceRepository
	adjustments *memory.AdjustmentRepository
	registry    *Registry
	ledger      *Ledger
	childID     core.ChildID
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()
	log := internal.NewLogger(internal.LogLevelError)
	hypotheses := memory.NewHypothesisRepository()
	f := &ledgerFixture{
		hypotheses:  hypotheses,
		evidence:    memory.NewEvidenceRepository(hypotheses),
		adjustments: memory.NewAdjustmentRepository(hypotheses),
		childID:     core.ChildID(core.NewID()),
	}
	f.registry = NewRegistry(hypotheses, log)
	f.ledger = NewLedger(hypotheses, f.evidence, f.adjustments, log)
	return f
}

func (f *ledgerFixture) create(t *testing.T, focus string) *belief.Hypothesis {
	t.Helper()
	h, err := f.registry.CreateHypothesis(context.Background(), CreateHypothesisRequest{
		ChildID: f.childID,
		Focus:   focus,
		Theory:  "initial theory about " + focus,
		Domain:  belief.DomainCognitive,
	})
	if err != nil {
		t.Fatalf("Failed to create hypothesis: %v", err)
	}
	return h
}

// TestSupportingEvidenceReachesConfirmed walks a hypothesis from the baseline
// through three supporting observations across the confirmed threshold
func TestSupportingEvidenceReachesConfirmed(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	f.create(t, "block-stacking")

	steps := []struct {
		certainty float64
		status    belief.Status
	}{
		{0.45, belief.StatusInvestigating},
		{0.60, belief.StatusInvestigating},
		{0.75, belief.StatusConfirmed},
	}
	for i, want := range steps {
		h, ev, err := f.ledger.AppendEvidence(ctx, f.childID, "block-stacking",
			"supporting observation", belief.EffectSupports, belief.SourceConversation)
		if err != nil {
			t.Fatalf("append %d failed: %v", i, err)
		}
		if math.Abs(h.Certainty-want.certainty) > 1e-9 {
			t.Errorf("append %d: expected certainty %v, got %v", i, want.certainty, h.Certainty)
		}
		if h.Status() != want.status {
			t.Errorf("append %d: expected status %s, got %s", i, want.status, h.Status())
		}
		if math.Abs(ev.CertaintyAfter-h.Certainty) > 1e-9 {
			t.Errorf("append %d: evidence snapshot %v disagrees with hypothesis %v", i, ev.CertaintyAfter, h.Certainty)
		}
	}
}

// TestContradictingEvidenceLowersCertainty tests the downward step and the
// floor clamp
func TestContradictingEvidenceLowersCertainty(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	f.create(t, "sharing")

	h, _, err := f.ledger.AppendEvidence(ctx, f.childID, "sharing",
		"grabbed the toy back", belief.EffectContradicts, belief.SourceConversation)
	if err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if math.Abs(h.Certainty-0.15) > 1e-9 {
		t.Errorf("Expected certainty 0.15, got %v", h.Certainty)
	}
	if h.Status() != belief.StatusWondering {
		t.Errorf("Expected wondering, got %s", h.Status())
	}

	// one more contradiction clamps at zero
	h, _, err = f.ledger.AppendEvidence(ctx, f.childID, "sharing",
		"again", belief.EffectContradicts, belief.SourceConversation)
	if err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if h.Certainty != 0 {
		t.Errorf("Expected certainty clamped to 0, got %v", h.Certainty)
	}
}

// TestTransformingEvidenceRevisesTheory tests that a transforming observation
// rewrites the theory text while the old wording survives in the ledger
func TestTransformingEvidenceRevisesTheory(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	created := f.create(t, "lining-up-toys")

	revised := "lines toys up by color, not by size"
	h, _, err := f.ledger.AppendEvidence(ctx, f.childID, "lining-up-toys",
		revised, belief.EffectTransforms, belief.SourceExpert)
	if err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if h.Theory != revised {
		t.Errorf("Expected theory revised to %q, got %q", revised, h.Theory)
	}
	if math.Abs(h.Certainty-0.35) > 1e-9 {
		t.Errorf("Expected certainty 0.35 after transform nudge, got %v", h.Certainty)
	}

	records, err := f.ledger.EvidenceFor(ctx, f.childID, "lining-up-toys")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(records) != 1 || records[0].Content != revised {
		t.Errorf("Expected the transforming observation in the ledger, got %+v", records)
	}
	if created.Theory == revised {
		t.Error("Fixture bug: original theory should differ from revision")
	}
}

// TestAppendEvidenceRejectsBadInputBeforeMutation tests that invalid evidence
// never touches the hypothesis
func TestAppendEvidenceRejectsBadInputBeforeMutation(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	f.create(t, "pointing")

	tests := []struct {
		name    string
		content string
		effect  belief.Effect
		source  belief.Source
		wantErr error
	}{
		{"unknown effect", "x", "boosts", belief.SourceVideo, core.ErrUnknownEffect},
		{"unknown source", "x", belief.EffectSupports, "rumor", core.ErrUnknownSource},
		{"empty content", "  ", belief.EffectSupports, belief.SourceVideo, core.ErrValidation},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, _, err := f.ledger.AppendEvidence(ctx, f.childID, "pointing", test.content, test.effect, test.source)
			if !errors.Is(err, test.wantErr) {
				t.Fatalf("Expected %v, got %v", test.wantErr, err)
			}
		})
	}

	h, err := f.registry.GetHypothesis(ctx, f.childID, "pointing")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if h.Certainty != belief.CreationBaseline || h.Version != 1 {
		t.Errorf("Expected hypothesis untouched, got certainty=%v version=%d", h.Certainty, h.Version)
	}
	records, _ := f.ledger.EvidenceFor(ctx, f.childID, "pointing")
	if len(records) != 0 {
		t.Errorf("Expected empty ledger, got %d records", len(records))
	}
}

// TestAdjustCertaintyWritesOneAuditRecord tests the expert override lane:
// exactly one adjustment record, no evidence, certainty set directly
func TestAdjustCertaintyWritesOneAuditRecord(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	created := f.create(t, "empathy")

	h, err := f.ledger.AdjustCertainty(ctx, f.childID, "empathy", 0.9,
		"comforted a crying peer unprompted, twice", "expert:dr-lin")
	if err != nil {
		t.Fatalf("adjust failed: %v", err)
	}
	if h.Certainty != 0.9 {
		t.Errorf("Expected certainty 0.9, got %v", h.Certainty)
	}
	if h.Status() != belief.StatusConfirmed {
		t.Errorf("Expected confirmed, got %s", h.Status())
	}

	evidence, _ := f.ledger.EvidenceFor(ctx, f.childID, "empathy")
	if len(evidence) != 0 {
		t.Errorf("Expected no evidence from an override, got %d", len(evidence))
	}
	adjustments, err := f.adjustments.ListByHypothesis(ctx, created.ID)
	if err != nil {
		t.Fatalf("list adjustments failed: %v", err)
	}
	if len(adjustments) != 1 {
		t.Fatalf("Expected exactly 1 adjustment record, got %d", len(adjustments))
	}
	if adjustments[0].Actor != "expert:dr-lin" || adjustments[0].NewValue != 0.9 {
		t.Errorf("Adjustment record mismatch: %+v", adjustments[0])
	}
}

// TestAdjustCertaintyRejectedLeavesStateUnchanged tests that an out-of-range
// value or empty reason writes nothing
func TestAdjustCertaintyRejectedLeavesStateUnchanged(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	created := f.create(t, "empathy")

	if _, err := f.ledger.AdjustCertainty(ctx, f.childID, "empathy", 1.4, "typo", "expert"); !errors.Is(err, core.ErrCertaintyRange) {
		t.Errorf("Expected ErrCertaintyRange, got %v", err)
	}
	if _, err := f.ledger.AdjustCertainty(ctx, f.childID, "empathy", 0.5, "  ", "expert"); !errors.Is(err, core.ErrEmptyReason) {
		t.Errorf("Expected ErrEmptyReason, got %v", err)
	}

	h, _ := f.registry.GetHypothesis(ctx, f.childID, "empathy")
	if h.Certainty != belief.CreationBaseline || h.Version != 1 {
		t.Errorf("Expected hypothesis untouched, got certainty=%v version=%d", h.Certainty, h.Version)
	}
	adjustments, _ := f.adjustments.ListByHypothesis(ctx, created.ID)
	if len(adjustments) != 0 {
		t.Errorf("Expected no adjustment records, got %d", len(adjustments))
	}
}

// TestTerminalHypothesisFreezesLedger tests that refuted/transformed
// hypotheses reject both evidence and overrides
func TestTerminalHypothesisFreezesLedger(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	f.create(t, "hand-dominance")

	if _, err := f.registry.MarkTerminal(ctx, f.childID, "hand-dominance", belief.TerminalRefuted); err != nil {
		t.Fatalf("mark terminal failed: %v", err)
	}

	_, _, err := f.ledger.AppendEvidence(ctx, f.childID, "hand-dominance",
		"used the left hand", belief.EffectSupports, belief.SourceConversation)
	if !errors.Is(err, core.ErrTerminalFrozen) {
		t.Errorf("Expected ErrTerminalFrozen on append, got %v", err)
	}
	_, err = f.ledger.AdjustCertainty(ctx, f.childID, "hand-dominance", 0.8, "reconsidered", "expert")
	if !errors.Is(err, core.ErrTerminalFrozen) {
		t.Errorf("Expected ErrTerminalFrozen on adjust, got %v", err)
	}

	h, _ := f.registry.GetHypothesis(ctx, f.childID, "hand-dominance")
	if h.Status() != belief.StatusRefuted {
		t.Errorf("Expected refuted to stick, got %s", h.Status())
	}
}

// TestTimelineReplayMatchesCurrentCertainty tests that replaying the ledger
// from the baseline lands exactly on the stored certainty
func TestTimelineReplayMatchesCurrentCertainty(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	f.create(t, "block-stacking")

	if _, _, err := f.ledger.AppendEvidence(ctx, f.childID, "block-stacking", "a", belief.EffectSupports, belief.SourceConversation); err != nil {
		t.Fatal(err)
	}
	if _, err := f.ledger.AdjustCertainty(ctx, f.childID, "block-stacking", 0.2, "overcounted", "expert"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := f.ledger.AppendEvidence(ctx, f.childID, "block-stacking", "b", belief.EffectSupports, belief.SourceVideo); err != nil {
		t.Fatal(err)
	}

	events, err := f.ledger.Timeline(ctx, f.childID, "block-stacking")
	if err != nil {
		t.Fatalf("timeline failed: %v", err)
	}
	if len(events) != 4 {
		t.Fatalf("Expected 4 events (created + 3 records), got %d", len(events))
	}
	if events[0].Kind != belief.EventCreated {
		t.Errorf("Expected created first, got %s", events[0].Kind)
	}

	h, _ := f.registry.GetHypothesis(ctx, f.childID, "block-stacking")
	final := events[len(events)-1].CertaintyAfter
	if math.Abs(final-h.Certainty) > 1e-9 {
		t.Errorf("Replay landed on %v but stored certainty is %v", final, h.Certainty)
	}
	if math.Abs(h.Certainty-0.35) > 1e-9 {
		t.Errorf("Expected certainty 0.35 (0.3 +0.15 ->0.2 +0.15), got %v", h.Certainty)
	}
}

// TestEvidenceLedgerIsAppendOnlyOrdered tests that records come back in the
// order written with monotonically increasing seq
func TestEvidenceLedgerIsAppendOnlyOrdered(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	f.create(t, "climbing")

	contents := []string{"first", "second", "third"}
	for _, c := range contents {
		if _, _, err := f.ledger.AppendEvidence(ctx, f.childID, "climbing", c, belief.EffectSupports, belief.SourceConversation); err != nil {
			t.Fatalf("append %q failed: %v", c, err)
		}
	}

	records, err := f.ledger.EvidenceFor(ctx, f.childID, "climbing")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(records) != len(contents) {
		t.Fatalf("Expected %d records, got %d", len(contents), len(records))
	}
	for i, rec := range records {
		if rec.Content != contents[i] {
			t.Errorf("record %d: expected %q, got %q", i, contents[i], rec.Content)
		}
		if i > 0 && records[i].Seq <= records[i-1].Seq {
			t.Errorf("Expected increasing seq, got %d then %d", records[i-1].Seq, records[i].Seq)
		}
	}
}

// TestAppendEvidenceUnknownHypothesis tests the not-found path
func TestAppendEvidenceUnknownHypothesis(t *testing.T) {
	f := newLedgerFixture(t)
	_, _, err := f.ledger.AppendEvidence(context.Background(), f.childID, "nonexistent",
		"observation", belief.EffectSupports, belief.SourceConversation)
	if !core.IsNotFoundError(err) {
		t.Errorf("Expected not-found error, got %v", err)
	}
}

// TestConcurrentAppendsSerializePerHypothesis tests that parallel appends all
// land and the final certainty reflects every one of them
func TestConcurrentAppendsSerializePerHypothesis(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	f.create(t, "turn-taking")

	const writers = 8
	done := make(chan error, writers)
	for i := 0; i < writers; i++ {
		go func() {
			_, _, err := f.ledger.AppendEvidence(ctx, f.childID, "turn-taking",
				"waited for a turn", belief.EffectSupports, belief.SourceConversation)
			done <- err
		}()
	}
	for i := 0; i < writers; i++ {
		if err := <-done; err != nil {
			t.Fatalf("concurrent append failed: %v", err)
		}
	}

	h, _ := f.registry.GetHypothesis(ctx, f.childID, "turn-taking")
	if h.Version != 1+writers {
		t.Errorf("Expected version %d, got %d", 1+writers, h.Version)
	}
	if h.Certainty != 1.0 {
		t.Errorf("Expected certainty clamped at 1.0 after %d supports, got %v", writers, h.Certainty)
	}
	records, _ := f.ledger.EvidenceFor(ctx, f.childID, "turn-taking")
	if len(records) != writers {
		t.Errorf("Expected %d ledger records, got %d", writers, len(records))
	}
}
