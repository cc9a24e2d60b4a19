package belief

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"sproutlens/domain/core"
)

// TimelineEventKind identifies what produced a timeline entry
type TimelineEventKind string

const (
	EventCreated    TimelineEventKind = "created"
	EventEvidence   TimelineEventKind = "evidence"
	EventAdjustment TimelineEventKind = "adjustment"
)

// TimelineEvent is one step in a hypothesis lifecycle replay
type TimelineEvent struct {
	Kind           TimelineEventKind `json:"kind"`
	Label          string            `json:"label"`
	Effect         Effect            `json:"effect,omitempty"`
	CertaintyAfter float64           `json:"certainty_after"`
	Status         Status            `json:"status"`
	Timestamp      core.Timestamp    `json:"timestamp"`
}

// Replay reconstructs the lifecycle timeline of a hypothesis from its ledger
// records. It is a pure projection: evidence and adjustments are merged in
// (timestamp, seq) order and replayed from the creation baseline, so the
// result is derivable from the ledger alone and identical across calls.
func Replay(h *Hypothesis, evidence []*Evidence, adjustments []*CertaintyAdjustment) []TimelineEvent {
	type record struct {
		at    core.Timestamp
		seq   int
		apply func(certainty float64) (float64, TimelineEvent)
	}

	records := make([]record, 0, len(evidence)+len(adjustments))
	for _, ev := range evidence {
		ev := ev
		records = append(records, record{
			at:  ev.RecordedAt,
			seq: ev.Seq,
			apply: func(certainty float64) (float64, TimelineEvent) {
				after := Apply(certainty, ev.Effect)
				return after, TimelineEvent{
					Kind:           EventEvidence,
					Label:          ev.Content,
					Effect:         ev.Effect,
					CertaintyAfter: after,
					Timestamp:      ev.RecordedAt,
				}
			},
		})
	}
	for _, adj := range adjustments {
		adj := adj
		records = append(records, record{
			at:  adj.RecordedAt,
			seq: adj.Seq,
			apply: func(float64) (float64, TimelineEvent) {
				return adj.NewValue, TimelineEvent{
					Kind:           EventAdjustment,
					Label:          adj.Reason,
					CertaintyAfter: adj.NewValue,
					Timestamp:      adj.RecordedAt,
				}
			},
		})
	}

	sort.SliceStable(records, func(i, j int) bool {
		if records[i].at.Time().Equal(records[j].at.Time()) {
			return records[i].seq < records[j].seq
		}
		return records[i].at.Before(records[j].at)
	})

	events := make([]TimelineEvent, 0, len(records)+1)
	events = append(events, TimelineEvent{
		Kind:           EventCreated,
		Label:          h.Focus,
		CertaintyAfter: CreationBaseline,
		Status:         DeriveStatus(CreationBaseline, TerminalNone),
		Timestamp:      h.CreatedAt,
	})

	certainty := CreationBaseline
	for _, rec := range records {
		var ev TimelineEvent
		certainty, ev = rec.apply(certainty)
		ev.Status = DeriveStatus(certainty, TerminalNone)
		events = append(events, ev)
	}

	// Terminal flags override the numeric derivation on the final event only;
	// earlier entries show the status as it was at the time.
	if h.IsTerminal() && len(events) > 0 {
		events[len(events)-1].Status = DeriveStatus(certainty, h.Terminal)
	}

	return events
}

// Trend fits a least-squares line over a replayed timeline and returns the
// certainty slope per event. Positive means the theory is gaining support.
// Returns 0 when fewer than two events exist.
func Trend(events []TimelineEvent) float64 {
	if len(events) < 2 {
		return 0
	}
	xs := make([]float64, len(events))
	ys := make([]float64, len(events))
	for i, ev := range events {
		xs[i] = float64(i)
		ys[i] = ev.CertaintyAfter
	}
	_, slope := stat.LinearRegression(xs, ys, nil, false)
	return slope
}
