// Dev binary: walks a seeded in-memory engine through the full belief loop
// (create, evidence, video round-trip, expert override, timeline) and prints
// each step. Useful for eyeballing the revision policy without Postgres.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"sproutlens/domain/belief"
	"sproutlens/domain/video"
	"sproutlens/internal/testkit"
	"sproutlens/ports"
)

func main() {
	ctx := context.Background()
	kit := testkit.New()

	childID, err := kit.SeedChild(ctx)
	if err != nil {
		log.Fatalf("seed failed: %v", err)
	}
	fmt.Printf("seeded child %s\n\n", childID)

	// Conversation evidence pushes block-stacking toward confirmed
	h, _, err := kit.Ledger.AppendEvidence(ctx, childID, "block-stacking",
		"rebuilt the tower three times after it fell, adjusting the base each time",
		belief.EffectSupports, belief.SourceConversation)
	if err != nil {
		log.Fatalf("append failed: %v", err)
	}
	fmt.Printf("after supporting evidence: certainty=%.2f status=%s\n", h.Certainty, h.Status())

	// Video round-trip: request, upload, analyze
	artifact, err := kit.Workflow.RequestFilming(ctx, childID, "block-stacking", video.FilmingGuidance{
		WhatToFilm:      "Film a block-stacking session from start to collapse",
		DurationSeconds: 60,
	})
	if err != nil {
		log.Fatalf("filming request failed: %v", err)
	}

	artifact, err = kit.Workflow.Upload(ctx, artifact.ID, strings.NewReader("clip-bytes"), nil)
	if err != nil {
		log.Fatalf("upload failed: %v", err)
	}

	kit.Analyzer.Enqueue(&ports.AnalysisResult{
		IsUsable:       true,
		WhatVideoShows: "deliberate base-widening before each new layer",
		Observations: []video.Observation{{
			TimestampStart: 4, TimestampEnd: 41,
			Content: "widened the base after the second collapse before stacking higher",
			Domain:  belief.DomainCognitive,
			Effect:  belief.EffectSupports,
		}},
	})
	artifact, err = kit.Workflow.Analyze(ctx, artifact.ID)
	if err != nil {
		log.Fatalf("analyze failed: %v", err)
	}
	fmt.Printf("video artifact: state=%s certainty_after=%v\n", artifact.State, *artifact.CertaintyAfter)

	// Expert override on a different hypothesis
	h, err = kit.Ledger.AdjustCertainty(ctx, childID, "parallel-play", 0.8,
		"observed joining peer play unprompted at the playground", "expert:dr-okafor")
	if err != nil {
		log.Fatalf("adjustment failed: %v", err)
	}
	fmt.Printf("after expert override: certainty=%.2f status=%s\n\n", h.Certainty, h.Status())

	events, err := kit.Ledger.Timeline(ctx, childID, "block-stacking")
	if err != nil {
		log.Fatalf("timeline failed: %v", err)
	}
	fmt.Println("block-stacking timeline:")
	for _, ev := range events {
		line, _ := json.Marshal(ev)
		fmt.Printf("  %s\n", line)
	}
	fmt.Printf("trend: %+.3f per event\n", belief.Trend(events))

	summary, err := kit.Registry.Summarize(ctx, childID)
	if err != nil {
		log.Fatalf("summary failed: %v", err)
	}
	out, _ := json.MarshalIndent(summary, "", "  ")
	fmt.Printf("\nsummary:\n%s\n", out)
}
