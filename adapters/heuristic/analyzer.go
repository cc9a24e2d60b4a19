// Package heuristic provides a rule-based video analyzer used when no
// external analysis producer is configured. It never inspects the clip bytes;
// it derives a conservative verdict from the filming request alone, so local
// deployments can exercise the full verification loop.
package heuristic

import (
	"context"
	"fmt"
	"strings"

	"sproutlens/domain/belief"
	"sproutlens/domain/video"
	"sproutlens/ports"
)

// Analyzer is a deterministic stand-in for the external analysis producer
type Analyzer struct{}

// NewAnalyzer creates a heuristic video analyzer
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// domainKeywords maps guidance vocabulary to developmental domains
var domainKeywords = map[belief.Domain][]string{
	belief.DomainMotor:     {"walk", "climb", "jump", "grasp", "crawl", "balance"},
	belief.DomainLanguage:  {"say", "word", "talk", "name", "ask", "phrase"},
	belief.DomainSocial:    {"play with", "share", "greet", "turn", "peer", "together"},
	belief.DomainEmotional: {"frustrat", "comfort", "cry", "calm", "upset"},
	belief.DomainCognitive: {"sort", "stack", "puzzle", "count", "match", "problem"},
	belief.DomainPlay:      {"pretend", "game", "toy", "build"},
}

// Analyze produces a single observation matching the filming request. A
// request with no usable guidance yields an unusable verdict rather than an
// error, so the artifact fails validation and can be retried.
func (a *Analyzer) Analyze(ctx context.Context, req ports.AnalysisRequest) (*ports.AnalysisResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	what := strings.TrimSpace(req.Guidance.WhatToFilm)
	if what == "" {
		return &ports.AnalysisResult{
			IsUsable:         false,
			ValidationIssues: []string{"filming request carried no guidance to verify against"},
		}, nil
	}

	domain := classifyDomain(what)
	duration := float64(req.Guidance.DurationSeconds)
	if duration <= 0 {
		duration = 30
	}

	obs := video.Observation{
		TimestampStart: 0,
		TimestampEnd:   duration,
		Content:        fmt.Sprintf("clip consistent with request: %s", what),
		Domain:         domain,
		Effect:         belief.EffectSupports,
	}

	shows := what
	if req.TargetFocus != "" {
		shows = fmt.Sprintf("%s (filmed for %q)", what, req.TargetFocus)
	}

	return &ports.AnalysisResult{
		Observations:      []video.Observation{obs},
		StrengthsObserved: []string{"sustained engagement for the full clip"},
		IsUsable:          true,
		WhatVideoShows:    shows,
	}, nil
}

func classifyDomain(what string) belief.Domain {
	lower := strings.ToLower(what)
	// iterate in the canonical domain order so ties resolve the same way
	// every run
	for _, domain := range belief.Domains {
		for _, w := range domainKeywords[domain] {
			if strings.Contains(lower, w) {
				return domain
			}
		}
	}
	return belief.DomainBehavioral
}

var _ ports.VideoAnalyzer = (*Analyzer)(nil)
