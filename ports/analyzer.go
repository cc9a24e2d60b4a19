package ports

import (
	"context"

	"sproutlens/domain/video"
)

// AnalysisRequest hands an uploaded clip and its filming request to the
// external analysis producer
type AnalysisRequest struct {
	StoragePath string
	Guidance    video.FilmingGuidance
	TargetFocus string
}

// AnalysisResult is the analyzer's verdict on a clip
type AnalysisResult struct {
	Observations      []video.Observation
	StrengthsObserved []string
	IsUsable          bool
	ValidationIssues  []string
	WhatVideoShows    string
}

// VideoAnalyzer is the external video analysis producer. The engine treats it
// as opaque: it trusts the result shape but validates evidence enums before
// writing to the ledger.
type VideoAnalyzer interface {
	Analyze(ctx context.Context, req AnalysisRequest) (*AnalysisResult, error)
}
