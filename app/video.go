package app

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"sproutlens/domain/belief"
	"sproutlens/domain/core"
	"sproutlens/domain/video"
	"sproutlens/internal"
	"sproutlens/ports"
)

// couldNotAnalyze is the generic issue recorded when the analyzer is
// unreachable or times out; the raw fault is logged, not surfaced.
const couldNotAnalyze = "could not analyze"

// VideoWorkflow drives a clip from filming request through upload to its
// analysis outcome, and feeds qualifying observations back into the ledger
type VideoWorkflow struct {
	videos         ports.VideoRepository
	hypotheses     ports.HypothesisRepository
	ledger         *Ledger
	analyzer       ports.VideoAnalyzer
	transport      ports.VideoTransport
	analyzeTimeout time.Duration
	log            *internal.Logger

	// one in-flight upload per artifact; last-writer-wins would silently
	// discard a parent's footage mid-transfer
	mu       sync.Mutex
	inflight map[core.ArtifactID]struct{}
}

// NewVideoWorkflow creates the video verification workflow
func NewVideoWorkflow(videos ports.VideoRepository, hypotheses ports.HypothesisRepository, ledger *Ledger, analyzer ports.VideoAnalyzer, transport ports.VideoTransport, analyzeTimeout time.Duration, log *internal.Logger) *VideoWorkflow {
	if log == nil {
		log = internal.DefaultLogger
	}
	if analyzeTimeout <= 0 {
		analyzeTimeout = 90 * time.Second
	}
	return &VideoWorkflow{
		videos:         videos,
		hypotheses:     hypotheses,
		ledger:         ledger,
		analyzer:       analyzer,
		transport:      transport,
		analyzeTimeout: analyzeTimeout,
		log:            log,
		inflight:       make(map[core.ArtifactID]struct{}),
	}
}

// RequestFilming creates a pending artifact carrying externally generated
// guidance. Focus may be empty for baseline captures; when set, the linked
// hypothesis must exist and the link is immutable for the artifact's life.
func (w *VideoWorkflow) RequestFilming(ctx context.Context, childID core.ChildID, focus string, guidance video.FilmingGuidance) (*video.Artifact, error) {
	focus = strings.TrimSpace(focus)
	if focus != "" {
		if _, err := w.hypotheses.Get(ctx, childID, focus); err != nil {
			return nil, err
		}
	}

	now := core.Now()
	a := &video.Artifact{
		ID:          core.ArtifactID(core.NewID()),
		ChildID:     childID,
		State:       video.StatePending,
		TargetFocus: focus,
		Guidance:    guidance,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	if err := w.videos.Create(ctx, a); err != nil {
		return nil, err
	}
	w.log.Info("filming requested: child=%s focus=%q artifact=%s", childID, focus, a.ID)
	return a, nil
}

// Upload streams a clip to the transport and moves the artifact to uploaded.
// A retry after validation_failed replaces the payload but keeps the
// artifact's identity and hypothesis linkage. On transport failure or abort
// the artifact is left exactly as it was.
func (w *VideoWorkflow) Upload(ctx context.Context, artifactID core.ArtifactID, file io.Reader, onProgress ports.ProgressFunc) (*video.Artifact, error) {
	if err := w.acquireUpload(artifactID); err != nil {
		return nil, err
	}
	defer w.releaseUpload(artifactID)

	a, err := w.videos.Get(ctx, artifactID)
	if err != nil {
		return nil, err
	}
	if a.ChildID.String() == "" {
		return nil, core.NewTransportError("upload", errors.New("no active child context"))
	}
	if !a.State.CanUpload() {
		return nil, core.ErrInvalidTransition
	}

	path, err := w.transport.Store(ctx, ports.StorageRef{
		ChildID:    a.ChildID,
		Focus:      a.TargetFocus,
		ArtifactID: a.ID,
	}, file, onProgress)
	if err != nil {
		return nil, core.NewTransportError("upload", err)
	}

	expected := a.Version
	a.StoragePath = path
	a.State = video.StateUploaded
	a.Validation = nil // stale issues from a failed validation round
	a.Version++
	a.UpdatedAt = core.Now()
	if err := w.videos.Update(ctx, a, expected); err != nil {
		return nil, err
	}
	w.log.Info("clip uploaded: artifact=%s path=%s", a.ID, path)
	return a, nil
}

// Analyze sends an uploaded clip to the external analyzer. Success moves the
// artifact to analyzed and writes one evidence record per qualifying
// observation; a validity failure, analyzer fault, or timeout moves it to
// validation_failed with issues for the retry prompt and writes no evidence.
func (w *VideoWorkflow) Analyze(ctx context.Context, artifactID core.ArtifactID) (*video.Artifact, error) {
	a, err := w.videos.Get(ctx, artifactID)
	if err != nil {
		return nil, err
	}
	if !a.State.CanAnalyze() {
		return nil, core.ErrInvalidTransition
	}

	actx, cancel := context.WithTimeout(ctx, w.analyzeTimeout)
	defer cancel()
	result, err := w.analyzer.Analyze(actx, ports.AnalysisRequest{
		StoragePath: a.StoragePath,
		Guidance:    a.Guidance,
		TargetFocus: a.TargetFocus,
	})
	if err != nil {
		// An artifact stuck in uploaded forever is worse than a retryable
		// failure, so collaborator faults resolve to validation_failed.
		w.log.Warn("analyzer fault: artifact=%s err=%v", a.ID, err)
		return w.failValidation(ctx, a, video.Validation{
			IsUsable: false,
			Issues:   []string{couldNotAnalyze},
		})
	}
	if !result.IsUsable {
		return w.failValidation(ctx, a, video.Validation{
			IsUsable:       false,
			WhatVideoShows: result.WhatVideoShows,
			Issues:         result.ValidationIssues,
		})
	}

	var certaintyAfter *float64
	if a.IsLinked() {
		for _, obs := range result.Observations {
			if !obs.Effect.Valid() || strings.TrimSpace(obs.Content) == "" {
				w.log.Warn("skipping unusable observation: artifact=%s effect=%q", a.ID, obs.Effect)
				continue
			}
			h, _, err := w.ledger.AppendEvidence(ctx, a.ChildID, a.TargetFocus, obs.Content, obs.Effect, belief.SourceVideo)
			if err != nil {
				return nil, err
			}
			c := h.Certainty
			certaintyAfter = &c
		}
	}

	expected := a.Version
	a.State = video.StateAnalyzed
	a.Observations = result.Observations
	a.Validation = &video.Validation{IsUsable: true, WhatVideoShows: result.WhatVideoShows}
	a.CertaintyAfter = certaintyAfter
	a.Version++
	a.UpdatedAt = core.Now()
	if err := w.videos.Update(ctx, a, expected); err != nil {
		return nil, err
	}
	w.log.Info("clip analyzed: artifact=%s observations=%d", a.ID, len(result.Observations))
	return a, nil
}

func (w *VideoWorkflow) failValidation(ctx context.Context, a *video.Artifact, v video.Validation) (*video.Artifact, error) {
	expected := a.Version
	a.State = video.StateValidationFailed
	a.Validation = &v
	a.Version++
	a.UpdatedAt = core.Now()
	if err := w.videos.Update(ctx, a, expected); err != nil {
		return nil, err
	}
	return a, nil
}

// BatchResult is the outcome of one artifact within a batch analysis
type BatchResult struct {
	ArtifactID core.ArtifactID `json:"artifact_id"`
	State      video.State     `json:"state"`
	Error      string          `json:"error,omitempty"`
}

// AnalyzeAllPending analyzes every uploaded artifact for a child. Artifacts
// are independent failure domains: one validation failure or fault never
// blocks the rest. Ledger appends stay serialized per hypothesis.
func (w *VideoWorkflow) AnalyzeAllPending(ctx context.Context, childID core.ChildID) ([]BatchResult, error) {
	pending, err := w.videos.ListUploaded(ctx, childID)
	if err != nil {
		return nil, err
	}

	results := make([]BatchResult, len(pending))
	g, gctx := errgroup.WithContext(ctx)
	for i, a := range pending {
		i, a := i, a
		g.Go(func() error {
			analyzed, err := w.Analyze(gctx, a.ID)
			if err != nil {
				results[i] = BatchResult{ArtifactID: a.ID, State: a.State, Error: err.Error()}
				return nil
			}
			results[i] = BatchResult{ArtifactID: analyzed.ID, State: analyzed.State}
			if analyzed.State == video.StateValidationFailed && analyzed.Validation != nil {
				results[i].Error = strings.Join(analyzed.Validation.Issues, "; ")
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// GetArtifact retrieves an artifact by ID
func (w *VideoWorkflow) GetArtifact(ctx context.Context, artifactID core.ArtifactID) (*video.Artifact, error) {
	return w.videos.Get(ctx, artifactID)
}

// ListArtifacts returns a child's artifacts in creation order
func (w *VideoWorkflow) ListArtifacts(ctx context.Context, childID core.ChildID) ([]*video.Artifact, error) {
	return w.videos.ListByChild(ctx, childID)
}

func (w *VideoWorkflow) acquireUpload(id core.ArtifactID) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, busy := w.inflight[id]; busy {
		return core.ErrUploadInFlight
	}
	w.inflight[id] = struct{}{}
	return nil
}

func (w *VideoWorkflow) releaseUpload(id core.ArtifactID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.inflight, id)
}
