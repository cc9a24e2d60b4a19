// Package testkit wires the engine against in-memory adapters and stub
// collaborators so tests and the dev binary run without Postgres or the real
// analysis backend.
package testkit

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"sproutlens/adapters/memory"
	"sproutlens/app"
	"sproutlens/domain/belief"
	"sproutlens/domain/core"
	"sproutlens/internal"
	"sproutlens/ports"
)

// Kit bundles fully wired services over in-memory storage
type Kit struct {
	Hypotheses  *memory.HypothesisRepository
	Evidence    *memory.EvidenceRepository
	Adjustments *memory.AdjustmentRepository
	Videos      *memory.VideoRepository
	Corrections *memory.CorrectionRepository

	Registry *app.Registry
	Ledger   *app.Ledger
	Workflow *app.VideoWorkflow
	Audit    *app.AuditTrail

	Analyzer  *ScriptedAnalyzer
	Transport *FakeTransport
}

// New creates a kit with a scripted analyzer and fake transport
func New() *Kit {
	log := internal.NewLogger(internal.LogLevelError)

	hypotheses := memory.NewHypothesisRepository()
	evidence := memory.NewEvidenceRepository(hypotheses)
	adjustments := memory.NewAdjustmentRepository(hypotheses)
	videos := memory.NewVideoRepository()
	corrections := memory.NewCorrectionRepository()

	ledger := app.NewLedger(hypotheses, evidence, adjustments, log)
	analyzer := NewScriptedAnalyzer()
	transport := NewFakeTransport()

	return &Kit{
		Hypotheses:  hypotheses,
		Evidence:    evidence,
		Adjustments: adjustments,
		Videos:      videos,
		Corrections: corrections,
		Registry:    app.NewRegistry(hypotheses, log),
		Ledger:      ledger,
		Workflow:    app.NewVideoWorkflow(videos, hypotheses, ledger, analyzer, transport, 5*time.Second, log),
		Audit:       app.NewAuditTrail(corrections, log),
		Analyzer:    analyzer,
		Transport:   transport,
	}
}

// ScriptedAnalyzer returns queued results in FIFO order, or an error script.
// Results may also be keyed by storage path for batch tests.
type ScriptedAnalyzer struct {
	mu     sync.Mutex
	queue  []*ports.AnalysisResult
	byPath map[string]*ports.AnalysisResult
	err    error
	delay  time.Duration
	Calls  int
}

// NewScriptedAnalyzer creates an analyzer with nothing scripted; unscripted
// calls return an unusable verdict
func NewScriptedAnalyzer() *ScriptedAnalyzer {
	return &ScriptedAnalyzer{byPath: make(map[string]*ports.AnalysisResult)}
}

// Enqueue scripts the next result
func (a *ScriptedAnalyzer) Enqueue(res *ports.AnalysisResult) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.queue = append(a.queue, res)
}

// ScriptPath scripts a result for a specific storage path
func (a *ScriptedAnalyzer) ScriptPath(path string, res *ports.AnalysisResult) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.byPath[path] = res
}

// Fail makes every call return err
func (a *ScriptedAnalyzer) Fail(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.err = err
}

// Delay makes every call sleep first, to exercise timeouts
func (a *ScriptedAnalyzer) Delay(d time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.delay = d
}

// Analyze implements ports.VideoAnalyzer
func (a *ScriptedAnalyzer) Analyze(ctx context.Context, req ports.AnalysisRequest) (*ports.AnalysisResult, error) {
	a.mu.Lock()
	a.Calls++
	err := a.err
	delay := a.delay
	var res *ports.AnalysisResult
	if r, ok := a.byPath[req.StoragePath]; ok {
		res = r
	} else if len(a.queue) > 0 {
		res = a.queue[0]
		a.queue = a.queue[1:]
	}
	a.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	if res == nil {
		return &ports.AnalysisResult{
			IsUsable:         false,
			ValidationIssues: []string{"nothing scripted for this clip"},
		}, nil
	}
	return res, nil
}

// FakeTransport stores uploads in memory and can be made to fail or hang
type FakeTransport struct {
	mu      sync.Mutex
	stored  map[string][]byte
	err     error
	block   chan struct{}
	counter int
}

// NewFakeTransport creates an empty fake transport
func NewFakeTransport() *FakeTransport {
	return &FakeTransport{stored: make(map[string][]byte)}
}

// Fail makes every Store call return err
func (t *FakeTransport) Fail(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.err = err
}

// Block makes Store wait on the returned channel; close it to release
func (t *FakeTransport) Block() chan struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.block = make(chan struct{})
	return t.block
}

// Store implements ports.VideoTransport
func (t *FakeTransport) Store(ctx context.Context, ref ports.StorageRef, file io.Reader, onProgress ports.ProgressFunc) (string, error) {
	t.mu.Lock()
	err := t.err
	block := t.block
	t.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if err != nil {
		return "", err
	}

	data, readErr := io.ReadAll(file)
	if readErr != nil {
		return "", readErr
	}
	if onProgress != nil {
		onProgress(1.0)
	}

	t.mu.Lock()
	t.counter++
	path := fmt.Sprintf("videos/%s/%s/%d", ref.ChildID, ref.ArtifactID, t.counter)
	t.stored[path] = data
	t.mu.Unlock()
	return path, nil
}

// Stored returns the bytes stored under path
func (t *FakeTransport) Stored(path string) []byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stored[path]
}

// SeedChild creates a child ID with a few hypotheses across domains, for
// tests and the dev binary that want populated state
func (k *Kit) SeedChild(ctx context.Context) (core.ChildID, error) {
	childID := core.ChildID(core.NewID())
	seeds := []app.CreateHypothesisRequest{
		{
			ChildID:          childID,
			Focus:            "block-stacking",
			Theory:           "stacks blocks to explore balance, not just to knock them down",
			Domain:           belief.DomainCognitive,
			VideoAppropriate: true,
			VideoValue:       belief.VideoValueDiscovery,
		},
		{
			ChildID: childID,
			Focus:   "parallel-play",
			Theory:  "watches other children closely before joining their play",
			Domain:  belief.DomainSocial,
		},
		{
			ChildID:          childID,
			Focus:            "two-word-phrases",
			Theory:           "combines words when requesting, not yet when commenting",
			Domain:           belief.DomainLanguage,
			VideoAppropriate: true,
			VideoValue:       belief.VideoValueCalibration,
		},
	}
	for _, req := range seeds {
		if _, err := k.Registry.CreateHypothesis(ctx, req); err != nil {
			return "", err
		}
	}
	return childID, nil
}

var _ ports.VideoAnalyzer = (*ScriptedAnalyzer)(nil)
var _ ports.VideoTransport = (*FakeTransport)(nil)
