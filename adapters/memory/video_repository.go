package memory

import (
	"context"
	"sync"

	"sproutlens/domain/core"
	"sproutlens/domain/video"
	"sproutlens/ports"
)

// VideoRepository is an in-memory VideoRepository
type VideoRepository struct {
	mu    sync.RWMutex
	byID  map[core.ArtifactID]*video.Artifact
	order []core.ArtifactID
}

// NewVideoRepository creates an empty in-memory artifact store
func NewVideoRepository() *VideoRepository {
	return &VideoRepository{byID: make(map[core.ArtifactID]*video.Artifact)}
}

var _ ports.VideoRepository = (*VideoRepository)(nil)

func copyArtifact(a *video.Artifact) *video.Artifact {
	dup := *a
	if a.Observations != nil {
		dup.Observations = append([]video.Observation(nil), a.Observations...)
	}
	if a.Validation != nil {
		v := *a.Validation
		v.Issues = append([]string(nil), a.Validation.Issues...)
		dup.Validation = &v
	}
	if a.CertaintyAfter != nil {
		c := *a.CertaintyAfter
		dup.CertaintyAfter = &c
	}
	return &dup
}

// Create persists a new artifact
func (r *VideoRepository) Create(ctx context.Context, a *video.Artifact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[a.ID]; exists {
		return core.ErrConflict
	}
	r.byID[a.ID] = copyArtifact(a)
	r.order = append(r.order, a.ID)
	return nil
}

// Get retrieves an artifact by ID
func (r *VideoRepository) Get(ctx context.Context, id core.ArtifactID) (*video.Artifact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byID[id]
	if !ok {
		return nil, core.NewNotFoundError("video artifact", id.String())
	}
	return copyArtifact(a), nil
}

// ListByChild returns a child's artifacts in creation order
func (r *VideoRepository) ListByChild(ctx context.Context, childID core.ChildID) ([]*video.Artifact, error) {
	return r.list(childID, func(a *video.Artifact) bool { return true })
}

// ListUploaded returns a child's artifacts awaiting analysis
func (r *VideoRepository) ListUploaded(ctx context.Context, childID core.ChildID) ([]*video.Artifact, error) {
	return r.list(childID, func(a *video.Artifact) bool { return a.State == video.StateUploaded })
}

func (r *VideoRepository) list(childID core.ChildID, keep func(*video.Artifact) bool) ([]*video.Artifact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*video.Artifact
	for _, id := range r.order {
		a := r.byID[id]
		if a.ChildID == childID && keep(a) {
			out = append(out, copyArtifact(a))
		}
	}
	return out, nil
}

// Update persists a mutated artifact under an optimistic version check
func (r *VideoRepository) Update(ctx context.Context, a *video.Artifact, expectedVersion int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.byID[a.ID]
	if !ok {
		return core.NewNotFoundError("video artifact", a.ID.String())
	}
	if stored.Version != expectedVersion {
		return core.ErrVersionMismatch
	}
	r.byID[a.ID] = copyArtifact(a)
	return nil
}
