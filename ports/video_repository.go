package ports

import (
	"context"

	"sproutlens/domain/core"
	"sproutlens/domain/video"
)

// VideoRepository stores video artifacts and their verification state
type VideoRepository interface {
	// Create persists a new artifact
	Create(ctx context.Context, a *video.Artifact) error

	// Get retrieves an artifact by ID
	Get(ctx context.Context, id core.ArtifactID) (*video.Artifact, error)

	// ListByChild returns all artifacts for a child, creation order
	ListByChild(ctx context.Context, childID core.ChildID) ([]*video.Artifact, error)

	// ListUploaded returns a child's artifacts awaiting analysis
	ListUploaded(ctx context.Context, childID core.ChildID) ([]*video.Artifact, error)

	// Update persists a mutated artifact if the stored version still matches
	// expectedVersion; fails with core.ErrVersionMismatch otherwise
	Update(ctx context.Context, a *video.Artifact, expectedVersion int) error
}
