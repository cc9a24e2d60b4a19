package ports

import (
	"context"
	"io"

	"sproutlens/domain/core"
)

// ProgressFunc reports upload progress in [0,1]
type ProgressFunc func(fraction float64)

// StorageRef identifies where a clip belongs in durable storage
type StorageRef struct {
	ChildID    core.ChildID
	Focus      string
	ArtifactID core.ArtifactID
}

// VideoTransport is the external file transport/storage collaborator. Store
// streams the file bytes untouched and returns a durable reference path.
// A context cancellation aborts the transfer; the caller guarantees no
// partial-state artifact becomes visible on abort.
type VideoTransport interface {
	Store(ctx context.Context, ref StorageRef, file io.Reader, onProgress ProgressFunc) (string, error)
}
