// Package localfs stores uploaded clips on the local filesystem. It is the
// default transport for single-node deployments; object-store backends plug
// in behind the same port.
package localfs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"sproutlens/ports"
)

// Transport writes clips under a base directory, one file per artifact
type Transport struct {
	baseDir string
}

// NewTransport creates a filesystem transport rooted at baseDir
func NewTransport(baseDir string) *Transport {
	return &Transport{baseDir: baseDir}
}

// Store streams the clip to disk and returns its path relative to the base
// directory. A failed or cancelled write removes the partial file so a retry
// starts clean.
func (t *Transport) Store(ctx context.Context, ref ports.StorageRef, file io.Reader, onProgress ports.ProgressFunc) (string, error) {
	rel := filepath.Join(ref.ChildID.String(), ref.ArtifactID.String()+".video")
	abs := filepath.Join(t.baseDir, rel)

	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", fmt.Errorf("failed to create storage dir: %w", err)
	}

	out, err := os.Create(abs)
	if err != nil {
		return "", fmt.Errorf("failed to create clip file: %w", err)
	}

	written, err := io.Copy(out, &contextReader{ctx: ctx, r: file})
	closeErr := out.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(abs)
		return "", fmt.Errorf("failed to store clip: %w", err)
	}
	if written == 0 {
		os.Remove(abs)
		return "", fmt.Errorf("refusing to store empty clip")
	}

	if onProgress != nil {
		onProgress(1.0)
	}
	return rel, nil
}

// Open returns a reader over a previously stored clip
func (t *Transport) Open(path string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(t.baseDir, path))
}

// contextReader aborts a copy when the context is cancelled
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr *contextReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}
	return cr.r.Read(p)
}

var _ ports.VideoTransport = (*Transport)(nil)
