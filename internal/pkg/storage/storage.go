package storage

import (
	"context"
	"io"
	"time"
)

// FileStorage holds receipt blobs. The ledger core never inspects file
// content; it only keeps the returned path and resolves URLs for reads.
type FileStorage interface {
	// Upload stores a file and returns the blob path
	Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error)

	// Delete removes a file
	Delete(ctx context.Context, path string) error

	// GetURL generates a retrievable URL for a stored blob
	GetURL(ctx context.Context, path string, expiry time.Duration) (string, error)

	// Exists checks if file exists
	Exists(ctx context.Context, path string) (bool, error)
}
