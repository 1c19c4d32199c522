package ports

import "context"

// Cache stores canonical SVG documents keyed by the content hash of their source.
// This lets a file referenced many times be normalized once.
type Cache interface {
	// Get returns the cached bytes, or domain.ErrCacheMiss.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores data under key, replacing any previous entry.
	Put(ctx context.Context, key string, data []byte) error

	// Delete removes the entry. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
