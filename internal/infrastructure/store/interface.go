package store

import "context"

// BlobStore persists opaque values under string keys. Put replaces the whole
// value; readers never observe a partially written value.
type BlobStore interface {
	// Get returns the value stored under key and whether it exists
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Put overwrites the value stored under key
	Put(ctx context.Context, key string, value []byte) error
}
