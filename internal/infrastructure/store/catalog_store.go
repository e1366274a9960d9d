package store

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/example/stockkeeper/internal/domain/catalog"
)

// DefaultCatalogKey is the fixed key holding the whole catalog
const DefaultCatalogKey = "products"

var (
	ErrStorageCorrupt     = errors.New("stored catalog is corrupt")
	ErrStorageUnavailable = errors.New("catalog storage unavailable")
	ErrPersistFailed      = errors.New("catalog not persisted")
)

// CatalogStore reads and writes the full catalog as one JSON blob
type CatalogStore struct {
	blobs BlobStore
	key   string
}

func NewCatalogStore(blobs BlobStore, key string) *CatalogStore {
	if key == "" {
		key = DefaultCatalogKey
	}
	return &CatalogStore{blobs: blobs, key: key}
}

func (s *CatalogStore) Key() string {
	return s.key
}

// Load returns the persisted catalog, or an empty one when nothing is stored
// or the payload is corrupt. Corruption is logged, not returned. A backend
// read failure also yields an empty catalog, together with an error wrapping
// ErrStorageUnavailable so callers can avoid overwriting data they never saw.
func (s *CatalogStore) Load(ctx context.Context) (catalog.Catalog, error) {
	data, ok, err := s.blobs.Get(ctx, s.key)
	if err != nil {
		log.Printf("[Store] Error reading %q: %v", s.key, err)
		return catalog.Catalog{}, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if !ok || len(data) == 0 {
		return catalog.Catalog{}, nil
	}

	c, report, err := catalog.Decode(data)
	if err != nil {
		log.Printf("[Store] %v, treating as empty: %v", ErrStorageCorrupt, err)
		return catalog.Catalog{}, nil
	}
	for _, r := range report.Rejected {
		log.Printf("[Store] Dropped stored record #%d: %v", r.Index, r.Err)
	}
	return c, nil
}

// Save overwrites the persisted catalog. Failures wrap ErrPersistFailed.
func (s *CatalogStore) Save(ctx context.Context, c catalog.Catalog) error {
	data, err := catalog.Encode(c)
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrPersistFailed, err)
	}
	if err := s.blobs.Put(ctx, s.key, data); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistFailed, err)
	}
	return nil
}
