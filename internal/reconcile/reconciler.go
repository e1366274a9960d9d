// Package reconcile merges the local catalog with the remote snapshot.
package reconcile

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/example/stockkeeper/internal/changefeed"
	"github.com/example/stockkeeper/internal/domain/catalog"
	"github.com/example/stockkeeper/internal/infrastructure/remote"
	"github.com/example/stockkeeper/internal/infrastructure/store"
)

// Merge concatenates local and remote and keeps the first product seen for
// each id, so local records win over remote ones. Order of first appearance
// is preserved. The result shares no memory with the inputs.
func Merge(local, remote catalog.Catalog) catalog.Catalog {
	out := make(catalog.Catalog, 0, len(local)+len(remote))
	seen := make(map[catalog.ID]struct{}, len(local)+len(remote))

	for _, src := range [...]catalog.Catalog{local, remote} {
		for _, p := range src {
			if _, dup := seen[p.ID]; dup {
				continue
			}
			seen[p.ID] = struct{}{}
			out = append(out, p.Clone())
		}
	}
	return out
}

type Reconciler struct {
	store  *store.CatalogStore
	source remote.Source
	feed   *changefeed.Feed
	now    func() time.Time
}

// NewReconciler wires the engine. A nil source behaves as a permanently
// unreachable remote; a nil feed publishes nothing.
func NewReconciler(s *store.CatalogStore, source remote.Source, feed *changefeed.Feed) *Reconciler {
	if feed == nil {
		feed = changefeed.New(nil)
	}
	return &Reconciler{
		store:  s,
		source: source,
		feed:   feed,
		now:    time.Now,
	}
}

// Reconcile loads the local catalog, fetches the remote one, merges them and
// saves the result as the new local baseline.
//
// An unreachable remote is not an error: the merge proceeds with local data
// only. When the local store cannot be read the merged catalog is returned
// with an error wrapping store.ErrStorageUnavailable and nothing is saved.
// When saving fails the merged catalog is returned with an error wrapping
// store.ErrPersistFailed. In both cases the returned catalog is usable.
func (r *Reconciler) Reconcile(ctx context.Context) (catalog.Catalog, error) {
	local, loadErr := r.store.Load(ctx)

	remoteCatalog, fetchErr := r.fetch(ctx)
	if fetchErr != nil {
		log.Printf("[Reconciler] Remote unavailable, using local data only: %v", fetchErr)
	}

	merged := Merge(local, remoteCatalog)

	if loadErr != nil {
		log.Printf("[Reconciler] Not saving merged catalog, local store unreadable: %v", loadErr)
		return merged, loadErr
	}

	if err := r.store.Save(ctx, merged); err != nil {
		log.Printf("[Reconciler] Error saving merged catalog: %v", err)
		return merged, err
	}

	event := catalog.CatalogReconciled{
		LocalCount:      len(local),
		RemoteCount:     len(remoteCatalog),
		MergedCount:     len(merged),
		RemoteAvailable: fetchErr == nil,
		ReconciledAt:    r.now(),
	}
	if _, err := r.feed.Emit(ctx, r.store.Key(), catalog.EventCatalogReconciled, event); err != nil {
		log.Printf("[Reconciler] Error publishing %s: %v", catalog.EventCatalogReconciled, err)
	}

	log.Printf("[Reconciler] Merged %d local + %d remote into %d products", len(local), len(remoteCatalog), len(merged))
	return merged, nil
}

func (r *Reconciler) fetch(ctx context.Context) (catalog.Catalog, error) {
	if r.source == nil {
		return nil, remote.ErrRemoteUnavailable
	}
	c, err := r.source.Fetch(ctx)
	if err != nil {
		if !errors.Is(err, remote.ErrRemoteUnavailable) {
			log.Printf("[Reconciler] Unexpected source error: %v", err)
		}
		return nil, err
	}
	return c, nil
}
