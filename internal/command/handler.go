package command

import (
	"context"
	"log"
	"time"

	"github.com/example/stockkeeper/internal/changefeed"
	"github.com/example/stockkeeper/internal/domain/catalog"
	"github.com/example/stockkeeper/internal/infrastructure/store"
)

// Handler applies mutations to a caller-held catalog, writes the result
// through the local store and publishes a change event.
//
// Every method returns the new catalog. When persisting fails the new
// catalog is still returned, with an error wrapping store.ErrPersistFailed.
type Handler struct {
	store          *store.CatalogStore
	feed           *changefeed.Feed
	ids            *catalog.IDGenerator
	warehousemanID catalog.ID
	now            func() time.Time
}

func NewHandler(
	catalogStore *store.CatalogStore,
	feed *changefeed.Feed,
	ids *catalog.IDGenerator,
	warehousemanID catalog.ID,
) *Handler {
	if feed == nil {
		feed = changefeed.New(nil)
	}
	if ids == nil {
		ids = catalog.NewIDGenerator()
	}
	return &Handler{
		store:          catalogStore,
		feed:           feed,
		ids:            ids,
		warehousemanID: warehousemanID,
		now:            time.Now,
	}
}

// AdjustQuantity restocks (positive delta) or draws down (negative delta)
// every stock entry of the product. A missing product is a silent no-op.
func (h *Handler) AdjustQuantity(ctx context.Context, c catalog.Catalog, cmd AdjustQuantity) (catalog.Catalog, error) {
	next, changed := ApplyAdjustQuantity(c, cmd.ProductID, cmd.Delta)
	if err := h.persist(ctx, next); err != nil {
		return next, err
	}

	if changed {
		p := next[next.IndexOf(cmd.ProductID)]
		quantities := make([]int, len(p.Stocks))
		for i, s := range p.Stocks {
			quantities[i] = s.Quantity
		}
		h.emit(ctx, cmd.ProductID, catalog.EventStockAdjusted, catalog.StockAdjusted{
			ProductID:  cmd.ProductID,
			Name:       p.Name,
			Delta:      cmd.Delta,
			Quantities: quantities,
			AdjustedAt: h.now(),
		})
	}
	return next, nil
}

// InsertProduct appends a product with a caller-assigned id. Duplicate or
// invalid products are rejected and nothing is persisted.
func (h *Handler) InsertProduct(ctx context.Context, c catalog.Catalog, cmd InsertProduct) (catalog.Catalog, error) {
	next, err := ApplyInsert(c, cmd.Product)
	if err != nil {
		return next, err
	}
	if err := h.persist(ctx, next); err != nil {
		return next, err
	}

	h.emit(ctx, cmd.Product.ID, catalog.EventProductInserted, catalog.ProductInserted{
		ProductID:  cmd.Product.ID,
		Name:       cmd.Product.Name,
		Price:      cmd.Product.Price,
		InsertedAt: h.now(),
	})
	return next, nil
}

// CreateProduct builds a product from a draft with a fresh identity and
// inserts it. The created product is the last element of the result.
func (h *Handler) CreateProduct(ctx context.Context, c catalog.Catalog, cmd CreateProduct) (catalog.Catalog, error) {
	p, err := catalog.NewProduct(cmd.Draft, h.ids, h.warehousemanID, h.now())
	if err != nil {
		return c.Clone(), err
	}
	return h.InsertProduct(ctx, c, InsertProduct{Product: p})
}

// UpdateProduct replaces a product in place and records the edit in its log.
// A missing product is a silent no-op.
func (h *Handler) UpdateProduct(ctx context.Context, c catalog.Catalog, cmd UpdateProduct) (catalog.Catalog, error) {
	next, changed, err := ApplyUpdate(c, cmd.Product)
	if err != nil {
		return next, err
	}
	if changed {
		idx := next.IndexOf(cmd.Product.ID)
		next[idx].EditedBy = append(next[idx].EditedBy, catalog.EditRecord{
			WarehousemanID: h.warehousemanID,
			At:             catalog.NewDay(h.now()),
		})
	}
	if err := h.persist(ctx, next); err != nil {
		return next, err
	}

	if changed {
		h.emit(ctx, cmd.Product.ID, catalog.EventProductUpdated, catalog.ProductUpdated{
			ProductID: cmd.Product.ID,
			Name:      cmd.Product.Name,
			UpdatedAt: h.now(),
		})
	}
	return next, nil
}

// RemoveProduct deletes a product. A missing product is a silent no-op.
func (h *Handler) RemoveProduct(ctx context.Context, c catalog.Catalog, cmd RemoveProduct) (catalog.Catalog, error) {
	next, removed := ApplyRemove(c, cmd.ProductID)
	if err := h.persist(ctx, next); err != nil {
		return next, err
	}

	if removed {
		h.emit(ctx, cmd.ProductID, catalog.EventProductRemoved, catalog.ProductRemoved{
			ProductID: cmd.ProductID,
			RemovedAt: h.now(),
		})
	}
	return next, nil
}

func (h *Handler) persist(ctx context.Context, c catalog.Catalog) error {
	if err := h.store.Save(ctx, c); err != nil {
		log.Printf("[Command] Error persisting catalog: %v", err)
		return err
	}
	return nil
}

func (h *Handler) emit(ctx context.Context, productID catalog.ID, eventType string, data any) {
	if _, err := h.feed.Emit(ctx, productID.String(), eventType, data); err != nil {
		log.Printf("[Command] Error publishing %s for %s: %v", eventType, productID, err)
	}
}
