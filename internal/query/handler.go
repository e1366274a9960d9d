package query

import (
	"context"

	"github.com/example/stockkeeper/internal/domain/catalog"
)

// Reconciler produces the canonical catalog.
type Reconciler interface {
	Reconcile(ctx context.Context) (catalog.Catalog, error)
}

// Handler answers read requests against a freshly reconciled catalog.
//
// Reconcile errors are non-fatal: the catalog it returns is still usable, so
// every method returns its result together with that error.
type Handler struct {
	reconciler Reconciler
}

func NewHandler(reconciler Reconciler) *Handler {
	return &Handler{reconciler: reconciler}
}

func (h *Handler) Catalog(ctx context.Context) (catalog.Catalog, error) {
	return h.reconciler.Reconcile(ctx)
}

func (h *Handler) Search(ctx context.Context, text string) (catalog.Catalog, error) {
	c, err := h.reconciler.Reconcile(ctx)
	return SearchAll(c, text), err
}

func (h *Handler) Statistics(ctx context.Context) (Stats, error) {
	c, err := h.reconciler.Reconcile(ctx)
	return Statistics(c), err
}

func (h *Handler) FindByBarcode(ctx context.Context, barcode string) (catalog.Product, bool, error) {
	c, err := h.reconciler.Reconcile(ctx)
	p, ok := FindByBarcode(c, barcode)
	return p, ok, err
}
