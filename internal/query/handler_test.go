package query

import (
	"context"
	"fmt"
	"testing"

	"github.com/example/stockkeeper/internal/domain/catalog"
	"github.com/example/stockkeeper/internal/infrastructure/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubReconciler struct {
	catalog catalog.Catalog
	err     error
	calls   int
}

func (s *stubReconciler) Reconcile(ctx context.Context) (catalog.Catalog, error) {
	s.calls++
	return s.catalog.Clone(), s.err
}

func TestHandler_ReconcilesOnEveryRead(t *testing.T) {
	reconciler := &stubReconciler{catalog: catalog.Catalog{
		item("1", "Clavier", 10, stockIn("Rabat", 2)),
		item("2", "Souris", 5),
	}}
	handler := NewHandler(reconciler)
	ctx := context.Background()

	all, err := handler.Catalog(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	found, err := handler.Search(ctx, "sou")
	require.NoError(t, err)
	assert.Equal(t, []catalog.ID{"2"}, found.IDs())

	stats, err := handler.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.OutOfStockCount)

	assert.Equal(t, 3, reconciler.calls)
}

func TestHandler_PassesThroughNonFatalErrors(t *testing.T) {
	reconciler := &stubReconciler{
		catalog: catalog.Catalog{item("1", "Clavier", 10)},
		err:     fmt.Errorf("%w: disk full", store.ErrPersistFailed),
	}
	handler := NewHandler(reconciler)

	found, err := handler.Search(context.Background(), "clav")

	assert.ErrorIs(t, err, store.ErrPersistFailed)
	assert.Len(t, found, 1)
}

func TestHandler_FindByBarcode(t *testing.T) {
	p := item("1", "Scanner", 1)
	p.Barcode = "42"
	handler := NewHandler(&stubReconciler{catalog: catalog.Catalog{p}})

	found, ok, err := handler.FindByBarcode(context.Background(), "42")

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Scanner", found.Name)
}
