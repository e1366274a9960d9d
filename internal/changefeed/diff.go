package changefeed

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/example/stockkeeper/internal/domain/catalog"
)

// Change is one product-level difference between two catalog versions
type Change struct {
	ProductID catalog.ID
	EventType string
	Data      any
}

// Diff describes how after differs from before, in the order of after with
// removals last. A product whose stocks kept their ids and only changed
// quantity is reported as StockAdjusted; any other difference as ProductUpdated.
func Diff(before, after catalog.Catalog, at time.Time) []Change {
	var changes []Change

	for _, p := range after {
		idx := before.IndexOf(p.ID)
		if idx < 0 {
			changes = append(changes, Change{
				ProductID: p.ID,
				EventType: catalog.EventProductInserted,
				Data:      catalog.ProductInserted{ProductID: p.ID, Name: p.Name, Price: p.Price, InsertedAt: at},
			})
			continue
		}

		old := before[idx]
		if sameProduct(old, p) {
			continue
		}
		if onlyQuantitiesChanged(old, p) {
			quantities := make([]int, len(p.Stocks))
			for i, s := range p.Stocks {
				quantities[i] = s.Quantity
			}
			changes = append(changes, Change{
				ProductID: p.ID,
				EventType: catalog.EventStockAdjusted,
				Data: catalog.StockAdjusted{
					ProductID:  p.ID,
					Name:       p.Name,
					Delta:      p.RepresentativeQuantity() - old.RepresentativeQuantity(),
					Quantities: quantities,
					AdjustedAt: at,
				},
			})
			continue
		}
		changes = append(changes, Change{
			ProductID: p.ID,
			EventType: catalog.EventProductUpdated,
			Data:      catalog.ProductUpdated{ProductID: p.ID, Name: p.Name, UpdatedAt: at},
		})
	}

	for _, p := range before {
		if !after.Contains(p.ID) {
			changes = append(changes, Change{
				ProductID: p.ID,
				EventType: catalog.EventProductRemoved,
				Data:      catalog.ProductRemoved{ProductID: p.ID, RemovedAt: at},
			})
		}
	}
	return changes
}

func sameProduct(a, b catalog.Product) bool {
	a.Normalize()
	b.Normalize()
	ea, errA := json.Marshal(a)
	eb, errB := json.Marshal(b)
	return errA == nil && errB == nil && bytes.Equal(ea, eb)
}

func onlyQuantitiesChanged(a, b catalog.Product) bool {
	if len(a.Stocks) != len(b.Stocks) || len(a.Stocks) == 0 {
		return false
	}
	a = a.Clone()
	for i := range a.Stocks {
		if a.Stocks[i].ID != b.Stocks[i].ID {
			return false
		}
		a.Stocks[i].Quantity = b.Stocks[i].Quantity
	}
	return sameProduct(a, b)
}
