package command

import (
	"fmt"

	"github.com/example/stockkeeper/internal/domain/catalog"
)

// The functions below never modify their input catalog. They return a fresh
// catalog and whether anything changed.

// ApplyAdjustQuantity adds delta to every stock of the product with id.
// A missing id leaves the catalog unchanged. No floor is applied.
func ApplyAdjustQuantity(c catalog.Catalog, id catalog.ID, delta int) (catalog.Catalog, bool) {
	next := c.Clone()
	idx := next.IndexOf(id)
	if idx < 0 {
		return next, false
	}
	for i := range next[idx].Stocks {
		next[idx].Stocks[i].Quantity += delta
	}
	return next, true
}

// ApplyInsert appends p. It fails with ErrInvalidProduct or
// ErrDuplicateIdentity, in which case a copy of the input is returned.
func ApplyInsert(c catalog.Catalog, p catalog.Product) (catalog.Catalog, error) {
	if err := p.Validate(); err != nil {
		return c.Clone(), err
	}
	if c.Contains(p.ID) {
		return c.Clone(), fmt.Errorf("%w: %s", catalog.ErrDuplicateIdentity, p.ID)
	}
	added := p.Clone()
	added.Normalize()
	return append(c.Clone(), added), nil
}

// ApplyUpdate replaces the product with p's id, keeping its position.
//
// The stored edit log is append-only: an empty incoming log keeps the stored
// one, and a non-empty one must start with every stored entry or the update
// fails with ErrInvalidProduct.
func ApplyUpdate(c catalog.Catalog, p catalog.Product) (catalog.Catalog, bool, error) {
	if err := p.Validate(); err != nil {
		return c.Clone(), false, err
	}
	next := c.Clone()
	idx := next.IndexOf(p.ID)
	if idx < 0 {
		return next, false, nil
	}

	updated := p.Clone()
	stored := next[idx].EditedBy
	switch {
	case len(updated.EditedBy) == 0:
		updated.EditedBy = stored
	case !hasPrefix(updated.EditedBy, stored):
		return c.Clone(), false, fmt.Errorf("%w %q: edit log must extend the stored one", catalog.ErrInvalidProduct, p.ID)
	}
	updated.Normalize()
	next[idx] = updated
	return next, true, nil
}

func hasPrefix(entries, prefix []catalog.EditRecord) bool {
	if len(entries) < len(prefix) {
		return false
	}
	for i, r := range prefix {
		if r.WarehousemanID != entries[i].WarehousemanID || !r.At.Equal(entries[i].At.Time) {
			return false
		}
	}
	return true
}

// ApplyRemove drops the product with id. A missing id leaves the catalog unchanged.
func ApplyRemove(c catalog.Catalog, id catalog.ID) (catalog.Catalog, bool) {
	next := make(catalog.Catalog, 0, len(c))
	removed := false
	for _, p := range c {
		if p.ID == id {
			removed = true
			continue
		}
		next = append(next, p.Clone())
	}
	return next, removed
}
