package query

import (
	"encoding/json"
	"fmt"
	"iter"
	"strings"

	"github.com/example/stockkeeper/internal/domain/catalog"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
)

// Search yields the products whose name contains text, ignoring case, in
// catalog order. Empty text matches every product.
func Search(c catalog.Catalog, text string) iter.Seq[catalog.Product] {
	return func(yield func(catalog.Product) bool) {
		// a Caser is stateful; one per iteration
		fold := cases.Fold()
		needle := fold.String(text)
		for _, p := range c {
			if needle != "" && !strings.Contains(fold.String(p.Name), needle) {
				continue
			}
			if !yield(p) {
				return
			}
		}
	}
}

// SearchAll collects Search into a catalog.
func SearchAll(c catalog.Catalog, text string) catalog.Catalog {
	out := catalog.Catalog{}
	for p := range Search(c, text) {
		out = append(out, p.Clone())
	}
	return out
}

// FindByBarcode returns the first product carrying barcode.
func FindByBarcode(c catalog.Catalog, barcode string) (catalog.Product, bool) {
	if barcode == "" {
		return catalog.Product{}, false
	}
	for _, p := range c {
		if p.Barcode == barcode {
			return p.Clone(), true
		}
	}
	return catalog.Product{}, false
}

type StockLevel int

const (
	OutOfStock StockLevel = iota
	Low
	OK
)

const lowStockThreshold = 10

var stockLevelNames = [...]string{"OUT_OF_STOCK", "LOW", "OK"}

func (l StockLevel) String() string {
	if l < 0 || int(l) >= len(stockLevelNames) {
		return fmt.Sprintf("StockLevel(%d)", int(l))
	}
	return stockLevelNames[l]
}

func (l StockLevel) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

// StockLevelOf classifies the representative quantity of p.
func StockLevelOf(p catalog.Product) StockLevel {
	return LevelOf(p.RepresentativeQuantity())
}

// LevelOf classifies a quantity: 0 or below is OUT_OF_STOCK, 1 to 9 is LOW,
// 10 and above is OK.
func LevelOf(q int) StockLevel {
	switch {
	case q <= 0:
		return OutOfStock
	case q < lowStockThreshold:
		return Low
	default:
		return OK
	}
}

type Stats struct {
	ProductCount    int             `json:"productCount"`
	CityCount       int             `json:"cityCount"`
	OutOfStockCount int             `json:"outOfStockCount"`
	TotalStockValue decimal.Decimal `json:"totalStockValue"`
}

func (s Stats) MarshalJSON() ([]byte, error) {
	type plain Stats
	return json.Marshal(struct {
		plain
		TotalStockValue json.Number `json:"totalStockValue"`
	}{plain(s), json.Number(s.TotalStockValue.String())})
}

// Statistics aggregates the catalog. The stock value sums quantity × price
// over every stock entry of every product, so a product held in two
// warehouses contributes twice.
func Statistics(c catalog.Catalog) Stats {
	cities := make(map[string]struct{})
	stats := Stats{ProductCount: len(c), TotalStockValue: decimal.Zero}

	for _, p := range c {
		if StockLevelOf(p) == OutOfStock {
			stats.OutOfStockCount++
		}
		for _, s := range p.Stocks {
			if s.Localisation.City != "" {
				cities[s.Localisation.City] = struct{}{}
			}
			stats.TotalStockValue = stats.TotalStockValue.Add(p.Price.Mul(decimal.NewFromInt(int64(s.Quantity))))
		}
	}
	stats.CityCount = len(cities)
	return stats
}
