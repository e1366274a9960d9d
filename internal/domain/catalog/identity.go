package catalog

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// IDGenerator issues millisecond-timestamp ids that strictly increase, even
// when several are requested within the same millisecond.
type IDGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func NewIDGenerator() *IDGenerator {
	return &IDGenerator{now: time.Now}
}

func (g *IDGenerator) Next() ID {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	return ID(strconv.FormatInt(ms, 10))
}

// Draft holds what a warehouseman captures when registering a product.
type Draft struct {
	Name      string          `json:"name" validate:"required"`
	Type      string          `json:"type"`
	Barcode   string          `json:"barcode"`
	Price     decimal.Decimal `json:"price" validate:"gte=0"`
	Supplier  string          `json:"supplier" validate:"required"`
	Image     *string         `json:"image"`
	Warehouse string          `json:"warehouse" validate:"required"`
	Quantity  int             `json:"quantity"`
	City      string          `json:"city" validate:"required"`
	Latitude  float64         `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64         `json:"longitude" validate:"gte=-180,lte=180"`
}

// NewProduct builds a product with a fresh identity, a single stock entry at
// the draft's warehouse and an initial edit record dated now.
func NewProduct(d Draft, ids *IDGenerator, warehousemanID ID, now time.Time) (Product, error) {
	if err := validate.Struct(d); err != nil {
		return Product{}, fmt.Errorf("%w: %v", ErrInvalidProduct, err)
	}

	var image *string
	if d.Image != nil && *d.Image != "" {
		img := *d.Image
		image = &img
	}

	productID := ids.Next()
	stockID := ids.Next()

	return Product{
		ID:       productID,
		Name:     d.Name,
		Type:     d.Type,
		Barcode:  d.Barcode,
		Price:    d.Price,
		Supplier: d.Supplier,
		Image:    image,
		Stocks: []Stock{{
			ID:       stockID,
			Name:     d.Warehouse,
			Quantity: d.Quantity,
			Localisation: Localisation{
				City:      d.City,
				Latitude:  d.Latitude,
				Longitude: d.Longitude,
			},
		}},
		EditedBy: []EditRecord{{
			WarehousemanID: warehousemanID,
			At:             NewDay(now),
		}},
	}, nil
}
