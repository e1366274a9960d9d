package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const AggregateType = "Catalog"

var (
	ErrDuplicateIdentity = errors.New("product id already exists")
	ErrInvalidProduct    = errors.New("invalid product")
	ErrMalformedPayload  = errors.New("malformed catalog payload")
)

// ID is an opaque identifier. The remote catalog issues numeric ids, so
// decoding accepts both JSON numbers and strings; encoding always emits a string.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or a number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string {
	return string(id)
}

// DayLayout is the wire format of EditRecord.At.
const DayLayout = "2006-01-02"

// Day is a calendar date with day granularity, always in UTC.
type Day struct {
	time.Time
}

func NewDay(t time.Time) Day {
	y, m, d := t.Date()
	return Day{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func (d Day) String() string {
	return d.Format(DayLayout)
}

func (d Day) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(DayLayout))
}

// UnmarshalJSON accepts "YYYY-MM-DD" and full RFC 3339 timestamps, which are
// truncated to their date.
func (d *Day) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = Day{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Day{}
		return nil
	}
	if t, err := time.Parse(DayLayout, s); err == nil {
		*d = NewDay(t)
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("invalid day %q: %w", s, err)
	}
	*d = NewDay(t)
	return nil
}

type Localisation struct {
	City      string  `json:"city"`
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

// Stock is a location-scoped quantity owned by exactly one Product.
type Stock struct {
	ID           ID           `json:"id" validate:"required"`
	Name         string       `json:"name"`
	Quantity     int          `json:"quantity"`
	Localisation Localisation `json:"localisation"`
}

type EditRecord struct {
	WarehousemanID ID  `json:"warehousemanId"`
	At             Day `json:"at"`
}

type Product struct {
	ID       ID              `json:"id" validate:"required"`
	Name     string          `json:"name"`
	Type     string          `json:"type"`
	Barcode  string          `json:"barcode"`
	Price    decimal.Decimal `json:"price" validate:"gte=0"`
	Supplier string          `json:"supplier"`
	Image    *string         `json:"image"`
	Stocks   []Stock         `json:"stocks" validate:"unique=ID,dive"`
	EditedBy []EditRecord    `json:"editedBy"`
}

// RepresentativeQuantity is the quantity of the first stock entry, or 0 when
// the product has none.
func (p Product) RepresentativeQuantity() int {
	if len(p.Stocks) == 0 {
		return 0
	}
	return p.Stocks[0].Quantity
}

// MarshalJSON writes the price as a plain JSON number, the form both the
// remote catalog and the local blob use.
func (p Product) MarshalJSON() ([]byte, error) {
	type plain Product
	return json.Marshal(struct {
		plain
		Price json.Number `json:"price"`
	}{plain(p), json.Number(p.Price.String())})
}

// Validate checks the structural invariants enforced at ingestion.
func (p Product) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w %q: %v", ErrInvalidProduct, p.ID, err)
	}
	return nil
}

// Clone returns a deep copy sharing no slices or pointers with p. Nil
// collections stay nil.
func (p Product) Clone() Product {
	out := p
	if p.Image != nil {
		img := *p.Image
		out.Image = &img
	}
	if p.Stocks != nil {
		out.Stocks = append(make([]Stock, 0, len(p.Stocks)), p.Stocks...)
	}
	if p.EditedBy != nil {
		out.EditedBy = append(make([]EditRecord, 0, len(p.EditedBy)), p.EditedBy...)
	}
	return out
}

// Normalize replaces nil collections with empty ones so they encode as [].
func (p *Product) Normalize() {
	if p.Stocks == nil {
		p.Stocks = []Stock{}
	}
	if p.EditedBy == nil {
		p.EditedBy = []EditRecord{}
	}
}

// Catalog is an ordered sequence of products, unique by ID once reconciled.
type Catalog []Product

// Clone deep-copies the catalog. A nil catalog clones to an empty one.
func (c Catalog) Clone() Catalog {
	out := make(Catalog, len(c))
	for i, p := range c {
		out[i] = p.Clone()
	}
	return out
}

// IndexOf returns the position of the first product with id, or -1.
func (c Catalog) IndexOf(id ID) int {
	for i, p := range c {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (c Catalog) Contains(id ID) bool {
	return c.IndexOf(id) >= 0
}

func (c Catalog) IDs() []ID {
	ids := make([]ID, len(c))
	for i, p := range c {
		ids[i] = p.ID
	}
	return ids
}
