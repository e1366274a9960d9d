package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventProductInserted   = "ProductInserted"
	EventProductUpdated    = "ProductUpdated"
	EventStockAdjusted     = "StockAdjusted"
	EventProductRemoved    = "ProductRemoved"
	EventCatalogReconciled = "CatalogReconciled"
)

type ProductInserted struct {
	ProductID  ID              `json:"product_id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	InsertedAt time.Time       `json:"inserted_at"`
}

type ProductUpdated struct {
	ProductID ID        `json:"product_id"`
	Name      string    `json:"name"`
	UpdatedAt time.Time `json:"updated_at"`
}

type StockAdjusted struct {
	ProductID  ID        `json:"product_id"`
	Name       string    `json:"name"`
	Delta      int       `json:"delta"`
	Quantities []int     `json:"quantities"`
	AdjustedAt time.Time `json:"adjusted_at"`
}

type ProductRemoved struct {
	ProductID ID        `json:"product_id"`
	RemovedAt time.Time `json:"removed_at"`
}

type CatalogReconciled struct {
	LocalCount      int       `json:"local_count"`
	RemoteCount     int       `json:"remote_count"`
	MergedCount     int       `json:"merged_count"`
	RemoteAvailable bool      `json:"remote_available"`
	ReconciledAt    time.Time `json:"reconciled_at"`
}
