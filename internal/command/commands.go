package command

import "github.com/example/stockkeeper/internal/domain/catalog"

// AdjustQuantity adds Delta (negative to draw down) to every stock entry of a product
type AdjustQuantity struct {
	ProductID catalog.ID `json:"product_id"`
	Delta     int        `json:"delta"`
}

// InsertProduct appends a product whose id the caller already assigned
type InsertProduct struct {
	Product catalog.Product `json:"product"`
}

// CreateProduct registers a product captured by a warehouseman; identity is assigned
type CreateProduct struct {
	Draft catalog.Draft `json:"draft"`
}

// UpdateProduct replaces the product carrying the same id
type UpdateProduct struct {
	Product catalog.Product `json:"product"`
}

type RemoveProduct struct {
	ProductID catalog.ID `json:"product_id"`
}
