package catalog

import (
	"context"
	"time"

	"balcao/internal/core/id"
	"balcao/internal/core/types"
)

// ListFilter narrows product listings.
type ListFilter struct {
	Search string
	Limit  int
	Offset int
}

// Repository defines persistence operations for products.
type Repository interface {
	// Create inserts a product. Returns a DuplicateSKU error when the
	// (owner, sku) pair already exists.
	Create(ctx context.Context, p *Product) error

	GetByID(ctx context.Context, productID id.ID) (*Product, error)

	// GetForUpdate retrieves the product with a row lock. Must be called
	// inside a transaction; it serializes concurrent movements on the
	// same product.
	GetForUpdate(ctx context.Context, productID id.ID) (*Product, error)

	ListByOwner(ctx context.Context, ownerID id.ID, filter ListFilter) ([]Product, error)

	// ApplyMovement persists the stock/cost state produced by a ledger
	// movement. Expiry replaces the stored value only when non-nil.
	ApplyMovement(ctx context.Context, productID id.ID, stock int64, averageCost types.Money, expiry *time.Time) error

	UpdateSalePrice(ctx context.Context, productID id.ID, price types.Money) error

	// Delete removes the product; dependent movements are removed by
	// cascade.
	Delete(ctx context.Context, productID id.ID) error

	FindLowStock(ctx context.Context, ownerID id.ID) ([]Product, error)
}
