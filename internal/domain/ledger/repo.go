package ledger

import (
	"context"

	"balcao/internal/core/id"
	"balcao/internal/core/types"
)

// ListFilter narrows movement listings for a product.
type ListFilter struct {
	Type   *MovementType
	Limit  int
	Offset int
}

// Repository defines persistence operations for ledger movements.
type Repository interface {
	// Insert appends a movement. Callers run it in the same transaction
	// as the product mutation it belongs to.
	Insert(ctx context.Context, m *Movement) error

	GetByID(ctx context.Context, movementID id.ID) (*Movement, error)

	// GetForUpdate retrieves one of the owner's movements with a row lock
	// so concurrent payments against the same row are serialized. Must be
	// called inside a transaction.
	GetForUpdate(ctx context.Context, ownerID, movementID id.ID) (*Movement, error)

	// UpdatePayment mutates the only mutable fields of a row.
	UpdatePayment(ctx context.Context, movementID id.ID, amountPaid types.Money, status PaymentStatus) error

	ListByProduct(ctx context.Context, productID id.ID, filter ListFilter) ([]Movement, error)

	// ListExitsByOwner returns every exit row of the owner's catalog
	// joined with its product, for profit aggregation.
	ListExitsByOwner(ctx context.Context, ownerID id.ID) ([]MovementWithProduct, error)

	// ListPendingByOwner returns pending exit rows newest-first.
	ListPendingByOwner(ctx context.Context, ownerID id.ID) ([]MovementWithProduct, error)
}
