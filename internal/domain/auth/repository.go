package auth

import (
	"context"

	"balcao/internal/core/id"
)

// Repository defines persistence operations for accounts.
type Repository interface {
	// Create inserts an account. Returns a duplicate error when the
	// email is already registered.
	Create(ctx context.Context, a *Account) error

	GetByID(ctx context.Context, accountID id.ID) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
}
