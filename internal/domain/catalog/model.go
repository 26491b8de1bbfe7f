// Package catalog provides the product catalog: the per-owner registry of
// products whose stock and average cost are mutated only through the ledger.
package catalog

import (
	"strings"
	"time"

	"balcao/internal/core/apperror"
	"balcao/internal/core/id"
	"balcao/internal/core/types"
)

// Product represents a catalog item belonging to one owner.
//
// CurrentStock and AverageCost are derived exclusively from ledger movements:
// CurrentStock is the sum of all entry quantities minus all exit quantities,
// and AverageCost reflects only entry-weighted history. Direct edits touch
// SalePrice only.
type Product struct {
	ID       id.ID  `db:"id" json:"id"`
	OwnerID  id.ID  `db:"owner_id" json:"ownerId"`
	SKU      string `db:"sku" json:"sku"`
	Name     string `db:"name" json:"name"`
	MinStock int64  `db:"min_stock" json:"minStock"`

	CurrentStock int64       `db:"current_stock" json:"currentStock"`
	AverageCost  types.Money `db:"average_cost" json:"averageCost"`
	SalePrice    types.Money `db:"sale_price" json:"salePrice"`

	ExpiryDate *time.Time `db:"expiry_date" json:"expiryDate,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NewProduct creates a product with zero stock and zero average cost.
func NewProduct(ownerID id.ID, name, sku string, minStock int64) *Product {
	now := time.Now().UTC()
	return &Product{
		ID:           id.New(),
		OwnerID:      ownerID,
		SKU:          sku,
		Name:         name,
		MinStock:     minStock,
		CurrentStock: 0,
		AverageCost:  types.Zero(),
		SalePrice:    types.Zero(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// BelowMinStock reports whether the product needs restocking.
func (p *Product) BelowMinStock() bool {
	return p.CurrentStock < p.MinStock
}

// Validate checks catalog invariants.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	if strings.TrimSpace(p.SKU) == "" {
		return apperror.NewValidation("sku is required").
			WithDetail("field", "sku")
	}
	if p.MinStock < 0 {
		return apperror.NewValidation("minimum stock cannot be negative").
			WithDetail("field", "minStock")
	}
	if p.CurrentStock < 0 {
		return apperror.NewValidation("current stock cannot be negative").
			WithDetail("field", "currentStock")
	}
	if p.AverageCost.IsNegative() {
		return apperror.NewValidation("average cost cannot be negative").
			WithDetail("field", "averageCost")
	}
	if p.SalePrice.IsNegative() {
		return apperror.NewValidation("sale price cannot be negative").
			WithDetail("field", "salePrice")
	}
	return nil
}
