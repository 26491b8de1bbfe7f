package catalog

import (
	"context"
	"strings"

	"balcao/internal/core/apperror"
	"balcao/internal/core/id"
	"balcao/internal/core/types"
	"balcao/pkg/logger"
)

// Service provides business operations for the product catalog.
type Service struct {
	repo Repository
}

// NewService creates a new catalog service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateInput carries the fields required to register a product.
type CreateInput struct {
	OwnerID  id.ID
	Name     string
	SKU      string
	MinStock int64
}

// Create registers a new product for the owner.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Product, error) {
	p := NewProduct(in.OwnerID, strings.TrimSpace(in.Name), strings.TrimSpace(in.SKU), in.MinStock)

	if err := p.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	logger.Info(ctx, "product created",
		"product_id", p.ID,
		"sku", p.SKU)

	return p, nil
}

// GetByID retrieves one of the owner's products. A product belonging to a
// different owner is reported as not found.
func (s *Service) GetByID(ctx context.Context, ownerID, productID id.ID) (*Product, error) {
	p, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != ownerID {
		return nil, apperror.NewNotFound("product", productID)
	}
	return p, nil
}

// List retrieves the owner's products.
func (s *Service) List(ctx context.Context, ownerID id.ID, filter ListFilter) ([]Product, error) {
	return s.repo.ListByOwner(ctx, ownerID, filter)
}

// UpdateSalePrice changes the listed sale price. Stock and average cost are
// never touched here; those mutate only through ledger movements.
func (s *Service) UpdateSalePrice(ctx context.Context, ownerID, productID id.ID, price types.Money) error {
	if price.IsNegative() {
		return apperror.NewValidation("sale price cannot be negative").
			WithDetail("field", "salePrice")
	}

	// Ownership check gives a proper not-found instead of a silent no-op.
	if _, err := s.GetByID(ctx, ownerID, productID); err != nil {
		return err
	}

	return s.repo.UpdateSalePrice(ctx, productID, price)
}

// Delete removes a product and, by cascade, all its movements.
func (s *Service) Delete(ctx context.Context, ownerID, productID id.ID) error {
	if _, err := s.GetByID(ctx, ownerID, productID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, productID); err != nil {
		return err
	}

	logger.Info(ctx, "product deleted", "product_id", productID)
	return nil
}

// FindLowStock retrieves products whose stock fell below their minimum.
func (s *Service) FindLowStock(ctx context.Context, ownerID id.ID) ([]Product, error) {
	return s.repo.FindLowStock(ctx, ownerID)
}
