package ledger

import (
	"context"
	"strings"
	"time"

	"balcao/internal/core/apperror"
	"balcao/internal/core/id"
	"balcao/internal/core/tx"
	"balcao/internal/core/types"
	"balcao/internal/domain/catalog"
	"balcao/pkg/logger"
)

// Service is the sole writer of products and movements: every movement is
// recorded atomically with the product mutation it causes.
type Service struct {
	products  catalog.Repository
	movements Repository
	txManager tx.Manager
}

// NewService creates a new ledger service.
func NewService(products catalog.Repository, movements Repository, txManager tx.Manager) *Service {
	return &Service{
		products:  products,
		movements: movements,
		txManager: txManager,
	}
}

// EntryInput describes a purchase movement.
type EntryInput struct {
	OwnerID    id.ID
	ProductID  id.ID
	Quantity   int64
	UnitCost   types.Money
	ExpiryDate *time.Time
}

// ExitInput describes a sale movement.
type ExitInput struct {
	OwnerID    id.ID
	ProductID  id.ID
	Quantity   int64
	UnitPrice  types.Money
	Status     PaymentStatus
	ClientName string
}

// lockOwnedProduct row-locks the product and verifies it belongs to the
// caller's catalog. Foreign products are reported as not found.
func (s *Service) lockOwnedProduct(ctx context.Context, ownerID, productID id.ID) (*catalog.Product, error) {
	p, err := s.products.GetForUpdate(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != ownerID {
		return nil, apperror.NewNotFound("product", productID)
	}
	return p, nil
}

// RecordEntry applies a purchase to the product and appends the ledger row,
// all inside one transaction. The row freezes the post-mutation average cost
// so later sales of this batch carry the right cost basis.
//
// Expiry policy: a provided expiry date replaces the product's; when omitted
// the prior expiry is preserved.
func (s *Service) RecordEntry(ctx context.Context, in EntryInput) (*Movement, error) {
	if in.Quantity <= 0 {
		return nil, apperror.NewValidation("quantity must be positive").
			WithDetail("field", "quantity")
	}
	if in.UnitCost.IsNegative() {
		return nil, apperror.NewValidation("unit cost cannot be negative").
			WithDetail("field", "unitCost")
	}

	var mv *Movement
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		p, err := s.lockOwnedProduct(ctx, in.OwnerID, in.ProductID)
		if err != nil {
			return err
		}

		res, err := ApplyEntry(p.CurrentStock, p.AverageCost, in.Quantity, in.UnitCost)
		if err != nil {
			return err
		}

		if err := s.products.ApplyMovement(ctx, p.ID, res.NewStock, res.NewAverageCost, in.ExpiryDate); err != nil {
			return err
		}

		mv = &Movement{
			ID:                id.New(),
			ProductID:         p.ID,
			Type:              TypeEntry,
			Quantity:          in.Quantity,
			UnitCost:          in.UnitCost,
			CostAtTransaction: res.NewAverageCost,
			Status:            StatusPaid,
			AmountPaid:        types.MoneyFromUnits(in.UnitCost, in.Quantity),
			ExpiryDate:        in.ExpiryDate,
			CreatedAt:         time.Now().UTC(),
		}
		if mv.ExpiryDate == nil {
			mv.ExpiryDate = p.ExpiryDate
		}

		return s.movements.Insert(ctx, mv)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "entry recorded",
		"movement_id", mv.ID,
		"product_id", mv.ProductID,
		"quantity", mv.Quantity)

	return mv, nil
}

// RecordExit decrements stock and appends the ledger row atomically. The
// stock check runs against a row-locked read, so two concurrent exits can
// never both pass it on stale stock. Average cost is untouched; the row
// freezes the pre-mutation average cost as the sale's cost basis.
func (s *Service) RecordExit(ctx context.Context, in ExitInput) (*Movement, error) {
	if in.Quantity <= 0 {
		return nil, apperror.NewValidation("quantity must be positive").
			WithDetail("field", "quantity")
	}
	if in.UnitPrice.IsNegative() {
		return nil, apperror.NewValidation("unit price cannot be negative").
			WithDetail("field", "unitPrice")
	}
	if in.Status != StatusPaid && in.Status != StatusPending {
		return nil, apperror.NewValidation("status must be PAID or PENDING").
			WithDetail("field", "status")
	}
	clientName := strings.TrimSpace(in.ClientName)
	if in.Status == StatusPending && clientName == "" {
		return nil, apperror.NewValidation("client name is required for pending sales").
			WithDetail("field", "clientName")
	}

	var mv *Movement
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		p, err := s.lockOwnedProduct(ctx, in.OwnerID, in.ProductID)
		if err != nil {
			return err
		}

		newStock, err := ApplyExit(p.CurrentStock, in.Quantity)
		if err != nil {
			if appErr, ok := apperror.AsAppError(err); ok && appErr.Code == apperror.CodeInsufficientStock {
				appErr.WithDetail("product_id", p.ID.String())
			}
			return err
		}

		if err := s.products.ApplyMovement(ctx, p.ID, newStock, p.AverageCost, nil); err != nil {
			return err
		}

		total := types.MoneyFromUnits(in.UnitPrice, in.Quantity)
		amountPaid := types.Zero()
		if in.Status == StatusPaid {
			amountPaid = total
		}

		mv = &Movement{
			ID:                id.New(),
			ProductID:         p.ID,
			Type:              TypeExit,
			Quantity:          in.Quantity,
			UnitCost:          in.UnitPrice,
			CostAtTransaction: p.AverageCost,
			Status:            in.Status,
			AmountPaid:        amountPaid,
			CreatedAt:         time.Now().UTC(),
		}
		if clientName != "" {
			mv.ClientName = &clientName
		}

		return s.movements.Insert(ctx, mv)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "exit recorded",
		"movement_id", mv.ID,
		"product_id", mv.ProductID,
		"quantity", mv.Quantity,
		"status", mv.Status)

	return mv, nil
}

// ListByProduct returns the movement history of one of the owner's products.
func (s *Service) ListByProduct(ctx context.Context, ownerID, productID id.ID, filter ListFilter) ([]Movement, error) {
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != ownerID {
		return nil, apperror.NewNotFound("product", productID)
	}
	return s.movements.ListByProduct(ctx, productID, filter)
}
