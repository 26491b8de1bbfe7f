// Package receivables manages the payment lifecycle of pending sales.
// Stock is already decremented when the sale is recorded; only the
// amount-paid/status pair of exit rows mutates here.
package receivables

import (
	"context"

	"balcao/internal/core/apperror"
	"balcao/internal/core/id"
	"balcao/internal/core/tx"
	"balcao/internal/core/types"
	"balcao/internal/domain/ledger"
	"balcao/pkg/logger"
)

// Repository is the subset of ledger persistence the tracker needs.
type Repository interface {
	GetForUpdate(ctx context.Context, ownerID, movementID id.ID) (*ledger.Movement, error)
	UpdatePayment(ctx context.Context, movementID id.ID, amountPaid types.Money, status ledger.PaymentStatus) error
	ListPendingByOwner(ctx context.Context, ownerID id.ID) ([]ledger.MovementWithProduct, error)
}

// Service tracks partial payments against pending sales.
type Service struct {
	movements Repository
	txManager tx.Manager
}

// NewService creates a new receivables service.
func NewService(movements Repository, txManager tx.Manager) *Service {
	return &Service{movements: movements, txManager: txManager}
}

// PaymentResult is the post-payment state of a movement.
type PaymentResult struct {
	MovementID id.ID                `json:"movementId"`
	AmountPaid types.Money          `json:"amountPaid"`
	Status     ledger.PaymentStatus `json:"status"`
}

// Receivable is a pending sale joined with its product and the profit that
// will be realized once it is collected in full.
type Receivable struct {
	ledger.MovementWithProduct

	ExpectedProfit types.Money `json:"expectedProfit"`
}

// RecordPayment accumulates a payment against an exit movement.
//
// With an amount, the payment is clamped so the total never exceeds the sale
// value; with no amount the sale is settled in full. PAID is terminal: paying
// an already settled movement is a no-op that returns the unchanged state.
// Entry movements are always settled and are rejected here.
func (s *Service) RecordPayment(ctx context.Context, ownerID, movementID id.ID, amount *types.Money) (PaymentResult, error) {
	if amount != nil && amount.IsNegative() {
		return PaymentResult{}, apperror.NewValidation("payment amount cannot be negative").
			WithDetail("field", "amount")
	}

	var result PaymentResult
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		mv, err := s.movements.GetForUpdate(ctx, ownerID, movementID)
		if err != nil {
			return err
		}

		if mv.Type != ledger.TypeExit {
			return apperror.NewValidation("payments apply only to exit movements").
				WithDetail("movement_id", movementID.String()).
				WithDetail("type", string(mv.Type))
		}

		result = PaymentResult{
			MovementID: mv.ID,
			AmountPaid: mv.AmountPaid,
			Status:     mv.Status,
		}

		// Terminal state: nothing to do.
		if mv.Status == ledger.StatusPaid {
			return nil
		}

		total := mv.Total()

		newPaid := total
		if amount != nil {
			newPaid = mv.AmountPaid.Add(*amount)
			if newPaid.GreaterThan(total) {
				newPaid = total
			}
		}

		newStatus := ledger.StatusPending
		if newPaid.GreaterThanOrEqual(total) {
			newStatus = ledger.StatusPaid
		}

		if err := s.movements.UpdatePayment(ctx, mv.ID, newPaid, newStatus); err != nil {
			return err
		}

		result.AmountPaid = newPaid
		result.Status = newStatus
		return nil
	})
	if err != nil {
		return PaymentResult{}, err
	}

	logger.Info(ctx, "payment recorded",
		"movement_id", result.MovementID,
		"amount_paid", result.AmountPaid,
		"status", result.Status)

	return result, nil
}

// ListReceivables returns the owner's pending sales newest-first, each with
// the profit expected on full collection:
//
//	expected_profit = (unit_price - cost_at_transaction) * quantity
func (s *Service) ListReceivables(ctx context.Context, ownerID id.ID) ([]Receivable, error) {
	rows, err := s.movements.ListPendingByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	receivables := make([]Receivable, 0, len(rows))
	for _, row := range rows {
		margin := row.UnitCost.Sub(row.CostAtTransaction)
		receivables = append(receivables, Receivable{
			MovementWithProduct: row,
			ExpectedProfit:      types.MoneyFromUnits(margin, row.Quantity),
		})
	}

	return receivables, nil
}
