package ledger

import (
	"github.com/shopspring/decimal"

	"balcao/internal/core/apperror"
	"balcao/internal/core/types"
)

// EntryResult is the product state produced by applying an entry.
type EntryResult struct {
	NewStock       int64
	NewAverageCost types.Money
}

// ApplyEntry computes the stock level and moving weighted-average cost after
// a purchase of quantity units at unitCost each.
//
//	newAverage = (stock*averageCost + quantity*unitCost) / (stock + quantity)
//
// A zero unitCost is allowed (donations, adjustments) and dilutes the
// average. quantity > 0 and stock >= 0 guarantee the divisor is positive.
func ApplyEntry(stock int64, averageCost types.Money, quantity int64, unitCost types.Money) (EntryResult, error) {
	if quantity <= 0 {
		return EntryResult{}, apperror.NewValidation("quantity must be positive").
			WithDetail("field", "quantity")
	}
	if unitCost.IsNegative() {
		return EntryResult{}, apperror.NewValidation("unit cost cannot be negative").
			WithDetail("field", "unitCost")
	}

	newStock := stock + quantity

	held := averageCost.Mul(decimal.NewFromInt(stock))
	incoming := unitCost.Mul(decimal.NewFromInt(quantity))
	newAverage := held.Add(incoming).Div(decimal.NewFromInt(newStock))

	return EntryResult{
		NewStock:       newStock,
		NewAverageCost: newAverage,
	}, nil
}

// ApplyExit computes the stock level after a sale of quantity units.
// Average cost is never changed by an exit. Fails with InsufficientStock
// when quantity exceeds the available stock; the caller records no movement
// in that case.
func ApplyExit(stock int64, quantity int64) (int64, error) {
	if quantity <= 0 {
		return 0, apperror.NewValidation("quantity must be positive").
			WithDetail("field", "quantity")
	}
	if quantity > stock {
		return 0, apperror.NewInsufficientStock("", quantity, stock)
	}
	return stock - quantity, nil
}
