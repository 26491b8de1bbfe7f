// Package ledger provides the append-only movement log and the valuation
// rules that couple it to product state.
package ledger

import (
	"time"

	"balcao/internal/core/id"
	"balcao/internal/core/types"
)

// MovementType distinguishes stock-increasing purchases from
// stock-decreasing sales.
type MovementType string

const (
	// TypeEntry is a purchase/restock movement.
	TypeEntry MovementType = "ENTRY"
	// TypeExit is a sale/consumption movement.
	TypeExit MovementType = "EXIT"
)

// PaymentStatus is the payment lifecycle state of an exit movement.
// PAID is terminal once reached. Entries are always settled (PAID).
type PaymentStatus string

const (
	StatusPaid    PaymentStatus = "PAID"
	StatusPending PaymentStatus = "PENDING"
)

// Movement is one ledger row. Rows are immutable except for the
// AmountPaid/Status pair on exit rows, which only payment recording mutates.
type Movement struct {
	ID        id.ID `db:"id" json:"id"`
	ProductID id.ID `db:"product_id" json:"productId"`

	Type     MovementType `db:"type" json:"type"`
	Quantity int64        `db:"quantity" json:"quantity"`

	// UnitCost is the purchase cost per unit for entries and the sale
	// price per unit for exits.
	UnitCost types.Money `db:"unit_cost" json:"unitCost"`

	// CostAtTransaction is the product's average cost frozen onto the row
	// at recording time: post-mutation for entries, pre-mutation for
	// exits. It is the cost basis for all later profit math.
	CostAtTransaction types.Money `db:"cost_at_transaction" json:"costAtTransaction"`

	Status     PaymentStatus `db:"status" json:"status"`
	AmountPaid types.Money   `db:"amount_paid" json:"amountPaid"`

	ClientName *string    `db:"client_name" json:"clientName,omitempty"`
	ExpiryDate *time.Time `db:"expiry_date" json:"expiryDate,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Total returns the full monetary value of the movement.
func (m *Movement) Total() types.Money {
	return types.MoneyFromUnits(m.UnitCost, m.Quantity)
}

// Outstanding returns the unpaid remainder of an exit movement.
func (m *Movement) Outstanding() types.Money {
	return m.Total().Sub(m.AmountPaid)
}

// MovementWithProduct is a ledger row joined with its product, used by
// receivables and stats views.
type MovementWithProduct struct {
	Movement

	ProductName string `db:"product_name" json:"productName"`
	ProductSKU  string `db:"product_sku" json:"productSku"`
}
