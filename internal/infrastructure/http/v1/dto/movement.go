package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"balcao/internal/core/types"
	"balcao/internal/domain/ledger"
	"balcao/internal/domain/receivables"
)

type EntryRequest struct {
	ProductID  string     `json:"productId" binding:"required,uuid"`
	Quantity   int64      `json:"quantity" binding:"required,gt=0"`
	UnitCost   float64    `json:"unitCost" binding:"gte=0"`
	ExpiryDate *time.Time `json:"expiryDate"`
}

type ExitRequest struct {
	ProductID  string  `json:"productId" binding:"required,uuid"`
	Quantity   int64   `json:"quantity" binding:"required,gt=0"`
	UnitPrice  float64 `json:"unitPrice" binding:"gte=0"`
	Status     string  `json:"status" binding:"required,oneof=PAID PENDING"`
	ClientName string  `json:"clientName"`
}

// PaymentRequest settles part of a pending exit. A nil amount settles the
// movement in full.
type PaymentRequest struct {
	Amount *float64 `json:"amount" binding:"omitempty,gt=0"`
}

type MovementResponse struct {
	ID                string          `json:"id"`
	ProductID         string          `json:"productId"`
	Type              string          `json:"type"`
	Quantity          int64           `json:"quantity"`
	UnitCost          decimal.Decimal `json:"unitCost"`
	CostAtTransaction decimal.Decimal `json:"costAtTransaction"`
	Total             decimal.Decimal `json:"total"`
	AmountPaid        decimal.Decimal `json:"amountPaid"`
	Status            string          `json:"status"`
	ClientName        string          `json:"clientName,omitempty"`
	ExpiryDate        *time.Time      `json:"expiryDate,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
}

type PaymentResponse struct {
	MovementID string          `json:"movementId"`
	AmountPaid decimal.Decimal `json:"amountPaid"`
	Status     string          `json:"status"`
}

type ReceivableResponse struct {
	MovementResponse
	ProductName    string          `json:"productName"`
	ProductSKU     string          `json:"productSku"`
	Outstanding    decimal.Decimal `json:"outstanding"`
	ExpectedProfit decimal.Decimal `json:"expectedProfit"`
}

func ToMovementResponse(m *ledger.Movement) MovementResponse {
	clientName := ""
	if m.ClientName != nil {
		clientName = *m.ClientName
	}
	return MovementResponse{
		ID:                m.ID.String(),
		ProductID:         m.ProductID.String(),
		Type:              string(m.Type),
		Quantity:          m.Quantity,
		UnitCost:          types.Round2(m.UnitCost),
		CostAtTransaction: types.Round2(m.CostAtTransaction),
		Total:             types.Round2(m.Total()),
		AmountPaid:        types.Round2(m.AmountPaid),
		Status:            string(m.Status),
		ClientName:        clientName,
		ExpiryDate:        m.ExpiryDate,
		CreatedAt:         m.CreatedAt,
	}
}

func ToMovementResponses(movements []ledger.Movement) []MovementResponse {
	out := make([]MovementResponse, 0, len(movements))
	for i := range movements {
		out = append(out, ToMovementResponse(&movements[i]))
	}
	return out
}

func ToPaymentResponse(r *receivables.PaymentResult) PaymentResponse {
	return PaymentResponse{
		MovementID: r.MovementID.String(),
		AmountPaid: types.Round2(r.AmountPaid),
		Status:     string(r.Status),
	}
}

func ToReceivableResponse(r *receivables.Receivable) ReceivableResponse {
	return ReceivableResponse{
		MovementResponse: ToMovementResponse(&r.Movement),
		ProductName:      r.ProductName,
		ProductSKU:       r.ProductSKU,
		Outstanding:      types.Round2(r.Outstanding()),
		ExpectedProfit:   types.Round2(r.ExpectedProfit),
	}
}

func ToReceivableResponses(items []receivables.Receivable) []ReceivableResponse {
	out := make([]ReceivableResponse, 0, len(items))
	for i := range items {
		out = append(out, ToReceivableResponse(&items[i]))
	}
	return out
}
