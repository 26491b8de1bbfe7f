// Package stats derives financial views from the ledger. Everything here is
// pull-based recomputation over persisted rows; no aggregate is stored.
package stats

import (
	"balcao/internal/core/types"
)

// Summary is the owner-level profit snapshot.
type Summary struct {
	// RealizedProfit is profit attributable to amounts actually
	// collected from customers.
	RealizedProfit types.Money `json:"realizedProfit"`

	// PendingProfit is profit attributable to amounts sold but not yet
	// collected (accounts receivable).
	PendingProfit types.Money `json:"pendingProfit"`
}

// ProductStat is a per-product sales rollup.
type ProductStat struct {
	ProductID string      `json:"productId"`
	Name      string      `json:"name"`
	SKU       string      `json:"sku"`
	TotalSold int64       `json:"totalSold"`
	Profit    types.Money `json:"profit"`
}

// PeriodStat is a year-month realized-profit bucket.
type PeriodStat struct {
	// Period is the bucket formatted as "2006-01".
	Period string      `json:"period"`
	Profit types.Money `json:"profit"`
}
