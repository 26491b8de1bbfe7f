package dto

import (
	"github.com/shopspring/decimal"

	"balcao/internal/core/types"
	"balcao/internal/domain/stats"
)

type SummaryResponse struct {
	RealizedProfit decimal.Decimal `json:"realizedProfit"`
	PendingProfit  decimal.Decimal `json:"pendingProfit"`
}

type ProductStatResponse struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	SKU       string          `json:"sku"`
	TotalSold int64           `json:"totalSold"`
	Profit    decimal.Decimal `json:"profit"`
}

type PeriodStatResponse struct {
	Period string          `json:"period"`
	Profit decimal.Decimal `json:"profit"`
}

func ToSummaryResponse(s *stats.Summary) SummaryResponse {
	return SummaryResponse{
		RealizedProfit: types.Round2(s.RealizedProfit),
		PendingProfit:  types.Round2(s.PendingProfit),
	}
}

func ToProductStatResponses(items []stats.ProductStat) []ProductStatResponse {
	out := make([]ProductStatResponse, 0, len(items))
	for _, st := range items {
		out = append(out, ProductStatResponse{
			ProductID: st.ProductID,
			Name:      st.Name,
			SKU:       st.SKU,
			TotalSold: st.TotalSold,
			Profit:    types.Round2(st.Profit),
		})
	}
	return out
}

func ToPeriodStatResponses(items []stats.PeriodStat) []PeriodStatResponse {
	out := make([]PeriodStatResponse, 0, len(items))
	for _, st := range items {
		out = append(out, PeriodStatResponse{
			Period: st.Period,
			Profit: types.Round2(st.Profit),
		})
	}
	return out
}
