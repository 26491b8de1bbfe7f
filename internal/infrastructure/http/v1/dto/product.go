package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"balcao/internal/core/types"
	"balcao/internal/domain/catalog"
)

type CreateProductRequest struct {
	Name     string `json:"name" binding:"required"`
	SKU      string `json:"sku" binding:"required"`
	MinStock int64  `json:"minStock" binding:"gte=0"`
}

type UpdateSalePriceRequest struct {
	SalePrice float64 `json:"salePrice" binding:"gte=0"`
}

type ProductResponse struct {
	ID           string          `json:"id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	MinStock     int64           `json:"minStock"`
	CurrentStock int64           `json:"currentStock"`
	AverageCost  decimal.Decimal `json:"averageCost"`
	SalePrice    decimal.Decimal `json:"salePrice"`
	ExpiryDate   *time.Time      `json:"expiryDate,omitempty"`
	LowStock     bool            `json:"lowStock"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID.String(),
		SKU:          p.SKU,
		Name:         p.Name,
		MinStock:     p.MinStock,
		CurrentStock: p.CurrentStock,
		AverageCost:  types.Round2(p.AverageCost),
		SalePrice:    types.Round2(p.SalePrice),
		ExpiryDate:   p.ExpiryDate,
		LowStock:     p.BelowMinStock(),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func ToProductResponses(products []catalog.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, ToProductResponse(&products[i]))
	}
	return out
}
