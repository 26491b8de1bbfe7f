package handlers

import (
	"github.com/gin-gonic/gin"

	"balcao/internal/core/types"
	"balcao/internal/domain/catalog"
	"balcao/internal/infrastructure/http/v1/dto"
)

// ProductHandler serves catalog endpoints.
type ProductHandler struct {
	service *catalog.Service
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service *catalog.Service) *ProductHandler {
	return &ProductHandler{service: service}
}

// Create handles POST /api/v1/products.
func (h *ProductHandler) Create(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	var req dto.CreateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.service.Create(c.Request.Context(), catalog.CreateInput{
		OwnerID:  owner,
		Name:     req.Name,
		SKU:      req.SKU,
		MinStock: req.MinStock,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	respondCreated(c, dto.ToProductResponse(p))
}

// List handles GET /api/v1/products.
func (h *ProductHandler) List(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	filter := catalog.ListFilter{
		Search: c.Query("search"),
		Limit:  intQuery(c, "limit", 50),
		Offset: intQuery(c, "offset", 0),
	}

	products, err := h.service.List(c.Request.Context(), owner, filter)
	if err != nil {
		_ = c.Error(err)
		return
	}

	respondOK(c, dto.ToProductResponses(products))
}

// Get handles GET /api/v1/products/:id.
func (h *ProductHandler) Get(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), owner, productID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	respondOK(c, dto.ToProductResponse(p))
}

// UpdateSalePrice handles PATCH /api/v1/products/:id/price.
func (h *ProductHandler) UpdateSalePrice(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateSalePriceRequest
	if !bindJSON(c, &req) {
		return
	}

	price := types.NewMoney(req.SalePrice)
	if err := h.service.UpdateSalePrice(c.Request.Context(), owner, productID, price); err != nil {
		_ = c.Error(err)
		return
	}

	respondOK(c, dto.SuccessResponse{Success: true})
}

// Delete handles DELETE /api/v1/products/:id.
func (h *ProductHandler) Delete(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), owner, productID); err != nil {
		_ = c.Error(err)
		return
	}

	respondNoContent(c)
}

// LowStock handles GET /api/v1/products/low-stock.
func (h *ProductHandler) LowStock(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	products, err := h.service.FindLowStock(c.Request.Context(), owner)
	if err != nil {
		_ = c.Error(err)
		return
	}

	respondOK(c, dto.ToProductResponses(products))
}
