package handlers

import (
	"github.com/gin-gonic/gin"

	"balcao/internal/core/types"
	"balcao/internal/domain/ledger"
	"balcao/internal/domain/receivables"
	"balcao/internal/domain/stats"
	"balcao/internal/infrastructure/http/v1/dto"
)

// MovementHandler serves ledger and receivables endpoints. Write paths drop
// the owner's cached summary after committing.
type MovementHandler struct {
	ledger      *ledger.Service
	receivables *receivables.Service
	stats       *stats.Service
}

// NewMovementHandler creates a new movement handler.
func NewMovementHandler(ledgerSvc *ledger.Service, recvSvc *receivables.Service, statsSvc *stats.Service) *MovementHandler {
	return &MovementHandler{
		ledger:      ledgerSvc,
		receivables: recvSvc,
		stats:       statsSvc,
	}
}

// RecordEntry handles POST /api/v1/movements/entry.
func (h *MovementHandler) RecordEntry(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	var req dto.EntryRequest
	if !bindJSON(c, &req) {
		return
	}
	productID, ok := parseRequestID(c, req.ProductID, "productId")
	if !ok {
		return
	}

	mv, err := h.ledger.RecordEntry(c.Request.Context(), ledger.EntryInput{
		OwnerID:    owner,
		ProductID:  productID,
		Quantity:   req.Quantity,
		UnitCost:   types.NewMoney(req.UnitCost),
		ExpiryDate: req.ExpiryDate,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	h.stats.Invalidate(c.Request.Context(), owner)
	respondCreated(c, dto.ToMovementResponse(mv))
}

// RecordExit handles POST /api/v1/movements/exit.
func (h *MovementHandler) RecordExit(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	var req dto.ExitRequest
	if !bindJSON(c, &req) {
		return
	}
	productID, ok := parseRequestID(c, req.ProductID, "productId")
	if !ok {
		return
	}

	mv, err := h.ledger.RecordExit(c.Request.Context(), ledger.ExitInput{
		OwnerID:    owner,
		ProductID:  productID,
		Quantity:   req.Quantity,
		UnitPrice:  types.NewMoney(req.UnitPrice),
		Status:     ledger.PaymentStatus(req.Status),
		ClientName: req.ClientName,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	h.stats.Invalidate(c.Request.Context(), owner)
	respondCreated(c, dto.ToMovementResponse(mv))
}

// ListByProduct handles GET /api/v1/products/:id/movements.
func (h *MovementHandler) ListByProduct(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	filter := ledger.ListFilter{
		Limit:  intQuery(c, "limit", 50),
		Offset: intQuery(c, "offset", 0),
	}
	if raw := c.Query("type"); raw != "" {
		t := ledger.MovementType(raw)
		filter.Type = &t
	}

	movements, err := h.ledger.ListByProduct(c.Request.Context(), owner, productID, filter)
	if err != nil {
		_ = c.Error(err)
		return
	}

	respondOK(c, dto.ToMovementResponses(movements))
}

// RecordPayment handles POST /api/v1/movements/:id/payment.
func (h *MovementHandler) RecordPayment(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	movementID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.PaymentRequest
	if !bindJSON(c, &req) {
		return
	}

	var amount *types.Money
	if req.Amount != nil {
		m := types.NewMoney(*req.Amount)
		amount = &m
	}

	result, err := h.receivables.RecordPayment(c.Request.Context(), owner, movementID, amount)
	if err != nil {
		_ = c.Error(err)
		return
	}

	h.stats.Invalidate(c.Request.Context(), owner)
	respondOK(c, dto.ToPaymentResponse(&result))
}

// ListReceivables handles GET /api/v1/receivables.
func (h *MovementHandler) ListReceivables(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	items, err := h.receivables.ListReceivables(c.Request.Context(), owner)
	if err != nil {
		_ = c.Error(err)
		return
	}

	respondOK(c, dto.ToReceivableResponses(items))
}
