package handlers

import (
	"github.com/gin-gonic/gin"

	"balcao/internal/domain/stats"
	"balcao/internal/infrastructure/http/v1/dto"
)

// StatsHandler serves profit aggregation endpoints.
type StatsHandler struct {
	service *stats.Service
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(service *stats.Service) *StatsHandler {
	return &StatsHandler{service: service}
}

// Summary handles GET /api/v1/stats.
func (h *StatsHandler) Summary(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	summary, err := h.service.Summary(c.Request.Context(), owner)
	if err != nil {
		_ = c.Error(err)
		return
	}

	respondOK(c, dto.ToSummaryResponse(&summary))
}

// ByProduct handles GET /api/v1/stats/products.
func (h *StatsHandler) ByProduct(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	items, err := h.service.ProductStats(c.Request.Context(), owner)
	if err != nil {
		_ = c.Error(err)
		return
	}

	respondOK(c, dto.ToProductStatResponses(items))
}

// Monthly handles GET /api/v1/stats/monthly.
func (h *StatsHandler) Monthly(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	months := intQuery(c, "months", 6)
	if months > 36 {
		months = 36
	}

	items, err := h.service.MonthlyStats(c.Request.Context(), owner, months)
	if err != nil {
		_ = c.Error(err)
		return
	}

	respondOK(c, dto.ToPeriodStatResponses(items))
}
