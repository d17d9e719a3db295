package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Aisprintone/Sparrow-sub003/internal/api/models"
	"github.com/Aisprintone/Sparrow-sub003/internal/market"
)

// RatesHandler exposes the cached market rates
type RatesHandler struct {
	provider *market.Provider
}

// NewRatesHandler creates a new rates handler
func NewRatesHandler(p *market.Provider) *RatesHandler {
	return &RatesHandler{provider: p}
}

// GetRates handles GET /api/v1/rates?symbols=savings_rate,borrow_rate
func (h *RatesHandler) GetRates(c *gin.Context) {
	raw := c.Query("symbols")
	if raw == "" {
		c.JSON(http.StatusBadRequest, models.NewError("INVALID_REQUEST", "symbols query parameter is required"))
		return
	}
	symbols := strings.Split(raw, ",")
	points := make([]market.Point, 0, len(symbols))
	for _, s := range symbols {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		points = append(points, h.provider.Point(c.Request.Context(), s))
	}
	c.JSON(http.StatusOK, gin.H{"rates": points})
}
