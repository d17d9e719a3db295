package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Aisprintone/Sparrow-sub003/internal/api/models"
	"github.com/Aisprintone/Sparrow-sub003/internal/config"
	"github.com/Aisprintone/Sparrow-sub003/internal/market"
	"github.com/Aisprintone/Sparrow-sub003/internal/simulate"
	"github.com/Aisprintone/Sparrow-sub003/internal/strategy"
)

// SimulationHandler handles simulation requests
type SimulationHandler struct {
	store    *config.Store
	market   *market.Provider
	registry *strategy.Registry
}

// NewSimulationHandler creates a new simulation handler
func NewSimulationHandler(store *config.Store, m *market.Provider, r *strategy.Registry) *SimulationHandler {
	return &SimulationHandler{store: store, market: m, registry: r}
}

// RunSimulation handles POST /api/v1/simulate
func (h *SimulationHandler) RunSimulation(c *gin.Context) {
	var req models.SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewError("INVALID_REQUEST", err.Error()))
		return
	}

	ps, err := h.store.Set(req.ParameterSet)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewError("UNKNOWN_PARAMETER_SET", err.Error()))
		return
	}

	engine := simulate.NewEngine(ps, h.market, h.registry)
	engine.IncludeTrajectories = req.Options.IncludeTrajectories

	result, err := engine.Run(c.Request.Context(), req.ToModel())
	if err != nil {
		switch {
		case errors.Is(err, strategy.ErrUnknownStrategy):
			c.JSON(http.StatusBadRequest, models.NewError("UNKNOWN_STRATEGY", err.Error()))
		case errors.Is(err, config.ErrConfigMissing):
			c.JSON(http.StatusInternalServerError, models.NewError("CONFIG_MISSING", err.Error()))
		default:
			// Remaining run errors are request-shaped: bad scenario
			// type or parameters.
			c.JSON(http.StatusBadRequest, models.NewError("INVALID_REQUEST", err.Error()))
		}
		return
	}

	log.Printf("[API] simulate %s/%s: %d/%d trials, success=%.3f, partial=%v",
		result.ScenarioType, result.StrategyID,
		result.IterationsCompleted, result.IterationsRequested,
		result.SuccessRate, result.Partial)
	c.JSON(http.StatusOK, result)
}
