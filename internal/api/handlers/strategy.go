package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Aisprintone/Sparrow-sub003/internal/api/models"
	"github.com/Aisprintone/Sparrow-sub003/internal/simulate"
	"github.com/Aisprintone/Sparrow-sub003/internal/strategy"
)

var strategyDescriptions = map[string]string{
	"avalanche":               "Pays debt minimums, then targets the highest interest rate first.",
	"snowball":                "Pays debt minimums, then targets the smallest balance first.",
	"minimum_only":            "Pays only debt minimums; the surplus builds savings. Comparison baseline.",
	"steady_contribution":     "Fixed monthly contribution to liquid savings; the remainder goes to investments.",
	"income_driven":           "Income-driven student loan repayment with annual recertification and end-of-horizon forgiveness.",
	"withdrawal_sequence":     "Covers shortfalls by drawing liquid, then investments, then retirement (with penalty).",
	"refinance_check":         "Reprices debts against the prevailing borrow rate on the recertification interval.",
	"income_driven_refinance": "Refinance check composed ahead of income-driven repayment each period.",
}

var scenarioDescriptions = map[string]string{
	"emergency_fund": "Build liquid savings to a target number of months of expenses.",
	"debt_payoff":    "Pay all debts down to zero within the horizon.",
	"job_loss":       "Survive a period of zero income without going insolvent.",
	"medical_crisis": "Absorb a one-time medical expense shock.",
	"market_crash":   "Recover the pre-crash investable position after a drawdown.",
}

// CatalogHandler lists the registered strategies and scenario types
type CatalogHandler struct {
	registry *strategy.Registry
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(r *strategy.Registry) *CatalogHandler {
	return &CatalogHandler{registry: r}
}

// ListStrategies handles GET /api/v1/strategies
func (h *CatalogHandler) ListStrategies(c *gin.Context) {
	ids := h.registry.IDs()
	out := make([]models.StrategyInfo, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.StrategyInfo{ID: id, Description: strategyDescriptions[id]})
	}
	c.JSON(http.StatusOK, gin.H{"strategies": out})
}

// ListScenarios handles GET /api/v1/scenarios
func (h *CatalogHandler) ListScenarios(c *gin.Context) {
	types := simulate.ScenarioTypes()
	out := make([]models.ScenarioInfo, 0, len(types))
	for _, t := range types {
		out = append(out, models.ScenarioInfo{Type: string(t), Description: scenarioDescriptions[string(t)]})
	}
	c.JSON(http.StatusOK, gin.H{"scenarios": out})
}
