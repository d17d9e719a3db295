package strategy

import (
	"github.com/Aisprintone/Sparrow-sub003/internal/model"
)

// steadyContribution builds an emergency fund with a fixed monthly
// contribution to liquid savings; cash flow beyond the contribution
// goes to taxable investments. With no configured contribution the
// whole surplus goes to savings.
type steadyContribution struct{}

// NewSteadyContribution returns the emergency-fund building strategy.
func NewSteadyContribution() Strategy { return &steadyContribution{} }

func (s *steadyContribution) Name() string { return "steady_contribution" }

func (s *steadyContribution) Step(state *model.TrialState, ctx Context) error {
	accrueInterest(state)

	budget, ok := takeCashFlow(state)
	if !ok {
		return nil
	}
	budget = payMinimums(state, budget)

	contribution := ctx.Params.MonthlyContribution
	if contribution <= 0 || contribution > budget {
		contribution = budget
	}
	state.LiquidBalance += contribution
	state.InvestmentBalance += budget - contribution
	return nil
}
