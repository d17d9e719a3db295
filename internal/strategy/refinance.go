package strategy

import (
	"github.com/Aisprintone/Sparrow-sub003/internal/model"
)

// refinanceCheck reprices debts against the prevailing borrow rate on
// the recertification interval: a debt refinances when the rate
// improvement clears the configured margin. It allocates no cash flow
// itself, so it composes ahead of a repayment strategy in a Chain.
type refinanceCheck struct{}

// NewRefinanceCheck returns the rate-refinement strategy.
func NewRefinanceCheck() Strategy { return &refinanceCheck{} }

func (s *refinanceCheck) Name() string { return "refinance_check" }

func (s *refinanceCheck) Step(state *model.TrialState, ctx Context) error {
	interval := ctx.Consts.IDRRecertInterval
	if interval <= 0 {
		interval = 12
	}
	if ctx.Period%interval != 1 {
		return nil
	}
	borrow := ctx.Consts.BorrowRate
	if borrow <= 0 {
		return nil
	}
	for i := range state.Debts {
		d := &state.Debts[i]
		if d.Balance <= ctx.Consts.DebtTolerance {
			continue
		}
		// Mortgages are excluded: closing costs dominate at this
		// modeling granularity.
		if d.Kind == model.DebtMortgage {
			continue
		}
		if d.AnnualRate-borrow >= ctx.Consts.RefinanceMinImprovement {
			d.AnnualRate = borrow
		}
	}
	return nil
}
