package strategy

import (
	"github.com/Aisprintone/Sparrow-sub003/internal/model"
)

// pickTarget selects the index of the next debt to receive extra
// payment, or -1 when nothing remains above tolerance.
type pickTarget func(debts []model.DebtAccount, tol float64) int

// debtPayoff is the shared skeleton for ordering-based payoff
// strategies: accrue interest, pay minimums, then direct every spare
// dollar at one target debt chosen by the ordering.
type debtPayoff struct {
	name string
	pick pickTarget
}

// NewAvalanche targets the highest interest rate first.
func NewAvalanche() Strategy {
	return &debtPayoff{name: "avalanche", pick: func(debts []model.DebtAccount, tol float64) int {
		best := -1
		for i := range debts {
			if debts[i].Balance <= tol {
				continue
			}
			if best == -1 || debts[i].AnnualRate > debts[best].AnnualRate {
				best = i
			}
		}
		return best
	}}
}

// NewSnowball targets the smallest balance first.
func NewSnowball() Strategy {
	return &debtPayoff{name: "snowball", pick: func(debts []model.DebtAccount, tol float64) int {
		best := -1
		for i := range debts {
			if debts[i].Balance <= tol {
				continue
			}
			if best == -1 || debts[i].Balance < debts[best].Balance {
				best = i
			}
		}
		return best
	}}
}

// NewMinimumOnly pays only minimums; the surplus accumulates in liquid
// savings. Useful as a comparison baseline.
func NewMinimumOnly() Strategy {
	return &debtPayoff{name: "minimum_only", pick: func([]model.DebtAccount, float64) int { return -1 }}
}

func (d *debtPayoff) Name() string { return d.name }

func (d *debtPayoff) Step(state *model.TrialState, ctx Context) error {
	accrueInterest(state)

	budget, ok := takeCashFlow(state)
	if !ok {
		return nil
	}
	budget = payMinimums(state, budget)

	tol := ctx.Consts.DebtTolerance
	for budget > 0 {
		i := d.pick(state.Debts, tol)
		if i < 0 {
			break
		}
		pay := budget
		if state.Debts[i].Balance < pay {
			pay = state.Debts[i].Balance
		}
		state.Debts[i].Balance -= pay
		budget -= pay
	}

	// Whatever the debts did not absorb builds savings.
	state.LiquidBalance += budget
	return nil
}

// accrueInterest applies one month of interest to every open debt.
func accrueInterest(state *model.TrialState) {
	for i := range state.Debts {
		if state.Debts[i].Balance <= 0 {
			continue
		}
		state.Debts[i].Balance *= 1 + state.Debts[i].AnnualRate/12
	}
}

// takeCashFlow consumes the period's net cash flow. A shortfall is
// charged to liquid savings immediately and yields no payment budget.
func takeCashFlow(state *model.TrialState) (float64, bool) {
	ncf := state.NetCashFlow
	state.NetCashFlow = 0
	if ncf < 0 {
		state.LiquidBalance += ncf
		return 0, false
	}
	return ncf, true
}

// payMinimums pays each debt's minimum (capped by balance and budget)
// and returns the remaining budget.
func payMinimums(state *model.TrialState, budget float64) float64 {
	for i := range state.Debts {
		if budget <= 0 {
			return 0
		}
		d := &state.Debts[i]
		if d.Balance <= 0 {
			continue
		}
		pay := d.MinimumPayment
		if d.Balance < pay {
			pay = d.Balance
		}
		if budget < pay {
			pay = budget
		}
		d.Balance -= pay
		budget -= pay
	}
	return budget
}
