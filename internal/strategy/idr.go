package strategy

import (
	"github.com/Aisprintone/Sparrow-sub003/internal/model"
)

// incomeDriven models income-driven repayment of student loans: the
// payment is a fixed share of discretionary income (income above a
// multiple of the poverty guideline), recertified on a fixed interval,
// with the remaining balance forgiven after the configured repayment
// horizon. Forgiveness is a taxable event recorded on the trial state.
type incomeDriven struct{}

// NewIncomeDriven returns the income-driven repayment strategy.
func NewIncomeDriven() Strategy { return &incomeDriven{} }

func (s *incomeDriven) Name() string { return "income_driven" }

func (s *incomeDriven) Step(state *model.TrialState, ctx Context) error {
	accrueInterest(state)
	state.PeriodsInRepayment++

	c := ctx.Consts
	interval := c.IDRRecertInterval
	if interval <= 0 {
		interval = 12
	}
	// Recertify on entry and then once per interval, against the income
	// the borrower actually has at that point in the trial.
	if (state.PeriodsInRepayment-1)%interval == 0 {
		annualIncome := state.MonthlyIncome * 12
		discretionary := annualIncome - c.IDRPovertyMultiplier*c.PovertyGuidelineAnnual
		if discretionary < 0 {
			discretionary = 0
		}
		state.IDRPayment = discretionary * c.IDRDiscretionaryRate / 12
	}

	budget, ok := takeCashFlow(state)
	if ok {
		// Student loans get the IDR payment; everything else gets its
		// minimum.
		idrBudget := state.IDRPayment
		if idrBudget > budget {
			idrBudget = budget
		}
		budget -= idrBudget
		for i := range state.Debts {
			d := &state.Debts[i]
			if d.Kind != model.DebtStudentLoan || d.Balance <= 0 {
				continue
			}
			pay := idrBudget
			if d.Balance < pay {
				pay = d.Balance
			}
			d.Balance -= pay
			idrBudget -= pay
		}
		budget += idrBudget
		budget = payOtherMinimums(state, budget)
		state.LiquidBalance += budget
	}

	// Forgiveness: after the repayment horizon, the remaining student
	// balance is wiped and counted as forgiveness income for tax.
	if c.IDRForgivenessPeriods > 0 && state.PeriodsInRepayment >= c.IDRForgivenessPeriods {
		for i := range state.Debts {
			d := &state.Debts[i]
			if d.Kind != model.DebtStudentLoan || d.Balance <= c.DebtTolerance {
				continue
			}
			state.TaxableForgiveness += d.Balance
			d.Balance = 0
		}
	}
	return nil
}

// payOtherMinimums pays minimums on every non-student debt.
func payOtherMinimums(state *model.TrialState, budget float64) float64 {
	for i := range state.Debts {
		if budget <= 0 {
			return 0
		}
		d := &state.Debts[i]
		if d.Kind == model.DebtStudentLoan || d.Balance <= 0 {
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
