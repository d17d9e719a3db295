package strategy

import (
	"github.com/Aisprintone/Sparrow-sub003/internal/model"
)

// withdrawalSequence covers expense shortfalls by drawing accounts in
// order: liquid savings, then taxable investments (a capital-gains
// event for the gains share of the draw), then retirement (ordinary
// income plus an early-withdrawal penalty). If every account runs dry
// the liquid balance goes negative, which the scenario's success
// predicate treats as insolvency.
type withdrawalSequence struct{}

// NewWithdrawalSequence returns the crisis withdrawal strategy.
func NewWithdrawalSequence() Strategy { return &withdrawalSequence{} }

func (s *withdrawalSequence) Name() string { return "withdrawal_sequence" }

func (s *withdrawalSequence) Step(state *model.TrialState, ctx Context) error {
	accrueInterest(state)

	ncf := state.NetCashFlow
	state.NetCashFlow = 0
	if ncf >= 0 {
		budget := payMinimums(state, ncf)
		state.LiquidBalance += budget
		return nil
	}

	shortfall := -ncf

	// 1. Liquid savings.
	draw := shortfall
	if state.LiquidBalance < draw {
		draw = state.LiquidBalance
	}
	if draw > 0 {
		state.LiquidBalance -= draw
		shortfall -= draw
	}

	// 2. Taxable investments.
	if shortfall > 0 && state.InvestmentBalance > 0 {
		draw = shortfall
		if state.InvestmentBalance < draw {
			draw = state.InvestmentBalance
		}
		state.InvestmentBalance -= draw
		state.TaxableCapitalGains += draw * ctx.Consts.CapitalGainsShare
		shortfall -= draw
	}

	// 3. Retirement, with penalty.
	if shortfall > 0 && state.RetirementBalance > 0 {
		draw = shortfall
		if state.RetirementBalance < draw {
			draw = state.RetirementBalance
		}
		state.RetirementBalance -= draw
		state.TaxableOrdinary += draw
		state.PenaltyDue += draw * ctx.Consts.RetirementPenaltyRate
		shortfall -= draw
	}

	// Anything left is uncovered; carry it as negative liquid.
	if shortfall > 0 {
		state.LiquidBalance -= shortfall
	}
	return nil
}
