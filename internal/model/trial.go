package model

// PeriodsNotReached is the PeriodsToTarget value for a trial whose
// horizon was exhausted before the success condition was met.
const PeriodsNotReached = -1

// TrialState is the mutable per-trial state threaded through every
// strategy step. Each trial owns its own copy; nothing here is shared.
type TrialState struct {
	Period int

	LiquidBalance     float64
	InvestmentBalance float64
	RetirementBalance float64
	Debts             []DebtAccount

	MonthlyIncome   float64
	MonthlyExpenses float64
	// BaseIncome and BaseExpenses preserve the profile's unadjusted
	// levels so scenario shocks and behavioral reductions never
	// compound period over period.
	BaseIncome   float64
	BaseExpenses float64

	// NetCashFlow is this period's income minus adjusted expenses,
	// computed by the engine before the strategy step. Strategies
	// allocate it (payments, contributions) or cover its shortfall
	// (withdrawals).
	NetCashFlow float64

	InDistress    bool
	CumulativeTax float64

	// Taxable accumulators for the current period. Strategies record
	// taxable events here; the engine converts them to a liability at
	// the end of the period and resets them.
	TaxableOrdinary     float64
	TaxableCapitalGains float64
	TaxableForgiveness  float64
	PenaltyDue          float64

	// Income-driven repayment bookkeeping.
	IDRPayment         float64
	PeriodsInRepayment int
}

// NewTrialState clones the profile into fresh mutable state.
func NewTrialState(p ProfileSnapshot) TrialState {
	debts := make([]DebtAccount, len(p.Debts))
	copy(debts, p.Debts)
	return TrialState{
		LiquidBalance:     p.LiquidBalance,
		InvestmentBalance: p.InvestmentBalance,
		RetirementBalance: p.RetirementBalance,
		Debts:             debts,
		MonthlyIncome:     p.MonthlyIncome,
		MonthlyExpenses:   p.MonthlyExpenses,
		BaseIncome:        p.MonthlyIncome,
		BaseExpenses:      p.MonthlyExpenses,
	}
}

// TotalDebt sums remaining debt balances.
func (s *TrialState) TotalDebt() float64 {
	total := 0.0
	for i := range s.Debts {
		total += s.Debts[i].Balance
	}
	return total
}

// NetWorth is liquid + investment + retirement - debt.
func (s *TrialState) NetWorth() float64 {
	return s.LiquidBalance + s.InvestmentBalance + s.RetirementBalance - s.TotalDebt()
}

// PeriodSnapshot is one row of a trial's trajectory.
type PeriodSnapshot struct {
	Period        int     `json:"period"`
	LiquidBalance float64 `json:"liquid_balance"`
	Investment    float64 `json:"investment_balance"`
	DebtRemaining float64 `json:"debt_remaining"`
	CumulativeTax float64 `json:"cumulative_tax"`
}

// SimulationTrial is one completed Monte Carlo path.
type SimulationTrial struct {
	Periods []PeriodSnapshot `json:"periods,omitempty"`

	EndingBalance float64 `json:"ending_balance"`
	DebtRemaining float64 `json:"debt_remaining"`
	CumulativeTax float64 `json:"cumulative_tax"`

	Succeeded       bool `json:"succeeded"`
	PeriodsToTarget int  `json:"periods_to_target"` // PeriodsNotReached when never met
	Sanitized       bool `json:"sanitized"`
}
