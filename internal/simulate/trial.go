package simulate

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/Aisprintone/Sparrow-sub003/internal/model"
	"github.com/Aisprintone/Sparrow-sub003/internal/strategy"
	"github.com/Aisprintone/Sparrow-sub003/internal/tax"
)

// runInputs are the per-run inputs shared by every trial: resolved
// rates, configuration constants, and the validated tax calculator.
// Built once per run, read-only during trials.
type runInputs struct {
	mu             float64 // per-period return mean
	sigma          float64 // per-period return stddev
	savingsMonthly float64 // monthly yield on liquid savings

	consts strategy.Constants

	distressReduction float64
	crisisReduction   float64

	sanitizeBound float64
	tol           float64
	target        float64

	taxes  *tax.Calculator
	filing model.FilingStatus

	collectTrajectory bool
}

// runTrial executes one Monte Carlo path. Each trial owns its random
// source (seeded deterministically by the engine) and its cloned state;
// nothing here touches shared mutable data.
func runTrial(seed uint64, def scenarioDef, profile model.ProfileSnapshot, params *model.ScenarioParameters, strat strategy.Strategy, in runInputs) model.SimulationTrial {
	dist := distuv.Normal{Mu: in.mu, Sigma: in.sigma, Src: rand.NewSource(seed)}
	state := model.NewTrialState(profile)
	trial := model.SimulationTrial{PeriodsToTarget: model.PeriodsNotReached}
	if in.collectTrajectory {
		trial.Periods = make([]model.PeriodSnapshot, 0, params.HorizonPeriods)
	}

	for period := 1; period <= params.HorizonPeriods; period++ {
		state.Period = period

		// Market perturbation for the period.
		r := dist.Rand()
		if state.InvestmentBalance > 0 {
			state.InvestmentBalance *= 1 + r
		}
		if state.RetirementBalance > 0 {
			state.RetirementBalance *= 1 + r
		}
		if state.LiquidBalance > 0 {
			state.LiquidBalance *= 1 + in.savingsMonthly
		}

		if def.hook != nil {
			def.hook(&state, period, params)
		}
		extra := 0.0
		if def.extraExpense != nil {
			extra = def.extraExpense(period, params)
		}

		// Behavioral adjustment: households under distress trim
		// discretionary spending; insolvent ones cut deeper. Reductions
		// apply to the base level each period so they never compound.
		state.MonthlyExpenses = state.BaseExpenses
		state.InDistress = state.LiquidBalance < state.BaseExpenses
		switch {
		case state.LiquidBalance <= 0:
			state.MonthlyExpenses *= 1 - in.crisisReduction
		case state.InDistress:
			state.MonthlyExpenses *= 1 - in.distressReduction
		}

		state.NetCashFlow = state.MonthlyIncome - state.MonthlyExpenses - extra

		if err := strat.Step(&state, strategy.Context{Period: period, Params: params, Consts: in.consts}); err != nil {
			// A strategy error poisons only this trial.
			trial.Sanitized = true
			break
		}

		settleTaxes(&state, in)
		sanitizeState(&state, in.sanitizeBound, &trial)

		if in.collectTrajectory {
			trial.Periods = append(trial.Periods, model.PeriodSnapshot{
				Period:        period,
				LiquidBalance: state.LiquidBalance,
				Investment:    state.InvestmentBalance,
				DebtRemaining: state.TotalDebt(),
				CumulativeTax: state.CumulativeTax,
			})
		}

		if trial.PeriodsToTarget == model.PeriodsNotReached &&
			def.succeeded(&state, in.target, in.tol, params) {
			trial.Succeeded = true
			trial.PeriodsToTarget = period
			// Early exit is an optimization only; trajectories keep
			// recording so downstream statistics see full paths.
			if !in.collectTrajectory {
				break
			}
		}
	}

	trial.EndingBalance = def.outcome(&state)
	trial.DebtRemaining = state.TotalDebt()
	trial.CumulativeTax = state.CumulativeTax
	if !isFinite(trial.EndingBalance) {
		trial.EndingBalance = clampTo(trial.EndingBalance, in.sanitizeBound)
		trial.Sanitized = true
	}
	return trial
}

// settleTaxes converts the period's taxable accumulators into a
// liability, charges it (plus any penalty) to liquid savings, and resets
// the accumulators.
func settleTaxes(state *model.TrialState, in runInputs) {
	owed := state.PenaltyDue
	if state.TaxableOrdinary > 0 {
		if t, err := in.taxes.Tax(state.TaxableOrdinary, in.filing, tax.IncomeOrdinary); err == nil {
			owed += t
		}
	}
	if state.TaxableCapitalGains > 0 {
		if t, err := in.taxes.Tax(state.TaxableCapitalGains, in.filing, tax.IncomeCapitalGains); err == nil {
			owed += t
		}
	}
	if state.TaxableForgiveness > 0 {
		if t, err := in.taxes.Tax(state.TaxableForgiveness, in.filing, tax.IncomeForgiveness); err == nil {
			owed += t
		}
	}
	if owed > 0 {
		state.LiquidBalance -= owed
		state.CumulativeTax += owed
	}
	state.TaxableOrdinary = 0
	state.TaxableCapitalGains = 0
	state.TaxableForgiveness = 0
	state.PenaltyDue = 0
}

// sanitizeState clamps non-finite or runaway balances to the configured
// bound and flags the trial rather than letting NaN reach aggregation.
func sanitizeState(state *model.TrialState, bound float64, trial *model.SimulationTrial) {
	fields := []*float64{
		&state.LiquidBalance,
		&state.InvestmentBalance,
		&state.RetirementBalance,
		&state.CumulativeTax,
	}
	for _, f := range fields {
		if isFinite(*f) && math.Abs(*f) <= bound {
			continue
		}
		*f = clampTo(*f, bound)
		trial.Sanitized = true
	}
	for i := range state.Debts {
		b := &state.Debts[i].Balance
		if isFinite(*b) && math.Abs(*b) <= bound {
			continue
		}
		*b = clampTo(*b, bound)
		trial.Sanitized = true
	}
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// clampTo maps a non-finite or out-of-range value to ±bound (NaN maps
// to zero).
func clampTo(x, bound float64) float64 {
	switch {
	case math.IsNaN(x):
		return 0
	case x > bound:
		return bound
	case x < -bound:
		return -bound
	default:
		return x
	}
}
