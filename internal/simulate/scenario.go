package simulate

import (
	"fmt"
	"sort"

	"github.com/Aisprintone/Sparrow-sub003/internal/model"
)

// scenarioDef describes one scenario type: how its target is derived,
// what shock it injects into a trial, when a trial counts as having
// succeeded, and which outcome metric the aggregate summarizes.
//
// New scenario types register here; the trial loop never branches on the
// scenario name.
type scenarioDef struct {
	defaultStrategy string

	// target derives the scenario's success target from the profile and
	// parameters. Zero when the success predicate needs no target.
	target func(p model.ProfileSnapshot, params *model.ScenarioParameters) float64

	// hook mutates trial state for scenario shocks (income drop, crash
	// drawdown) and returns any one-time extra expense for the period.
	// It runs before the period's cash flow is computed. Nil means no
	// shock.
	hook func(state *model.TrialState, period int, params *model.ScenarioParameters)

	// extraExpense is a one-time expense injected at the given period.
	extraExpense func(period int, params *model.ScenarioParameters) float64

	// succeeded reports whether the target condition holds. Reaching the
	// target exactly counts as success at that period.
	succeeded func(state *model.TrialState, target, tol float64, params *model.ScenarioParameters) bool

	// outcome is the numeric metric the aggregator summarizes.
	outcome func(state *model.TrialState) float64
}

var scenarios = map[model.ScenarioType]scenarioDef{
	model.ScenarioEmergencyFund: {
		defaultStrategy: "steady_contribution",
		target: func(p model.ProfileSnapshot, params *model.ScenarioParameters) float64 {
			if params.TargetAmount > 0 {
				return params.TargetAmount
			}
			return float64(params.TargetMonths) * p.MonthlyExpenses
		},
		succeeded: func(state *model.TrialState, target, _ float64, _ *model.ScenarioParameters) bool {
			return state.LiquidBalance >= target
		},
		outcome: func(state *model.TrialState) float64 { return state.LiquidBalance },
	},

	model.ScenarioDebtPayoff: {
		defaultStrategy: "avalanche",
		target:          func(model.ProfileSnapshot, *model.ScenarioParameters) float64 { return 0 },
		succeeded: func(state *model.TrialState, _, tol float64, _ *model.ScenarioParameters) bool {
			return state.TotalDebt() <= tol
		},
		outcome: func(state *model.TrialState) float64 { return state.NetWorth() },
	},

	model.ScenarioJobLoss: {
		defaultStrategy: "withdrawal_sequence",
		target:          func(model.ProfileSnapshot, *model.ScenarioParameters) float64 { return 0 },
		hook: func(state *model.TrialState, period int, params *model.ScenarioParameters) {
			if period <= params.IncomeDropMonths {
				state.MonthlyIncome = 0
			} else {
				state.MonthlyIncome = state.BaseIncome
			}
		},
		// Survived the gap: income is back and the household is solvent.
		succeeded: func(state *model.TrialState, _, _ float64, params *model.ScenarioParameters) bool {
			return state.Period >= params.IncomeDropMonths && state.LiquidBalance >= 0
		},
		outcome: func(state *model.TrialState) float64 { return state.NetWorth() },
	},

	model.ScenarioMedicalCrisis: {
		defaultStrategy: "withdrawal_sequence",
		target:          func(model.ProfileSnapshot, *model.ScenarioParameters) float64 { return 0 },
		extraExpense: func(period int, params *model.ScenarioParameters) float64 {
			if period == 1 {
				return params.EmergencyExpense
			}
			return 0
		},
		// Solvent once the shock has been absorbed.
		succeeded: func(state *model.TrialState, _, _ float64, _ *model.ScenarioParameters) bool {
			return state.LiquidBalance >= 0
		},
		outcome: func(state *model.TrialState) float64 { return state.NetWorth() },
	},

	model.ScenarioMarketCrash: {
		defaultStrategy: "steady_contribution",
		// Recovery target: the pre-crash investable position.
		target: func(p model.ProfileSnapshot, params *model.ScenarioParameters) float64 {
			if params.TargetAmount > 0 {
				return params.TargetAmount
			}
			return p.LiquidBalance + p.InvestmentBalance
		},
		hook: func(state *model.TrialState, period int, params *model.ScenarioParameters) {
			if period == 1 {
				state.InvestmentBalance *= 1 - params.CrashDrawdown
			}
		},
		succeeded: func(state *model.TrialState, target, _ float64, _ *model.ScenarioParameters) bool {
			return state.LiquidBalance+state.InvestmentBalance >= target
		},
		outcome: func(state *model.TrialState) float64 {
			return state.LiquidBalance + state.InvestmentBalance
		},
	},
}

// ScenarioTypes lists the supported scenario types, sorted.
func ScenarioTypes() []model.ScenarioType {
	out := make([]model.ScenarioType, 0, len(scenarios))
	for t := range scenarios {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func lookupScenario(t model.ScenarioType) (scenarioDef, error) {
	def, ok := scenarios[t]
	if !ok {
		return scenarioDef{}, fmt.Errorf("unknown scenario type %q", t)
	}
	return def, nil
}
