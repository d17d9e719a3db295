package simulate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aisprintone/Sparrow-sub003/internal/config"
	"github.com/Aisprintone/Sparrow-sub003/internal/market"
	"github.com/Aisprintone/Sparrow-sub003/internal/model"
	"github.com/Aisprintone/Sparrow-sub003/internal/strategy"
	"github.com/Aisprintone/Sparrow-sub003/internal/tax"
)

func testStore(t *testing.T) *config.Store {
	t.Helper()
	ordinary := tax.Table{
		{Lower: 0, Upper: 11600, Rate: 0.10},
		{Lower: 11600, Upper: 47150, Rate: 0.12},
		{Lower: 47150, Upper: 0, Rate: 0.22},
	}
	gains := tax.Table{
		{Lower: 0, Upper: 47025, Rate: 0.00},
		{Lower: 47025, Upper: 0, Rate: 0.15},
	}
	doc := config.Document{
		Version: "test.1",
		ParameterSets: map[string]config.ParameterSetDoc{
			config.DefaultSet: {
				Constants: map[string]float64{
					config.KeyDistressExpenseReduction: 0.12,
					config.KeyCrisisExpenseReduction:   0.25,
					config.KeyDebtBalanceTolerance:     0.01,
					config.KeyIDRDiscretionaryRate:     0.10,
					config.KeyIDRPovertyMultiplier:     1.5,
					config.KeyIDRForgivenessPeriods:    240,
					config.KeyIDRRecertInterval:        12,
					config.KeyRetirementPenaltyRate:    0.10,
					config.KeyCapitalGainsShare:        0.50,
					config.KeyRefinanceMinImprovement:  0.015,
					config.KeyDefaultSavingsRate:       0.042,
					config.KeyDefaultBorrowRate:        0.065,
					config.KeySanitizeBound:            1e12,
				},
				Tax: map[tax.IncomeType]map[model.FilingStatus]tax.Table{
					tax.IncomeOrdinary:     {model.FilingSingle: ordinary},
					tax.IncomeCapitalGains: {model.FilingSingle: gains},
					tax.IncomeForgiveness:  {model.FilingSingle: ordinary},
				},
				Poverty: config.PovertyGuideline{Base: 15060, PerPerson: 5380},
				Risk: map[model.RiskPosture]config.RiskParams{
					model.RiskConservative: {Mean: 0.0025, StdDev: 0.006},
					model.RiskModerate:     {Mean: 0.0050, StdDev: 0.012},
					model.RiskGrowth:       {Mean: 0.0075, StdDev: 0.025},
				},
			},
		},
	}
	store, err := config.New(doc)
	require.NoError(t, err)
	return store
}

func testEngine(t *testing.T) *Engine {
	t.Helper()
	store := testStore(t)
	ps, err := store.Set(config.DefaultSet)
	require.NoError(t, err)
	provider := market.NewProvider(nil, MarketDefaults(ps), market.DefaultTTL)
	return NewEngine(ps, provider, strategy.DefaultRegistry())
}

func emergencyFundRequest(iterations int) model.SimulationRequest {
	return model.SimulationRequest{
		Profile: model.ProfileSnapshot{
			MonthlyIncome:   2600,
			MonthlyExpenses: 2000,
			LiquidBalance:   2000,
			FilingStatus:    model.FilingSingle,
			HouseholdSize:   1,
		},
		ScenarioType: model.ScenarioEmergencyFund,
		Params: model.ScenarioParameters{
			TargetMonths:        6, // 12000 at 2000/month expenses
			MonthlyContribution: 500,
			HorizonPeriods:      60,
			Iterations:          iterations,
			RiskPosture:         model.RiskConservative,
			Seed:                42,
		},
	}
}

func TestRun_EmergencyFundReachesTarget(t *testing.T) {
	engine := testEngine(t)
	res, err := engine.Run(context.Background(), emergencyFundRequest(10000))
	require.NoError(t, err)

	assert.Equal(t, model.ScenarioEmergencyFund, res.ScenarioType)
	assert.Equal(t, "steady_contribution", res.StrategyID)
	assert.Equal(t, 10000, res.IterationsCompleted)
	assert.False(t, res.Partial)

	// $10,000 to go at $500/month puts the deterministic estimate at 20
	// periods; savings yield pulls it slightly forward.
	assert.Greater(t, res.SuccessRate, 0.9)
	assert.InDelta(t, 20, res.PeriodsToTarget.P50, 3)

	assert.LessOrEqual(t, res.Percentiles.P10, res.Percentiles.P25)
	assert.LessOrEqual(t, res.Percentiles.P25, res.Percentiles.P50)
	assert.LessOrEqual(t, res.Percentiles.P50, res.Percentiles.P75)
	assert.LessOrEqual(t, res.Percentiles.P75, res.Percentiles.P90)
	assert.GreaterOrEqual(t, res.SuccessRate, 0.0)
	assert.LessOrEqual(t, res.SuccessRate, 1.0)
}

func TestRun_ZeroTargetSucceedsImmediately(t *testing.T) {
	engine := testEngine(t)
	req := emergencyFundRequest(500)
	req.Params.TargetMonths = 0

	res, err := engine.Run(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1.0, res.SuccessRate)
	assert.InDelta(t, 1, res.PeriodsToTarget.P50, 1e-9)
}

func TestRun_DeterministicWithFixedSeed(t *testing.T) {
	engine := testEngine(t)
	req := emergencyFundRequest(1000)
	req.StrategyIDs = []string{"steady_contribution", "minimum_only"}

	first, err := engine.Run(context.Background(), req)
	require.NoError(t, err)
	second, err := engine.Run(context.Background(), req)
	require.NoError(t, err)

	// Processing time is wall clock, everything else must be
	// bit-identical.
	scrub := func(r *model.SimulationResult) {
		r.ProcessingTimeMs = 0
		for i := range r.StrategyComparison {
			r.StrategyComparison[i].Result.ProcessingTimeMs = 0
		}
	}
	scrub(first)
	scrub(second)
	assert.Equal(t, first, second)
}

func TestRun_TinyTimeBudgetReturnsPartial(t *testing.T) {
	engine := testEngine(t)
	req := emergencyFundRequest(50000)
	req.Params.TimeBudget = time.Nanosecond

	res, err := engine.Run(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, res.Partial)
	assert.Less(t, res.IterationsCompleted, 50000)
	assert.LessOrEqual(t, res.Percentiles.P10, res.Percentiles.P90)
}

func TestRun_ValidationErrors(t *testing.T) {
	engine := testEngine(t)

	req := emergencyFundRequest(100)
	req.StrategyIDs = []string{"no_such_strategy"}
	_, err := engine.Run(context.Background(), req)
	assert.ErrorIs(t, err, strategy.ErrUnknownStrategy)

	req = emergencyFundRequest(100)
	req.ScenarioType = "time_travel"
	_, err = engine.Run(context.Background(), req)
	assert.Error(t, err)

	req = emergencyFundRequest(0)
	_, err = engine.Run(context.Background(), req)
	assert.Error(t, err)

	req = emergencyFundRequest(100)
	req.Params.RiskPosture = "yolo"
	_, err = engine.Run(context.Background(), req)
	assert.Error(t, err)
}

func TestRun_StrategyComparisonRanked(t *testing.T) {
	engine := testEngine(t)
	req := model.SimulationRequest{
		Profile: model.ProfileSnapshot{
			MonthlyIncome:   3000,
			MonthlyExpenses: 2500,
			LiquidBalance:   1000,
			FilingStatus:    model.FilingSingle,
			Debts: []model.DebtAccount{
				{Name: "card", Kind: model.DebtCreditCard, Balance: 3000, AnnualRate: 0.24, MinimumPayment: 50},
			},
		},
		ScenarioType: model.ScenarioDebtPayoff,
		Params: model.ScenarioParameters{
			HorizonPeriods: 36,
			Iterations:     2000,
			RiskPosture:    model.RiskConservative,
			Seed:           7,
		},
		StrategyIDs: []string{"minimum_only", "avalanche"},
	}

	res, err := engine.Run(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, res.StrategyComparison, 2)

	// Aggressive payoff clears the card; minimums alone cannot outrun
	// 24% interest.
	assert.Equal(t, "avalanche", res.StrategyID)
	assert.Equal(t, "avalanche", res.StrategyComparison[0].StrategyID)
	assert.Equal(t, 1, res.StrategyComparison[0].Rank)
	assert.Equal(t, "minimum_only", res.StrategyComparison[1].StrategyID)
	assert.Equal(t, 2, res.StrategyComparison[1].Rank)
	assert.Greater(t, res.StrategyComparison[0].SuccessRate, res.StrategyComparison[1].SuccessRate)
}

func TestRun_JobLossSurvival(t *testing.T) {
	engine := testEngine(t)
	req := model.SimulationRequest{
		Profile: model.ProfileSnapshot{
			MonthlyIncome:   4000,
			MonthlyExpenses: 3000,
			LiquidBalance:   15000,
			FilingStatus:    model.FilingSingle,
		},
		ScenarioType: model.ScenarioJobLoss,
		Params: model.ScenarioParameters{
			HorizonPeriods:   24,
			Iterations:       2000,
			IncomeDropMonths: 4,
			RiskPosture:      model.RiskConservative,
			Seed:             11,
		},
	}

	res, err := engine.Run(context.Background(), req)
	require.NoError(t, err)
	// Five months of expenses banked against a four-month gap (with
	// behavioral spending cuts) survives essentially always.
	assert.Greater(t, res.SuccessRate, 0.95)
	assert.InDelta(t, 4, res.PeriodsToTarget.P50, 1e-9)
}

func TestRun_MedicalCrisisWithdrawalSequencing(t *testing.T) {
	engine := testEngine(t)
	req := model.SimulationRequest{
		Profile: model.ProfileSnapshot{
			MonthlyIncome:     5000,
			MonthlyExpenses:   4000,
			LiquidBalance:     3000,
			InvestmentBalance: 20000,
			RetirementBalance: 50000,
			FilingStatus:      model.FilingSingle,
		},
		ScenarioType: model.ScenarioMedicalCrisis,
		Params: model.ScenarioParameters{
			HorizonPeriods:   12,
			Iterations:       1000,
			EmergencyExpense: 10000,
			RiskPosture:      model.RiskConservative,
			Seed:             13,
		},
	}

	res, err := engine.Run(context.Background(), req)
	require.NoError(t, err)
	// The shock exceeds liquid savings, so trials dip into investments
	// and stay solvent.
	assert.Greater(t, res.SuccessRate, 0.95)
}

func TestRun_MarketCrashRecovery(t *testing.T) {
	engine := testEngine(t)
	req := model.SimulationRequest{
		Profile: model.ProfileSnapshot{
			MonthlyIncome:     5000,
			MonthlyExpenses:   4000,
			LiquidBalance:     10000,
			InvestmentBalance: 50000,
			FilingStatus:      model.FilingSingle,
		},
		ScenarioType: model.ScenarioMarketCrash,
		Params: model.ScenarioParameters{
			HorizonPeriods: 120,
			Iterations:     1000,
			CrashDrawdown:  0.30,
			RiskPosture:    model.RiskGrowth,
			Seed:           17,
		},
	}

	res, err := engine.Run(context.Background(), req)
	require.NoError(t, err)
	// A 30% drawdown with a $1000/month surplus and growth returns
	// recovers well within ten years for most paths.
	assert.Greater(t, res.SuccessRate, 0.8)
	assert.Greater(t, res.PeriodsToTarget.P50, 1.0)
}

func TestRunTrials_TrajectoriesRecorded(t *testing.T) {
	engine := testEngine(t)
	engine.IncludeTrajectories = true
	req := emergencyFundRequest(10)

	trials, err := engine.RunTrials(context.Background(), req, "")
	require.NoError(t, err)
	require.Len(t, trials, 10)
	for _, trial := range trials {
		require.NotEmpty(t, trial.Periods)
		// Success at 20 periods does not truncate the trajectory when
		// full paths are requested.
		assert.Len(t, trial.Periods, 60)
		assert.True(t, trial.Succeeded)
	}
}
