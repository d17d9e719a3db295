package model

import (
	"errors"
	"fmt"
	"time"
)

// ScenarioType names the "what if" being simulated.
type ScenarioType string

const (
	ScenarioEmergencyFund ScenarioType = "emergency_fund"
	ScenarioDebtPayoff    ScenarioType = "debt_payoff"
	ScenarioJobLoss       ScenarioType = "job_loss"
	ScenarioMedicalCrisis ScenarioType = "medical_crisis"
	ScenarioMarketCrash   ScenarioType = "market_crash"
)

// RiskPosture keys the return distribution a trial draws from.
type RiskPosture string

const (
	RiskConservative RiskPosture = "conservative"
	RiskModerate     RiskPosture = "moderate"
	RiskGrowth       RiskPosture = "growth"
)

// ScenarioParameters configures one simulation run. Validated before any
// trial executes and immutable once the run starts.
type ScenarioParameters struct {
	// TargetMonths expresses the emergency-fund target as months of
	// expenses; TargetAmount, when non-zero, overrides it.
	TargetMonths int     `json:"target_months,omitempty" yaml:"target_months"`
	TargetAmount float64 `json:"target_amount,omitempty" yaml:"target_amount"`

	MonthlyContribution float64 `json:"monthly_contribution,omitempty" yaml:"monthly_contribution"`

	HorizonPeriods int `json:"horizon_periods" yaml:"horizon_periods"`
	Iterations     int `json:"iterations" yaml:"iterations"`

	RiskPosture RiskPosture `json:"risk_posture,omitempty" yaml:"risk_posture"`

	// Seed makes a run reproducible. Zero means "derive from wall clock".
	Seed uint64 `json:"seed,omitempty" yaml:"seed"`

	// TimeBudget is a soft cap; when exceeded the run stops issuing new
	// trials and returns a partial result. Zero means no budget.
	TimeBudget   time.Duration `json:"-" yaml:"-"`
	TimeBudgetMs int64         `json:"time_budget_ms,omitempty" yaml:"time_budget_ms"`

	// Shock parameters for crisis scenarios.
	EmergencyExpense float64 `json:"emergency_expense,omitempty" yaml:"emergency_expense"`
	IncomeDropMonths int     `json:"income_drop_months,omitempty" yaml:"income_drop_months"`
	CrashDrawdown    float64 `json:"crash_drawdown,omitempty" yaml:"crash_drawdown"`
}

const (
	MaxIterations     = 200_000
	MaxHorizonPeriods = 1200 // 100 years of months
)

// Validate rejects malformed parameters before any trial runs.
func (p *ScenarioParameters) Validate() error {
	if p == nil {
		return errors.New("scenario parameters are nil")
	}
	if p.Iterations <= 0 {
		return errors.New("iterations must be > 0")
	}
	if p.Iterations > MaxIterations {
		return fmt.Errorf("iterations %d exceeds limit %d", p.Iterations, MaxIterations)
	}
	if p.HorizonPeriods <= 0 {
		return errors.New("horizon_periods must be > 0")
	}
	if p.HorizonPeriods > MaxHorizonPeriods {
		return fmt.Errorf("horizon_periods %d exceeds limit %d", p.HorizonPeriods, MaxHorizonPeriods)
	}
	if p.TargetMonths < 0 || p.TargetAmount < 0 {
		return errors.New("targets must be >= 0")
	}
	if p.MonthlyContribution < 0 {
		return errors.New("monthly_contribution must be >= 0")
	}
	if p.CrashDrawdown < 0 || p.CrashDrawdown > 1 {
		return errors.New("crash_drawdown must be in [0, 1]")
	}
	if p.IncomeDropMonths < 0 {
		return errors.New("income_drop_months must be >= 0")
	}
	if p.EmergencyExpense < 0 {
		return errors.New("emergency_expense must be >= 0")
	}
	switch p.RiskPosture {
	case "", RiskConservative, RiskModerate, RiskGrowth:
	default:
		return fmt.Errorf("unknown risk posture %q", p.RiskPosture)
	}
	if p.TimeBudget == 0 && p.TimeBudgetMs > 0 {
		p.TimeBudget = time.Duration(p.TimeBudgetMs) * time.Millisecond
	}
	return nil
}

// SimulationRequest is the inbound contract from the request layer.
type SimulationRequest struct {
	Profile      ProfileSnapshot    `json:"profile"`
	ScenarioType ScenarioType       `json:"scenario_type"`
	Params       ScenarioParameters `json:"parameters"`

	// StrategyIDs selects the strategies to run. Empty means the
	// scenario's default strategy; more than one produces a ranked
	// comparison in the result.
	StrategyIDs []string `json:"strategy_ids,omitempty"`
}
