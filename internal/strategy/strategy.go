// Package strategy holds the interchangeable per-period computation
// strategies (debt payoff orderings, income-driven repayment, withdrawal
// sequencing) and the registry that resolves them by identifier.
package strategy

import (
	"github.com/Aisprintone/Sparrow-sub003/internal/model"
)

// Constants are the configuration-sourced inputs a strategy may consult.
// Resolved once per run by the simulator; read-only during trials.
type Constants struct {
	PovertyGuidelineAnnual float64

	IDRDiscretionaryRate  float64
	IDRPovertyMultiplier  float64
	IDRForgivenessPeriods int
	IDRRecertInterval     int

	RetirementPenaltyRate float64
	CapitalGainsShare     float64

	RefinanceMinImprovement float64
	BorrowRate              float64

	DebtTolerance float64
}

// Context carries the read-only inputs for one period step.
type Context struct {
	Period int
	Params *model.ScenarioParameters
	Consts Constants
}

// Strategy applies one period of domain logic. Implementations are
// stateless: everything mutable lives in the trial state threaded
// through each call, so a single Strategy value is safe to share across
// concurrent trials.
type Strategy interface {
	Name() string
	Step(state *model.TrialState, ctx Context) error
}

// Chain composes strategies in a fixed order within a single period.
// The order is part of the chain's identity: shipped chains apply rate
// refinement before repayment recomputation, which is a configuration
// choice, not an inference.
type Chain struct {
	name  string
	steps []Strategy
}

// NewChain builds a named composition of strategies.
func NewChain(name string, steps ...Strategy) *Chain {
	return &Chain{name: name, steps: steps}
}

func (c *Chain) Name() string { return c.name }

func (c *Chain) Step(state *model.TrialState, ctx Context) error {
	for _, s := range c.steps {
		if err := s.Step(state, ctx); err != nil {
			return err
		}
	}
	return nil
}
