package models

import (
	"github.com/Aisprintone/Sparrow-sub003/internal/model"
)

// SimulateRequest represents the request body for running a simulation
type SimulateRequest struct {
	Profile      model.ProfileSnapshot    `json:"profile" binding:"required"`
	ScenarioType string                   `json:"scenario_type" binding:"required"`
	Parameters   model.ScenarioParameters `json:"parameters" binding:"required"`

	// StrategyIDs selects strategies; more than one returns a ranked
	// comparison.
	StrategyIDs []string `json:"strategy_ids,omitempty"`

	// ParameterSet names a configuration parameter set; empty uses the
	// default set.
	ParameterSet string `json:"parameter_set,omitempty"`

	Options SimulateOptions `json:"options,omitempty"`
}

// SimulateOptions contains optional simulation parameters
type SimulateOptions struct {
	// IncludeTrajectories keeps full per-period paths on each trial.
	// Expensive at large iteration counts; default: false.
	IncludeTrajectories bool `json:"include_trajectories,omitempty"`
}

// ToModel converts the wire request into the core's inbound contract.
func (r SimulateRequest) ToModel() model.SimulationRequest {
	return model.SimulationRequest{
		Profile:      r.Profile,
		ScenarioType: model.ScenarioType(r.ScenarioType),
		Params:       r.Parameters,
		StrategyIDs:  r.StrategyIDs,
	}
}
