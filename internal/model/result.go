package model

// Percentiles is the p10..p90 ladder summarizing a distribution.
// For any valid trial set the values are non-decreasing.
type Percentiles struct {
	P10 float64 `json:"p10"`
	P25 float64 `json:"p25"`
	P50 float64 `json:"p50"`
	P75 float64 `json:"p75"`
	P90 float64 `json:"p90"`
}

// StrategyOutcome is one entry in a ranked multi-strategy comparison.
// Rank 1 is best: highest success rate, ties broken by lower expected
// periods-to-target.
type StrategyOutcome struct {
	StrategyID              string  `json:"strategy_id"`
	Rank                    int     `json:"rank"`
	SuccessRate             float64 `json:"success_rate"`
	ExpectedPeriodsToTarget float64 `json:"expected_periods_to_target"`

	Result *SimulationResult `json:"result,omitempty"`
}

// SimulationResult is the aggregated outcome of one run. Immutable once
// returned.
type SimulationResult struct {
	ScenarioType ScenarioType `json:"scenario_type"`
	StrategyID   string       `json:"strategy_id"`

	IterationsRequested int `json:"iterations_requested"`
	IterationsCompleted int `json:"iterations_completed"`

	// Percentiles summarizes ending balance across trials.
	Percentiles Percentiles `json:"percentiles"`
	Mean        float64     `json:"mean"`
	StdDev      float64     `json:"std_dev"`

	// ConfidenceInterval95 brackets the mean assuming the trial outcome
	// distribution is approximately normal (CLT over independent trials).
	ConfidenceInterval95 [2]float64 `json:"confidence_interval_95"`

	SuccessRate float64 `json:"success_rate"`

	// PeriodsToTarget summarizes time-to-success across succeeded trials
	// only; zeroed when no trial succeeded.
	PeriodsToTarget Percentiles `json:"periods_to_target"`

	SanitizedTrials  int   `json:"sanitized_trials"`
	ProcessingTimeMs int64 `json:"processing_time_ms"`
	Partial          bool  `json:"partial"`

	StrategyComparison []StrategyOutcome `json:"strategy_comparison,omitempty"`
}
