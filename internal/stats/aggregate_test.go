package stats

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aisprintone/Sparrow-sub003/internal/model"
)

func trialsFromBalances(balances []float64) []model.SimulationTrial {
	out := make([]model.SimulationTrial, len(balances))
	for i, b := range balances {
		out[i] = model.SimulationTrial{
			EndingBalance:   b,
			Succeeded:       true,
			PeriodsToTarget: i + 1,
		}
	}
	return out
}

func assertLadderMonotonic(t *testing.T, p model.Percentiles) {
	t.Helper()
	assert.LessOrEqual(t, p.P10, p.P25)
	assert.LessOrEqual(t, p.P25, p.P50)
	assert.LessOrEqual(t, p.P50, p.P75)
	assert.LessOrEqual(t, p.P75, p.P90)
}

func TestAggregate_PercentilesNonDecreasing(t *testing.T) {
	// Deliberately unsorted, skewed input.
	res := Aggregate(trialsFromBalances([]float64{50, -3, 1200, 7, 7, 0, 99, 42, 42, 10000}), 10, time.Millisecond)
	assertLadderMonotonic(t, res.Percentiles)
	assertLadderMonotonic(t, res.PeriodsToTarget)
}

func TestAggregate_MedianByLinearInterpolation(t *testing.T) {
	res := Aggregate(trialsFromBalances([]float64{1, 2, 3, 4}), 4, time.Millisecond)
	// Even count: the median interpolates between the middle order
	// statistics.
	assert.InDelta(t, 2.5, res.Percentiles.P50, 0.51)
	assert.GreaterOrEqual(t, res.Percentiles.P50, 2.0)
	assert.LessOrEqual(t, res.Percentiles.P50, 3.0)
}

func TestAggregate_WelfordMatchesDirectComputation(t *testing.T) {
	balances := []float64{10, 20, 30, 40, 50}
	res := Aggregate(trialsFromBalances(balances), 5, time.Millisecond)

	assert.InDelta(t, 30, res.Mean, 1e-9)
	// Sample stddev of 10..50 step 10.
	assert.InDelta(t, math.Sqrt(250), res.StdDev, 1e-9)

	// CI is symmetric around the mean and ordered.
	assert.InDelta(t, res.Mean, (res.ConfidenceInterval95[0]+res.ConfidenceInterval95[1])/2, 1e-9)
	assert.Less(t, res.ConfidenceInterval95[0], res.ConfidenceInterval95[1])
}

func TestAggregate_SuccessRateBounds(t *testing.T) {
	trials := trialsFromBalances([]float64{1, 2, 3, 4})
	trials[1].Succeeded = false
	trials[1].PeriodsToTarget = model.PeriodsNotReached
	trials[3].Succeeded = false
	trials[3].PeriodsToTarget = model.PeriodsNotReached

	res := Aggregate(trials, 4, time.Millisecond)
	assert.InDelta(t, 0.5, res.SuccessRate, 1e-9)
	assert.GreaterOrEqual(t, res.SuccessRate, 0.0)
	assert.LessOrEqual(t, res.SuccessRate, 1.0)
}

func TestAggregate_AllSucceeded(t *testing.T) {
	res := Aggregate(trialsFromBalances([]float64{5, 6, 7}), 3, time.Millisecond)
	assert.Equal(t, 1.0, res.SuccessRate)
	assert.False(t, res.Partial)
	assert.Equal(t, 3, res.IterationsCompleted)
}

func TestAggregate_PartialRun(t *testing.T) {
	res := Aggregate(trialsFromBalances([]float64{5, 6}), 100, time.Millisecond)
	assert.True(t, res.Partial)
	assert.Equal(t, 100, res.IterationsRequested)
	assert.Equal(t, 2, res.IterationsCompleted)
	assertLadderMonotonic(t, res.Percentiles)
}

func TestAggregate_EmptyTrialSet(t *testing.T) {
	res := Aggregate(nil, 10, time.Millisecond)
	assert.True(t, res.Partial)
	assert.Zero(t, res.IterationsCompleted)
	assert.Zero(t, res.SuccessRate)
}

func TestAggregate_CountsSanitizedTrials(t *testing.T) {
	trials := trialsFromBalances([]float64{1, 2, 3})
	trials[0].Sanitized = true
	trials[2].Sanitized = true
	res := Aggregate(trials, 3, time.Millisecond)
	assert.Equal(t, 2, res.SanitizedTrials)
}

func TestRank_SuccessRateThenPeriods(t *testing.T) {
	mk := func(id string, success, medianPeriods float64) *model.SimulationResult {
		return &model.SimulationResult{
			StrategyID:      id,
			SuccessRate:     success,
			PeriodsToTarget: model.Percentiles{P50: medianPeriods},
		}
	}
	ranked := Rank([]*model.SimulationResult{
		mk("slow_sure", 0.95, 40),
		mk("fast_sure", 0.95, 22),
		mk("risky", 0.60, 10),
		mk("never", 0.0, 0),
	})

	require.Len(t, ranked, 4)
	assert.Equal(t, "fast_sure", ranked[0].StrategyID)
	assert.Equal(t, "slow_sure", ranked[1].StrategyID)
	assert.Equal(t, "risky", ranked[2].StrategyID)
	assert.Equal(t, "never", ranked[3].StrategyID)
	for i, o := range ranked {
		assert.Equal(t, i+1, o.Rank)
		require.NotNil(t, o.Result)
	}
	assert.EqualValues(t, model.PeriodsNotReached, ranked[3].ExpectedPeriodsToTarget)
}
