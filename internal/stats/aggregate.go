// Package stats reduces trial sets into the summary the caller consumes:
// percentile ladders, Welford mean/stddev, a normal-approximation
// confidence interval, and ranked strategy comparisons.
package stats

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/Aisprintone/Sparrow-sub003/internal/model"
)

// z95 is the two-sided 95% critical value of the standard normal.
const z95 = 1.959963984540054

// Aggregate reduces a trial set into a SimulationResult. requested is
// the iteration count the caller asked for; fewer completed trials mark
// the result partial.
//
// The confidence interval assumes the trial outcome distribution is
// approximately normal, which the CLT justifies at the iteration counts
// this system runs.
func Aggregate(trials []model.SimulationTrial, requested int, elapsed time.Duration) model.SimulationResult {
	completed := len(trials)
	res := model.SimulationResult{
		IterationsRequested: requested,
		IterationsCompleted: completed,
		Partial:             completed < requested,
		ProcessingTimeMs:    elapsed.Milliseconds(),
	}
	if completed == 0 {
		return res
	}

	// Welford accumulation keeps the mean/variance numerically stable
	// across large trial counts.
	var mean, m2 float64
	balances := make([]float64, 0, completed)
	periods := make([]float64, 0, completed)
	successes := 0

	for i, t := range trials {
		x := t.EndingBalance
		balances = append(balances, x)

		delta := x - mean
		mean += delta / float64(i+1)
		m2 += delta * (x - mean)

		if t.Succeeded {
			successes++
			periods = append(periods, float64(t.PeriodsToTarget))
		}
		if t.Sanitized {
			res.SanitizedTrials++
		}
	}

	res.Mean = mean
	if completed > 1 {
		res.StdDev = math.Sqrt(m2 / float64(completed-1))
	}
	half := z95 * res.StdDev / math.Sqrt(float64(completed))
	res.ConfidenceInterval95 = [2]float64{mean - half, mean + half}

	res.SuccessRate = float64(successes) / float64(completed)

	sort.Float64s(balances)
	res.Percentiles = ladder(balances)
	if len(periods) > 0 {
		sort.Float64s(periods)
		res.PeriodsToTarget = ladder(periods)
	}
	return res
}

// ladder computes the p10..p90 percentile ladder by linear interpolation
// between order statistics. Input must be sorted ascending.
func ladder(sorted []float64) model.Percentiles {
	q := func(p float64) float64 {
		return stat.Quantile(p, stat.LinInterp, sorted, nil)
	}
	return model.Percentiles{
		P10: q(0.10),
		P25: q(0.25),
		P50: q(0.50),
		P75: q(0.75),
		P90: q(0.90),
	}
}

// Rank orders per-strategy results best-first: higher success rate wins,
// ties break on lower expected periods-to-target, then on strategy id
// for stability. Strategies with no successes sort last among equals.
func Rank(results []*model.SimulationResult) []model.StrategyOutcome {
	out := make([]model.StrategyOutcome, len(results))
	for i, r := range results {
		out[i] = model.StrategyOutcome{
			StrategyID:              r.StrategyID,
			SuccessRate:             r.SuccessRate,
			ExpectedPeriodsToTarget: expectedPeriods(r),
			Result:                  r,
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SuccessRate != out[j].SuccessRate {
			return out[i].SuccessRate > out[j].SuccessRate
		}
		pi, pj := sortablePeriods(out[i]), sortablePeriods(out[j])
		if pi != pj {
			return pi < pj
		}
		return out[i].StrategyID < out[j].StrategyID
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// expectedPeriods approximates the expected time-to-target with the
// median of the succeeded trials; -1 marks a strategy that never
// succeeded.
func expectedPeriods(r *model.SimulationResult) float64 {
	if r.SuccessRate == 0 {
		return model.PeriodsNotReached
	}
	return r.PeriodsToTarget.P50
}

// sortablePeriods maps "never succeeded" behind every finite value.
func sortablePeriods(o model.StrategyOutcome) float64 {
	if o.ExpectedPeriodsToTarget < 0 {
		return math.MaxFloat64
	}
	return o.ExpectedPeriodsToTarget
}
