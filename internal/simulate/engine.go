// Package simulate orchestrates Monte Carlo scenario runs: it resolves
// strategies and rates, fans trials out across workers, and hands the
// completed trials to the statistical aggregator.
package simulate

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/Aisprintone/Sparrow-sub003/internal/config"
	"github.com/Aisprintone/Sparrow-sub003/internal/market"
	"github.com/Aisprintone/Sparrow-sub003/internal/model"
	"github.com/Aisprintone/Sparrow-sub003/internal/stats"
	"github.com/Aisprintone/Sparrow-sub003/internal/strategy"
)

// Engine runs scenario simulations against one parameter set.
type Engine struct {
	params   *config.ParameterSet
	market   *market.Provider
	registry *strategy.Registry

	// Workers overrides the trial worker count; 0 means GOMAXPROCS.
	Workers int

	// IncludeTrajectories keeps full per-period trajectories on every
	// trial (and disables the early success exit). Costly at large
	// iteration counts; off by default.
	IncludeTrajectories bool
}

// NewEngine wires the simulator to its collaborators. All three are
// read-only from the engine's perspective; the market provider manages
// its own internal synchronization.
func NewEngine(ps *config.ParameterSet, m *market.Provider, r *strategy.Registry) *Engine {
	return &Engine{params: ps, market: m, registry: r}
}

// MarketDefaults derives the provider's documented fallback values from
// the configuration store: baseline rates plus the per-posture return
// distributions.
func MarketDefaults(ps *config.ParameterSet) map[string]float64 {
	defaults := make(map[string]float64)
	if v, err := ps.Float(config.KeyDefaultSavingsRate); err == nil {
		defaults[market.SymbolSavingsRate] = v
	}
	if v, err := ps.Float(config.KeyDefaultBorrowRate); err == nil {
		defaults[market.SymbolBorrowRate] = v
	}
	for _, posture := range []model.RiskPosture{model.RiskConservative, model.RiskModerate, model.RiskGrowth} {
		rp, err := ps.Risk(posture)
		if err != nil {
			continue
		}
		defaults[market.ReturnMeanSymbol(posture)] = rp.Mean
		defaults[market.ReturnStdDevSymbol(posture)] = rp.StdDev
	}
	return defaults
}

// Run validates the request, executes every requested strategy, and
// returns the aggregated result. With multiple strategies the primary
// result is the top-ranked one and carries the full comparison block.
func (e *Engine) Run(ctx context.Context, req model.SimulationRequest) (*model.SimulationResult, error) {
	start := time.Now()

	def, err := lookupScenario(req.ScenarioType)
	if err != nil {
		return nil, err
	}
	params := req.Params
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario parameters: %w", err)
	}

	ids := req.StrategyIDs
	if len(ids) == 0 {
		ids = []string{def.defaultStrategy}
	}
	// Resolve everything up front so validation errors surface before a
	// single trial runs.
	strats := make([]strategy.Strategy, len(ids))
	for i, id := range ids {
		s, err := e.registry.Resolve(id)
		if err != nil {
			return nil, err
		}
		strats[i] = s
	}

	in, err := e.resolveInputs(ctx, req.Profile, &params, def)
	if err != nil {
		return nil, err
	}

	seed := params.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	if params.TimeBudget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, params.TimeBudget)
		defer cancel()
	}

	results := make([]*model.SimulationResult, len(ids))
	for i, strat := range strats {
		runStart := time.Now()
		trials := e.runTrials(ctx, def, req.Profile, &params, strat, in, seed)
		res := stats.Aggregate(trials, params.Iterations, time.Since(runStart))
		res.ScenarioType = req.ScenarioType
		res.StrategyID = ids[i]
		results[i] = &res
	}

	primary := results[0]
	if len(results) > 1 {
		comparison := stats.Rank(results)
		primary = comparison[0].Result
		primary.StrategyComparison = comparison
	}
	primary.ProcessingTimeMs = time.Since(start).Milliseconds()
	return primary, nil
}

// RunTrials executes a single strategy's trial set and returns the raw
// trials instead of an aggregate. Used for per-trial export.
func (e *Engine) RunTrials(ctx context.Context, req model.SimulationRequest, strategyID string) ([]model.SimulationTrial, error) {
	def, err := lookupScenario(req.ScenarioType)
	if err != nil {
		return nil, err
	}
	params := req.Params
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario parameters: %w", err)
	}
	if strategyID == "" {
		strategyID = def.defaultStrategy
	}
	strat, err := e.registry.Resolve(strategyID)
	if err != nil {
		return nil, err
	}
	in, err := e.resolveInputs(ctx, req.Profile, &params, def)
	if err != nil {
		return nil, err
	}
	seed := params.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return e.runTrials(ctx, def, req.Profile, &params, strat, in, seed), nil
}

// resolveInputs pulls constants from the configuration store and rates
// from the market provider once per run; trials then read them without
// synchronization.
func (e *Engine) resolveInputs(ctx context.Context, profile model.ProfileSnapshot, params *model.ScenarioParameters, def scenarioDef) (runInputs, error) {
	ps := e.params
	posture := params.RiskPosture
	if posture == "" {
		posture = model.RiskModerate
	}
	if _, err := ps.Risk(posture); err != nil {
		return runInputs{}, err
	}

	mu, _ := e.market.Rate(ctx, market.ReturnMeanSymbol(posture))
	sigma, _ := e.market.Rate(ctx, market.ReturnStdDevSymbol(posture))
	savings, _ := e.market.Rate(ctx, market.SymbolSavingsRate)
	borrow, _ := e.market.Rate(ctx, market.SymbolBorrowRate)

	var in runInputs
	in.mu = mu
	in.sigma = sigma
	in.savingsMonthly = savings / 12

	consts := strategy.Constants{
		PovertyGuidelineAnnual: ps.Poverty().Annual(profile.HouseholdSize),
		BorrowRate:             borrow,
	}
	var err error
	read := func(dst *float64, key string) {
		if err != nil {
			return
		}
		*dst, err = ps.Float(key)
	}
	read(&consts.IDRDiscretionaryRate, config.KeyIDRDiscretionaryRate)
	read(&consts.IDRPovertyMultiplier, config.KeyIDRPovertyMultiplier)
	read(&consts.RetirementPenaltyRate, config.KeyRetirementPenaltyRate)
	read(&consts.CapitalGainsShare, config.KeyCapitalGainsShare)
	read(&consts.RefinanceMinImprovement, config.KeyRefinanceMinImprovement)
	read(&consts.DebtTolerance, config.KeyDebtBalanceTolerance)
	read(&in.distressReduction, config.KeyDistressExpenseReduction)
	read(&in.crisisReduction, config.KeyCrisisExpenseReduction)
	read(&in.sanitizeBound, config.KeySanitizeBound)
	if err != nil {
		return runInputs{}, err
	}
	if consts.IDRForgivenessPeriods, err = ps.Int(config.KeyIDRForgivenessPeriods); err != nil {
		return runInputs{}, err
	}
	if consts.IDRRecertInterval, err = ps.Int(config.KeyIDRRecertInterval); err != nil {
		return runInputs{}, err
	}

	in.consts = consts
	in.tol = consts.DebtTolerance
	in.target = def.target(profile, params)
	in.taxes = ps.Taxes()
	in.filing = profile.FilingStatus
	if in.filing == "" {
		in.filing = model.FilingSingle
	}
	in.collectTrajectory = e.IncludeTrajectories
	return in, nil
}

// runTrials fans iterations out across a worker pool. Trial i always
// uses seed base+i and lands in slot i, so a full run is bit-identical
// for a fixed seed regardless of scheduling. When the context expires
// the producer stops issuing trials; whatever completed is aggregated
// in index order.
func (e *Engine) runTrials(ctx context.Context, def scenarioDef, profile model.ProfileSnapshot, params *model.ScenarioParameters, strat strategy.Strategy, in runInputs, seed uint64) []model.SimulationTrial {
	n := params.Iterations
	trials := make([]model.SimulationTrial, n)
	done := make([]bool, n)

	workers := e.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				trials[i] = runTrial(seed+uint64(i), def, profile, params, strat, in)
				done[i] = true
			}
		}()
	}

produce:
	for i := 0; i < n; i++ {
		// Checked first so an expired budget stops the producer even
		// when a worker is ready to receive.
		select {
		case <-ctx.Done():
			break produce
		default:
		}
		select {
		case <-ctx.Done():
			break produce
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	completed := make([]model.SimulationTrial, 0, n)
	for i := range trials {
		if done[i] {
			completed = append(completed, trials[i])
		}
	}
	return completed
}
