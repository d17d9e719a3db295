package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Aisprintone/Sparrow-sub003/internal/config"
	"github.com/Aisprintone/Sparrow-sub003/internal/market"
	"github.com/Aisprintone/Sparrow-sub003/internal/model"
	"github.com/Aisprintone/Sparrow-sub003/internal/simulate"
	"github.com/Aisprintone/Sparrow-sub003/internal/strategy"
)

func main() {
	var (
		configPath   = flag.String("config", "configs/default.yaml", "path to parameter config YAML")
		profilePath  = flag.String("profile", "", "path to profile snapshot YAML (required)")
		scenario     = flag.String("scenario", "emergency_fund", "scenario type")
		strategies   = flag.String("strategies", "", "comma-separated strategy ids (default: scenario default)")
		iterations   = flag.Int("iterations", 10000, "Monte Carlo iterations")
		horizon      = flag.Int("horizon", 120, "horizon in periods (months)")
		seed         = flag.Uint64("seed", 0, "random seed (0 = wall clock)")
		posture      = flag.String("posture", "moderate", "risk posture: conservative|moderate|growth")
		targetM      = flag.Int("target-months", 6, "emergency fund target in months of expenses")
		contrib      = flag.Float64("contribution", 0, "monthly contribution (0 = full surplus)")
		budget       = flag.Duration("budget", 0, "soft time budget (e.g. 2s; 0 = none)")
		csvOut       = flag.String("csv", "", "optional path for per-trial CSV output")
		trajectories = flag.Bool("trajectories", false, "record full per-period trajectories")
	)
	flag.Parse()

	if *profilePath == "" {
		fmt.Fprintln(os.Stderr, "usage: cli -profile profile.yaml [flags]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	store, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	ps, err := store.Set(config.DefaultSet)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	profile, err := loadProfile(*profilePath)
	if err != nil {
		log.Fatalf("load profile: %v", err)
	}

	provider := market.NewProvider(nil, simulate.MarketDefaults(ps), market.DefaultTTL)
	engine := simulate.NewEngine(ps, provider, strategy.DefaultRegistry())
	engine.IncludeTrajectories = *trajectories

	req := model.SimulationRequest{
		Profile:      profile,
		ScenarioType: model.ScenarioType(*scenario),
		Params: model.ScenarioParameters{
			TargetMonths:        *targetM,
			MonthlyContribution: *contrib,
			HorizonPeriods:      *horizon,
			Iterations:          *iterations,
			RiskPosture:         model.RiskPosture(*posture),
			Seed:                *seed,
			TimeBudget:          *budget,
		},
	}
	if *strategies != "" {
		req.StrategyIDs = strings.Split(*strategies, ",")
	}

	start := time.Now()
	result, err := engine.Run(context.Background(), req)
	if err != nil {
		log.Fatalf("run: %v", err)
	}

	printResult(result)
	log.Printf("total wall time: %s", time.Since(start).Round(time.Millisecond))

	if *csvOut != "" {
		// Re-run trial export is not available from the aggregate; the
		// CSV covers the primary strategy via a dedicated export run.
		log.Printf("csv export: re-running primary strategy for %s", *csvOut)
		if err := exportCSV(engine, req, result.StrategyID, *csvOut); err != nil {
			log.Fatalf("csv export: %v", err)
		}
	}
}

func loadProfile(path string) (model.ProfileSnapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return model.ProfileSnapshot{}, err
	}
	var p model.ProfileSnapshot
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return model.ProfileSnapshot{}, err
	}
	return p, nil
}

func printResult(r *model.SimulationResult) {
	fmt.Printf("scenario:      %s\n", r.ScenarioType)
	fmt.Printf("strategy:      %s\n", r.StrategyID)
	fmt.Printf("iterations:    %d/%d", r.IterationsCompleted, r.IterationsRequested)
	if r.Partial {
		fmt.Printf("  (partial)")
	}
	fmt.Println()
	fmt.Printf("success rate:  %.1f%%\n", r.SuccessRate*100)
	fmt.Printf("ending balance p10/p50/p90: %.2f / %.2f / %.2f\n",
		r.Percentiles.P10, r.Percentiles.P50, r.Percentiles.P90)
	fmt.Printf("mean ± 95%% CI: %.2f  [%.2f, %.2f]\n",
		r.Mean, r.ConfidenceInterval95[0], r.ConfidenceInterval95[1])
	if r.SuccessRate > 0 {
		fmt.Printf("periods to target p10/p50/p90: %.0f / %.0f / %.0f\n",
			r.PeriodsToTarget.P10, r.PeriodsToTarget.P50, r.PeriodsToTarget.P90)
	}
	if r.SanitizedTrials > 0 {
		fmt.Printf("sanitized trials: %d\n", r.SanitizedTrials)
	}
	fmt.Printf("processing:    %dms\n", r.ProcessingTimeMs)

	if len(r.StrategyComparison) > 0 {
		fmt.Println("\nstrategy comparison:")
		for _, o := range r.StrategyComparison {
			fmt.Printf("  %d. %-24s success=%.1f%%  median periods=%.0f\n",
				o.Rank, o.StrategyID, o.SuccessRate*100, o.ExpectedPeriodsToTarget)
		}
	}
}

// exportCSV runs the primary strategy once more with trajectory-free
// trials and writes the per-trial outcomes.
func exportCSV(engine *simulate.Engine, req model.SimulationRequest, strategyID, path string) error {
	trials, err := engine.RunTrials(context.Background(), req, strategyID)
	if err != nil {
		return err
	}
	return simulate.WriteTrialsCSV(path, trials)
}
