// Package config is the versioned store of tunable financial constants:
// tax bracket tables, poverty guidelines, behavioral adjustment factors,
// and default rate assumptions. A store is loaded once at process start
// and read-only thereafter; reloading requires a restart.
//
// No financial constant may be embedded in simulation code — everything
// is looked up here by key.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Aisprintone/Sparrow-sub003/internal/model"
	"github.com/Aisprintone/Sparrow-sub003/internal/tax"
)

// ErrConfigMissing is returned when a requested parameter set or key is
// absent. Missing required constants are fatal at load time.
var ErrConfigMissing = errors.New("config missing")

// Well-known constant keys.
const (
	KeyDistressExpenseReduction = "behavioral.distress_expense_reduction"
	KeyCrisisExpenseReduction   = "behavioral.crisis_expense_reduction"

	KeyDebtBalanceTolerance = "debt.balance_tolerance"

	KeyIDRDiscretionaryRate  = "idr.discretionary_rate"
	KeyIDRPovertyMultiplier  = "idr.poverty_multiplier"
	KeyIDRForgivenessPeriods = "idr.forgiveness_periods"
	KeyIDRRecertInterval     = "idr.recertification_interval"

	KeyRetirementPenaltyRate = "withdrawal.retirement_penalty_rate"
	KeyCapitalGainsShare     = "withdrawal.capital_gains_share"

	KeyRefinanceMinImprovement = "refinance.min_rate_improvement"

	KeyDefaultSavingsRate = "market.default_savings_rate"
	KeyDefaultBorrowRate  = "market.default_borrow_rate"

	KeySanitizeBound = "numeric.sanitize_bound"
)

// requiredKeys must be present in every parameter set; a missing one
// aborts startup.
var requiredKeys = []string{
	KeyDistressExpenseReduction,
	KeyCrisisExpenseReduction,
	KeyDebtBalanceTolerance,
	KeyIDRDiscretionaryRate,
	KeyIDRPovertyMultiplier,
	KeyIDRForgivenessPeriods,
	KeyIDRRecertInterval,
	KeyRetirementPenaltyRate,
	KeyCapitalGainsShare,
	KeyRefinanceMinImprovement,
	KeyDefaultSavingsRate,
	KeyDefaultBorrowRate,
	KeySanitizeBound,
}

// DefaultSet is the parameter set used when the caller does not name one.
const DefaultSet = "default"

// RiskParams is the per-period return distribution for one risk posture.
type RiskParams struct {
	Mean   float64 `yaml:"mean" json:"mean"`
	StdDev float64 `yaml:"stddev" json:"stddev"`
}

// PovertyGuideline mirrors the federal guideline shape: a base amount
// for a one-person household plus an increment per additional person.
type PovertyGuideline struct {
	Base      float64 `yaml:"base" json:"base"`
	PerPerson float64 `yaml:"per_person" json:"per_person"`
}

// Annual returns the guideline for a household of the given size.
func (g PovertyGuideline) Annual(householdSize int) float64 {
	if householdSize < 1 {
		householdSize = 1
	}
	return g.Base + float64(householdSize-1)*g.PerPerson
}

// Document is the on-disk YAML shape.
type Document struct {
	Version       string                     `yaml:"version"`
	ParameterSets map[string]ParameterSetDoc `yaml:"parameter_sets"`
}

// ParameterSetDoc is one named parameter set as written in YAML.
type ParameterSetDoc struct {
	Constants map[string]float64                                  `yaml:"constants"`
	Tax       map[tax.IncomeType]map[model.FilingStatus]tax.Table `yaml:"tax"`
	Poverty   PovertyGuideline                                    `yaml:"poverty"`
	Risk      map[model.RiskPosture]RiskParams                    `yaml:"risk"`
}

// ParameterSet is a validated, read-only parameter set.
type ParameterSet struct {
	name      string
	constants map[string]float64
	taxes     *tax.Calculator
	poverty   PovertyGuideline
	risk      map[model.RiskPosture]RiskParams
}

// Store holds all parameter sets for the process lifetime.
type Store struct {
	version string
	sets    map[string]*ParameterSet
}

// Load reads and validates a YAML document from disk.
func Load(path string) (*Store, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var doc Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return New(doc)
}

// New validates a document and builds the store. Any malformed bracket
// table or missing required constant fails here, before the process
// serves a single request.
func New(doc Document) (*Store, error) {
	if doc.Version == "" {
		return nil, errors.New("config version is required")
	}
	if len(doc.ParameterSets) == 0 {
		return nil, errors.New("config has no parameter sets")
	}
	if _, ok := doc.ParameterSets[DefaultSet]; !ok {
		return nil, fmt.Errorf("config has no %q parameter set", DefaultSet)
	}

	s := &Store{version: doc.Version, sets: make(map[string]*ParameterSet, len(doc.ParameterSets))}
	for name, psDoc := range doc.ParameterSets {
		ps, err := buildSet(name, psDoc)
		if err != nil {
			return nil, fmt.Errorf("parameter set %q: %w", name, err)
		}
		s.sets[name] = ps
	}
	return s, nil
}

func buildSet(name string, doc ParameterSetDoc) (*ParameterSet, error) {
	for _, key := range requiredKeys {
		if _, ok := doc.Constants[key]; !ok {
			return nil, fmt.Errorf("%w: required constant %q", ErrConfigMissing, key)
		}
	}
	if len(doc.Tax) == 0 {
		return nil, errors.New("no tax bracket tables")
	}
	calc, err := tax.NewCalculator(doc.Tax)
	if err != nil {
		return nil, err
	}
	if doc.Poverty.Base <= 0 {
		return nil, errors.New("poverty.base must be > 0")
	}
	for _, posture := range []model.RiskPosture{model.RiskConservative, model.RiskModerate, model.RiskGrowth} {
		rp, ok := doc.Risk[posture]
		if !ok {
			return nil, fmt.Errorf("%w: risk posture %q", ErrConfigMissing, posture)
		}
		if rp.StdDev < 0 {
			return nil, fmt.Errorf("risk posture %q stddev must be >= 0", posture)
		}
	}

	constants := make(map[string]float64, len(doc.Constants))
	for k, v := range doc.Constants {
		constants[k] = v
	}
	risk := make(map[model.RiskPosture]RiskParams, len(doc.Risk))
	for k, v := range doc.Risk {
		risk[k] = v
	}
	return &ParameterSet{
		name:      name,
		constants: constants,
		taxes:     calc,
		poverty:   doc.Poverty,
		risk:      risk,
	}, nil
}

// Version reports the document version the store was loaded from.
func (s *Store) Version() string { return s.version }

// Set returns a named parameter set.
func (s *Store) Set(name string) (*ParameterSet, error) {
	if name == "" {
		name = DefaultSet
	}
	ps, ok := s.sets[name]
	if !ok {
		return nil, fmt.Errorf("%w: parameter set %q", ErrConfigMissing, name)
	}
	return ps, nil
}

// Get looks up a constant in a named set. This is the generic form of
// the typed accessors on ParameterSet.
func (s *Store) Get(set, key string) (float64, error) {
	ps, err := s.Set(set)
	if err != nil {
		return 0, err
	}
	return ps.Float(key)
}

// Name reports the set's name within its store.
func (ps *ParameterSet) Name() string { return ps.name }

// Float returns a constant by key.
func (ps *ParameterSet) Float(key string) (float64, error) {
	v, ok := ps.constants[key]
	if !ok {
		return 0, fmt.Errorf("%w: constant %q in set %q", ErrConfigMissing, key, ps.name)
	}
	return v, nil
}

// Int returns a constant by key, truncated to an integer.
func (ps *ParameterSet) Int(key string) (int, error) {
	v, err := ps.Float(key)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

// Taxes returns the validated tax calculator for this set.
func (ps *ParameterSet) Taxes() *tax.Calculator { return ps.taxes }

// Poverty returns the poverty guideline for this set.
func (ps *ParameterSet) Poverty() PovertyGuideline { return ps.poverty }

// Risk returns the return distribution for a posture. An empty posture
// defaults to moderate.
func (ps *ParameterSet) Risk(posture model.RiskPosture) (RiskParams, error) {
	if posture == "" {
		posture = model.RiskModerate
	}
	rp, ok := ps.risk[posture]
	if !ok {
		return RiskParams{}, fmt.Errorf("%w: risk posture %q in set %q", ErrConfigMissing, posture, ps.name)
	}
	return rp, nil
}
