// Package tax implements a progressive marginal-rate tax calculator.
// Everything in this package is a pure function of its inputs; bracket
// tables come from the configuration store and are validated once at
// load time.
package tax

import (
	"errors"
	"fmt"
	"math"

	"github.com/Aisprintone/Sparrow-sub003/internal/model"
)

// IncomeType selects which bracket table applies.
type IncomeType string

const (
	IncomeOrdinary     IncomeType = "ordinary"
	IncomeCapitalGains IncomeType = "capital_gains"
	IncomeForgiveness  IncomeType = "forgiveness"
)

// ErrInvalidBracketTable is returned for tables whose brackets are not
// strictly increasing and non-overlapping. This is a fatal configuration
// error: callers abort startup rather than retry.
var ErrInvalidBracketTable = errors.New("invalid bracket table")

// Bracket is one marginal-rate slice. Upper <= 0 marks the unbounded top
// bracket.
type Bracket struct {
	Lower float64 `yaml:"lower" json:"lower"`
	Upper float64 `yaml:"upper" json:"upper"`
	Rate  float64 `yaml:"rate" json:"rate"`
}

// unbounded reports whether the bracket has no upper edge.
func (b Bracket) unbounded() bool { return b.Upper <= 0 || math.IsInf(b.Upper, 1) }

// Table is an ordered sequence of brackets for one filing status and
// income type.
type Table []Bracket

// Validate checks that brackets are ordered, contiguous from zero, and
// non-overlapping, with the final bracket unbounded.
func (t Table) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("%w: empty table", ErrInvalidBracketTable)
	}
	if t[0].Lower != 0 {
		return fmt.Errorf("%w: first bracket must start at 0, got %.2f", ErrInvalidBracketTable, t[0].Lower)
	}
	for i, b := range t {
		if b.Rate < 0 || b.Rate >= 1 {
			return fmt.Errorf("%w: bracket %d rate %.4f out of [0, 1)", ErrInvalidBracketTable, i, b.Rate)
		}
		last := i == len(t)-1
		if last {
			if !b.unbounded() {
				return fmt.Errorf("%w: final bracket must be unbounded", ErrInvalidBracketTable)
			}
			continue
		}
		if b.unbounded() {
			return fmt.Errorf("%w: bracket %d is unbounded but not last", ErrInvalidBracketTable, i)
		}
		if b.Upper <= b.Lower {
			return fmt.Errorf("%w: bracket %d upper %.2f <= lower %.2f", ErrInvalidBracketTable, i, b.Upper, b.Lower)
		}
		if t[i+1].Lower != b.Upper {
			return fmt.Errorf("%w: bracket %d upper %.2f does not meet next lower %.2f", ErrInvalidBracketTable, i, b.Upper, t[i+1].Lower)
		}
	}
	return nil
}

// Compute walks the ordered bracket table, applying each marginal rate
// only to the slice of income inside that bracket. Income at or below
// zero owes nothing; income past the top edge is taxed at the top
// marginal rate without bound. The table must already be validated.
func Compute(income float64, t Table) float64 {
	if income <= 0 {
		return 0
	}
	owed := 0.0
	for _, b := range t {
		if income <= b.Lower {
			break
		}
		top := income
		if !b.unbounded() && b.Upper < top {
			top = b.Upper
		}
		owed += (top - b.Lower) * b.Rate
	}
	return owed
}

// Calculator bundles the bracket tables for every (income type, filing
// status) pair. Built once from configuration and read-only afterwards.
type Calculator struct {
	tables map[IncomeType]map[model.FilingStatus]Table
}

// NewCalculator validates every table up front; a single bad table makes
// the whole calculator unusable.
func NewCalculator(tables map[IncomeType]map[model.FilingStatus]Table) (*Calculator, error) {
	for typ, byStatus := range tables {
		for status, t := range byStatus {
			if err := t.Validate(); err != nil {
				return nil, fmt.Errorf("%s/%s: %w", typ, status, err)
			}
		}
	}
	return &Calculator{tables: tables}, nil
}

// Tax computes the liability on income of the given type for the given
// filing status. Unknown combinations are a configuration error.
func (c *Calculator) Tax(income float64, status model.FilingStatus, typ IncomeType) (float64, error) {
	byStatus, ok := c.tables[typ]
	if !ok {
		return 0, fmt.Errorf("no bracket tables for income type %q", typ)
	}
	t, ok := byStatus[status]
	if !ok {
		return 0, fmt.Errorf("no %s bracket table for filing status %q", typ, status)
	}
	return Compute(income, t), nil
}
