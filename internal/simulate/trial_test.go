package simulate

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aisprintone/Sparrow-sub003/internal/model"
	"github.com/Aisprintone/Sparrow-sub003/internal/tax"
)

func TestSanitizeState_ClampsNonFiniteValues(t *testing.T) {
	state := &model.TrialState{
		LiquidBalance:     math.NaN(),
		InvestmentBalance: math.Inf(1),
		RetirementBalance: 100,
		Debts:             []model.DebtAccount{{Balance: math.Inf(1)}},
	}
	trial := model.SimulationTrial{}
	sanitizeState(state, 1e12, &trial)

	assert.True(t, trial.Sanitized)
	assert.Zero(t, state.LiquidBalance)
	assert.Equal(t, 1e12, state.InvestmentBalance)
	assert.Equal(t, 100.0, state.RetirementBalance)
	assert.Equal(t, 1e12, state.Debts[0].Balance)
}

func TestSanitizeState_LeavesFiniteValuesAlone(t *testing.T) {
	state := &model.TrialState{LiquidBalance: -5000, InvestmentBalance: 2e6}
	trial := model.SimulationTrial{}
	sanitizeState(state, 1e12, &trial)

	assert.False(t, trial.Sanitized)
	assert.Equal(t, -5000.0, state.LiquidBalance)
}

func TestClampTo(t *testing.T) {
	assert.Zero(t, clampTo(math.NaN(), 100))
	assert.Equal(t, 100.0, clampTo(math.Inf(1), 100))
	assert.Equal(t, -100.0, clampTo(math.Inf(-1), 100))
	assert.Equal(t, 42.0, clampTo(42, 100))
}

func TestSettleTaxes_ChargesLiabilityAndResets(t *testing.T) {
	calc, err := tax.NewCalculator(map[tax.IncomeType]map[model.FilingStatus]tax.Table{
		tax.IncomeOrdinary: {model.FilingSingle: {
			{Lower: 0, Upper: 10000, Rate: 0.10},
			{Lower: 10000, Upper: 0, Rate: 0.20},
		}},
	})
	require.NoError(t, err)

	state := &model.TrialState{
		LiquidBalance:   5000,
		TaxableOrdinary: 15000,
		PenaltyDue:      100,
	}
	settleTaxes(state, runInputs{taxes: calc, filing: model.FilingSingle})

	// 1500 of tax plus the penalty.
	assert.InDelta(t, 5000-1600, state.LiquidBalance, 1e-9)
	assert.InDelta(t, 1600, state.CumulativeTax, 1e-9)
	assert.Zero(t, state.TaxableOrdinary)
	assert.Zero(t, state.PenaltyDue)
}

func TestWriteTrialsCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trials.csv")
	trials := []model.SimulationTrial{
		{Succeeded: true, PeriodsToTarget: 20, EndingBalance: 12485.5},
		{Succeeded: false, PeriodsToTarget: model.PeriodsNotReached, EndingBalance: 9100.25, Sanitized: true},
	}
	require.NoError(t, WriteTrialsCSV(path, trials))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "periods_to_target")
	assert.Contains(t, lines[1], "true,20")
	assert.Contains(t, lines[2], "false,-1")
}
