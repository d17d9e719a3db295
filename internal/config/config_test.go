package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aisprintone/Sparrow-sub003/internal/model"
	"github.com/Aisprintone/Sparrow-sub003/internal/tax"
)

func validDoc() Document {
	constants := map[string]float64{}
	for i, k := range requiredKeys {
		constants[k] = float64(i + 1)
	}
	table := tax.Table{
		{Lower: 0, Upper: 10000, Rate: 0.10},
		{Lower: 10000, Upper: 0, Rate: 0.20},
	}
	return Document{
		Version: "test.1",
		ParameterSets: map[string]ParameterSetDoc{
			DefaultSet: {
				Constants: constants,
				Tax: map[tax.IncomeType]map[model.FilingStatus]tax.Table{
					tax.IncomeOrdinary: {model.FilingSingle: table},
				},
				Poverty: PovertyGuideline{Base: 15060, PerPerson: 5380},
				Risk: map[model.RiskPosture]RiskParams{
					model.RiskConservative: {Mean: 0.002, StdDev: 0.005},
					model.RiskModerate:     {Mean: 0.005, StdDev: 0.012},
					model.RiskGrowth:       {Mean: 0.008, StdDev: 0.025},
				},
			},
		},
	}
}

func TestLoad_FromFile(t *testing.T) {
	store, err := Load("testdata/params.yaml")
	require.NoError(t, err)
	assert.Equal(t, "test.1", store.Version())

	v, err := store.Get(DefaultSet, KeyDistressExpenseReduction)
	require.NoError(t, err)
	assert.InDelta(t, 0.12, v, 1e-9)
}

func TestNew_MissingKeyIsFatal(t *testing.T) {
	doc := validDoc()
	delete(doc.ParameterSets[DefaultSet].Constants, KeySanitizeBound)
	_, err := New(doc)
	assert.ErrorIs(t, err, ErrConfigMissing)
}

func TestNew_BadBracketTableIsFatal(t *testing.T) {
	doc := validDoc()
	ps := doc.ParameterSets[DefaultSet]
	ps.Tax[tax.IncomeOrdinary][model.FilingSingle] = tax.Table{
		{Lower: 0, Upper: 10000, Rate: 0.10},
		{Lower: 9000, Upper: 0, Rate: 0.20},
	}
	_, err := New(doc)
	assert.ErrorIs(t, err, tax.ErrInvalidBracketTable)
}

func TestNew_MissingRiskPosture(t *testing.T) {
	doc := validDoc()
	delete(doc.ParameterSets[DefaultSet].Risk, model.RiskGrowth)
	_, err := New(doc)
	assert.ErrorIs(t, err, ErrConfigMissing)
}

func TestNew_RequiresDefaultSet(t *testing.T) {
	doc := validDoc()
	doc.ParameterSets["other"] = doc.ParameterSets[DefaultSet]
	delete(doc.ParameterSets, DefaultSet)
	_, err := New(doc)
	assert.Error(t, err)
}

func TestStore_Get(t *testing.T) {
	store, err := New(validDoc())
	require.NoError(t, err)

	_, err = store.Get(DefaultSet, "no.such.key")
	assert.ErrorIs(t, err, ErrConfigMissing)

	_, err = store.Get("missing-set", KeySanitizeBound)
	assert.ErrorIs(t, err, ErrConfigMissing)

	ps, err := store.Set("")
	require.NoError(t, err)
	assert.Equal(t, DefaultSet, ps.Name())
}

func TestPovertyGuideline_Annual(t *testing.T) {
	g := PovertyGuideline{Base: 15060, PerPerson: 5380}
	assert.InDelta(t, 15060, g.Annual(1), 1e-9)
	assert.InDelta(t, 15060, g.Annual(0), 1e-9)
	assert.InDelta(t, 15060+3*5380, g.Annual(4), 1e-9)
}
