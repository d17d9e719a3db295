package model

// FilingStatus selects which tax bracket column applies to a profile.
type FilingStatus string

const (
	FilingSingle       FilingStatus = "single"
	FilingMarriedJoint FilingStatus = "married_joint"
	FilingHeadOfHouse  FilingStatus = "head_of_household"
)

// DebtKind distinguishes debt accounts for strategy ordering and display.
type DebtKind string

const (
	DebtStudentLoan DebtKind = "student_loan"
	DebtCreditCard  DebtKind = "credit_card"
	DebtAuto        DebtKind = "auto"
	DebtMortgage    DebtKind = "mortgage"
)

// DebtAccount is one liability on the profile.
// AnnualRate is a nominal annual rate as a fraction (0.068 = 6.8%).
type DebtAccount struct {
	Name           string   `json:"name" yaml:"name"`
	Kind           DebtKind `json:"kind" yaml:"kind"`
	Balance        float64  `json:"balance" yaml:"balance"`
	AnnualRate     float64  `json:"annual_rate" yaml:"annual_rate"`
	MinimumPayment float64  `json:"minimum_payment" yaml:"minimum_payment"`
}

// ProfileSnapshot is the immutable financial picture a simulation starts
// from. The core only reads it; all per-trial mutation happens on state
// cloned off this snapshot.
type ProfileSnapshot struct {
	MonthlyIncome   float64 `json:"monthly_income" yaml:"monthly_income"`
	MonthlyExpenses float64 `json:"monthly_expenses" yaml:"monthly_expenses"`

	LiquidBalance     float64 `json:"liquid_balance" yaml:"liquid_balance"`
	InvestmentBalance float64 `json:"investment_balance" yaml:"investment_balance"`
	RetirementBalance float64 `json:"retirement_balance" yaml:"retirement_balance"`

	Debts []DebtAccount `json:"debts,omitempty" yaml:"debts"`

	FilingStatus  FilingStatus `json:"filing_status" yaml:"filing_status"`
	HouseholdSize int          `json:"household_size" yaml:"household_size"`

	// DemographicTier is advisory context for the caller ("genz",
	// "midcareer", "senior"); the core carries it through untouched.
	DemographicTier string `json:"demographic_tier,omitempty" yaml:"demographic_tier"`
}

// TotalDebt sums the balances of all debt accounts.
func (p ProfileSnapshot) TotalDebt() float64 {
	total := 0.0
	for _, d := range p.Debts {
		total += d.Balance
	}
	return total
}
