// internal/engine/scoring/weights.go
package scoring

// Weights is the per-criterion weight table for bank-program scoring. The
// numbers are load-bearing for downstream consumers and are therefore kept
// as an explicit, overridable configuration rather than inline literals.
type Weights struct {
	Stage           float64 `mapstructure:"stage"`
	Sector          float64 `mapstructure:"sector"`
	Revenue         float64 `mapstructure:"revenue"`
	Location        float64 `mapstructure:"location"`
	Services        float64 `mapstructure:"services"`
	SpecialCriteria float64 `mapstructure:"special_criteria"`
	BankType        float64 `mapstructure:"bank_type"`
	LoanRange       float64 `mapstructure:"loan_range"`

	// NeutralScore is assigned when no criterion was applicable: there is no
	// signal to discriminate on.
	NeutralScore int `mapstructure:"neutral_score"`
}

// DefaultWeights reproduces the production scoring policy.
func DefaultWeights() Weights {
	return Weights{
		Stage:           20,
		Sector:          12,
		Revenue:         14,
		Location:        10,
		Services:        18,
		SpecialCriteria: 10,
		BankType:        6,
		LoanRange:       8,
		NeutralScore:    60,
	}
}
