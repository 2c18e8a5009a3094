// internal/models/program.go
package models

// Program is a bank credit program from the catalog. Read-only to the
// engine; an empty eligibility field means no constraint on that dimension.
type Program struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	Sponsor       string             `json:"sponsor"`
	Type          string             `json:"type"` // e.g. "credit-line", "term-loan"
	BankType      string             `json:"bankType,omitempty"`
	Eligibility   ProgramEligibility `json:"eligibility"`
	MinLoanAmount *float64           `json:"minLoanAmount,omitempty"`
	MaxLoanAmount *float64           `json:"maxLoanAmount,omitempty"`
	Benefits      string             `json:"benefits,omitempty"`
	Documents     []string           `json:"documents,omitempty"`
	Contact       string             `json:"contact,omitempty"`
	ApplyURL      string             `json:"applyUrl,omitempty"`
}

type ProgramEligibility struct {
	Stages          []string `json:"stages,omitempty"`
	Sectors         []string `json:"sectors,omitempty"`
	MinRevenue      *float64 `json:"minRevenue,omitempty"`
	MaxRevenue      *float64 `json:"maxRevenue,omitempty"`
	States          []string `json:"states,omitempty"`
	Services        string   `json:"services,omitempty"` // comma/pipe/semicolon delimited
	SpecialCriteria []string `json:"specialCriteria,omitempty"`
}
