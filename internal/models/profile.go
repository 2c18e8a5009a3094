// internal/models/profile.go
package models

// Profile is the canonical, normalized view of a startup. All slice fields
// are deduplicated, lowercase and non-nil; absent scalar data is nil or "".
type Profile struct {
	Stage           string      `json:"stage,omitempty"`
	Sectors         []string    `json:"sectors"`
	Revenue         *float64    `json:"revenue,omitempty"` // annual revenue in crores
	RevenueBand     RevenueBand `json:"revenueBand"`
	State           string      `json:"state,omitempty"` // lowercase token or "national"
	Services        []string    `json:"services"`
	SpecialCriteria []string    `json:"specialCriteria"`
	BankTypes       []string    `json:"bankTypes"`
	LoanPreference  *LoanRange  `json:"loanPreference,omitempty"`
	HasPrototype    *bool       `json:"hasPrototype,omitempty"`
	NeedsLoan       *bool       `json:"needsLoan,omitempty"`
}

// RevenueBand is a coarse revenue bucket. All fields are nil/empty when the
// band could not be determined.
type RevenueBand struct {
	Min   *float64 `json:"min"`
	Max   *float64 `json:"max"`
	Label string   `json:"label,omitempty"` // "<1cr", "1-5cr", "5-10cr", "10cr+"
}

type LoanRange struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}
