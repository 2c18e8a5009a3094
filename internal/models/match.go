// internal/models/match.go
package models

// MatchResult pairs a program with its 0-100 match score and the ordered
// per-criterion breakdown used by the UI compare panel.
type MatchResult struct {
	Program
	Score     int               `json:"score"`
	Breakdown []CriterionResult `json:"breakdown"`
}

type CriterionResult struct {
	Label   string  `json:"label"`
	Matched bool    `json:"matched"`
	Weight  float64 `json:"weight"`
	Detail  string  `json:"detail,omitempty"`
}

// MatchSet is the full response of a bank-program matching run. TopPicks is
// always the first min(3, len(Matches)) entries of the sorted match list.
type MatchSet struct {
	Profile  Profile       `json:"profile"`
	Total    int           `json:"total"`
	Matches  []MatchResult `json:"matches"`
	TopPicks []MatchResult `json:"topPicks"`
}
