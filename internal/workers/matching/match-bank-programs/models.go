// internal/workers/matching/match-bank-programs/models.go
package matchbankprograms

import "finmatch-workers/internal/models"

type Input struct {
	Profile           map[string]interface{} `json:"profile,omitempty"`
	NormalizedProfile *models.Profile        `json:"normalizedProfile,omitempty"`
	Filters           *Filters               `json:"filters,omitempty"`
	Limit             int                    `json:"limit,omitempty"`
}

// Filters narrows the catalog before eligibility runs. Both fields accept a
// single string or a list.
type Filters struct {
	ProgramType interface{} `json:"programType,omitempty"`
	BankType    interface{} `json:"bankType,omitempty"`
}

type Output struct {
	MatchRunID string               `json:"matchRunId"`
	Profile    models.Profile       `json:"profile"`
	Total      int                  `json:"total"`
	Matches    []models.MatchResult `json:"matches"`
	TopPicks   []models.MatchResult `json:"topPicks"`
}
