// internal/models/scheme.go
package models

// Scheme is a government scheme from the catalog.
type Scheme struct {
	SchemeName    string `json:"schemeName"`
	Ministry      string `json:"ministry"`
	Category      string `json:"category"`
	Eligibility   string `json:"eligibility"`
	Benefits      string `json:"benefits"`
	MaxAssistance string `json:"maxAssistance"`
	OfficialLink  string `json:"officialLink"`
	Status        string `json:"status"`
}

// SchemeRule is a declarative recommendation rule: the named scheme is
// suggested when the profile satisfies the Match conditions.
type SchemeRule struct {
	Scheme string            `json:"scheme"`
	Match  map[string]string `json:"match"` // condition key -> expected value
}

type RuleEvaluation struct {
	Matched int `json:"matched"`
	Total   int `json:"total"` // applicable conditions only
	Score   int `json:"score"`
}

type SchemeRecommendation struct {
	Scheme     Scheme         `json:"scheme"`
	Evaluation RuleEvaluation `json:"evaluation"`
	Message    string         `json:"message"`
}

type SchemeRecommendationSet struct {
	Recommendations []SchemeRecommendation `json:"recommendations"`
	TopMatches      []SchemeRecommendation `json:"topMatches"`
}
