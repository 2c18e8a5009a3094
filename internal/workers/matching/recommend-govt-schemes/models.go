// internal/workers/matching/recommend-govt-schemes/models.go
package recommendgovtschemes

import "finmatch-workers/internal/models"

type Input struct {
	Startup           map[string]interface{} `json:"startup,omitempty"`
	NormalizedProfile *models.Profile        `json:"normalizedProfile,omitempty"`
}

type Output struct {
	Total           int                           `json:"total"`
	Recommendations []models.SchemeRecommendation `json:"recommendations"`
	TopMatches      []models.SchemeRecommendation `json:"topMatches"`
}
