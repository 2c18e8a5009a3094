// internal/workers/matching/normalize-startup-profile/models.go
package normalizestartupprofile

import "finmatch-workers/internal/models"

type Input struct {
	Profile map[string]interface{} `json:"profile"`
}

type Output struct {
	NormalizedProfile models.Profile `json:"normalizedProfile"`
}
