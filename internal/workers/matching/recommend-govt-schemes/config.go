// internal/workers/matching/recommend-govt-schemes/config.go
package recommendgovtschemes

import (
	"time"

	"finmatch-workers/internal/engine/schemes"
)

type Config struct {
	Timeout time.Duration
	Scores  schemes.RuleScores
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 15 * time.Second,
		Scores:  schemes.DefaultRuleScores(),
	}
}
