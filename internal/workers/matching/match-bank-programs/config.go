// internal/workers/matching/match-bank-programs/config.go
package matchbankprograms

import (
	"time"

	"finmatch-workers/internal/engine/scoring"
)

type Config struct {
	Timeout      time.Duration
	DefaultLimit int
	Weights      scoring.Weights
}

func LoadConfig() *Config {
	return &Config{
		Timeout:      15 * time.Second,
		DefaultLimit: 10,
		Weights:      scoring.DefaultWeights(),
	}
}
