// internal/workers/matching/normalize-startup-profile/config.go
package normalizestartupprofile

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}
