// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig               `mapstructure:"app"`
	Camunda  CamundaConfig           `mapstructure:"camunda"`
	Database DatabaseConfig          `mapstructure:"database"`
	Catalog  CatalogConfig           `mapstructure:"catalog"`
	Matching MatchingConfig          `mapstructure:"matching"`
	Workers  map[string]WorkerConfig `mapstructure:"workers"`
	Logging  LoggingConfig           `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// CatalogConfig selects the catalog backend and its caching behavior.
type CatalogConfig struct {
	Source        string `mapstructure:"source"` // postgres | elasticsearch | file
	ProgramsPath  string `mapstructure:"programs_path"`
	SchemesPath   string `mapstructure:"schemes_path"`
	RulesPath     string `mapstructure:"rules_path"`
	ProgramsIndex string `mapstructure:"programs_index"`
	SchemesIndex  string `mapstructure:"schemes_index"`
	RulesIndex    string `mapstructure:"rules_index"`
	RedisTTL      int    `mapstructure:"redis_ttl"` // seconds, 0 disables the redis layer
}

// MatchingConfig externalizes the scoring policy so it can be tuned without
// touching engine code.
type MatchingConfig struct {
	DefaultLimit int              `mapstructure:"default_limit"`
	Weights      WeightsConfig    `mapstructure:"weights"`
	RuleScores   RuleScoresConfig `mapstructure:"rule_scores"`
}

type WeightsConfig struct {
	Stage           float64 `mapstructure:"stage"`
	Sector          float64 `mapstructure:"sector"`
	Revenue         float64 `mapstructure:"revenue"`
	Location        float64 `mapstructure:"location"`
	Services        float64 `mapstructure:"services"`
	SpecialCriteria float64 `mapstructure:"special_criteria"`
	BankType        float64 `mapstructure:"bank_type"`
	LoanRange       float64 `mapstructure:"loan_range"`
	NeutralScore    int     `mapstructure:"neutral_score"`
}

type RuleScoresConfig struct {
	Neutral  int `mapstructure:"neutral"`
	Fallback int `mapstructure:"fallback"`
}

type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // for error handling
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
