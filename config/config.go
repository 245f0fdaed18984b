package config

import (
	"fmt"
	"sync"

	"nontransitive/models"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Environment is "development", "production" or "test"
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// Database configuration. An empty URL keeps the proof ledger in memory.
	DatabaseURL  string `env:"DATABASE_URL"`
	DatabaseName string `env:"DATABASE_NAME"`

	// HTTP API
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	// Game configuration
	FairRolls        bool                    `env:"FAIR_ROLLS" envDefault:"false"`
	ComputerStrategy models.ComputerStrategy `env:"COMPUTER_STRATEGY" envDefault:"random"`
	AnalyzeTrials    int                     `env:"ANALYZE_TRIALS" envDefault:"10000"`
}

// UsesDatabase reports whether proofs go to Postgres
func (c *Config) UsesDatabase() bool {
	return c.DatabaseURL != ""
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = Load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// Load reads an optional .env file and then the process environment
func Load() (*Config, error) {
	_ = godotenv.Load()
	return parse()
}

func parse() (*Config, error) {
	config := &Config{}
	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if !config.ComputerStrategy.Valid() {
		return nil, fmt.Errorf("COMPUTER_STRATEGY must be %q or %q, got %q",
			models.StrategyRandom, models.StrategyCounter, config.ComputerStrategy)
	}
	if config.AnalyzeTrials <= 0 {
		return nil, fmt.Errorf("ANALYZE_TRIALS must be positive, got %d", config.AnalyzeTrials)
	}

	return config, nil
}
