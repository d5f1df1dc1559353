package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the per-invocation settings, read once at startup and
// never mutated afterwards.
//
// REGIONS may be empty: the scan then performs zero work and reports
// zero matches. SNS_TOPIC_ARN is required up front; a scan that cannot
// notify is useless, so its absence fails fast instead of surfacing
// only on the first match.
type Config struct {
	Regions      []string `env:"REGIONS" envSeparator:","`
	SNSTopicARN  string   `env:"SNS_TOPIC_ARN,notEmpty"`
	SelfLogGroup string   `env:"SELF_LOG_GROUP"`
	ExtractPath  string   `env:"EXTRACT_PATH"`
	EventLimit   int32    `env:"EVENT_LIMIT" envDefault:"50"`
	ScanWorkers  int      `env:"SCAN_WORKERS" envDefault:"4"`
}

// Load reads configuration from the environment. A .env file is loaded
// first when present so local runs behave like the Lambda environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	cfg.Regions = normalizeRegions(cfg.Regions)
	if cfg.EventLimit <= 0 {
		cfg.EventLimit = 50
	}
	if cfg.ScanWorkers <= 0 {
		cfg.ScanWorkers = 4
	}
	return &cfg, nil
}

func normalizeRegions(regions []string) []string {
	var out []string
	for _, r := range regions {
		r = strings.TrimSpace(r)
		if r != "" {
			out = append(out, r)
		}
	}
	return out
}
