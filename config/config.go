package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
)

// Backend kinds selectable at startup.
const (
	BackendLocal    = "local"
	BackendDocument = "document"
)

type Config struct {
	// Backend selects the storage variant once at process start.
	Backend string `env:"IMOBI_BACKEND" envDefault:"local"`

	// User is the logged-in identity label. It is trusted as-is and only
	// used to derive the storage partition key.
	User string `env:"IMOBI_USER"`

	Storage struct {
		// Directory holding the local partition files
		DataDir string `env:"IMOBI_DATA_DIR" envDefault:"data"`

		// Path of the document-store database file
		DatabasePath string `env:"IMOBI_DB_PATH" envDefault:"database/imobi.db"`

		// Directory CSV exports are written to
		ExportDir string `env:"IMOBI_EXPORT_DIR" envDefault:"exports"`
	}

	Sync struct {
		// How often the local store re-reads its partition file (ms)
		PollIntervalMS int `env:"IMOBI_POLL_INTERVAL_MS" envDefault:"1000"`

		// Delay before the first delivery after subscribing (ms)
		InitialDelayMS int `env:"IMOBI_INITIAL_DELAY_MS" envDefault:"100"`

		// Simulated network latency for create (ms)
		CreateLatencyMS int `env:"IMOBI_CREATE_LATENCY_MS" envDefault:"500"`

		// Simulated network latency for the other mutations (ms)
		WriteLatencyMS int `env:"IMOBI_WRITE_LATENCY_MS" envDefault:"300"`
	}
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if cfg.Backend != BackendLocal && cfg.Backend != BackendDocument {
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
	return cfg, nil
}

// PartitionKey derives the storage partition key for the configured user,
// falling back to the public partition when nobody is logged in.
func (c *Config) PartitionKey() string {
	return PartitionKeyFor(c.User)
}

// PartitionKeyFor derives the partition key for an arbitrary user label.
func PartitionKeyFor(user string) string {
	if user == "" {
		return "imobi_data_public"
	}
	return "imobi_data_" + user
}

// PollInterval returns the poll interval as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Sync.PollIntervalMS) * time.Millisecond
}

// InitialDelay returns the first-delivery delay as a duration.
func (c *Config) InitialDelay() time.Duration {
	return time.Duration(c.Sync.InitialDelayMS) * time.Millisecond
}

// CreateLatency returns the simulated create latency as a duration.
func (c *Config) CreateLatency() time.Duration {
	return time.Duration(c.Sync.CreateLatencyMS) * time.Millisecond
}

// WriteLatency returns the simulated write latency as a duration.
func (c *Config) WriteLatency() time.Duration {
	return time.Duration(c.Sync.WriteLatencyMS) * time.Millisecond
}
