package config

import "fmt"

// DatabaseConfig defines the connection to the shared fleet database.
type DatabaseConfig struct {
	// URL is the DSN. A postgres:// URL selects the PostgreSQL backend,
	// anything else is treated as a SpatiaLite file path.
	URL string `json:"url"`
	// MaxIdleConns and MaxOpenConns size the connection pool.
	MaxIdleConns int `json:"max_idle_conns"`
	MaxOpenConns int `json:"max_open_conns"`
	// ConnMaxLifetimeSeconds recycles connections older than this.
	ConnMaxLifetimeSeconds int `json:"conn_max_lifetime_seconds"`
}

// SetDefaults applies sane defaults.
func (c *DatabaseConfig) SetDefaults() {
	if c.MaxIdleConns == 0 {
		c.MaxIdleConns = 2
	}
	if c.MaxOpenConns == 0 {
		c.MaxOpenConns = 10
	}
	if c.ConnMaxLifetimeSeconds == 0 {
		c.ConnMaxLifetimeSeconds = 1800
	}
}

// Validate checks mandatory fields.
func (c DatabaseConfig) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("database url is required")
	}
	if c.MaxIdleConns < 0 || c.MaxOpenConns < 0 {
		return fmt.Errorf("connection pool sizes must not be negative")
	}
	return nil
}
