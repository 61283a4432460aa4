// Package config handles configuration for the fingr server, including
// defaults, JSON overlay, and command-line flags.
package config

import "time"

// RegistrationMode is the tri-state registration policy.
type RegistrationMode string

const (
	// RegistrationOpen lets anybody register.
	RegistrationOpen RegistrationMode = "open"
	// RegistrationKeyed requires the server registration key.
	RegistrationKeyed RegistrationMode = "key"
	// RegistrationClosed rejects all registrations.
	RegistrationClosed RegistrationMode = "closed"
)

// Config holds runtime settings for the fingr server.
//
// Fields:
//   - EndpointAddr: bind address for the HTTP endpoint.
//   - DatabaseDSN: PostgreSQL DSN (pgx); empty selects the in-memory stores.
//   - RedisAddr: optional Redis address for the presence backend.
//   - Registration: tri-state registration policy.
//   - RegistrationKey: key required when Registration is "key".
//   - SessionDuration: how long a login stays online without a bump; the
//     same window applies to each bump.
type Config struct {
	EndpointAddr    string
	DatabaseDSN     string
	RedisAddr       string
	Registration    RegistrationMode
	RegistrationKey string
	SessionDuration time.Duration
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.EndpointAddr = ":6969"
	c.DatabaseDSN = ""
	c.RedisAddr = ""
	c.Registration = RegistrationOpen
	c.RegistrationKey = ""
	c.SessionDuration = 1 * time.Hour
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
