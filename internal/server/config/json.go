package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/fingr/internal/flagx"
	"github.com/dmitrijs2005/fingr/internal/timex"
)

// JsonConfig is the intermediate DTO used for reading JSON configuration
// files. It uses timex.Duration for interval fields, which accepts both
// string values such as "1h" and integer nanoseconds. After unmarshalling
// its fields are copied into the runtime Config.
type JsonConfig struct {
	EndpointAddr    string         `json:"endpoint_addr"`
	DatabaseDSN     string         `json:"database_dsn"`
	RedisAddr       string         `json:"redis_addr"`
	Registration    string         `json:"registration"`
	RegistrationKey string         `json:"registration_key"`
	SessionDuration timex.Duration `json:"session_duration"`
}

// parseJson loads configuration values from the JSON file named by the
// -c/-config flags into the provided Config. When no file is given the
// Config is left untouched. An unreadable or invalid file panics; the
// server must not start on a half-applied configuration.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	config.EndpointAddr = c.EndpointAddr
	config.DatabaseDSN = c.DatabaseDSN
	config.RedisAddr = c.RedisAddr
	config.Registration = RegistrationMode(c.Registration)
	config.RegistrationKey = c.RegistrationKey
	config.SessionDuration = c.SessionDuration.Duration
}
