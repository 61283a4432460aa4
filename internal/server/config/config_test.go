package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":6969", c.EndpointAddr)
	assert.Equal(t, "", c.DatabaseDSN)
	assert.Equal(t, "", c.RedisAddr)
	assert.Equal(t, RegistrationOpen, c.Registration)
	assert.Equal(t, "", c.RegistrationKey)
	assert.Equal(t, 1*time.Hour, c.SessionDuration)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	c := LoadConfig()

	require.NotNil(t, c, "LoadConfig must not return nil")

	assert.Equal(t, ":6969", c.EndpointAddr)
	assert.Equal(t, RegistrationOpen, c.Registration)
	assert.Equal(t, 1*time.Hour, c.SessionDuration)
}
