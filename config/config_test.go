package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() Config {
	return Config{
		AppPort:           "8080",
		DatabaseName:      "shootdispatch",
		MaxRequestsPerMin: 200,
		Timezone:          "UTC",
		GeoCacheSize:      16,
		GeoBatchSize:      5,
		BackendMode:       "mongo",
		SessionTTL:        time.Minute,
	}
}

func TestValidate(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, Validate(&cfg))

	cfg = validConfig()
	cfg.BackendMode = "sqlite"
	assert.Error(t, Validate(&cfg))

	cfg = validConfig()
	cfg.BackendMode = "remote"
	assert.Error(t, Validate(&cfg), "remote mode needs a base URL")

	cfg.BackendBaseURL = "https://ops.example.com/api"
	assert.NoError(t, Validate(&cfg))

	cfg = validConfig()
	cfg.Timezone = "Mars/Olympus"
	assert.Error(t, Validate(&cfg))

	cfg = validConfig()
	cfg.SessionTTL = 0
	assert.Error(t, Validate(&cfg))
}

func TestLocationFallsBackToUTC(t *testing.T) {
	prev := AppConfig
	t.Cleanup(func() { AppConfig = prev })

	AppConfig.Timezone = ""
	assert.Equal(t, time.UTC, Location())

	AppConfig.Timezone = "Nowhere/Special"
	assert.Equal(t, time.UTC, Location())
}
