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

	assert.Equal(t, "http://127.0.0.1:8000/", c.APIBaseURL)
	assert.Equal(t, 15*time.Second, c.IdentityTimeout)
	assert.Equal(t, 60*time.Second, c.NotificationPollInterval)
	assert.Equal(t, "portal.db", c.CachePath)
	assert.NotEmpty(t, c.GoogleLoginURL)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "http://127.0.0.1:8000/", cfg.APIBaseURL)
	assert.Equal(t, 60*time.Second, cfg.NotificationPollInterval)
}
