package config

import "time"

// Config holds runtime settings for the portal CLI.
//
// Fields:
//   - APIBaseURL: base URL of the backend REST API.
//   - IdentityTimeout: hard timeout on identity checks (profile fetch),
//     so the loading state cannot hang indefinitely.
//   - NotificationPollInterval: how often notifications are refreshed
//     while a user is signed in.
//   - CachePath: path to the local sqlite file holding the advisory
//     profile cache.
//   - GoogleLoginURL: login entry point of the external identity provider.
//   - FrontendOrigin: origin used to resolve post-login return paths.
type Config struct {
	APIBaseURL               string
	IdentityTimeout          time.Duration
	NotificationPollInterval time.Duration
	CachePath                string
	GoogleLoginURL           string
	FrontendOrigin           string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8000/"
	c.IdentityTimeout = 15 * time.Second
	c.NotificationPollInterval = 60 * time.Second
	c.CachePath = "portal.db"
	c.GoogleLoginURL = "https://socialmates-6aa3380f13f2.herokuapp.com/account/google/login/"
	c.FrontendOrigin = "http://127.0.0.1:5173"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
