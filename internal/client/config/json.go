package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/technoheaven/portal-client/internal/flagx"
	"github.com/technoheaven/portal-client/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "60s" or as integer nanoseconds. After parsing, values
// are copied into the runtime Config (which uses time.Duration).
type JsonConfig struct {
	APIBaseURL               string         `json:"api_base_url"`
	IdentityTimeout          timex.Duration `json:"identity_timeout"`
	NotificationPollInterval timex.Duration `json:"notification_poll_interval"`
	CachePath                string         `json:"cache_path"`
	GoogleLoginURL           string         `json:"google_login_url"`
	FrontendOrigin           string         `json:"frontend_origin"`
}

// parseJson overlays Config with values loaded from a JSON file selected via
// the -c or -config flags. If no file is configured, nothing happens.
// Read or unmarshal errors panic; intended usage is
// defaults -> parseJson -> parseFlags, where later stages override earlier
// ones.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.IdentityTimeout.Duration != 0 {
		cfg.IdentityTimeout = time.Duration(jc.IdentityTimeout.Duration)
	}
	if jc.NotificationPollInterval.Duration != 0 {
		cfg.NotificationPollInterval = time.Duration(jc.NotificationPollInterval.Duration)
	}
	if jc.CachePath != "" {
		cfg.CachePath = jc.CachePath
	}
	if jc.GoogleLoginURL != "" {
		cfg.GoogleLoginURL = jc.GoogleLoginURL
	}
	if jc.FrontendOrigin != "" {
		cfg.FrontendOrigin = jc.FrontendOrigin
	}
}
