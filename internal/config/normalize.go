// internal/config/normalize.go
package config

import "strings"

const (
	DefaultTimeoutMs = 1000
	DefaultAPIListen = ":3000"
	DefaultLogLevel  = "info"
)

// Normalize applies post-validation defaults.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Bot.Source.TimeoutMs <= 0 {
		cfg.Bot.Source.TimeoutMs = DefaultTimeoutMs
	}
	if cfg.Bot.Layout.PositionScale == 0 {
		cfg.Bot.Layout.PositionScale = 1
	}

	for i := range cfg.Bot.Layout.Pins {
		p := &cfg.Bot.Layout.Pins[i]
		p.Mode = strings.ToLower(p.Mode)
	}

	if cfg.API.Listen == "" {
		cfg.API.Listen = DefaultAPIListen
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)

	if cfg.MQTT.Broker != "" {
		if cfg.MQTT.ClientID == "" {
			cfg.MQTT.ClientID = "bot-status-" + cfg.Bot.ID
		}
		if cfg.MQTT.Topic == "" {
			cfg.MQTT.Topic = "bots/" + cfg.Bot.ID + "/status"
		}
	}
}
