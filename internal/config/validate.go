// internal/config/validate.go
package config

import (
	"fmt"
	"strings"

	"github.com/tamzrod/bot-status/internal/status"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config: empty configuration")
	}

	b := cfg.Bot

	if b.ID == "" {
		return fmt.Errorf("bot: id is required")
	}
	if b.Source.Endpoint == "" {
		return fmt.Errorf("bot %q: source.endpoint is required", b.ID)
	}
	if b.Source.TimeoutMs < 0 {
		return fmt.Errorf("bot %q: source.timeout_ms must be >= 0", b.ID)
	}
	if b.Poll.IntervalMs <= 0 {
		return fmt.Errorf("bot %q: poll.interval_ms must be > 0", b.ID)
	}
	if b.Layout.PositionScale < 0 {
		return fmt.Errorf("bot %q: layout.position_scale must be >= 0", b.ID)
	}

	// ------------------------------------------------------------
	// PIN MAP
	// ------------------------------------------------------------

	seen := make(map[int]bool)

	for _, p := range b.Layout.Pins {
		if p.Pin < 0 || p.Pin >= status.PinCount {
			return fmt.Errorf(
				"bot %q: pin %d out of range 0..%d",
				b.ID,
				p.Pin,
				status.PinCount-1,
			)
		}
		if seen[p.Pin] {
			return fmt.Errorf("bot %q: pin %d declared more than once", b.ID, p.Pin)
		}
		seen[p.Pin] = true

		switch strings.ToLower(p.Mode) {
		case PinModeDigital, PinModeAnalog:
		default:
			return fmt.Errorf(
				"bot %q: pin %d: mode must be %q or %q, got %q",
				b.ID,
				p.Pin,
				PinModeDigital,
				PinModeAnalog,
				p.Mode,
			)
		}
	}

	// ------------------------------------------------------------
	// COMMAND NAMES
	// ------------------------------------------------------------

	for code, name := range b.Commands {
		if code == 0 {
			return fmt.Errorf("bot %q: command code 0 is reserved for no command", b.ID)
		}
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("bot %q: command %d has an empty name", b.ID, code)
		}
	}

	// ------------------------------------------------------------
	// STORAGE / DELIVERY
	// ------------------------------------------------------------

	if cfg.Storage.Path == "" {
		return fmt.Errorf("storage.path is required")
	}

	if cfg.MQTT.Broker == "" && (cfg.MQTT.Topic != "" || cfg.MQTT.ClientID != "") {
		return fmt.Errorf("mqtt: topic or client_id set without broker")
	}

	if cfg.Log.Level != "" {
		switch strings.ToLower(cfg.Log.Level) {
		case "debug", "info", "warn", "error", "fatal":
		default:
			return fmt.Errorf("log.level %q is not one of debug, info, warn, error, fatal", cfg.Log.Level)
		}
	}

	return nil
}
