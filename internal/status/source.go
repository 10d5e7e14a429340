// internal/status/source.go
package status

import "time"

// Source is everything the snapshot builder reads from a bot.
// Implementations own the state; the builder never mutates it.
type Source interface {
	Status() StatusReader
	Commands() CommandLog
	StatusStorage() MetadataStore
}

// StatusReader exposes the bot's cached status.
type StatusReader interface {
	Busy() (bool, error)
	// LastCommand returns ok=false when no command has been issued.
	LastCommand() (name string, ok bool, err error)
	Position() (Position, error)
	Pin(n int) (PinValue, error)
}

// MetadataStore is a keyed store of sync metadata.
// Fetch returns nil, nil when the key does not exist.
type MetadataStore interface {
	Fetch(namespace, key string) ([]byte, error)
}

// CommandLog is the bot's command history, newest first.
type CommandLog interface {
	Recent(limit int) ([]Command, error)
}

// Position is the last known 3-axis position. A nil axis is unknown.
type Position struct {
	X *float64
	Y *float64
	Z *float64
}

// Command is one entry of the command history.
type Command struct {
	Name string    `json:"name"`
	At   time.Time `json:"at"`
}
