// internal/poller/types.go
package poller

import (
	"time"

	"github.com/tamzrod/bot-status/internal/cache"
)

// Layout is where the bot keeps its status in device memory.
// Geometry only: no semantics.
type Layout struct {
	BusyCoil         uint16 // FC 1, 1 bit
	CommandRegister  uint16 // FC 3, 1 register
	PositionRegister uint16 // FC 4, 3 registers (x, y, z as int16)
	PositionScale    float64
	DigitalBase      uint16 // FC 2, one bit per pin index
	AnalogBase       uint16 // FC 4, one register per pin index
	DigitalPins      []int
	AnalogPins       []int
}

// PollResult is produced by one poll cycle.
type PollResult struct {
	BotID  string
	At     time.Time
	Update cache.Update // valid only when Err is nil
	Err    error        // non-nil means the poll cycle failed
}
