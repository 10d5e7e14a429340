// internal/poller/builder.go
package poller

import (
	"time"

	cfg "github.com/tamzrod/bot-status/internal/config"
	pmodbus "github.com/tamzrod/bot-status/internal/poller/modbus"
)

// Build constructs a Poller and wires Modbus client lifecycle.
// Connection is reused while healthy.
// On any failed cycle, Poller discards the client and uses factory on a future tick.
// The device does not have to be reachable at startup.
func Build(b cfg.BotConfig) (*Poller, func() error, error) {
	// client factory: ONE attempt per call
	factory := func() (Client, error) {
		return pmodbus.New(pmodbus.Config{
			Endpoint: b.Source.Endpoint,
			UnitID:   b.Source.UnitID,
			Timeout:  time.Duration(b.Source.TimeoutMs) * time.Millisecond,
		})
	}

	layout := Layout{
		BusyCoil:         b.Layout.BusyCoil,
		CommandRegister:  b.Layout.CommandRegister,
		PositionRegister: b.Layout.PositionRegister,
		PositionScale:    b.Layout.PositionScale,
		DigitalBase:      b.Layout.DigitalBase,
		AnalogBase:       b.Layout.AnalogBase,
	}
	for _, pin := range b.Layout.Pins {
		switch pin.Mode {
		case cfg.PinModeDigital:
			layout.DigitalPins = append(layout.DigitalPins, pin.Pin)
		case cfg.PinModeAnalog:
			layout.AnalogPins = append(layout.AnalogPins, pin.Pin)
		}
	}

	p, err := New(
		Config{
			BotID:    b.ID,
			Interval: time.Duration(b.Poll.IntervalMs) * time.Millisecond,
			Layout:   layout,
			Commands: b.Commands,
		},
		nil,
		factory,
	)
	if err != nil {
		return nil, nil, err
	}

	return p, p.Close, nil
}
