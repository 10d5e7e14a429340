// internal/poller/poller.go
package poller

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/tamzrod/bot-status/internal/cache"
	"github.com/tamzrod/bot-status/internal/status"
)

// Client abstracts Modbus operations needed by the poller.
// The poller depends on geometry only.
type Client interface {
	ReadCoils(addr, qty uint16) ([]bool, error)              // FC 1
	ReadDiscreteInputs(addr, qty uint16) ([]bool, error)     // FC 2
	ReadHoldingRegisters(addr, qty uint16) ([]uint16, error) // FC 3
	ReadInputRegisters(addr, qty uint16) ([]uint16, error)   // FC 4
}

// Factory opens a new client. ONE attempt per call.
type Factory func() (Client, error)

// Config is the minimal runtime config the poller needs.
type Config struct {
	BotID    string
	Interval time.Duration
	Layout   Layout
	Commands map[uint16]string
}

// Poller is a dumb, clock-driven reader that keeps the status cache in sync.
type Poller struct {
	cfg     Config
	client  Client
	factory Factory
}

// New creates a poller with immutable config.
// client may be nil if factory is set; the first cycle then connects.
func New(cfg Config, client Client, factory Factory) (*Poller, error) {
	if cfg.BotID == "" {
		return nil, errors.New("poller: bot id required")
	}
	if cfg.Interval <= 0 {
		return nil, errors.New("poller: interval must be > 0")
	}
	if client == nil && factory == nil {
		return nil, errors.New("poller: client or factory required")
	}
	for _, pin := range append(append([]int{}, cfg.Layout.DigitalPins...), cfg.Layout.AnalogPins...) {
		if pin < 0 || pin >= status.PinCount {
			return nil, fmt.Errorf("poller: pin %d out of range", pin)
		}
	}
	if cfg.Layout.PositionScale == 0 {
		cfg.Layout.PositionScale = 1
	}
	return &Poller{cfg: cfg, client: client, factory: factory}, nil
}

// PollOnce performs exactly one poll cycle.
// All-or-nothing: any failure aborts the cycle.
// On failure the client is discarded when a factory is available.
func (p *Poller) PollOnce() PollResult {
	res := PollResult{
		BotID: p.cfg.BotID,
		At:    time.Now(),
	}

	if p.client == nil {
		c, err := p.factory()
		if err != nil {
			res.Err = fmt.Errorf("poller: connect: %w", err)
			return res
		}
		p.client = c
	}

	u, err := p.read()
	if err != nil {
		res.Err = err
		p.discard()
		return res
	}

	// Commit only if all reads succeeded
	res.Update = u
	return res
}

func (p *Poller) read() (cache.Update, error) {
	var u cache.Update
	l := p.cfg.Layout

	bits, err := p.client.ReadCoils(l.BusyCoil, 1)
	if err != nil {
		return u, fmt.Errorf("poller: busy coil: %w", err)
	}
	if len(bits) < 1 {
		return u, errors.New("poller: busy coil: short read")
	}
	u.Busy = bits[0]

	regs, err := p.client.ReadHoldingRegisters(l.CommandRegister, 1)
	if err != nil {
		return u, fmt.Errorf("poller: command register: %w", err)
	}
	if len(regs) < 1 {
		return u, errors.New("poller: command register: short read")
	}
	u.CommandCode = regs[0]
	u.Command = p.commandName(regs[0])

	regs, err = p.client.ReadInputRegisters(l.PositionRegister, 3)
	if err != nil {
		return u, fmt.Errorf("poller: position registers: %w", err)
	}
	if len(regs) < 3 {
		return u, errors.New("poller: position registers: short read")
	}
	for i := 0; i < 3; i++ {
		// signed, two's complement
		u.Position[i] = float64(int16(regs[i])) / l.PositionScale
	}

	if len(l.DigitalPins) > 0 {
		bits, err := p.client.ReadDiscreteInputs(l.DigitalBase, status.PinCount)
		if err != nil {
			return u, fmt.Errorf("poller: digital pins: %w", err)
		}
		if len(bits) < status.PinCount {
			return u, errors.New("poller: digital pins: short read")
		}
		for _, pin := range l.DigitalPins {
			u.Pins[pin] = status.Digital(bits[pin])
		}
	}

	if len(l.AnalogPins) > 0 {
		regs, err := p.client.ReadInputRegisters(l.AnalogBase, status.PinCount)
		if err != nil {
			return u, fmt.Errorf("poller: analog pins: %w", err)
		}
		if len(regs) < status.PinCount {
			return u, errors.New("poller: analog pins: short read")
		}
		for _, pin := range l.AnalogPins {
			u.Pins[pin] = status.Analog(regs[pin])
		}
	}

	return u, nil
}

// commandName resolves a command code. 0 means no command.
func (p *Poller) commandName(code uint16) string {
	if code == 0 {
		return ""
	}
	if name, ok := p.cfg.Commands[code]; ok {
		return name
	}
	return fmt.Sprintf("command_%d", code)
}

func (p *Poller) discard() {
	if p.factory == nil {
		return
	}
	if c, ok := p.client.(io.Closer); ok {
		_ = c.Close()
	}
	p.client = nil
}

// Close releases the current client, if any.
func (p *Poller) Close() error {
	if c, ok := p.client.(io.Closer); ok {
		p.client = nil
		return c.Close()
	}
	return nil
}
