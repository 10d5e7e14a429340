// internal/cache/cache.go
package cache

import (
	"sync"

	"github.com/tamzrod/bot-status/internal/status"
)

// Update is one complete view of the device, as read by one sync cycle.
type Update struct {
	Busy        bool
	CommandCode uint16 // 0 means no command
	Command     string // resolved name; empty when CommandCode is 0
	Position    [3]float64
	Pins        [status.PinCount]status.PinValue
}

// Status is the in-memory cached status of one bot.
// Each read takes the lock on its own; a group of reads is not atomic.
type Status struct {
	mu sync.RWMutex

	synced bool
	cur    Update
}

// New returns an empty cache. Until the first Apply, position and
// command are unknown and every pin is unset.
func New() *Status {
	return &Status{}
}

// Apply replaces the cached state.
func (s *Status) Apply(u Update) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cur = u
	s.synced = true
}

// Current returns a copy of the cached state and whether it was ever set.
func (s *Status) Current() (Update, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur, s.synced
}

// ---- status.StatusReader ----

func (s *Status) Busy() (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur.Busy, nil
}

func (s *Status) LastCommand() (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.synced || s.cur.CommandCode == 0 {
		return "", false, nil
	}
	return s.cur.Command, true, nil
}

func (s *Status) Position() (status.Position, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.synced {
		return status.Position{}, nil
	}

	x, y, z := s.cur.Position[0], s.cur.Position[1], s.cur.Position[2]
	return status.Position{X: &x, Y: &y, Z: &z}, nil
}

// Pin returns status.PinUnset for pins outside the fixed range.
func (s *Status) Pin(n int) (status.PinValue, error) {
	if n < 0 || n >= status.PinCount {
		return status.PinUnset, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur.Pins[n], nil
}
