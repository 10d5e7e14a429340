// internal/status/snapshot.go
package status

import "time"

// Snapshot is the status report of one bot at one point in time.
// It holds no reference back to its source. Absent data is nil, never an error.
type Snapshot struct {
	Busy           bool
	CurrentCommand *string
	X              *float64
	Y              *float64
	Z              *float64
	LastSync       *time.Time
	Pins           [PinCount]PinValue
}

// Field is one keyed entry of a snapshot.
type Field struct {
	Key   string
	Value interface{}
}

// Fields returns all snapshot entries in canonical order.
// The result always has exactly FieldCount entries.
// Nil pointers are reported as nil values.
func (s Snapshot) Fields() []Field {
	out := make([]Field, 0, FieldCount)

	out = append(out,
		Field{Key: KeyBusy, Value: s.Busy},
		Field{Key: KeyCurrentCommand, Value: stringOrNil(s.CurrentCommand)},
		Field{Key: KeyX, Value: floatOrNil(s.X)},
		Field{Key: KeyY, Value: floatOrNil(s.Y)},
		Field{Key: KeyZ, Value: floatOrNil(s.Z)},
		Field{Key: KeyLastSync, Value: timeOrNil(s.LastSync)},
	)

	for i := 0; i < PinCount; i++ {
		out = append(out, Field{Key: pinKeys[i], Value: s.Pins[i].Scalar()})
	}

	return out
}

// Map returns the snapshot as a flat keyed map.
func (s Snapshot) Map() map[string]interface{} {
	m := make(map[string]interface{}, FieldCount)
	for _, f := range s.Fields() {
		m[f.Key] = f.Value
	}
	return m
}

func stringOrNil(p *string) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func floatOrNil(p *float64) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

// Timestamps are reported as RFC 3339 text.
func timeOrNil(p *time.Time) interface{} {
	if p == nil {
		return nil
	}
	return p.Format(time.RFC3339Nano)
}
