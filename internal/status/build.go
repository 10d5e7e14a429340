// internal/status/build.go
package status

import (
	"fmt"
	"time"
)

// Build reads the cached state of src into a Snapshot.
// No IO of its own. No side effects. No retries.
//
// The reads are not atomic as a group: a sync landing between two reads is
// visible half-way unless src serializes it.
//
// All-or-nothing: on any error the zero Snapshot is returned.
func Build(src Source) (Snapshot, error) {
	if src == nil {
		return Snapshot{}, fmt.Errorf("%w: nil source", ErrInvalidInput)
	}

	st := src.Status()
	if st == nil {
		return Snapshot{}, fmt.Errorf("%w: source has no status accessor", ErrInvalidInput)
	}
	if src.Commands() == nil {
		return Snapshot{}, fmt.Errorf("%w: source has no command history", ErrInvalidInput)
	}
	store := src.StatusStorage()
	if store == nil {
		return Snapshot{}, fmt.Errorf("%w: source has no status storage", ErrInvalidInput)
	}

	var snap Snapshot

	busy, err := st.Busy()
	if err != nil {
		return Snapshot{}, sourceErr(KeyBusy, err)
	}
	snap.Busy = busy

	name, ok, err := st.LastCommand()
	if err != nil {
		return Snapshot{}, sourceErr(KeyCurrentCommand, err)
	}
	if ok {
		snap.CurrentCommand = &name
	}

	pos, err := st.Position()
	if err != nil {
		return Snapshot{}, sourceErr("position", err)
	}
	snap.X = copyFloat(pos.X)
	snap.Y = copyFloat(pos.Y)
	snap.Z = copyFloat(pos.Z)

	raw, err := store.Fetch(SyncNamespace, SyncKey)
	if err != nil {
		return Snapshot{}, sourceErr(KeyLastSync, err)
	}
	// Never synced is a normal state.
	if raw != nil {
		t, err := time.Parse(time.RFC3339Nano, string(raw))
		if err != nil {
			return Snapshot{}, sourceErr(KeyLastSync, err)
		}
		snap.LastSync = &t
	}

	for i := 0; i < PinCount; i++ {
		v, err := st.Pin(i)
		if err != nil {
			return Snapshot{}, sourceErr(pinKeys[i], err)
		}
		snap.Pins[i] = v
	}

	return snap, nil
}

func copyFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
