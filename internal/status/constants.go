// internal/status/constants.go
package status

// Status report layout constants.
// These values define the report shape and MUST NOT be configurable.

// ---- REPORT GEOMETRY ----

// PinCount is the fixed number of pins carried by every snapshot (pin0..pin13).
const PinCount = 14

// CoreFieldCount is the number of non-pin fields in a snapshot.
const CoreFieldCount = 6

// FieldCount is the total number of fields in a snapshot.
const FieldCount = CoreFieldCount + PinCount

// ---- FIELD KEYS ----

const (
	KeyBusy           = "busy"
	KeyCurrentCommand = "current_command"
	KeyX              = "x"
	KeyY              = "y"
	KeyZ              = "z"
	KeyLastSync       = "last_sync"
)

// pinKeys is the canonical key for each pin index.
var pinKeys = [PinCount]string{
	"pin0", "pin1", "pin2", "pin3", "pin4", "pin5", "pin6",
	"pin7", "pin8", "pin9", "pin10", "pin11", "pin12", "pin13",
}

// PinKey returns the canonical key of pin n. It panics if n is outside 0..PinCount-1.
func PinKey(n int) string {
	return pinKeys[n]
}

// ---- SYNC METADATA ----

// SyncNamespace is the storage namespace owned by the device process.
const SyncNamespace = "pi"

// SyncKey holds the last time the cache was confirmed up to date with the device.
// The stored value is RFC 3339 text.
const SyncKey = "last_sync"
