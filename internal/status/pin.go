// internal/status/pin.go
package status

import "strconv"

// PinMode is how a pin is wired on the device.
type PinMode uint8

const (
	PinModeUnset PinMode = iota
	PinModeDigital
	PinModeAnalog
)

func (m PinMode) String() string {
	switch m {
	case PinModeDigital:
		return "digital"
	case PinModeAnalog:
		return "analog"
	default:
		return "unset"
	}
}

// PinValue is the current reading of one pin.
// The zero value is an unset (unconnected) pin.
type PinValue struct {
	Mode    PinMode
	Reading uint16
}

// PinUnset is the value reported for a pin that is not connected.
var PinUnset = PinValue{}

// Digital returns a digital pin value.
func Digital(high bool) PinValue {
	if high {
		return PinValue{Mode: PinModeDigital, Reading: 1}
	}
	return PinValue{Mode: PinModeDigital}
}

// Analog returns an analog pin value.
func Analog(reading uint16) PinValue {
	return PinValue{Mode: PinModeAnalog, Reading: reading}
}

// IsUnset reports whether the pin carries no reading.
func (p PinValue) IsUnset() bool {
	return p.Mode == PinModeUnset
}

// Scalar returns the canonical report form of the value:
// "unset", "low", "high", or the analog reading as a number.
func (p PinValue) Scalar() interface{} {
	switch p.Mode {
	case PinModeDigital:
		if p.Reading != 0 {
			return "high"
		}
		return "low"
	case PinModeAnalog:
		return p.Reading
	default:
		return "unset"
	}
}

func (p PinValue) String() string {
	if p.Mode == PinModeAnalog {
		return strconv.Itoa(int(p.Reading))
	}
	return p.Scalar().(string)
}
