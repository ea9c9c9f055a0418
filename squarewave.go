package ds1307

import (
	"strings"

	"periph.io/x/conn/v3/physic"
)

// SquareWave is a value of the control register selecting the output of the
// SQW/OUT pin.
type SquareWave uint8

const (
	SquareWave1Hz   SquareWave = 0x10
	SquareWave4kHz  SquareWave = 0x11
	SquareWave8kHz  SquareWave = 0x12
	SquareWave32kHz SquareWave = 0x13

	// SquareWaveOffLow disables the oscillator output and drives the pin
	// low.
	SquareWaveOffLow SquareWave = 0x00
	// SquareWaveOffHigh disables the oscillator output and releases the
	// open drain pin high.
	SquareWaveOffHigh SquareWave = 0x80
)

var squareWaveNames = map[string]SquareWave{
	"1hz":   SquareWave1Hz,
	"4khz":  SquareWave4kHz,
	"8khz":  SquareWave8kHz,
	"32khz": SquareWave32kHz,
	"low":   SquareWaveOffLow,
	"high":  SquareWaveOffHigh,
}

// ParseSquareWave parses one of 1hz, 4khz, 8khz, 32khz, low or high.
func ParseSquareWave(s string) (SquareWave, error) {
	if sqw, ok := squareWaveNames[strings.ToLower(s)]; ok {
		return sqw, nil
	}
	return 0, ErrUnknownSquareWave
}

// Frequency returns the output frequency, or 0 when the output is static.
func (s SquareWave) Frequency() physic.Frequency {
	switch s {
	case SquareWave1Hz:
		return physic.Hertz
	case SquareWave4kHz:
		return 4096 * physic.Hertz
	case SquareWave8kHz:
		return 8192 * physic.Hertz
	case SquareWave32kHz:
		return 32768 * physic.Hertz
	default:
		return 0
	}
}

func (s SquareWave) String() string {
	switch s {
	case SquareWave1Hz, SquareWave4kHz, SquareWave8kHz, SquareWave32kHz:
		return s.Frequency().String()
	case SquareWaveOffLow:
		return "low"
	case SquareWaveOffHigh:
		return "high"
	default:
		return "unknown"
	}
}
