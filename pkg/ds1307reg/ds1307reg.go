// Package ds1307reg describes the DS1307 register map.
//
// The timekeeping block is the first 8 bytes of the device address space and
// is followed by 56 bytes of battery-backed scratch memory. Registers is a
// binary view of the timekeeping block: it can be filled with Unmarshal and
// encoded back with Marshal, and it marshals to JSON and YAML with decoded
// values.
package ds1307reg

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
)

// Register offsets.
const (
	OffsetSeconds = 0x00
	OffsetMinutes = 0x01
	OffsetHours   = 0x02
	OffsetWeekday = 0x03
	OffsetDay     = 0x04
	OffsetMonth   = 0x05
	OffsetYear    = 0x06
	OffsetControl = 0x07

	// OffsetRAM is the first byte of scratch memory.
	OffsetRAM = 0x08
)

const (
	// TimekeepingSize is the size of the timekeeping block, control included.
	TimekeepingSize = 8

	// RAMSize is the size of the scratch memory.
	RAMSize = 56

	// Size is the full address space of the device. The register pointer
	// wraps around to 0x00 after 0x3f.
	Size = TimekeepingSize + RAMSize
)

// Bits and masks.
const (
	// ClockHaltBit stops the oscillator when set.
	ClockHaltBit = 0x80
	SecondsMask  = 0x7f

	// ModeBit selects 12-hour mode when set.
	ModeBit = 0x40
	// PMBit is the meridiem flag in 12-hour mode. In 24-hour mode it is
	// the upper digit of the hour.
	PMBit      = 0x20
	Hour24Mask = 0x3f
	Hour12Mask = 0x1f

	ControlOut  = 0x80
	ControlSQWE = 0x10
	ControlRS   = 0x03
)

// Seconds is the seconds register.
type Seconds struct {
	// Bits contains of
	// * CH 1
	// * seconds BCD 7
	Bits uint8
}

type secondsBits struct {
	Halted bool  `json:"halted" yaml:"halted"`
	Value  uint8 `json:"value" yaml:"value"`
}

// Halted returns true if the clock-halt bit is set.
func (s Seconds) Halted() bool {
	return s.Bits&ClockHaltBit != 0
}

func (s Seconds) Value() uint8 {
	return BCDToDecimal(s.Bits & SecondsMask)
}

func (s Seconds) bits() secondsBits {
	return secondsBits{
		Halted: s.Halted(),
		Value:  s.Value(),
	}
}

func (s Seconds) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.bits())
}

func (s Seconds) MarshalYAML() (interface{}, error) {
	return s.bits(), nil
}

// Hours is the hours register.
type Hours struct {
	// Bits contains of
	// * reserved 1
	// * 12/24 1
	// * PM or 20 hours 1
	// * hours BCD 5
	Bits uint8
}

type hoursBits struct {
	Mode12 bool  `json:"mode_12h" yaml:"mode_12h"`
	PM     bool  `json:"pm" yaml:"pm"`
	Value  uint8 `json:"value" yaml:"value"`
}

// Mode12 returns true if the register is encoded in 12-hour mode.
func (h Hours) Mode12() bool {
	return h.Bits&ModeBit != 0
}

// PM returns the meridiem flag. It is always false in 24-hour mode.
func (h Hours) PM() bool {
	if !h.Mode12() {
		return false
	}
	pm, _ := DecodeHour12(h.Bits)
	return pm
}

// Value returns the hour, 1..12 in 12-hour mode and 0..23 otherwise.
func (h Hours) Value() uint8 {
	if h.Mode12() {
		_, hour := DecodeHour12(h.Bits)
		return hour
	}
	return DecodeHour24(h.Bits)
}

func (h Hours) bits() hoursBits {
	return hoursBits{
		Mode12: h.Mode12(),
		PM:     h.PM(),
		Value:  h.Value(),
	}
}

func (h Hours) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.bits())
}

func (h Hours) MarshalYAML() (interface{}, error) {
	return h.bits(), nil
}

// Control is the square-wave control register.
type Control struct {
	// Bits contains of
	// * OUT 1
	// * reserved 2
	// * SQWE 1
	// * reserved 2
	// * RS 2
	Bits uint8
}

type controlBits struct {
	Out        bool  `json:"out" yaml:"out"`
	SQWE       bool  `json:"sqwe" yaml:"sqwe"`
	RateSelect uint8 `json:"rate_select" yaml:"rate_select"`
}

// Out returns the level of the output pin when the square wave is disabled.
func (c Control) Out() bool {
	return c.Bits&ControlOut != 0
}

// SquareWaveEnabled returns true if the oscillator output is enabled.
func (c Control) SquareWaveEnabled() bool {
	return c.Bits&ControlSQWE != 0
}

// RateSelect returns the RS1:RS0 frequency select bits.
func (c Control) RateSelect() uint8 {
	return c.Bits & ControlRS
}

func (c Control) bits() controlBits {
	return controlBits{
		Out:        c.Out(),
		SQWE:       c.SquareWaveEnabled(),
		RateSelect: c.RateSelect(),
	}
}

func (c Control) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.bits())
}

func (c Control) MarshalYAML() (interface{}, error) {
	return c.bits(), nil
}

// BCD is a register holding a plain BCD value.
type BCD uint8

func (b BCD) Value() uint8 {
	return BCDToDecimal(uint8(b))
}

func (b BCD) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.Value())
}

func (b BCD) MarshalYAML() (interface{}, error) {
	return b.Value(), nil
}

// Registers is the timekeeping block, in device order.
type Registers struct {
	Seconds Seconds `json:"seconds" yaml:"seconds"`
	Minutes BCD     `json:"minutes" yaml:"minutes"`
	Hours   Hours   `json:"hours" yaml:"hours"`
	Weekday BCD     `json:"weekday" yaml:"weekday"`
	Day     BCD     `json:"day" yaml:"day"`
	Month   BCD     `json:"month" yaml:"month"`
	Year    BCD     `json:"year" yaml:"year"`
	Control Control `json:"control" yaml:"control"`
}

// Marshal encodes v as it is laid out on the device.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	err := binary.Write(&buf, binary.BigEndian, v)
	return buf.Bytes(), err
}

// Unmarshal decodes the timekeeping block in b into data.
func Unmarshal(b []byte, data any) error {
	r := bytes.NewReader(b)
	return binary.Read(r, binary.BigEndian, data)
}

// UnmarshalPartial decodes b as if it was read from the device starting at
// offset. Registers outside of b are left zero.
func UnmarshalPartial(b []byte, offset int, data any) error {
	var size int
	switch data.(type) {
	case *Registers:
		size = TimekeepingSize
	default:
		return errors.New("ds1307: unsupported register block")
	}

	if offset < 0 || offset+len(b) > size {
		return errors.New("ds1307: registers exceed block size")
	}
	var block [TimekeepingSize]byte
	copy(block[offset:], b)
	return Unmarshal(block[:size], data)
}
