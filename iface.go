package ds1307

import (
	"time"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

type IfaceType int

const (
	IfaceI2C IfaceType = iota
	IfaceHID
)

func (t IfaceType) String() string {
	switch t {
	case IfaceI2C:
		return "i2c"
	case IfaceHID:
		return "hid"
	default:
		return "unknown"
	}
}

// IfaceConfig is the configuration object for a device.
type IfaceConfig struct {
	// IfaceType affects how communication with the device is done.
	IfaceType IfaceType
	// I2C contains I²C specific configuration.
	I2C I2CConfig
	// HID contains configuration of the MCP2221A USB bridge.
	HID HIDConfig
	// Debug is used for debug output.
	Debug Logger
}

// I2CConfig holds the bus of the device.
//
// There is no address; the DS1307 always answers at Address.
type I2CConfig struct {
	Bus i2c.Bus
	// Speed is set on the bus when non-zero.
	Speed physic.Frequency
}

type HIDConfig struct {
	// DevIndex is the HID enumeration index of the bridge to use.
	DevIndex int

	// VendorID of the bridge.
	VendorID uint16

	// ProductID of the bridge.
	ProductID uint16

	// Speed is the I²C clock the bridge generates.
	Speed physic.Frequency

	// Retries is the number of status polls before a transfer is given up.
	Retries int

	// PollDelay is the time between status polls.
	PollDelay time.Duration
}

// maxSpeed is the fastest clock supported by the DS1307.
const maxSpeed = 100 * physic.KiloHertz

// ConfigDS1307_I2CDefault returns a default config for a DS1307 on bus.
func ConfigDS1307_I2CDefault(bus i2c.Bus) IfaceConfig {
	return IfaceConfig{
		IfaceType: IfaceI2C,
		I2C: I2CConfig{
			Bus:   bus,
			Speed: maxSpeed,
		},
	}
}

const (
	vendorMicrochip = 0x04d8

	productMCP2221A = 0x00dd
)

// ConfigDS1307_HIDDefault returns a configuration for a DS1307 behind a
// MCP2221A USB bridge.
func ConfigDS1307_HIDDefault() IfaceConfig {
	return IfaceConfig{
		IfaceType: IfaceHID,
		HID: HIDConfig{
			DevIndex:  0,
			VendorID:  vendorMicrochip,
			ProductID: productMCP2221A,
			Speed:     maxSpeed,
			Retries:   50,
			PollDelay: 300 * time.Microsecond,
		},
	}
}
