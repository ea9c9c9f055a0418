package ds1307

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/karalabe/usb"
	"periph.io/x/conn/v3/physic"
)

// ErrUSBNotSupported is returned when the USB support is missing.
//
// When building, CGO is required for USB support. If CGO is not enabled, the
// HID interface will not be available.
var ErrUSBNotSupported = errors.New("ds1307: usb support is missing")

// NewHIDDev returns a device behind a MCP2221A USB to I²C bridge.
//
// The returned closer releases the USB device.
func NewHIDDev(ctx context.Context, cfg IfaceConfig) (*Dev, io.Closer, error) {
	if !usb.Supported() {
		return nil, nil, ErrUSBNotSupported
	}

	deviceInfos, err := usb.EnumerateHid(cfg.HID.VendorID, cfg.HID.ProductID)
	if err != nil {
		return nil, nil, fmt.Errorf("ds1307: failed to get hid devices: %w", err)
	}
	if cfg.HID.DevIndex < 0 || cfg.HID.DevIndex >= len(deviceInfos) {
		return nil, nil, errors.New("ds1307: no hid devices found")
	}

	hid, err := deviceInfos[cfg.HID.DevIndex].Open()
	if err != nil {
		return nil, nil, fmt.Errorf("ds1307: %w", err)
	}

	phy, err := newHALHID(hid, cfg.HID)
	if err != nil {
		_ = hid.Close()
		return nil, nil, err
	}
	d, err := New(ctx, phy, cfg)
	if err != nil {
		_ = hid.Close()
		return nil, nil, err
	}
	return d, hid, nil
}

// MCP2221A commands, see datasheet section 3.1.
const (
	mcpCmdStatus          = 0x10 // also sets parameters
	mcpCmdI2CWrite        = 0x90
	mcpCmdI2CWriteNoStop  = 0x94
	mcpCmdI2CRead         = 0x91
	mcpCmdI2CReadRepStart = 0x93
	mcpCmdI2CReadGetData  = 0x40
)

const (
	// mcpReportSize is the size of every command and response report.
	mcpReportSize = 64
	// mcpChunkMax is the most data carried by one report.
	mcpChunkMax = 60

	mcpClock = 12 * physic.MegaHertz

	// parameters of the status command
	mcpStatusCancel   = 0x10
	mcpStatusSetSpeed = 0x20
	// mcpSpeedNotChanged is reported when a transfer is still in progress.
	mcpSpeedNotChanged = 0x21

	// mcpStateOffset is the offset of the I²C engine state in a status
	// response.
	mcpStateOffset = 8
)

// I²C engine states. These are not documented by Microchip; the values are
// the ones reported by the bridge in practice.
const (
	mcpStateIdle          = 0x00
	mcpStateAddrNACK      = 0x25
	mcpStateWritingNoStop = 0x45
	mcpStateReadError     = 0x7f
)

var (
	errNACK          = errors.New("ds1307: no acknowledge from device")
	errBridgeBusy    = errors.New("ds1307: usb bridge busy")
	errBridgeTimeout = errors.New("ds1307: usb bridge transfer timed out")
)

// halHID talks I²C through the HID interface of a MCP2221A.
type halHID struct {
	usb usb.Device
	cfg HIDConfig
}

func newHALHID(dev usb.Device, cfg HIDConfig) (*halHID, error) {
	h := &halHID{
		usb: dev,
		cfg: cfg,
	}
	return h, h.init()
}

// init cancels any transfer left over by a previous user and sets the bus
// clock.
func (h *halHID) init() error {
	var msg [mcpReportSize]byte
	msg[2] = mcpStatusCancel
	if h.cfg.Speed > 0 {
		msg[3] = mcpStatusSetSpeed
		msg[4] = byte(mcpClock/h.cfg.Speed - 3)
	}
	rsp, err := h.send(mcpCmdStatus, msg[:])
	if err != nil {
		return err
	}
	if h.cfg.Speed > 0 && rsp[3] == mcpSpeedNotChanged {
		return errBridgeBusy
	}
	return nil
}

func (h *halHID) Tx(w, r []byte) error {
	if len(w) > 0 {
		cmd := byte(mcpCmdI2CWrite)
		if len(r) > 0 {
			cmd = mcpCmdI2CWriteNoStop
		}
		if err := h.write(cmd, w); err != nil {
			return err
		}
	}
	if len(r) > 0 {
		cmd := byte(mcpCmdI2CRead)
		if len(w) > 0 {
			cmd = mcpCmdI2CReadRepStart
		}
		return h.read(cmd, r)
	}
	return nil
}

func (h *halHID) write(cmd byte, p []byte) error {
	if len(p) > mcpChunkMax {
		return fmt.Errorf("ds1307: usb bridge write of %d bytes exceeds %d", len(p), mcpChunkMax)
	}

	var msg [mcpReportSize]byte
	msg[1] = byte(len(p))
	msg[2] = byte(len(p) >> 8)
	msg[3] = Address << 1
	copy(msg[4:], p)
	rsp, err := h.send(cmd, msg[:])
	if err != nil {
		return err
	}
	if rsp[1] != 0 {
		return errBridgeBusy
	}

	// wait for the bridge to finish clocking out the data
	for i := 0; i < h.cfg.Retries; i++ {
		state, err := h.state()
		if err != nil {
			return err
		}
		switch {
		case state == mcpStateIdle:
			return nil
		case state == mcpStateWritingNoStop && cmd == mcpCmdI2CWriteNoStop:
			return nil
		case state == mcpStateAddrNACK:
			return errNACK
		}
		time.Sleep(h.cfg.PollDelay)
	}
	return errBridgeTimeout
}

func (h *halHID) read(cmd byte, p []byte) error {
	if len(p) > mcpChunkMax {
		return fmt.Errorf("ds1307: usb bridge read of %d bytes exceeds %d", len(p), mcpChunkMax)
	}

	var msg [mcpReportSize]byte
	msg[1] = byte(len(p))
	msg[2] = byte(len(p) >> 8)
	msg[3] = Address<<1 | 0x01
	rsp, err := h.send(cmd, msg[:])
	if err != nil {
		return err
	}
	if rsp[1] != 0 {
		return errBridgeBusy
	}

	for pos, i := 0, 0; pos < len(p); i++ {
		if i >= h.cfg.Retries {
			return errBridgeTimeout
		}
		var get [mcpReportSize]byte
		rsp, err := h.send(mcpCmdI2CReadGetData, get[:])
		if err != nil {
			return err
		}
		switch {
		case rsp[2] == mcpStateAddrNACK:
			return errNACK
		case rsp[1] != 0 || rsp[3] == mcpStateReadError:
			// data is not ready yet
			time.Sleep(h.cfg.PollDelay)
			continue
		}
		n := int(rsp[3])
		if n > mcpChunkMax || pos+n > len(p) {
			return fmt.Errorf("ds1307: usb bridge returned %d bytes", n)
		}
		pos += copy(p[pos:], rsp[4:4+n])
	}
	return nil
}

// state returns the I²C engine state of the bridge.
func (h *halHID) state() (byte, error) {
	var msg [mcpReportSize]byte
	rsp, err := h.send(mcpCmdStatus, msg[:])
	if err != nil {
		return 0, err
	}
	return rsp[mcpStateOffset], nil
}

// send writes a command report and reads its response report.
func (h *halHID) send(cmd byte, msg []byte) ([]byte, error) {
	msg[0] = cmd
	if _, err := h.usb.Write(msg); err != nil {
		return nil, fmt.Errorf("ds1307: usb write: %w", err)
	}

	rsp := make([]byte, mcpReportSize)
	n, err := h.usb.Read(rsp)
	if err != nil {
		return nil, fmt.Errorf("ds1307: usb read: %w", err)
	}
	if n < mcpReportSize {
		return nil, fmt.Errorf("ds1307: usb short read (%d of %d bytes)", n, mcpReportSize)
	}
	if rsp[0] != cmd {
		return nil, fmt.Errorf("ds1307: usb response to 0x%02x for command 0x%02x", rsp[0], cmd)
	}
	return rsp, nil
}
