package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/northvolt/go-ds1307"
	"github.com/peterbourgon/ff/v3/ffcli"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

func newDS1307(ctx context.Context, c *rootConfig) (*ds1307.Dev, io.Closer, error) {
	switch c.iface {
	case "i2c":
		return newDS1307_I2C(ctx, c)
	case "hid":
		return newDS1307_HID(ctx, c)
	default:
		return nil, nil, errors.New("ds1307: unknown interface")
	}
}

func newDS1307_I2C(ctx context.Context, c *rootConfig) (*ds1307.Dev, io.Closer, error) {
	if _, err := host.Init(); err != nil {
		return nil, nil, err
	}
	bus, err := i2creg.Open(c.bus)
	if err != nil {
		return nil, nil, fmt.Errorf("ds1307: failed to connect to bus: %w", err)
	}

	cfg := ds1307.ConfigDS1307_I2CDefault(bus)
	cfg.Debug = newLogger(c.verbose)
	d, err := ds1307.NewI2CDev(ctx, cfg)
	if err != nil {
		_ = bus.Close()
		return nil, nil, err
	}
	return d, bus, nil
}

func newDS1307_HID(ctx context.Context, c *rootConfig) (*ds1307.Dev, io.Closer, error) {
	cfg := ds1307.ConfigDS1307_HIDDefault()
	cfg.Debug = newLogger(c.verbose)
	cfg.HID.DevIndex = c.devIndex

	return ds1307.NewHIDDev(ctx, cfg)
}

// parseClock parses hh:mm:ss or hh:mm. Hours are checked against 0..23, the
// caller narrows them further for 12-hour input.
func parseClock(s string) (hours, minutes, seconds uint8, err error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("ds1307: invalid time %q, want hh:mm:ss", s)
	}
	limits := []uint64{23, 59, 59}
	var v [3]uint8
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 8)
		if err != nil || n > limits[i] {
			return 0, 0, 0, fmt.Errorf("ds1307: invalid time %q, want hh:mm:ss", s)
		}
		v[i] = uint8(n)
	}
	return v[0], v[1], v[2], nil
}

// parseDate parses yyyy-mm-dd or yy-mm-dd and returns the year as an offset
// from ds1307.BaseYear.
func parseDate(s string) (day, month, year uint8, err error) {
	invalid := fmt.Errorf("ds1307: invalid date %q, want yy-mm-dd", s)

	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return 0, 0, 0, invalid
	}
	y, err := strconv.ParseUint(parts[0], 10, 16)
	if err != nil {
		return 0, 0, 0, invalid
	}
	if len(parts[0]) == 4 {
		if y < ds1307.BaseYear || y >= ds1307.BaseYear+100 {
			return 0, 0, 0, ds1307.ErrYearOutOfRange
		}
		y -= ds1307.BaseYear
	}
	if y > 99 {
		return 0, 0, 0, invalid
	}
	m, err := strconv.ParseUint(parts[1], 10, 8)
	if err != nil || m < 1 || m > 12 {
		return 0, 0, 0, invalid
	}
	d, err := strconv.ParseUint(parts[2], 10, 8)
	if err != nil || d < 1 || d > 31 {
		return 0, 0, 0, invalid
	}
	return uint8(d), uint8(m), uint8(y), nil
}

func formatTime(t ds1307.TimeOfDay) string {
	s := fmt.Sprintf("%02d:%02d:%02d", t.Hours, t.Minutes, t.Seconds)
	if t.Hour12 {
		if t.PM {
			return s + " PM"
		}
		return s + " AM"
	}
	return s
}

func formatDate(d ds1307.CalendarDate) string {
	return fmt.Sprintf("%04d-%02d-%02d", ds1307.BaseYear+int(d.Year), d.Month, d.Day)
}

func prettyHex(data []byte) string {
	return prettyHexIndent(data, "    ", "")
}

func prettyHexIndent(data []byte, prefix string, space string) string {
	return prettyHexLines(data, func(int) string { return prefix }, space)
}

// prettyHexOffset prefixes every line with the address of its first byte.
func prettyHexOffset(data []byte, base int) string {
	return prettyHexLines(data, func(i int) string {
		return fmt.Sprintf("    %02x:  ", base+i)
	}, " ")
}

func prettyHexLines(data []byte, prefix func(int) string, space string) string {
	var buf strings.Builder

	// prefix and space every 16 byte, and 2 hex, and one space/newline
	cols := 16
	size := (len(data)/cols+1)*(len(prefix(0))+len(space)+1) + len(data)*3
	buf.Grow(size)

	for i := range data {
		if i > 0 {
			switch i % cols {
			case 0:
				buf.WriteByte('\n')
			case cols / 2:
				buf.WriteByte(' ')
				buf.WriteString(space)
			default:
				buf.WriteByte(' ')
			}
		}
		if i%cols == 0 {
			buf.WriteString(prefix(i))
		}

		buf.WriteString(fmt.Sprintf("%02X", data[i:i+1]))
	}

	return buf.String()
}

func addLongHelp(cmd *ffcli.Command) *ffcli.Command {
	if cmd.LongHelp == "" {
		cmd.LongHelp = cmd.ShortHelp
	}

	cmd.LongHelp += ds1307LongHelp
	cmd.Options = ffOptions()

	return cmd
}

func newLogger(verbose bool) ds1307.Logger {
	if verbose {
		return log.New(os.Stderr, "", 0)
	} else {
		return nil
	}
}
