package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/northvolt/go-ds1307"
	"github.com/peterbourgon/ff/v3/ffcli"
)

type clockConfig struct {
	rootConfig *rootConfig
	out        io.Writer
	err        io.Writer
}

func (c *clockConfig) Exec(ctx context.Context, args []string) error {
	if len(args) > 1 {
		return flag.ErrHelp
	}

	d, closer, err := newDS1307(ctx, c.rootConfig)
	if err != nil {
		return err
	}
	defer closer.Close()

	if len(args) == 0 {
		enabled, err := d.IsEnabled(ctx)
		if err != nil {
			return err
		}
		if enabled {
			fmt.Fprintln(c.out, "running")
		} else {
			fmt.Fprintln(c.out, "halted")
		}
		return nil
	}

	switch args[0] {
	case "enable":
		return d.EnableClock(ctx)
	case "disable":
		return d.DisableClock(ctx)
	default:
		return flag.ErrHelp
	}
}

func newClockCmd(rootConfig *rootConfig, out io.Writer, err io.Writer) *ffcli.Command {
	cfg := clockConfig{
		rootConfig: rootConfig,
		out:        out,
		err:        err,
	}

	fs := flag.NewFlagSet("ds1307 clock", flag.ExitOnError)
	rootConfig.registerFlags(fs)

	return addLongHelp(&ffcli.Command{
		Name:       "clock",
		ShortUsage: "clock [enable|disable]",
		ShortHelp:  "Reads, starts or halts the oscillator.",
		LongHelp: "Reads, starts or halts the oscillator. The seconds are kept.\n" +
			"Note that the clock is always started when the tool connects to it.",
		FlagSet: fs,
		Exec:    cfg.Exec,
	})
}

type modeConfig struct {
	rootConfig *rootConfig
	out        io.Writer
	err        io.Writer
	hour       int
	pm         bool
}

func (c *modeConfig) Exec(ctx context.Context, args []string) error {
	if len(args) > 1 {
		return flag.ErrHelp
	}

	var mode ds1307.HourMode
	if len(args) == 1 {
		switch args[0] {
		case "12":
			mode = ds1307.HourMode12
			if c.hour < 1 || c.hour > 12 {
				return errors.New("ds1307: switching to 12-hour mode needs -hour 1..12")
			}
		case "24":
			mode = ds1307.HourMode24
			if c.hour < 0 || c.hour > 23 {
				return errors.New("ds1307: switching to 24-hour mode needs -hour 0..23")
			}
		default:
			return flag.ErrHelp
		}
	}

	d, closer, err := newDS1307(ctx, c.rootConfig)
	if err != nil {
		return err
	}
	defer closer.Close()

	if mode == ds1307.HourModeUnknown {
		is24, err := d.Check24Hour(ctx)
		if err != nil {
			return err
		}
		if is24 {
			fmt.Fprintln(c.out, ds1307.HourMode24)
		} else {
			fmt.Fprintln(c.out, ds1307.HourMode12)
		}
		return nil
	}

	if mode == ds1307.HourMode12 {
		err = d.Set12(ctx)
	} else {
		err = d.Set24(ctx)
	}
	if err != nil {
		return err
	}

	// the hour digits are still in the old mode
	t, err := d.Time(ctx)
	if err != nil {
		return err
	}
	t.Hours = uint8(c.hour)
	t.Hour12 = mode == ds1307.HourMode12
	t.PM = t.Hour12 && c.pm
	return d.SetTimeOfDay(ctx, t)
}

func newModeCmd(rootConfig *rootConfig, out io.Writer, err io.Writer) *ffcli.Command {
	cfg := modeConfig{
		rootConfig: rootConfig,
		out:        out,
		err:        err,
	}

	fs := flag.NewFlagSet("ds1307 mode", flag.ExitOnError)
	fs.IntVar(&cfg.hour, "hour", -1, "hour to write in the new mode")
	fs.BoolVar(&cfg.pm, "pm", false, "the 12-hour hour is after noon")
	rootConfig.registerFlags(fs)

	return addLongHelp(&ffcli.Command{
		Name:       "mode",
		ShortUsage: "mode [12|24] -hour <hour>",
		ShortHelp:  "Reads or switches between 12-hour and 24-hour mode.",
		LongHelp: "Reads or switches between 12-hour and 24-hour mode. The hour is\n" +
			"encoded differently in each mode, so switching also writes the hour\n" +
			"given with -hour. Minutes and seconds are kept.",
		FlagSet: fs,
		Exec:    cfg.Exec,
	})
}
