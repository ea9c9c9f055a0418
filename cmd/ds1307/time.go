package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/northvolt/go-ds1307"
	"github.com/peterbourgon/ff/v3/ffcli"
)

type timeConfig struct {
	rootConfig *rootConfig
	out        io.Writer
	err        io.Writer
	hour12     bool
	pm         bool
	sync       bool
}

func (c *timeConfig) Exec(ctx context.Context, args []string) error {
	if len(args) > 1 {
		return flag.ErrHelp
	}
	if c.rootConfig.verbose {
		fmt.Fprintln(c.err, "time", args)
	}

	d, closer, err := newDS1307(ctx, c.rootConfig)
	if err != nil {
		return err
	}
	defer closer.Close()

	switch {
	case c.sync:
		now := time.Now().UTC()
		if err := d.Set(ctx, now); err != nil {
			return err
		}
		fmt.Fprintln(c.out, now.Format(time.DateTime))
		return nil

	case len(args) == 0:
		t, err := d.Time(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.out, formatTime(t))
		return nil
	}

	t, err := c.parse(args[0])
	if err != nil {
		return err
	}
	return d.SetTimeOfDay(ctx, t)
}

func (c *timeConfig) parse(s string) (ds1307.TimeOfDay, error) {
	hours, minutes, seconds, err := parseClock(s)
	if err != nil {
		return ds1307.TimeOfDay{}, err
	}
	if c.hour12 && (hours < 1 || hours > 12) {
		return ds1307.TimeOfDay{}, errors.New("ds1307: 12-hour time needs hours 1..12")
	}
	return ds1307.TimeOfDay{
		Seconds: seconds,
		Minutes: minutes,
		Hours:   hours,
		Hour12:  c.hour12,
		PM:      c.hour12 && c.pm,
	}, nil
}

func newTimeCmd(rootConfig *rootConfig, out io.Writer, err io.Writer) *ffcli.Command {
	cfg := timeConfig{
		rootConfig: rootConfig,
		out:        out,
		err:        err,
	}

	fs := flag.NewFlagSet("ds1307 time", flag.ExitOnError)
	fs.BoolVar(&cfg.hour12, "12h", false, "write the time in 12-hour mode")
	fs.BoolVar(&cfg.pm, "pm", false, "the 12-hour time is after noon")
	fs.BoolVar(&cfg.sync, "sync", false, "set date and time from the host clock, in UTC")
	rootConfig.registerFlags(fs)

	return addLongHelp(&ffcli.Command{
		Name:       "time",
		ShortUsage: "time [hh:mm:ss]",
		ShortHelp:  "Reads or sets the time of day.",
		LongHelp: "Reads or sets the time of day. Setting the time also starts a halted\n" +
			"clock.",
		FlagSet: fs,
		Exec:    cfg.Exec,
	})
}
