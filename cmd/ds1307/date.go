package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/peterbourgon/ff/v3/ffcli"
)

type dateConfig struct {
	rootConfig *rootConfig
	out        io.Writer
	err        io.Writer
	weekday    uint
}

func (c *dateConfig) Exec(ctx context.Context, args []string) error {
	if len(args) > 1 || c.weekday > 7 {
		return flag.ErrHelp
	}
	if c.rootConfig.verbose {
		fmt.Fprintln(c.err, "date", args)
	}

	var day, month, year uint8
	if len(args) == 1 {
		var err error
		if day, month, year, err = parseDate(args[0]); err != nil {
			return err
		}
	}

	d, closer, err := newDS1307(ctx, c.rootConfig)
	if err != nil {
		return err
	}
	defer closer.Close()

	if len(args) == 1 {
		if err := d.SetDate(ctx, day, month, year); err != nil {
			return err
		}
	}
	if c.weekday > 0 {
		if err := d.SetDayOfWeek(ctx, uint8(c.weekday)); err != nil {
			return err
		}
	}
	if len(args) == 1 || c.weekday > 0 {
		return nil
	}

	date, err := d.Date(ctx)
	if err != nil {
		return err
	}
	weekday, err := d.DayOfWeek(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "%s (weekday %d)\n", formatDate(date), weekday)
	return nil
}

func newDateCmd(rootConfig *rootConfig, out io.Writer, err io.Writer) *ffcli.Command {
	cfg := dateConfig{
		rootConfig: rootConfig,
		out:        out,
		err:        err,
	}

	fs := flag.NewFlagSet("ds1307 date", flag.ExitOnError)
	fs.UintVar(&cfg.weekday, "weekday", 0, "also set the day of week, 1..7")
	rootConfig.registerFlags(fs)

	return addLongHelp(&ffcli.Command{
		Name:       "date",
		ShortUsage: "date [yy-mm-dd]",
		ShortHelp:  "Reads or sets the date.",
		LongHelp: "Reads or sets the date. The year is 2000..2099, written either in\n" +
			"full or as the last two digits. The day is not checked against the month.",
		FlagSet: fs,
		Exec:    cfg.Exec,
	})
}
