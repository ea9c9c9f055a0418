package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/northvolt/go-ds1307"
	"github.com/peterbourgon/ff/v3/ffcli"
)

type squareWaveConfig struct {
	rootConfig *rootConfig
	out        io.Writer
	err        io.Writer
}

func (c *squareWaveConfig) Exec(ctx context.Context, args []string) error {
	if len(args) > 1 {
		return flag.ErrHelp
	}

	var sqw ds1307.SquareWave
	if len(args) == 1 {
		var err error
		if sqw, err = ds1307.ParseSquareWave(args[0]); err != nil {
			return err
		}
	}

	d, closer, err := newDS1307(ctx, c.rootConfig)
	if err != nil {
		return err
	}
	defer closer.Close()

	if len(args) == 1 {
		return d.SetSquareWaveOutput(ctx, sqw)
	}

	sqw, err = d.SquareWaveOutput(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, sqw)
	return nil
}

func newSquareWaveCmd(rootConfig *rootConfig, out io.Writer, err io.Writer) *ffcli.Command {
	cfg := squareWaveConfig{
		rootConfig: rootConfig,
		out:        out,
		err:        err,
	}

	fs := flag.NewFlagSet("ds1307 sqw", flag.ExitOnError)
	rootConfig.registerFlags(fs)

	return addLongHelp(&ffcli.Command{
		Name:       "sqw",
		ShortUsage: "sqw [1hz|4khz|8khz|32khz|low|high]",
		ShortHelp:  "Reads or sets the SQW/OUT pin.",
		FlagSet:    fs,
		Exec:       cfg.Exec,
	})
}
