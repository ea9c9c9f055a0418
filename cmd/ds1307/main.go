/*
ds1307 is a tool to read and set a DS1307 real-time clock.

It talks to the clock on a native I²C bus or through a MCP2221A USB bridge.
Flags can also be given as DS1307_* environment variables or in a plain
config file passed with -config.
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/peterbourgon/ff/v3/ffcli"
)

func main() {
	var (
		out = os.Stdout
		err = os.Stderr
	)

	rootCmd, cfg := newRootCmd()
	rootCmd.Subcommands = []*ffcli.Command{
		newInfoCmd(cfg, out, err),
		newTimeCmd(cfg, out, err),
		newDateCmd(cfg, out, err),
		newClockCmd(cfg, out, err),
		newModeCmd(cfg, out, err),
		newSquareWaveCmd(cfg, out, err),
		newRAMCmd(cfg, out, err),
	}

	ctx, cancel := context.WithCancel(context.Background())

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	go func() {
		var num = 0
		for range c {
			num += 1
			if num >= 3 {
				os.Exit(1)
			} else {
				cancel()
			}
		}
	}()

	if err := rootCmd.ParseAndRun(ctx, os.Args[1:]); err != nil {
		if !errors.Is(err, context.Canceled) {
			libPrefix := "ds1307: "
			msg := strings.TrimPrefix(err.Error(), libPrefix)
			fmt.Fprintf(os.Stderr, "%s: %s\n", rootCmd.Name, msg)
			os.Exit(1)
		} else if cfg.verbose {
			fmt.Fprintf(os.Stderr, "%s: cancelled\n", rootCmd.Name)
		}
	}
}
