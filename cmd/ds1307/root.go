package main

import (
	"context"
	"flag"

	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"
)

type rootConfig struct {
	verbose  bool
	iface    string
	bus      string
	devIndex int
	config   string
}

func (c *rootConfig) registerFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.verbose, "v", false, "increase log verbosity")
	fs.StringVar(&c.iface, "i", "i2c", "interface type, hid or i2c")
	fs.StringVar(&c.bus, "bus", "", "i2c bus name or number, first available when empty")
	fs.IntVar(&c.devIndex, "dev-index", 0, "usb bridge index when enumerating")
	fs.StringVar(&c.config, "config", "", "config file with one flag per line")
}

func (c *rootConfig) Exec(context.Context, []string) error {
	return flag.ErrHelp
}

// ffOptions lets every flag be set from the environment or a config file.
func ffOptions() []ff.Option {
	return []ff.Option{
		ff.WithEnvVarPrefix("DS1307"),
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ff.PlainParser),
		ff.WithAllowMissingConfigFile(true),
	}
}

func newRootCmd() (*ffcli.Command, *rootConfig) {
	var cfg rootConfig

	fs := flag.NewFlagSet("ds1307", flag.ExitOnError)
	cfg.registerFlags(fs)

	return addLongHelp(&ffcli.Command{
		Name:       "ds1307",
		ShortUsage: "ds1307 [flags] <subcommand>",
		ShortHelp:  "Read and set the time of a DS1307 real-time clock.",
		FlagSet:    fs,
		Exec:       cfg.Exec,
	}), &cfg
}

var ds1307LongHelp = `

GENERAL
The clock answers at address 0x68 on the i2c bus. Use -i hid to go through a
MCP2221A USB bridge instead, and -dev-index to pick one of several bridges.

Every flag can be set in the environment with the DS1307_ prefix, eg
DS1307_BUS=1, or in the file named by -config:

  bus 1
  v true`
