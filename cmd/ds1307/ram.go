package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"

	"github.com/northvolt/go-ds1307"
	"github.com/peterbourgon/ff/v3/ffcli"
)

type ramConfig struct {
	rootConfig *rootConfig
	out        io.Writer
	err        io.Writer
	width      int
}

func (c *ramConfig) Exec(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return flag.ErrHelp
	}
	if c.width != 1 && c.width != 2 && c.width != 4 {
		return errors.New("ds1307: width must be 1, 2 or 4")
	}
	if c.rootConfig.verbose {
		fmt.Fprintln(c.err, "ram", args)
	}

	var (
		offset int
		value  int64
		err    error
	)
	switch {
	case args[0] == "dump" && len(args) == 1:
	case (args[0] == "read" || args[0] == "load") && len(args) == 2:
		offset, err = parseOffset(args[1])
	case args[0] == "write" && len(args) == 3:
		if offset, err = parseOffset(args[1]); err == nil {
			// one extra bit so that both 0xff and -1 are accepted
			value, err = strconv.ParseInt(args[2], 0, 8*c.width+1)
		}
	case args[0] == "store" && len(args) == 3:
		offset, err = parseOffset(args[1])
	default:
		return flag.ErrHelp
	}
	if err != nil {
		return err
	}

	d, closer, err := newDS1307(ctx, c.rootConfig)
	if err != nil {
		return err
	}
	defer closer.Close()

	switch args[0] {
	case "dump":
		return c.dump(ctx, d)
	case "read":
		return c.read(ctx, d, offset)
	case "write":
		return c.write(ctx, d, offset, value)
	case "load":
		data, err := d.ReadRAMRecord(ctx, offset)
		if err != nil {
			return err
		}
		_, err = c.out.Write(data)
		return err
	default:
		return d.WriteRAMRecord(ctx, offset, []byte(args[2]))
	}
}

func (c *ramConfig) dump(ctx context.Context, d *ds1307.Dev) error {
	ram := d.RAM(ctx)
	buf := make([]byte, ram.Size())
	if _, err := ram.ReadAt(buf, 0); err != nil {
		return err
	}
	fmt.Fprintln(c.out, prettyHexOffset(buf, 0))
	return nil
}

func (c *ramConfig) read(ctx context.Context, d *ds1307.Dev, offset int) error {
	var v int64
	switch c.width {
	case 1:
		b, err := d.ReadRAM(ctx, offset)
		if err != nil {
			return err
		}
		v = int64(b)
	case 2:
		i, err := d.ReadRAMInt16(ctx, offset)
		if err != nil {
			return err
		}
		v = int64(i)
	case 4:
		i, err := d.ReadRAMInt32(ctx, offset)
		if err != nil {
			return err
		}
		v = int64(i)
	}
	fmt.Fprintln(c.out, v)
	return nil
}

func (c *ramConfig) write(ctx context.Context, d *ds1307.Dev, offset int, v int64) error {
	switch c.width {
	case 1:
		return d.WriteRAM(ctx, uint8(v), offset)
	case 2:
		return d.WriteRAMInt16(ctx, int16(v), offset)
	default:
		return d.WriteRAMInt32(ctx, int32(v), offset)
	}
}

// parseOffset parses a scratch memory offset, in decimal or 0x hex.
func parseOffset(s string) (int, error) {
	p, err := strconv.ParseUint(s, 0, 8)
	if err != nil || p >= ds1307.RAMSize {
		return 0, fmt.Errorf("ds1307: invalid offset %q, want 0..%d", s, ds1307.RAMSize-1)
	}
	return int(p), nil
}

func newRAMCmd(rootConfig *rootConfig, out io.Writer, err io.Writer) *ffcli.Command {
	cfg := ramConfig{
		rootConfig: rootConfig,
		out:        out,
		err:        err,
	}

	fs := flag.NewFlagSet("ds1307 ram", flag.ExitOnError)
	fs.IntVar(&cfg.width, "width", 1, "bytes per value for read and write, 1, 2 or 4")
	rootConfig.registerFlags(fs)

	return addLongHelp(&ffcli.Command{
		Name:       "ram",
		ShortUsage: "ram dump | read <offset> | write <offset> <value> | load <offset> | store <offset> <text>",
		ShortHelp:  "Accesses the battery-backed scratch memory.",
		LongHelp: "Accesses the 56 bytes of battery-backed scratch memory. Values of\n" +
			"width 2 and 4 are little-endian. store and load keep a text in a\n" +
			"checksummed record, load fails when the memory was lost.",
		FlagSet: fs,
		Exec:    cfg.Exec,
	})
}
