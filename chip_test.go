package ds1307

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/northvolt/go-ds1307/pkg/ds1307reg"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

// fakeChip simulates the address space of a DS1307 behind an i2c.Bus.
type fakeChip struct {
	mu    sync.Mutex
	regs  [ds1307reg.Size]byte
	ptr   int
	txs   int
	speed physic.Frequency
	err   error
}

var _ i2c.Bus = &fakeChip{}

var errFakeNACK = errors.New("fake: nack")

func (c *fakeChip) String() string {
	return "fakeChip"
}

func (c *fakeChip) SetSpeed(f physic.Frequency) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.speed = f
	return nil
}

func (c *fakeChip) Tx(addr uint16, w, r []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.err != nil {
		return c.err
	}
	if addr != Address {
		return errFakeNACK
	}
	c.txs++
	if len(w) > 0 {
		c.ptr = int(w[0]) % ds1307reg.Size
		for _, b := range w[1:] {
			c.regs[c.ptr] = b
			c.ptr = (c.ptr + 1) % ds1307reg.Size
		}
	}
	for i := range r {
		r[i] = c.regs[c.ptr]
		c.ptr = (c.ptr + 1) % ds1307reg.Size
	}
	return nil
}

func (c *fakeChip) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.txs
}

func (c *fakeChip) reg(offset int) byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.regs[offset]
}

func (c *fakeChip) setReg(offset int, v byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.regs[offset] = v
}

func newTestDev(t *testing.T, chip *fakeChip) *Dev {
	t.Helper()
	d, err := NewI2CDev(context.Background(), ConfigDS1307_I2CDefault(chip))
	if err != nil {
		t.Fatal(err)
	}
	return d
}
