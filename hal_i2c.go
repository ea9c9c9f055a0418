package ds1307

import (
	"context"
	"fmt"

	"periph.io/x/conn/v3/i2c"
)

// NewI2CDev returns a device communicating over the I²C bus in cfg.
//
// The bus speed is set first when configured. The bus is not closed by the
// device; it belongs to the caller.
func NewI2CDev(ctx context.Context, cfg IfaceConfig) (*Dev, error) {
	if cfg.I2C.Bus == nil {
		return nil, errNoBus
	}
	if cfg.I2C.Speed != 0 {
		if err := cfg.I2C.Bus.SetSpeed(cfg.I2C.Speed); err != nil {
			return nil, fmt.Errorf("ds1307: failed to set bus speed: %w", err)
		}
	}
	return New(ctx, &i2c.Dev{Addr: Address, Bus: cfg.I2C.Bus}, cfg)
}
