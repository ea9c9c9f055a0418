package ds1307

// HAL is the bus transport to the device.
//
// *i2c.Dev from periph.io implements HAL.
type HAL interface {
	// Tx writes w to the device and then reads len(r) bytes into r, as one
	// transaction with a repeated start between the two phases.
	//
	// The first byte of w sets the register pointer; the device auto
	// increments the pointer for every byte written or read.
	Tx(w, r []byte) error
}
