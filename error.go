package ds1307

import (
	"errors"
	"fmt"
)

// Package errors.
var (
	// ErrYearOutOfRange is returned when a time outside of the years the
	// device can hold is written.
	ErrYearOutOfRange = errors.New("ds1307: year out of range")

	// ErrUnknownSquareWave is returned when parsing an unknown square wave
	// output name.
	ErrUnknownSquareWave = errors.New("ds1307: unknown square wave output")

	// ErrRecordTooLarge is returned when a record does not fit in scratch
	// memory at the given offset.
	ErrRecordTooLarge = errors.New("ds1307: record does not fit in scratch memory")

	// ErrRecordCorrupt is returned when a record in scratch memory has a bad
	// length or checksum, typically after the backup battery was lost.
	ErrRecordCorrupt = errors.New("ds1307: record checksum mismatch")

	errNoBus = errors.New("ds1307: no i2c bus configured")
)

// txError is a failed bus transaction.
//
// Transport errors are never retried by the driver.
type txError struct {
	reg uint8
	op  string
	err error
}

func (e *txError) Error() string {
	return fmt.Sprintf("ds1307: %s 0x%02x: %v", e.op, e.reg, e.err)
}

func (e *txError) Unwrap() error {
	return e.err
}
