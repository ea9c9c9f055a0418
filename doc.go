// Package ds1307 is a driver for the Maxim DS1307 serial real-time clock in Go.
//
// It supports communication using I²C, either through a periph.io bus or
// through a Microchip MCP2221A USB to I²C bridge.
//
// The driver is a translator between the packed BCD register layout of the
// device and plain values. It keeps no state of its own except for a hint of
// the last 12/24-hour mode it has seen. Every operation is a short sequence
// of bus transactions, serialized by a lock held for the whole operation.
//
// # Datasheets
//
// https://www.analog.com/media/en/technical-documentation/data-sheets/DS1307.pdf
package ds1307
