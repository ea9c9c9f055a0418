package ds1307

import (
	"context"
	"encoding/binary"
	"errors"
	"io"

	"github.com/northvolt/go-ds1307/pkg/ds1307reg"
)

// RAMSize is the size of the battery-backed scratch memory.
const RAMSize = ds1307reg.RAMSize

// ReadRAM reads the scratch memory byte at offset p.
//
// An offset outside of 0..RAMSize-1 reads as zero without a bus transaction.
func (d *Dev) ReadRAM(ctx context.Context, p int) (uint8, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.readRAM(ctx, p)
}

// WriteRAM writes v at offset p of the scratch memory.
//
// An offset outside of 0..RAMSize-1 is silently ignored.
func (d *Dev) WriteRAM(ctx context.Context, v uint8, p int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.writeRAM(ctx, v, p)
}

// ReadRAMInt16 reads a little-endian int16 at offsets p and p+1.
//
// Bytes are read one at a time, with the same clamping as ReadRAM.
func (d *Dev) ReadRAMInt16(ctx context.Context, p int) (int16, error) {
	var buf [2]byte
	if err := d.readRAMBytes(ctx, p, buf[:]); err != nil {
		return 0, err
	}
	return int16(binary.LittleEndian.Uint16(buf[:])), nil
}

// WriteRAMInt16 writes v little-endian at offsets p and p+1.
func (d *Dev) WriteRAMInt16(ctx context.Context, v int16, p int) error {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], uint16(v))
	return d.writeRAMBytes(ctx, p, buf[:])
}

// ReadRAMInt32 reads a little-endian int32 at offsets p through p+3.
func (d *Dev) ReadRAMInt32(ctx context.Context, p int) (int32, error) {
	var buf [4]byte
	if err := d.readRAMBytes(ctx, p, buf[:]); err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(buf[:])), nil
}

// WriteRAMInt32 writes v little-endian at offsets p through p+3.
func (d *Dev) WriteRAMInt32(ctx context.Context, v int32, p int) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(v))
	return d.writeRAMBytes(ctx, p, buf[:])
}

// ReadRAMAt reads up to len(b) bytes of scratch memory starting at offset p
// in a single transaction. It returns the number of bytes read, which is
// short when the end of the scratch memory is reached.
func (d *Dev) ReadRAMAt(ctx context.Context, p int, b []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.readRAMAt(ctx, p, b)
}

// WriteRAMAt writes up to len(b) bytes of scratch memory starting at offset p
// in a single transaction. It returns the number of bytes written.
func (d *Dev) WriteRAMAt(ctx context.Context, p int, b []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.writeRAMAt(ctx, p, b)
}

// RAM returns the scratch memory as an io.ReaderAt and io.WriterAt.
func (d *Dev) RAM(ctx context.Context) *ScratchMemory {
	return &ScratchMemory{ctx, d}
}

// ScratchMemory is a view of the scratch memory of a device.
type ScratchMemory struct {
	ctx context.Context
	d   *Dev
}

var (
	_ io.ReaderAt = &ScratchMemory{}
	_ io.WriterAt = &ScratchMemory{}
)

var errNegativeOffset = errors.New("ds1307: negative offset")

// ReadAt implements io.ReaderAt.
func (s *ScratchMemory) ReadAt(b []byte, off int64) (int, error) {
	if off < 0 {
		return 0, errNegativeOffset
	}
	if off >= RAMSize {
		return 0, io.EOF
	}
	n, err := s.d.ReadRAMAt(s.ctx, int(off), b)
	if err == nil && n < len(b) {
		err = io.EOF
	}
	return n, err
}

// WriteAt implements io.WriterAt.
func (s *ScratchMemory) WriteAt(b []byte, off int64) (int, error) {
	if off < 0 {
		return 0, errNegativeOffset
	}
	if off >= RAMSize {
		return 0, io.ErrShortWrite
	}
	n, err := s.d.WriteRAMAt(s.ctx, int(off), b)
	if err == nil && n < len(b) {
		err = io.ErrShortWrite
	}
	return n, err
}

// Size returns the size of the scratch memory.
func (s *ScratchMemory) Size() int64 {
	return RAMSize
}

func ramInRange(p int) bool {
	return p >= 0 && p < RAMSize
}

func (d *Dev) readRAM(ctx context.Context, p int) (uint8, error) {
	if !ramInRange(p) {
		return 0, nil
	}
	return d.readRegister(ctx, ds1307reg.OffsetRAM+uint8(p))
}

func (d *Dev) writeRAM(ctx context.Context, v uint8, p int) error {
	if !ramInRange(p) {
		return nil
	}
	return d.writeRegister(ctx, ds1307reg.OffsetRAM+uint8(p), v)
}

// readRAMBytes fills b one byte access at a time, holding the lock for all of
// them.
func (d *Dev) readRAMBytes(ctx context.Context, p int, b []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i := range b {
		v, err := d.readRAM(ctx, p+i)
		if err != nil {
			return err
		}
		b[i] = v
	}
	return nil
}

func (d *Dev) writeRAMBytes(ctx context.Context, p int, b []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i, v := range b {
		if err := d.writeRAM(ctx, v, p+i); err != nil {
			return err
		}
	}
	return nil
}

// ramSpan clamps n bytes at offset p to the scratch memory. The register
// pointer of the device wraps around to the clock registers, so sequential
// access must never run past the end.
func ramSpan(p int, n int) int {
	if !ramInRange(p) {
		return 0
	}
	if n > RAMSize-p {
		n = RAMSize - p
	}
	return n
}

func (d *Dev) readRAMAt(ctx context.Context, p int, b []byte) (int, error) {
	n := ramSpan(p, len(b))
	if n == 0 {
		return 0, nil
	}
	if err := d.readRegisters(ctx, ds1307reg.OffsetRAM+uint8(p), b[:n]); err != nil {
		return 0, err
	}
	return n, nil
}

func (d *Dev) writeRAMAt(ctx context.Context, p int, b []byte) (int, error) {
	n := ramSpan(p, len(b))
	if n == 0 {
		return 0, nil
	}
	if err := d.writeRegisters(ctx, ds1307reg.OffsetRAM+uint8(p), b[:n]); err != nil {
		return 0, err
	}
	return n, nil
}
