package ds1307

import "context"

// recordOverhead is the length byte in front and the checksum after the
// payload.
const recordOverhead = 2

// WriteRAMRecord stores data at offset p of the scratch memory, framed by a
// length byte and a checksum, in a single transaction.
//
// Scratch memory is lost together with the backup battery. ReadRAMRecord
// detects this from the checksum.
func (d *Dev) WriteRAMRecord(ctx context.Context, p int, data []byte) error {
	if p < 0 || p+len(data)+recordOverhead > RAMSize {
		return ErrRecordTooLarge
	}

	b := make([]byte, 0, len(data)+recordOverhead)
	b = append(b, uint8(len(data)))
	b = append(b, data...)
	// stored inverted so that zeroed memory does not read as an empty record
	b = append(b, ^crc8(b))

	d.mu.Lock()
	defer d.mu.Unlock()
	_, err := d.writeRAMAt(ctx, p, b)
	return err
}

// ReadRAMRecord returns the payload of a record written by WriteRAMRecord at
// offset p. It returns ErrRecordCorrupt when no valid record is found.
func (d *Dev) ReadRAMRecord(ctx context.Context, p int) ([]byte, error) {
	if p < 0 || p+recordOverhead > RAMSize {
		return nil, ErrRecordTooLarge
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	var buf [RAMSize]byte
	n, err := d.readRAMAt(ctx, p, buf[:RAMSize-p])
	if err != nil {
		return nil, err
	}

	size := int(buf[0])
	if 1+size+1 > n {
		return nil, ErrRecordCorrupt
	}
	if ^crc8(buf[:1+size]) != buf[1+size] {
		return nil, ErrRecordCorrupt
	}
	return append([]byte(nil), buf[1:1+size]...), nil
}
