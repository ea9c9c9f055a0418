package ds1307

// crc8 calculates the Dallas/Maxim CRC-8 (polynomial x^8 + x^5 + x^4 + 1,
// reflected, zero initial value).
//
// It is the checksum used by Maxim for 1-Wire ROM codes, see application note
// 27 "Understanding and Using Cyclic Redundancy Checks with Maxim iButton
// Products".
func crc8(data []byte) uint8 {
	const polynom uint8 = 0x8c
	var crc uint8

	for _, b := range data {
		crc ^= b
		for j := 0; j < 8; j++ {
			if crc&0x01 != 0 {
				crc = crc>>1 ^ polynom
			} else {
				crc >>= 1
			}
		}
	}

	return crc
}
