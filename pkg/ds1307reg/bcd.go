package ds1307reg

// BCDToDecimal decodes a packed binary-coded-decimal byte.
//
// Each nibble holds one decimal digit. Nibbles above 9 are not rejected, the
// arithmetic is simply carried out.
func BCDToDecimal(b uint8) uint8 {
	return (b>>4)*10 + (b & 0x0f)
}

// DecimalToBCD encodes d as packed binary-coded-decimal.
//
// The result is only meaningful for d in 0..99. Larger values wrap like
// unchecked byte arithmetic.
func DecimalToBCD(d uint8) uint8 {
	return (d/10)*16 + d%10
}

// DecodeHour12 splits a 12-hour encoded hours register into the meridiem flag
// and the hour (1..12).
func DecodeHour12(reg uint8) (pm bool, hour uint8) {
	return reg&PMBit != 0, BCDToDecimal(reg & Hour12Mask)
}

// DecodeHour24 returns the hour (0..23) of a 24-hour encoded hours register.
func DecodeHour24(reg uint8) uint8 {
	return BCDToDecimal(reg & Hour24Mask)
}

// EncodeHour12 encodes hour (1..12) in 12-hour form, mode bit set.
func EncodeHour12(hour uint8, pm bool) uint8 {
	reg := ModeBit | DecimalToBCD(hour)&Hour12Mask
	if pm {
		reg |= PMBit
	}
	return reg
}

// EncodeHour24 encodes hour (0..23) in 24-hour form, mode bit clear.
func EncodeHour24(hour uint8) uint8 {
	return DecimalToBCD(hour) & Hour24Mask
}
