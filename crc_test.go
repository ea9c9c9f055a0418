package ds1307

import "testing"

func TestCrc8(t *testing.T) {
	// CRC-8/MAXIM, check value 0xa1
	testCases := []struct {
		crc uint8
		in  string
	}{
		{0x00, ""},
		{0x3b, "a"},
		{0x47, "ab"},
		{0x42, "abc"},
		{0xa1, "123456789"},
		{0xd1, "ds1307"},
		{0x99, "Maxim Integrated"},
		{0x7f, "The days of the digital watch are numbered."},
		{0x50, "\x03\x01\x02\x03"},
		{0x39, "\x02\xbe\xef"},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			if crc := crc8([]byte(tc.in)); crc != tc.crc {
				t.Errorf("got %#x want %#x", crc, tc.crc)
			}
		})
	}
}
