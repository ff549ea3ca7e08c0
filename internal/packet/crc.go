package packet

// CRC16 is the reflected CCITT checksum (poly 0x8408, init 0xFFFF, output
// complemented) used by the frame trailer.
func CRC16(b []byte) uint16 {
	crc := uint16(0xFFFF)
	for _, x := range b {
		crc = crcAdd(crc, x)
	}
	return ^crc
}

func crcAdd(crc uint16, x byte) uint16 {
	crc ^= uint16(x)
	for j := 0; j < 8; j++ {
		if crc&1 != 0 {
			crc = crc>>1 ^ 0x8408
		} else {
			crc >>= 1
		}
	}
	return crc
}
