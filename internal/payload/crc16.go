package payload

import "fmt"

const (
	crcInit = 0xFFFF
	crcPoly = 0x1021
)

// CRC16 computes CRC-16/CCITT-FALSE over the bytes of s: initial register
// 0xFFFF, polynomial 0x1021, MSB first, no reflection, no final XOR.
func CRC16(s string) uint16 {
	crc := uint16(crcInit)
	for i := 0; i < len(s); i++ {
		crc ^= uint16(s[i]) << 8
		for bit := 0; bit < 8; bit++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ crcPoly
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}

// Checksum formats CRC16(s) as four uppercase hex digits.
func Checksum(s string) string {
	return fmt.Sprintf("%04X", CRC16(s))
}
