// Package buf contains bounds-checked little-endian decoding helpers shared
// by the OneStore decoders.
package buf

import "encoding/binary"

// U16LE reads a little-endian uint16 from b. Returns 0 when b is too short.
func U16LE(b []byte) uint16 {
	if len(b) < 2 {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

// U24LE reads a little-endian 24-bit unsigned integer from b. Returns 0 when b is too short.
func U24LE(b []byte) uint32 {
	if len(b) < 3 {
		return 0
	}
	return Int24(b[0], b[1], b[2])
}

// Int24 assembles three little-endian bytes into a uint32.
func Int24(b0, b1, b2 byte) uint32 {
	return uint32(b0) | uint32(b1)<<8 | uint32(b2)<<16
}

// U32LE reads a little-endian uint32 from b. Returns 0 when b is too short.
func U32LE(b []byte) uint32 {
	if len(b) < 4 {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

// U64LE reads a little-endian uint64 from b. Returns 0 when b is too short.
func U64LE(b []byte) uint64 {
	if len(b) < 8 {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

// PutU16 writes v at b[off:] in little-endian order.
func PutU16(b []byte, off int, v uint16) {
	binary.LittleEndian.PutUint16(b[off:off+2], v)
}

// PutU24 writes the low 24 bits of v at b[off:] in little-endian order.
func PutU24(b []byte, off int, v uint32) {
	b[off] = byte(v)
	b[off+1] = byte(v >> 8)
	b[off+2] = byte(v >> 16)
}

// PutU32 writes v at b[off:] in little-endian order.
func PutU32(b []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(b[off:off+4], v)
}

// PutU64 writes v at b[off:] in little-endian order.
func PutU64(b []byte, off int, v uint64) {
	binary.LittleEndian.PutUint64(b[off:off+8], v)
}
