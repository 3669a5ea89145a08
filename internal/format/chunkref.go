package format

import (
	"fmt"
	"math"

	"github.com/pkg/errors"

	"github.com/joshuapare/onestore/internal/buf"
)

// ChunkRef locates a byte range (stp offset, cb size) in the file. Every
// on-disk width is widened to 64 bits; a nil reference of any width is
// normalised to NilChunkRef so callers never compare width-specific patterns.
type ChunkRef struct {
	Stp uint64
	Cb  uint64
}

// NilChunkRef is the "no data" reference: stp all ones, cb zero.
var NilChunkRef = ChunkRef{Stp: math.MaxUint64}

// IsNil reports whether r is the nil sentinel.
func (r ChunkRef) IsNil() bool { return r == NilChunkRef }

// IsZero reports whether r is the fcrZero sentinel.
func (r ChunkRef) IsZero() bool { return r.Stp == 0 && r.Cb == 0 }

// IsLive reports whether r names readable data.
func (r ChunkRef) IsLive() bool { return !r.IsNil() && !r.IsZero() }

// End returns stp+cb, or false on overflow.
func (r ChunkRef) End() (uint64, bool) { return buf.AddOverflowSafe(r.Stp, r.Cb) }

func (r ChunkRef) String() string {
	switch {
	case r.IsNil():
		return "fcrNil"
	case r.IsZero():
		return "fcrZero"
	}
	return fmt.Sprintf("0x%x+0x%x", r.Stp, r.Cb)
}

func normalise(stp uint64, stpNil uint64, cb uint64) ChunkRef {
	if stp == stpNil && cb == 0 {
		return NilChunkRef
	}
	return ChunkRef{Stp: stp, Cb: cb}
}

// Fixed-width chunk reference sizes.
const (
	FCR32Size    = 8
	FCR64x32Size = 12
	FCR64Size    = 16
)

// DecodeFCR32 reads a FileChunkReference32 (u32 stp, u32 cb).
func DecodeFCR32(b []byte) (ChunkRef, error) {
	if len(b) < FCR32Size {
		return ChunkRef{}, errors.Wrap(ErrTruncated, "fcr32")
	}
	return normalise(uint64(buf.U32LE(b)), math.MaxUint32, uint64(buf.U32LE(b[4:]))), nil
}

// DecodeFCR64x32 reads a FileChunkReference64x32 (u64 stp, u32 cb).
func DecodeFCR64x32(b []byte) (ChunkRef, error) {
	if len(b) < FCR64x32Size {
		return ChunkRef{}, errors.Wrap(ErrTruncated, "fcr64x32")
	}
	return normalise(buf.U64LE(b), math.MaxUint64, uint64(buf.U32LE(b[8:]))), nil
}

// DecodeFCR64 reads a FileChunkReference64 (u64 stp, u64 cb).
func DecodeFCR64(b []byte) (ChunkRef, error) {
	if len(b) < FCR64Size {
		return ChunkRef{}, errors.Wrap(ErrTruncated, "fcr64")
	}
	return normalise(buf.U64LE(b), math.MaxUint64, buf.U64LE(b[8:])), nil
}

// EncodeFCR64x32 appends the FileChunkReference64x32 form of r to dst.
func EncodeFCR64x32(dst []byte, r ChunkRef) []byte {
	var b [FCR64x32Size]byte
	buf.PutU64(b[:], 0, r.Stp)
	buf.PutU32(b[:], 8, uint32(r.Cb))
	return append(dst, b[:]...)
}

// StpWidth returns the byte width of the stp field for a FileNode StpFormat.
func StpWidth(stpFormat uint8) (int, error) {
	switch stpFormat {
	case 0:
		return 8, nil
	case 1:
		return 4, nil
	case 2:
		return 2, nil
	case 3:
		return 4, nil
	}
	return 0, errors.Wrapf(ErrUnknownChunkFormat, "stp format %d", stpFormat)
}

// CbWidth returns the byte width of the cb field for a FileNode CbFormat.
func CbWidth(cbFormat uint8) (int, error) {
	switch cbFormat {
	case 0:
		return 4, nil
	case 1:
		return 8, nil
	case 2:
		return 1, nil
	case 3:
		return 2, nil
	}
	return 0, errors.Wrapf(ErrUnknownChunkFormat, "cb format %d", cbFormat)
}

// DecodeFileNodeChunkRef reads the variable-width FileNodeChunkReference
// whose layout is selected by the node header. Compressed formats (stp
// formats 2 and 3, cb formats 2 and 3) store the value divided by 8. It
// returns the reference and the number of bytes consumed.
func DecodeFileNodeChunkRef(b []byte, stpFormat, cbFormat uint8) (ChunkRef, int, error) {
	sw, err := StpWidth(stpFormat)
	if err != nil {
		return ChunkRef{}, 0, err
	}
	cw, err := CbWidth(cbFormat)
	if err != nil {
		return ChunkRef{}, 0, err
	}
	if len(b) < sw+cw {
		return ChunkRef{}, 0, errors.Wrapf(ErrTruncated, "file node chunk reference: have %d, need %d", len(b), sw+cw)
	}
	stp, stpNil := readUint(b, sw)
	cb, _ := readUint(b[sw:], cw)
	if stp == stpNil && cb == 0 {
		return NilChunkRef, sw + cw, nil
	}
	if stpFormat >= 2 {
		stp *= 8
	}
	if cbFormat >= 2 {
		cb *= 8
	}
	return ChunkRef{Stp: stp, Cb: cb}, sw + cw, nil
}

// readUint reads a little-endian unsigned integer of width bytes and returns
// it along with the all-ones pattern for that width.
func readUint(b []byte, width int) (uint64, uint64) {
	switch width {
	case 1:
		return uint64(b[0]), math.MaxUint8
	case 2:
		return uint64(buf.U16LE(b)), math.MaxUint16
	case 4:
		return uint64(buf.U32LE(b)), math.MaxUint32
	default:
		return buf.U64LE(b), math.MaxUint64
	}
}
