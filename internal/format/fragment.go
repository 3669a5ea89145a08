package format

import (
	"github.com/pkg/errors"

	"github.com/joshuapare/onestore/internal/buf"
)

// FragmentHeader opens a FileNodeListFragment:
//
//	Offset  Size  Field
//	0x00    8     magic 0xA4567AB1F5F7F4C4
//	0x08    4     FileNodeListID
//	0x0C    4     nFragmentSequence
type FragmentHeader struct {
	FileNodeListID   uint32
	FragmentSequence uint32
}

// DecodeFragmentHeader decodes and validates a fragment header.
func DecodeFragmentHeader(b []byte) (FragmentHeader, error) {
	if len(b) < FragmentHeaderSize {
		return FragmentHeader{}, errors.Wrapf(ErrTruncated, "fragment header: have %d, need %d", len(b), FragmentHeaderSize)
	}
	if magic := buf.U64LE(b); magic != FragmentMagic {
		return FragmentHeader{}, errors.Wrapf(ErrBadMagic, "got 0x%016x", magic)
	}
	return FragmentHeader{
		FileNodeListID:   buf.U32LE(b[8:]),
		FragmentSequence: buf.U32LE(b[12:]),
	}, nil
}

// EncodeFragmentHeader returns the 16-byte header for h.
func EncodeFragmentHeader(h FragmentHeader) []byte {
	b := make([]byte, FragmentHeaderSize)
	buf.PutU64(b, 0, FragmentMagic)
	buf.PutU32(b, 8, h.FileNodeListID)
	buf.PutU32(b, 12, h.FragmentSequence)
	return b
}

// DecodeFragmentTrailer decodes the last FragmentTrailerSize bytes of a
// fragment: the next-fragment reference and the footer.
func DecodeFragmentTrailer(b []byte) (ChunkRef, error) {
	if len(b) < FragmentTrailerSize {
		return ChunkRef{}, errors.Wrapf(ErrTruncated, "fragment trailer: have %d, need %d", len(b), FragmentTrailerSize)
	}
	next, err := DecodeFCR64x32(b)
	if err != nil {
		return ChunkRef{}, err
	}
	if footer := buf.U64LE(b[FCR64x32Size:]); footer != FragmentFooter {
		return ChunkRef{}, errors.Wrapf(ErrBadFooter, "got 0x%016x", footer)
	}
	return next, nil
}

// ObjectStreamHeader prefixes each of the three reference streams in an
// ObjectSpaceObjectPropSet:
//
//	Bits   Field
//	0-23   Count
//	24-29  Reserved
//	30     ExtendedStreamsPresent
//	31     OsidStreamNotPresent
type ObjectStreamHeader struct {
	Count                  uint32
	ExtendedStreamsPresent bool
	OsidStreamNotPresent   bool
}

// DecodeObjectStreamHeader unpacks a stream header word.
func DecodeObjectStreamHeader(raw uint32) ObjectStreamHeader {
	return ObjectStreamHeader{
		Count:                  raw & 0xFFFFFF,
		ExtendedStreamsPresent: raw&(1<<30) != 0,
		OsidStreamNotPresent:   raw&(1<<31) != 0,
	}
}

// Pack returns the 32-bit encoding of h.
func (h ObjectStreamHeader) Pack() uint32 {
	raw := h.Count & 0xFFFFFF
	if h.ExtendedStreamsPresent {
		raw |= 1 << 30
	}
	if h.OsidStreamNotPresent {
		raw |= 1 << 31
	}
	return raw
}
