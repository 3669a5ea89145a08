package format

import (
	"bytes"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/Microsoft/go-winio/pkg/guid"
	"github.com/pkg/errors"
	"golang.org/x/text/encoding/unicode"

	"github.com/joshuapare/onestore/internal/buf"
)

// GUIDSize is the on-disk size of a GUID.
const GUIDSize = 16

// GUID is a 128-bit identifier held in canonical (display) byte order, so
// byte-wise comparison matches the order of the textual form. On disk the
// first three fields are stored little-endian.
type GUID [GUIDSize]byte

// NilGUID is the all-zero GUID. It is a valid sentinel.
var NilGUID GUID

// DecodeGUID reads a GUID stored in the on-disk (Windows) layout.
func DecodeGUID(b []byte) (GUID, error) {
	if len(b) < GUIDSize {
		return GUID{}, errors.Wrapf(ErrTruncated, "guid: have %d, need %d", len(b), GUIDSize)
	}
	var raw [GUIDSize]byte
	copy(raw[:], b)
	return GUID(guid.FromWindowsArray(raw).ToArray()), nil
}

// MustGUID parses a textual GUID and panics on error. Intended for constants.
func MustGUID(s string) GUID {
	g, err := ParseGUID(s)
	if err != nil {
		panic(err)
	}
	return g
}

// ParseGUID parses a GUID with or without curly braces.
func ParseGUID(s string) (GUID, error) {
	s = strings.TrimSuffix(strings.TrimPrefix(s, "{"), "}")
	g, err := guid.FromString(s)
	if err != nil {
		return GUID{}, errors.Wrapf(ErrMalformedGUID, "%q", s)
	}
	return GUID(g.ToArray()), nil
}

// Encode returns the on-disk (Windows) layout of g.
func (g GUID) Encode() [GUIDSize]byte {
	return guid.FromArray(g).ToWindowsArray()
}

// IsNil reports whether g is the all-zero GUID.
func (g GUID) IsNil() bool { return g == NilGUID }

// Compare orders GUIDs by unsigned byte-wise comparison.
func (g GUID) Compare(o GUID) int {
	return bytes.Compare(g[:], o[:])
}

// String returns the canonical upper-case, curly-brace form.
func (g GUID) String() string {
	return "{" + strings.ToUpper(guid.FromArray(g).String()) + "}"
}

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// CurlyUTF16 returns the curly-brace textual form encoded as UTF-16LE.
func (g GUID) CurlyUTF16() []byte {
	out, err := utf16le.NewEncoder().Bytes([]byte(g.String()))
	if err != nil {
		// GUID strings are ASCII.
		panic(err)
	}
	return out
}

// GUIDFromCurlyUTF16 parses a UTF-16LE curly-brace GUID string. Braces and
// hyphens are stripped and the remainder must be exactly 32 hex digits.
func GUIDFromCurlyUTF16(b []byte) (GUID, error) {
	text, err := utf16le.NewDecoder().Bytes(b)
	if err != nil {
		return GUID{}, errors.Wrap(ErrMalformedGUID, err.Error())
	}
	clean := strings.NewReplacer("{", "", "}", "", "-", "").Replace(string(text))
	if len(clean) != 2*GUIDSize {
		return GUID{}, errors.Wrapf(ErrMalformedGUID, "%d hex characters", len(clean))
	}
	raw, err := hex.DecodeString(clean)
	if err != nil {
		return GUID{}, errors.Wrapf(ErrMalformedGUID, "%q", clean)
	}
	var g GUID
	copy(g[:], raw)
	return g, nil
}

// ExtendedGUIDSize is the on-disk size of an ExtendedGUID.
const ExtendedGUIDSize = GUIDSize + 4

// ExtendedGUID is a GUID paired with a sequence number.
type ExtendedGUID struct {
	GUID GUID
	N    uint32
}

// NilExtendedGUID is (nil GUID, 0).
var NilExtendedGUID ExtendedGUID

// DecodeExtendedGUID reads a GUID followed by a little-endian u32.
func DecodeExtendedGUID(b []byte) (ExtendedGUID, error) {
	if len(b) < ExtendedGUIDSize {
		return ExtendedGUID{}, errors.Wrapf(ErrTruncated, "extended guid: have %d, need %d", len(b), ExtendedGUIDSize)
	}
	g, err := DecodeGUID(b)
	if err != nil {
		return ExtendedGUID{}, err
	}
	return ExtendedGUID{GUID: g, N: buf.U32LE(b[GUIDSize:])}, nil
}

// Encode appends the on-disk layout of e to dst.
func (e ExtendedGUID) Encode(dst []byte) []byte {
	raw := e.GUID.Encode()
	dst = append(dst, raw[:]...)
	return append(dst, byte(e.N), byte(e.N>>8), byte(e.N>>16), byte(e.N>>24))
}

// IsNil reports whether e equals NilExtendedGUID.
func (e ExtendedGUID) IsNil() bool { return e == NilExtendedGUID }

// Compare orders by GUID, then by N.
func (e ExtendedGUID) Compare(o ExtendedGUID) int {
	if c := e.GUID.Compare(o.GUID); c != 0 {
		return c
	}
	switch {
	case e.N < o.N:
		return -1
	case e.N > o.N:
		return 1
	}
	return 0
}

func (e ExtendedGUID) String() string {
	return e.GUID.String() + " [" + strconv.FormatUint(uint64(e.N), 10) + "]"
}

// CompactIDSize is the on-disk size of a CompactID.
const CompactIDSize = 4

// CompactID is a space-local stand-in for an ExtendedGUID: the low byte is
// the sequence number and the high 24 bits index the active global id table.
type CompactID struct {
	N         uint8
	GUIDIndex uint32
}

// DecodeCompactID unpacks a 32-bit compact id.
func DecodeCompactID(raw uint32) CompactID {
	return CompactID{N: uint8(raw), GUIDIndex: raw >> 8}
}

// ReadCompactID decodes a CompactID from the first four bytes of b.
func ReadCompactID(b []byte) (CompactID, error) {
	if len(b) < CompactIDSize {
		return CompactID{}, errors.Wrap(ErrTruncated, "compact id")
	}
	return CompactID{N: b[0], GUIDIndex: buf.U24LE(b[1:])}, nil
}

// Pack returns the 32-bit encoding of c.
func (c CompactID) Pack() uint32 {
	return uint32(c.N) | (c.GUIDIndex&0xFFFFFF)<<8
}
