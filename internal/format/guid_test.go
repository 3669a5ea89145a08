package format

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestDecodeGUIDWindowsLayout(t *testing.T) {
	// {109ADD3F-911B-49F5-A5D0-1791EDC8AED8} as stored on disk.
	disk := []byte{
		0x3F, 0xDD, 0x9A, 0x10,
		0x1B, 0x91,
		0xF5, 0x49,
		0xA5, 0xD0, 0x17, 0x91, 0xED, 0xC8, 0xAE, 0xD8,
	}
	g, err := DecodeGUID(disk)
	require.NoError(t, err)
	require.Equal(t, FileFormatRevisionStore, g)
	require.Equal(t, "{109ADD3F-911B-49F5-A5D0-1791EDC8AED8}", g.String())

	enc := g.Encode()
	require.Equal(t, disk, enc[:])
}

func TestDecodeGUIDTruncated(t *testing.T) {
	_, err := DecodeGUID(make([]byte, 15))
	require.True(t, errors.Is(err, ErrTruncated))
}

func TestGUIDCurlyUTF16RoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		var g GUID
		r.Read(g[:])
		got, err := GUIDFromCurlyUTF16(g.CurlyUTF16())
		require.NoError(t, err)
		require.Equal(t, g, got)
	}
}

func TestGUIDFromCurlyUTF16Malformed(t *testing.T) {
	for _, s := range []string{
		"{109ADD3F-911B-49F5-A5D0-1791EDC8AED}",
		"{109ADD3F-911B-49F5-A5D0-1791EDC8AED8A}",
		"{ZZ9ADD3F-911B-49F5-A5D0-1791EDC8AED8}",
		"",
	} {
		_, err := GUIDFromCurlyUTF16(utf16Bytes(s))
		require.Truef(t, errors.Is(err, ErrMalformedGUID), "%q: %v", s, err)
	}
}

func TestGUIDCompareUnsigned(t *testing.T) {
	lo := GUID{0x7F}
	hi := GUID{0x80}
	require.Equal(t, -1, lo.Compare(hi))
	require.Equal(t, 1, hi.Compare(lo))
	require.Equal(t, 0, hi.Compare(hi))
	require.True(t, NilGUID.IsNil())
}

func TestExtendedGUIDTotalOrder(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	vals := make([]ExtendedGUID, 0, 64)
	for i := 0; i < 64; i++ {
		var g GUID
		// Small alphabet so ties on GUID happen and N breaks them.
		g[0] = byte(r.Intn(3))
		vals = append(vals, ExtendedGUID{GUID: g, N: uint32(r.Intn(3))})
	}
	for _, a := range vals {
		for _, b := range vals {
			ab, ba := a.Compare(b), b.Compare(a)
			require.Equal(t, -ab, ba)
			require.Equal(t, a == b, ab == 0)
			for _, c := range vals {
				if ab < 0 && b.Compare(c) < 0 {
					require.Negative(t, a.Compare(c))
				}
			}
		}
	}
	sort.Slice(vals, func(i, j int) bool { return vals[i].Compare(vals[j]) < 0 })
	for i := 1; i < len(vals); i++ {
		require.LessOrEqual(t, vals[i-1].Compare(vals[i]), 0)
	}
}

func TestDecodeExtendedGUID(t *testing.T) {
	e := ExtendedGUID{GUID: FileTypeOne, N: 42}
	got, err := DecodeExtendedGUID(e.Encode(nil))
	require.NoError(t, err)
	require.Equal(t, e, got)
	require.False(t, got.IsNil())
	require.True(t, NilExtendedGUID.IsNil())
}

func TestCompactID(t *testing.T) {
	c := DecodeCompactID(0x12345607)
	require.Equal(t, CompactID{N: 7, GUIDIndex: 0x123456}, c)
	require.Equal(t, uint32(0x12345607), c.Pack())

	got, err := ReadCompactID([]byte{0x07, 0x56, 0x34, 0x12})
	require.NoError(t, err)
	require.Equal(t, c, got)
}

func utf16Bytes(s string) []byte {
	out := make([]byte, 0, 2*len(s))
	for _, r := range s {
		out = append(out, byte(r), byte(r>>8))
	}
	return out
}
