package format

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestFileNodeChunkRefFormats(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		stp, cb  uint8
		want     ChunkRef
		consumed int
	}{
		{"8+4", []byte{1, 0, 0, 0, 0, 0, 0, 0, 2, 0, 0, 0}, 0, 0, ChunkRef{Stp: 1, Cb: 2}, 12},
		{"4+8", []byte{1, 0, 0, 0, 2, 0, 0, 0, 0, 0, 0, 0}, 1, 1, ChunkRef{Stp: 1, Cb: 2}, 12},
		{"2x8+1x8", []byte{3, 0, 5}, 2, 2, ChunkRef{Stp: 24, Cb: 40}, 3},
		{"4x8+2x8", []byte{3, 0, 0, 0, 5, 0}, 3, 3, ChunkRef{Stp: 24, Cb: 40}, 6},
		{"nil 4", []byte{0xFF, 0xFF, 0xFF, 0xFF, 0, 0, 0, 0}, 1, 0, NilChunkRef, 8},
		{"nil 2", []byte{0xFF, 0xFF, 0}, 2, 2, NilChunkRef, 3},
		{"zero", []byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}, 0, 0, ChunkRef{}, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, n, err := DecodeFileNodeChunkRef(tt.data, tt.stp, tt.cb)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.Equal(t, tt.consumed, n)
		})
	}
}

func TestChunkRefSentinels(t *testing.T) {
	require.True(t, NilChunkRef.IsNil())
	require.False(t, NilChunkRef.IsLive())
	require.True(t, ChunkRef{}.IsZero())
	require.False(t, ChunkRef{}.IsLive())
	require.True(t, ChunkRef{Stp: 0x400, Cb: 0}.IsLive())

	r, err := DecodeFCR32([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0, 0, 0, 0})
	require.NoError(t, err)
	require.True(t, r.IsNil())
	r, err = DecodeFCR64x32(EncodeFCR64x32(nil, NilChunkRef))
	require.NoError(t, err)
	require.True(t, r.IsNil())
	r, err = DecodeFCR64(make([]byte, 16))
	require.NoError(t, err)
	require.True(t, r.IsZero())
}

func TestFileNodeChunkRefTruncated(t *testing.T) {
	_, _, err := DecodeFileNodeChunkRef([]byte{1, 2, 3}, 0, 0)
	require.True(t, errors.Is(err, ErrTruncated))
}

func TestFragmentHeaderAndTrailer(t *testing.T) {
	hdr := EncodeFragmentHeader(FragmentHeader{FileNodeListID: 0x10, FragmentSequence: 2})
	got, err := DecodeFragmentHeader(hdr)
	require.NoError(t, err)
	require.Equal(t, FragmentHeader{FileNodeListID: 0x10, FragmentSequence: 2}, got)

	hdr[0] ^= 0xFF
	_, err = DecodeFragmentHeader(hdr)
	require.True(t, errors.Is(err, ErrBadMagic))

	trailer := EncodeFCR64x32(nil, ChunkRef{Stp: 0x800, Cb: 0x100})
	trailer = append(trailer, 0x4B, 0xBA, 0x33, 0x82, 0xC3, 0x15, 0xC2, 0x8B)
	next, err := DecodeFragmentTrailer(trailer)
	require.NoError(t, err)
	require.Equal(t, ChunkRef{Stp: 0x800, Cb: 0x100}, next)

	trailer[len(trailer)-1] = 0
	_, err = DecodeFragmentTrailer(trailer)
	require.True(t, errors.Is(err, ErrBadFooter))
}

func TestHeaderRoundTrip(t *testing.T) {
	want := Header{
		GUIDFileType:                     FileTypeOne,
		GUIDFile:                         MustGUID("{11111111-2222-3333-4444-555555555555}"),
		GUIDFileFormat:                   FileFormatRevisionStore,
		FcrLegacyFreeChunkList:           NilChunkRef,
		FcrLegacyTransactionLog:          NilChunkRef,
		FcrLegacyFileNodeListRoot:        NilChunkRef,
		FcrHashedChunkList:               NilChunkRef,
		FcrTransactionLog:                ChunkRef{Stp: 0x400, Cb: 0x20},
		FcrFileNodeListRoot:              ChunkRef{Stp: 0x420, Cb: 0x80},
		FcrFreeChunkList:                 NilChunkRef,
		FcrDebugLog:                      ChunkRef{},
		CbExpectedFileLength:             0x1000,
		CrcName:                          0xCAFEBABE,
		BnCreated:                        0x10,
		BnNewestWritten:                  0x2A,
		FfvOldestCodeThatMayReadThisFile: 0x2A,
	}
	got, err := DecodeHeader(EncodeHeader(want))
	require.NoError(t, err)
	require.Equal(t, want, got)
	require.True(t, got.IsRevisionStore())
	require.False(t, got.IsAlternativePackaging())

	_, err = DecodeHeader(make([]byte, 100))
	require.True(t, errors.Is(err, ErrTruncated))
}
