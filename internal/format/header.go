package format

import (
	"github.com/pkg/errors"

	"github.com/joshuapare/onestore/internal/buf"
)

// Header field offsets.
const (
	hdrFileType                   = 0
	hdrFile                       = 16
	hdrLegacyFileVersion          = 32
	hdrFileFormat                 = 48
	hdrFfvLastCode                = 64
	hdrFfvOldestCode              = 68
	hdrFfvNewestCode              = 72
	hdrFfvOldestReader            = 76
	hdrLegacyFreeChunkList        = 80
	hdrLegacyTransactionLog       = 88
	hdrTransactionsInLog          = 96
	hdrLegacyExpectedFileLength   = 100
	hdrPlaceholder                = 104
	hdrLegacyFileNodeListRoot     = 112
	hdrLegacyFreeSpace            = 120
	hdrNeedsDefrag                = 124
	hdrRepairedFile               = 125
	hdrNeedsGarbageCollect        = 126
	hdrHasNoEmbeddedFileObjects   = 127
	hdrAncestor                   = 128
	hdrCrcName                    = 144
	hdrHashedChunkList            = 148
	hdrTransactionLog             = 160
	hdrFileNodeListRoot           = 172
	hdrFreeChunkList              = 184
	hdrExpectedFileLength         = 196
	hdrFreeSpaceInFreeChunkList   = 204
	hdrFileVersion                = 212
	hdrFileVersionGeneration      = 228
	hdrDenyReadFileVersion        = 236
	hdrDebugLogFlags              = 252
	hdrDebugLog                   = 256
	hdrAllocVerificationFreeChunk = 268
	hdrBnCreated                  = 280
	hdrBnLastWrote                = 284
	hdrBnOldestWritten            = 288
	hdrBnNewestWritten            = 292
)

// Header is the 1024-byte structure at the start of every OneStore file.
type Header struct {
	GUIDFileType                          GUID
	GUIDFile                              GUID
	GUIDLegacyFileVersion                 GUID
	GUIDFileFormat                        GUID
	FfvLastCodeThatWroteToThisFile        uint32
	FfvOldestCodeThatHasWrittenToThisFile uint32
	FfvNewestCodeThatHasWrittenToThisFile uint32
	FfvOldestCodeThatMayReadThisFile      uint32
	FcrLegacyFreeChunkList                ChunkRef
	FcrLegacyTransactionLog               ChunkRef
	CTransactionsInLog                    uint32
	CbLegacyExpectedFileLength            uint32
	RgbPlaceholder                        uint64
	FcrLegacyFileNodeListRoot             ChunkRef
	CbLegacyFreeSpaceInFreeChunkList      uint32
	FNeedsDefrag                          uint8
	FRepairedFile                         uint8
	FNeedsGarbageCollect                  uint8
	FHasNoEmbeddedFileObjects             uint8
	GUIDAncestor                          GUID
	CrcName                               uint32
	FcrHashedChunkList                    ChunkRef
	FcrTransactionLog                     ChunkRef
	FcrFileNodeListRoot                   ChunkRef
	FcrFreeChunkList                      ChunkRef
	CbExpectedFileLength                  uint64
	CbFreeSpaceInFreeChunkList            uint64
	GUIDFileVersion                       GUID
	NFileVersionGeneration                uint64
	GUIDDenyReadFileVersion               GUID
	GrfDebugLogFlags                      uint32
	FcrDebugLog                           ChunkRef
	FcrAllocVerificationFreeChunkList     ChunkRef
	BnCreated                             uint32
	BnLastWroteToThisFile                 uint32
	BnOldestWritten                       uint32
	BnNewestWritten                       uint32
}

// IsRevisionStore reports whether the header declares the revision store layout.
func (h *Header) IsRevisionStore() bool {
	return h.GUIDFileFormat == FileFormatRevisionStore
}

// IsLegacy reports whether the header carries a legacy file version.
func (h *Header) IsLegacy() bool {
	return !h.GUIDLegacyFileVersion.IsNil()
}

// IsAlternativePackaging reports whether the header declares the FSSHTTPB packaging.
func (h *Header) IsAlternativePackaging() bool {
	return h.GUIDFileFormat == FileFormatAlternativePackaging
}

// DecodeHeader decodes the OneStore header from the first HeaderSize bytes of b.
func DecodeHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, errors.Wrapf(ErrTruncated, "header: have %d, need %d", len(b), HeaderSize)
	}
	var h Header
	guids := []struct {
		dst *GUID
		off int
	}{
		{&h.GUIDFileType, hdrFileType},
		{&h.GUIDFile, hdrFile},
		{&h.GUIDLegacyFileVersion, hdrLegacyFileVersion},
		{&h.GUIDFileFormat, hdrFileFormat},
		{&h.GUIDAncestor, hdrAncestor},
		{&h.GUIDFileVersion, hdrFileVersion},
		{&h.GUIDDenyReadFileVersion, hdrDenyReadFileVersion},
	}
	for _, g := range guids {
		v, err := DecodeGUID(b[g.off:])
		if err != nil {
			return Header{}, err
		}
		*g.dst = v
	}

	fcr32 := []struct {
		dst *ChunkRef
		off int
	}{
		{&h.FcrLegacyFreeChunkList, hdrLegacyFreeChunkList},
		{&h.FcrLegacyTransactionLog, hdrLegacyTransactionLog},
		{&h.FcrLegacyFileNodeListRoot, hdrLegacyFileNodeListRoot},
	}
	for _, r := range fcr32 {
		v, err := DecodeFCR32(b[r.off:])
		if err != nil {
			return Header{}, err
		}
		*r.dst = v
	}

	fcr64x32 := []struct {
		dst *ChunkRef
		off int
	}{
		{&h.FcrHashedChunkList, hdrHashedChunkList},
		{&h.FcrTransactionLog, hdrTransactionLog},
		{&h.FcrFileNodeListRoot, hdrFileNodeListRoot},
		{&h.FcrFreeChunkList, hdrFreeChunkList},
		{&h.FcrDebugLog, hdrDebugLog},
		{&h.FcrAllocVerificationFreeChunkList, hdrAllocVerificationFreeChunk},
	}
	for _, r := range fcr64x32 {
		v, err := DecodeFCR64x32(b[r.off:])
		if err != nil {
			return Header{}, err
		}
		*r.dst = v
	}

	h.FfvLastCodeThatWroteToThisFile = buf.U32LE(b[hdrFfvLastCode:])
	h.FfvOldestCodeThatHasWrittenToThisFile = buf.U32LE(b[hdrFfvOldestCode:])
	h.FfvNewestCodeThatHasWrittenToThisFile = buf.U32LE(b[hdrFfvNewestCode:])
	h.FfvOldestCodeThatMayReadThisFile = buf.U32LE(b[hdrFfvOldestReader:])
	h.CTransactionsInLog = buf.U32LE(b[hdrTransactionsInLog:])
	h.CbLegacyExpectedFileLength = buf.U32LE(b[hdrLegacyExpectedFileLength:])
	h.RgbPlaceholder = buf.U64LE(b[hdrPlaceholder:])
	h.CbLegacyFreeSpaceInFreeChunkList = buf.U32LE(b[hdrLegacyFreeSpace:])
	h.FNeedsDefrag = b[hdrNeedsDefrag]
	h.FRepairedFile = b[hdrRepairedFile]
	h.FNeedsGarbageCollect = b[hdrNeedsGarbageCollect]
	h.FHasNoEmbeddedFileObjects = b[hdrHasNoEmbeddedFileObjects]
	h.CrcName = buf.U32LE(b[hdrCrcName:])
	h.CbExpectedFileLength = buf.U64LE(b[hdrExpectedFileLength:])
	h.CbFreeSpaceInFreeChunkList = buf.U64LE(b[hdrFreeSpaceInFreeChunkList:])
	h.NFileVersionGeneration = buf.U64LE(b[hdrFileVersionGeneration:])
	h.GrfDebugLogFlags = buf.U32LE(b[hdrDebugLogFlags:])
	h.BnCreated = buf.U32LE(b[hdrBnCreated:])
	h.BnLastWroteToThisFile = buf.U32LE(b[hdrBnLastWrote:])
	h.BnOldestWritten = buf.U32LE(b[hdrBnOldestWritten:])
	h.BnNewestWritten = buf.U32LE(b[hdrBnNewestWritten:])
	return h, nil
}

// EncodeHeader writes h into a fresh HeaderSize buffer. Nil references are
// written as all-ones stp with zero cb.
func EncodeHeader(h Header) []byte {
	b := make([]byte, HeaderSize)
	putGUID := func(off int, g GUID) {
		raw := g.Encode()
		copy(b[off:], raw[:])
	}
	putFCR32 := func(off int, r ChunkRef) {
		if r.IsNil() {
			buf.PutU32(b, off, 0xFFFFFFFF)
			buf.PutU32(b, off+4, 0)
			return
		}
		buf.PutU32(b, off, uint32(r.Stp))
		buf.PutU32(b, off+4, uint32(r.Cb))
	}
	putFCR64x32 := func(off int, r ChunkRef) {
		copy(b[off:], EncodeFCR64x32(nil, r))
	}

	putGUID(hdrFileType, h.GUIDFileType)
	putGUID(hdrFile, h.GUIDFile)
	putGUID(hdrLegacyFileVersion, h.GUIDLegacyFileVersion)
	putGUID(hdrFileFormat, h.GUIDFileFormat)
	buf.PutU32(b, hdrFfvLastCode, h.FfvLastCodeThatWroteToThisFile)
	buf.PutU32(b, hdrFfvOldestCode, h.FfvOldestCodeThatHasWrittenToThisFile)
	buf.PutU32(b, hdrFfvNewestCode, h.FfvNewestCodeThatHasWrittenToThisFile)
	buf.PutU32(b, hdrFfvOldestReader, h.FfvOldestCodeThatMayReadThisFile)
	putFCR32(hdrLegacyFreeChunkList, h.FcrLegacyFreeChunkList)
	putFCR32(hdrLegacyTransactionLog, h.FcrLegacyTransactionLog)
	buf.PutU32(b, hdrTransactionsInLog, h.CTransactionsInLog)
	buf.PutU32(b, hdrLegacyExpectedFileLength, h.CbLegacyExpectedFileLength)
	buf.PutU64(b, hdrPlaceholder, h.RgbPlaceholder)
	putFCR32(hdrLegacyFileNodeListRoot, h.FcrLegacyFileNodeListRoot)
	buf.PutU32(b, hdrLegacyFreeSpace, h.CbLegacyFreeSpaceInFreeChunkList)
	b[hdrNeedsDefrag] = h.FNeedsDefrag
	b[hdrRepairedFile] = h.FRepairedFile
	b[hdrNeedsGarbageCollect] = h.FNeedsGarbageCollect
	b[hdrHasNoEmbeddedFileObjects] = h.FHasNoEmbeddedFileObjects
	putGUID(hdrAncestor, h.GUIDAncestor)
	buf.PutU32(b, hdrCrcName, h.CrcName)
	putFCR64x32(hdrHashedChunkList, h.FcrHashedChunkList)
	putFCR64x32(hdrTransactionLog, h.FcrTransactionLog)
	putFCR64x32(hdrFileNodeListRoot, h.FcrFileNodeListRoot)
	putFCR64x32(hdrFreeChunkList, h.FcrFreeChunkList)
	buf.PutU64(b, hdrExpectedFileLength, h.CbExpectedFileLength)
	buf.PutU64(b, hdrFreeSpaceInFreeChunkList, h.CbFreeSpaceInFreeChunkList)
	putGUID(hdrFileVersion, h.GUIDFileVersion)
	buf.PutU64(b, hdrFileVersionGeneration, h.NFileVersionGeneration)
	putGUID(hdrDenyReadFileVersion, h.GUIDDenyReadFileVersion)
	buf.PutU32(b, hdrDebugLogFlags, h.GrfDebugLogFlags)
	putFCR64x32(hdrDebugLog, h.FcrDebugLog)
	putFCR64x32(hdrAllocVerificationFreeChunk, h.FcrAllocVerificationFreeChunkList)
	buf.PutU32(b, hdrBnCreated, h.BnCreated)
	buf.PutU32(b, hdrBnLastWrote, h.BnLastWroteToThisFile)
	buf.PutU32(b, hdrBnOldestWritten, h.BnOldestWritten)
	buf.PutU32(b, hdrBnNewestWritten, h.BnNewestWritten)
	return b
}
