// Package onefile builds synthetic MS-ONESTORE files for tests.
//
// Builder is the low-level layer: it lays out chunks and file node list
// fragments and writes the header last. Section sits on top of it and
// produces the object space, revision and global id table scaffolding a
// .one section file carries.
package onefile

import (
	"github.com/joshuapare/onestore/internal/buf"
	"github.com/joshuapare/onestore/internal/format"
)

// Node is one file node to encode. Ref is written for base types 1 and 2.
type Node struct {
	ID       format.FileNodeID
	BaseType format.BaseType
	Ref      format.ChunkRef
	Body     []byte
}

// Builder accumulates chunks after a reserved header.
type Builder struct {
	Header format.Header
	data   []byte
	listID uint32
}

// New returns a Builder whose header declares a .one revision store.
func New() *Builder {
	b := &Builder{data: make([]byte, format.HeaderSize), listID: 0x10}
	b.Header.GUIDFileType = format.FileTypeOne
	b.Header.GUIDFile = format.MustGUID("{0C0B6C3E-72A8-4E7B-98DC-7F1D3C7C1A01}")
	b.Header.GUIDFileFormat = format.FileFormatRevisionStore
	b.Header.FfvLastCodeThatWroteToThisFile = 0x2A
	b.Header.FfvOldestCodeThatHasWrittenToThisFile = 0x2A
	b.Header.FfvNewestCodeThatHasWrittenToThisFile = 0x2A
	b.Header.FfvOldestCodeThatMayReadThisFile = 0x2A
	b.Header.FcrLegacyFreeChunkList = format.ChunkRef{}
	b.Header.FcrLegacyTransactionLog = format.NilChunkRef
	b.Header.FcrLegacyFileNodeListRoot = format.NilChunkRef
	b.Header.FcrHashedChunkList = format.ChunkRef{}
	b.Header.FcrTransactionLog = format.NilChunkRef
	b.Header.FcrFreeChunkList = format.ChunkRef{}
	b.Header.FcrDebugLog = format.ChunkRef{}
	b.Header.FcrAllocVerificationFreeChunkList = format.ChunkRef{}
	b.Header.BnCreated = 0x1B0A
	b.Header.BnLastWroteToThisFile = 0x1B0B
	b.Header.BnOldestWritten = 0x1B0A
	b.Header.BnNewestWritten = 0x1B0B
	return b
}

// Len returns the current file length.
func (b *Builder) Len() int { return len(b.data) }

// Chunk appends data at the next 8-byte aligned offset.
func (b *Builder) Chunk(data []byte) format.ChunkRef {
	for len(b.data)%8 != 0 {
		b.data = append(b.data, 0)
	}
	ref := format.ChunkRef{Stp: uint64(len(b.data)), Cb: uint64(len(data))}
	b.data = append(b.data, data...)
	return ref
}

// List writes a single-fragment file node list.
func (b *Builder) List(nodes ...Node) format.ChunkRef {
	return b.Fragments(nodes)
}

// Fragments writes a list split across one fragment per argument. Later
// fragments are laid out first so each trailer can point forward.
func (b *Builder) Fragments(fragments ...[]Node) format.ChunkRef {
	id := b.listID
	b.listID++
	next := format.NilChunkRef
	for i := len(fragments) - 1; i >= 0; i-- {
		next = b.Chunk(EncodeFragment(id, uint32(i), fragments[i], next))
	}
	return next
}

// Bytes finalises the header with root as the root file node list and
// returns the file image.
func (b *Builder) Bytes(root format.ChunkRef) []byte {
	b.Header.FcrFileNodeListRoot = root
	b.Header.CbExpectedFileLength = uint64(len(b.data))
	out := make([]byte, len(b.data))
	copy(out, b.data)
	copy(out, format.EncodeHeader(b.Header))
	return out
}

// EncodeFragment encodes one FileNodeListFragment.
func EncodeFragment(listID, seq uint32, nodes []Node, next format.ChunkRef) []byte {
	out := format.EncodeFragmentHeader(format.FragmentHeader{FileNodeListID: listID, FragmentSequence: seq})
	for _, n := range nodes {
		out = append(out, EncodeNode(n)...)
	}
	// Room for the terminating padding word the parser stops on.
	out = append(out, 0, 0, 0, 0)
	out = format.EncodeFCR64x32(out, next)
	return append(out, U64(format.FragmentFooter)...)
}

// EncodeNode encodes a FileNode with uncompressed 8-byte stp and 4-byte cb.
func EncodeNode(n Node) []byte {
	var ref []byte
	if n.BaseType != format.BaseTypeNoReference {
		ref = format.EncodeFCR64x32(nil, n.Ref)
	}
	size := format.FileNodeHeaderSize + len(ref) + len(n.Body)
	hdr := format.FileNodeHeader{ID: n.ID, Size: uint16(size), BaseType: n.BaseType}
	out := U32(hdr.Pack())
	out = append(out, ref...)
	return append(out, n.Body...)
}

// FileDataStoreObject encodes the framed payload a FileDataStoreObjectReferenceFND points at.
func FileDataStoreObject(data []byte) []byte {
	h := format.FileDataStoreObjectHeaderGUID.Encode()
	out := append([]byte{}, h[:]...)
	out = append(out, U64(uint64(len(data)))...)
	out = append(out, U32(0)...)
	out = append(out, U64(0)...)
	out = append(out, data...)
	for len(out)%format.FileDataStoreAlignment != 0 {
		out = append(out, 0)
	}
	f := format.FileDataStoreObjectFooterGUID.Encode()
	return append(out, f[:]...)
}

// Cat concatenates byte slices.
func Cat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// U8 encodes v.
func U8(v uint8) []byte { return []byte{v} }

// U16 encodes v little-endian.
func U16(v uint16) []byte {
	b := make([]byte, 2)
	buf.PutU16(b, 0, v)
	return b
}

// U32 encodes v little-endian.
func U32(v uint32) []byte {
	b := make([]byte, 4)
	buf.PutU32(b, 0, v)
	return b
}

// U64 encodes v little-endian.
func U64(v uint64) []byte {
	b := make([]byte, 8)
	buf.PutU64(b, 0, v)
	return b
}

// GUID encodes g in its on-disk layout.
func GUID(g format.GUID) []byte {
	raw := g.Encode()
	return raw[:]
}

// ExtGUID encodes e.
func ExtGUID(e format.ExtendedGUID) []byte { return e.Encode(nil) }

// Compact encodes a CompactID.
func Compact(n uint8, index uint32) []byte {
	return U32(format.CompactID{N: n, GUIDIndex: index}.Pack())
}

// StorageString encodes a StringInStorageBuffer.
func StorageString(s string) []byte {
	u := format.EncodeUTF16(s)
	return Cat(U32(uint32(len(u)/2)), u)
}
