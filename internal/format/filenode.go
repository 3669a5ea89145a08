package format

import (
	"fmt"

	"github.com/pkg/errors"
)

// FileNodeID is the 10-bit node type tag.
type FileNodeID uint16

// File node ids.
const (
	ObjectSpaceManifestRootFND                 FileNodeID = 0x004
	ObjectSpaceManifestListReferenceFND        FileNodeID = 0x008
	ObjectSpaceManifestListStartFND            FileNodeID = 0x00C
	RevisionManifestListReferenceFND           FileNodeID = 0x010
	RevisionManifestListStartFND               FileNodeID = 0x014
	RevisionManifestStart4FND                  FileNodeID = 0x01B
	RevisionManifestEndFND                     FileNodeID = 0x01C
	RevisionManifestStart6FND                  FileNodeID = 0x01E
	RevisionManifestStart7FND                  FileNodeID = 0x01F
	GlobalIDTableStartFNDX                     FileNodeID = 0x021
	GlobalIDTableStart2FND                     FileNodeID = 0x022
	GlobalIDTableEntryFNDX                     FileNodeID = 0x024
	GlobalIDTableEntry2FNDX                    FileNodeID = 0x025
	GlobalIDTableEntry3FNDX                    FileNodeID = 0x026
	GlobalIDTableEndFNDX                       FileNodeID = 0x028
	ObjectDeclarationWithRefCountFNDX          FileNodeID = 0x02D
	ObjectDeclarationWithRefCount2FNDX         FileNodeID = 0x02E
	ObjectRevisionWithRefCountFNDX             FileNodeID = 0x041
	ObjectRevisionWithRefCount2FNDX            FileNodeID = 0x042
	RootObjectReference2FNDX                   FileNodeID = 0x059
	RootObjectReference3FND                    FileNodeID = 0x05A
	RevisionRoleDeclarationFND                 FileNodeID = 0x05C
	RevisionRoleAndContextDeclarationFND       FileNodeID = 0x05D
	ObjectDeclarationFileData3RefCountFND      FileNodeID = 0x072
	ObjectDeclarationFileData3LargeRefCountFND FileNodeID = 0x073
	ObjectDataEncryptionKeyV2FNDX              FileNodeID = 0x07C
	ObjectInfoDependencyOverridesFND           FileNodeID = 0x084
	DataSignatureGroupDefinitionFND            FileNodeID = 0x08C
	FileDataStoreListReferenceFND              FileNodeID = 0x090
	FileDataStoreObjectReferenceFND            FileNodeID = 0x094
	ObjectDeclaration2RefCountFND              FileNodeID = 0x0A4
	ObjectDeclaration2LargeRefCountFND         FileNodeID = 0x0A5
	ObjectGroupListReferenceFND                FileNodeID = 0x0B0
	ObjectGroupStartFND                        FileNodeID = 0x0B4
	ObjectGroupEndFND                          FileNodeID = 0x0B8
	HashedChunkDescriptor2FND                  FileNodeID = 0x0C2
	ReadOnlyObjectDeclaration2RefCountFND      FileNodeID = 0x0C4
	ReadOnlyObjectDeclaration2LargeRefCountFND FileNodeID = 0x0C5
	ChunkTerminatorFND                         FileNodeID = 0x0FF
)

var fileNodeNames = map[FileNodeID]string{
	ObjectSpaceManifestRootFND:                 "ObjectSpaceManifestRootFND",
	ObjectSpaceManifestListReferenceFND:        "ObjectSpaceManifestListReferenceFND",
	ObjectSpaceManifestListStartFND:            "ObjectSpaceManifestListStartFND",
	RevisionManifestListReferenceFND:           "RevisionManifestListReferenceFND",
	RevisionManifestListStartFND:               "RevisionManifestListStartFND",
	RevisionManifestStart4FND:                  "RevisionManifestStart4FND",
	RevisionManifestEndFND:                     "RevisionManifestEndFND",
	RevisionManifestStart6FND:                  "RevisionManifestStart6FND",
	RevisionManifestStart7FND:                  "RevisionManifestStart7FND",
	GlobalIDTableStartFNDX:                     "GlobalIdTableStartFNDX",
	GlobalIDTableStart2FND:                     "GlobalIdTableStart2FND",
	GlobalIDTableEntryFNDX:                     "GlobalIdTableEntryFNDX",
	GlobalIDTableEntry2FNDX:                    "GlobalIdTableEntry2FNDX",
	GlobalIDTableEntry3FNDX:                    "GlobalIdTableEntry3FNDX",
	GlobalIDTableEndFNDX:                       "GlobalIdTableEndFNDX",
	ObjectDeclarationWithRefCountFNDX:          "ObjectDeclarationWithRefCountFNDX",
	ObjectDeclarationWithRefCount2FNDX:         "ObjectDeclarationWithRefCount2FNDX",
	ObjectRevisionWithRefCountFNDX:             "ObjectRevisionWithRefCountFNDX",
	ObjectRevisionWithRefCount2FNDX:            "ObjectRevisionWithRefCount2FNDX",
	RootObjectReference2FNDX:                   "RootObjectReference2FNDX",
	RootObjectReference3FND:                    "RootObjectReference3FND",
	RevisionRoleDeclarationFND:                 "RevisionRoleDeclarationFND",
	RevisionRoleAndContextDeclarationFND:       "RevisionRoleAndContextDeclarationFND",
	ObjectDeclarationFileData3RefCountFND:      "ObjectDeclarationFileData3RefCountFND",
	ObjectDeclarationFileData3LargeRefCountFND: "ObjectDeclarationFileData3LargeRefCountFND",
	ObjectDataEncryptionKeyV2FNDX:              "ObjectDataEncryptionKeyV2FNDX",
	ObjectInfoDependencyOverridesFND:           "ObjectInfoDependencyOverridesFND",
	DataSignatureGroupDefinitionFND:            "DataSignatureGroupDefinitionFND",
	FileDataStoreListReferenceFND:              "FileDataStoreListReferenceFND",
	FileDataStoreObjectReferenceFND:            "FileDataStoreObjectReferenceFND",
	ObjectDeclaration2RefCountFND:              "ObjectDeclaration2RefCountFND",
	ObjectDeclaration2LargeRefCountFND:         "ObjectDeclaration2LargeRefCountFND",
	ObjectGroupListReferenceFND:                "ObjectGroupListReferenceFND",
	ObjectGroupStartFND:                        "ObjectGroupStartFND",
	ObjectGroupEndFND:                          "ObjectGroupEndFND",
	HashedChunkDescriptor2FND:                  "HashedChunkDescriptor2FND",
	ReadOnlyObjectDeclaration2RefCountFND:      "ReadOnlyObjectDeclaration2RefCountFND",
	ReadOnlyObjectDeclaration2LargeRefCountFND: "ReadOnlyObjectDeclaration2LargeRefCountFND",
	ChunkTerminatorFND:                         "ChunkTerminatorFND",
}

// Known reports whether id is in the documented enumeration.
func (id FileNodeID) Known() bool {
	_, ok := fileNodeNames[id]
	return ok
}

func (id FileNodeID) String() string {
	if n, ok := fileNodeNames[id]; ok {
		return n
	}
	return fmt.Sprintf("FileNodeID(0x%03X)", uint16(id))
}

// IsRevisionManifestStart reports whether id opens a revision manifest.
func (id FileNodeID) IsRevisionManifestStart() bool {
	return id == RevisionManifestStart4FND || id == RevisionManifestStart6FND || id == RevisionManifestStart7FND
}

// BaseType says what, if anything, the node's leading chunk reference points to.
type BaseType uint8

// Base types.
const (
	BaseTypeNoReference       BaseType = 0
	BaseTypeDataReference     BaseType = 1
	BaseTypeFileNodeListChild BaseType = 2
)

// FileNodeHeaderSize is the size of the packed FileNode header.
const FileNodeHeaderSize = 4

// FileNode header bit layout.
const (
	fnIDMask        = 0x3FF
	fnSizeShift     = 10
	fnSizeMask      = 0x1FFF
	fnStpShift      = 23
	fnCbShift       = 25
	fnFormatMask    = 0x3
	fnBaseTypeShift = 27
	fnBaseTypeMask  = 0xF
	fnReservedBit   = 1 << 31
)

// FileNodeHeader is the packed first word of every file node:
//
//	Bits   Field
//	0-9    FileNodeID
//	10-22  Size (bytes, header included)
//	23-24  StpFormat
//	25-26  CbFormat
//	27-30  BaseType
//	31     Reserved, must be 1
type FileNodeHeader struct {
	ID        FileNodeID
	Size      uint16
	StpFormat uint8
	CbFormat  uint8
	BaseType  BaseType
}

// DecodeFileNodeHeader unpacks a FileNode header word. It does not check
// whether the id is known; id 0 marks the end of a fragment.
func DecodeFileNodeHeader(raw uint32) (FileNodeHeader, error) {
	if raw&fnReservedBit == 0 && raw != 0 {
		return FileNodeHeader{}, errors.Wrapf(ErrReservedBitsNonZero, "file node header 0x%08x: reserved bit clear", raw)
	}
	h := FileNodeHeader{
		ID:        FileNodeID(raw & fnIDMask),
		Size:      uint16((raw >> fnSizeShift) & fnSizeMask),
		StpFormat: uint8((raw >> fnStpShift) & fnFormatMask),
		CbFormat:  uint8((raw >> fnCbShift) & fnFormatMask),
		BaseType:  BaseType((raw >> fnBaseTypeShift) & fnBaseTypeMask),
	}
	if h.BaseType > BaseTypeFileNodeListChild {
		return FileNodeHeader{}, errors.Wrapf(ErrReservedBitsNonZero, "file node header 0x%08x: base type %d", raw, h.BaseType)
	}
	return h, nil
}

// Pack returns the 32-bit encoding of h with the reserved bit set.
func (h FileNodeHeader) Pack() uint32 {
	return uint32(h.ID)&fnIDMask |
		(uint32(h.Size)&fnSizeMask)<<fnSizeShift |
		(uint32(h.StpFormat)&fnFormatMask)<<fnStpShift |
		(uint32(h.CbFormat)&fnFormatMask)<<fnCbShift |
		(uint32(h.BaseType)&fnBaseTypeMask)<<fnBaseTypeShift |
		fnReservedBit
}
