package onestore

import (
	"strconv"
	"strings"

	"github.com/joshuapare/onestore/internal/format"
)

// FileNodePtr addresses a FileNode by its index path from the root list:
// element i selects a node in the list reached through element i-1's child.
type FileNodePtr []int

// Child returns a new pointer extending p with index i.
func (p FileNodePtr) Child(i int) FileNodePtr {
	out := make(FileNodePtr, len(p)+1)
	copy(out, p)
	out[len(p)] = i
	return out
}

// Parent returns p without its last element. The root pointer is its own parent.
func (p FileNodePtr) Parent() FileNodePtr {
	if len(p) == 0 {
		return p
	}
	return p[:len(p)-1:len(p)-1]
}

// Equal reports whether p and o address the same node.
func (p FileNodePtr) Equal(o FileNodePtr) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

func (p FileNodePtr) String() string {
	parts := make([]string, len(p))
	for i, v := range p {
		parts[i] = strconv.Itoa(v)
	}
	return "/" + strings.Join(parts, "/")
}

// Fragment records where one fragment of a list lives in the file.
type Fragment struct {
	Ref    format.ChunkRef
	Header format.FragmentHeader
}

// FileNodeList is a fully chained file node list.
type FileNodeList struct {
	ID        uint32
	Fragments []Fragment
	Nodes     []*FileNode
}

// FileNode is one decoded node. GOSID is the identity the node carries
// (object id, revision id, object space id and so on, see Payload.Identity)
// and is nil for nodes without one.
type FileNode struct {
	Header  format.FileNodeHeader
	Offset  uint64
	Ref     format.ChunkRef
	GOSID   format.ExtendedGUID
	Child   *FileNodeList
	Payload Payload
}

// ID is shorthand for n.Header.ID.
func (n *FileNode) ID() format.FileNodeID { return n.Header.ID }

// PropertySet returns the decoded property set for object declarations and
// object revisions whose data is an ObjectSpaceObjectPropSet.
func (n *FileNode) PropertySet() *PropertySet {
	switch p := n.Payload.(type) {
	case *ObjectDeclaration:
		return p.Props
	case *ObjectRevision:
		return p.Props
	}
	return nil
}

// IsFileData reports whether the node declares binary file data rather than
// a property set.
func (n *FileNode) IsFileData() bool {
	switch p := n.Payload.(type) {
	case *ObjectDeclaration:
		return p.JCID.IsFileData && !p.JCID.IsObjectSpaceObjectPropSet()
	case *FileDataDeclaration, *FileDataStoreObject:
		return true
	}
	return false
}

// Payload is the id-specific body of a FileNode.
type Payload interface {
	// Identity names what FileNode.GOSID holds for this node ("oid", "rid",
	// "gosid" and so on), or "" when the node carries no identity.
	Identity() string
}

// ObjectSpaceManifestRoot names the root object space of the file.
type ObjectSpaceManifestRoot struct {
	Root format.ExtendedGUID
}

// ObjectSpaceManifestListRef points at an object space's manifest list.
type ObjectSpaceManifestListRef struct {
	ObjectSpace format.ExtendedGUID
}

// ObjectSpaceManifestListStart opens an object space manifest list.
type ObjectSpaceManifestListStart struct {
	ObjectSpace format.ExtendedGUID
}

// RevisionManifestListRef points at a revision manifest list.
type RevisionManifestListRef struct{}

// RevisionManifestListStart opens a revision manifest list.
type RevisionManifestListStart struct {
	ObjectSpace format.ExtendedGUID
	NInstance   uint32
}

// RevisionManifestStart opens a revision manifest (Start4, Start6 or Start7).
type RevisionManifestStart struct {
	RID          format.ExtendedGUID
	Dependent    format.ExtendedGUID
	TimeCreation uint64
	RevisionRole uint32
	Odcs         uint16
	Context      format.ExtendedGUID
	HasContext   bool
}

// RevisionManifestEnd closes a revision manifest.
type RevisionManifestEnd struct{}

// GlobalIDTableStart opens a global id table (FNDX or FND2 form).
type GlobalIDTableStart struct {
	Reserved uint8
}

// GlobalIDTableEntry adds one GUID at Index.
type GlobalIDTableEntry struct {
	Index uint32
	GUID  format.GUID
}

// GlobalIDTableEntry2 copies one entry from the dependent revision's table.
type GlobalIDTableEntry2 struct {
	IndexMapFrom uint32
	IndexMapTo   uint32
}

// GlobalIDTableEntry3 copies a run of entries from the dependent revision's table.
type GlobalIDTableEntry3 struct {
	IndexCopyFromStart uint32
	EntriesToCopy      uint32
	IndexCopyToStart   uint32
}

// GlobalIDTableEnd closes a global id table.
type GlobalIDTableEnd struct{}

// ObjectDeclaration declares an object (ObjectDeclarationWithRefCount,
// ObjectDeclaration2 and their read-only variants). Props is set when the
// JCID names an ObjectSpaceObjectPropSet.
type ObjectDeclaration struct {
	CompactID format.CompactID
	OID       format.ExtendedGUID
	JCID      format.JCID
	HasOIDRef bool
	HasOSID   bool
	CRef      uint32
	MD5       []byte
	Props     *PropertySet
}

// ObjectRevision records new data for an already declared object.
type ObjectRevision struct {
	CompactID format.CompactID
	OID       format.ExtendedGUID
	HasOIDRef bool
	HasOSID   bool
	CRef      uint32
	Props     *PropertySet
}

// RootObjectReference names the root object for a revision role (2FNDX or 3FND).
type RootObjectReference struct {
	Root     format.ExtendedGUID
	RootRole uint32
}

// RevisionRoleDeclaration adds a role (and, for the context form, a context)
// to a revision.
type RevisionRoleDeclaration struct {
	RID          format.ExtendedGUID
	RevisionRole uint32
	Context      format.ExtendedGUID
	HasContext   bool
}

// FileDataDeclaration declares an object whose data lives in the file data
// store (or in an external file when Reference does not start with <ifndf>).
type FileDataDeclaration struct {
	CompactID format.CompactID
	OID       format.ExtendedGUID
	JCID      format.JCID
	CRef      uint32
	Reference string
	Extension string
	// FileData is the GUID of the referenced FileDataStoreObject when
	// Reference has the <ifndf>{GUID} form.
	FileData    format.GUID
	HasFileData bool
}

// ObjectDataEncryptionKey references an ObjectDataEncryptionKeyStore.
type ObjectDataEncryptionKey struct{}

// ObjectInfoDependencyOverride adjusts the reference count of one object.
type ObjectInfoDependencyOverride struct {
	Object ObjectRef
	CRef   uint32
}

// ObjectInfoDependencyOverrides carries the overrides of one revision.
type ObjectInfoDependencyOverrides struct {
	Overrides []ObjectInfoDependencyOverride
	Crc       uint32
}

// DataSignatureGroupDefinition marks the following objects as a signature group.
type DataSignatureGroupDefinition struct {
	DataSignatureGroup format.ExtendedGUID
}

// FileDataStoreListRef points at the file data store list.
type FileDataStoreListRef struct{}

// FileDataStoreObject is one entry of the file data store list. Data covers the
// payload bytes inside the referenced FileDataStoreObject structure.
type FileDataStoreObject struct {
	GUIDReference format.GUID
	// Data is NilChunkRef when the node references no object.
	Data format.ChunkRef
}

// ObjectGroupListRef points at an object group's list.
type ObjectGroupListRef struct {
	ObjectGroup format.ExtendedGUID
}

// ObjectGroupStart opens an object group.
type ObjectGroupStart struct {
	ObjectGroup format.ExtendedGUID
}

// ObjectGroupEnd closes an object group.
type ObjectGroupEnd struct{}

// HashedChunkDescriptor names a blob by its MD5 hash.
type HashedChunkDescriptor struct {
	Hash [16]byte
}

func (*ObjectSpaceManifestRoot) Identity() string       { return "gosidRoot" }
func (*ObjectSpaceManifestListRef) Identity() string    { return "gosid" }
func (*ObjectSpaceManifestListStart) Identity() string  { return "gosid" }
func (*RevisionManifestListRef) Identity() string       { return "" }
func (*RevisionManifestListStart) Identity() string     { return "gosid" }
func (*RevisionManifestStart) Identity() string         { return "rid" }
func (*RevisionManifestEnd) Identity() string           { return "" }
func (*GlobalIDTableStart) Identity() string            { return "" }
func (*GlobalIDTableEntry) Identity() string            { return "" }
func (*GlobalIDTableEntry2) Identity() string           { return "" }
func (*GlobalIDTableEntry3) Identity() string           { return "" }
func (*GlobalIDTableEnd) Identity() string              { return "" }
func (*ObjectDeclaration) Identity() string             { return "oid" }
func (*ObjectRevision) Identity() string                { return "oid" }
func (*RootObjectReference) Identity() string           { return "oidRoot" }
func (*RevisionRoleDeclaration) Identity() string       { return "rid" }
func (*FileDataDeclaration) Identity() string           { return "oid" }
func (*ObjectDataEncryptionKey) Identity() string       { return "" }
func (*ObjectInfoDependencyOverrides) Identity() string { return "" }
func (*DataSignatureGroupDefinition) Identity() string  { return "dataSig" }
func (*FileDataStoreListRef) Identity() string          { return "" }
func (*FileDataStoreObject) Identity() string           { return "" }
func (*ObjectGroupListRef) Identity() string            { return "oid(group)" }
func (*ObjectGroupStart) Identity() string              { return "oid(group)" }
func (*ObjectGroupEnd) Identity() string                { return "" }
func (*HashedChunkDescriptor) Identity() string         { return "" }
