package onestore

import (
	"github.com/pkg/errors"

	"github.com/joshuapare/onestore/internal/format"
)

var (
	// ErrNotRevisionStore indicates the header's file format GUID is not the
	// revision store format.
	ErrNotRevisionStore = errors.New("onestore: not a revision store file")
	// ErrDanglingPointer indicates a FileNodePtr that does not address a node.
	ErrDanglingPointer = errors.New("onestore: file node pointer does not address a node")
)

// RoleContext is a (revision role, context id) pair. A nil Context is the
// default context.
type RoleContext struct {
	Role    uint32
	Context format.ExtendedGUID
}

// Revision is one revision manifest.
type Revision struct {
	RID         format.ExtendedGUID
	Dependent   format.ExtendedGUID
	ObjectSpace format.ExtendedGUID
	Manifest    FileNodePtr
}

// FileDataEntry locates the payload of a FileDataStoreObject.
type FileDataEntry struct {
	Data format.ChunkRef
	Node FileNodePtr
}

// Document is the assembled view of a revision store file.
type Document struct {
	Header format.Header
	Root   *FileNodeList

	// RootObjectSpace is the gosidRoot of ObjectSpaceManifestRootFND.
	RootObjectSpace format.ExtendedGUID
	// ObjectSpaces lists the revisions of each object space in file order.
	ObjectSpaces map[format.ExtendedGUID][]format.ExtendedGUID
	// Tables holds the global id table of each revision and object group.
	Tables map[format.ExtendedGUID]*GlobalIDTable
	// Revisions is keyed by revision id.
	Revisions map[format.ExtendedGUID]*Revision
	// RevisionRoles is the set of (role, context) pairs declared per revision.
	RevisionRoles map[format.ExtendedGUID]map[RoleContext]struct{}
	// RevisionListOrder is the object space id of each revision manifest list
	// in the order the lists were encountered.
	RevisionListOrder []format.ExtendedGUID
	// RevisionManifestLists maps an object space id to the node that
	// references its revision manifest list.
	RevisionManifestLists map[format.ExtendedGUID]FileNodePtr
	// Objects maps an object id to the node holding its latest data.
	Objects map[format.ExtendedGUID]FileNodePtr
	// FileData maps a FileDataStoreObject GUID to its payload.
	FileData map[format.GUID]FileDataEntry
	// FileDataExtensions carries the extension declared for file data objects
	// that reference the file data store.
	FileDataExtensions map[format.GUID]string

	res Resource
}

func newDocument(res Resource, hdr format.Header) *Document {
	return &Document{
		Header:                hdr,
		ObjectSpaces:          make(map[format.ExtendedGUID][]format.ExtendedGUID),
		Tables:                make(map[format.ExtendedGUID]*GlobalIDTable),
		Revisions:             make(map[format.ExtendedGUID]*Revision),
		RevisionRoles:         make(map[format.ExtendedGUID]map[RoleContext]struct{}),
		RevisionManifestLists: make(map[format.ExtendedGUID]FileNodePtr),
		Objects:               make(map[format.ExtendedGUID]FileNodePtr),
		FileData:              make(map[format.GUID]FileDataEntry),
		FileDataExtensions:    make(map[format.GUID]string),
		res:                   res,
	}
}

// Resource returns the byte source the document was built from.
func (d *Document) Resource() Resource { return d.res }

// Dereference returns the node addressed by p.
func (d *Document) Dereference(p FileNodePtr) (*FileNode, error) {
	if len(p) == 0 {
		return nil, errors.Wrap(ErrDanglingPointer, "empty pointer")
	}
	list := d.Root
	var n *FileNode
	for depth, i := range p {
		if list == nil || i < 0 || i >= len(list.Nodes) {
			return nil, errors.Wrapf(ErrDanglingPointer, "%s at depth %d", p, depth)
		}
		n = list.Nodes[i]
		list = n.Child
	}
	return n, nil
}

// Object returns the node holding the data of oid.
func (d *Document) Object(oid format.ExtendedGUID) (*FileNode, FileNodePtr, bool) {
	p, ok := d.Objects[oid]
	if !ok {
		return nil, nil, false
	}
	n, err := d.Dereference(p)
	if err != nil {
		return nil, nil, false
	}
	return n, p, true
}

// HasRole reports whether revision rid declared rc.
func (d *Document) HasRole(rid format.ExtendedGUID, rc RoleContext) bool {
	_, ok := d.RevisionRoles[rid][rc]
	return ok
}

func (d *Document) addRole(rid format.ExtendedGUID, rc RoleContext) {
	set, ok := d.RevisionRoles[rid]
	if !ok {
		set = make(map[RoleContext]struct{})
		d.RevisionRoles[rid] = set
	}
	set[rc] = struct{}{}
}

// ReadChunk reads the bytes covered by ref.
func (d *Document) ReadChunk(ref format.ChunkRef) ([]byte, error) {
	if ref.Cb == 0 {
		return []byte{}, nil
	}
	c, err := newCursor(d.res, ref)
	if err != nil {
		return nil, err
	}
	b := c.bytes(ref.Cb)
	if c.err != nil {
		return nil, c.err
	}
	return b, nil
}
