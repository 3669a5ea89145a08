package onefile

import (
	"github.com/joshuapare/onestore/internal/format"
)

// Common JCIDs.
const (
	JCIDSectionNode      uint32 = 0x00060007
	JCIDPageNode         uint32 = 0x0006000B
	JCIDOutlineNode      uint32 = 0x0006000C
	JCIDRichTextOENode   uint32 = 0x0006000E
	JCIDEmbeddedFileNode uint32 = 0x00060035
	JCIDFileData         uint32 = 0x00080001
)

// Object is a property-set object declared in a revision.
type Object struct {
	OID   format.ExtendedGUID
	JCID  uint32
	Props []Prop
}

// FileDataObject declares an object whose data is a file data store entry.
type FileDataObject struct {
	OID       format.ExtendedGUID
	Store     format.GUID
	Extension string
}

// Revision is one revision manifest.
type Revision struct {
	RID       format.ExtendedGUID
	Dependent format.ExtendedGUID
	Role      uint32
	// Context selects RevisionManifestStart7FND when non-nil.
	Context  format.ExtendedGUID
	Root     format.ExtendedGUID
	RootRole uint32
	Objects  []Object
	FileData []FileDataObject
	// ExtraRoles are declared with RevisionRoleDeclarationFND after the manifest.
	ExtraRoles []uint32
}

// ObjectSpace is one object space with its revisions in file order.
type ObjectSpace struct {
	GOSID     format.ExtendedGUID
	Revisions []Revision
}

// StoreEntry is one file data store object.
type StoreEntry struct {
	GUID format.GUID
	Data []byte
}

// Section describes a .one file.
type Section struct {
	Spaces    []ObjectSpace
	FileStore []StoreEntry
}

// Build lays out the section and returns the file image.
func (s Section) Build() []byte {
	b := New()
	return b.Bytes(s.Write(b))
}

// Write lays out the section into b and returns the root list reference.
func (s Section) Write(b *Builder) format.ChunkRef {
	var root []Node
	if len(s.Spaces) > 0 {
		root = append(root, Node{ID: format.ObjectSpaceManifestRootFND, Body: ExtGUID(s.Spaces[0].GOSID)})
	}
	if len(s.FileStore) > 0 {
		var entries []Node
		for _, e := range s.FileStore {
			entries = append(entries, Node{
				ID:       format.FileDataStoreObjectReferenceFND,
				BaseType: format.BaseTypeDataReference,
				Ref:      b.Chunk(FileDataStoreObject(e.Data)),
				Body:     GUID(e.GUID),
			})
		}
		root = append(root, Node{
			ID:       format.FileDataStoreListReferenceFND,
			BaseType: format.BaseTypeFileNodeListChild,
			Ref:      b.List(entries...),
		})
	}
	for _, sp := range s.Spaces {
		var revs []Node
		revs = append(revs, Node{ID: format.RevisionManifestListStartFND, Body: Cat(ExtGUID(sp.GOSID), U32(0))})
		for _, r := range sp.Revisions {
			revs = append(revs, r.nodes(b)...)
		}
		revList := b.List(revs...)
		spaceList := b.List(
			Node{ID: format.ObjectSpaceManifestListStartFND, Body: ExtGUID(sp.GOSID)},
			Node{ID: format.RevisionManifestListReferenceFND, BaseType: format.BaseTypeFileNodeListChild, Ref: revList},
		)
		root = append(root, Node{
			ID:       format.ObjectSpaceManifestListReferenceFND,
			BaseType: format.BaseTypeFileNodeListChild,
			Ref:      spaceList,
			Body:     ExtGUID(sp.GOSID),
		})
	}
	return b.List(root...)
}

// Table is a global id table under construction.
type Table struct {
	guids []format.GUID
	index map[format.GUID]uint32
}

// Add returns the compact id for e, appending its GUID when new.
func (t *Table) Add(e format.ExtendedGUID) format.CompactID {
	if t.index == nil {
		t.index = make(map[format.GUID]uint32)
	}
	i, ok := t.index[e.GUID]
	if !ok {
		i = uint32(len(t.guids))
		t.index[e.GUID] = i
		t.guids = append(t.guids, e.GUID)
	}
	return format.CompactID{N: uint8(e.N), GUIDIndex: i}
}

// Nodes returns GlobalIdTableStart2FND, one entry per GUID and the end node.
func (t *Table) Nodes() []Node {
	out := []Node{{ID: format.GlobalIDTableStart2FND}}
	for i, g := range t.guids {
		out = append(out, Node{ID: format.GlobalIDTableEntryFNDX, Body: Cat(U32(uint32(i)), GUID(g))})
	}
	return append(out, Node{ID: format.GlobalIDTableEndFNDX})
}

func (r Revision) nodes(b *Builder) []Node {
	var t Table
	for _, o := range r.Objects {
		t.Add(o.OID)
	}
	for _, f := range r.FileData {
		t.Add(f.OID)
	}
	for _, o := range r.Objects {
		for _, id := range References(o.Props) {
			t.Add(id)
		}
	}
	if !r.Root.IsNil() {
		t.Add(r.Root)
	}

	var out []Node
	start := Cat(ExtGUID(r.RID), ExtGUID(r.Dependent), U32(r.Role), U16(0))
	if r.Context.IsNil() {
		out = append(out, Node{ID: format.RevisionManifestStart6FND, Body: start})
	} else {
		out = append(out, Node{ID: format.RevisionManifestStart7FND, Body: Cat(start, ExtGUID(r.Context))})
	}
	out = append(out, t.Nodes()...)
	for _, o := range r.Objects {
		data := ObjectSpacePropSet(o.Props, t.Add)
		out = append(out, Node{
			ID:       format.ObjectDeclaration2RefCountFND,
			BaseType: format.BaseTypeDataReference,
			Ref:      b.Chunk(data),
			Body:     Cat(U32(t.Add(o.OID).Pack()), U32(o.JCID), U8(0), U8(1)),
		})
	}
	for _, f := range r.FileData {
		body := Cat(U32(t.Add(f.OID).Pack()), U32(JCIDFileData), U8(1),
			StorageString(format.IFNDFPrefix+f.Store.String()), StorageString(f.Extension))
		out = append(out, Node{ID: format.ObjectDeclarationFileData3RefCountFND, Body: body})
	}
	if !r.Root.IsNil() {
		role := r.RootRole
		if role == 0 {
			role = 1
		}
		out = append(out, Node{ID: format.RootObjectReference2FNDX, Body: Cat(U32(t.Add(r.Root).Pack()), U32(role))})
	}
	out = append(out, Node{ID: format.RevisionManifestEndFND})
	for _, role := range r.ExtraRoles {
		out = append(out, Node{ID: format.RevisionRoleDeclarationFND, Body: Cat(ExtGUID(r.RID), U32(role))})
	}
	return out
}

// ExtendedGUID returns a deterministic extended GUID for tests: the GUID's
// last byte is seed and N is n.
func ExtendedGUID(seed byte, n uint32) format.ExtendedGUID {
	g := format.MustGUID("{5A3C0E10-8D2B-4F67-9C41-3B7E2A900000}")
	g[15] = seed
	return format.ExtendedGUID{GUID: g, N: n}
}
