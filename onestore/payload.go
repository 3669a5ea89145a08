package onestore

import (
	"bytes"

	"github.com/pkg/errors"

	"github.com/joshuapare/onestore/internal/format"
)

// decodePayload reads the id-specific body that follows any chunk
// reference and records what the node contributes to the document.
func (p *parser) decodePayload(c *cursor, node *FileNode, path FileNodePtr) (Payload, error) {
	switch id := node.Header.ID; id {
	case format.ObjectSpaceManifestRootFND:
		pl := &ObjectSpaceManifestRoot{Root: c.extendedGUID()}
		node.GOSID = pl.Root
		p.doc.RootObjectSpace = pl.Root
		return pl, nil

	case format.ObjectSpaceManifestListReferenceFND:
		pl := &ObjectSpaceManifestListRef{ObjectSpace: c.extendedGUID()}
		node.GOSID = pl.ObjectSpace
		return pl, nil

	case format.ObjectSpaceManifestListStartFND:
		pl := &ObjectSpaceManifestListStart{ObjectSpace: c.extendedGUID()}
		node.GOSID = pl.ObjectSpace
		return pl, nil

	case format.RevisionManifestListReferenceFND:
		return &RevisionManifestListRef{}, nil

	case format.RevisionManifestListStartFND:
		pl := &RevisionManifestListStart{ObjectSpace: c.extendedGUID(), NInstance: c.u32()}
		if c.err != nil {
			return nil, c.err
		}
		node.GOSID = pl.ObjectSpace
		if _, dup := p.doc.RevisionManifestLists[pl.ObjectSpace]; !dup {
			p.doc.RevisionListOrder = append(p.doc.RevisionListOrder, pl.ObjectSpace)
		}
		p.doc.RevisionManifestLists[pl.ObjectSpace] = path.Parent()
		return pl, nil

	case format.RevisionManifestStart4FND, format.RevisionManifestStart6FND, format.RevisionManifestStart7FND:
		pl := &RevisionManifestStart{RID: c.extendedGUID(), Dependent: c.extendedGUID()}
		if id == format.RevisionManifestStart4FND {
			pl.TimeCreation = c.u64()
		}
		pl.RevisionRole = c.u32()
		pl.Odcs = c.u16()
		if id == format.RevisionManifestStart7FND {
			pl.Context = c.extendedGUID()
			pl.HasContext = true
		}
		if c.err != nil {
			return nil, c.err
		}
		node.GOSID = pl.RID
		p.startRevision(pl, path)
		return pl, nil

	case format.RevisionManifestEndFND:
		return &RevisionManifestEnd{}, nil

	case format.GlobalIDTableStartFNDX:
		pl := &GlobalIDTableStart{Reserved: c.u8()}
		p.startTable()
		return pl, nil

	case format.GlobalIDTableStart2FND:
		p.startTable()
		return &GlobalIDTableStart{}, nil

	case format.GlobalIDTableEntryFNDX:
		pl := &GlobalIDTableEntry{Index: c.u32(), GUID: c.guid()}
		if c.err != nil {
			return nil, c.err
		}
		return pl, p.activeTable().Append(pl.Index, pl.GUID)

	case format.GlobalIDTableEntry2FNDX:
		pl := &GlobalIDTableEntry2{IndexMapFrom: c.u32(), IndexMapTo: c.u32()}
		if c.err != nil {
			return nil, c.err
		}
		dep, err := p.dependentTable()
		if err != nil {
			return nil, err
		}
		g, ok := dep.Lookup(pl.IndexMapFrom)
		if !ok {
			return nil, errors.Wrapf(format.ErrCopyRangeOutOfBounds, "dependent table has no index %d", pl.IndexMapFrom)
		}
		p.activeTable().Set(pl.IndexMapTo, g)
		return pl, nil

	case format.GlobalIDTableEntry3FNDX:
		pl := &GlobalIDTableEntry3{IndexCopyFromStart: c.u32(), EntriesToCopy: c.u32(), IndexCopyToStart: c.u32()}
		if c.err != nil {
			return nil, c.err
		}
		dep, err := p.dependentTable()
		if err != nil {
			return nil, err
		}
		return pl, p.activeTable().CopyRange(dep, pl.IndexCopyFromStart, pl.EntriesToCopy, pl.IndexCopyToStart)

	case format.GlobalIDTableEndFNDX:
		return &GlobalIDTableEnd{}, nil

	case format.ObjectDeclarationWithRefCountFNDX, format.ObjectDeclarationWithRefCount2FNDX:
		return p.objectDeclaration(c, node, path)

	case format.ObjectDeclaration2RefCountFND, format.ObjectDeclaration2LargeRefCountFND,
		format.ReadOnlyObjectDeclaration2RefCountFND, format.ReadOnlyObjectDeclaration2LargeRefCountFND:
		return p.objectDeclaration2(c, node, path)

	case format.ObjectRevisionWithRefCountFNDX, format.ObjectRevisionWithRefCount2FNDX:
		return p.objectRevision(c, node, path)

	case format.RootObjectReference2FNDX:
		cid := c.compactID()
		pl := &RootObjectReference{RootRole: c.u32()}
		if c.err != nil {
			return nil, c.err
		}
		root, err := p.resolve(cid)
		if err != nil {
			return nil, err
		}
		pl.Root = root
		node.GOSID = root
		return pl, nil

	case format.RootObjectReference3FND:
		pl := &RootObjectReference{Root: c.extendedGUID(), RootRole: c.u32()}
		node.GOSID = pl.Root
		return pl, nil

	case format.RevisionRoleDeclarationFND, format.RevisionRoleAndContextDeclarationFND:
		pl := &RevisionRoleDeclaration{RID: c.extendedGUID(), RevisionRole: c.u32()}
		if id == format.RevisionRoleAndContextDeclarationFND {
			pl.Context = c.extendedGUID()
			pl.HasContext = true
		}
		if c.err != nil {
			return nil, c.err
		}
		node.GOSID = pl.RID
		p.doc.addRole(pl.RID, RoleContext{Role: pl.RevisionRole, Context: pl.Context})
		return pl, nil

	case format.ObjectDeclarationFileData3RefCountFND, format.ObjectDeclarationFileData3LargeRefCountFND:
		return p.fileDataDeclaration(c, node, path)

	case format.ObjectDataEncryptionKeyV2FNDX:
		return &ObjectDataEncryptionKey{}, nil

	case format.ObjectInfoDependencyOverridesFND:
		return p.dependencyOverrides(c, node)

	case format.DataSignatureGroupDefinitionFND:
		pl := &DataSignatureGroupDefinition{DataSignatureGroup: c.extendedGUID()}
		node.GOSID = pl.DataSignatureGroup
		return pl, nil

	case format.FileDataStoreListReferenceFND:
		return &FileDataStoreListRef{}, nil

	case format.FileDataStoreObjectReferenceFND:
		return p.fileDataStoreObject(c, node, path)

	case format.ObjectGroupListReferenceFND:
		pl := &ObjectGroupListRef{ObjectGroup: c.extendedGUID()}
		node.GOSID = pl.ObjectGroup
		return pl, nil

	case format.ObjectGroupStartFND:
		pl := &ObjectGroupStart{ObjectGroup: c.extendedGUID()}
		node.GOSID = pl.ObjectGroup
		return pl, nil

	case format.ObjectGroupEndFND:
		return &ObjectGroupEnd{}, nil

	case format.HashedChunkDescriptor2FND:
		pl := &HashedChunkDescriptor{}
		copy(pl.Hash[:], c.bytes(16))
		return pl, nil
	}
	return nil, &format.UnrecognizedFileNodeIDError{ID: uint16(node.Header.ID)}
}

func (p *parser) startRevision(pl *RevisionManifestStart, path FileNodePtr) {
	rev := &Revision{
		RID:         pl.RID,
		Dependent:   pl.Dependent,
		ObjectSpace: p.objectSpace,
		Manifest:    path,
	}
	p.doc.Revisions[pl.RID] = rev
	p.doc.ObjectSpaces[p.objectSpace] = append(p.doc.ObjectSpaces[p.objectSpace], pl.RID)
	p.doc.addRole(pl.RID, RoleContext{Role: pl.RevisionRole, Context: pl.Context})
	p.revision = rev
	p.scope = idScope{owner: pl.RID, table: NewGlobalIDTable()}
	p.doc.Tables[pl.RID] = p.scope.table
}

func (p *parser) startTable() {
	p.scope.table = NewGlobalIDTable()
	p.doc.Tables[p.scope.owner] = p.scope.table
}

func (p *parser) activeTable() *GlobalIDTable {
	if p.scope.table == nil {
		p.startTable()
	}
	return p.scope.table
}

func (p *parser) dependentTable() (*GlobalIDTable, error) {
	if p.revision == nil || p.revision.Dependent.IsNil() {
		return nil, errors.Wrap(format.ErrDependentRevisionMissing, "revision has no dependent")
	}
	t, ok := p.doc.Tables[p.revision.Dependent]
	if !ok {
		return nil, errors.Wrapf(format.ErrDependentRevisionMissing, "dependent revision %s", p.revision.Dependent)
	}
	return t, nil
}

func (p *parser) lookup(cid format.CompactID) (format.ExtendedGUID, bool) {
	return p.scope.table.Resolve(cid)
}

// resolve maps a compact id that must be present in the active table.
func (p *parser) resolve(cid format.CompactID) (format.ExtendedGUID, error) {
	oid, ok := p.lookup(cid)
	if !ok {
		return format.ExtendedGUID{}, errors.Wrapf(format.ErrCompactIDUnresolved, "compact id n=%d index=%d", cid.N, cid.GUIDIndex)
	}
	return oid, nil
}

func readCRef(c *cursor, large bool) uint32 {
	if large {
		return c.u32()
	}
	return uint32(c.u8())
}

// objectDeclaration decodes ObjectDeclarationWithRefCountFNDX and its 2 form.
// Their body packs a 10-bit jci with the reference flags.
func (p *parser) objectDeclaration(c *cursor, node *FileNode, path FileNodePtr) (Payload, error) {
	cid := c.compactID()
	bits := c.u32()
	reserved := c.u16()
	cref := readCRef(c, node.Header.ID == format.ObjectDeclarationWithRefCount2FNDX)
	if c.err != nil {
		return nil, c.err
	}
	if bits&0xFC00 != 0 || bits>>18 != 0 || reserved != 0 {
		return nil, errors.Wrapf(format.ErrReservedBitsNonZero, "object declaration body 0x%08x/0x%04x", bits, reserved)
	}
	decl := &ObjectDeclaration{
		CompactID: cid,
		JCID:      format.JCID{Index: uint16(bits & 0x3FF)},
		HasOIDRef: bits&(1<<16) != 0,
		HasOSID:   bits&(1<<17) != 0,
		CRef:      cref,
	}
	return p.finishDeclaration(decl, node, path)
}

// objectDeclaration2 decodes the ObjectDeclaration2 family, including the
// read-only forms that append an MD5 of the object data.
func (p *parser) objectDeclaration2(c *cursor, node *FileNode, path FileNodePtr) (Payload, error) {
	id := node.Header.ID
	cid := c.compactID()
	jcid, err := format.DecodeJCID(c.u32())
	if c.err != nil {
		return nil, c.err
	}
	if err != nil {
		return nil, err
	}
	flags := c.u8()
	large := id == format.ObjectDeclaration2LargeRefCountFND || id == format.ReadOnlyObjectDeclaration2LargeRefCountFND
	decl := &ObjectDeclaration{
		CompactID: cid,
		JCID:      jcid,
		HasOIDRef: flags&0x1 != 0,
		HasOSID:   flags&0x2 != 0,
		CRef:      readCRef(c, large),
	}
	if id == format.ReadOnlyObjectDeclaration2RefCountFND || id == format.ReadOnlyObjectDeclaration2LargeRefCountFND {
		decl.MD5 = c.bytes(16)
	}
	if c.err != nil {
		return nil, c.err
	}
	return p.finishDeclaration(decl, node, path)
}

func (p *parser) finishDeclaration(decl *ObjectDeclaration, node *FileNode, path FileNodePtr) (Payload, error) {
	oid, err := p.resolve(decl.CompactID)
	if err != nil {
		return nil, err
	}
	decl.OID = oid
	node.GOSID = oid
	p.doc.Objects[oid] = path
	p.jcids[oid] = decl.JCID
	switch {
	case decl.JCID.IsObjectSpaceObjectPropSet():
		props, err := p.readPropSetAt(node.Ref)
		if err != nil {
			return nil, errors.Wrapf(err, "object %s", oid)
		}
		decl.Props = props
	case !decl.JCID.IsFileData:
		return nil, errors.Wrapf(format.ErrUnexpectedObjectBody, "object %s jcid %s", oid, decl.JCID)
	}
	return decl, nil
}

// objectRevision decodes ObjectRevisionWithRefCountFNDX and its 2 form. When
// the object was declared with a property set JCID the new data is decoded
// and the object index is moved to this node.
func (p *parser) objectRevision(c *cursor, node *FileNode, path FileNodePtr) (Payload, error) {
	rev := &ObjectRevision{CompactID: c.compactID()}
	if node.Header.ID == format.ObjectRevisionWithRefCountFNDX {
		b := c.u8()
		rev.HasOIDRef = b&0x1 != 0
		rev.HasOSID = b&0x2 != 0
		rev.CRef = uint32(b >> 2)
	} else {
		flags := c.u32()
		rev.CRef = c.u32()
		if c.err == nil && flags>>2 != 0 {
			return nil, errors.Wrapf(format.ErrReservedBitsNonZero, "object revision flags 0x%08x", flags)
		}
		rev.HasOIDRef = flags&0x1 != 0
		rev.HasOSID = flags&0x2 != 0
	}
	if c.err != nil {
		return nil, c.err
	}
	oid, err := p.resolve(rev.CompactID)
	if err != nil {
		return nil, err
	}
	rev.OID = oid
	node.GOSID = oid
	if jcid, ok := p.jcids[oid]; ok && jcid.IsObjectSpaceObjectPropSet() && node.Ref.IsLive() {
		props, err := p.readPropSetAt(node.Ref)
		if err != nil {
			return nil, errors.Wrapf(err, "object revision %s", oid)
		}
		rev.Props = props
		p.doc.Objects[oid] = path
	}
	return rev, nil
}

func (p *parser) readPropSetAt(ref format.ChunkRef) (*PropertySet, error) {
	if !ref.IsLive() {
		return nil, errors.Wrap(format.ErrTruncated, "property set reference is nil")
	}
	c, err := newCursor(p.res, ref)
	if err != nil {
		return nil, err
	}
	return readObjectSpacePropSet(c, p.lookup)
}

// fileDataDeclaration decodes ObjectDeclarationFileData3RefCountFND and its
// large form. The reference string either points at the file data store
// (<ifndf>{GUID}) or names an external file.
func (p *parser) fileDataDeclaration(c *cursor, node *FileNode, path FileNodePtr) (Payload, error) {
	pl := &FileDataDeclaration{CompactID: c.compactID()}
	jcid, err := format.DecodeJCID(c.u32())
	if c.err != nil {
		return nil, c.err
	}
	if err != nil {
		return nil, err
	}
	pl.JCID = jcid
	pl.CRef = readCRef(c, node.Header.ID == format.ObjectDeclarationFileData3LargeRefCountFND)
	ref := readStorageString(c)
	ext := readStorageString(c)
	if c.err != nil {
		return nil, c.err
	}
	oid, err := p.resolve(pl.CompactID)
	if err != nil {
		return nil, err
	}
	pl.OID = oid
	node.GOSID = oid
	p.doc.Objects[oid] = path
	p.jcids[oid] = jcid

	if s, err := format.DecodeUTF16(ref); err == nil {
		pl.Reference = s
	}
	if s, err := format.DecodeUTF16(ext); err == nil {
		pl.Extension = s
	}
	prefix := format.EncodeUTF16(format.IFNDFPrefix)
	if bytes.HasPrefix(ref, prefix) && len(ref) == len(prefix)+38*2 {
		g, err := format.GUIDFromCurlyUTF16(ref[len(prefix):])
		if err != nil {
			return nil, errors.Wrapf(err, "file data reference of %s", oid)
		}
		pl.FileData = g
		pl.HasFileData = true
		if pl.Extension != "" {
			p.doc.FileDataExtensions[g] = pl.Extension
		}
	}
	return pl, nil
}

// readStorageString reads a StringInStorageBuffer: a u32 character count
// followed by that many UTF-16LE code units.
func readStorageString(c *cursor) []byte {
	cch := uint64(c.u32())
	if c.err != nil {
		return nil
	}
	if cch*2 > c.size {
		c.fail(errors.Wrapf(format.ErrMemoryLimitExceeded, "string of %d characters > resource size 0x%x", cch, c.size))
		return nil
	}
	return c.bytes(cch * 2)
}

// dependencyOverrides decodes ObjectInfoDependencyOverridesFND, whose data
// sits inline when the node's reference is nil.
func (p *parser) dependencyOverrides(c *cursor, node *FileNode) (Payload, error) {
	data := c
	if node.Ref.IsLive() {
		ref, err := newCursor(p.res, node.Ref)
		if err != nil {
			return nil, err
		}
		data = ref
	}
	c8 := data.u32()
	c32 := data.u32()
	pl := &ObjectInfoDependencyOverrides{Crc: data.u32()}
	if data.err != nil {
		return nil, data.err
	}
	if uint64(c8)*5+uint64(c32)*8 > data.remaining() {
		return nil, errors.Wrapf(format.ErrTruncated, "%d+%d dependency overrides, %d bytes left", c8, c32, data.remaining())
	}
	pl.Overrides = make([]ObjectInfoDependencyOverride, 0, c8+c32)
	for i := uint32(0); i < c8; i++ {
		cid := data.compactID()
		oid, ok := p.lookup(cid)
		pl.Overrides = append(pl.Overrides, ObjectInfoDependencyOverride{
			Object: ObjectRef{CompactID: cid, OID: oid, Resolved: ok},
			CRef:   uint32(data.u8()),
		})
	}
	for i := uint32(0); i < c32; i++ {
		cid := data.compactID()
		oid, ok := p.lookup(cid)
		pl.Overrides = append(pl.Overrides, ObjectInfoDependencyOverride{
			Object: ObjectRef{CompactID: cid, OID: oid, Resolved: ok},
			CRef:   data.u32(),
		})
	}
	return pl, data.err
}

// fileDataStoreObject decodes FileDataStoreObjectReferenceFND and locates
// the payload of the FileDataStoreObject it references.
func (p *parser) fileDataStoreObject(c *cursor, node *FileNode, path FileNodePtr) (Payload, error) {
	pl := &FileDataStoreObject{GUIDReference: c.guid()}
	if c.err != nil {
		return nil, c.err
	}
	if !node.Ref.IsLive() {
		p.log.WithField("guid", pl.GUIDReference.String()).Debug("file data store object without data")
		pl.Data = format.NilChunkRef
		return pl, nil
	}
	obj, err := newCursor(p.res, node.Ref)
	if err != nil {
		return nil, err
	}
	obj.guid()
	cb := obj.u64()
	obj.u32()
	reserved := obj.u64()
	if obj.err != nil {
		return nil, obj.err
	}
	if reserved != 0 {
		return nil, errors.Wrapf(format.ErrReservedBitsNonZero, "file data store object reserved 0x%x", reserved)
	}
	if cb > p.size {
		return nil, errors.Wrapf(format.ErrMemoryLimitExceeded, "file data of 0x%x bytes > resource size 0x%x", cb, p.size)
	}
	if cb+format.FileDataStoreObjectFooterSize > obj.remaining() {
		return nil, errors.Wrapf(format.ErrTruncated, "file data of %d bytes, %d left in object", cb, obj.remaining())
	}
	pl.Data = format.ChunkRef{Stp: obj.pos, Cb: cb}
	p.doc.FileData[pl.GUIDReference] = FileDataEntry{Data: pl.Data, Node: path}
	return pl, nil
}
