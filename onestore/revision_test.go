package onestore_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/onestore/internal/format"
	"github.com/joshuapare/onestore/internal/testutil/onefile"
	"github.com/joshuapare/onestore/onestore"
)

func start6(rid, dep format.ExtendedGUID, role uint32) onefile.Node {
	return onefile.Node{
		ID:   format.RevisionManifestStart6FND,
		Body: onefile.Cat(onefile.ExtGUID(rid), onefile.ExtGUID(dep), onefile.U32(role), onefile.U16(0)),
	}
}

func entry(i uint32, g format.GUID) onefile.Node {
	return onefile.Node{ID: format.GlobalIDTableEntryFNDX, Body: onefile.Cat(onefile.U32(i), onefile.GUID(g))}
}

func buildNodes(t *testing.T, nodes ...onefile.Node) (*onestore.Document, error) {
	t.Helper()
	b := onefile.New()
	root := b.List(nodes...)
	return onestore.Build(onestore.BytesResource(b.Bytes(root)), onestore.BuildOptions{})
}

func TestGlobalIDTable_CopyFromDependentRevision(t *testing.T) {
	g := []format.GUID{page.GUID, outline.GUID, text.GUID}
	doc, err := buildNodes(t,
		start6(rev1, format.NilExtendedGUID, 1),
		onefile.Node{ID: format.GlobalIDTableStart2FND},
		entry(0, g[0]), entry(1, g[1]), entry(2, g[2]),
		onefile.Node{ID: format.GlobalIDTableEndFNDX},
		onefile.Node{ID: format.RevisionManifestEndFND},

		start6(rev2, rev1, 1),
		onefile.Node{ID: format.GlobalIDTableStartFNDX, Body: onefile.U8(0)},
		onefile.Node{ID: format.GlobalIDTableEntry3FNDX, Body: onefile.Cat(onefile.U32(1), onefile.U32(2), onefile.U32(0))},
		onefile.Node{ID: format.GlobalIDTableEntry2FNDX, Body: onefile.Cat(onefile.U32(0), onefile.U32(5))},
		onefile.Node{ID: format.GlobalIDTableEndFNDX},
		onefile.Node{ID: format.RevisionManifestEndFND},
	)
	require.NoError(t, err)

	assert.Equal(t, rev1, doc.Revisions[rev2].Dependent)
	tbl := doc.Tables[rev2]
	require.NotNil(t, tbl)
	got, err := tbl.Range(0, 2)
	require.NoError(t, err)
	assert.Equal(t, g[1:], got)
	g5, ok := tbl.Lookup(5)
	require.True(t, ok)
	assert.Equal(t, g[0], g5)
	assert.Equal(t, 6, tbl.Len())

	// The dependent's own table is untouched.
	assert.Equal(t, 3, doc.Tables[rev1].Len())
}

func TestGlobalIDTable_NonSequentialEntry(t *testing.T) {
	_, err := buildNodes(t,
		start6(rev1, format.NilExtendedGUID, 1),
		onefile.Node{ID: format.GlobalIDTableStart2FND},
		entry(0, page.GUID),
		entry(2, outline.GUID),
	)
	require.Error(t, err)
	assert.True(t, errors.Is(err, format.ErrNonSequentialGlobalIDIndex))
}

func TestGlobalIDTable_CopyWithoutDependent(t *testing.T) {
	_, err := buildNodes(t,
		start6(rev1, format.NilExtendedGUID, 1),
		onefile.Node{ID: format.GlobalIDTableStart2FND},
		onefile.Node{ID: format.GlobalIDTableEntry2FNDX, Body: onefile.Cat(onefile.U32(0), onefile.U32(0))},
	)
	require.Error(t, err)
	assert.True(t, errors.Is(err, format.ErrDependentRevisionMissing))

	_, err = buildNodes(t,
		start6(rev2, rev1, 1),
		onefile.Node{ID: format.GlobalIDTableStart2FND},
		onefile.Node{ID: format.GlobalIDTableEntry3FNDX, Body: onefile.Cat(onefile.U32(0), onefile.U32(1), onefile.U32(0))},
	)
	require.Error(t, err)
	assert.True(t, errors.Is(err, format.ErrDependentRevisionMissing))
}

func TestGlobalIDTable_CopyOutOfRange(t *testing.T) {
	_, err := buildNodes(t,
		start6(rev1, format.NilExtendedGUID, 1),
		onefile.Node{ID: format.GlobalIDTableStart2FND},
		entry(0, page.GUID),
		start6(rev2, rev1, 1),
		onefile.Node{ID: format.GlobalIDTableStart2FND},
		onefile.Node{ID: format.GlobalIDTableEntry3FNDX, Body: onefile.Cat(onefile.U32(0), onefile.U32(2), onefile.U32(0))},
	)
	require.Error(t, err)
	assert.True(t, errors.Is(err, format.ErrCopyRangeOutOfBounds))
}

func TestBuild_UnresolvedDeclaration(t *testing.T) {
	_, err := buildNodes(t,
		start6(rev1, format.NilExtendedGUID, 1),
		onefile.Node{ID: format.GlobalIDTableStart2FND},
		entry(0, page.GUID),
		onefile.Node{ID: format.RootObjectReference2FNDX, Body: onefile.Cat(onefile.Compact(1, 4), onefile.U32(1))},
	)
	require.Error(t, err)
	assert.True(t, errors.Is(err, format.ErrCompactIDUnresolved))
}

func TestBuild_RoleDeclarations(t *testing.T) {
	ctx := onefile.ExtendedGUID(0x40, 1)
	doc, err := buildNodes(t,
		onefile.Node{
			ID:   format.RevisionManifestStart4FND,
			Body: onefile.Cat(onefile.ExtGUID(rev1), onefile.ExtGUID(format.NilExtendedGUID), onefile.U64(0), onefile.U32(2), onefile.U16(0)),
		},
		onefile.Node{ID: format.RevisionManifestEndFND},
		onefile.Node{
			ID:   format.RevisionManifestStart7FND,
			Body: onefile.Cat(onefile.ExtGUID(rev2), onefile.ExtGUID(rev1), onefile.U32(1), onefile.U16(0), onefile.ExtGUID(ctx)),
		},
		onefile.Node{ID: format.RevisionManifestEndFND},
		onefile.Node{ID: format.RevisionRoleDeclarationFND, Body: onefile.Cat(onefile.ExtGUID(rev1), onefile.U32(1))},
		onefile.Node{ID: format.RevisionRoleAndContextDeclarationFND, Body: onefile.Cat(onefile.ExtGUID(rev2), onefile.U32(4), onefile.ExtGUID(ctx))},
	)
	require.NoError(t, err)

	assert.True(t, doc.HasRole(rev1, onestore.RoleContext{Role: 2}))
	assert.True(t, doc.HasRole(rev1, onestore.RoleContext{Role: 1}))
	assert.True(t, doc.HasRole(rev2, onestore.RoleContext{Role: 1, Context: ctx}))
	assert.True(t, doc.HasRole(rev2, onestore.RoleContext{Role: 4, Context: ctx}))
	assert.False(t, doc.HasRole(rev2, onestore.RoleContext{Role: 1}))

	start, ok := doc.Root.Nodes[2].Payload.(*onestore.RevisionManifestStart)
	require.True(t, ok)
	assert.True(t, start.HasContext)
	assert.Equal(t, "rid", doc.Root.Nodes[2].Payload.Identity())
}

func TestBuild_ObjectGroupScope(t *testing.T) {
	group := onefile.ExtendedGUID(0x50, 1)
	b := onefile.New()

	var groupTable onefile.Table
	cid := groupTable.Add(text)
	props := onefile.ObjectSpacePropSet([]onefile.Prop{onefile.Scalar(format.LanguageID, 7)}, groupTable.Add)
	groupNodes := []onefile.Node{{ID: format.ObjectGroupStartFND, Body: onefile.ExtGUID(group)}}
	groupNodes = append(groupNodes, groupTable.Nodes()...)
	groupNodes = append(groupNodes,
		onefile.Node{
			ID:       format.ObjectDeclaration2RefCountFND,
			BaseType: format.BaseTypeDataReference,
			Ref:      b.Chunk(props),
			Body:     onefile.Cat(onefile.U32(cid.Pack()), onefile.U32(onefile.JCIDRichTextOENode), onefile.U8(0), onefile.U8(1)),
		},
		onefile.Node{ID: format.ObjectGroupEndFND},
	)
	groupList := b.List(groupNodes...)

	root := b.List(
		start6(rev1, format.NilExtendedGUID, 1),
		onefile.Node{ID: format.GlobalIDTableStart2FND},
		entry(0, page.GUID),
		onefile.Node{ID: format.GlobalIDTableEndFNDX},
		onefile.Node{
			ID:       format.ObjectGroupListReferenceFND,
			BaseType: format.BaseTypeFileNodeListChild,
			Ref:      groupList,
			Body:     onefile.ExtGUID(group),
		},
		// Resolves against the revision table again once the group list ends.
		onefile.Node{ID: format.RootObjectReference2FNDX, Body: onefile.Cat(onefile.Compact(uint8(page.N), 0), onefile.U32(1))},
		onefile.Node{ID: format.RevisionManifestEndFND},
	)
	doc, err := onestore.Build(onestore.BytesResource(b.Bytes(root)), onestore.BuildOptions{})
	require.NoError(t, err)

	assert.Equal(t, page, doc.Root.Nodes[5].GOSID)
	require.Contains(t, doc.Tables, group)
	assert.Equal(t, 1, doc.Tables[group].Len())
	assert.Equal(t, 1, doc.Tables[rev1].Len())

	n, ptr, ok := doc.Object(text)
	require.True(t, ok)
	assert.Equal(t, onestore.FileNodePtr{4, 4}, ptr)
	v, ok := n.PropertySet().Get(format.LanguageID)
	require.True(t, ok)
	assert.Equal(t, uint64(7), v.Scalar)
}

func TestBuild_ObjectRevisionReplacesData(t *testing.T) {
	b := onefile.New()
	var table onefile.Table
	cid := table.Add(text)
	v1 := b.Chunk(onefile.ObjectSpacePropSet([]onefile.Prop{onefile.Scalar(format.LanguageID, 1)}, table.Add))
	v2 := b.Chunk(onefile.ObjectSpacePropSet([]onefile.Prop{onefile.Scalar(format.LanguageID, 2)}, table.Add))

	nodes := []onefile.Node{start6(rev1, format.NilExtendedGUID, 1)}
	nodes = append(nodes, table.Nodes()...)
	nodes = append(nodes,
		onefile.Node{
			ID:       format.ObjectDeclaration2RefCountFND,
			BaseType: format.BaseTypeDataReference,
			Ref:      v1,
			Body:     onefile.Cat(onefile.U32(cid.Pack()), onefile.U32(onefile.JCIDRichTextOENode), onefile.U8(0), onefile.U8(1)),
		},
		onefile.Node{
			ID:       format.ObjectRevisionWithRefCountFNDX,
			BaseType: format.BaseTypeDataReference,
			Ref:      v2,
			Body:     onefile.Cat(onefile.U32(cid.Pack()), onefile.U8(1<<2)),
		},
	)
	doc, err := onestore.Build(onestore.BytesResource(b.Bytes(b.List(nodes...))), onestore.BuildOptions{})
	require.NoError(t, err)

	n, _, ok := doc.Object(text)
	require.True(t, ok)
	rev, ok := n.Payload.(*onestore.ObjectRevision)
	require.True(t, ok)
	assert.Equal(t, uint32(1), rev.CRef)
	v, ok := n.PropertySet().Get(format.LanguageID)
	require.True(t, ok)
	assert.Equal(t, uint64(2), v.Scalar)
}

func TestBuild_ObjectDeclarationReservedBits(t *testing.T) {
	nodes := []onefile.Node{start6(rev1, format.NilExtendedGUID, 1)}
	nodes = append(nodes, onefile.Node{ID: format.GlobalIDTableStart2FND}, entry(0, page.GUID))
	nodes = append(nodes, onefile.Node{
		ID:       format.ObjectDeclarationWithRefCountFNDX,
		BaseType: format.BaseTypeDataReference,
		Ref:      format.NilChunkRef,
		Body:     onefile.Cat(onefile.Compact(uint8(page.N), 0), onefile.U32(0x1|1<<12), onefile.U16(0), onefile.U8(1)),
	})
	_, err := buildNodes(t, nodes...)
	require.Error(t, err)
	assert.True(t, errors.Is(err, format.ErrReservedBitsNonZero))
}

func TestBuild_DependencyOverridesInline(t *testing.T) {
	nodes := []onefile.Node{start6(rev1, format.NilExtendedGUID, 1)}
	nodes = append(nodes, onefile.Node{ID: format.GlobalIDTableStart2FND}, entry(0, page.GUID))
	nodes = append(nodes, onefile.Node{
		ID:       format.ObjectInfoDependencyOverridesFND,
		BaseType: format.BaseTypeDataReference,
		Ref:      format.NilChunkRef,
		Body: onefile.Cat(onefile.U32(1), onefile.U32(1), onefile.U32(0xCAFE),
			onefile.Compact(uint8(page.N), 0), onefile.U8(3),
			onefile.Compact(1, 9), onefile.U32(70000)),
	})
	doc, err := buildNodes(t, nodes...)
	require.NoError(t, err)

	pl, ok := doc.Root.Nodes[3].Payload.(*onestore.ObjectInfoDependencyOverrides)
	require.True(t, ok)
	assert.Equal(t, uint32(0xCAFE), pl.Crc)
	require.Len(t, pl.Overrides, 2)
	assert.Equal(t, page, pl.Overrides[0].Object.OID)
	assert.Equal(t, uint32(3), pl.Overrides[0].CRef)
	assert.False(t, pl.Overrides[1].Object.Resolved)
	assert.Equal(t, uint32(70000), pl.Overrides[1].CRef)
}
