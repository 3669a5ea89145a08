package onestore

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/onestore/internal/format"
)

func guidN(b byte) format.GUID {
	var g format.GUID
	g[0] = 0xA0
	g[15] = b
	return g
}

func TestGlobalIDTable_Append(t *testing.T) {
	tbl := NewGlobalIDTable()
	require.NoError(t, tbl.Append(0, guidN(0)))
	require.NoError(t, tbl.Append(1, guidN(1)))
	assert.Equal(t, 2, tbl.Len())

	err := tbl.Append(3, guidN(3))
	require.Error(t, err)
	assert.True(t, errors.Is(err, format.ErrNonSequentialGlobalIDIndex))
	err = tbl.Append(1, guidN(1))
	assert.True(t, errors.Is(err, format.ErrNonSequentialGlobalIDIndex))
}

func TestGlobalIDTable_Resolve(t *testing.T) {
	tbl := NewGlobalIDTable()
	require.NoError(t, tbl.Append(0, guidN(7)))

	got, ok := tbl.Resolve(format.CompactID{N: 3, GUIDIndex: 0})
	require.True(t, ok)
	assert.Equal(t, format.ExtendedGUID{GUID: guidN(7), N: 3}, got)

	_, ok = tbl.Resolve(format.CompactID{N: 3, GUIDIndex: 1})
	assert.False(t, ok)

	var nilTable *GlobalIDTable
	_, ok = nilTable.Resolve(format.CompactID{})
	assert.False(t, ok)
	assert.Equal(t, 0, nilTable.Len())
}

func TestGlobalIDTable_CopyRange(t *testing.T) {
	src := NewGlobalIDTable()
	for i := uint32(0); i < 5; i++ {
		require.NoError(t, src.Append(i, guidN(byte(i))))
	}
	dst := NewGlobalIDTable()
	require.NoError(t, dst.CopyRange(src, 1, 3, 0))
	got, err := dst.Range(0, 3)
	require.NoError(t, err)
	want, err := src.Range(1, 3)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// Copies may land past the end and leave holes.
	require.NoError(t, dst.CopyRange(src, 4, 1, 10))
	assert.Equal(t, 11, dst.Len())
	_, ok := dst.Lookup(5)
	assert.False(t, ok)
	_, err = dst.Range(0, 11)
	assert.True(t, errors.Is(err, format.ErrCompactIDUnresolved))

	err = dst.CopyRange(src, 3, 3, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, format.ErrCopyRangeOutOfBounds))

	err = dst.CopyRange(src, 0xFFFFFFFF, 2, 0)
	assert.True(t, errors.Is(err, format.ErrCopyRangeOutOfBounds))

	err = dst.CopyRange(src, 0, 2, 0xFFFFFFFF)
	assert.True(t, errors.Is(err, format.ErrCopyRangeOutOfBounds))
}

func TestFileNodePtr(t *testing.T) {
	root := FileNodePtr{1, 2}
	a := root.Child(3)
	b := root.Child(4)
	assert.Equal(t, FileNodePtr{1, 2, 3}, a)
	assert.Equal(t, FileNodePtr{1, 2, 4}, b)
	assert.True(t, a.Parent().Equal(root))
	assert.False(t, a.Equal(b))
	assert.Equal(t, "/1/2/3", a.String())

	p := a.Parent()
	p = append(p, 9)
	assert.Equal(t, FileNodePtr{1, 2, 3}, a, "Parent must not alias the child's storage")

	var empty FileNodePtr
	assert.Len(t, empty.Parent(), 0)
	assert.Equal(t, "/", empty.String())
}

func TestCursor_Limits(t *testing.T) {
	res := BytesResource(make([]byte, 64))

	c, err := newCursor(res, format.ChunkRef{Stp: 8, Cb: 8})
	require.NoError(t, err)
	assert.Equal(t, uint32(0), c.u32())
	assert.Equal(t, uint64(4), c.remaining())
	c.u64()
	require.Error(t, c.err)
	assert.True(t, errors.Is(c.err, format.ErrTruncated))
	// Sticky: later reads keep the first error.
	c.u8()
	assert.True(t, errors.Is(c.err, format.ErrTruncated))

	c, err = newCursor(res, format.ChunkRef{Stp: 0, Cb: 64})
	require.NoError(t, err)
	c.bytes(1 << 20)
	assert.True(t, errors.Is(c.err, format.ErrMemoryLimitExceeded))

	_, err = newCursor(res, format.ChunkRef{Stp: 60, Cb: 8})
	assert.True(t, errors.Is(err, format.ErrTruncated))
	_, err = newCursor(res, format.ChunkRef{Stp: 0, Cb: 65})
	assert.True(t, errors.Is(err, format.ErrMemoryLimitExceeded))
}
