package onestore

import (
	"github.com/pkg/errors"

	"github.com/joshuapare/onestore/internal/buf"
	"github.com/joshuapare/onestore/internal/format"
)

// cursor reads little-endian values from a bounded window [pos, end) of a
// Resource. The first failure is sticky: later reads return zero values and
// err reports the original cause.
type cursor struct {
	res  Resource
	size uint64
	pos  uint64
	end  uint64
	err  error
}

// checkChunk validates a live chunk reference against the resource size.
// Sizes larger than the whole resource are reported as a memory limit
// violation; other out-of-range spans are truncation.
func checkChunk(size uint64, ref format.ChunkRef) (uint64, error) {
	if ref.Cb > size {
		return 0, errors.Wrapf(format.ErrMemoryLimitExceeded, "chunk %s: cb 0x%x > resource size 0x%x", ref, ref.Cb, size)
	}
	end, err := buf.CheckSpan(size, ref.Stp, ref.Cb)
	if err != nil {
		return 0, errors.Wrapf(format.ErrTruncated, "chunk %s: %v", ref, err)
	}
	return end, nil
}

func newCursor(res Resource, ref format.ChunkRef) (*cursor, error) {
	size := uint64(res.Size())
	end, err := checkChunk(size, ref)
	if err != nil {
		return nil, err
	}
	return &cursor{res: res, size: size, pos: ref.Stp, end: end}, nil
}

func (c *cursor) fail(err error) {
	if c.err == nil {
		c.err = err
	}
}

func (c *cursor) remaining() uint64 {
	if c.pos >= c.end {
		return 0
	}
	return c.end - c.pos
}

// bytes reads n bytes. n is checked against the resource size before any
// allocation.
func (c *cursor) bytes(n uint64) []byte {
	if c.err != nil {
		return nil
	}
	if n > c.size {
		c.fail(errors.Wrapf(format.ErrMemoryLimitExceeded, "read of 0x%x bytes > resource size 0x%x", n, c.size))
		return nil
	}
	if n > c.remaining() {
		c.fail(errors.Wrapf(format.ErrTruncated, "read of %d bytes at 0x%x, %d left", n, c.pos, c.remaining()))
		return nil
	}
	b := make([]byte, n)
	if _, err := c.res.ReadAt(b, int64(c.pos)); err != nil {
		c.fail(errors.Wrapf(err, "read at 0x%x", c.pos))
		return nil
	}
	c.pos += n
	return b
}

func (c *cursor) skip(n uint64) {
	if c.err != nil {
		return
	}
	if n > c.remaining() {
		c.fail(errors.Wrapf(format.ErrTruncated, "skip of %d bytes at 0x%x, %d left", n, c.pos, c.remaining()))
		return
	}
	c.pos += n
}

func (c *cursor) u8() uint8 {
	b := c.bytes(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (c *cursor) u16() uint16 { return buf.U16LE(c.bytes(2)) }
func (c *cursor) u32() uint32 { return buf.U32LE(c.bytes(4)) }
func (c *cursor) u64() uint64 { return buf.U64LE(c.bytes(8)) }

func (c *cursor) guid() format.GUID {
	b := c.bytes(format.GUIDSize)
	if b == nil {
		return format.GUID{}
	}
	g, err := format.DecodeGUID(b)
	c.fail(err)
	return g
}

func (c *cursor) extendedGUID() format.ExtendedGUID {
	b := c.bytes(format.ExtendedGUIDSize)
	if b == nil {
		return format.ExtendedGUID{}
	}
	e, err := format.DecodeExtendedGUID(b)
	c.fail(err)
	return e
}

func (c *cursor) compactID() format.CompactID {
	return format.DecodeCompactID(c.u32())
}

func (c *cursor) fcr64() format.ChunkRef {
	b := c.bytes(format.FCR64Size)
	if b == nil {
		return format.ChunkRef{}
	}
	r, err := format.DecodeFCR64(b)
	c.fail(err)
	return r
}

// fileNodeChunkRef reads the variable-width reference selected by the node header.
func (c *cursor) fileNodeChunkRef(stpFormat, cbFormat uint8) format.ChunkRef {
	if c.err != nil {
		return format.ChunkRef{}
	}
	sw, err := format.StpWidth(stpFormat)
	if err != nil {
		c.fail(err)
		return format.ChunkRef{}
	}
	cw, err := format.CbWidth(cbFormat)
	if err != nil {
		c.fail(err)
		return format.ChunkRef{}
	}
	b := c.bytes(uint64(sw + cw))
	if b == nil {
		return format.ChunkRef{}
	}
	r, _, err := format.DecodeFileNodeChunkRef(b, stpFormat, cbFormat)
	c.fail(err)
	return r
}
