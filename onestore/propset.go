package onestore

import (
	"github.com/pkg/errors"

	"github.com/joshuapare/onestore/internal/format"
)

// ObjectRef is a compact id taken from an object stream together with the
// extended GUID it resolved to. Resolved is false when the active global id
// table had no entry for the compact id's index.
type ObjectRef struct {
	CompactID format.CompactID
	OID       format.ExtendedGUID
	Resolved  bool
}

// PropertySet is an ordered list of property values.
type PropertySet struct {
	Values []PropertyValue
}

// Len returns the number of values in s; a nil set has none.
func (s *PropertySet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Values)
}

// Get returns the first value whose kind is k.
func (s *PropertySet) Get(k format.PropertyKind) (PropertyValue, bool) {
	if s == nil {
		return PropertyValue{}, false
	}
	for _, v := range s.Values {
		if v.ID.Kind() == k {
			return v, true
		}
	}
	return PropertyValue{}, false
}

// PropertyValue is one decoded property. Which field is meaningful depends
// on ID.Type:
//
//	NoData .. EightBytesOfData        Scalar (Bool is 0 or 1)
//	FourBytesOfLengthFollowedByData   Data (read later through Document.ReadChunk)
//	ObjectID .. ArrayOfContextIDs     Refs
//	ArrayOfPropertyValues             Set, one element value per entry
//	PropertySet                       Set
type PropertyValue struct {
	ID     format.PropertyID
	Scalar uint64
	Data   format.ChunkRef
	Refs   []ObjectRef
	Set    *PropertySet
}

// streamCounters tracks how many entries of each object stream the
// properties of one ObjectSpaceObjectPropSet have consumed. Nested property
// sets share the counters of their parent.
type streamCounters struct {
	oids, osids, contextIDs int
}

// objectStreams are the three reference streams of an ObjectSpaceObjectPropSet.
type objectStreams struct {
	oids, osids, contextIDs []ObjectRef
}

type resolveFunc func(format.CompactID) (format.ExtendedGUID, bool)

// readObjectStream reads a stream header and its compact ids.
func readObjectStream(c *cursor, resolve resolveFunc) (format.ObjectStreamHeader, []ObjectRef) {
	hdr := format.DecodeObjectStreamHeader(c.u32())
	if c.err != nil {
		return hdr, nil
	}
	if uint64(hdr.Count)*format.CompactIDSize > c.remaining() {
		c.fail(errors.Wrapf(format.ErrTruncated, "object stream of %d ids at 0x%x, %d bytes left", hdr.Count, c.pos, c.remaining()))
		return hdr, nil
	}
	refs := make([]ObjectRef, hdr.Count)
	for i := range refs {
		cid := c.compactID()
		oid, ok := resolve(cid)
		refs[i] = ObjectRef{CompactID: cid, OID: oid, Resolved: ok}
	}
	return hdr, refs
}

// readObjectSpacePropSet decodes an ObjectSpaceObjectPropSet: the OIDs
// stream, the optional OSIDs and ContextIDs streams, then the property set.
func readObjectSpacePropSet(c *cursor, resolve resolveFunc) (*PropertySet, error) {
	var streams objectStreams
	oidsHdr, oids := readObjectStream(c, resolve)
	streams.oids = oids
	if c.err == nil && !oidsHdr.OsidStreamNotPresent {
		osidsHdr, osids := readObjectStream(c, resolve)
		streams.osids = osids
		if c.err == nil && osidsHdr.ExtendedStreamsPresent {
			_, streams.contextIDs = readObjectStream(c, resolve)
		}
	}
	if c.err != nil {
		return nil, c.err
	}
	var counters streamCounters
	set := readPropertySet(c, &streams, &counters)
	if c.err != nil {
		return nil, c.err
	}
	return set, nil
}

// readPropertySet decodes a PropertySet: a u16 count, the PropertyIDs, then
// one value per id.
func readPropertySet(c *cursor, streams *objectStreams, counters *streamCounters) *PropertySet {
	count := c.u16()
	if c.err != nil {
		return nil
	}
	if uint64(count)*4 > c.remaining() {
		c.fail(errors.Wrapf(format.ErrTruncated, "property set of %d ids at 0x%x, %d bytes left", count, c.pos, c.remaining()))
		return nil
	}
	ids := make([]format.PropertyID, count)
	for i := range ids {
		id, err := format.DecodePropertyID(c.u32())
		if err != nil {
			c.fail(err)
			return nil
		}
		ids[i] = id
	}
	set := &PropertySet{Values: make([]PropertyValue, 0, count)}
	for _, id := range ids {
		v := readPropertyValue(c, id, streams, counters)
		if c.err != nil {
			return nil
		}
		set.Values = append(set.Values, v)
	}
	return set
}

func readPropertyValue(c *cursor, id format.PropertyID, streams *objectStreams, counters *streamCounters) PropertyValue {
	v := PropertyValue{ID: id}
	switch id.Type {
	case format.PropNoData:
	case format.PropBool:
		if id.Bool {
			v.Scalar = 1
		}
	case format.PropOneByteOfData:
		v.Scalar = uint64(c.u8())
	case format.PropTwoBytesOfData:
		v.Scalar = uint64(c.u16())
	case format.PropFourBytesOfData:
		v.Scalar = uint64(c.u32())
	case format.PropEightBytesOfData:
		v.Scalar = c.u64()
	case format.PropFourBytesOfLengthFollowedByData:
		cb := uint64(c.u32())
		if c.err != nil {
			break
		}
		if cb > c.size {
			c.fail(errors.Wrapf(format.ErrMemoryLimitExceeded, "property %s: cb 0x%x > resource size 0x%x", id, cb, c.size))
			break
		}
		v.Data = format.ChunkRef{Stp: c.pos, Cb: cb}
		c.skip(cb)
	case format.PropObjectID, format.PropObjectSpaceID, format.PropContextID:
		v.Refs = takeRefs(c, id, 1, streams, counters)
	case format.PropArrayOfObjectIDs, format.PropArrayOfObjectSpaceIDs, format.PropArrayOfContextIDs:
		n := c.u32()
		if c.err == nil {
			v.Refs = takeRefs(c, id, n, streams, counters)
		}
	case format.PropArrayOfPropertyValues:
		n := c.u32()
		elem, err := format.DecodePropertyID(c.u32())
		if c.err != nil {
			break
		}
		if err != nil {
			c.fail(err)
			break
		}
		if uint64(n) > c.size {
			c.fail(errors.Wrapf(format.ErrMemoryLimitExceeded, "property %s: %d elements", id, n))
			break
		}
		v.Set = &PropertySet{}
		for i := uint32(0); i < n && c.err == nil; i++ {
			v.Set.Values = append(v.Set.Values, readPropertyValue(c, elem, streams, counters))
		}
	case format.PropPropertySet:
		v.Set = readPropertySet(c, streams, counters)
	default:
		c.fail(errors.Wrapf(format.ErrInvalidPropertyType, "property %s", id))
	}
	return v
}

// takeRefs consumes n entries from the stream that matches id's type.
func takeRefs(c *cursor, id format.PropertyID, n uint32, streams *objectStreams, counters *streamCounters) []ObjectRef {
	var stream []ObjectRef
	var next *int
	switch id.Type {
	case format.PropObjectID, format.PropArrayOfObjectIDs:
		stream, next = streams.oids, &counters.oids
	case format.PropObjectSpaceID, format.PropArrayOfObjectSpaceIDs:
		stream, next = streams.osids, &counters.osids
	default:
		stream, next = streams.contextIDs, &counters.contextIDs
	}
	if uint64(*next)+uint64(n) > uint64(len(stream)) {
		c.fail(errors.Wrapf(format.ErrTruncated, "property %s: wants %d refs at stream position %d of %d", id, n, *next, len(stream)))
		return nil
	}
	refs := stream[*next : *next+int(n) : *next+int(n)]
	*next += int(n)
	return refs
}
