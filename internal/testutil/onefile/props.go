package onefile

import (
	"github.com/joshuapare/onestore/internal/format"
)

// Prop is one property value to encode. Data is the inline value bytes;
// the reference slices are appended to the object's streams in the order
// the parser consumes them.
type Prop struct {
	ID     format.PropertyID
	Data   []byte
	OIDs   []format.ExtendedGUID
	OSIDs  []format.ExtendedGUID
	Ctx    []format.ExtendedGUID
	Nested []Prop
	Array  [][]Prop
}

func idFor(kind format.PropertyKind) format.PropertyID {
	id, _ := format.DecodePropertyID(uint32(kind))
	return id
}

// Scalar encodes v with the width implied by kind's type.
func Scalar(kind format.PropertyKind, v uint64) Prop {
	p := Prop{ID: idFor(kind)}
	switch kind.Type() {
	case format.PropOneByteOfData:
		p.Data = U8(uint8(v))
	case format.PropTwoBytesOfData:
		p.Data = U16(uint16(v))
	case format.PropFourBytesOfData:
		p.Data = U32(uint32(v))
	case format.PropEightBytesOfData:
		p.Data = U64(v)
	}
	return p
}

// Bool encodes an inline boolean.
func Bool(kind format.PropertyKind, v bool) Prop {
	p := Prop{ID: idFor(kind)}
	p.ID.Type = format.PropBool
	p.ID.Bool = v
	return p
}

// Blob encodes a FourBytesOfLengthFollowedByData value.
func Blob(kind format.PropertyKind, data []byte) Prop {
	return Prop{ID: idFor(kind), Data: Cat(U32(uint32(len(data))), data)}
}

// Text encodes s as a UTF-16LE blob.
func Text(kind format.PropertyKind, s string) Prop {
	return Blob(kind, format.EncodeUTF16(s))
}

// Refs encodes an object, object space or context reference (or array of
// them) according to kind's type.
func Refs(kind format.PropertyKind, ids ...format.ExtendedGUID) Prop {
	p := Prop{ID: idFor(kind)}
	switch kind.Type() {
	case format.PropArrayOfObjectIDs, format.PropArrayOfObjectSpaceIDs, format.PropArrayOfContextIDs:
		p.Data = U32(uint32(len(ids)))
	default:
		ids = ids[:1]
	}
	switch kind.Type() {
	case format.PropObjectID, format.PropArrayOfObjectIDs:
		p.OIDs = ids
	case format.PropObjectSpaceID, format.PropArrayOfObjectSpaceIDs:
		p.OSIDs = ids
	default:
		p.Ctx = ids
	}
	return p
}

// Set encodes a nested property set.
func Set(kind format.PropertyKind, props ...Prop) Prop {
	p := Prop{ID: idFor(kind), Nested: props}
	p.ID.Type = format.PropPropertySet
	return p
}

// Array encodes an ArrayOfPropertyValues whose elements are property sets.
func Array(kind format.PropertyKind, elems ...[]Prop) Prop {
	p := Prop{ID: idFor(kind), Array: elems}
	p.ID.Type = format.PropArrayOfPropertyValues
	return p
}

type streams struct {
	oids, osids, ctx []format.ExtendedGUID
}

// encodePropertySet encodes props and collects their references into s.
func encodePropertySet(props []Prop, s *streams) []byte {
	out := U16(uint16(len(props)))
	for _, p := range props {
		out = append(out, U32(p.ID.Pack())...)
	}
	for _, p := range props {
		out = append(out, p.Data...)
		s.oids = append(s.oids, p.OIDs...)
		s.osids = append(s.osids, p.OSIDs...)
		s.ctx = append(s.ctx, p.Ctx...)
		if p.ID.Type == format.PropPropertySet {
			out = append(out, encodePropertySet(p.Nested, s)...)
		}
		if p.ID.Type == format.PropArrayOfPropertyValues {
			elem := format.PropertyID{Type: format.PropPropertySet}
			out = append(out, U32(uint32(len(p.Array)))...)
			out = append(out, U32(elem.Pack())...)
			for _, e := range p.Array {
				out = append(out, encodePropertySet(e, s)...)
			}
		}
	}
	return out
}

// References returns every extended GUID props refer to, in stream order.
func References(props []Prop) []format.ExtendedGUID {
	var s streams
	encodePropertySet(props, &s)
	out := append([]format.ExtendedGUID{}, s.oids...)
	out = append(out, s.osids...)
	return append(out, s.ctx...)
}

// ObjectSpacePropSet encodes an ObjectSpaceObjectPropSet. compact maps each
// referenced extended GUID to the compact id written in the streams.
func ObjectSpacePropSet(props []Prop, compact func(format.ExtendedGUID) format.CompactID) []byte {
	var s streams
	body := encodePropertySet(props, &s)

	stream := func(ids []format.ExtendedGUID, hdr format.ObjectStreamHeader) []byte {
		hdr.Count = uint32(len(ids))
		out := U32(hdr.Pack())
		for _, id := range ids {
			out = append(out, U32(compact(id).Pack())...)
		}
		return out
	}
	withOSIDs := len(s.osids) > 0 || len(s.ctx) > 0
	out := stream(s.oids, format.ObjectStreamHeader{OsidStreamNotPresent: !withOSIDs})
	if withOSIDs {
		out = append(out, stream(s.osids, format.ObjectStreamHeader{ExtendedStreamsPresent: len(s.ctx) > 0})...)
		if len(s.ctx) > 0 {
			out = append(out, stream(s.ctx, format.ObjectStreamHeader{})...)
		}
	}
	return append(out, body...)
}
