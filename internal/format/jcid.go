package format

import (
	"fmt"

	"github.com/pkg/errors"
)

// JCID flag bits.
const (
	JCIDIsBinary      = 1 << 16
	JCIDIsPropertySet = 1 << 17
	JCIDIsGraphNode   = 1 << 18
	JCIDIsFileData    = 1 << 19
	JCIDIsReadOnly    = 1 << 20
	jcidIndexMask     = 0xFFFF
	jcidReservedMask  = 0xFFE00000
)

// JCID describes the type of an object:
//
//	Bits   Field
//	0-15   index
//	16     IsBinary
//	17     IsPropertySet
//	18     IsGraphNode
//	19     IsFileData
//	20     IsReadOnly
//	21-31  reserved, must be zero
type JCID struct {
	Index         uint16
	IsBinary      bool
	IsPropertySet bool
	IsGraphNode   bool
	IsFileData    bool
	IsReadOnly    bool
}

// DecodeJCID unpacks a 32-bit JCID.
func DecodeJCID(raw uint32) (JCID, error) {
	if raw&jcidReservedMask != 0 {
		return JCID{}, errors.Wrapf(ErrReservedBitsNonZero, "jcid 0x%08x", raw)
	}
	return JCID{
		Index:         uint16(raw & jcidIndexMask),
		IsBinary:      raw&JCIDIsBinary != 0,
		IsPropertySet: raw&JCIDIsPropertySet != 0,
		IsGraphNode:   raw&JCIDIsGraphNode != 0,
		IsFileData:    raw&JCIDIsFileData != 0,
		IsReadOnly:    raw&JCIDIsReadOnly != 0,
	}, nil
}

// Pack returns the 32-bit encoding of j.
func (j JCID) Pack() uint32 {
	raw := uint32(j.Index)
	for _, f := range []struct {
		set bool
		bit uint32
	}{
		{j.IsBinary, JCIDIsBinary},
		{j.IsPropertySet, JCIDIsPropertySet},
		{j.IsGraphNode, JCIDIsGraphNode},
		{j.IsFileData, JCIDIsFileData},
		{j.IsReadOnly, JCIDIsReadOnly},
	} {
		if f.set {
			raw |= f.bit
		}
	}
	return raw
}

// IsObjectSpaceObjectPropSet reports whether the object's body is an
// ObjectSpaceObjectPropSet. When false the body is file data. A file data
// JCID never carries a property set, whatever its other flags say.
func (j JCID) IsObjectSpaceObjectPropSet() bool {
	if j.IsFileData {
		return false
	}
	if j.IsPropertySet {
		return true
	}
	return !j.IsBinary && !j.IsGraphNode && !j.IsReadOnly && j.Index > 0
}

func (j JCID) String() string {
	return fmt.Sprintf("jcid 0x%08x", j.Pack())
}
