package format

import (
	"fmt"

	"github.com/pkg/errors"
)

// PropertyType is the 5-bit type tag of a PropertyID.
type PropertyType uint8

// Property types.
const (
	PropNoData                          PropertyType = 0x1
	PropBool                            PropertyType = 0x2
	PropOneByteOfData                   PropertyType = 0x3
	PropTwoBytesOfData                  PropertyType = 0x4
	PropFourBytesOfData                 PropertyType = 0x5
	PropEightBytesOfData                PropertyType = 0x6
	PropFourBytesOfLengthFollowedByData PropertyType = 0x7
	PropObjectID                        PropertyType = 0x8
	PropArrayOfObjectIDs                PropertyType = 0x9
	PropObjectSpaceID                   PropertyType = 0xA
	PropArrayOfObjectSpaceIDs           PropertyType = 0xB
	PropContextID                       PropertyType = 0xC
	PropArrayOfContextIDs               PropertyType = 0xD
	PropArrayOfPropertyValues           PropertyType = 0x10
	PropPropertySet                     PropertyType = 0x11
)

var propertyTypeNames = map[PropertyType]string{
	PropNoData:                          "NoData",
	PropBool:                            "Bool",
	PropOneByteOfData:                   "OneByteOfData",
	PropTwoBytesOfData:                  "TwoBytesOfData",
	PropFourBytesOfData:                 "FourBytesOfData",
	PropEightBytesOfData:                "EightBytesOfData",
	PropFourBytesOfLengthFollowedByData: "FourBytesOfLengthFollowedByData",
	PropObjectID:                        "ObjectID",
	PropArrayOfObjectIDs:                "ArrayOfObjectIDs",
	PropObjectSpaceID:                   "ObjectSpaceID",
	PropArrayOfObjectSpaceIDs:           "ArrayOfObjectSpaceIDs",
	PropContextID:                       "ContextID",
	PropArrayOfContextIDs:               "ArrayOfContextIDs",
	PropArrayOfPropertyValues:           "ArrayOfPropertyValues",
	PropPropertySet:                     "PropertySet",
}

// Known reports whether t is a defined property type.
func (t PropertyType) Known() bool {
	_, ok := propertyTypeNames[t]
	return ok
}

// IsScalar reports whether values of t are stored inline (types 1-6).
func (t PropertyType) IsScalar() bool {
	return t >= PropNoData && t <= PropEightBytesOfData
}

// ScalarWidth returns the inline byte width for scalar types.
func (t PropertyType) ScalarWidth() int {
	switch t {
	case PropOneByteOfData:
		return 1
	case PropTwoBytesOfData:
		return 2
	case PropFourBytesOfData:
		return 4
	case PropEightBytesOfData:
		return 8
	}
	return 0
}

func (t PropertyType) String() string {
	if n, ok := propertyTypeNames[t]; ok {
		return n
	}
	return fmt.Sprintf("PropertyType(0x%x)", uint8(t))
}

// PropertyID bit layout.
const (
	propIDMask    = 0x03FFFFFF
	propTypeShift = 26
	propTypeMask  = 0x1F
	propBoolBit   = 1 << 31
)

// PropertyID identifies a property and the shape of its value:
//
//	Bits   Field
//	0-25   id
//	26-30  type
//	31     inline bool value (only valid when type == Bool)
type PropertyID struct {
	ID   uint32
	Type PropertyType
	Bool bool
}

// DecodePropertyID unpacks a 32-bit property id.
func DecodePropertyID(raw uint32) (PropertyID, error) {
	p := PropertyID{
		ID:   raw & propIDMask,
		Type: PropertyType((raw >> propTypeShift) & propTypeMask),
		Bool: raw&propBoolBit != 0,
	}
	if p.Bool && p.Type != PropBool {
		return PropertyID{}, errors.Wrapf(ErrReservedBitsNonZero, "property id 0x%08x: bool bit set on type %s", raw, p.Type)
	}
	return p, nil
}

// Pack returns the 32-bit encoding of p.
func (p PropertyID) Pack() uint32 {
	raw := p.ID&propIDMask | (uint32(p.Type)&propTypeMask)<<propTypeShift
	if p.Bool {
		raw |= propBoolBit
	}
	return raw
}

// Kind returns the property identity with the inline bool bit cleared. Kinds
// are the values listed in the property kind table.
func (p PropertyID) Kind() PropertyKind {
	return PropertyKind(p.Pack() &^ propBoolBit)
}

func (p PropertyID) String() string {
	return fmt.Sprintf("%s (0x%08x, %s)", p.Kind(), uint32(p.Kind()), p.Type)
}
