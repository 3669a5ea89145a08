package format

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrBadMagic indicates a file node list fragment header had an unexpected magic.
	ErrBadMagic = errors.New("format: bad file node list magic")
	// ErrBadFooter indicates a file node list fragment footer had an unexpected value.
	ErrBadFooter = errors.New("format: bad file node list footer")
	// ErrTruncated indicates the buffer lacked the bytes required for a structure.
	ErrTruncated = errors.New("format: truncated buffer")
	// ErrReservedBitsNonZero indicates a packed field had reserved bits set.
	ErrReservedBitsNonZero = errors.New("format: reserved bits non-zero")
	// ErrUnrecognizedFileNodeID indicates a file node id outside the known enumeration.
	ErrUnrecognizedFileNodeID = errors.New("format: unrecognized file node id")
	// ErrNonSequentialGlobalIDIndex indicates a global id table entry out of order.
	ErrNonSequentialGlobalIDIndex = errors.New("format: non-sequential global id index")
	// ErrCopyRangeOutOfBounds indicates a global id copy range beyond the source table.
	ErrCopyRangeOutOfBounds = errors.New("format: global id copy range out of bounds")
	// ErrMalformedGUID indicates textual GUID data that is not 32 hex digits.
	ErrMalformedGUID = errors.New("format: malformed guid")
	// ErrMemoryLimitExceeded indicates a declared size larger than the underlying resource.
	ErrMemoryLimitExceeded = errors.New("format: declared size exceeds resource size")
	// ErrCompactIDUnresolved indicates a compact id whose index is missing from the active table.
	ErrCompactIDUnresolved = errors.New("format: compact id not in global id table")
	// ErrDependentRevisionMissing indicates a copy from a revision that was never declared.
	ErrDependentRevisionMissing = errors.New("format: dependent revision missing")
	// ErrCyclicReference indicates an object that references one of its own ancestors.
	ErrCyclicReference = errors.New("format: cyclic object reference")
	// ErrInvalidPropertyType indicates a property type tag outside the known set.
	ErrInvalidPropertyType = errors.New("format: invalid property type")
	// ErrUnexpectedObjectBody indicates an object declaration whose JCID names neither a
	// property set nor file data.
	ErrUnexpectedObjectBody = errors.New("format: object jcid is neither property set nor file data")
	// ErrUnknownChunkFormat indicates a stp or cb format selector outside 0-3.
	ErrUnknownChunkFormat = errors.New("format: unknown chunk reference format")
)

// UnrecognizedFileNodeIDError carries the offending id. It matches
// ErrUnrecognizedFileNodeID through errors.Is.
type UnrecognizedFileNodeIDError struct {
	ID uint16
}

func (e *UnrecognizedFileNodeIDError) Error() string {
	return fmt.Sprintf("%s: 0x%03X", ErrUnrecognizedFileNodeID, e.ID)
}

// Is reports whether target is ErrUnrecognizedFileNodeID.
func (e *UnrecognizedFileNodeIDError) Is(target error) bool {
	return target == ErrUnrecognizedFileNodeID
}
