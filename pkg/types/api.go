package types

import (
	"errors"
	"fmt"
)

// -----------------------------------------------------------------------------
// Typed Errors (stable categories for programmatic handling)
// -----------------------------------------------------------------------------

// ErrKind classifies errors so callers can branch on intent rather than text.
type ErrKind int

const (
	ErrKindFormat        ErrKind = iota // not a OneStore file (unknown header GUIDs)
	ErrKindCorrupt                      // malformed structure (bad magic, reserved bits, bad copy ranges)
	ErrKindResourceLimit                // a size claim exceeds the underlying resource
	ErrKindUnsupported                  // recognized but unsupported variant
	ErrKindIO                           // the resource could not be read
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindFormat:
		return "format"
	case ErrKindCorrupt:
		return "corrupt"
	case ErrKindResourceLimit:
		return "resource-limit"
	case ErrKindUnsupported:
		return "unsupported"
	case ErrKindIO:
		return "io"
	default:
		return fmt.Sprintf("ErrKind(%d)", int(k))
	}
}

// Error is a typed error with an optional underlying cause.
type Error struct {
	Kind ErrKind
	Msg  string
	Err  error // optional underlying cause
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error of the same kind with no cause, so the sentinels
// below can be used with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil {
		return false
	}
	return t.Err == nil && t.Kind == e.Kind && (t.Msg == "" || t.Msg == e.Msg)
}

// Sentinels commonly returned by implementations.
var (
	// ErrNotOneStore indicates the header does not describe a OneStore file.
	ErrNotOneStore = &Error{Kind: ErrKindFormat, Msg: "not a OneNote revision store"}
	// ErrCorrupt indicates non-recoverable structural inconsistency.
	ErrCorrupt = &Error{Kind: ErrKindCorrupt}
	// ErrTooLarge indicates a declared size larger than the file itself.
	ErrTooLarge = &Error{Kind: ErrKindResourceLimit}
	// ErrUnsupported indicates a recognized but unsupported variant.
	ErrUnsupported = &Error{Kind: ErrKindUnsupported}
)

// KindOf returns the kind of the first *Error in err's chain. Errors that are
// not typed report ErrKindCorrupt.
func KindOf(err error) (ErrKind, bool) {
	if err == nil {
		return 0, false
	}
	var te *Error
	if errors.As(err, &te) {
		return te.Kind, true
	}
	return ErrKindCorrupt, false
}

// -----------------------------------------------------------------------------
// Sinks
// -----------------------------------------------------------------------------

// Attr is one attribute of a content element.
type Attr struct {
	Name  string
	Value string
}

// ContentHandler receives the extracted document as a stream of element
// events. Element names are XHTML names ("p", "a", "div"). EndDocument is
// the last event of a successful parse and arrives exactly once.
type ContentHandler interface {
	StartElement(name string, attrs ...Attr) error
	Characters(text string) error
	EndElement(name string) error
	Newline() error
	EndDocument() error
}

// Metadata receives document properties. Set replaces a key; Add appends to
// a multi-valued key.
type Metadata interface {
	Set(key, value string)
	Add(key, value string)
}

// EmbeddedHandler receives embedded files. Name is synthesized from the
// file data GUID and, when known, its declared extension.
type EmbeddedHandler interface {
	Embedded(name, contentType string, data []byte) error
}

// Sinks groups the three outputs. Any of them may be nil.
type Sinks struct {
	Content  ContentHandler
	Metadata Metadata
	Embedded EmbeddedHandler
}
