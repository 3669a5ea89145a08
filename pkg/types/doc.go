// Package types defines the public error type and the sink interfaces the
// OneNote extractor writes to.
//
// Extraction output is delivered through three sinks:
//   - ContentHandler receives the document text as element events.
//   - Metadata receives header fields, authors and timestamps.
//   - EmbeddedHandler receives the bytes of embedded files.
//
// Errors returned by the public packages are *Error values carrying an
// ErrKind, so callers can tell a corrupt file from one that is merely too
// large for its declared sizes.
//
// This package has no dependencies beyond the standard library.
package types
