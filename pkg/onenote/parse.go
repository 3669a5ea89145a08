package onenote

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/joshuapare/onestore/internal/format"
	"github.com/joshuapare/onestore/onestore"
	"github.com/joshuapare/onestore/onestore/legacy"
	"github.com/joshuapare/onestore/onestore/walker"
	"github.com/joshuapare/onestore/pkg/types"
)

// Mode reports which path produced a Result.
type Mode string

const (
	// ModeStructured is the revision store parse.
	ModeStructured Mode = "structured"
	// ModeLegacy is the printable-string fallback.
	ModeLegacy Mode = "legacy"
)

// Result describes one parsed file.
type Result struct {
	Mode   Mode
	Header format.Header

	// Document is the assembled file node tree (structured mode only).
	Document *onestore.Document
	// Structure is the structural walk result (structured mode only).
	Structure walker.Structure
	// Summary holds the authors and timestamps found (structured mode only).
	Summary walker.Summary
	// Strings counts the runs written by the fallback (legacy mode only).
	Strings int
}

// ParseFile maps the file at path and parses it.
//
// Example:
//
//	meta := onenote.MapMetadata{}
//	res, err := onenote.ParseFile("Notes.one", types.Sinks{Metadata: meta}, onenote.DefaultOptions())
func ParseFile(path string, sinks types.Sinks, opts Options) (*Result, error) {
	f, err := onestore.OpenFile(path)
	if err != nil {
		return nil, &types.Error{Kind: types.ErrKindIO, Msg: "open " + path, Err: err}
	}
	defer f.Close()
	return Parse(f, sinks, opts)
}

// ParseBytes parses an in-memory file.
func ParseBytes(data []byte, sinks types.Sinks, opts Options) (*Result, error) {
	return Parse(onestore.BytesResource(data), sinks, opts)
}

// Parse reads res and writes its content to sinks. Revision store files are
// parsed structurally. Files in the alternative packaging or with a legacy
// header are scanned for printable strings. Anything else fails with
// ErrKindFormat.
func Parse(res onestore.Resource, sinks types.Sinks, opts Options) (*Result, error) {
	log := opts.logger()
	if res.Size() < format.HeaderSize {
		return nil, &types.Error{
			Kind: types.ErrKindFormat,
			Msg:  "file too short for a OneStore header",
			Err:  errors.Wrapf(format.ErrTruncated, "have %d bytes", res.Size()),
		}
	}
	hdr, err := onestore.ReadHeader(res)
	if err != nil {
		return nil, wrap(err)
	}
	log.WithFields(logrus.Fields{
		"fileType":   hdr.GUIDFileType.String(),
		"fileFormat": hdr.GUIDFileFormat.String(),
		"size":       res.Size(),
	}).Debug("header")

	switch {
	case hdr.IsRevisionStore():
		return parseStructured(res, hdr, sinks, opts, log)
	case hdr.IsAlternativePackaging(), hdr.IsLegacy():
		return parseLegacy(res, hdr, sinks, opts, log)
	default:
		return nil, &types.Error{
			Kind: types.ErrKindFormat,
			Msg:  types.ErrNotOneStore.Msg,
			Err:  errors.Errorf("file format %s", hdr.GUIDFileFormat),
		}
	}
}

func parseStructured(res onestore.Resource, hdr format.Header, sinks types.Sinks, opts Options, log *logrus.Entry) (*Result, error) {
	doc, err := onestore.Build(res, onestore.BuildOptions{Logger: log, MaxListDepth: opts.MaxListDepth})
	if err != nil {
		return nil, wrap(err)
	}
	if sinks.Metadata != nil {
		HeaderMetadata(&hdr, sinks.Metadata)
	}

	w := walker.New(doc, opts.Walker, sinks).WithLogger(log)
	structure, err := w.Walk()
	if err != nil {
		return nil, wrap(err)
	}
	summary := w.Summary()
	if sinks.Metadata != nil {
		SummaryMetadata(summary, sinks.Metadata)
	}
	if err := endDocument(sinks); err != nil {
		return nil, err
	}
	return &Result{
		Mode:      ModeStructured,
		Header:    hdr,
		Document:  doc,
		Structure: structure,
		Summary:   summary,
	}, nil
}

func parseLegacy(res onestore.Resource, hdr format.Header, sinks types.Sinks, opts Options, log *logrus.Entry) (*Result, error) {
	log.WithField("fileFormat", hdr.GUIDFileFormat.String()).Info("no structured parser for this packaging, scanning for strings")
	out := &Result{Mode: ModeLegacy, Header: hdr}
	err := legacy.Scan(res, opts.Legacy, func(r legacy.Run) error {
		out.Strings++
		if sinks.Content == nil {
			return nil
		}
		if err := sinks.Content.StartElement("p"); err != nil {
			return err
		}
		if err := sinks.Content.Characters(r.Text); err != nil {
			return err
		}
		if err := sinks.Content.EndElement("p"); err != nil {
			return err
		}
		return sinks.Content.Newline()
	})
	if err != nil {
		return nil, wrap(err)
	}
	if err := endDocument(sinks); err != nil {
		return nil, err
	}
	return out, nil
}

func endDocument(sinks types.Sinks) error {
	if sinks.Content == nil {
		return nil
	}
	if err := sinks.Content.EndDocument(); err != nil {
		return wrap(errors.Wrap(err, "end document"))
	}
	return nil
}

// wrap classifies err into a *types.Error. Errors that already are typed
// pass through unchanged.
func wrap(err error) error {
	var te *types.Error
	if errors.As(err, &te) {
		return err
	}
	return &types.Error{Kind: Classify(err), Msg: "parse onenote file", Err: err}
}

// Classify maps an error from the parser packages to an error kind.
func Classify(err error) types.ErrKind {
	var te *types.Error
	switch {
	case errors.As(err, &te):
		return te.Kind
	case errors.Is(err, format.ErrMemoryLimitExceeded):
		return types.ErrKindResourceLimit
	case errors.Is(err, onestore.ErrNotRevisionStore):
		return types.ErrKindFormat
	case errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, os.ErrClosed):
		return types.ErrKindIO
	}
	var pe *os.PathError
	if errors.As(err, &pe) {
		return types.ErrKindIO
	}
	return types.ErrKindCorrupt
}
