package printer

import (
	"io"

	"github.com/pkg/errors"

	"github.com/joshuapare/onestore/onestore/walker"
)

const (
	DefaultIndentSize     = 2
	DefaultMaxDepth       = 0
	DefaultMaxValueLength = 64
)

// Format specifies the output format for printing.
type Format string

const (
	// FormatText outputs an indented tree.
	FormatText Format = "text"

	// FormatJSON outputs JSON.
	FormatJSON Format = "json"
)

// ParseFormat accepts "text" or "json".
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText, FormatJSON:
		return Format(s), nil
	}
	return "", errors.Errorf("unknown format %q (want text or json)", s)
}

// Options controls printing behavior.
type Options struct {
	// Format specifies output format (text, json).
	// Default: FormatJSON
	Format Format

	// IndentSize is the number of spaces per indent level.
	// Default: 2
	IndentSize int

	// MaxDepth limits how many indentation levels are printed (0 =
	// unlimited). Deeper structures are elided (text format only).
	// Default: 0 (unlimited)
	MaxDepth int

	// MaxValueLength truncates long strings such as base64 payloads (text
	// format only). Set to 0 for no limit.
	// Default: 64
	MaxValueLength int
}

// DefaultOptions returns sensible defaults for printing.
func DefaultOptions() Options {
	return Options{
		Format:         FormatJSON,
		IndentSize:     DefaultIndentSize,
		MaxDepth:       DefaultMaxDepth,
		MaxValueLength: DefaultMaxValueLength,
	}
}

// Printer writes structural walk results.
type Printer struct {
	opts   Options
	writer io.Writer
}

// New creates a new Printer.
//
// Example:
//
//	res, _ := walker.New(doc, walker.DefaultOptions(), types.Sinks{}).Walk()
//	p := printer.New(os.Stdout, printer.DefaultOptions())
//	p.Print(res)
func New(w io.Writer, opts Options) *Printer {
	if opts.IndentSize <= 0 {
		opts.IndentSize = DefaultIndentSize
	}
	return &Printer{writer: w, opts: opts}
}

// Print writes s in the configured format.
func (p *Printer) Print(s walker.Structure) error {
	switch p.opts.Format {
	case FormatText:
		return p.printText(s)
	default:
		return p.printJSON(s)
	}
}
