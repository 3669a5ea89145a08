package onenote

import (
	"github.com/sirupsen/logrus"

	"github.com/joshuapare/onestore/onestore/legacy"
	"github.com/joshuapare/onestore/onestore/walker"
)

// Options controls Parse.
type Options struct {
	// Walker selects the revisions walked and the text printed.
	Walker walker.Options

	// Legacy holds the filters of the printable-string fallback.
	Legacy legacy.Options

	// Logger receives debug records from the parser and the walker.
	// If nil, the standard logrus logger is used.
	Logger *logrus.Entry

	// MaxListDepth bounds file node list nesting.
	// Default: onestore.DefaultMaxListDepth
	MaxListDepth int
}

// DefaultOptions returns the options used by the CLI when no flags are given.
func DefaultOptions() Options {
	return Options{
		Walker: walker.DefaultOptions(),
		Legacy: legacy.DefaultOptions(),
	}
}

func (o Options) logger() *logrus.Entry {
	if o.Logger != nil {
		return o.Logger
	}
	return logrus.StandardLogger().WithField("component", "onestore")
}
