package walker

import (
	"slices"

	"github.com/samber/lo"

	"github.com/joshuapare/onestore/internal/format"
	"github.com/joshuapare/onestore/onestore"
)

// DefaultRoleAndContext is the (role, context) pair the revision-aware walk
// follows: the default content role in the default context.
var DefaultRoleAndContext = onestore.RoleContext{Role: 1}

// Options controls which file nodes are walked and which text reaches the
// content sink.
type Options struct {
	// CrawlAllFileNodesFromRoot walks every node reachable from the root list
	// and ignores revision semantics.
	CrawlAllFileNodesFromRoot bool
	// OnlyLatestRevision restricts the revision-aware walk to the last
	// revision of each object space that holds the target role.
	OnlyLatestRevision bool
	// UTF16PropertiesToPrint lists the text properties forwarded to the
	// content sink.
	UTF16PropertiesToPrint map[format.PropertyKind]struct{}
}

// DefaultOptions returns the options used when none are given: the
// revision-aware walk over the latest revision, printing titles, image
// file names, authors and extended-ASCII text.
func DefaultOptions() Options {
	return Options{
		OnlyLatestRevision: true,
		UTF16PropertiesToPrint: PropertySet(
			format.CachedTitleString,
			format.ImageFilename,
			format.Author,
			format.TextExtendedASCII,
		),
	}
}

// PropertySet builds a print set from kinds.
func PropertySet(kinds ...format.PropertyKind) map[format.PropertyKind]struct{} {
	set := make(map[format.PropertyKind]struct{}, len(kinds))
	for _, k := range kinds {
		set[k] = struct{}{}
	}
	return set
}

// Printed returns the print set in ascending order.
func (o Options) Printed() []format.PropertyKind {
	out := lo.Keys(o.UTF16PropertiesToPrint)
	slices.Sort(out)
	return out
}

func (o Options) prints(k format.PropertyKind) bool {
	_, ok := o.UTF16PropertiesToPrint[k]
	return ok
}
