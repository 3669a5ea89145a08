package walker

import (
	"slices"
	"time"

	"github.com/samber/lo"

	"github.com/joshuapare/onestore/internal/format"
)

// Summary collects document metadata met while walking.
type Summary struct {
	Authors           []string
	MostRecentAuthors []string
	OriginalAuthors   []string

	// CreationTimestamp is the earliest CreationTimeStamp, in Unix seconds.
	CreationTimestamp    int64
	HasCreationTimestamp bool
	// LastModifiedTimestamp is the latest LastModifiedTimeStamp.
	LastModifiedTimestamp    time.Time
	HasLastModifiedTimestamp bool
	// LastModified is the latest LastModifiedTime, in Unix seconds.
	LastModified    int64
	HasLastModified bool
}

func newSummary() Summary { return Summary{} }

// observe folds a scalar timestamp property into s.
func (s *Summary) observe(kind format.PropertyKind, v uint64) {
	switch kind {
	case format.LastModifiedTimeStamp:
		t := format.FiletimeToTime(v)
		if !s.HasLastModifiedTimestamp || t.After(s.LastModifiedTimestamp) {
			s.LastModifiedTimestamp = t
			s.HasLastModifiedTimestamp = true
		}
	case format.CreationTimeStamp:
		ts := format.Time32ToUnix(uint32(v))
		if !s.HasCreationTimestamp || ts < s.CreationTimestamp {
			s.CreationTimestamp = ts
			s.HasCreationTimestamp = true
		}
	case format.LastModifiedTime:
		ts := format.Time32ToUnix(uint32(v))
		if !s.HasLastModified || ts > s.LastModified {
			s.LastModified = ts
			s.HasLastModified = true
		}
	}
}

// finish returns a copy of s with each author list deduplicated and sorted.
func (s Summary) finish() Summary {
	s.Authors = uniqueSorted(s.Authors)
	s.MostRecentAuthors = uniqueSorted(s.MostRecentAuthors)
	s.OriginalAuthors = uniqueSorted(s.OriginalAuthors)
	return s
}

func uniqueSorted(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := lo.Uniq(in)
	slices.Sort(out)
	return out
}
