package onenote

import (
	"strconv"

	"github.com/joshuapare/onestore/internal/format"
	"github.com/joshuapare/onestore/onestore/walker"
	"github.com/joshuapare/onestore/pkg/types"
)

// Metadata keys.
const (
	KeyAuthors               = "authors"
	KeyMostRecentAuthors     = "mostRecentAuthors"
	KeyOriginalAuthors       = "originalAuthors"
	KeyCreationTimestamp     = "creationTimestamp"
	KeyLastModifiedTimestamp = "lastModifiedTimestamp"
	KeyLastModified          = "lastModified"
)

func hex(v uint64) string { return "0x" + strconv.FormatUint(v, 16) }

// HeaderMetadata writes the header counters and build numbers to m as
// 0x-prefixed hex strings.
func HeaderMetadata(h *format.Header, m types.Metadata) {
	for _, f := range []struct {
		key string
		val uint64
	}{
		{"buildNumberCreated", uint64(h.BnCreated)},
		{"buildNumberLastWroteToFile", uint64(h.BnLastWroteToThisFile)},
		{"buildNumberNewestWritten", uint64(h.BnNewestWritten)},
		{"buildNumberOldestWritten", uint64(h.BnOldestWritten)},
		{"cbExpectedFileLength", h.CbExpectedFileLength},
		{"cbFreeSpaceInFreeChunkList", h.CbFreeSpaceInFreeChunkList},
		{"cbLegacyExpectedFileLength", uint64(h.CbLegacyExpectedFileLength)},
		{"cbLegacyFreeSpaceInFreeChunkList", uint64(h.CbLegacyFreeSpaceInFreeChunkList)},
		{"crcName", uint64(h.CrcName)},
		{"cTransactionsInLog", uint64(h.CTransactionsInLog)},
		{"ffvLastCodeThatWroteToThisFile", uint64(h.FfvLastCodeThatWroteToThisFile)},
		{"ffvNewestCodeThatHasWrittenToThisFile", uint64(h.FfvNewestCodeThatHasWrittenToThisFile)},
		{"ffvOldestCodeThatMayReadThisFile", uint64(h.FfvOldestCodeThatMayReadThisFile)},
		{"ffvOldestCodeThatHasWrittenToThisFile", uint64(h.FfvOldestCodeThatHasWrittenToThisFile)},
		{"grfDebugLogFlags", uint64(h.GrfDebugLogFlags)},
		{"nFileVersionGeneration", h.NFileVersionGeneration},
		{"rgbPlaceholder", h.RgbPlaceholder},
	} {
		m.Set(f.key, hex(f.val))
	}
}

// SummaryMetadata writes authors and timestamps to m. Timestamps are
// written only when the walk met the property: creationTimestamp and
// lastModified in Unix seconds, lastModifiedTimestamp in Unix milliseconds.
func SummaryMetadata(s walker.Summary, m types.Metadata) {
	for _, a := range s.Authors {
		m.Add(KeyAuthors, a)
	}
	for _, a := range s.MostRecentAuthors {
		m.Add(KeyMostRecentAuthors, a)
	}
	for _, a := range s.OriginalAuthors {
		m.Add(KeyOriginalAuthors, a)
	}
	if s.HasCreationTimestamp {
		m.Set(KeyCreationTimestamp, strconv.FormatInt(s.CreationTimestamp, 10))
	}
	if s.HasLastModifiedTimestamp {
		m.Set(KeyLastModifiedTimestamp, strconv.FormatInt(s.LastModifiedTimestamp.UnixMilli(), 10))
	}
	if s.HasLastModified {
		m.Set(KeyLastModified, strconv.FormatInt(s.LastModified, 10))
	}
}
