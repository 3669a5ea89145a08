package onestore

import (
	"github.com/pkg/errors"

	"github.com/joshuapare/onestore/internal/buf"
	"github.com/joshuapare/onestore/internal/format"
)

// GlobalIDTable maps compact id indices to GUIDs. Entries written by
// GlobalIdTableEntryFNDX are sequential; entries copied from a dependent
// revision may land at any index, so the table can contain holes.
type GlobalIDTable struct {
	entries map[uint32]format.GUID
	length  uint32
}

// NewGlobalIDTable returns an empty table.
func NewGlobalIDTable() *GlobalIDTable {
	return &GlobalIDTable{entries: make(map[uint32]format.GUID)}
}

// Len returns one past the highest index written.
func (t *GlobalIDTable) Len() int {
	if t == nil {
		return 0
	}
	return int(t.length)
}

// Append writes g at index, which must equal Len().
func (t *GlobalIDTable) Append(index uint32, g format.GUID) error {
	if index != t.length {
		return errors.Wrapf(format.ErrNonSequentialGlobalIDIndex, "index %d, table length %d", index, t.length)
	}
	t.Set(index, g)
	return nil
}

// Set writes g at index, growing the table as needed.
func (t *GlobalIDTable) Set(index uint32, g format.GUID) {
	t.entries[index] = g
	if index >= t.length {
		t.length = index + 1
	}
}

// Lookup returns the GUID stored at index.
func (t *GlobalIDTable) Lookup(index uint32) (format.GUID, bool) {
	if t == nil {
		return format.GUID{}, false
	}
	g, ok := t.entries[index]
	return g, ok
}

// Resolve maps a compact id to its extended GUID.
func (t *GlobalIDTable) Resolve(c format.CompactID) (format.ExtendedGUID, bool) {
	g, ok := t.Lookup(c.GUIDIndex)
	if !ok {
		return format.ExtendedGUID{}, false
	}
	return format.ExtendedGUID{GUID: g, N: uint32(c.N)}, true
}

// Range returns the count entries starting at start. It fails if any of
// them is missing.
func (t *GlobalIDTable) Range(start, count uint32) ([]format.GUID, error) {
	end, ok := buf.AddOverflowSafe(uint64(start), uint64(count))
	if !ok || end > uint64(t.Len()) {
		return nil, errors.Wrapf(format.ErrCopyRangeOutOfBounds, "range [%d, +%d) of table length %d", start, count, t.Len())
	}
	out := make([]format.GUID, count)
	for i := range out {
		g, ok := t.Lookup(start + uint32(i))
		if !ok {
			return nil, errors.Wrapf(format.ErrCompactIDUnresolved, "index %d", start+uint32(i))
		}
		out[i] = g
	}
	return out, nil
}

// CopyRange copies count entries of src starting at from into t starting at to.
func (t *GlobalIDTable) CopyRange(src *GlobalIDTable, from, count, to uint32) error {
	guids, err := src.Range(from, count)
	if err != nil {
		return err
	}
	if uint64(to)+uint64(count) > 1<<32 {
		return errors.Wrapf(format.ErrCopyRangeOutOfBounds, "destination [%d, +%d)", to, count)
	}
	for i, g := range guids {
		t.Set(to+uint32(i), g)
	}
	return nil
}
