package onestore

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/joshuapare/onestore/internal/format"
)

// DefaultMaxListDepth bounds how deeply file node lists may nest.
const DefaultMaxListDepth = 64

// BuildOptions configures Build.
type BuildOptions struct {
	// Logger receives per-node debug records. Nil means the standard logger.
	Logger *logrus.Entry
	// MaxListDepth bounds list nesting; zero means DefaultMaxListDepth.
	MaxListDepth int
}

// ReadHeader decodes the 1024-byte header at offset 0.
func ReadHeader(res Resource) (format.Header, error) {
	c, err := newCursor(res, format.ChunkRef{Stp: 0, Cb: format.HeaderSize})
	if err != nil {
		return format.Header{}, errors.Wrap(err, "header")
	}
	b := c.bytes(format.HeaderSize)
	if c.err != nil {
		return format.Header{}, errors.Wrap(c.err, "header")
	}
	return format.DecodeHeader(b)
}

// Build parses the whole file node tree of a revision store file.
func Build(res Resource, opts BuildOptions) (*Document, error) {
	hdr, err := ReadHeader(res)
	if err != nil {
		return nil, err
	}
	if !hdr.IsRevisionStore() {
		return nil, errors.Wrapf(ErrNotRevisionStore, "file format %s", hdr.GUIDFileFormat)
	}
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger().WithField("component", "onestore")
	}
	p := &parser{
		doc:      newDocument(res, hdr),
		res:      res,
		size:     uint64(res.Size()),
		log:      log,
		debug:    log.Logger.IsLevelEnabled(logrus.DebugLevel),
		maxDepth: opts.MaxListDepth,
		visited:  make(map[uint64]struct{}),
		jcids:    make(map[format.ExtendedGUID]format.JCID),
	}
	if p.maxDepth <= 0 {
		p.maxDepth = DefaultMaxListDepth
	}
	root, err := p.parseList(hdr.FcrFileNodeListRoot, nil, 0)
	if err != nil {
		return nil, err
	}
	p.doc.Root = root
	return p.doc, nil
}

// idScope is the global id table compact ids currently resolve against.
type idScope struct {
	owner format.ExtendedGUID
	table *GlobalIDTable
}

type parser struct {
	doc      *Document
	res      Resource
	size     uint64
	log      *logrus.Entry
	debug    bool
	maxDepth int
	visited  map[uint64]struct{}

	scope       idScope
	objectSpace format.ExtendedGUID
	revision    *Revision
	// jcids remembers each declared object's JCID so later object
	// revisions know how to decode their data.
	jcids map[format.ExtendedGUID]format.JCID
}

func (p *parser) parseList(ref format.ChunkRef, path FileNodePtr, depth int) (*FileNodeList, error) {
	if depth > p.maxDepth {
		return nil, errors.Wrapf(format.ErrCyclicReference, "file node lists nested deeper than %d at %s", p.maxDepth, path)
	}
	list := &FileNodeList{}
	// visited holds the fragments of the lists being parsed on the way down
	// from the root. A list may be shared by several nodes; it is cyclic only
	// when it is reached again from inside itself.
	var open []uint64
	defer func() {
		for _, stp := range open {
			delete(p.visited, stp)
		}
	}()
	for seq := uint32(0); ref.IsLive(); seq++ {
		if _, seen := p.visited[ref.Stp]; seen {
			return nil, errors.Wrapf(format.ErrCyclicReference, "fragment %s is its own ancestor", ref)
		}
		p.visited[ref.Stp] = struct{}{}
		open = append(open, ref.Stp)
		next, err := p.parseFragment(list, ref, path, depth, seq)
		if err != nil {
			return nil, err
		}
		ref = next
	}
	return list, nil
}

func (p *parser) parseFragment(list *FileNodeList, ref format.ChunkRef, path FileNodePtr, depth int, seq uint32) (format.ChunkRef, error) {
	if ref.Cb < format.FragmentHeaderSize+format.FragmentTrailerSize {
		return format.ChunkRef{}, errors.Wrapf(format.ErrTruncated, "fragment %s smaller than header and trailer", ref)
	}
	c, err := newCursor(p.res, ref)
	if err != nil {
		return format.ChunkRef{}, errors.Wrap(err, "fragment")
	}
	hb := c.bytes(format.FragmentHeaderSize)
	if c.err != nil {
		return format.ChunkRef{}, c.err
	}
	fh, err := format.DecodeFragmentHeader(hb)
	if err != nil {
		return format.ChunkRef{}, errors.Wrapf(err, "fragment at 0x%x", ref.Stp)
	}
	if seq == 0 {
		list.ID = fh.FileNodeListID
	} else if fh.FileNodeListID != list.ID {
		return format.ChunkRef{}, errors.Wrapf(format.ErrBadMagic, "fragment at 0x%x belongs to list 0x%x, want 0x%x", ref.Stp, fh.FileNodeListID, list.ID)
	}
	if fh.FragmentSequence != seq {
		p.log.WithFields(logrus.Fields{"list": list.ID, "offset": ref.Stp}).
			Warnf("fragment sequence %d, want %d", fh.FragmentSequence, seq)
	}
	list.Fragments = append(list.Fragments, Fragment{Ref: ref, Header: fh})

	nodesEnd := c.end - format.FragmentTrailerSize
	for c.pos+format.FragmentMinNodeRoom <= c.end {
		start := c.pos
		raw := c.u32()
		if c.err != nil {
			return format.ChunkRef{}, c.err
		}
		if raw == 0 {
			break
		}
		hdr, err := format.DecodeFileNodeHeader(raw)
		if err != nil {
			return format.ChunkRef{}, errors.Wrapf(err, "file node at 0x%x", start)
		}
		if hdr.ID == format.ChunkTerminatorFND {
			break
		}
		if !hdr.ID.Known() {
			return format.ChunkRef{}, errors.Wrapf(&format.UnrecognizedFileNodeIDError{ID: uint16(hdr.ID)}, "file node at 0x%x", start)
		}
		if hdr.Size < format.FileNodeHeaderSize || start+uint64(hdr.Size) > nodesEnd {
			return format.ChunkRef{}, errors.Wrapf(format.ErrTruncated, "%s at 0x%x: size %d overruns fragment", hdr.ID, start, hdr.Size)
		}
		node, err := p.parseNode(start, hdr, path.Child(len(list.Nodes)), depth)
		if err != nil {
			return format.ChunkRef{}, err
		}
		list.Nodes = append(list.Nodes, node)
		c.pos = start + uint64(hdr.Size)
	}

	c.pos = nodesEnd
	tb := c.bytes(format.FragmentTrailerSize)
	if c.err != nil {
		return format.ChunkRef{}, c.err
	}
	next, err := format.DecodeFragmentTrailer(tb)
	if err != nil {
		return format.ChunkRef{}, errors.Wrapf(err, "fragment at 0x%x", ref.Stp)
	}
	return next, nil
}

func (p *parser) parseNode(start uint64, hdr format.FileNodeHeader, path FileNodePtr, depth int) (*FileNode, error) {
	body := format.ChunkRef{Stp: start + format.FileNodeHeaderSize, Cb: uint64(hdr.Size) - format.FileNodeHeaderSize}
	c, err := newCursor(p.res, body)
	if err != nil {
		return nil, errors.Wrapf(err, "%s at 0x%x", hdr.ID, start)
	}
	node := &FileNode{Header: hdr, Offset: start, Ref: format.NilChunkRef}
	if hdr.BaseType != format.BaseTypeNoReference {
		node.Ref = c.fileNodeChunkRef(hdr.StpFormat, hdr.CbFormat)
		if c.err != nil {
			return nil, errors.Wrapf(c.err, "%s at 0x%x", hdr.ID, start)
		}
		if node.Ref.IsLive() {
			if _, err := checkChunk(p.size, node.Ref); err != nil {
				return nil, errors.Wrapf(err, "%s at 0x%x", hdr.ID, start)
			}
		}
	}
	payload, err := p.decodePayload(c, node, path)
	if err == nil {
		err = c.err
	}
	if err != nil {
		return nil, errors.Wrapf(err, "%s at 0x%x", hdr.ID, start)
	}
	node.Payload = payload
	if p.debug {
		p.log.WithFields(logrus.Fields{
			"fnd":    hdr.ID.String(),
			"id":     uint16(hdr.ID),
			"offset": start,
			"gosid":  node.GOSID.String(),
			"path":   path.String(),
		}).Debug("file node")
	}
	if hdr.BaseType == format.BaseTypeFileNodeListChild && node.Ref.IsLive() {
		child, err := p.parseChildList(node, path, depth)
		if err != nil {
			return nil, err
		}
		node.Child = child
	}
	return node, nil
}

// parseChildList descends into a node's child list with the object space
// or object group scope the node opens.
func (p *parser) parseChildList(node *FileNode, path FileNodePtr, depth int) (*FileNodeList, error) {
	switch pl := node.Payload.(type) {
	case *ObjectGroupListRef:
		saved := p.scope
		p.scope = idScope{owner: pl.ObjectGroup, table: saved.table}
		defer func() { p.scope = saved }()
	case *ObjectSpaceManifestListRef:
		savedSpace, savedRev, savedScope := p.objectSpace, p.revision, p.scope
		p.objectSpace = pl.ObjectSpace
		defer func() {
			p.objectSpace, p.revision, p.scope = savedSpace, savedRev, savedScope
		}()
	}
	return p.parseList(node.Ref, path, depth+1)
}
