package walker

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/joshuapare/onestore/internal/format"
	"github.com/joshuapare/onestore/onestore"
	"github.com/joshuapare/onestore/pkg/types"
)

// Structure is one level of the structural result.
type Structure = map[string]any

// Walker walks an assembled document, writing text and embedded files to
// its sinks and building the structural result. A Walker is single use.
type Walker struct {
	doc   *onestore.Document
	opts  Options
	role  onestore.RoleContext
	sinks types.Sinks
	log   *logrus.Entry

	// ancestors holds the pointers of the nodes on the current walk path.
	ancestors map[string]struct{}
	// emitted holds the file data GUIDs already sent to the embedded sink.
	emitted map[format.GUID]struct{}

	summary              Summary
	mostRecentAuthorProp bool
	originalAuthorProp   bool
}

// New returns a walker over doc.
func New(doc *onestore.Document, opts Options, sinks types.Sinks) *Walker {
	return &Walker{
		doc:       doc,
		opts:      opts,
		role:      DefaultRoleAndContext,
		sinks:     sinks,
		log:       logrus.StandardLogger().WithField("component", "walker"),
		ancestors: make(map[string]struct{}),
		emitted:   make(map[format.GUID]struct{}),
		summary:   newSummary(),
	}
}

// WithLogger replaces the walker's logger.
func (w *Walker) WithLogger(l *logrus.Entry) *Walker {
	if l != nil {
		w.log = l
	}
	return w
}

// WithRole changes the (role, context) pair the revision-aware walk follows.
func (w *Walker) WithRole(rc onestore.RoleContext) *Walker {
	w.role = rc
	return w
}

// Walk walks the document and returns the structural result:
//
//	header         the file header fields
//	rootFileNodes  one entry per revision list, or the whole root list when
//	               crawling from the root
func (w *Walker) Walk() (Structure, error) {
	roots, err := w.walkRootFileNodes()
	if err != nil {
		return nil, err
	}
	return Structure{
		"header":        HeaderStructure(&w.doc.Header),
		"rootFileNodes": roots,
	}, nil
}

// Summary returns the authors and timestamps seen by Walk.
func (w *Walker) Summary() Summary { return w.summary.finish() }

func (w *Walker) walkRootFileNodes() ([]Structure, error) {
	if w.opts.CrawlAllFileNodesFromRoot {
		s, err := w.walkFileNodeList(w.doc.Root, nil)
		if err != nil {
			return nil, err
		}
		return []Structure{s}, nil
	}
	res := make([]Structure, 0, len(w.doc.RevisionListOrder))
	for _, gosid := range w.doc.RevisionListOrder {
		ptr, ok := w.doc.RevisionManifestLists[gosid]
		if !ok {
			continue
		}
		rev, err := w.walkRevision(ptr)
		if err != nil {
			return nil, errors.Wrapf(err, "revision list %s", gosid)
		}
		res = append(res, Structure{
			"oneNoteType":      "Revision",
			"revisionListGuid": gosid.String(),
			"fileNode":         rev,
		})
	}
	return res, nil
}

// walkRevision walks the revision manifest list referenced by the node at
// ptr, following only the root objects of revisions holding the target role.
func (w *Walker) walkRevision(ptr onestore.FileNodePtr) (Structure, error) {
	node, err := w.doc.Dereference(ptr)
	if err != nil {
		return nil, err
	}
	s := Structure{
		"oneNoteType": "FileNodePointer",
		"offsets":     []int(ptr),
		"fileNodeId":  hexID(uint64(node.ID())),
		"size":        node.Header.Size,
		"isFileData":  node.IsFileData(),
	}
	if !node.GOSID.IsNil() {
		s["gosid"] = node.GOSID.String()
	}
	if sub := describePayload(node.Payload); sub != nil {
		s["subType"] = sub
	}
	if node.Child == nil {
		return s, nil
	}

	nodes := node.Child.Nodes
	valid := make(map[format.ExtendedGUID]struct{})
	for i := len(nodes) - 1; i >= 0; i-- {
		if w.doc.HasRole(nodes[i].GOSID, w.role) {
			valid[nodes[i].GOSID] = struct{}{}
			if w.opts.OnlyLatestRevision {
				break
			}
		}
	}

	var children []Structure
	active := false
	for _, child := range nodes {
		if child.ID().IsRevisionManifestStart() {
			_, active = valid[child.GOSID]
			if w.log.Logger.IsLevelEnabled(logrus.DebugLevel) {
				w.log.WithFields(logrus.Fields{
					"rid":    child.GOSID.String(),
					"active": active,
				}).Debug("revision")
			}
		}
		if !active {
			continue
		}
		root, ok := child.Payload.(*onestore.RootObjectReference)
		if !ok || root.RootRole != 1 {
			continue
		}
		c, err := w.walkFileNodePtr(w.doc.Objects[child.GOSID])
		if err != nil {
			return nil, err
		}
		children = append(children, c)
	}
	if len(children) > 0 {
		s["revisionFileNodeList"] = Structure{
			"fileNodeListHeader": listHeader(node.Child),
			"children":           children,
		}
	}
	return s, nil
}

// walkFileNodePtr walks the node at ptr. A nil pointer yields an empty
// structure.
func (w *Walker) walkFileNodePtr(ptr onestore.FileNodePtr) (Structure, error) {
	if ptr == nil {
		return Structure{}, nil
	}
	node, err := w.doc.Dereference(ptr)
	if err != nil {
		return nil, err
	}
	return w.walkFileNode(node, ptr)
}

func (w *Walker) walkFileNodeList(list *onestore.FileNodeList, ptr onestore.FileNodePtr) (Structure, error) {
	s := Structure{
		"oneNoteType":        "FileNodeList",
		"fileNodeListHeader": listHeader(list),
	}
	if list == nil || len(list.Nodes) == 0 {
		return s, nil
	}
	children := make([]Structure, 0, len(list.Nodes))
	for i, n := range list.Nodes {
		c, err := w.walkFileNode(n, ptr.Child(i))
		if err != nil {
			return nil, err
		}
		children = append(children, c)
	}
	s["children"] = children
	return s, nil
}

func (w *Walker) walkFileNode(node *onestore.FileNode, ptr onestore.FileNodePtr) (Structure, error) {
	key := ptr.String()
	if _, seen := w.ancestors[key]; seen {
		return nil, errors.Wrapf(format.ErrCyclicReference, "file node %s (%s)", key, node.GOSID)
	}
	w.ancestors[key] = struct{}{}
	defer delete(w.ancestors, key)

	s := Structure{
		"oneNoteType":      "FileNode",
		"gosid":            node.GOSID.String(),
		"size":             node.Header.Size,
		"fileNodeId":       hexID(uint64(node.ID())),
		"fileNodeIdName":   node.ID().String(),
		"fileNodeBaseType": hexID(uint64(node.Header.BaseType)),
		"isFileData":       node.IsFileData(),
		"idDesc":           node.Payload.Identity(),
	}
	if sub := describePayload(node.Payload); sub != nil {
		s["subType"] = sub
	}
	if node.Child != nil {
		c, err := w.walkFileNodeList(node.Child, ptr)
		if err != nil {
			return nil, err
		}
		s["childFileNodeList"] = c
	}
	if props := node.PropertySet(); props.Len() > 0 {
		values, err := w.processPropertySet(props)
		if err != nil {
			return nil, errors.Wrapf(err, "object %s", node.GOSID)
		}
		s["propertySet"] = values
	}

	ref, err := w.fileDataReference(node)
	if err != nil {
		return nil, err
	}
	if ref != nil {
		s["fileDataStoreObjectReference"] = ref
	}
	return s, nil
}

func listHeader(list *onestore.FileNodeList) Structure {
	if list == nil {
		return Structure{}
	}
	h := Structure{
		"fileNodeListId": hexID(uint64(list.ID)),
		"fragments":      len(list.Fragments),
	}
	if len(list.Fragments) > 0 {
		h["position"] = list.Fragments[0].Ref.Stp
		h["nFragmentSequence"] = list.Fragments[0].Header.FragmentSequence
	}
	return h
}

func hexID(v uint64) string { return fmt.Sprintf("0x%x", v) }
