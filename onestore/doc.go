// Package onestore assembles an MS-ONESTORE revision store file into a
// navigable Document.
//
// # Overview
//
// A OneStore file is a tree of file node lists. Each list is a chain of
// fragments; each fragment holds typed file nodes, some of which point at
// child lists. Build walks that tree once from the header's root reference
// and produces:
//
//   - the parsed FileNodeList tree, with one typed Payload per node
//   - the global id tables that map compact ids to extended GUIDs
//   - the revisions, their dependencies and their (role, context) pairs
//   - an object index from object id to the FileNodePtr of its declaration
//
// Nodes are addressed by FileNodePtr, an index path from the root list, and
// dereferenced against the Document on demand.
//
// # Quick Start
//
//	res, err := onestore.OpenFile("Section.one")
//	if err != nil {
//	    return err
//	}
//	defer res.Close()
//	doc, err := onestore.Build(res, onestore.BuildOptions{})
//	if err != nil {
//	    return err
//	}
//	for _, rl := range doc.RevisionListOrder {
//	    fmt.Println(rl)
//	}
//
// Property values of type FourBytesOfLengthFollowedByData are kept as chunk
// references and read later through Document.ReadChunk.
package onestore
