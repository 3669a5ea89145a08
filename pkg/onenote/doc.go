/*
Package onenote extracts text, metadata and embedded files from OneNote
section (.one) and table of contents (.onetoc2) files.

# Quick Start

Extract the text of a section as plain text:

	var text onenote.TextSink
	_, err := onenote.ParseFile("Notes.one", types.Sinks{Content: &text}, onenote.DefaultOptions())
	if err != nil {
	    log.Fatal(err)
	}
	fmt.Print(text.String())

# Features

  - Revision-aware extraction of the latest (or every) revision
  - Header, author and timestamp metadata
  - Embedded files with sniffed content types
  - Structural dump of the file node tree
  - Printable-string fallback for files the structured parser cannot read

# Sinks

Output goes to the sinks in types.Sinks. This package provides ready-made
implementations: TextSink and XHTMLSink for content, MapMetadata for
metadata and DirAttachments for embedded files. Any sink may be nil.

# Error Handling

Parse returns a single *types.Error wrapping the first failure:

	_, err := onenote.ParseFile(path, sinks, onenote.DefaultOptions())
	switch kind, _ := types.KindOf(err); {
	case err == nil:
	case kind == types.ErrKindResourceLimit:
	    // declared sizes larger than the file
	case kind == types.ErrKindFormat:
	    // not a OneNote file
	}
*/
package onenote
