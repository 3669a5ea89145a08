package walker

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/joshuapare/onestore/internal/format"
	"github.com/joshuapare/onestore/onestore"
	"github.com/joshuapare/onestore/pkg/types"
)

// fileDataReference reads the file data a node carries, either directly
// (FileDataStoreObjectReference) or through an <ifndf>{GUID} reference of a
// file data declaration. It returns nil for nodes without file data.
func (w *Walker) fileDataReference(node *onestore.FileNode) (Structure, error) {
	var (
		id  format.GUID
		ref format.ChunkRef
		ext string
	)
	switch p := node.Payload.(type) {
	case *onestore.FileDataStoreObject:
		if p.Data.IsNil() {
			return nil, nil
		}
		id, ref = p.GUIDReference, p.Data
	case *onestore.FileDataDeclaration:
		if !p.HasFileData {
			return nil, nil
		}
		entry, ok := w.doc.FileData[p.FileData]
		if !ok {
			w.log.WithField("guid", p.FileData.String()).Warn("file data reference has no store object")
			return nil, nil
		}
		id, ref, ext = p.FileData, entry.Data, p.Extension
	default:
		return nil, nil
	}

	data, err := w.doc.ReadChunk(ref)
	if err != nil {
		return nil, errors.Wrapf(err, "file data %s", id)
	}
	if ext == "" {
		ext = w.doc.FileDataExtensions[id]
	}
	if err := w.embed(id, ext, data); err != nil {
		return nil, err
	}
	return Structure{
		"fileDataStoreObjectMetadata": Structure{
			"guidReference": id.String(),
			"fileData":      ref.String(),
			"cb":            ref.Cb,
			"extension":     ext,
		},
		"dataBase64": base64.StdEncoding.EncodeToString(data),
	}, nil
}

// embed forwards data to the embedded sink once per GUID and marks its
// position in the content.
func (w *Walker) embed(id format.GUID, ext string, data []byte) error {
	if _, done := w.emitted[id]; done {
		return nil
	}
	w.emitted[id] = struct{}{}

	name := EmbeddedName(id, ext)
	contentType := http.DetectContentType(data)
	w.log.WithFields(logrus.Fields{
		"name":        name,
		"contentType": contentType,
		"size":        len(data),
	}).Debug("embedded file")

	if h := w.sinks.Embedded; h != nil {
		if err := h.Embedded(name, contentType, data); err != nil {
			return errors.Wrapf(err, "embedded %s", name)
		}
	}
	if h := w.sinks.Content; h != nil {
		if err := h.StartElement("div", types.Attr{Name: "class", Value: "embedded"}); err != nil {
			return err
		}
		return h.EndElement("div")
	}
	return nil
}

// EmbeddedName synthesizes an attachment name from a file data GUID and an
// optional extension.
func EmbeddedName(id format.GUID, ext string) string {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return id.String() + ext
}
