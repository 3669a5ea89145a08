package walker

import (
	"encoding/base64"
	"regexp"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/joshuapare/onestore/internal/format"
	"github.com/joshuapare/onestore/onestore"
	"github.com/joshuapare/onestore/pkg/types"
)

// hyperlinkPattern matches the field code OneNote stores in front of link
// text: U+FDDF HYPERLINK "url"text.
var hyperlinkPattern = regexp.MustCompile(`\x{FDDF}HYPERLINK\s+"([^"]+)"([^"]+)$`)

func (w *Walker) processPropertySet(set *onestore.PropertySet) ([]Structure, error) {
	values := make([]Structure, 0, set.Len())
	for _, v := range set.Values {
		s, err := w.processPropertyValue(v)
		if err != nil {
			return nil, errors.Wrapf(err, "property %s", v.ID.Kind())
		}
		values = append(values, s)
	}
	return values, nil
}

func (w *Walker) processPropertyValue(v onestore.PropertyValue) (Structure, error) {
	kind := v.ID.Kind()
	s := Structure{
		"oneNoteType": "PropertyValue",
		"propertyId":  v.ID.String(),
	}
	if w.log.Logger.IsLevelEnabled(logrus.TraceLevel) {
		w.log.WithFields(logrus.Fields{
			"kind": kind.String(),
			"type": v.ID.Type.String(),
		}).Trace("property")
	}

	switch {
	case kind == format.AuthorMostRecent:
		w.mostRecentAuthorProp = true
	case kind == format.AuthorOriginal:
		w.originalAuthorProp = true
	case v.ID.Type.IsScalar():
		s["scalar"] = v.Scalar
		w.summary.observe(kind, v.Scalar)
	case v.ID.Type == format.PropFourBytesOfLengthFollowedByData:
		if err := w.processData(kind, v.Data, s); err != nil {
			return nil, err
		}
	}

	if len(v.Refs) > 0 {
		var children []Structure
		for _, ref := range v.Refs {
			if !ref.Resolved {
				continue
			}
			ptr, ok := w.doc.Objects[ref.OID]
			if !ok {
				continue
			}
			c, err := w.walkFileNodePtr(ptr)
			if err != nil {
				return nil, err
			}
			children = append(children, c)
		}
		if len(children) > 0 {
			s["children"] = children
		}
	}
	if v.Set.Len() > 0 {
		set, err := w.processPropertySet(v.Set)
		if err != nil {
			return nil, err
		}
		s["propertySet"] = set
	}
	return s, nil
}

// processData decodes an out-of-line property value. Text is kept in s and
// forwarded to the content sink when kind is in the print set; binary values
// are kept base64 encoded.
func (w *Walker) processData(kind format.PropertyKind, ref format.ChunkRef, s Structure) error {
	data, err := w.doc.ReadChunk(ref)
	if err != nil {
		return err
	}
	binary := kind.IsBinary()
	s["isBinary"] = binary

	switch {
	case kind == format.Author:
		text, err := format.DecodeUTF16(data)
		if err != nil {
			return err
		}
		s[w.recordAuthor(text)] = text
		return w.printText(kind, text)
	case kind == format.TextExtendedASCII:
		text, err := format.DecodeExtendedASCII(data)
		if err != nil {
			return err
		}
		s["dataAscii"] = text
		return w.printText(kind, text)
	case !binary:
		text, err := format.DecodeUTF16(data)
		if err != nil {
			return err
		}
		s["dataUnicode16LE"] = text
		return w.printText(kind, text)
	case kind == format.RichEditTextUnicode:
		s["rtfBase64"] = base64.StdEncoding.EncodeToString(data)
		return w.richEditText(data)
	default:
		s["dataB64"] = base64.StdEncoding.EncodeToString(data)
		return nil
	}
}

// recordAuthor classifies an author name by the marker property that
// preceded it and returns the structure key it is stored under.
func (w *Walker) recordAuthor(name string) string {
	defer func() {
		w.mostRecentAuthorProp = false
		w.originalAuthorProp = false
	}()
	switch {
	case w.mostRecentAuthorProp:
		w.summary.MostRecentAuthors = append(w.summary.MostRecentAuthors, name)
		return "MostRecentAuthor"
	case w.originalAuthorProp:
		w.summary.OriginalAuthors = append(w.summary.OriginalAuthors, name)
		return "OriginalAuthor"
	default:
		w.summary.Authors = append(w.summary.Authors, name)
		return "Author"
	}
}

func (w *Walker) printText(kind format.PropertyKind, text string) error {
	if !w.opts.prints(kind) {
		return nil
	}
	return w.element("p", text)
}

// richEditText writes the NUL-terminated text of a rich edit run; a run that
// holds a hyperlink field becomes a link.
func (w *Walker) richEditText(data []byte) error {
	text, err := format.DecodeUTF16Z(data)
	if err != nil {
		return err
	}
	if text == "" {
		return nil
	}
	if m := hyperlinkPattern.FindStringSubmatch(text); m != nil {
		return w.element("a", m[2], types.Attr{Name: "href", Value: m[1]})
	}
	return w.element("p", text)
}

// element writes one element holding text, followed by a newline.
func (w *Walker) element(name, text string, attrs ...types.Attr) error {
	h := w.sinks.Content
	if h == nil {
		return nil
	}
	if err := h.StartElement(name, attrs...); err != nil {
		return err
	}
	if err := h.Characters(text); err != nil {
		return err
	}
	if err := h.EndElement(name); err != nil {
		return err
	}
	return h.Newline()
}
