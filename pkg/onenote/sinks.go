package onenote

import (
	"html"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/joshuapare/onestore/pkg/types"
)

// TextSink collects plain text. Elements are dropped; each run is followed
// by the newline the walker writes.
type TextSink struct {
	b strings.Builder
}

func (s *TextSink) StartElement(string, ...types.Attr) error { return nil }
func (s *TextSink) EndElement(string) error                  { return nil }

func (s *TextSink) Characters(text string) error {
	s.b.WriteString(text)
	return nil
}

func (s *TextSink) Newline() error {
	s.b.WriteByte('\n')
	return nil
}

func (s *TextSink) EndDocument() error { return nil }

// String returns the collected text.
func (s *TextSink) String() string { return s.b.String() }

// XHTMLSink writes escaped XHTML elements to a writer.
type XHTMLSink struct {
	w io.Writer
}

// NewXHTMLSink returns a sink that writes to w.
func NewXHTMLSink(w io.Writer) *XHTMLSink { return &XHTMLSink{w: w} }

func (s *XHTMLSink) StartElement(name string, attrs ...types.Attr) error {
	var b strings.Builder
	b.WriteString("<" + name)
	for _, a := range attrs {
		b.WriteString(" " + a.Name + `="` + html.EscapeString(a.Value) + `"`)
	}
	b.WriteString(">")
	_, err := io.WriteString(s.w, b.String())
	return err
}

func (s *XHTMLSink) Characters(text string) error {
	_, err := io.WriteString(s.w, html.EscapeString(text))
	return err
}

func (s *XHTMLSink) EndElement(name string) error {
	_, err := io.WriteString(s.w, "</"+name+">")
	return err
}

func (s *XHTMLSink) Newline() error {
	_, err := io.WriteString(s.w, "\n")
	return err
}

// EndDocument writes nothing; the sink emits a body fragment, not a page.
func (s *XHTMLSink) EndDocument() error { return nil }

// MapMetadata is a Metadata backed by a map. It is not safe for concurrent
// use; give each parse its own.
type MapMetadata map[string][]string

// Set replaces key with value.
func (m MapMetadata) Set(key, value string) { m[key] = []string{value} }

// Add appends value to key.
func (m MapMetadata) Add(key, value string) { m[key] = append(m[key], value) }

// Get returns the first value of key.
func (m MapMetadata) Get(key string) string {
	if v := m[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}

// Keys returns the keys in sorted order.
func (m MapMetadata) Keys() []string {
	keys := lo.Keys(m)
	slices.Sort(keys)
	return keys
}

// DirAttachments writes each embedded file into Dir under its synthesized
// name.
type DirAttachments struct {
	Dir string

	mu      sync.Mutex
	written []Attachment
}

// Attachment records one file written by DirAttachments.
type Attachment struct {
	Path        string
	ContentType string
	Size        int
}

// Embedded implements types.EmbeddedHandler.
func (d *DirAttachments) Embedded(name, contentType string, data []byte) error {
	name = filepath.Base(filepath.Clean("/" + name))
	if name == "/" || name == "." {
		return errors.Errorf("invalid attachment name %q", name)
	}
	path := filepath.Join(d.Dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "write attachment %s", path)
	}
	d.mu.Lock()
	d.written = append(d.written, Attachment{Path: path, ContentType: contentType, Size: len(data)})
	d.mu.Unlock()
	return nil
}

// Written returns the files written so far, in order.
func (d *DirAttachments) Written() []Attachment {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.written)
}
