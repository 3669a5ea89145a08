package main

import (
	"bytes"
	"os"
	"testing"

	"github.com/joshuapare/onestore/internal/format"
	"github.com/joshuapare/onestore/internal/testutil"
	"github.com/joshuapare/onestore/internal/testutil/onefile"
)

var embeddedStore = format.MustGUID("{6E0F2A4B-8C1D-4E3F-A5B7-9D2C4E6F8A01}")

// writeSection writes a one-page section titled title and returns its path.
func writeSection(t *testing.T, name, title string) string {
	t.Helper()
	page := onefile.ExtendedGUID(0x10, 1)
	para := onefile.ExtendedGUID(0x11, 2)
	image := onefile.ExtendedGUID(0x12, 3)
	s := onefile.Section{
		Spaces: []onefile.ObjectSpace{{
			GOSID: onefile.ExtendedGUID(0x01, 1),
			Revisions: []onefile.Revision{{
				RID:  onefile.ExtendedGUID(0x02, 1),
				Role: 1,
				Root: page,
				Objects: []onefile.Object{
					{OID: page, JCID: onefile.JCIDPageNode, Props: []onefile.Prop{
						onefile.Text(format.CachedTitleString, title),
						onefile.Text(format.Author, "Alex"),
						onefile.Refs(format.ElementChildNodes, para, image),
					}},
					{OID: para, JCID: onefile.JCIDRichTextOENode, Props: []onefile.Prop{
						onefile.Text(format.RichEditTextUnicode, "body of "+title+"\x00"),
					}},
				},
				FileData: []onefile.FileDataObject{{OID: image, Store: embeddedStore, Extension: "txt"}},
			}},
		}},
		FileStore: []onefile.StoreEntry{{GUID: embeddedStore, Data: []byte("attached notes\n")}},
	}
	return testutil.WriteTemp(t, name, s.Build())
}

// resetFlags restores every flag variable to its default.
func resetFlags() {
	configPath = ""
	crawlAll = false
	allRevisions = false
	printProperty = nil
	verbose = false
	trace = false
	quiet = false
	textXHTML = false
	textHeaders = false
	dumpFormat = "json"
	dumpDepth = 0
	dumpMaxValueLength = 64
	infoJSON = false
	attachmentsDir = "."
	stringsMinLength = 8
	stringsMinRatio = 0.6
	stringsOffsets = true
}

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	done := make(chan []byte)
	go func() {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(r)
		done <- buf.Bytes()
	}()

	fnErr := fn()

	w.Close()
	os.Stdout = origStdout
	return string(<-done), fnErr
}
