// Package testutil holds helpers shared by package tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joshuapare/onestore/onestore"
)

// WriteTemp writes data to name inside a per-test temporary directory and
// returns the path.
func WriteTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}

// BuildDocument assembles a Document from an in-memory file image.
// Calls t.Fatal if assembly fails.
//
// Example:
//
//	doc := testutil.BuildDocument(t, onefile.Section{...}.Build())
func BuildDocument(t *testing.T, data []byte) *onestore.Document {
	t.Helper()
	doc, err := onestore.Build(onestore.BytesResource(data), onestore.BuildOptions{})
	if err != nil {
		t.Fatalf("Failed to build document: %v", err)
	}
	return doc
}

// OpenDocument writes data to a temporary file, maps it and assembles a
// Document from it. The mapping is released when the test ends.
func OpenDocument(t *testing.T, data []byte) *onestore.Document {
	t.Helper()
	f, err := onestore.OpenFile(WriteTemp(t, "test.one", data))
	if err != nil {
		t.Fatalf("Failed to open file: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	doc, err := onestore.Build(f, onestore.BuildOptions{})
	if err != nil {
		t.Fatalf("Failed to build document: %v", err)
	}
	return doc
}
