package onestore

import (
	"io"

	"github.com/pkg/errors"

	"github.com/joshuapare/onestore/internal/mmfile"
)

// Resource is the random-access byte source a Document is built from.
type Resource interface {
	io.ReaderAt
	// Size returns the total number of bytes in the resource.
	Size() int64
}

// MappedFile is a Resource backed by a memory-mapped (or fully read) file.
type MappedFile struct {
	path    string
	data    []byte
	release func() error
}

// OpenFile maps the file at path for reading.
func OpenFile(path string) (*MappedFile, error) {
	data, release, err := mmfile.Map(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	return &MappedFile{path: path, data: data, release: release}, nil
}

// ReadAt implements io.ReaderAt.
func (f *MappedFile) ReadAt(p []byte, off int64) (int, error) {
	return readAt(f.data, p, off)
}

// Size returns the file length.
func (f *MappedFile) Size() int64 { return int64(len(f.data)) }

// Path returns the path the file was opened from.
func (f *MappedFile) Path() string { return f.path }

// Close releases the mapping. The MappedFile must not be used afterwards.
func (f *MappedFile) Close() error {
	if f.release == nil {
		return nil
	}
	err := f.release()
	f.release = nil
	f.data = nil
	return err
}

// BytesResource is a Resource over an in-memory buffer.
type BytesResource []byte

// ReadAt implements io.ReaderAt.
func (b BytesResource) ReadAt(p []byte, off int64) (int, error) {
	return readAt(b, p, off)
}

// Size returns len(b).
func (b BytesResource) Size() int64 { return int64(len(b)) }

func readAt(data, p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, errors.New("negative offset")
	}
	if off >= int64(len(data)) {
		return 0, io.EOF
	}
	n := copy(p, data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}
