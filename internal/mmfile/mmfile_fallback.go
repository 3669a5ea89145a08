//go:build !unix

package mmfile

import (
	"os"

	"github.com/pkg/errors"
)

func noRelease() error { return nil }

// Map reads the whole file; there is no mapping to release.
func Map(path string) ([]byte, func() error, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "mmfile: read %s", path)
	}
	return data, noRelease, nil
}
