package build

import (
	"bytes"
	"io"
	"io/ioutil"
	"log"
	"os"

	"github.com/nickng/loopperf/ssa"
	"github.com/pkg/errors"
)

// Builder builds SSA IR and metainfo.
type Builder interface {
	Build() (*ssa.Info, error)
}

// FileSrc is a set of filenames.
type FileSrc struct {
	Files []string
}

// FromFiles returns a non-nil Builder from a slice of filenames.
func FromFiles(files []string) Configurer {
	return newConfig(&FileSrc{Files: files})
}

// Sources reads all the files.
func (s *FileSrc) Sources() ([]source, error) {
	var srcs []source
	for _, file := range s.Files {
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read from file: %s", file)
		}
		srcs = append(srcs, source{name: file, content: b})
	}
	return srcs, nil
}

// CachedSrc is source file from a reader.
type CachedSrc struct {
	cached []byte
}

// FromReader returns a non-nil Builder for a reader.
// This is typically used for testing or building a temporary file.
func FromReader(r io.Reader) Configurer {
	b, err := ioutil.ReadAll(r)
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to read from reader"))
	}
	return newConfig(&CachedSrc{cached: b})
}

// Sources returns the cached content as a single file named tmp.go.
func (s *CachedSrc) Sources() ([]source, error) {
	return []source{{name: "tmp.go", content: bytes.Clone(s.cached)}}, nil
}

// PkgSrc is a set of package patterns resolved by go/packages.
type PkgSrc struct {
	Patterns []string
	Dir      string
}

// FromPackages returns a non-nil Builder for package patterns, e.g. ./...
func FromPackages(patterns ...string) Configurer {
	return newConfig(&PkgSrc{Patterns: patterns})
}

// source is the name and content of a single Go file.
type source struct {
	name    string
	content []byte
}
