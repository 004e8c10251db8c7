// Package build is a helper package for building SSA IR in the parent
// directory.
//
// # Usage
//
// There are three ways of building SSA IR from source code:
//
// # Build from a list of source files
//
// This is the normal usage, where a number of files are supplied (usually as
// command line arguments), and the builder tool considers all of the files part
// of the same package (i.e. in the same directory). Imports are type checked
// from source.
//
// # Build from package patterns
//
// The patterns (e.g. ./...) are resolved with golang.org/x/tools/go/packages,
// and every matched package is analysed; dependencies are built as needed.
//
// # Build from a Reader
//
// This is mostly used for testing or demo, where the input source code is read
// from a given io.Reader and built as a single file package.
package build
