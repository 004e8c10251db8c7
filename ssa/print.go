package ssa

import (
	"io"
)

// WriteTo writes Functions of the packages under analysis to w in human
// readable SSA IR instruction format.
func (info *Info) WriteTo(w io.Writer) (int64, error) {
	var n int64
	for _, pkg := range info.Packages() {
		for _, f := range info.Functions(pkg) {
			written, err := f.WriteTo(w)
			if err != nil {
				return n, err
			}
			n += written
		}
	}
	return n, nil
}

// WriteFunc writes the Function identified by path to w in human readable SSA
// IR instruction format.
func (info *Info) WriteFunc(w io.Writer, path string) (int64, error) {
	fn, err := info.FindFunc(path)
	if err != nil {
		return 0, err
	}
	return fn.WriteTo(w)
}
