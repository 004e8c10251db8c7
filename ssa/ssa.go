// Package ssa is a library to build and work with SSA.
// For most part the package contains helper or wrapper functions to use the
// packages in Go project's extra tools.
//
// In particular, the SSA IR is from golang.org/x/tools/go/ssa. A package of
// the program plays the role of a module for loop perforation, and its
// functions are visited in a deterministic order so that two independent runs
// over the same source see the same IR.
package ssa

import (
	"go/token"
	"go/types"
	"io"

	"github.com/pkg/errors"
	"golang.org/x/tools/go/ssa"
)

var (
	ErrNoPackages   = errors.New("no packages to analyse")
	ErrFuncNotFound = errors.New("function not found")
)

// Info holds the results of a SSA build for analysis.
// To populate this structure, the 'build' subpackage should be used.
type Info struct {
	FSet *token.FileSet // FileSet for parsed source files.
	Prog *ssa.Program   // SSA IR for whole program.
	Pkgs []*ssa.Package // Packages under analysis (excluding dependencies).

	Sizes types.Sizes // Sizes of the target architecture.

	BldLog io.Writer // Build log.
}
