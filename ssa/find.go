package ssa

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/tools/go/ssa"
)

// FindFunc parses path (e.g. "github.com/nickng/loopperf/ssa".FuncName) and
// returns Function body in SSA IR.
func (info *Info) FindFunc(path string) (*ssa.Function, error) {
	pkgPath, fnName := parseFuncPath(path)
	for _, pkg := range info.Packages() {
		if pkgPath != "" && pkg.Pkg.Path() != pkgPath {
			continue
		}
		for _, f := range info.Functions(pkg) {
			if FuncName(f) == fnName {
				return f, nil
			}
		}
	}
	return nil, errors.Wrapf(ErrFuncNotFound, "%s", path)
}

// parseFuncPath splits path to package and function segments.
// Function segments may be relative names with receivers, e.g. (*T).M.
func parseFuncPath(path string) (pkgPath, fnName string) {
	if len(path) < 1 {
		return "", ""
	}
	switch path[0] {
	case '"':
		regex := regexp.MustCompile(`"(?P<pkg>[^"]+)"\.(?P<fn>.+)`)
		submatches := regex.FindStringSubmatch(path)
		if len(submatches) >= 3 {
			return submatches[1], submatches[2]
		}
	case '(':
		return "", path
	default:
		if i := strings.LastIndex(path, "."); i > 0 && !strings.ContainsAny(path[:i], "()") {
			return path[:i], path[i+1:]
		}
	}
	return "", path
}
