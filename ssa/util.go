package ssa

import (
	"go/types"
	"sort"

	"golang.org/x/tools/go/ssa"
)

// ModuleName returns the module key of fn, i.e. the import path of the
// package fn belongs to.
func ModuleName(fn *ssa.Function) string {
	if fn.Pkg == nil {
		return ""
	}
	return fn.Pkg.Pkg.Path()
}

// FuncName returns the function key of fn, the name of fn relative to its own
// package, e.g. sum_to_n, (*T).Scan or main$1.
func FuncName(fn *ssa.Function) string {
	if fn.Pkg == nil {
		return fn.String()
	}
	return fn.RelString(fn.Pkg.Pkg)
}

// Packages returns the packages under analysis sorted by import path.
func (info *Info) Packages() []*ssa.Package {
	pkgs := make([]*ssa.Package, 0, len(info.Pkgs))
	for _, pkg := range info.Pkgs {
		if pkg != nil {
			pkgs = append(pkgs, pkg)
		}
	}
	sort.Slice(pkgs, func(i, j int) bool { return pkgs[i].Pkg.Path() < pkgs[j].Pkg.Path() })
	return pkgs
}

// Functions returns the functions with a body defined in pkg, including
// methods, user init functions and function literals, sorted by position then
// by name.
func (info *Info) Functions(pkg *ssa.Package) []*ssa.Function {
	seen := make(map[*ssa.Function]bool)
	var fns []*ssa.Function
	var visit func(fn *ssa.Function)
	visit = func(fn *ssa.Function) {
		if fn == nil || seen[fn] || fn.Pkg != pkg {
			return
		}
		seen[fn] = true
		if fn.Blocks != nil && fn.Synthetic == "" {
			fns = append(fns, fn)
		}
		for _, anon := range fn.AnonFuncs {
			visit(anon)
		}
	}

	for _, mem := range pkg.Members {
		switch mem := mem.(type) {
		case *ssa.Function:
			visit(mem)
		case *ssa.Type:
			if named, ok := mem.Type().(*types.Named); ok {
				for i := 0; i < named.NumMethods(); i++ {
					visit(info.Prog.FuncValue(named.Method(i)))
				}
			}
		}
	}
	// User init functions (init#1, ...) are only reachable from the package
	// initializer.
	if init := pkg.Func("init"); init != nil {
		var rands []*ssa.Value
		for _, b := range init.Blocks {
			for _, instr := range b.Instrs {
				for _, op := range instr.Operands(rands[:0]) {
					if fn, ok := (*op).(*ssa.Function); ok {
						visit(fn)
					}
				}
			}
		}
	}
	sort.Sort(funcs(fns))
	return fns
}

// funcs is a slice of ssa.Function. Used only for sorting by Pos.
type funcs []*ssa.Function

func (f funcs) Len() int { return len(f) }
func (f funcs) Less(i, j int) bool {
	if f[i].Pos() != f[j].Pos() {
		return f[i].Pos() < f[j].Pos()
	}
	return f[i].String() < f[j].String()
}
func (f funcs) Swap(i, j int) { f[i], f[j] = f[j], f[i] }
