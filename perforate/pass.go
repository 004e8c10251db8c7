package perforate

import (
	"go/types"

	"github.com/nickng/loopperf/fn"
	"github.com/nickng/loopperf/loop"
	"github.com/nickng/loopperf/ssa"
)

// Analyser is visited for every function and every loop of a program.
type Analyser interface {
	fn.Analyser
	loop.Analyser
}

// SizesSetter is an Analyser which depends on the type sizes of the target.
type SizesSetter interface {
	SetSizes(types.Sizes)
}

// Run visits every package of info, every function of each package, and every
// loop of each function in the order preferred by a. Functions are visited in
// source order. Returns the number of loops modified.
func Run(info *ssa.Info, a Analyser) int {
	if s, ok := a.(SizesSetter); ok && info.Sizes != nil {
		s.SetSizes(info.Sizes)
	}
	modified := 0
	for _, pkg := range info.Packages() {
		for _, f := range info.Functions(pkg) {
			a.EnterFunc(f)
			forest := loop.NewForest(f)
			forest.Walk(a.Order(), func(l *loop.Loop) {
				if a.VisitLoop(l) {
					modified++
				}
			})
			a.ExitFunc(f)
		}
	}
	return modified
}
