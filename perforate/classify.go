package perforate

import (
	"strings"

	"github.com/nickng/loopperf/loop"
	"github.com/pkg/errors"
	"golang.org/x/tools/go/ssa"
)

var (
	ErrExcluded      = errors.New("function is excluded from perforation")
	ErrNotSimplified = loop.ErrNotSimplified
)

// Verdict is the result of classifying a loop.
type Verdict struct {
	Eligible bool
	Reason   error // Why the loop is not eligible, nil if Eligible.

	IndVar    *ssa.Phi   // Canonical induction variable.
	Increment *ssa.BinOp // Update of IndVar.
	Step      ssa.Value  // Operand of Increment to replace.

	inc *loop.Increment
}

// Classify decides whether l may be perforated. The checks are in order:
//
//  1. the enclosing function name does not contain marker,
//  2. l is in simplified form,
//  3. l has a single canonical induction variable,
//  4. the induction variable is updated by an arithmetic BinOp with a step.
//
// An empty marker excludes nothing.
func Classify(l *loop.Loop, marker string) Verdict {
	if Excluded(l.Function(), marker) {
		return Verdict{Reason: ErrExcluded}
	}
	if !l.IsSimplified() {
		return Verdict{Reason: ErrNotSimplified}
	}
	iv, err := loop.FindIndVar(l)
	if err != nil {
		return Verdict{Reason: err}
	}
	inc, err := iv.Increment()
	if err != nil {
		return Verdict{Reason: err, IndVar: iv.Phi}
	}
	return Verdict{
		Eligible:  true,
		IndVar:    iv.Phi,
		Increment: inc.Op,
		Step:      inc.Step,
		inc:       inc,
	}
}

// Excluded returns true if the name of fn contains marker.
func Excluded(fn *ssa.Function, marker string) bool {
	return marker != "" && strings.Contains(fn.Name(), marker)
}
