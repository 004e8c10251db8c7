package loop

import (
	"go/constant"
	"go/token"
	"go/types"

	"github.com/pkg/errors"
	"golang.org/x/tools/go/ssa"
)

var (
	ErrNotSimplified              = errors.New("loop is not in simplified form")
	ErrNoInductionVariable        = errors.New("no canonical induction variable")
	ErrAmbiguousInductionVariable = errors.New("more than one induction variable")
	ErrNoIncrement                = errors.New("induction variable update not found")
	ErrIncrementNotBinOp          = errors.New("induction variable update is not a binary arithmetic operation")
	ErrNoStepOperand              = errors.New("increment has no step operand")
	ErrNotUnitStep                = errors.New("increment is not an addition or subtraction of constant 1")
)

// IndVar is the canonical induction variable of a loop.
//
// The Phi is in the loop header, with its initial value coming from the
// preheader and its next value computed inside the loop from the Phi itself
// and loop invariant values. The Phi (or its next value) is used by the exit
// condition of the loop.
type IndVar struct {
	Phi  *ssa.Phi
	Init ssa.Value // Value from the preheader.
	Next ssa.Value // Value from the latch.

	loop *Loop
}

// Increment is the operation computing the next value of an IndVar.
type Increment struct {
	Op   *ssa.BinOp
	Step ssa.Value // Operand of Op which is not the induction variable.
}

// FindIndVar returns the canonical induction variable of l.
// The loop must be in simplified form.
func FindIndVar(l *Loop) (*IndVar, error) {
	pre, latch := l.Preheader(), l.Latch()
	if pre == nil || latch == nil {
		return nil, ErrNotSimplified
	}
	preIdx, latchIdx := -1, -1
	for i, pred := range l.header.Preds {
		switch pred {
		case pre:
			preIdx = i
		case latch:
			latchIdx = i
		}
	}
	if preIdx < 0 || latchIdx < 0 || len(l.header.Preds) != 2 {
		return nil, ErrNotSimplified
	}

	var candidates []*IndVar
	for _, instr := range l.header.Instrs {
		phi, ok := instr.(*ssa.Phi)
		if !ok {
			break // Phis are always at the start of a block.
		}
		if !isInteger(phi.Type()) {
			continue
		}
		iv := &IndVar{Phi: phi, Init: phi.Edges[preIdx], Next: phi.Edges[latchIdx], loop: l}
		if !l.IsInvariant(iv.Init) || !iv.isCounter() || !iv.controlsExit() {
			continue
		}
		candidates = append(candidates, iv)
	}

	switch len(candidates) {
	case 0:
		return nil, ErrNoInductionVariable
	case 1:
		return candidates[0], nil
	}
	return nil, errors.Wrapf(ErrAmbiguousInductionVariable, "%d candidates", len(candidates))
}

// IsInvariant returns true if v is not computed inside the loop.
func (l *Loop) IsInvariant(v ssa.Value) bool {
	if instr, ok := v.(ssa.Instruction); ok {
		return !l.Contains(instr.Block())
	}
	return true
}

// isCounter returns true if Next is computed inside the loop from the Phi and
// loop invariant values only.
func (iv *IndVar) isCounter() bool {
	next, ok := iv.Next.(ssa.Instruction)
	if !ok || !iv.loop.Contains(next.Block()) {
		return false
	}
	usesPhi := false
	for _, op := range next.Operands(nil) {
		switch {
		case *op == iv.Phi:
			usesPhi = true
		case !iv.loop.IsInvariant(*op):
			return false
		}
	}
	return usesPhi
}

// controlsExit returns true if the condition of an exiting block uses the Phi
// or its next value.
func (iv *IndVar) controlsExit() bool {
	for _, b := range iv.loop.ExitingBlocks() {
		if len(b.Instrs) == 0 {
			continue
		}
		if ifelse, ok := b.Instrs[len(b.Instrs)-1].(*ssa.If); ok {
			if usesValue(ifelse.Cond, iv.Phi) || usesValue(ifelse.Cond, iv.Next) {
				return true
			}
		}
	}
	return false
}

// Increment locates the operation updating the induction variable.
//
// The update is the value flowing into the Phi from the latch, which must also
// be a referrer of the Phi. It must be a BinOp adding or subtracting the
// constant 1 or -1 to the Phi (the Phi is the left operand of a subtraction),
// and the constant is the step.
func (iv *IndVar) Increment() (*Increment, error) {
	if !isReferrer(iv.Phi, iv.Next) {
		return nil, ErrNoIncrement
	}
	binop, ok := iv.Next.(*ssa.BinOp)
	if !ok {
		return nil, ErrIncrementNotBinOp
	}
	var step ssa.Value
	switch {
	case binop.Op != token.ADD && binop.Op != token.SUB:
		return nil, errors.Wrapf(ErrNotUnitStep, "operator %s", binop.Op)
	case binop.X == iv.Phi && binop.Y != iv.Phi:
		step = binop.Y
	case binop.Y == iv.Phi && binop.X != iv.Phi && binop.Op == token.ADD:
		step = binop.X
	default:
		return nil, ErrNoStepOperand
	}
	if !isUnit(step) {
		return nil, errors.Wrapf(ErrNotUnitStep, "step %s", step.Name())
	}
	return &Increment{Op: binop, Step: step}, nil
}

// ReplaceStep replaces the step operand of the increment with v in place.
// Referrers of the old step no longer include the increment.
func (inc *Increment) ReplaceStep(v ssa.Value) {
	old := inc.Step
	switch old {
	case inc.Op.X:
		inc.Op.X = v
	case inc.Op.Y:
		inc.Op.Y = v
	default:
		return
	}
	inc.Step = v
	if refs := old.Referrers(); refs != nil {
		for i, instr := range *refs {
			if instr == inc.Op {
				*refs = append((*refs)[:i], (*refs)[i+1:]...)
				break
			}
		}
	}
	if refs := v.Referrers(); refs != nil {
		*refs = append(*refs, inc.Op)
	}
}

// isUnit returns true if v is the integer constant 1 or -1.
func isUnit(v ssa.Value) bool {
	c, ok := v.(*ssa.Const)
	if !ok || c.Value == nil || c.Value.Kind() != constant.Int {
		return false
	}
	i, exact := constant.Int64Val(c.Value)
	return exact && (i == 1 || i == -1)
}

func isInteger(t types.Type) bool {
	basic, ok := t.Underlying().(*types.Basic)
	return ok && basic.Info()&types.IsInteger != 0
}

// isReferrer returns true if user is an instruction referring to v.
func isReferrer(v ssa.Value, user ssa.Value) bool {
	refs := v.Referrers()
	if refs == nil {
		return false
	}
	for _, ref := range *refs {
		if val, ok := ref.(ssa.Value); ok && val == user {
			return true
		}
	}
	return false
}

// usesValue checks if the cond expression involves v.
func usesValue(cond, v ssa.Value) bool {
	switch cond := cond.(type) {
	case *ssa.BinOp:
		return usesValue(cond.X, v) || usesValue(cond.Y, v)

	case *ssa.UnOp:
		return usesValue(cond.X, v)

	case *ssa.Convert:
		return usesValue(cond.X, v)

	default:
		return cond == v
	}
}
