package loop

import (
	"sort"

	"golang.org/x/tools/go/ssa"
)

// Order is the order in which Walk visits the loops of a Forest.
type Order int

const (
	PreOrder  Order = iota // Parents before their sub-loops.
	PostOrder              // Sub-loops before their parents.
)

// Forest is the loop nesting forest of a Function.
type Forest struct {
	fn    *ssa.Function
	roots []*Loop
	byHdr map[*ssa.BasicBlock]*Loop
}

// NewForest detects the natural loops of fn.
//
// A back edge is an edge b → h where h dominates b; all back edges to the same
// header form one loop. The body of the loop is every block which reaches a
// latch without going through the header. A loop is nested in the smallest
// other loop containing its header.
func NewForest(fn *ssa.Function) *Forest {
	f := &Forest{
		fn:    fn,
		byHdr: make(map[*ssa.BasicBlock]*Loop),
	}
	if len(fn.Blocks) == 0 {
		return f
	}
	_ = fn.DomPreorder() // Make sure dominator tree is built.

	latches := make(map[*ssa.BasicBlock][]*ssa.BasicBlock)
	var headers []*ssa.BasicBlock
	for _, b := range fn.Blocks {
		for _, succ := range b.Succs {
			if succ == fn.Recover {
				continue
			}
			if succ.Dominates(b) {
				if _, exists := latches[succ]; !exists {
					headers = append(headers, succ)
				}
				latches[succ] = append(latches[succ], b)
			}
		}
	}
	sort.Slice(headers, func(i, j int) bool { return headers[i].Index < headers[j].Index })

	var all []*Loop
	for _, h := range headers {
		l := newLoop(fn, h, latches[h])
		all = append(all, l)
		f.byHdr[h] = l
	}

	for _, child := range all {
		var parent *Loop
		for _, candidate := range all {
			if candidate == child || !candidate.Contains(child.header) {
				continue
			}
			if parent == nil || len(candidate.members) < len(parent.members) {
				parent = candidate
			}
		}
		if parent != nil {
			child.parent = parent
			parent.subLoops = append(parent.subLoops, child)
		} else {
			f.roots = append(f.roots, child)
		}
	}
	return f
}

// Function returns the Function of the forest.
func (f *Forest) Function() *ssa.Function { return f.fn }

// TopLevel returns the outermost loops ordered by header index.
func (f *Forest) TopLevel() []*Loop { return f.roots }

// LoopFor returns the loop with header h, or nil if h is not a loop header.
func (f *Forest) LoopFor(h *ssa.BasicBlock) *Loop { return f.byHdr[h] }

// Len returns the total number of loops, including nested loops.
func (f *Forest) Len() int { return len(f.byHdr) }

// Walk calls visit for every loop of the forest in the given order.
// Loops at the same nesting level are visited in header index order.
func (f *Forest) Walk(order Order, visit func(l *Loop)) {
	var stack []*Loop
	push := func(loops ...*Loop) { stack = append(stack, loops...) }
	if order == PostOrder {
		push(f.roots...)
	} else {
		for i := len(f.roots) - 1; i >= 0; i-- {
			push(f.roots[i])
		}
	}

	var post []*Loop // Reversed post-order.
	for len(stack) > 0 {
		l := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		switch order {
		case PreOrder:
			visit(l)
			for i := len(l.subLoops) - 1; i >= 0; i-- {
				push(l.subLoops[i])
			}
		case PostOrder:
			post = append(post, l)
			push(l.subLoops...)
		}
	}
	for i := len(post) - 1; i >= 0; i-- {
		visit(post[i])
	}
}
