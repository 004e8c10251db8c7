package loop

import (
	"fmt"
	"sort"

	"golang.org/x/tools/go/ssa"
)

// Loop is a natural loop of a Function.
type Loop struct {
	fn      *ssa.Function
	header  *ssa.BasicBlock
	latches []*ssa.BasicBlock        // Sources of the back edges, by index.
	blocks  []*ssa.BasicBlock        // Header first, then by index.
	members map[*ssa.BasicBlock]bool // Quick lookup for blocks.

	parent   *Loop
	subLoops []*Loop
}

func newLoop(fn *ssa.Function, header *ssa.BasicBlock, latches []*ssa.BasicBlock) *Loop {
	l := &Loop{
		fn:      fn,
		header:  header,
		members: map[*ssa.BasicBlock]bool{header: true},
	}
	var worklist []*ssa.BasicBlock
	for _, latch := range latches {
		if !l.members[latch] {
			l.members[latch] = true
			worklist = append(worklist, latch)
		}
	}
	for len(worklist) > 0 {
		b := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		for _, pred := range b.Preds {
			if !l.members[pred] {
				l.members[pred] = true
				worklist = append(worklist, pred)
			}
		}
	}

	l.blocks = append(l.blocks, header)
	for _, b := range fn.Blocks {
		if b != header && l.members[b] {
			l.blocks = append(l.blocks, b)
		}
	}
	l.latches = append(l.latches, latches...)
	sort.Slice(l.latches, func(i, j int) bool { return l.latches[i].Index < l.latches[j].Index })
	return l
}

// Function returns the Function the loop belongs to.
func (l *Loop) Function() *ssa.Function { return l.fn }

// Header returns the loop header, the target of all back edges.
func (l *Loop) Header() *ssa.BasicBlock { return l.header }

// Blocks returns the blocks of the loop, header first, then the remaining
// blocks in Function block order.
func (l *Loop) Blocks() []*ssa.BasicBlock { return l.blocks }

// Contains returns true if b is part of the loop (or any sub-loop).
func (l *Loop) Contains(b *ssa.BasicBlock) bool { return l.members[b] }

// Parent returns the enclosing loop, or nil for a top-level loop.
func (l *Loop) Parent() *Loop { return l.parent }

// SubLoops returns the loops directly nested in l, ordered by header index.
func (l *Loop) SubLoops() []*Loop { return l.subLoops }

// Depth returns the nesting depth of l, 1 for top-level loops.
func (l *Loop) Depth() int {
	depth := 1
	for p := l.parent; p != nil; p = p.parent {
		depth++
	}
	return depth
}

// Latches returns the blocks with a back edge to the header.
func (l *Loop) Latches() []*ssa.BasicBlock { return l.latches }

// Latch returns the single latch of the loop, or nil if there are more.
func (l *Loop) Latch() *ssa.BasicBlock {
	if len(l.latches) != 1 {
		return nil
	}
	return l.latches[0]
}

// IsLatch returns true if b is a block in the loop with an edge to the header.
func (l *Loop) IsLatch(b *ssa.BasicBlock) bool {
	for _, latch := range l.latches {
		if latch == b {
			return true
		}
	}
	return false
}

// IsExiting returns true if b is a block in the loop with an edge leaving the
// loop.
func (l *Loop) IsExiting(b *ssa.BasicBlock) bool {
	if !l.members[b] {
		return false
	}
	for _, succ := range b.Succs {
		if !l.members[succ] {
			return true
		}
	}
	return false
}

// ExitingBlocks returns the blocks in the loop with an edge leaving the loop.
func (l *Loop) ExitingBlocks() []*ssa.BasicBlock {
	var exiting []*ssa.BasicBlock
	for _, b := range l.blocks {
		if l.IsExiting(b) {
			exiting = append(exiting, b)
		}
	}
	return exiting
}

// ExitBlocks returns the blocks outside of the loop which are targets of an
// edge leaving the loop, ordered by index.
func (l *Loop) ExitBlocks() []*ssa.BasicBlock {
	seen := make(map[*ssa.BasicBlock]bool)
	var exits []*ssa.BasicBlock
	for _, b := range l.blocks {
		for _, succ := range b.Succs {
			if !l.members[succ] && !seen[succ] {
				seen[succ] = true
				exits = append(exits, succ)
			}
		}
	}
	sort.Slice(exits, func(i, j int) bool { return exits[i].Index < exits[j].Index })
	return exits
}

// Preheader returns the single block outside of the loop which enters the
// header, provided that it has no other successor. Otherwise returns nil.
func (l *Loop) Preheader() *ssa.BasicBlock {
	var pre *ssa.BasicBlock
	for _, pred := range l.header.Preds {
		if l.members[pred] {
			continue
		}
		if pre != nil && pre != pred {
			return nil
		}
		pre = pred
	}
	if pre == nil || len(pre.Succs) != 1 {
		return nil
	}
	return pre
}

// HasDedicatedExits returns true if every exit block is only entered from
// inside the loop.
func (l *Loop) HasDedicatedExits() bool {
	for _, exit := range l.ExitBlocks() {
		for _, pred := range exit.Preds {
			if !l.members[pred] {
				return false
			}
		}
	}
	return true
}

// IsSimplified returns true if the loop is in simplified form: it has a
// preheader, a single latch and dedicated exits.
func (l *Loop) IsSimplified() bool {
	return l.Preheader() != nil && l.Latch() != nil && l.HasDedicatedExits()
}

func (l *Loop) String() string {
	return fmt.Sprintf("L_%s#%d", l.fn.Name(), l.header.Index)
}
