// Package loop provides utilities for loop representation and detection.
//
// Loops are natural loops of a function's control flow graph, found from back
// edges whose target dominates their source. The loops of a function form a
// Forest, where each loop knows its parent and sub-loops.
//
// Besides the structure (header, latches, exiting blocks, preheader), the
// package locates the canonical induction variable of a loop, i.e. the single
// header Phi which counts iterations and controls the loop exit, and the
// increment operation which computes its next value.
package loop
