package loop

// Analyser is an interface for Loop analysis,
// called once for each loop of a Forest.
type Analyser interface {
	// Order is the order the analyser expects loops to be visited.
	Order() Order

	// VisitLoop analyses a loop, and returns true if the loop was modified.
	VisitLoop(l *Loop) bool
}
