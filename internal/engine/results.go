package engine

import "github.com/flightworks/derive/internal/node"

// SkippedNode records a node whose compute step failed. Skips are node-local:
// the rest of the plan still ran.
type SkippedNode struct {
	Output string
	Reason string
}

// Results is everything one flight's processing produced: the three
// flight-level event collections, the names of the derived signals written
// back into the container, and the list of skipped computations.
type Results struct {
	KPVs    []node.KPV
	KTIs    []node.KTI
	Phases  []node.Phase
	Derived []string
	Skipped []SkippedNode
}
