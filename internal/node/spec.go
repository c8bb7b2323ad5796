package node

import "context"

// DeriveFunc is a node's compute step. It receives the resolved, aligned
// dependency data and returns one result of the spec's declared kind. Errors
// (and panics) raised here are node-local: the engine logs and skips the
// node without aborting the flight.
type DeriveFunc func(ctx context.Context, in *Inputs) (Result, error)

// Spec is the static description of one computation in the catalogue.
// Multiple Specs may declare the same Output (aircraft-type-specific
// variants); the catalog selects exactly one operable variant per flight.
type Spec struct {
	// Output is the name this node's result is registered under.
	Output string
	// Kind declares what the node produces.
	Kind ResultKind
	// Requires declares the dependencies, with AllOf/AnyOf combinators.
	Requires Requirement
	// Priority orders competing variants of the same output; higher wins.
	Priority int
	// Aircraft restricts the variant to one aircraft type ("" = any). A
	// variant matching the flight's aircraft type beats any priority.
	Aircraft string
	// PerInterval names an interval dependency. When set, Derive runs once
	// per interval of that output instead of once per flight, with the
	// window and the node's own prior results threaded into the inputs.
	PerInterval string
	// Derive is the compute step.
	Derive DeriveFunc
}
