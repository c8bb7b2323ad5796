package node

import (
	"fmt"

	"github.com/flightworks/derive/internal/signal"
)

// Result is the tagged union a node returns from Derive. Exactly the field
// matching Kind is populated.
type Result struct {
	Kind      ResultKind
	Signal    *signal.Signal
	Scalars   []KPV
	Instants  []KTI
	Intervals []Phase
}

// SignalResult wraps a derived continuous signal.
func SignalResult(s *signal.Signal) Result {
	return Result{Kind: KindSignal, Signal: s}
}

// ScalarResult wraps one or more key point values.
func ScalarResult(kpvs ...KPV) Result {
	return Result{Kind: KindScalarEvent, Scalars: kpvs}
}

// InstantResult wraps one or more key time instants.
func InstantResult(ktis ...KTI) Result {
	return Result{Kind: KindInstantEvent, Instants: ktis}
}

// IntervalResult wraps one or more phases.
func IntervalResult(phases ...Phase) Result {
	return Result{Kind: KindInterval, Intervals: phases}
}

// Validate checks that the populated field matches the declared kind.
func (r Result) Validate() error {
	switch r.Kind {
	case KindSignal:
		if r.Signal == nil {
			return fmt.Errorf("signal result carries no signal")
		}
	case KindScalarEvent, KindInstantEvent, KindInterval:
		if r.Signal != nil {
			return fmt.Errorf("%s result carries a signal", r.Kind)
		}
	default:
		return fmt.Errorf("unknown result kind %d", int(r.Kind))
	}
	return nil
}

// Empty reports whether the result carries no data at all. An empty result is
// legal: a node may find nothing to report for this flight.
func (r Result) Empty() bool {
	return r.Signal == nil && len(r.Scalars) == 0 && len(r.Instants) == 0 && len(r.Intervals) == 0
}
