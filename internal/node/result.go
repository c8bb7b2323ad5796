// Package node declares the contract between the derivation engine and the
// computations it hosts: the result kinds a node can produce, the
// dependency-declaration combinators, and the input view a node receives when
// invoked.
package node

import (
	"fmt"

	"github.com/flightworks/derive/internal/signal"
)

// ResultKind tags what a node produces. Dispatch in the execution engine is
// a switch over this tag.
type ResultKind int

const (
	// KindSignal is a continuous derived signal aligned to the flight
	// duration, written back into the flight-data container.
	KindSignal ResultKind = iota
	// KindScalarEvent is a key point value: a scalar measurement tied to one
	// sample index.
	KindScalarEvent
	// KindInstantEvent is a key time instant: a labeled index with no
	// magnitude.
	KindInstantEvent
	// KindInterval is a labeled start/stop span of the flight.
	KindInterval
)

// String returns the kind's catalogue name.
func (k ResultKind) String() string {
	switch k {
	case KindSignal:
		return "signal"
	case KindScalarEvent:
		return "kpv"
	case KindInstantEvent:
		return "kti"
	case KindInterval:
		return "phase"
	default:
		return fmt.Sprintf("ResultKind(%d)", int(k))
	}
}

// Grid identifies the sampling grid an event index is expressed on. Signals
// recorded at different rates give their consumers different index spaces, so
// every emitted index carries its grid and crosses node boundaries through
// seconds. The zero value reads as the canonical one-sample-per-second base,
// which keeps single-rate pipelines and test literals unsurprising.
type Grid struct {
	Hz     float64
	Offset float64
}

// GridOf returns the grid a signal's samples live on.
func GridOf(s *signal.Signal) Grid {
	return Grid{Hz: s.Hz, Offset: s.Offset}
}

func (g Grid) hz() float64 {
	if g.Hz == 0 {
		return 1
	}
	return g.Hz
}

// ToSeconds converts an index on this grid to seconds from recording start.
func (g Grid) ToSeconds(i float64) float64 {
	return g.Offset + i/g.hz()
}

// FromSeconds converts seconds from recording start to a fractional index on
// this grid.
func (g Grid) FromSeconds(t float64) float64 {
	return (t - g.Offset) * g.hz()
}

// KPV is a key point value: one scalar at one sample index. Name qualifies
// the measurement (e.g. "Heading At Touchdown").
type KPV struct {
	Index float64
	Value float64
	Name  string
	Grid  Grid
}

// KTI is a key time instant: a labeled index.
type KTI struct {
	Index float64
	Label string
	Grid  Grid
}

// Phase is a labeled start/stop span. Start and Stop are indices on Grid.
// StopOpen marks a span that had not closed by the end of the recording.
type Phase struct {
	Name     string
	Start    float64
	Stop     float64
	StopOpen bool
	Grid     Grid
}

// Contains reports whether the fractional index i falls inside the phase.
func (p Phase) Contains(i float64) bool {
	if i < p.Start {
		return false
	}
	return p.StopOpen || i <= p.Stop
}
