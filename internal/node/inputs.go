package node

import "github.com/flightworks/derive/internal/signal"

// Inputs is the per-invocation view of a node's resolved dependencies. The
// engine populates it with raw channels, previously computed results, and,
// for per-interval nodes, the node's own prior outputs for this flight.
//
// Absent dependencies answer nil/empty rather than erroring: sensor absence
// is a normal condition that availability resolution has already accounted
// for.
type Inputs struct {
	signals  map[string]*signal.Signal
	results  map[string]Result
	prior    Result
	window   *Phase
	duration float64
	aircraft string
}

// NewInputs creates an empty input set for a flight of the given duration
// and aircraft type.
func NewInputs(duration float64, aircraft string) *Inputs {
	return &Inputs{
		signals:  make(map[string]*signal.Signal),
		results:  make(map[string]Result),
		duration: duration,
		aircraft: aircraft,
	}
}

// AddSignal binds a dependency signal under its own name.
func (in *Inputs) AddSignal(s *signal.Signal) {
	in.signals[s.Name] = s
}

// AddResult binds a previously computed result under its output name.
func (in *Inputs) AddResult(name string, r Result) {
	in.results[name] = r
}

// SetWindow restricts a per-interval invocation to one phase.
func (in *Inputs) SetWindow(p Phase) {
	in.window = &p
}

// SetPrior threads the node's own previously emitted results for this flight
// into the next invocation.
func (in *Inputs) SetPrior(r Result) {
	in.prior = r
}

// Signal returns the dependency signal with the given name, or nil when it
// was not resolved.
func (in *Inputs) Signal(name string) *signal.Signal {
	if s, ok := in.signals[name]; ok {
		return s
	}
	if r, ok := in.results[name]; ok {
		return r.Signal
	}
	return nil
}

// Instants returns the key time instants computed earlier under name.
func (in *Inputs) Instants(name string) []KTI {
	return in.results[name].Instants
}

// Intervals returns the phases computed earlier under name.
func (in *Inputs) Intervals(name string) []Phase {
	return in.results[name].Intervals
}

// Scalars returns the key point values computed earlier under name.
func (in *Inputs) Scalars(name string) []KPV {
	return in.results[name].Scalars
}

// Prior returns the node's own results accumulated so far this flight.
// Outside per-interval invocation it is always empty.
func (in *Inputs) Prior() Result {
	return in.prior
}

// Window returns the phase this invocation is restricted to, or nil for a
// whole-flight invocation.
func (in *Inputs) Window() *Phase {
	return in.window
}

// Duration returns the flight duration in seconds.
func (in *Inputs) Duration() float64 {
	return in.duration
}

// Aircraft returns the flight's aircraft type ("" when unknown).
func (in *Inputs) Aircraft() string {
	return in.aircraft
}

// Resolved returns the names of every bound dependency. The engine aborts
// the flight when this comes back empty for a planned node.
func (in *Inputs) Resolved() []string {
	out := make([]string, 0, len(in.signals)+len(in.results))
	for n := range in.signals {
		out = append(out, n)
	}
	for n := range in.results {
		if _, dup := in.signals[n]; !dup {
			out = append(out, n)
		}
	}
	return out
}
