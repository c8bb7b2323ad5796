package engine

import "fmt"

// InsufficientDataError is the fatal condition raised when a planned node's
// resolved dependency set turns out empty at execution time. The node's
// presence in the plan promised data that is not there, which signals an
// internal inconsistency; the whole flight's processing is aborted.
type InsufficientDataError struct {
	Output string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("node %q: no dependency data could be gathered", e.Output)
}

// ShapeError is the fatal condition raised when a derived continuous signal's
// sample count does not match duration x frequency. It marks a catalogue
// defect, intended to be caught in testing, not recovered at runtime.
type ShapeError struct {
	Output string
	Got    int
	Want   int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("node %q: derived signal has %d samples, want %d (duration x frequency)",
		e.Output, e.Got, e.Want)
}
