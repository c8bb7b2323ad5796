// Package signal implements the masked time-series type shared by the whole
// derivation pipeline, together with the time-base alignment rules that allow
// channels recorded at different sample rates and phase offsets to be
// combined sample-for-sample.
//
// Every sample carries a validity flag. Operations that combine two signals
// AND their validity masks; operations that resample never manufacture a
// valid value from invalid source samples.
package signal

import (
	"fmt"
	"math"
)

// Signal is a single named time series with its own sample rate and phase
// offset. Values and Valid are always the same length.
type Signal struct {
	Name   string
	Hz     float64
	Offset float64
	Values []float64
	Valid  []bool
}

// New builds a Signal from raw samples. A nil valid mask means every sample
// is valid.
func New(name string, hz, offset float64, values []float64, valid []bool) *Signal {
	if valid == nil {
		valid = make([]bool, len(values))
		for i := range valid {
			valid[i] = true
		}
	}
	if len(valid) != len(values) {
		panic(fmt.Sprintf("signal %q: %d values but %d mask entries", name, len(values), len(valid)))
	}
	return &Signal{Name: name, Hz: hz, Offset: offset, Values: values, Valid: valid}
}

// Len returns the number of samples.
func (s *Signal) Len() int {
	return len(s.Values)
}

// At returns the sample at index i and whether it is valid. Out-of-range
// indices are invalid.
func (s *Signal) At(i int) (float64, bool) {
	if i < 0 || i >= len(s.Values) {
		return 0, false
	}
	return s.Values[i], s.Valid[i]
}

// Clone returns a deep copy of the signal.
func (s *Signal) Clone() *Signal {
	values := make([]float64, len(s.Values))
	copy(values, s.Values)
	valid := make([]bool, len(s.Valid))
	copy(valid, s.Valid)
	return &Signal{Name: s.Name, Hz: s.Hz, Offset: s.Offset, Values: values, Valid: valid}
}

// SameGrid reports whether the signal is already on the given time base.
func (s *Signal) SameGrid(hz, offset float64) bool {
	return s.Hz == hz && s.Offset == offset
}

// ValidCount returns the number of valid samples.
func (s *Signal) ValidCount() int {
	n := 0
	for _, ok := range s.Valid {
		if ok {
			n++
		}
	}
	return n
}

// AllInvalid reports whether no sample in the signal is valid. An empty
// signal counts as all-invalid.
func (s *Signal) AllInvalid() bool {
	return s.ValidCount() == 0
}

// FirstValid returns the index of the first valid sample, or -1.
func (s *Signal) FirstValid() int {
	for i, ok := range s.Valid {
		if ok {
			return i
		}
	}
	return -1
}

// LastValid returns the index of the last valid sample, or -1.
func (s *Signal) LastValid() int {
	for i := len(s.Valid) - 1; i >= 0; i-- {
		if s.Valid[i] {
			return i
		}
	}
	return -1
}

// Combine applies f sample-wise to two signals on the same grid. The result
// is valid only where both inputs are valid. It is an error to combine
// signals on different grids; callers align first.
func Combine(name string, a, b *Signal, f func(x, y float64) float64) (*Signal, error) {
	if !a.SameGrid(b.Hz, b.Offset) {
		return nil, fmt.Errorf("cannot combine %q (%gHz %+gs) with %q (%gHz %+gs): different time bases",
			a.Name, a.Hz, a.Offset, b.Name, b.Hz, b.Offset)
	}
	n := len(a.Values)
	if len(b.Values) < n {
		n = len(b.Values)
	}
	values := make([]float64, n)
	valid := make([]bool, n)
	for i := 0; i < n; i++ {
		if a.Valid[i] && b.Valid[i] {
			values[i] = f(a.Values[i], b.Values[i])
			valid[i] = true
		}
	}
	return &Signal{Name: name, Hz: a.Hz, Offset: a.Offset, Values: values, Valid: valid}, nil
}

// Map applies f to every valid sample, preserving the mask.
func Map(name string, s *Signal, f func(x float64) float64) *Signal {
	out := s.Clone()
	out.Name = name
	for i, ok := range out.Valid {
		if ok {
			out.Values[i] = f(out.Values[i])
		}
	}
	return out
}

// Diff returns the first difference of a signal: out[i] = s[i+1] - s[i].
// The result has one fewer sample and is valid only where both contributing
// samples are valid.
func Diff(s *Signal) *Signal {
	if s.Len() == 0 {
		return &Signal{Name: s.Name, Hz: s.Hz, Offset: s.Offset}
	}
	values := make([]float64, s.Len()-1)
	valid := make([]bool, s.Len()-1)
	for i := 0; i < s.Len()-1; i++ {
		if s.Valid[i] && s.Valid[i+1] {
			values[i] = s.Values[i+1] - s.Values[i]
			valid[i] = true
		}
	}
	return &Signal{Name: s.Name, Hz: s.Hz, Offset: s.Offset, Values: values, Valid: valid}
}

// IndexToSeconds converts a sample index on this signal's grid to seconds
// from recording start.
func (s *Signal) IndexToSeconds(i float64) float64 {
	return s.Offset + i/s.Hz
}

// SecondsToIndex converts seconds from recording start to a (fractional)
// sample index on this signal's grid.
func (s *Signal) SecondsToIndex(t float64) float64 {
	return (t - s.Offset) * s.Hz
}

// clampIndex bounds a fractional index to the addressable sample range.
func (s *Signal) clampIndex(p float64) float64 {
	if p < 0 {
		return 0
	}
	if max := float64(s.Len() - 1); p > max {
		return max
	}
	return p
}

// interpolateAt samples the signal at fractional index p by linear
// interpolation between the two bracketing samples. The result is invalid if
// either bracketing sample is invalid, so masked spans are never interpolated
// across.
func (s *Signal) interpolateAt(p float64) (float64, bool) {
	if s.Len() == 0 {
		return 0, false
	}
	p = s.clampIndex(p)
	lo := int(math.Floor(p))
	hi := int(math.Ceil(p))
	if lo == hi {
		return s.Values[lo], s.Valid[lo]
	}
	if !s.Valid[lo] || !s.Valid[hi] {
		return 0, false
	}
	frac := p - float64(lo)
	return s.Values[lo]*(1-frac) + s.Values[hi]*frac, true
}
