package signal

import "math"

// Resample returns the signal re-expressed on the (hz, offset) grid with n
// samples. Resampling a signal onto its own grid at its own length is the
// identity and returns the receiver untouched.
//
// Off-grid samples are produced by linear interpolation between the two
// bracketing source samples. A target sample is invalid whenever either
// bracketing source sample is invalid: resampling must not manufacture
// values across masked spans. Target samples before the first or after the
// last source sample are clamped to the edge sample and carry its validity.
func (s *Signal) Resample(hz, offset float64, n int) *Signal {
	if s.SameGrid(hz, offset) && s.Len() == n {
		return s
	}

	values := make([]float64, n)
	valid := make([]bool, n)
	for i := 0; i < n; i++ {
		t := offset + float64(i)/hz
		p := s.SecondsToIndex(t)
		values[i], valid[i] = s.interpolateAt(p)
	}
	return &Signal{Name: s.Name, Hz: hz, Offset: offset, Values: values, Valid: valid}
}

// AlignTo resamples the signal onto ref's grid and length. Already-aligned
// signals pass through unchanged.
func (s *Signal) AlignTo(ref *Signal) *Signal {
	return s.Resample(ref.Hz, ref.Offset, ref.Len())
}

// AlignAll reconciles a set of signals onto a single common grid: the grid of
// the highest-rate signal, with ties broken by the smallest phase offset.
// The returned slice is parallel to the input. An empty input is returned
// as-is.
func AlignAll(signals []*Signal) []*Signal {
	if len(signals) < 2 {
		return signals
	}

	ref := signals[0]
	for _, s := range signals[1:] {
		if s.Hz > ref.Hz || (s.Hz == ref.Hz && s.Offset < ref.Offset) {
			ref = s
		}
	}

	// Use the longest duration among inputs so no signal is truncated.
	n := 0
	for _, s := range signals {
		want := int(math.Round(float64(s.Len()) * ref.Hz / s.Hz))
		if want > n {
			n = want
		}
	}

	out := make([]*Signal, len(signals))
	for i, s := range signals {
		out[i] = s.Resample(ref.Hz, ref.Offset, n)
	}
	return out
}
