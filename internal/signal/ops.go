package signal

// CrossingIndex finds the first index in [from, to) at which the signal
// crosses the threshold in the given direction (rising means from below to at
// or above). The returned index is fractional, interpolated between the two
// samples straddling the crossing. Invalid samples never participate in a
// crossing. The second return value is false when no crossing exists in the
// window.
func CrossingIndex(s *Signal, threshold float64, from, to int, rising bool) (float64, bool) {
	if from < 0 {
		from = 0
	}
	if to > s.Len() {
		to = s.Len()
	}
	for i := from; i < to-1; i++ {
		if !s.Valid[i] || !s.Valid[i+1] {
			continue
		}
		a, b := s.Values[i], s.Values[i+1]
		var crossed bool
		if rising {
			crossed = a < threshold && b >= threshold
		} else {
			crossed = a > threshold && b <= threshold
		}
		if !crossed {
			continue
		}
		if a == b {
			return float64(i), true
		}
		frac := (threshold - a) / (b - a)
		return float64(i) + frac, true
	}
	return 0, false
}

// RisingEdges returns the indices in [from, to) where a discrete signal
// transitions from off (< 0.5) to on (>= 0.5). Transitions involving invalid
// samples are ignored.
func RisingEdges(s *Signal, from, to int) []float64 {
	return edges(s, from, to, true)
}

// FallingEdges returns the indices in [from, to) where a discrete signal
// transitions from on (>= 0.5) to off (< 0.5).
func FallingEdges(s *Signal, from, to int) []float64 {
	return edges(s, from, to, false)
}

func edges(s *Signal, from, to int, rising bool) []float64 {
	if from < 0 {
		from = 0
	}
	if to > s.Len() {
		to = s.Len()
	}
	var out []float64
	for i := from; i < to-1; i++ {
		if !s.Valid[i] || !s.Valid[i+1] {
			continue
		}
		a := s.Values[i] >= 0.5
		b := s.Values[i+1] >= 0.5
		if rising && !a && b {
			out = append(out, float64(i+1))
		}
		if !rising && a && !b {
			out = append(out, float64(i+1))
		}
	}
	return out
}

// MaxValidIndex returns the index of the largest valid sample in [from, to),
// or -1 when the window holds no valid samples.
func MaxValidIndex(s *Signal, from, to int) int {
	if from < 0 {
		from = 0
	}
	if to > s.Len() {
		to = s.Len()
	}
	best := -1
	for i := from; i < to; i++ {
		if !s.Valid[i] {
			continue
		}
		if best == -1 || s.Values[i] > s.Values[best] {
			best = i
		}
	}
	return best
}

// MinValidIndex returns the index of the smallest valid sample in [from, to),
// or -1 when the window holds no valid samples.
func MinValidIndex(s *Signal, from, to int) int {
	if from < 0 {
		from = 0
	}
	if to > s.Len() {
		to = s.Len()
	}
	best := -1
	for i := from; i < to; i++ {
		if !s.Valid[i] {
			continue
		}
		if best == -1 || s.Values[i] < s.Values[best] {
			best = i
		}
	}
	return best
}
