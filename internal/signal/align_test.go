package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResampleIdentity(t *testing.T) {
	s := New("a", 2, 0.5, []float64{1, 2, 3, 4}, []bool{true, false, true, true})

	out := s.Resample(2, 0.5, 4)
	assert.Same(t, s, out, "resampling onto the signal's own grid is the identity")
}

func TestResampleUpsamples(t *testing.T) {
	s := New("a", 1, 0, []float64{0, 10, 20, 30}, nil)

	out := s.Resample(2, 0, 8)
	require.Equal(t, 8, out.Len())
	assert.Equal(t, 0.0, out.Values[0])
	assert.Equal(t, 5.0, out.Values[1], "midpoint interpolates linearly")
	assert.Equal(t, 10.0, out.Values[2])
	assert.Equal(t, 25.0, out.Values[5])

	// Beyond the last source sample the edge value is held, with its
	// validity.
	assert.Equal(t, 30.0, out.Values[7])
	assert.True(t, out.Valid[7])
}

func TestResamplePreservesMaskedGaps(t *testing.T) {
	s := New("a", 1, 0, []float64{0, 10, 20, 30}, []bool{true, false, true, true})

	out := s.Resample(2, 0, 8)

	// Any target sample whose bracketing source samples include the masked
	// index 1 must be invalid; nothing may be interpolated across the gap.
	assert.False(t, out.Valid[1], "between valid 0 and masked 1")
	assert.False(t, out.Valid[2], "exactly on masked sample")
	assert.False(t, out.Valid[3], "between masked 1 and valid 2")
	assert.True(t, out.Valid[0])
	assert.True(t, out.Valid[4])
}

func TestResamplePhaseOffset(t *testing.T) {
	s := New("a", 1, 0, []float64{0, 10, 20, 30}, nil)

	out := s.Resample(1, 0.5, 4)
	require.Equal(t, 4, out.Len())
	assert.Equal(t, 5.0, out.Values[0], "half-sample offset interpolates midpoints")
	assert.Equal(t, 15.0, out.Values[1])
}

func TestAlignAll(t *testing.T) {
	t.Run("aligns to highest rate", func(t *testing.T) {
		slow := New("slow", 1, 0, []float64{0, 10, 20, 30}, nil)
		fast := New("fast", 2, 0, []float64{0, 1, 2, 3, 4, 5, 6, 7}, nil)

		out := AlignAll([]*Signal{slow, fast})
		require.Len(t, out, 2)
		assert.Equal(t, 2.0, out[0].Hz)
		assert.Equal(t, 8, out[0].Len())
		assert.Same(t, fast, out[1], "reference signal passes through untouched")
	})

	t.Run("single signal passes through", func(t *testing.T) {
		s := New("a", 4, 0, []float64{1, 2}, nil)
		out := AlignAll([]*Signal{s})
		require.Len(t, out, 1)
		assert.Same(t, s, out[0])
	})

	t.Run("rate tie broken by smaller offset", func(t *testing.T) {
		early := New("early", 1, 0, []float64{1, 2, 3}, nil)
		late := New("late", 1, 0.25, []float64{1, 2, 3}, nil)

		out := AlignAll([]*Signal{late, early})
		assert.Equal(t, 0.0, out[0].Offset)
		assert.Equal(t, 0.0, out[1].Offset)
	})
}
