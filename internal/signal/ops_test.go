package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrossingIndex(t *testing.T) {
	t.Run("rising crossing interpolates", func(t *testing.T) {
		s := New("vs", 1, 0, []float64{-300, -200, -100, 0, 100}, nil)

		idx, ok := CrossingIndex(s, -150, 0, s.Len(), true)
		require.True(t, ok)
		assert.InDelta(t, 1.5, idx, 1e-9)
	})

	t.Run("falling crossing", func(t *testing.T) {
		s := New("ra", 1, 0, []float64{50, 30, 10, 0, 0}, nil)

		idx, ok := CrossingIndex(s, 20, 0, s.Len(), false)
		require.True(t, ok)
		assert.InDelta(t, 1.5, idx, 1e-9)
	})

	t.Run("masked samples never cross", func(t *testing.T) {
		s := New("vs", 1, 0, []float64{-300, -100, 100}, []bool{true, false, true})

		_, ok := CrossingIndex(s, 0, 0, s.Len(), true)
		assert.False(t, ok)
	})

	t.Run("no crossing in window", func(t *testing.T) {
		s := New("vs", 1, 0, []float64{-300, -200, -100, 0, 100}, nil)

		_, ok := CrossingIndex(s, -150, 3, s.Len(), true)
		assert.False(t, ok)
	})
}

func TestEdges(t *testing.T) {
	s := New("sw", 1, 0, []float64{0, 0, 1, 1, 0, 1}, nil)

	assert.Equal(t, []float64{2, 5}, RisingEdges(s, 0, s.Len()))
	assert.Equal(t, []float64{4}, FallingEdges(s, 0, s.Len()))

	t.Run("window restricts search", func(t *testing.T) {
		assert.Equal(t, []float64{5}, RisingEdges(s, 3, s.Len()))
	})
}

func TestMinMaxValidIndex(t *testing.T) {
	s := New("a", 1, 0, []float64{5, 1, 9, 3}, []bool{true, true, false, true})

	assert.Equal(t, 1, MinValidIndex(s, 0, s.Len()))
	assert.Equal(t, 0, MaxValidIndex(s, 0, s.Len()), "masked maximum is ignored")
	assert.Equal(t, -1, MaxValidIndex(s, 2, 3), "all-masked window")
}
