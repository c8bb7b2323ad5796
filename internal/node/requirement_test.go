package node

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func avail(names ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(names))
	for _, n := range names {
		out[n] = struct{}{}
	}
	return out
}

func TestAllOf(t *testing.T) {
	req := AllOf("A", "B")

	t.Run("satisfied when every name present", func(t *testing.T) {
		assert.True(t, req.Satisfied(avail("A", "B", "C")))
	})

	t.Run("unsatisfied when one name missing", func(t *testing.T) {
		assert.False(t, req.Satisfied(avail("A")))
		assert.Empty(t, req.Resolve(avail("A")))
	})

	t.Run("resolves to declared names in order", func(t *testing.T) {
		assert.Equal(t, []string{"A", "B"}, req.Resolve(avail("B", "A")))
	})
}

func TestAnyOf(t *testing.T) {
	req := AnyOf("A", "B")

	t.Run("satisfied by a single alternative", func(t *testing.T) {
		assert.True(t, req.Satisfied(avail("B")))
		assert.Equal(t, []string{"B"}, req.Resolve(avail("B")))
	})

	t.Run("resolves every present alternative", func(t *testing.T) {
		assert.Equal(t, []string{"A", "B"}, req.Resolve(avail("A", "B")))
	})

	t.Run("unsatisfied when none present", func(t *testing.T) {
		assert.False(t, req.Satisfied(avail("C")))
	})
}

func TestNestedCombinators(t *testing.T) {
	// A hard dependency plus a choice of two interchangeable sensors.
	req := AllOf("Airborne", AnyOf("Flap Lever", "Flap Synthetic"))

	assert.True(t, req.Satisfied(avail("Airborne", "Flap Synthetic")))
	assert.Equal(t, []string{"Airborne", "Flap Synthetic"},
		req.Resolve(avail("Airborne", "Flap Synthetic")))

	assert.False(t, req.Satisfied(avail("Flap Lever")))
	assert.Equal(t, []string{"Airborne", "Flap Lever", "Flap Synthetic"}, req.Names())
}

func TestCoerceRejectsOtherTypes(t *testing.T) {
	assert.Panics(t, func() { AllOf(42) })
}
