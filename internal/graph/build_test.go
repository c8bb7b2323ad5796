package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flightworks/derive/internal/catalog"
	"github.com/flightworks/derive/internal/node"
)

func noopDerive(ctx context.Context, in *node.Inputs) (node.Result, error) {
	return node.InstantResult(), nil
}

func spec(output string, requires node.Requirement) *node.Spec {
	return &node.Spec{
		Output:   output,
		Kind:     node.KindInstantEvent,
		Requires: requires,
		Derive:   noopDerive,
	}
}

func TestBuildPrunesUnsatisfiable(t *testing.T) {
	cat := catalog.New()
	cat.Register(spec("Needs Both", node.AllOf("A", "B")))
	cat.Register(spec("Needs Either", node.AnyOf("A", "B")))

	g, err := Build(context.Background(), []string{"A"}, cat, nil, "")
	require.NoError(t, err)

	assert.NotContains(t, g.Nodes, "Needs Both", "all-of with a missing name is excluded")
	assert.Contains(t, g.Nodes, "Needs Either", "any-of with one present name is included")

	deps, err := g.Dependencies("Needs Either")
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, deps)
}

func TestBuildTransitivePruning(t *testing.T) {
	cat := catalog.New()
	cat.Register(spec("Mid", node.AllOf("Missing")))
	cat.Register(spec("Top", node.AllOf("Mid")))

	g, err := Build(context.Background(), []string{"A"}, cat, nil, "")
	require.NoError(t, err)

	assert.NotContains(t, g.Nodes, "Mid")
	assert.NotContains(t, g.Nodes, "Top", "a node whose dependency chain breaks is excluded transitively")
}

func TestBuildDerivedChain(t *testing.T) {
	cat := catalog.New()
	cat.Register(spec("Mid", node.AllOf("A")))
	cat.Register(spec("Top", node.AllOf("Mid")))

	g, err := Build(context.Background(), []string{"A"}, cat, nil, "")
	require.NoError(t, err)

	require.Contains(t, g.Nodes, "Top")
	deps, err := g.Dependencies("Top")
	require.NoError(t, err)
	assert.Equal(t, []string{"Mid"}, deps, "a node may depend on another node's output")
}

func TestBuildRequestedSubgraph(t *testing.T) {
	cat := catalog.New()
	cat.Register(spec("Wanted", node.AllOf("A")))
	cat.Register(spec("Unwanted", node.AllOf("B")))

	g, err := Build(context.Background(), []string{"A", "B"}, cat, []string{"Wanted"}, "")
	require.NoError(t, err)

	assert.Contains(t, g.Nodes, "Wanted")
	assert.Contains(t, g.Nodes, "A")
	assert.NotContains(t, g.Nodes, "Unwanted")
	assert.NotContains(t, g.Nodes, "B", "channels feeding only unrequested nodes are pruned")
}

func TestBuildUnknownRequestedOutput(t *testing.T) {
	cat := catalog.New()
	cat.Register(spec("X", node.AllOf("A")))

	_, err := Build(context.Background(), []string{"A"}, cat, []string{"Nope"}, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, catalog.ErrUnknownOutput)
}

func TestBuildRequestedButInoperable(t *testing.T) {
	cat := catalog.New()
	cat.Register(spec("X", node.AllOf("Missing")))

	g, err := Build(context.Background(), []string{"A"}, cat, []string{"X"}, "")
	require.NoError(t, err, "an inoperable requested output is absent, not an error")
	assert.NotContains(t, g.Nodes, "X")
}

func TestBuildCatalogCycleIsFatal(t *testing.T) {
	cat := catalog.New()
	cat.Register(spec("P", node.AllOf("Q")))
	cat.Register(spec("Q", node.AllOf("P")))

	_, err := Build(context.Background(), []string{"A"}, cat, nil, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCycle)
}

func TestBuildSelfDependencyIsFatal(t *testing.T) {
	cat := catalog.New()
	cat.Register(spec("P", node.AllOf("P", "A")))

	_, err := Build(context.Background(), []string{"A"}, cat, nil, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCycle)
}

func TestBuildLongerCycleIsFatal(t *testing.T) {
	cat := catalog.New()
	cat.Register(spec("P", node.AllOf("Q")))
	cat.Register(spec("Q", node.AllOf("R")))
	cat.Register(spec("R", node.AllOf("P")))

	_, err := Build(context.Background(), []string{"A"}, cat, nil, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCycle)
}
