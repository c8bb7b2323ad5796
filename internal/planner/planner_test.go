package planner

import (
	"context"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flightworks/derive/internal/catalog"
	"github.com/flightworks/derive/internal/graph"
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

// landingCatalog is a small but realistic derivation set: one synthesized
// altitude, a phase on top of it, two transition detectors and a measurement
// hanging off one of them.
func landingCatalog() *catalog.Catalog {
	cat := catalog.New()
	cat.Register(spec("Altitude AAL", node.AnyOf("Altitude STD", "Altitude Radio")))
	cat.Register(spec("Airborne", node.AllOf("Altitude AAL")))
	cat.Register(spec("Touchdown", node.AllOf("Airborne",
		node.AnyOf("Vertical Speed Inertial", "Acceleration Normal", "Altitude Radio", "Gear On Ground"))))
	cat.Register(spec("Liftoff", node.AllOf("Airborne",
		node.AnyOf("Vertical Speed Inertial", "Acceleration Normal", "Altitude Radio", "Gear On Ground"))))
	cat.Register(spec("Heading At Touchdown", node.AllOf("Heading", "Touchdown")))
	return cat
}

var landingChannels = []string{
	"Acceleration Normal",
	"Altitude Radio",
	"Altitude STD",
	"Gear On Ground",
	"Heading",
	"Vertical Speed Inertial",
}

func buildLanding(t *testing.T) *graph.Graph {
	t.Helper()
	g, err := graph.Build(context.Background(), landingChannels, landingCatalog(), nil, "")
	require.NoError(t, err)
	return g
}

func TestPlanRespectsDependencies(t *testing.T) {
	g := buildLanding(t)

	plan, err := Plan(context.Background(), g)
	require.NoError(t, err)

	position := make(map[string]int)
	for i, name := range plan.Names() {
		position[name] = i
	}

	for _, entry := range plan.Entries {
		deps, err := g.Dependencies(entry.Output)
		require.NoError(t, err)
		for _, dep := range deps {
			if g.Nodes[dep].Kind != graph.SpecNode {
				continue
			}
			assert.Less(t, position[dep], position[entry.Output],
				"%s must run before %s", dep, entry.Output)
		}
	}
}

func TestPlanChannelsAreSources(t *testing.T) {
	g := buildLanding(t)

	plan, err := Plan(context.Background(), g)
	require.NoError(t, err)

	assert.Equal(t, landingChannels, plan.Channels, "raw channels are listed sorted, never scheduled")
	assert.Len(t, plan.Entries, 5)
}

func TestPlanDeterministic(t *testing.T) {
	first, err := Plan(context.Background(), buildLanding(t))
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		again, err := Plan(context.Background(), buildLanding(t))
		require.NoError(t, err)
		require.Equal(t, first.String(), again.String(), "plans must be byte-identical across runs")
	}
}

func TestPlanGolden(t *testing.T) {
	plan, err := Plan(context.Background(), buildLanding(t))
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "landing_plan", []byte(plan.String()))
}

func TestDotGolden(t *testing.T) {
	g := goldie.New(t)
	g.Assert(t, "landing_graph", []byte(Dot(buildLanding(t))))
}

func TestDotShapes(t *testing.T) {
	out := Dot(buildLanding(t))

	assert.Contains(t, out, `"Altitude STD" [shape=box];`)
	assert.Contains(t, out, `"Airborne" [shape=ellipse];`)
	assert.Contains(t, out, `"Airborne" -> "Altitude AAL";`)
}
