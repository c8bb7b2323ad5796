package nodes

import (
	"context"
	"math"

	"github.com/flightworks/derive/internal/catalog"
	"github.com/flightworks/derive/internal/node"
	"github.com/flightworks/derive/internal/signal"
	"github.com/flightworks/derive/internal/touchdown"
)

// searchWindowSeconds bounds the consensus search around the coarse
// airborne boundary.
const searchWindowSeconds = 5.0

// dedupSeconds suppresses a second touchdown/liftoff within this many
// seconds of one already emitted (bounced landings produce overlapping
// airborne spans).
const dedupSeconds = 10.0

// registerTouchdownAndLiftoff declares the consensus-detected instants. Both
// run once per Airborne span: touchdown at the span's end, liftoff at its
// start.
func registerTouchdownAndLiftoff(cat *catalog.Catalog, cfg touchdown.Config) {
	sensors := node.AnyOf(
		ChanVertSpeedInert,
		ChanVertSpeed,
		ChanAccelNormal,
		ChanAltitudeRadio,
		ChanGearOnGround,
	)

	cat.Register(&node.Spec{
		Output:      OutTouchdown,
		Kind:        node.KindInstantEvent,
		Requires:    node.AllOf(node.Name(OutAirborne), sensors),
		PerInterval: OutAirborne,
		Derive: func(ctx context.Context, in *node.Inputs) (node.Result, error) {
			return deriveTransition(ctx, in, cfg, false)
		},
	})
	cat.Register(&node.Spec{
		Output:      OutLiftoff,
		Kind:        node.KindInstantEvent,
		Requires:    node.AllOf(node.Name(OutAirborne), sensors),
		PerInterval: OutAirborne,
		Derive: func(ctx context.Context, in *node.Inputs) (node.Result, error) {
			return deriveTransition(ctx, in, cfg, true)
		},
	})
}

func deriveTransition(ctx context.Context, in *node.Inputs, cfg touchdown.Config, liftoff bool) (node.Result, error) {
	window := in.Window()
	if window == nil {
		// Whole-flight invocation means no airborne span, hence no
		// transition to find.
		return node.InstantResult(), nil
	}
	if !liftoff && window.StopOpen {
		// Still airborne at the end of the recording: no touchdown.
		return node.InstantResult(), nil
	}

	sensors := touchdown.Sensors{
		VertSpeedInertial: in.Signal(ChanVertSpeedInert),
		VertSpeedBaro:     in.Signal(ChanVertSpeed),
		NormalAccel:       in.Signal(ChanAccelNormal),
		RadioAlt:          in.Signal(ChanAltitudeRadio),
		GroundSwitch:      in.Signal(ChanGearOnGround),
	}

	// The engine aligned every resolved sensor onto one grid; any present
	// sensor names it.
	var ref *signal.Signal
	for _, s := range []*signal.Signal{
		sensors.VertSpeedInertial, sensors.VertSpeedBaro,
		sensors.NormalAccel, sensors.RadioAlt, sensors.GroundSwitch,
	} {
		if s != nil {
			ref = s
			break
		}
	}
	if ref == nil {
		return node.InstantResult(), nil
	}
	grid := node.GridOf(ref)

	boundary := window.Stop
	label := OutTouchdown
	if liftoff {
		boundary = window.Start
		label = OutLiftoff
	}

	// The airborne boundary lives on the altitude signal's grid; the search
	// window must land on the sensors' grid, so the hand-off goes through
	// seconds.
	boundarySec := window.Grid.ToSeconds(boundary)
	from := int(math.Floor(grid.FromSeconds(boundarySec - searchWindowSeconds)))
	to := int(math.Ceil(grid.FromSeconds(boundarySec+searchWindowSeconds))) + 1

	var idx float64
	var ok bool
	if liftoff {
		idx, ok = touchdown.DetectLiftoff(ctx, sensors, from, to, cfg)
	} else {
		idx, ok = touchdown.Detect(ctx, sensors, from, to, cfg)
	}
	if !ok {
		return node.InstantResult(), nil
	}

	// Deduplicate against instants already emitted for earlier spans of
	// this flight.
	at := grid.ToSeconds(idx)
	for _, prior := range in.Prior().Instants {
		if math.Abs(prior.Grid.ToSeconds(prior.Index)-at) < dedupSeconds {
			return node.InstantResult(), nil
		}
	}

	return node.InstantResult(node.KTI{Index: idx, Label: label, Grid: grid}), nil
}
