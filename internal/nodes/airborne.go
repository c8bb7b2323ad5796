package nodes

import (
	"context"
	"fmt"

	"github.com/flightworks/derive/internal/catalog"
	"github.com/flightworks/derive/internal/node"
	"github.com/flightworks/derive/internal/signal"
)

// airborneThresholdFt is the above-airfield altitude below which the
// aircraft is treated as on the ground.
const airborneThresholdFt = 10.0

// helicopterThresholdFt is lower: helicopters work in ground effect and a
// fixed-wing threshold would clip hover segments.
const helicopterThresholdFt = 3.0

// registerAirborne declares the Airborne phase in two variants: the default
// built on derived altitude, and a helicopter variant reading the radio
// altimeter directly.
func registerAirborne(cat *catalog.Catalog) {
	cat.Register(&node.Spec{
		Output:   OutAirborne,
		Kind:     node.KindInterval,
		Requires: node.AllOf(OutAltitudeAAL),
		Derive: func(ctx context.Context, in *node.Inputs) (node.Result, error) {
			return deriveAirborne(in, OutAltitudeAAL, airborneThresholdFt)
		},
	})
	cat.Register(&node.Spec{
		Output:   OutAirborne,
		Kind:     node.KindInterval,
		Requires: node.AllOf(ChanAltitudeRadio),
		Aircraft: "helicopter",
		Derive: func(ctx context.Context, in *node.Inputs) (node.Result, error) {
			return deriveAirborne(in, ChanAltitudeRadio, helicopterThresholdFt)
		},
	})
}

// deriveAirborne scans the altitude signal for contiguous valid spans above
// the threshold. A span still open at the last valid sample is emitted
// open-ended.
func deriveAirborne(in *node.Inputs, source string, threshold float64) (node.Result, error) {
	alt := in.Signal(source)
	if alt == nil {
		return node.Result{}, fmt.Errorf("no altitude source resolved")
	}

	grid := node.GridOf(alt)
	var phases []node.Phase
	start := -1
	for i := 0; i < alt.Len(); i++ {
		up := alt.Valid[i] && alt.Values[i] > threshold
		if up && start == -1 {
			start = i
		}
		if !up && start != -1 {
			phases = append(phases, node.Phase{Name: OutAirborne, Start: float64(start), Stop: float64(i - 1), Grid: grid})
			start = -1
		}
	}
	if start != -1 {
		stop := signal.MaxValidIndex(alt, start, alt.Len())
		phases = append(phases, node.Phase{Name: OutAirborne, Start: float64(start), Stop: float64(stop), StopOpen: true, Grid: grid})
	}

	return node.IntervalResult(phases...), nil
}
