package nodes

import (
	"context"
	"fmt"

	"github.com/flightworks/derive/internal/catalog"
	"github.com/flightworks/derive/internal/node"
	"github.com/flightworks/derive/internal/signal"
)

// registerAltitudeAAL declares the derived above-airfield-level altitude
// signal. Pressure altitude is rebased so the lowest valid sample reads
// zero; the radio altimeter serves as a fallback source.
func registerAltitudeAAL(cat *catalog.Catalog) {
	cat.Register(&node.Spec{
		Output:   OutAltitudeAAL,
		Kind:     node.KindSignal,
		Requires: node.AnyOf(ChanAltitudeSTD, ChanAltitudeRadio),
		Derive:   deriveAltitudeAAL,
	})
}

func deriveAltitudeAAL(ctx context.Context, in *node.Inputs) (node.Result, error) {
	src := in.Signal(ChanAltitudeSTD)
	if src == nil {
		src = in.Signal(ChanAltitudeRadio)
	}
	if src == nil {
		return node.Result{}, fmt.Errorf("no altitude source resolved")
	}

	low := signal.MinValidIndex(src, 0, src.Len())
	if low == -1 {
		return node.Result{}, fmt.Errorf("altitude source %q is fully masked", src.Name)
	}
	field := src.Values[low]

	out := signal.Map(OutAltitudeAAL, src, func(v float64) float64 { return v - field })
	return node.SignalResult(out), nil
}
