package nodes

import (
	"context"
	"fmt"
	"math"

	"github.com/flightworks/derive/internal/airport"
	"github.com/flightworks/derive/internal/catalog"
	"github.com/flightworks/derive/internal/node"
	"github.com/flightworks/derive/internal/signal"
)

// registerHeadingAtTouchdown declares a scalar event that depends on a
// previously computed instant, not on any raw channel directly.
func registerHeadingAtTouchdown(cat *catalog.Catalog) {
	cat.Register(&node.Spec{
		Output:   OutHeadingAtTouchdown,
		Kind:     node.KindScalarEvent,
		Requires: node.AllOf(ChanHeading, OutTouchdown),
		Derive:   deriveHeadingAtTouchdown,
	})
}

func deriveHeadingAtTouchdown(ctx context.Context, in *node.Inputs) (node.Result, error) {
	heading := in.Signal(ChanHeading)
	if heading == nil {
		return node.Result{}, fmt.Errorf("heading channel not resolved")
	}

	var kpvs []node.KPV
	for _, tdn := range in.Instants(OutTouchdown) {
		at := tdn.Grid.ToSeconds(tdn.Index)
		v, ok := sampleAtSeconds(heading, at)
		if !ok {
			continue
		}
		kpvs = append(kpvs, node.KPV{
			Index: heading.SecondsToIndex(at),
			Value: v,
			Name:  OutHeadingAtTouchdown,
			Grid:  node.GridOf(heading),
		})
	}
	return node.ScalarResult(kpvs...), nil
}

// registerLandingRunwayHeading declares the lookup-backed scalar: the
// heading of the nearest runway to the touchdown position. The airport
// service is an external collaborator; its failure skips this node only.
func registerLandingRunwayHeading(cat *catalog.Catalog, airports airport.Lookup) {
	cat.Register(&node.Spec{
		Output:   OutLandingRunwayHeading,
		Kind:     node.KindScalarEvent,
		Requires: node.AllOf(ChanLatitude, ChanLongitude, ChanHeading, OutTouchdown),
		Derive: func(ctx context.Context, in *node.Inputs) (node.Result, error) {
			return deriveLandingRunwayHeading(ctx, in, airports)
		},
	})
}

func deriveLandingRunwayHeading(ctx context.Context, in *node.Inputs, airports airport.Lookup) (node.Result, error) {
	if airports == nil {
		return node.Result{}, fmt.Errorf("airport lookup service not configured")
	}
	lat := in.Signal(ChanLatitude)
	lon := in.Signal(ChanLongitude)
	heading := in.Signal(ChanHeading)
	if lat == nil || lon == nil || heading == nil {
		return node.Result{}, fmt.Errorf("position channels not resolved")
	}

	var kpvs []node.KPV
	for _, tdn := range in.Instants(OutTouchdown) {
		at := tdn.Grid.ToSeconds(tdn.Index)
		latV, latOK := sampleAtSeconds(lat, at)
		lonV, lonOK := sampleAtSeconds(lon, at)
		hdgV, hdgOK := sampleAtSeconds(heading, at)
		if !latOK || !lonOK || !hdgOK {
			continue
		}

		apt, err := airports.NearestAirport(ctx, latV, lonV)
		if err != nil {
			return node.Result{}, err
		}
		rwy, err := airports.NearestRunway(ctx, apt.ID, hdgV)
		if err != nil {
			return node.Result{}, err
		}
		kpvs = append(kpvs, node.KPV{
			Index: heading.SecondsToIndex(at),
			Value: rwy.Heading,
			Name:  OutLandingRunwayHeading,
			Grid:  node.GridOf(heading),
		})
	}
	return node.ScalarResult(kpvs...), nil
}

// sampleAtSeconds reads a signal at the sample nearest to a point in flight
// time, whatever grid the signal lives on.
func sampleAtSeconds(s *signal.Signal, t float64) (float64, bool) {
	return s.At(int(math.Round(s.SecondsToIndex(t))))
}
